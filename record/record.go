// Package record implements the Record/Dataset data model: ordered tuples
// addressed by (index, id), with CSV and SPARQL ingestion.
package record

import (
	"fmt"

	"github.com/google/uuid"
)

// Value is the type stored in a record attribute cell. After autocast it is
// one of nil, string, int64, float64, or []Value (a tuple attribute built
// from several columns); records built directly may hold other values, such
// as [2]float64 geographic points.
type Value = interface{}

// Record is an immutable ordered tuple: an id plus a fixed number of
// attribute values.
type Record struct {
	ID         string
	Attributes []Value
}

// Attr returns the attribute at position i, or nil if i is out of range.
func (r Record) Attr(i int) Value {
	if i < 0 || i >= len(r.Attributes) {
		return nil
	}
	return r.Attributes[i]
}

// Ref addresses a single record by its position within a Dataset and its id,
// the universal addressing scheme used by blocks, matched maps, and the
// iterative driver's done-set.
type Ref struct {
	Index int
	ID    string
}

// Dataset is a finite, ordered sequence of records sharing one schema.
// Records are immutable once loaded; position in the sequence is the
// record's index.
type Dataset struct {
	Name    string
	Arity   int
	Records []Record
}

// NewDataset builds a Dataset, validating that every record has exactly
// arity attributes and assigning a synthesized id (a UUID) to any record
// whose id is empty.
func NewDataset(name string, arity int, records []Record) (*Dataset, error) {
	out := make([]Record, len(records))
	for i, r := range records {
		if len(r.Attributes) != arity {
			return nil, fmt.Errorf("record %d: expected %d attributes, got %d", i, arity, len(r.Attributes))
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		out[i] = r
	}
	return &Dataset{Name: name, Arity: arity, Records: out}, nil
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int { return len(d.Records) }

// At returns the record at index i and panics if i is out of range, matching
// Go slice semantics; callers that iterate with Len() never trigger this.
func (d *Dataset) At(i int) Record { return d.Records[i] }

// Ref returns the (index, id) addressing pair for the record at index i.
func (d *Dataset) Ref(i int) Ref { return Ref{Index: i, ID: d.Records[i].ID} }

// Attr returns attribute j of the record at index i.
func (d *Dataset) Attr(i, j int) Value { return d.Records[i].Attr(j) }

// Column returns the slice of attribute j across every record, in dataset
// order; this is the shape the distance-matrix engine and blocking
// strategies consume.
func (d *Dataset) Column(j int) []Value {
	out := make([]Value, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Attr(j)
	}
	return out
}

// Clone returns a Dataset with the same records but independent attribute
// slices, so a NormalizerPipeline can be applied without mutating the
// original (records are documented as immutable once loaded).
func (d *Dataset) Clone() *Dataset {
	out := make([]Record, len(d.Records))
	for i, r := range d.Records {
		attrs := make([]Value, len(r.Attributes))
		copy(attrs, r.Attributes)
		out[i] = Record{ID: r.ID, Attributes: attrs}
	}
	return &Dataset{Name: d.Name, Arity: d.Arity, Records: out}
}
