package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ParseSpec describes how to pull attribute values out of a CSV row. Each
// entry is either a single column index or a set of column indices that are
// collapsed into one tuple-valued attribute; an empty-string cell anywhere in
// a tuple attribute nulls the whole attribute, matching the original
// implementation's handling of incomplete coordinate pairs.
type ParseSpec []ColumnSpec

// ColumnSpec is one entry of a ParseSpec: either a single column (len(Cols)
// == 1) or a tuple of columns collapsed into one attribute.
type ColumnSpec struct {
	Cols []int
}

// Col builds a single-column ColumnSpec.
func Col(i int) ColumnSpec { return ColumnSpec{Cols: []int{i}} }

// Tuple builds a tuple-valued ColumnSpec from two or more column indices.
func Tuple(i ...int) ColumnSpec { return ColumnSpec{Cols: i} }

// CSVOptions configures ingestion of one CSV file.
type CSVOptions struct {
	Delimiter rune      // default '\t'
	HasHeader bool      // skip the first line if true
	Spec      ParseSpec // empty means "every column, in file order"
	IDColumn  int       // column to use as the record id; -1 synthesizes one
	NBMax     int       // 0 means unbounded
	Encoding  string    // source byte encoding; "" (or "utf-8") means no conversion
}

// charmapFor resolves the small set of legacy encodings CSV exports from
// older systems tend to use. An empty/"utf-8" name returns (nil, nil),
// meaning "no conversion needed".
func charmapFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "iso8859-15", "latin9":
		return charmap.ISO8859_15, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("record: unsupported encoding %q", name)
	}
}

func autocast(cell string) Value {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n
	}
	normalized := strings.Replace(cell, ",", ".", 1)
	if f, err := strconv.ParseFloat(normalized, 64); err == nil {
		return f
	}
	return cell
}

func applySpec(row []string, spec ParseSpec) []Value {
	if len(spec) == 0 {
		out := make([]Value, len(row))
		for i, cell := range row {
			out[i] = autocast(cell)
		}
		return out
	}
	out := make([]Value, len(spec))
	for i, cs := range spec {
		if len(cs.Cols) == 1 {
			out[i] = cellAt(row, cs.Cols[0])
			continue
		}
		tuple := make([]Value, len(cs.Cols))
		hasEmpty := false
		for j, col := range cs.Cols {
			if col >= len(row) || row[col] == "" {
				hasEmpty = true
			}
			tuple[j] = autocast(cellAt(row, col))
		}
		if hasEmpty {
			out[i] = nil
		} else {
			out[i] = tuple
		}
	}
	return out
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParseCSV reads one CSV stream into []Value rows per the given spec. The id
// column, if configured, is removed from the returned attribute list.
func ParseCSV(r io.Reader, opts CSVOptions) ([]Record, error) {
	if enc, err := charmapFor(opts.Encoding); err != nil {
		return nil, err
	} else if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = '\t'
	}
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, row)
	}
	if opts.HasHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	if opts.NBMax > 0 && len(rows) > opts.NBMax {
		rows = rows[:opts.NBMax]
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		values := applySpec(row, opts.Spec)
		id := ""
		attrs := values
		if opts.IDColumn >= 0 && opts.IDColumn < len(row) {
			id = row[opts.IDColumn]
			attrs = removeIDColumn(values, opts.Spec, opts.IDColumn)
		}
		out = append(out, Record{ID: id, Attributes: attrs})
	}
	return out, nil
}

func removeIDColumn(values []Value, spec ParseSpec, idColumn int) []Value {
	if len(spec) == 0 {
		if idColumn < 0 || idColumn >= len(values) {
			return values
		}
		out := make([]Value, 0, len(values)-1)
		out = append(out, values[:idColumn]...)
		out = append(out, values[idColumn+1:]...)
		return out
	}
	out := make([]Value, 0, len(values))
	for i, cs := range spec {
		if len(cs.Cols) == 1 && cs.Cols[0] == idColumn {
			continue
		}
		out = append(out, values[i])
	}
	return out
}

// LoadCSV parses a single CSV file into a Dataset.
func LoadCSV(name, path string, opts CSVOptions) (*Dataset, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-supplied ingestion path
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ParseCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	arity := 0
	if len(records) > 0 {
		arity = len(records[0].Attributes)
	}
	return NewDataset(name, arity, records)
}

// LoadCSVGlob discovers every file matching pattern (a doublestar glob, so
// "**/*.csv" recurses) and concatenates their records into one Dataset.
// Files are processed in lexical match order so the resulting dataset's
// indices are deterministic across runs.
func LoadCSVGlob(name, pattern string, opts CSVOptions) (*Dataset, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("glob %s matched no files", pattern)
	}

	var all []Record
	arity := -1
	for _, path := range matches {
		f, err := os.Open(path) // #nosec G304 -- caller-supplied glob pattern
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		records, err := ParseCSV(f, opts)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, r := range records {
			if arity == -1 {
				arity = len(r.Attributes)
			}
			all = append(all, r)
		}
	}
	if arity == -1 {
		arity = 0
	}
	return NewDataset(name, arity, all)
}
