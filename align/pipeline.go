package align

import (
	"github.com/fulmenhq/nazgo/matrix"
	"github.com/fulmenhq/nazgo/record"
	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// PipelineAligner runs a cascade of Aligners: the first runs over the full
// datasets, and every later stage only considers reference records left
// unmatched by every prior stage — a coarse, cheap aligner can dispose of
// the easy cases before a slower, stricter one handles the remainder.
type PipelineAligner struct {
	Stages []*Aligner
}

// Align runs every stage in turn, merging their matched maps; a ref matched
// by an earlier stage is never reconsidered by a later one. Because each
// stage operates on a dataset rebuilt from only the still-unmatched records
// (so record.Ref.Index is local to that stage), results are remapped back to
// the original dataset's (Index, ID) pairs by id before merging — ids are
// preserved across the rebuild since NewDataset only synthesizes an id when
// one is missing.
func (p *PipelineAligner) Align(ref, target *record.Dataset) (*Result, error) {
	originalByID := make(map[string]record.Ref, ref.Len())
	for i := 0; i < ref.Len(); i++ {
		r := ref.Ref(i)
		originalByID[r.ID] = r
	}

	sparse := matrix.NewSparse()
	matched := make(map[record.Ref][]MatchedPair)
	matchedIDs := make(map[string]bool)

	remaining := ref
	stagesRun := 0
	for _, stage := range p.Stages {
		if remaining.Len() == 0 {
			break
		}
		stageResult, err := stage.Align(remaining, target)
		if err != nil {
			return nil, err
		}
		stagesRun++

		for localRef, pairs := range stageResult.Matched {
			globalRef, ok := originalByID[localRef.ID]
			if !ok {
				globalRef = localRef
			}
			matched[globalRef] = append(matched[globalRef], pairs...)
			matchedIDs[globalRef.ID] = true
			for _, pair := range pairs {
				sparse.Set(globalRef.Index, pair.Target.Index, pair.Distance)
			}
		}

		remaining = subsetByID(remaining, matchedIDs)
	}

	telemetry.EmitCounter(metrics.AlignPipelineStagesTotal, float64(stagesRun), nil)
	return &Result{Matrix: sparse, Matched: matched}, nil
}

// subsetByID builds a dataset containing every record of ds whose id is not
// in excludeIDs, in order.
func subsetByID(ds *record.Dataset, excludeIDs map[string]bool) *record.Dataset {
	var keep []record.Record
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if excludeIDs[r.ID] {
			continue
		}
		keep = append(keep, r)
	}
	out, _ := record.NewDataset(ds.Name, ds.Arity, keep)
	return out
}
