// Package align implements the Aligner and PipelineAligner: composing
// normalized, weighted distance processings (optionally scoped by a
// blocking strategy) into a matched map, and writing it out as a result
// file.
package align

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fulmenhq/nazgo/blocking"
	"github.com/fulmenhq/nazgo/matrix"
	"github.com/fulmenhq/nazgo/record"
	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// MatchedPair is one entry of a matched reference record: a target record
// and the composite distance between them.
type MatchedPair struct {
	Target   record.Ref
	Distance float64
}

// Result is the outcome of one alignment pass: the global sparse distance
// matrix and, for every reference record that matched at least one target
// record, its list of matches.
type Result struct {
	Matrix  *matrix.Sparse
	Matched map[record.Ref][]MatchedPair
}

// Unmatched returns every ref (drawn from allRefs) absent from the result's
// matched map.
func (r *Result) Unmatched(allRefs []record.Ref) []record.Ref {
	var out []record.Ref
	for _, ref := range allRefs {
		if _, ok := r.Matched[ref]; !ok {
			out = append(out, ref)
		}
	}
	return out
}

// Aligner combines a set of weighted Processings (run over blocks if
// Blocking is set, or the full cross product otherwise) into a composite
// distance matrix and thresholds it into a matched map.
type Aligner struct {
	Blocking    blocking.Blocking
	Processings []*matrix.Processing
	Threshold   float64
}

func allRefsOf(ds *record.Dataset) []record.Ref {
	out := make([]record.Ref, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		out[i] = ds.Ref(i)
	}
	return out
}

// Align runs every processing over every candidate block, composites them by
// weight, and thresholds the result into a matched map.
func (a *Aligner) Align(ref, target *record.Dataset) (*Result, error) {
	start := time.Now()

	var blocks []blocking.Block
	if a.Blocking == nil {
		blocks = []blocking.Block{{Ref: allRefsOf(ref), Target: allRefsOf(target)}}
	} else {
		if err := a.Blocking.Fit(ref, target); err != nil {
			return nil, err
		}
		bs, err := a.Blocking.Blocks()
		if err != nil {
			return nil, err
		}
		blocks = bs
	}

	sparse := matrix.NewSparse()
	matched := make(map[record.Ref][]MatchedPair)
	seen := make(map[record.Ref]map[record.Ref]struct{})

	weights := make([]float64, len(a.Processings))
	for i, p := range a.Processings {
		weights[i] = p.Weight
	}

	for _, block := range blocks {
		refIndices := indicesOf(block.Ref)
		targetIndices := indicesOf(block.Target)

		parts := make([]*matrix.Dense, len(a.Processings))
		for i, p := range a.Processings {
			dense, err := p.Compute(ref, target, refIndices, targetIndices)
			if err != nil {
				return nil, fmt.Errorf("align: processing %d: %w", i, err)
			}
			parts[i] = dense
		}
		composite, err := matrix.Composite(parts, weights)
		if err != nil {
			return nil, err
		}

		sparse.MergeBlock(composite, refIndices, targetIndices)

		localMatched := composite.Matched(a.Threshold)
		for localRef, pairs := range localMatched {
			globalRef := block.Ref[localRef]
			targetSeen := seen[globalRef]
			if targetSeen == nil {
				targetSeen = make(map[record.Ref]struct{})
				seen[globalRef] = targetSeen
			}
			for _, p := range pairs {
				globalTarget := block.Target[p.TargetIndex]
				if _, dup := targetSeen[globalTarget]; dup {
					continue
				}
				targetSeen[globalTarget] = struct{}{}
				matched[globalRef] = append(matched[globalRef], MatchedPair{
					Target:   globalTarget,
					Distance: p.Distance,
				})
			}
		}
	}

	telemetry.EmitCounter(metrics.AlignMatchedPairsTotal, float64(len(matched)), nil)
	telemetry.EmitHistogram(metrics.AlignDurationMs, time.Since(start), nil)

	return &Result{Matrix: sparse, Matched: matched}, nil
}

func indicesOf(refs []record.Ref) []int {
	out := make([]int, len(refs))
	for i, r := range refs {
		out[i] = r.Index
	}
	return out
}

// AlignedPair is one final (ref, target) decision after tie-breaking.
type AlignedPair struct {
	Ref      record.Ref
	Target   record.Ref
	Distance float64
}

// AlignedPairs flattens a Result's matched map into a slice, sorted by ref
// index. When unique is true, only the single best match per ref survives;
// ties on distance are broken by the lowest (target index, target id) pair,
// the deterministic order the toolkit uses whenever more than one target is
// equally close.
func AlignedPairs(result *Result, unique bool) []AlignedPair {
	refs := make([]record.Ref, 0, len(result.Matched))
	for ref := range result.Matched {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Index < refs[j].Index })

	var out []AlignedPair
	for _, ref := range refs {
		pairs := result.Matched[ref]
		if !unique {
			for _, p := range pairs {
				out = append(out, AlignedPair{Ref: ref, Target: p.Target, Distance: p.Distance})
			}
			continue
		}
		best := bestPair(pairs)
		out = append(out, AlignedPair{Ref: ref, Target: best.Target, Distance: best.Distance})
	}
	return out
}

func bestPair(pairs []MatchedPair) MatchedPair {
	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Distance < best.Distance {
			best = p
			continue
		}
		if p.Distance == best.Distance {
			if p.Target.Index < best.Target.Index ||
				(p.Target.Index == best.Target.Index && p.Target.ID < best.Target.ID) {
				best = p
			}
		}
	}
	return best
}

// WriteResultFile writes matched as "aligned;targetted;distance\n" rows, the
// result-file format the toolkit's CSV-oriented callers expect.
func WriteResultFile(w io.Writer, result *Result) error {
	if _, err := io.WriteString(w, "aligned;targetted;distance\n"); err != nil {
		return err
	}
	for _, pair := range AlignedPairs(result, false) {
		if _, err := fmt.Fprintf(w, "%s;%s;%g\n", pair.Ref.ID, pair.Target.ID, pair.Distance); err != nil {
			return err
		}
	}
	return nil
}
