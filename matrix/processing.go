package matrix

import (
	"fmt"

	"github.com/fulmenhq/nazgo/record"
)

// Processing binds a metric to a reference and target attribute index, a
// weight, a squash flag, and a default value used when the metric cannot
// coerce its inputs (§7 InputCoercion). It computes a matrix slice for any
// pair of index subsets, not only the full dataset product, so it can be
// reused across blocks.
type Processing struct {
	RefAttr    int
	TargetAttr int
	Metric     Metric
	Weight     float64
	Squash     bool
	Default    float64
}

// NewProcessing validates that both attribute indices are within the given
// arities (§3 invariant 1) and returns a ready-to-use Processing.
func NewProcessing(refAttr, targetAttr int, refArity, targetArity int, metric Metric, weight float64, squash bool) (*Processing, error) {
	if refAttr < 0 || refAttr >= refArity {
		return nil, fmt.Errorf("matrix: ref attribute index %d out of range [0,%d)", refAttr, refArity)
	}
	if targetAttr < 0 || targetAttr >= targetArity {
		return nil, fmt.Errorf("matrix: target attribute index %d out of range [0,%d)", targetAttr, targetArity)
	}
	return &Processing{
		RefAttr:    refAttr,
		TargetAttr: targetAttr,
		Metric:     metric,
		Weight:     weight,
		Squash:     squash,
		Default:    1,
	}, nil
}

// Compute builds the matrix for the given reference and target indices into
// ref and target, pulling attribute values from the two datasets.
func (p *Processing) Compute(ref *record.Dataset, target *record.Dataset, refIndices, targetIndices []int) (*Dense, error) {
	x := make([]record.Value, len(refIndices))
	for i, idx := range refIndices {
		x[i] = ref.Attr(idx, p.RefAttr)
	}
	y := make([]record.Value, len(targetIndices))
	for j, idx := range targetIndices {
		y[j] = target.Attr(idx, p.TargetAttr)
	}
	return Build(x, y, p.Metric, p.Squash, p.Default)
}

// allIndices returns [0, n).
func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// ComputeAll is Compute over the full product of ref and target.
func (p *Processing) ComputeAll(ref *record.Dataset, target *record.Dataset) (*Dense, error) {
	return p.Compute(ref, target, allIndices(ref.Len()), allIndices(target.Len()))
}
