// Package matrix implements the dense per-block distance-matrix engine, the
// squash map, the Processing descriptor, and the global sparse matrix with
// its sentinel-epsilon rule.
package matrix

import (
	"fmt"
	"time"

	"github.com/fulmenhq/nazgo/record"
	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// ErrShapeMismatch is returned when two matrices being combined do not have
// the same dimensions.
var ErrShapeMismatch = fmt.Errorf("matrix: shape mismatch")

// Metric computes the distance between two attribute values. It must be
// total and non-negative for well-formed inputs.
type Metric func(a, b record.Value) (float64, error)

// Dense is an m×n matrix of float32 distances, one per (ref, target) pair
// within a single block.
type Dense struct {
	Rows, Cols int
	Values     []float32
}

// NewDense allocates a zeroed rows×cols matrix.
func NewDense(rows, cols int) *Dense {
	return &Dense{Rows: rows, Cols: cols, Values: make([]float32, rows*cols)}
}

// At returns the value at (i, j).
func (d *Dense) At(i, j int) float32 { return d.Values[i*d.Cols+j] }

// Set writes value at (i, j).
func (d *Dense) Set(i, j int, v float32) { d.Values[i*d.Cols+j] = v }

// Squash maps d ↦ 1 − 1/(1+d), an order-preserving map from [0,∞) onto
// [0,1) with Squash(0) == 0.
func Squash(d float64) float64 {
	return 1 - 1/(1+d)
}

// Build fills an m×n Dense matrix from metric applied to every (x[i], y[j])
// pair. A null cell on either side gets the maximum squashed distance (1)
// without invoking metric, per the null-cell rule; a metric error falls back
// to defaultValue for that cell (the §7 InputCoercion localized-failure
// policy) rather than aborting the whole build.
func Build(x, y []record.Value, metric Metric, squash bool, defaultValue float64) (*Dense, error) {
	start := time.Now()
	m := NewDense(len(x), len(y))
	for i := range x {
		for j := range y {
			if x[i] == nil || y[j] == nil {
				m.Set(i, j, 1)
				continue
			}
			d, err := metric(x[i], y[j])
			if err != nil {
				m.Set(i, j, float32(defaultValue))
				continue
			}
			if squash {
				d = Squash(d)
			}
			m.Set(i, j, float32(d))
		}
	}
	telemetry.EmitCounter(metrics.MatrixCellsWrittenTotal, float64(len(x)*len(y)), nil)
	telemetry.EmitHistogram(metrics.MatrixBuildMs, time.Since(start), nil)
	return m, nil
}

// AddWeighted adds w*other into m in place; m and other must share shape.
func (d *Dense) AddWeighted(other *Dense, w float64) error {
	if d.Rows != other.Rows || d.Cols != other.Cols {
		return ErrShapeMismatch
	}
	for i := range d.Values {
		d.Values[i] += float32(w) * other.Values[i]
	}
	return nil
}

// Composite sums weight*matrix over every (matrix, weight) pair; all
// matrices must share the same shape, per §4.3's composite contract.
func Composite(parts []*Dense, weights []float64) (*Dense, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("matrix: composite requires at least one part")
	}
	out := NewDense(parts[0].Rows, parts[0].Cols)
	for i, p := range parts {
		if err := out.AddWeighted(p, weights[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Pair is one matched-map entry: the target's local index and the composite
// distance at that cell.
type Pair struct {
	TargetIndex int
	Distance    float64
}

// Matched extracts, for every row whose cell value is ≤ threshold, the list
// of (target-index, distance) pairs, visited in row-major order so per-row
// insertion order is deterministic.
func (d *Dense) Matched(threshold float64) map[int][]Pair {
	out := make(map[int][]Pair)
	for i := 0; i < d.Rows; i++ {
		for j := 0; j < d.Cols; j++ {
			v := float64(d.At(i, j))
			if v <= threshold {
				out[i] = append(out[i], Pair{TargetIndex: j, Distance: v})
			}
		}
	}
	return out
}
