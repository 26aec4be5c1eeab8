package blocking

import (
	"math"
	"strconv"
	"strings"

	"github.com/fulmenhq/nazgo/record"
)

// kdNode is a node of a self-contained k-d tree: scalar attribute values are
// treated as 1-dimensional points so the same structure blocks both single
// columns and multi-dimensional projections.
type kdNode struct {
	point       []float64
	ref         record.Ref
	left, right *kdNode
	axis        int
}

func buildKDTree(points [][]float64, refs []record.Ref, depth int) *kdNode {
	if len(points) == 0 {
		return nil
	}
	dim := len(points[0])
	axis := depth % dim
	idx := medianIndex(points, refs, axis)

	left := buildKDTree(points[:idx], refs[:idx], depth+1)
	right := buildKDTree(points[idx+1:], refs[idx+1:], depth+1)
	return &kdNode{point: points[idx], ref: refs[idx], axis: axis, left: left, right: right}
}

// medianIndex partially sorts points/refs in place along axis and returns
// the median position, mirroring the split step of an in-place k-d tree
// build.
func medianIndex(points [][]float64, refs []record.Ref, axis int) int {
	n := len(points)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && points[j][axis] < points[j-1][axis]; j-- {
			points[j], points[j-1] = points[j-1], points[j]
			refs[j], refs[j-1] = refs[j-1], refs[j]
		}
	}
	return n / 2
}

func euclid(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func (n *kdNode) queryRadius(p []float64, radius float64, out *[]record.Ref) {
	if n == nil {
		return
	}
	if euclid(n.point, p) <= radius {
		*out = append(*out, n.ref)
	}
	diff := p[n.axis] - n.point[n.axis]
	if diff <= radius {
		n.left.queryRadius(p, radius, out)
	}
	if diff >= -radius {
		n.right.queryRadius(p, radius, out)
	}
}

// KdTreeBlocking indexes the reference side's projected points in a k-d
// tree and, for every target point, blocks it with every reference point
// within Radius — the scalar-attribute case is handled by VectorFunc
// wrapping the value as a length-1 point.
type KdTreeBlocking struct {
	RefAttr, TargetAttr int
	Vector              VectorFunc
	Radius              float64

	tree      *kdNode
	refPoints [][]float64
	refs      []record.Ref
	target    *record.Dataset
}

// NewKdTreeBlocking returns a KdTreeBlocking that blocks a target point with
// every reference point within radius (Euclidean distance over the
// projected space).
func NewKdTreeBlocking(refAttr, targetAttr int, vector VectorFunc, radius float64) *KdTreeBlocking {
	return &KdTreeBlocking{RefAttr: refAttr, TargetAttr: targetAttr, Vector: vector, Radius: radius}
}

// Fit builds the k-d tree over the reference side; the target side is
// queried lazily in Blocks.
func (b *KdTreeBlocking) Fit(ref, target *record.Dataset) error {
	return recordFit("kdtree", func() error {
		points := make([][]float64, ref.Len())
		refs := make([]record.Ref, ref.Len())
		for i := 0; i < ref.Len(); i++ {
			points[i] = b.Vector(ref.Attr(i, b.RefAttr))
			refs[i] = ref.Ref(i)
		}
		b.refPoints = points
		b.refs = refs
		b.tree = buildKDTree(append([][]float64(nil), points...), append([]record.Ref(nil), refs...), 0)
		b.target = target
		return nil
	})
}

// Blocks returns, for every target record, a Block pairing it with every
// reference record found within Radius; target records with no reference
// neighbor within radius yield no block, per the never-empty-side contract.
func (b *KdTreeBlocking) Blocks() ([]Block, error) {
	if b.tree == nil || b.target == nil {
		return nil, ErrNotFitted
	}
	var out []Block
	for i := 0; i < b.target.Len(); i++ {
		p := b.Vector(b.target.Attr(i, b.TargetAttr))
		var neighbors []record.Ref
		b.tree.queryRadius(p, b.Radius, &neighbors)
		if len(neighbors) == 0 {
			continue
		}
		out = append(out, Block{Ref: neighbors, Target: []record.Ref{b.target.Ref(i)}})
	}
	recordBlocks("kdtree", out)
	return out, nil
}

// ScalarVector wraps a single-column value as a length-1 point, coercing
// strings to float64 when necessary.
func ScalarVector(v record.Value) []float64 {
	switch t := v.(type) {
	case float64:
		return []float64{t}
	case float32:
		return []float64{float64(t)}
	case int:
		return []float64{float64(t)}
	case int64:
		return []float64{float64(t)}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return []float64{0}
		}
		return []float64{f}
	default:
		return []float64{0}
	}
}
