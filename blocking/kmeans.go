package blocking

import (
	"math"

	"github.com/fulmenhq/nazgo/record"
	"gonum.org/v1/gonum/mat"
)

// VectorFunc projects a record attribute value into a fixed-dimension point;
// a value that cannot be projected (e.g. nil) becomes the zero vector, so it
// still participates in clustering rather than being dropped.
type VectorFunc func(v record.Value) []float64

// KmeansBlocking clusters both datasets' projected points with the same
// centroids (fit on the reference side) and blocks records sharing a
// cluster.
type KmeansBlocking struct {
	RefAttr, TargetAttr int
	Vector              VectorFunc
	NClusters           int // 0 selects len(ref)/10, or len(ref)/2 if that's 0
	MaxIterations       int

	centroids []*mat.VecDense
	refs      map[int][]record.Ref
	targets   map[int][]record.Ref
}

// NewKmeansBlocking returns a KmeansBlocking using vector to project the
// given attributes into points.
func NewKmeansBlocking(refAttr, targetAttr int, vector VectorFunc, nClusters int) *KmeansBlocking {
	return &KmeansBlocking{RefAttr: refAttr, TargetAttr: targetAttr, Vector: vector, NClusters: nClusters, MaxIterations: 25}
}

func toVecDense(v []float64) *mat.VecDense {
	return mat.NewVecDense(len(v), append([]float64(nil), v...))
}

func vecDistance(a, b *mat.VecDense) float64 {
	diff := mat.NewVecDense(a.Len(), nil)
	diff.SubVec(a, b)
	return mat.Norm(diff, 2)
}

// Fit runs Lloyd's algorithm on the reference side's projected points to
// produce centroids, then assigns both datasets' points to their nearest
// centroid. The default cluster count mirrors the family's usual heuristic:
// one tenth of the reference set's size, or half of it when that rounds to
// zero.
func (b *KmeansBlocking) Fit(ref, target *record.Dataset) error {
	return recordFit("kmeans", func() error {
		n := b.NClusters
		if n <= 0 {
			n = ref.Len() / 10
			if n == 0 {
				n = ref.Len() / 2
			}
			if n == 0 {
				n = 1
			}
		}

		refPoints := projectAll(ref, b.RefAttr, b.Vector)
		b.centroids = initCentroids(refPoints, n)

		for iter := 0; iter < b.MaxIterations; iter++ {
			assign := make([][]int, len(b.centroids))
			for i, p := range refPoints {
				c := nearestCentroid(p, b.centroids)
				assign[c] = append(assign[c], i)
			}
			changed := false
			for c, members := range assign {
				if len(members) == 0 {
					continue
				}
				dim := refPoints[0].Len()
				sum := mat.NewVecDense(dim, nil)
				for _, idx := range members {
					sum.AddVec(sum, refPoints[idx])
				}
				sum.ScaleVec(1.0/float64(len(members)), sum)
				if vecDistance(sum, b.centroids[c]) > 1e-9 {
					changed = true
				}
				b.centroids[c] = sum
			}
			if !changed {
				break
			}
		}

		b.refs = make(map[int][]record.Ref)
		for i := 0; i < ref.Len(); i++ {
			c := nearestCentroid(refPoints[i], b.centroids)
			b.refs[c] = append(b.refs[c], ref.Ref(i))
		}
		b.targets = make(map[int][]record.Ref)
		targetPoints := projectAll(target, b.TargetAttr, b.Vector)
		for i := 0; i < target.Len(); i++ {
			c := nearestCentroid(targetPoints[i], b.centroids)
			b.targets[c] = append(b.targets[c], target.Ref(i))
		}
		return nil
	})
}

func projectAll(ds *record.Dataset, attr int, vector VectorFunc) []*mat.VecDense {
	out := make([]*mat.VecDense, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		v := vector(ds.Attr(i, attr))
		out[i] = toVecDense(v)
	}
	return out
}

func initCentroids(points []*mat.VecDense, n int) []*mat.VecDense {
	if n > len(points) {
		n = len(points)
	}
	if n == 0 {
		n = 1
	}
	out := make([]*mat.VecDense, n)
	step := 1
	if n > 0 {
		step = len(points) / n
		if step == 0 {
			step = 1
		}
	}
	for i := 0; i < n; i++ {
		idx := (i * step) % len(points)
		out[i] = mat.NewVecDense(points[idx].Len(), append([]float64(nil), points[idx].RawVector().Data...))
	}
	return out
}

func nearestCentroid(p *mat.VecDense, centroids []*mat.VecDense) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		d := vecDistance(p, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// Blocks returns one Block per cluster that has members on both sides.
func (b *KmeansBlocking) Blocks() ([]Block, error) {
	if b.refs == nil || b.targets == nil {
		return nil, ErrNotFitted
	}
	var out []Block
	for c, refs := range b.refs {
		targets, ok := b.targets[c]
		if !ok || len(targets) == 0 || len(refs) == 0 {
			continue
		}
		out = append(out, Block{Ref: refs, Target: targets})
	}
	recordBlocks("kmeans", out)
	return out, nil
}
