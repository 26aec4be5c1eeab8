// Package minhash implements the MinHash/LSH engine: k-wordgram feature
// extraction, a dense signature matrix built from random affine hash
// functions, band-size selection by bisection, and banded bucket lookup.
package minhash

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/fulmenhq/nazgo/normalize"
	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
	"gonum.org/v1/gonum/mat"
)

// ErrNotTrained is returned by operations that require Train to have run.
var ErrNotTrained = errors.New("minhash: not trained")

// ErrThresholdRange is returned when a similarity threshold is not in (0, 1].
var ErrThresholdRange = errors.New("minhash: threshold must be in (0, 1]")

// Engine trains a signature matrix over a corpus of sentences and predicts
// clusters of probably-similar sentences without ever comparing every pair.
type Engine struct {
	rng *rand.Rand

	trained   bool
	sigMatrix *mat.Dense // siglen x ndocs
	siglen    int
	ndocs     int
}

// New returns an untrained Engine. seed fixes the random affine hash
// functions so Train is reproducible across runs with the same seed.
func New(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// iterWordgrams yields every run of k consecutive tokens in sentence,
// joined by a single space, the feature unit the signature is built from.
func iterWordgrams(sentence string, k int) []string {
	tokens := normalize.Tokenize(sentence)
	if k <= 0 {
		k = 1
	}
	if len(tokens) < k {
		if len(tokens) == 0 {
			return nil
		}
		k = len(tokens)
	}
	out := make([]string, 0, len(tokens)-k+1)
	for i := 0; i+k <= len(tokens); i++ {
		gram := tokens[i]
		for j := 1; j < k; j++ {
			gram += " " + tokens[i+j]
		}
		out = append(out, gram)
	}
	return out
}

// Train builds the boolean membership matrix of sentences over the universe
// of their k-wordgrams (assigning each distinct wordgram a first-seen id),
// then collapses it into a siglen-row signature matrix via minhashing: each
// signature row is the minimum, over every wordgram a sentence contains, of
// one random affine hash of that wordgram's universe id.
func (e *Engine) Train(sentences []string, k, siglen int) error {
	start := time.Now()
	universe := make(map[string]int)
	rows := make([][]int, len(sentences))
	for i, s := range sentences {
		for _, gram := range iterWordgrams(s, k) {
			id, ok := universe[gram]
			if !ok {
				id = len(universe)
				universe[gram] = id
			}
			rows[i] = append(rows[i], id)
		}
	}

	zr := len(universe)
	if zr == 0 {
		zr = 1
	}
	type hashFunc struct{ a, b int }
	hashes := make([]hashFunc, siglen)
	for i := range hashes {
		hashes[i] = hashFunc{a: 1 + e.rng.Intn(zr), b: 1 + e.rng.Intn(zr)}
	}

	sig := mat.NewDense(siglen, len(sentences), nil)
	for col, row := range rows {
		for r, h := range hashes {
			best := int64(-1)
			for _, universeID := range row {
				v := int64((h.a*universeID + h.b) % zr)
				if best == -1 || v < best {
					best = v
				}
			}
			if best == -1 {
				best = int64(zr)
			}
			sig.Set(r, col, float64(best))
		}
	}

	e.sigMatrix = sig
	e.siglen = siglen
	e.ndocs = len(sentences)
	e.trained = true

	telemetry.EmitHistogram(metrics.MinhashTrainMs, time.Since(start), nil)
	telemetry.EmitGauge(metrics.MinhashSignatureBits, float64(siglen), nil)
	return nil
}

func rebuildDense(rows, cols int, data []float64) *mat.Dense {
	return mat.NewDense(rows, cols, data)
}

// ComputeBandSize solves for the band size r such that (r/nbrows)^(1/r) is
// closest to threshold, by bisection over [1, nbrows] on the continuous
// extension followed by rounding to the nearest integer — the standard LSH
// tuning equation t ~ (r/L)^(1/r).
func ComputeBandSize(threshold float64, nbrows int) int {
	f := func(x float64) float64 {
		return math.Pow(x/float64(nbrows), 1/x) - threshold
	}
	lo, hi := 1.0, float64(nbrows)
	flo := f(lo)
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		fmid := f(mid)
		if (fmid < 0) == (flo < 0) {
			lo = mid
			flo = fmid
		} else {
			hi = mid
		}
	}
	band := int(math.Round(lo))
	if band < 1 {
		band = 1
	}
	if band > nbrows {
		band = nbrows
	}
	return band
}

// PredictAll returns clusters (as column indices into the trained corpus) of
// documents that collide in at least one LSH band at the given similarity
// threshold — a threshold of 1 requires identical signatures.
func (e *Engine) PredictAll(threshold float64) ([][]int, error) {
	if !e.trained {
		return nil, ErrNotTrained
	}
	if threshold <= 0 || threshold > 1 {
		return nil, ErrThresholdRange
	}

	bandsize := ComputeBandSize(threshold, e.siglen)

	seen := make(map[string]bool)
	var clusters [][]int
	for r := 0; r < e.siglen; r += bandsize {
		end := r + bandsize
		if end > e.siglen {
			end = e.siglen
		}
		buckets := make(map[string][]int)
		for col := 0; col < e.ndocs; col++ {
			key := ""
			for row := r; row < end; row++ {
				key += fmt.Sprintf("%.0f|", e.sigMatrix.At(row, col))
			}
			buckets[key] = append(buckets[key], col)
		}
		for _, members := range buckets {
			if len(members) < 2 {
				continue
			}
			clusterKey := fmt.Sprint(members)
			if seen[clusterKey] {
				continue
			}
			seen[clusterKey] = true
			clusters = append(clusters, members)
		}
	}
	telemetry.EmitCounter(metrics.MinhashCandidatesTotal, float64(len(clusters)), nil)
	telemetry.EmitGauge(metrics.MinhashBandSize, float64(bandsize), nil)
	return clusters, nil
}

// PredictFor resolves the Open-Question of non-singleton buckets (a corpus
// trained over ref ++ target may cluster several ref documents with several
// target documents in one band): it partitions every PredictAll cluster by
// the boundary at refCount, column indices below refCount are ref-side,
// at or above are target-side (shifted back to 0-based target indices), and
// drops any cluster that ends up empty on either side.
func (e *Engine) PredictFor(threshold float64, refCount int) (refGroups, targetGroups [][]int, err error) {
	clusters, err := e.PredictAll(threshold)
	if err != nil {
		return nil, nil, err
	}
	for _, members := range clusters {
		var refs, targets []int
		for _, idx := range members {
			if idx >= refCount {
				targets = append(targets, idx-refCount)
			} else {
				refs = append(refs, idx)
			}
		}
		if len(refs) == 0 || len(targets) == 0 {
			continue
		}
		refGroups = append(refGroups, refs)
		targetGroups = append(targetGroups, targets)
	}
	return refGroups, targetGroups, nil
}
