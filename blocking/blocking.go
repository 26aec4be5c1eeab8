// Package blocking implements the blocking family: key/soundex, n-gram,
// sorted-neighborhood, k-means, k-d tree, MinHash/LSH, and pipeline
// blocking, sharing one fit/iter_blocks contract.
package blocking

import (
	"errors"
	"time"

	"github.com/fulmenhq/nazgo/record"
	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// ErrNotFitted is returned by Blocks when iteration is requested before Fit.
var ErrNotFitted = errors.New("blocking: not fitted")

// Block is one (reference-side, target-side) candidate pair-set; per
// contract, neither side of a yielded block is ever empty.
type Block struct {
	Ref    []record.Ref
	Target []record.Ref
}

// Blocking is the shared contract every blocking strategy satisfies: Fit
// consumes both datasets once, Blocks yields the candidate blocks lazily.
type Blocking interface {
	Fit(ref, target *record.Dataset) error
	Blocks() ([]Block, error)
}

// Pairs expands every block's cross product into (ref, target) Ref pairs.
func Pairs(b Blocking) ([][2]record.Ref, error) {
	blocks, err := b.Blocks()
	if err != nil {
		return nil, err
	}
	var out [][2]record.Ref
	for _, block := range blocks {
		for _, r := range block.Ref {
			for _, t := range block.Target {
				out = append(out, [2]record.Ref{r, t})
			}
		}
	}
	return out, nil
}

func recordFit(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	telemetry.EmitHistogram(metrics.BlockingFitMs, time.Since(start), map[string]string{metrics.TagBlocking: name})
	return err
}

func recordBlocks(name string, blocks []Block) {
	telemetry.EmitCounter(metrics.BlockingBlocksTotal, float64(len(blocks)), map[string]string{metrics.TagBlocking: name})
	pairs := 0
	for _, b := range blocks {
		pairs += len(b.Ref) * len(b.Target)
	}
	telemetry.EmitCounter(metrics.BlockingPairsEmitted, float64(pairs), map[string]string{metrics.TagBlocking: name})
}
