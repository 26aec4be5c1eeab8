package iterative

import (
	"fmt"
	"os"
	"time"

	"github.com/fulmenhq/nazgo/align"
	"github.com/fulmenhq/nazgo/record"
	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// Driver runs an Aligner over two CSV files too large to hold as in-memory
// Datasets at once: both files are split into pages, every page pair is
// aligned independently, and a best-distance cache keeps only the
// single best match per reference record across every pair seen so far.
type Driver struct {
	PageSize          int
	EqualityThreshold float64
	NewAligner        func() *align.Aligner
	RefOptions        record.CSVOptions
	TargetOptions     record.CSVOptions
}

// Run pages refPath and targetPath under a temp directory (always removed
// before returning, even on error), runs NewAligner() over every (ref page,
// target page) pair, and returns the accumulated best match per reference
// id. A reference id already marked done by a prior pair's match falling at
// or below EqualityThreshold is skipped in every later pair, since it cannot
// improve beyond an already-exact match.
func (d *Driver) Run(refPath, targetPath string) ([]Entry, error) {
	start := time.Now()

	tmpDir, err := os.MkdirTemp("", "iterative-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	refDir := tmpDir + "/ref"
	targetDir := tmpDir + "/target"
	if err := os.MkdirAll(refDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, err
	}

	refPages, err := splitPages(refPath, d.PageSize, refDir)
	if err != nil {
		return nil, fmt.Errorf("iterative: paging reference file: %w", err)
	}
	targetPages, err := splitPages(targetPath, d.PageSize, targetDir)
	if err != nil {
		return nil, fmt.Errorf("iterative: paging target file: %w", err)
	}

	cachePath := tmpDir + "/cache.db"
	cache, err := openBestCache(cachePath)
	if err != nil {
		return nil, err
	}
	defer cache.Close()

	comparisons := 0
	for _, refPage := range refPages {
		refDS, err := record.LoadCSV("ref-page", refPage, d.RefOptions)
		if err != nil {
			return nil, err
		}
		for _, targetPage := range targetPages {
			targetDS, err := record.LoadCSV("target-page", targetPage, d.TargetOptions)
			if err != nil {
				return nil, err
			}

			remaining, err := filterDone(refDS, cache)
			if err != nil {
				return nil, err
			}
			if remaining.Len() == 0 {
				continue
			}

			aligner := d.NewAligner()
			result, err := aligner.Align(remaining, targetDS)
			if err != nil {
				return nil, err
			}
			comparisons++

			for refRef, pairs := range result.Matched {
				for _, pair := range pairs {
					if err := cache.Offer(refRef.ID, pair.Target.ID, pair.Distance); err != nil {
						return nil, err
					}
					if pair.Distance <= d.EqualityThreshold {
						if err := cache.MarkDone(refRef.ID); err != nil {
							return nil, err
						}
					}
				}
			}
		}
	}

	telemetry.EmitCounter(metrics.IterativePagesProcessedTotal, float64(len(refPages)*len(targetPages)), nil)
	telemetry.EmitCounter(metrics.IterativeComparisonsTotal, float64(comparisons), nil)
	telemetry.EmitHistogram(metrics.IterativeDurationMs, time.Since(start), nil)

	return cache.All()
}

// filterDone returns a dataset containing only ref's records whose id is not
// yet marked done in cache.
func filterDone(ref *record.Dataset, cache *bestCache) (*record.Dataset, error) {
	var keep []record.Record
	for i := 0; i < ref.Len(); i++ {
		r := ref.At(i)
		done, err := cache.IsDone(r.ID)
		if err != nil {
			return nil, err
		}
		if done {
			continue
		}
		keep = append(keep, r)
	}
	return record.NewDataset(ref.Name, ref.Arity, keep)
}
