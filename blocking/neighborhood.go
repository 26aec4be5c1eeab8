package blocking

import (
	"sort"
	"strings"

	"github.com/fulmenhq/nazgo/record"
)

// SortedNeighborhoodBlocking merges both datasets into one key-sorted
// sequence, tagging each entry with its origin side, then slides a
// fixed-width window over it: any window containing at least one entry from
// each side becomes a block.
type SortedNeighborhoodBlocking struct {
	RefAttr, TargetAttr int
	WindowSize          int

	entries []neighborhoodEntry
}

type neighborhoodEntry struct {
	key      string
	ref      record.Ref
	isTarget bool
}

// NewSortedNeighborhoodBlocking returns a SortedNeighborhoodBlocking with the
// given sliding-window size (must be >= 2 to ever bridge both sides).
func NewSortedNeighborhoodBlocking(refAttr, targetAttr, windowSize int) *SortedNeighborhoodBlocking {
	return &SortedNeighborhoodBlocking{RefAttr: refAttr, TargetAttr: targetAttr, WindowSize: windowSize}
}

// Fit merges and sorts both datasets' keys.
func (b *SortedNeighborhoodBlocking) Fit(ref, target *record.Dataset) error {
	return recordFit("sorted_neighborhood", func() error {
		entries := make([]neighborhoodEntry, 0, ref.Len()+target.Len())
		for i := 0; i < ref.Len(); i++ {
			entries = append(entries, neighborhoodEntry{
				key: ngramKeyString(ref.Attr(i, b.RefAttr)),
				ref: ref.Ref(i),
			})
		}
		for i := 0; i < target.Len(); i++ {
			entries = append(entries, neighborhoodEntry{
				key:      ngramKeyString(target.Attr(i, b.TargetAttr)),
				ref:      target.Ref(i),
				isTarget: true,
			})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.Compare(entries[i].key, entries[j].key) < 0
		})
		b.entries = entries
		return nil
	})
}

// Blocks slides a window of WindowSize over the merged sequence; each window
// spanning both origins contributes its ref-side and target-side members as
// one block.
func (b *SortedNeighborhoodBlocking) Blocks() ([]Block, error) {
	if b.entries == nil {
		return nil, ErrNotFitted
	}
	w := b.WindowSize
	if w < 1 {
		w = 1
	}
	var out []Block
	for start := 0; start+w <= len(b.entries); start++ {
		window := b.entries[start : start+w]
		var refs, targets []record.Ref
		for _, e := range window {
			if e.isTarget {
				targets = append(targets, e.ref)
			} else {
				refs = append(refs, e.ref)
			}
		}
		if len(refs) > 0 && len(targets) > 0 {
			out = append(out, Block{Ref: refs, Target: targets})
		}
	}
	recordBlocks("sorted_neighborhood", out)
	return out, nil
}
