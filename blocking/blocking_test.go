package blocking_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazgo/blocking"
	"github.com/fulmenhq/nazgo/distance"
	"github.com/fulmenhq/nazgo/record"
)

func ds(t *testing.T, name string, rows ...string) *record.Dataset {
	t.Helper()
	recs := make([]record.Record, len(rows))
	for i, r := range rows {
		recs[i] = record.Record{ID: r, Attributes: []record.Value{r}}
	}
	out, err := record.NewDataset(name, 1, recs)
	require.NoError(t, err)
	return out
}

func totalPairs(blocks []blocking.Block) int {
	n := 0
	for _, b := range blocks {
		n += len(b.Ref) * len(b.Target)
	}
	return n
}

func TestKeyBlockingExactMatch(t *testing.T) {
	ref := ds(t, "ref", "paris", "lyon")
	target := ds(t, "target", "paris", "marseille")

	b := blocking.NewKeyBlocking(0, 0, func(v record.Value) string {
		s, _ := v.(string)
		return s
	})
	require.NoError(t, b.Fit(ref, target))
	blocks, err := b.Blocks()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "paris", blocks[0].Ref[0].ID)
	assert.Equal(t, "paris", blocks[0].Target[0].ID)
}

func TestSoundexBlockingSurnames(t *testing.T) {
	ref := ds(t, "ref", "Robert", "Smith")
	target := ds(t, "target", "Rupert", "Smythe")

	b := blocking.SoundexBlocking(0, 0, distance.English)
	require.NoError(t, b.Fit(ref, target))
	blocks, err := b.Blocks()
	require.NoError(t, err)
	require.NotEmpty(t, blocks)
	assert.Equal(t, 2, totalPairs(blocks))
}

func TestNGramBlockingDiagonalMatch(t *testing.T) {
	ref := ds(t, "ref", "abcdef", "xyzxyz")
	target := ds(t, "target", "abcxyz", "xyzabc")

	b := blocking.NewNGramBlocking(0, 0, 2, 1)
	require.NoError(t, b.Fit(ref, target))
	blocks, err := b.Blocks()
	require.NoError(t, err)
	require.NotEmpty(t, blocks)
	for _, blk := range blocks {
		for _, r := range blk.Ref {
			for _, tg := range blk.Target {
				assert.Equal(t, r.ID[:2], tg.ID[:2])
			}
		}
	}
}

func TestSortedNeighborhoodWindow(t *testing.T) {
	ref := ds(t, "ref", "alice", "bob")
	target := ds(t, "target", "alicia", "zach")

	b := blocking.NewSortedNeighborhoodBlocking(0, 0, 3)
	require.NoError(t, b.Fit(ref, target))
	blocks, err := b.Blocks()
	require.NoError(t, err)
	require.NotEmpty(t, blocks)

	found := false
	for _, blk := range blocks {
		refIDs := refIDsOf(blk.Ref)
		targetIDs := refIDsOf(blk.Target)
		if contains(refIDs, "alice") && contains(targetIDs, "alicia") {
			found = true
		}
	}
	assert.True(t, found)
}

func refIDsOf(refs []record.Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.ID
	}
	sort.Strings(out)
	return out
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func TestKeyBlockingNeverYieldsEmptySide(t *testing.T) {
	ref := ds(t, "ref", "only-ref")
	target := ds(t, "target", "only-target")

	b := blocking.NewKeyBlocking(0, 0, func(v record.Value) string {
		s, _ := v.(string)
		return s
	})
	require.NoError(t, b.Fit(ref, target))
	blocks, err := b.Blocks()
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestKdTreeBlockingRadius(t *testing.T) {
	refRecs := []record.Record{
		{ID: "a", Attributes: []record.Value{1.0}},
		{ID: "b", Attributes: []record.Value{10.0}},
	}
	targetRecs := []record.Record{
		{ID: "x", Attributes: []record.Value{1.5}},
		{ID: "y", Attributes: []record.Value{50.0}},
	}
	ref, err := record.NewDataset("ref", 1, refRecs)
	require.NoError(t, err)
	target, err := record.NewDataset("target", 1, targetRecs)
	require.NoError(t, err)

	b := blocking.NewKdTreeBlocking(0, 0, blocking.ScalarVector, 1.0)
	require.NoError(t, b.Fit(ref, target))
	blocks, err := b.Blocks()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "x", blocks[0].Target[0].ID)
	assert.Equal(t, "a", blocks[0].Ref[0].ID)
}

func TestKmeansBlockingGroupsNearbyPoints(t *testing.T) {
	refRecs := []record.Record{
		{ID: "a1", Attributes: []record.Value{0.0}},
		{ID: "a2", Attributes: []record.Value{1.0}},
		{ID: "b1", Attributes: []record.Value{100.0}},
		{ID: "b2", Attributes: []record.Value{101.0}},
	}
	targetRecs := []record.Record{
		{ID: "x1", Attributes: []record.Value{0.5}},
		{ID: "x2", Attributes: []record.Value{100.5}},
	}
	ref, err := record.NewDataset("ref", 1, refRecs)
	require.NoError(t, err)
	target, err := record.NewDataset("target", 1, targetRecs)
	require.NoError(t, err)

	b := blocking.NewKmeansBlocking(0, 0, blocking.ScalarVector, 2)
	require.NoError(t, b.Fit(ref, target))
	blocks, err := b.Blocks()
	require.NoError(t, err)
	assert.NotEmpty(t, blocks)
}

func TestPipelineBlockingRefines(t *testing.T) {
	ref := ds(t, "ref", "alpha", "alphabet", "beta")
	target := ds(t, "target", "alpha", "alphabetical", "betania")

	first := blocking.NewNGramBlocking(0, 0, 2, 1)
	pipeline := blocking.NewPipelineBlocking(first, func(r, tg *record.Dataset) (blocking.Blocking, error) {
		return blocking.NewKeyBlocking(0, 0, func(v record.Value) string {
			s, _ := v.(string)
			if len(s) > 5 {
				return s[:5]
			}
			return s
		}), nil
	})
	require.NoError(t, pipeline.Fit(ref, target))
	blocks, err := pipeline.Blocks()
	require.NoError(t, err)
	assert.NotEmpty(t, blocks)
}
