package blocking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazgo/blocking"
	"github.com/fulmenhq/nazgo/record"
)

func textDS(t *testing.T, name string, ids []string, texts []string) *record.Dataset {
	t.Helper()
	recs := make([]record.Record, len(ids))
	for i := range ids {
		recs[i] = record.Record{ID: ids[i], Attributes: []record.Value{texts[i]}}
	}
	out, err := record.NewDataset(name, 1, recs)
	require.NoError(t, err)
	return out
}

func TestMinHashingBlockingClustersSimilarText(t *testing.T) {
	ref := textDS(t, "ref",
		[]string{"r1", "r2"},
		[]string{"the quick brown fox jumps over the lazy dog", "totally different content about oceans"})
	target := textDS(t, "target",
		[]string{"t1", "t2"},
		[]string{"the quick brown fox leaps over the lazy dog", "totally different content about seas"})

	b := blocking.NewMinHashingBlocking(0, 0, 0.2, 2, 150)
	require.NoError(t, b.Fit(ref, target))
	blocks, err := b.Blocks()
	require.NoError(t, err)
	assert.NotNil(t, blocks)
	for _, blk := range blocks {
		assert.NotEmpty(t, blk.Ref)
		assert.NotEmpty(t, blk.Target)
	}
}
