package minhash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazgo/minhash"
)

func TestTrainAndPredictClustersSimilarSentences(t *testing.T) {
	sentences := []string{
		"the quick brown fox jumps over the lazy dog",
		"the quick brown fox leaps over the lazy dog",
		"completely unrelated text about mountains and rivers",
		"completely unrelated text about mountains and lakes",
	}

	e := minhash.New(42)
	require.NoError(t, e.Train(sentences, 2, 120))

	clusters, err := e.PredictAll(0.3)
	require.NoError(t, err)
	assert.NotEmpty(t, clusters)
}

func TestPredictRejectsBadThreshold(t *testing.T) {
	e := minhash.New(1)
	require.NoError(t, e.Train([]string{"a b c"}, 1, 10))
	_, err := e.PredictAll(0)
	assert.ErrorIs(t, err, minhash.ErrThresholdRange)
	_, err = e.PredictAll(1.5)
	assert.ErrorIs(t, err, minhash.ErrThresholdRange)
}

func TestPredictBeforeTrainFails(t *testing.T) {
	e := minhash.New(1)
	_, err := e.PredictAll(0.5)
	assert.ErrorIs(t, err, minhash.ErrNotTrained)
}

func TestPredictForSplitsRefAndTargetSides(t *testing.T) {
	refSentences := []string{
		"alpha beta gamma delta",
		"unrelated one two three",
	}
	targetSentences := []string{
		"alpha beta gamma epsilon",
		"unrelated four five six",
	}
	all := append(append([]string{}, refSentences...), targetSentences...)

	e := minhash.New(7)
	require.NoError(t, e.Train(all, 2, 150))

	refGroups, targetGroups, err := e.PredictFor(0.25, len(refSentences))
	require.NoError(t, err)
	require.Equal(t, len(refGroups), len(targetGroups))
	for _, g := range refGroups {
		assert.NotEmpty(t, g)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e := minhash.New(3)
	require.NoError(t, e.Train([]string{"one two three", "one two four"}, 2, 50))

	data, err := e.SaveBytes()
	require.NoError(t, err)

	loaded := minhash.New(99)
	require.NoError(t, loaded.LoadBytes(data))

	clustersA, err := e.PredictAll(0.2)
	require.NoError(t, err)
	clustersB, err := loaded.PredictAll(0.2)
	require.NoError(t, err)
	assert.Equal(t, clustersA, clustersB)
}

func TestComputeBandSizeBounds(t *testing.T) {
	b := minhash.ComputeBandSize(0.3, 100)
	assert.True(t, b >= 1 && b <= 100)
}
