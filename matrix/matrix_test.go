package matrix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazgo/matrix"
	"github.com/fulmenhq/nazgo/record"
)

func absDistance(a, b record.Value) (float64, error) {
	fa := a.(float64)
	fb := b.(float64)
	d := fa - fb
	if d < 0 {
		d = -d
	}
	return d, nil
}

func TestSquashMonotone(t *testing.T) {
	assert.InDelta(t, 0, matrix.Squash(0), 1e-9)
	a, b := matrix.Squash(1), matrix.Squash(2)
	assert.True(t, a < b)
	assert.True(t, a >= 0 && a < 1)
}

func TestBuildNullCellsGetMax(t *testing.T) {
	x := []record.Value{1.0, nil}
	y := []record.Value{1.0}
	m, err := matrix.Build(x, y, absDistance, false, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, m.At(0, 0), 1e-9)
	assert.InDelta(t, 1, m.At(1, 0), 1e-9)
}

func TestBuildMetricErrorFallsBackToRawDefault(t *testing.T) {
	erroring := func(a, b record.Value) (float64, error) {
		return 0, errors.New("boom")
	}
	x := []record.Value{1.0}
	y := []record.Value{1.0}

	m, err := matrix.Build(x, y, erroring, true, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1, m.At(0, 0), 1e-9, "metric error must set the raw default, not Squash(default)")
}

func TestCompositeShapeMismatch(t *testing.T) {
	a := matrix.NewDense(2, 2)
	b := matrix.NewDense(3, 3)
	_, err := matrix.Composite([]*matrix.Dense{a, b}, []float64{1, 1})
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch)
}

func TestMatchedRowMajorOrder(t *testing.T) {
	m := matrix.NewDense(1, 3)
	m.Set(0, 0, 0.1)
	m.Set(0, 1, 0.5)
	m.Set(0, 2, 0.2)
	matched := m.Matched(0.3)
	require.Len(t, matched[0], 2)
	assert.Equal(t, 0, matched[0][0].TargetIndex)
	assert.Equal(t, 2, matched[0][1].TargetIndex)
}

func TestSparseZeroSentinel(t *testing.T) {
	s := matrix.NewSparse()
	s.Set(0, 0, 0)
	v, ok := s.Get(0, 0)
	require.True(t, ok)
	assert.InDelta(t, matrix.Epsilon, v, 1e-15)
}

func TestSparseMergeBlock(t *testing.T) {
	block := matrix.NewDense(2, 2)
	block.Set(0, 0, 0.1)
	block.Set(1, 1, 0.2)
	s := matrix.NewSparse()
	s.MergeBlock(block, []int{5, 6}, []int{7, 8})
	v, ok := s.Get(5, 7)
	require.True(t, ok)
	assert.InDelta(t, 0.1, v, 1e-6)
	v, ok = s.Get(6, 8)
	require.True(t, ok)
	assert.InDelta(t, 0.2, v, 1e-6)
}

func TestProcessingBoundsValidation(t *testing.T) {
	_, err := matrix.NewProcessing(5, 0, 2, 2, absDistance, 1, false)
	assert.Error(t, err)
}
