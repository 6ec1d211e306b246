package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumDimKeepsReducedDim(t *testing.T) {
	x := mustTensor(t, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	rows, err := SumDim(x, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, rows.GetShape())
	assert.Equal(t, []float64{6, 15}, rows.GetData())

	cols, err := SumDim(x, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, cols.GetShape())
	assert.Equal(t, []float64{5, 7, 9}, cols.GetData())
}

func TestSumDimOnRank3(t *testing.T) {
	x := mustTensor(t, []int{2, 2, 2}, []float64{0, 1, 2, 3, 4, 5, 6, 7})
	x.RequiresGrad = true

	s, err := SumDim(x, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 2}, s.GetShape())
	assert.Equal(t, []float64{2, 4, 10, 12}, s.GetData())

	grad := mustTensor(t, []int{2, 1, 2}, []float64{1, 2, 3, 4})
	s.Backward(grad)
	assert.Equal(t, []float64{1, 2, 1, 2, 3, 4, 3, 4}, x.Grad.GetData())
}

func TestMeanDim(t *testing.T) {
	x := mustTensor(t, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	x.RequiresGrad = true

	m, err := MeanDim(x, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, m.GetShape())
	assert.InDeltaSlice(t, []float64{2, 5}, m.GetData(), 1e-12)

	ones, err := OnesLike(m)
	require.NoError(t, err)
	m.Backward(ones)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3}, x.Grad.GetData(), 1e-12)
}

func TestReductionRejectsMissingDim(t *testing.T) {
	x := mustTensor(t, []int{3}, []float64{1, 2, 3})

	_, err := SumDim(x, 1)
	assert.ErrorIs(t, err, ErrShape)

	_, err = MeanDim(x, 1)
	assert.ErrorIs(t, err, ErrShape)

	_, err = SumDim(x, -1)
	assert.ErrorIs(t, err, ErrShape)
}

func TestBroadcastTo(t *testing.T) {
	col := mustTensor(t, []int{2, 1}, []float64{1, 2})
	col.RequiresGrad = true

	b, err := BroadcastTo(col, []int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, b.GetData())

	ones, err := OnesLike(b)
	require.NoError(t, err)
	b.Backward(ones)
	assert.Equal(t, []float64{3, 3}, col.Grad.GetData())

	row := mustTensor(t, []int{3}, []float64{1, 2, 3})
	r, err := BroadcastTo(row, []int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, r.GetData())

	s := Scalar(5)
	s.RequiresGrad = true
	sb, err := BroadcastTo(s, []int{2, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, sb.GetShape())
	ones, err = OnesLike(sb)
	require.NoError(t, err)
	sb.Backward(ones)
	assert.Equal(t, []float64{8}, s.Grad.GetData())
}

func TestBroadcastToMiddleDim(t *testing.T) {
	x := mustTensor(t, []int{2, 1, 2}, []float64{1, 2, 3, 4})
	b, err := BroadcastTo(x, []int{2, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 1, 2, 1, 2, 3, 4, 3, 4, 3, 4}, b.GetData())
}

func TestBroadcastToRejectsIncompatibleShapes(t *testing.T) {
	x := mustTensor(t, []int{2, 3}, nil)

	_, err := BroadcastTo(x, []int{3, 3})
	assert.ErrorIs(t, err, ErrShape)

	_, err = BroadcastTo(x, []int{3})
	assert.ErrorIs(t, err, ErrShape)
}
