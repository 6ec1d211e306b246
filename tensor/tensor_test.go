package tensor

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTensor(t *testing.T, shape []int, data []float64) *Tensor {
	t.Helper()
	x, err := NewTensor(shape, data)
	require.NoError(t, err)
	return x
}

func TestNewTensorRejectsBadShapes(t *testing.T) {
	_, err := NewTensor([]int{2, 0}, nil)
	assert.ErrorIs(t, err, ErrShape)

	_, err = NewTensor([]int{2, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShape)

	x, err := NewTensor([]int{2, 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 6), x.GetData())
}

func TestNewTensorCopiesInput(t *testing.T) {
	data := []float64{1, 2}
	x := mustTensor(t, []int{2}, data)
	data[0] = 100
	assert.Equal(t, []float64{1, 2}, x.GetData())
}

func TestElementwiseOps(t *testing.T) {
	a := mustTensor(t, []int{2, 2}, []float64{1, 2, 3, 4})
	b := mustTensor(t, []int{2, 2}, []float64{5, 6, 7, 8})

	sum, err := AddTensor(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 8, 10, 12}, sum.GetData())

	diff, err := SubTensor(b, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4, 4, 4}, diff.GetData())

	prod, err := MulTensor(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 12, 21, 32}, prod.GetData())

	quot, err := DivTensor(b, a)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 3, 7.0 / 3, 2}, quot.GetData(), 1e-12)

	assert.Equal(t, []float64{2, 4, 6, 8}, ScaleTensor(a, 2).GetData())
	assert.Equal(t, []float64{0, 1, 2, 3}, AddScalar(a, -1).GetData())
	assert.Equal(t, []float64{1, 2, 3, 4}, SqrtTensor(mustTensor(t, []int{4}, []float64{1, 4, 9, 16})).GetData())

	_, err = AddTensor(a, mustTensor(t, []int{4}, []float64{1, 2, 3, 4}))
	assert.ErrorIs(t, err, ErrShape)
}

func TestUntrackedOpsBuildNoGraph(t *testing.T) {
	a := mustTensor(t, []int{2}, []float64{1, 2})
	out, err := MulTensor(a, a)
	require.NoError(t, err)
	assert.False(t, out.RequiresGrad)
	assert.Nil(t, out.Parents)
	assert.Nil(t, out.BackwardFunc)
}

func TestBackwardAccumulatesOverSharedInputs(t *testing.T) {
	// y = x*x + x, dy/dx = 2x + 1
	x := Scalar(3)
	x.RequiresGrad = true

	sq, err := MulTensor(x, x)
	require.NoError(t, err)
	y, err := AddTensor(sq, x)
	require.NoError(t, err)
	assert.Equal(t, []float64{12}, y.GetData())

	y.Backward(nil)
	require.NotNil(t, x.Grad)
	assert.Equal(t, []float64{7}, x.Grad.GetData())
}

func TestBackwardThroughDivAndSqrt(t *testing.T) {
	a := Scalar(6)
	b := Scalar(4)
	a.RequiresGrad = true
	b.RequiresGrad = true

	// out = a / sqrt(b) = 3
	out, err := DivTensor(a, SqrtTensor(b))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, out.GetData()[0], 1e-12)

	out.Backward(nil)
	// d/da = 1/sqrt(b) = 0.5, d/db = -a / (2 b^1.5) = -6/16
	assert.InDelta(t, 0.5, a.Grad.GetData()[0], 1e-12)
	assert.InDelta(t, -0.375, b.Grad.GetData()[0], 1e-12)
}

func TestBackwardRejectsNilGradOnNonScalar(t *testing.T) {
	x := mustTensor(t, []int{2}, []float64{1, 2})
	x.RequiresGrad = true
	y := ScaleTensor(x, 2)

	y.Backward(nil)
	assert.Nil(t, x.Grad)
}

func TestZeroGrad(t *testing.T) {
	x := Scalar(2)
	x.RequiresGrad = true
	x.ZeroGrad()
	require.NotNil(t, x.Grad)
	assert.Equal(t, []float64{0}, x.Grad.GetData())

	y := ScaleTensor(x, 5)
	y.Backward(nil)
	assert.Equal(t, []float64{5}, x.Grad.GetData())

	x.ZeroGrad()
	assert.Equal(t, []float64{0}, x.Grad.GetData())
}

func TestReshape(t *testing.T) {
	x := mustTensor(t, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	x.RequiresGrad = true

	r, err := Reshape(x, []int{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, r.GetShape())

	_, err = Reshape(x, []int{4, 2})
	assert.ErrorIs(t, err, ErrShape)

	s := ScaleTensor(r, 2)
	ones, err := OnesLike(s)
	require.NoError(t, err)
	s.Backward(ones)
	assert.Equal(t, []int{2, 3}, x.Grad.GetShape())
	assert.Equal(t, []float64{2, 2, 2, 2, 2, 2}, x.Grad.GetData())
}

func TestMatMulAndTranspose(t *testing.T) {
	a := mustTensor(t, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	b := mustTensor(t, []int{3, 2}, []float64{7, 8, 9, 10, 11, 12})
	a.RequiresGrad = true
	b.RequiresGrad = true

	c, err := MatMulTensor(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, c.GetShape())
	assert.Equal(t, []float64{58, 64, 139, 154}, c.GetData())

	ones, err := OnesLike(c)
	require.NoError(t, err)
	c.Backward(ones)
	// dA = ones @ B^T: row sums of B
	assert.Equal(t, []float64{15, 19, 23, 15, 19, 23}, a.Grad.GetData())
	// dB = A^T @ ones: column sums of A
	assert.Equal(t, []float64{5, 5, 7, 7, 9, 9}, b.Grad.GetData())

	at, err := Transpose(a)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, at.GetShape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, at.GetData())

	_, err = MatMulTensor(a, a)
	assert.ErrorIs(t, err, ErrShape)
}

func TestItem(t *testing.T) {
	v, err := Scalar(1.5).Item()
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	_, err = mustTensor(t, []int{2}, nil).Item()
	assert.ErrorIs(t, err, ErrShape)
}

func TestGobRoundTripKeepsShapeAndData(t *testing.T) {
	x := mustTensor(t, []int{2, 2}, []float64{1, -2, 3.5, 4})
	x.RequiresGrad = true

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(x))

	var y Tensor
	require.NoError(t, gob.NewDecoder(&buf).Decode(&y))
	assert.Equal(t, x.GetShape(), y.GetShape())
	assert.Equal(t, x.GetData(), y.GetData())
	assert.True(t, y.RequiresGrad)
	assert.Nil(t, y.Grad)
}

func TestRandN(t *testing.T) {
	x, err := RandN([]int{1000}, nil)
	require.NoError(t, err)

	mean := 0.0
	for _, v := range x.GetData() {
		mean += v
	}
	mean /= 1000
	assert.InDelta(t, 0, mean, 0.2)

	_, err = RandN([]int{0}, nil)
	assert.ErrorIs(t, err, ErrShape)
}
