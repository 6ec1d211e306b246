package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-dice/tensor"
)

func TestNewSGDValidatesInput(t *testing.T) {
	p := tensor.Scalar(1)
	p.RequiresGrad = true

	_, err := NewSGD([]*tensor.Tensor{p}, 0)
	assert.Error(t, err)

	_, err = NewSGD([]*tensor.Tensor{tensor.Scalar(1)}, 0.1)
	assert.Error(t, err)

	opt, err := NewSGD([]*tensor.Tensor{p, nil, tensor.Scalar(2)}, 0.1)
	require.NoError(t, err)
	assert.Len(t, opt.Parameters(), 1)
}

func TestSGDStep(t *testing.T) {
	p, err := tensor.NewTensor([]int{2}, []float64{1, 2})
	require.NoError(t, err)
	p.RequiresGrad = true
	idle := tensor.Scalar(5)
	idle.RequiresGrad = true

	opt, err := NewSGD([]*tensor.Tensor{p, idle}, 0.5)
	require.NoError(t, err)

	// loss = sum(3 * p), dloss/dp = 3
	loss, err := tensor.SumDim(tensor.ScaleTensor(p, 3), 0)
	require.NoError(t, err)
	loss.Backward(nil)

	require.NoError(t, opt.Step())
	assert.Equal(t, []float64{-0.5, 0.5}, p.GetData())
	assert.Equal(t, []float64{5}, idle.GetData())

	opt.ZeroGrad()
	assert.Equal(t, []float64{0, 0}, p.Grad.GetData())
}
