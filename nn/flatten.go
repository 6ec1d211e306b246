package nn

import (
	"fmt"

	"go-dice/tensor"
)

// Flatten reshapes a [batch, d1, d2, ...] tensor into [batch, d1*d2*...].
type Flatten struct{}


func NewFlatten() *Flatten {
	return &Flatten{}
}


func (f *Flatten) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	inputShape := input.GetShape()
	if len(inputShape) == 0 {
		return nil, fmt.Errorf("%w: flatten needs a batch dimension", tensor.ErrShape)
	}
	batchSize := inputShape[0]
	numFeatures := tensor.Numel(input) / batchSize
	// Reshape is already autograd-aware
	return tensor.Reshape(input, []int{batchSize, numFeatures})
}

func (f *Flatten) Parameters() []*tensor.Tensor { return []*tensor.Tensor{} }
func (f *Flatten) ZeroGrad() {}

func (f *Flatten) Name() string {
	return "Flatten"
}
