package nn

import "go-dice/tensor"


// Layer defines the interface that all neural network layers must implement.
type Layer interface {
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)
	Parameters() []*tensor.Tensor
	ZeroGrad()
	Name() string
}


// ParameterNamer is implemented by layers that label their parameters, in Parameters() order.
type ParameterNamer interface {
	ParameterNames() []string
}


func zeroGrad(params []*tensor.Tensor) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
