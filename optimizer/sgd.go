package optimizer

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"go-dice/tensor"
)


// common method all optimizers must utilize
type Optimizer interface {
	Step() error
	ZeroGrad()
	Parameters() []*tensor.Tensor // return the parameters managed by the optimizer
}



// SGD : Stochastic Gradient Descent optimizer.
type SGD struct {
	learningRate float64
	parameters   []*tensor.Tensor // tensors whose gradients will be updated
}



// creates a new SGD and recieves list of parameters (tensors with RequiresGrad=true) and a learning rate.
// parameters that do not require gradients are skipped.
func NewSGD(parameters []*tensor.Tensor, learningRate float64) (*SGD, error) {
	if learningRate <= 0 {
		return nil, fmt.Errorf("optimizer: learning rate must be positive, got %f", learningRate)
	}

	validParams := []*tensor.Tensor{}
	for _, p := range parameters {
		if p != nil && p.RequiresGrad {
			validParams = append(validParams, p)
		}
	}

	if len(validParams) == 0 {
		return nil, fmt.Errorf("optimizer: no parameters requiring gradients provided")
	}

	return &SGD{
		learningRate: learningRate,
		parameters:   validParams,
	}, nil
}



// step updates the parameters based on their gradients using the SGD rule:
// parameter = parameter - learning_rate * gradient
func (s *SGD) Step() error {
	for _, p := range s.parameters {
		if p.Grad == nil {
			// parameter did not take part in the forward pass that led to the loss
			continue
		}

		if !tensor.IsSameSize(p, p.Grad) {
			return fmt.Errorf("optimizer: gradient size mismatch for parameter (op='%s', shape=%v): grad shape %v",
				p.Operation, p.GetShape(), p.Grad.GetShape())
		}

		floats.AddScaled(p.GetData(), -s.learningRate, p.Grad.GetData())
	}
	return nil
}



// sets all params managed by this to zero
func (s *SGD) ZeroGrad() {
	for _, p := range s.parameters {
		p.ZeroGrad()
	}
}



// returns the slice of params managed by this optimizer
func (s *SGD) Parameters() []*tensor.Tensor {
	return s.parameters
}
