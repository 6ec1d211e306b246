package autograd

import (
	"fmt"
	"math"

	"go-dice/tensor"
)

// Backward performs the backward pass starting from the root tensor.
// unlike tensor.Tensor.Backward(nil) it accepts roots of any shape and seeds them
// with ones, which is the gradient of sum(root).
func Backward(root *tensor.Tensor) error {
	if !root.RequiresGrad {
		return nil
	}
	ones, err := tensor.OnesLike(root)
	if err != nil {
		return fmt.Errorf("autograd: initial gradient for root tensor: %w", err)
	}
	root.Backward(ones)
	return nil
}


// Func is a scalar-valued function of some tensors, rebuilt from scratch on every call.
type Func func() (*tensor.Tensor, error)


// NumericalGrad estimates d f / d p for every element of p with central differences.
// p is perturbed in place and restored before returning.
func NumericalGrad(f Func, p *tensor.Tensor, h float64) ([]float64, error) {
	data := p.GetData()
	grad := make([]float64, len(data))
	for i := range data {
		orig := data[i]

		data[i] = orig + h
		plus, err := evalSum(f)
		if err != nil {
			data[i] = orig
			return nil, err
		}

		data[i] = orig - h
		minus, err := evalSum(f)
		data[i] = orig
		if err != nil {
			return nil, err
		}

		grad[i] = (plus - minus) / (2 * h)
	}
	return grad, nil
}

func evalSum(f Func) (float64, error) {
	out, err := f()
	if err != nil {
		return 0, err
	}
	s := 0.0
	for _, v := range out.GetData() {
		s += v
	}
	return s, nil
}


// GradCheck compares the analytic gradients of sum(f()) against central differences
// and returns the largest absolute difference over all params.
// every param must have RequiresGrad set.
func GradCheck(f Func, params []*tensor.Tensor, h float64) (float64, error) {
	for _, p := range params {
		p.Grad = nil
	}

	out, err := f()
	if err != nil {
		return 0, err
	}
	if err := Backward(out); err != nil {
		return 0, err
	}

	worst := 0.0
	for n, p := range params {
		if p.Grad == nil {
			return 0, fmt.Errorf("autograd: parameter %d (shape %v) received no gradient", n, p.GetShape())
		}
		analytic := append([]float64{}, p.Grad.GetData()...)
		numeric, err := NumericalGrad(f, p, h)
		if err != nil {
			return 0, err
		}
		for i := range analytic {
			worst = math.Max(worst, math.Abs(analytic[i]-numeric[i]))
		}
	}
	return worst, nil
}
