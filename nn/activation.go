package nn

import (
	"fmt"
	"math"

	"go-dice/tensor"
)


// elementwise builds the output of a parameter-free elementwise activation and wires
// its backward pass. deriv receives the input and output value at each position.
func elementwise(t *tensor.Tensor, op string, f func(v float64) float64, deriv func(x, y float64) float64) (*tensor.Tensor, error) {
	tData := t.GetData()
	outData := make([]float64, len(tData))
	for i, v := range tData {
		outData[i] = f(v)
	}

	r, err := tensor.NewTensor(t.GetShape(), outData)
	if err != nil {
		return nil, fmt.Errorf("%s failed to create output tensor: %w", op, err)
	}

	if t.RequiresGrad {
		r.RequiresGrad = true
		r.Parents = []*tensor.Tensor{t}
		r.Operation = op

		// dL/dx_i = dL/dy_i * dy_i/dx_i
		r.BackwardFunc = func(grad *tensor.Tensor) {
			gradData := grad.GetData()
			gradDataForT := make([]float64, len(gradData))
			for i := range gradDataForT {
				gradDataForT[i] = gradData[i] * deriv(tData[i], outData[i])
			}

			gradTensorForT, err := tensor.NewTensor(t.GetShape(), gradDataForT)
			if err != nil {
				fmt.Printf("Warning: Failed to create gradient tensor for %s backward: %v\n", op, err)
				return
			}
			t.AccumulateGrad(gradTensorForT)
		}
	}
	return r, nil
}



// you definitely know RELU if you're reading this: out = max(0, t)
func RELU(t *tensor.Tensor) (*tensor.Tensor, error) {
	return elementwise(t, "relu",
		func(v float64) float64 { return math.Max(v, 0) },
		func(x, _ float64) float64 {
			if x > 0 {
				return 1
			}
			return 0
		})
}



// we apply element wise sigmoid : out = 1 / (1 + exp(-t))
func Sigmoid(t *tensor.Tensor) (*tensor.Tensor, error) {
	return elementwise(t, "sigmoid",
		sigmoid,
		// y * (1 - y), where y is the output
		func(_, y float64) float64 { return y * (1 - y) })
}

func sigmoid(v float64) float64 {
	return 1.0 / (1.0 + math.Exp(-v))
}



// element wise hyperbolic tangent : out = tanh(t)
func Tanh(t *tensor.Tensor) (*tensor.Tensor, error) {
	return elementwise(t, "tanh",
		math.Tanh,
		func(_, y float64) float64 { return 1 - y*y })
}



// Softmax normalizes t along dim: out_k = exp(x_k) / sum_j exp(x_j).
//
// The backward pass is the standalone Jacobian product. When Softmax feeds a
// cross-entropy loss use CrossEntropyLoss on the logits instead, it fuses both.
func Softmax(t *tensor.Tensor, dim int) (*tensor.Tensor, error) {
	shape := t.GetShape()
	if dim < 0 || dim >= len(shape) {
		return nil, fmt.Errorf("%w: softmax over dim %d of a %dD tensor", tensor.ErrShape, dim, len(shape))
	}

	outer, n, inner := 1, shape[dim], 1
	for _, s := range shape[:dim] {
		outer *= s
	}
	for _, s := range shape[dim+1:] {
		inner *= s
	}

	tData := t.GetData()
	outData := make([]float64, len(tData))
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*n*inner + i

			// max for numerical stability (log-sum-exp trick)
			maxv := math.Inf(-1)
			for k := 0; k < n; k++ {
				maxv = math.Max(maxv, tData[base+k*inner])
			}
			var sum float64
			for k := 0; k < n; k++ {
				e := math.Exp(tData[base+k*inner] - maxv)
				outData[base+k*inner] = e
				sum += e
			}
			for k := 0; k < n; k++ {
				outData[base+k*inner] /= sum
			}
		}
	}

	r, err := tensor.NewTensor(shape, outData)
	if err != nil {
		return nil, fmt.Errorf("softmax failed to create output tensor: %w", err)
	}

	if t.RequiresGrad {
		r.RequiresGrad = true
		r.Parents = []*tensor.Tensor{t}
		r.Operation = "softmax"

		r.BackwardFunc = func(grad *tensor.Tensor) {
			// dL/dx_j = y_j * (dL/dy_j - sum_i dL/dy_i * y_i), per slice along dim
			gradData := grad.GetData()
			gradDataForT := make([]float64, len(gradData))
			for o := 0; o < outer; o++ {
				for i := 0; i < inner; i++ {
					base := o*n*inner + i
					dot := 0.0
					for k := 0; k < n; k++ {
						dot += gradData[base+k*inner] * outData[base+k*inner]
					}
					for k := 0; k < n; k++ {
						idx := base + k*inner
						gradDataForT[idx] = outData[idx] * (gradData[idx] - dot)
					}
				}
			}

			gradTensorForT, err := tensor.NewTensor(shape, gradDataForT)
			if err != nil {
				fmt.Printf("Warning: Failed to create gradient tensor for Softmax backward: %v\n", err)
				return
			}
			t.AccumulateGrad(gradTensorForT)
		}
	}
	return r, nil
}



// PReLU is a leaky ReLU whose negative slope is the single learned value in weight:
// out = x if x > 0, else weight * x.
func PReLU(t *tensor.Tensor, weight *tensor.Tensor) (*tensor.Tensor, error) {
	a, err := weight.Item()
	if err != nil {
		return nil, fmt.Errorf("prelu weight: %w", err)
	}

	tData := t.GetData()
	outData := make([]float64, len(tData))
	for i, v := range tData {
		if v > 0 {
			outData[i] = v
		} else {
			outData[i] = a * v
		}
	}

	r, err := tensor.NewTensor(t.GetShape(), outData)
	if err != nil {
		return nil, fmt.Errorf("prelu failed to create output tensor: %w", err)
	}

	if t.RequiresGrad || weight.RequiresGrad {
		r.RequiresGrad = true
		r.Parents = []*tensor.Tensor{t, weight}
		r.Operation = "prelu"

		r.BackwardFunc = func(grad *tensor.Tensor) {
			gradData := grad.GetData()
			gradDataForT := make([]float64, len(gradData))
			gradForWeight := 0.0
			for i, x := range tData {
				if x > 0 {
					gradDataForT[i] = gradData[i]
				} else {
					gradDataForT[i] = gradData[i] * a
					gradForWeight += gradData[i] * x
				}
			}

			if t.RequiresGrad {
				gradTensorForT, err := tensor.NewTensor(t.GetShape(), gradDataForT)
				if err != nil {
					fmt.Printf("Warning: Failed to create gradient tensor for PReLU backward: %v\n", err)
					return
				}
				t.AccumulateGrad(gradTensorForT)
			}
			weight.AccumulateGrad(tensor.Scalar(gradForWeight))
		}
	}
	return r, nil
}
