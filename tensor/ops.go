package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)


// elementwise ops on same-shaped tensors. use BroadcastTo first when shapes differ.


func checkSameSize(op string, t1, t2 *Tensor) error {
	if !IsSameSize(t1, t2) {
		return fmt.Errorf("%w: tensors of shape %v and %v have different sizes for %s", ErrShape, t1.shape, t2.shape, op)
	}
	return nil
}

func newLike(t *Tensor, data []float64) *Tensor {
	return &Tensor{shape: append([]int{}, t.shape...), data: data}
}



// adds two tensors
func AddTensor(t1 *Tensor, t2 *Tensor) (*Tensor, error) {
	if err := checkSameSize("addition", t1, t2); err != nil {
		return nil, err
	}

	out := newLike(t1, floats.AddTo(make([]float64, len(t1.data)), t1.data, t2.data))

	track(out, "add", []*Tensor{t1, t2}, func(grad *Tensor) {
		t1.AccumulateGrad(grad)
		t2.AccumulateGrad(grad)
	})
	return out, nil
}



// subtracts t2 from t1
func SubTensor(t1 *Tensor, t2 *Tensor) (*Tensor, error) {
	if err := checkSameSize("subtraction", t1, t2); err != nil {
		return nil, err
	}

	out := newLike(t1, floats.SubTo(make([]float64, len(t1.data)), t1.data, t2.data))

	track(out, "sub", []*Tensor{t1, t2}, func(grad *Tensor) {
		t1.AccumulateGrad(grad)
		if t2.RequiresGrad {
			t2.AccumulateGrad(newLike(t2, floats.ScaleTo(make([]float64, len(grad.data)), -1, grad.data)))
		}
	})
	return out, nil
}



// multiplies two tensors elementwise
func MulTensor(t1 *Tensor, t2 *Tensor) (*Tensor, error) {
	if err := checkSameSize("multiplication", t1, t2); err != nil {
		return nil, err
	}

	out := newLike(t1, floats.MulTo(make([]float64, len(t1.data)), t1.data, t2.data))

	track(out, "mul", []*Tensor{t1, t2}, func(grad *Tensor) {
		// d(a*b)/da = b, d(a*b)/db = a
		if t1.RequiresGrad {
			t1.AccumulateGrad(newLike(t1, floats.MulTo(make([]float64, len(grad.data)), grad.data, t2.data)))
		}
		if t2.RequiresGrad {
			t2.AccumulateGrad(newLike(t2, floats.MulTo(make([]float64, len(grad.data)), grad.data, t1.data)))
		}
	})
	return out, nil
}



// divides t1 by t2 elementwise
func DivTensor(t1 *Tensor, t2 *Tensor) (*Tensor, error) {
	if err := checkSameSize("division", t1, t2); err != nil {
		return nil, err
	}

	out := newLike(t1, floats.DivTo(make([]float64, len(t1.data)), t1.data, t2.data))

	track(out, "div", []*Tensor{t1, t2}, func(grad *Tensor) {
		if t1.RequiresGrad {
			t1.AccumulateGrad(newLike(t1, floats.DivTo(make([]float64, len(grad.data)), grad.data, t2.data)))
		}
		if t2.RequiresGrad {
			// d(a/b)/db = -a / b^2 = -out / b
			g := make([]float64, len(grad.data))
			for i := range g {
				g[i] = -grad.data[i] * out.data[i] / t2.data[i]
			}
			t2.AccumulateGrad(newLike(t2, g))
		}
	})
	return out, nil
}



// multiplies every element by c
func ScaleTensor(t *Tensor, c float64) *Tensor {
	out := newLike(t, floats.ScaleTo(make([]float64, len(t.data)), c, t.data))

	track(out, "scale", []*Tensor{t}, func(grad *Tensor) {
		t.AccumulateGrad(newLike(t, floats.ScaleTo(make([]float64, len(grad.data)), c, grad.data)))
	})
	return out
}



// adds c to every element
func AddScalar(t *Tensor, c float64) *Tensor {
	data := append([]float64{}, t.data...)
	floats.AddConst(c, data)
	out := newLike(t, data)

	track(out, "add_scalar", []*Tensor{t}, func(grad *Tensor) {
		t.AccumulateGrad(grad)
	})
	return out
}



// elementwise square root. negative inputs produce NaN, as math.Sqrt does.
func SqrtTensor(t *Tensor) *Tensor {
	data := make([]float64, len(t.data))
	for i, v := range t.data {
		data[i] = math.Sqrt(v)
	}
	out := newLike(t, data)

	track(out, "sqrt", []*Tensor{t}, func(grad *Tensor) {
		// d(sqrt(x))/dx = 1 / (2*sqrt(x))
		g := make([]float64, len(grad.data))
		for i := range g {
			g[i] = grad.data[i] / (2 * data[i])
		}
		t.AccumulateGrad(newLike(t, g))
	})
	return out
}
