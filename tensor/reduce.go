package tensor

import "fmt"


// splitAt views shape as [outer, n, inner] around dim.
func splitAt(shape []int, dim int) (outer, n, inner int) {
	outer, inner = 1, 1
	for _, s := range shape[:dim] {
		outer *= s
	}
	for _, s := range shape[dim+1:] {
		inner *= s
	}
	return outer, shape[dim], inner
}

func checkDim(op string, t *Tensor, dim int) error {
	if dim < 0 || dim >= len(t.shape) {
		return fmt.Errorf("%w: %s over dim %d of a %dD tensor %v", ErrShape, op, dim, len(t.shape), t.shape)
	}
	return nil
}



// SumDim sums t along dim and keeps dim as size 1, so the result broadcasts against t.
func SumDim(t *Tensor, dim int) (*Tensor, error) {
	if err := checkDim("sum", t, dim); err != nil {
		return nil, err
	}

	outer, n, inner := splitAt(t.shape, dim)
	outShape := append([]int{}, t.shape...)
	outShape[dim] = 1
	outData := make([]float64, outer*inner)

	for o := 0; o < outer; o++ {
		base := o * n * inner
		dst := outData[o*inner : (o+1)*inner]
		for k := 0; k < n; k++ {
			src := t.data[base+k*inner : base+(k+1)*inner]
			for i, v := range src {
				dst[i] += v
			}
		}
	}
	out := &Tensor{shape: outShape, data: outData}

	track(out, "sum_dim", []*Tensor{t}, func(grad *Tensor) {
		// every reduced element receives the gradient of its sum
		g := make([]float64, len(t.data))
		for o := 0; o < outer; o++ {
			base := o * n * inner
			src := grad.data[o*inner : (o+1)*inner]
			for k := 0; k < n; k++ {
				copy(g[base+k*inner:base+(k+1)*inner], src)
			}
		}
		t.AccumulateGrad(newLike(t, g))
	})
	return out, nil
}



// MeanDim averages t along dim and keeps dim as size 1.
func MeanDim(t *Tensor, dim int) (*Tensor, error) {
	sum, err := SumDim(t, dim)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	return ScaleTensor(sum, 1/float64(t.shape[dim])), nil
}



// BroadcastTo expands size-1 dims of t to shape, aligning shapes from the right
// (a [1] tensor broadcasts to any shape, [B, 1] to [B, C]).
// The backward pass sums the gradient over every expanded dim.
func BroadcastTo(t *Tensor, shape []int) (*Tensor, error) {
	if len(t.shape) > len(shape) {
		return nil, fmt.Errorf("%w: cannot broadcast %v to lower rank shape %v", ErrShape, t.shape, shape)
	}

	// source strides padded with leading zeros, zero on broadcast dims
	offset := len(shape) - len(t.shape)
	srcStrides := make([]int, len(shape))
	stride := 1
	for i := len(t.shape) - 1; i >= 0; i-- {
		d := t.shape[i]
		target := shape[offset+i]
		switch {
		case d == target:
			srcStrides[offset+i] = stride
		case d == 1:
			srcStrides[offset+i] = 0
		default:
			return nil, fmt.Errorf("%w: cannot broadcast %v to %v", ErrShape, t.shape, shape)
		}
		stride *= d
	}

	total := numelOf(shape)
	if total == 0 {
		return nil, fmt.Errorf("%w: broadcast target %v contains non-positive dimension", ErrShape, shape)
	}

	srcIndex := make([]int, total)
	outData := make([]float64, total)
	idx := make([]int, len(shape))
	for flat := 0; flat < total; flat++ {
		s := 0
		for d, v := range idx {
			s += v * srcStrides[d]
		}
		srcIndex[flat] = s
		outData[flat] = t.data[s]

		// advance the multi-index, last dim fastest
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	out := &Tensor{shape: append([]int{}, shape...), data: outData}

	track(out, "broadcast", []*Tensor{t}, func(grad *Tensor) {
		g := make([]float64, len(t.data))
		for flat, s := range srcIndex {
			g[s] += grad.data[flat]
		}
		t.AccumulateGrad(newLike(t, g))
	})
	return out, nil
}
