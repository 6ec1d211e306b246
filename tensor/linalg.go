package tensor

import "fmt"


// tranposes a 2D tensor [M, N] -> [N, M].
// TODO: N-D transpose over the last two dims, nothing needs it yet.
func Transpose(t *Tensor) (*Tensor, error) {
	shape := t.shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: transpose only supports 2D tensors currently, got %v", ErrShape, shape)
	}

	M, N := shape[0], shape[1]
	outData := make([]float64, M*N)
	// (row, col) at row*N + col moves to (col, row) at col*M + row
	for r := 0; r < M; r++ {
		for c := 0; c < N; c++ {
			outData[c*M+r] = t.data[r*N+c]
		}
	}
	out := &Tensor{shape: []int{N, M}, data: outData}

	track(out, "transpose", []*Tensor{t}, func(grad *Tensor) {
		// grad(transpose) = transpose(grad)
		transposedGrad, err := Transpose(Detach(grad))
		if err != nil {
			fmt.Printf("Warning: Failed to transpose gradient in Transpose backward: %v\n", err)
			return
		}
		t.AccumulateGrad(transposedGrad)
	})
	return out, nil
}



// MatMulTensor multiplies [M, K] @ [K, N] -> [M, N].
// For the Linear layer context this is input [B, I] @ weight [I, O].
func MatMulTensor(t1 *Tensor, t2 *Tensor) (*Tensor, error) {
	shape1 := t1.shape
	shape2 := t2.shape

	if len(shape1) != 2 || len(shape2) != 2 {
		return nil, fmt.Errorf("%w: matmul only supports 2D tensors ([M, K] @ [K, N]) currently, got %v and %v", ErrShape, shape1, shape2)
	}

	M, K := shape1[0], shape1[1]
	if K != shape2[0] {
		return nil, fmt.Errorf("%w: matmul inner dimensions mismatch %v and %v (%d != %d)", ErrShape, shape1, shape2, K, shape2[0])
	}
	N := shape2[1]

	out := &Tensor{shape: []int{M, N}, data: matmul(t1.data, t2.data, M, K, N)}

	track(out, "matmul", []*Tensor{t1, t2}, func(grad *Tensor) {
		// dL/dX = dL/dO @ W.T
		// dL/dW = X.T @ dL/dO
		if t1.RequiresGrad {
			t2T, _ := Transpose(Detach(t2))
			t1.AccumulateGrad(&Tensor{shape: []int{M, K}, data: matmul(grad.data, t2T.data, M, N, K)})
		}
		if t2.RequiresGrad {
			// shared weights accumulate through AccumulateGrad
			t1T, _ := Transpose(Detach(t1))
			t2.AccumulateGrad(&Tensor{shape: []int{K, N}, data: matmul(t1T.data, grad.data, K, M, N)})
		}
	})
	return out, nil
}


// C[i][j] = sum_k(A[i][k] * B[k][j]) on row-major slices
func matmul(a, b []float64, M, K, N int) []float64 {
	c := make([]float64, M*N)
	for i := 0; i < M; i++ {
		for k := 0; k < K; k++ {
			aik := a[i*K+k]
			if aik == 0 {
				continue
			}
			row := c[i*N : (i+1)*N]
			for j := 0; j < N; j++ {
				row[j] += aik * b[k*N+j]
			}
		}
	}
	return c
}
