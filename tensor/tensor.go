package tensor

import (
	"errors"
	"fmt"
)


// NOTE: most of the functions are self-explanatory. the autograd wiring lives in graph.go.


// ErrShape is wrapped by every operation that rejects a shape or a dimension.
var ErrShape = errors.New("tensor: shape mismatch")


// simple Tensor struct
type Tensor struct {
	shape         []int
	data          []float64
	Grad          *Tensor
	RequiresGrad  bool
	Parents       []*Tensor
	Operation     string
	BackwardFunc  func(*Tensor)
}



// utility function to check if two tensors have the same shape
func IsSameSize(a, b *Tensor) bool {
	return sameShape(a.shape, b.shape)
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}



// builds a new tensor with the given shape and data. empty data allocates zeros.
func NewTensor(shape []int, data []float64) (*Tensor, error) {
	total := 1
	for _, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("%w: shape %v contains non-positive dimension", ErrShape, shape)
		}
		total *= dim
	}
	if len(data) > 0 && total != len(data) {
		return nil, fmt.Errorf("%w: shape %v implies %d elements but data has length %d", ErrShape, shape, total, len(data))
	}
	if len(data) == 0 && total > 0 {
		data = make([]float64, total)
	}

	return &Tensor{
		shape: append([]int{}, shape...),
		data:  append([]float64{}, data...),
	}, nil
}


// Scalar builds a shape [1] tensor holding v.
func Scalar(v float64) *Tensor {
	return &Tensor{shape: []int{1}, data: []float64{v}}
}


// ZerosLike returns an untracked tensor of zeros with t's shape.
func ZerosLike(t *Tensor) *Tensor {
	return &Tensor{
		shape: append([]int{}, t.shape...),
		data:  make([]float64, len(t.data)),
	}
}



// clones a tensor. the clone keeps RequiresGrad but not the graph.
func CloneTensor(t *Tensor) *Tensor {
	clonedData := make([]float64, len(t.data))
	copy(clonedData, t.data)

	return &Tensor{
		data:         clonedData,
		shape:        append([]int{}, t.shape...),
		RequiresGrad: t.RequiresGrad,
	}
}



// returns the number of elements in a tensor
func Numel(t *Tensor) int {
	if t == nil {
		return 0
	}
	return numelOf(t.shape)
}

func numelOf(shape []int) int {
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return 0
		}
		n *= s
	}
	return n
}


// Dims returns the rank of t.
func (t *Tensor) Dims() int {
	return len(t.shape)
}



// reshapes the given tensor to the given shape
func Reshape(t *Tensor, newShape []int) (*Tensor, error) {
	originalNumel := Numel(t)
	for _, dim := range newShape {
		if dim <= 0 {
			return nil, fmt.Errorf("%w: newShape %v contains non-positive dimension", ErrShape, newShape)
		}
	}
	reshapedNumel := numelOf(newShape)
	if originalNumel != reshapedNumel {
		return nil, fmt.Errorf("%w: cannot reshape tensor with %d elements to shape %v (requires %d elements)", ErrShape, originalNumel, newShape, reshapedNumel)
	}

	out, err := NewTensor(newShape, t.data)
	if err != nil {
		return nil, err
	}

	track(out, "reshape", []*Tensor{t}, func(grad *Tensor) {
		t.AccumulateGrad(&Tensor{shape: append([]int{}, t.shape...), data: grad.data})
	})
	return out, nil
}



// this defines the GetData() and GetShape() accessors, used for testing & debugging
func (t *Tensor) GetData() []float64 {
	return t.data
}

func (t *Tensor) GetShape() []int {
	return t.shape
}


// Item returns the single value of a one-element tensor.
func (t *Tensor) Item() (float64, error) {
	if len(t.data) != 1 {
		return 0, fmt.Errorf("%w: item requires exactly one element, tensor has shape %v", ErrShape, t.shape)
	}
	return t.data[0], nil
}



// returns a tensor with all elements set to 1
func OnesLike(t *Tensor) (*Tensor, error) {
	data := make([]float64, Numel(t))
	for i := range data {
		data[i] = 1
	}
	return NewTensor(t.shape, data)
}



// sets the gradient of a tensor to zero
func (t *Tensor) ZeroGrad() {
	if t.Grad != nil {
		for i := range t.Grad.data {
			t.Grad.data[i] = 0
		}
	} else if t.RequiresGrad {
		t.Grad = ZerosLike(t)
	}
}



// prints the tensor in readable format
func PrintTensor(t *Tensor) {
	if t == nil {
		fmt.Println("<nil tensor>")
		return
	}
	fmt.Println(t.String())
}


func (t *Tensor) String() string {
	s := fmt.Sprintf("Tensor(shape=%v, data=%v, requires_grad=%v", t.shape, t.data, t.RequiresGrad)
	if t.Grad != nil {
		s += fmt.Sprintf(", grad_data=%v (shape=%v)", t.Grad.data, t.Grad.shape)
	}
	if t.Operation != "" {
		s += fmt.Sprintf(", op=%s", t.Operation)
	}
	return s + ")"
}
