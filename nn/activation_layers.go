package nn

import "go-dice/tensor"


// --- Activation Layers ---

// defaulter marks activation layers that can be built without arguments.
// ActivationSpecOf only builds layers from a reflect.Type when *T implements it,
// and calls setDefaults on each new instance.
type defaulter interface {
	setDefaults()
}


type RELUActivation struct{}

func NewRELU() *RELUActivation {
	return &RELUActivation{}
}

func (r *RELUActivation) Forward(input *tensor.Tensor) (*tensor.Tensor, error) { return RELU(input) }
func (r *RELUActivation) Parameters() []*tensor.Tensor { return []*tensor.Tensor{} }
func (r *RELUActivation) ZeroGrad() {}
func (r *RELUActivation) setDefaults() {}
func (r *RELUActivation) Name() string { return "ReLU" }


type SigmoidActivation struct{}

func NewSigmoid() *SigmoidActivation {
	return &SigmoidActivation{}
}

func (s *SigmoidActivation) Forward(input *tensor.Tensor) (*tensor.Tensor, error) { return Sigmoid(input) }
func (s *SigmoidActivation) Parameters() []*tensor.Tensor { return []*tensor.Tensor{} }
func (s *SigmoidActivation) ZeroGrad() {}
func (s *SigmoidActivation) setDefaults() {}
func (s *SigmoidActivation) Name() string { return "Sigmoid" }


type TanhActivation struct{}

func NewTanh() *TanhActivation {
	return &TanhActivation{}
}

func (t *TanhActivation) Forward(input *tensor.Tensor) (*tensor.Tensor, error) { return Tanh(input) }
func (t *TanhActivation) Parameters() []*tensor.Tensor { return []*tensor.Tensor{} }
func (t *TanhActivation) ZeroGrad() {}
func (t *TanhActivation) setDefaults() {}
func (t *TanhActivation) Name() string { return "Tanh" }



// SoftmaxActivation normalizes along Dim, the class dimension of [batch, classes, ...] inputs.
type SoftmaxActivation struct {
	Dim int
}

func NewSoftmax(dim int) *SoftmaxActivation {
	return &SoftmaxActivation{Dim: dim}
}

func (s *SoftmaxActivation) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	return Softmax(input, s.Dim)
}
func (s *SoftmaxActivation) Parameters() []*tensor.Tensor { return []*tensor.Tensor{} }
func (s *SoftmaxActivation) ZeroGrad() {}
func (s *SoftmaxActivation) Name() string { return "Softmax" }
func (s *SoftmaxActivation) setDefaults() { s.Dim = 1 }



// DefaultPReLUWeight is the initial negative slope of a PReLU layer.
const DefaultPReLUWeight = 0.25

// PReLUActivation holds one learnable negative slope shared by all inputs.
type PReLUActivation struct {
	weight *tensor.Tensor // Shape: [1]
}

func NewPReLU() *PReLUActivation {
	p := &PReLUActivation{}
	p.setDefaults()
	return p
}

func (p *PReLUActivation) setDefaults() {
	p.weight = tensor.Scalar(DefaultPReLUWeight)
	p.weight.RequiresGrad = true
}

func (p *PReLUActivation) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	return PReLU(input, p.weight)
}

// Weight returns the learned slope tensor.
func (p *PReLUActivation) Weight() *tensor.Tensor { return p.weight }

func (p *PReLUActivation) Parameters() []*tensor.Tensor { return []*tensor.Tensor{p.weight} }
func (p *PReLUActivation) ParameterNames() []string { return []string{"Weight"} }
func (p *PReLUActivation) ZeroGrad() { zeroGrad(p.Parameters()) }
func (p *PReLUActivation) Name() string { return "PReLU" }
