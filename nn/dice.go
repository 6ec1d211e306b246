package nn

import (
	"errors"
	"fmt"
	"math/rand"

	"go-dice/tensor"
)


// DefaultDiceEpsilon keeps the normalizer positive when a sample has zero variance.
const DefaultDiceEpsilon = 1e-3

var errDiceUninitialized = errors.New("dice: alpha is not initialized, use NewDice")


// Dice is the data adaptive activation from Deep Interest Network (https://arxiv.org/abs/1706.06978).
//
// Each element is gated by how far it sits from its sample mean along dim 1:
//
//	ps  = sigmoid((x - mean(x)) / sqrt(sum((x - mean(x))^2 + epsilon)))
//	out = ps*x + (1-ps)*alpha*x
//
// alpha is a single learned scalar, drawn from N(0, 1) at construction. Forward
// only reads it, updates come from an optimizer. The zero Dice has no alpha and
// its Forward returns an error, so build units with NewDice.
type Dice struct {
	alpha   *tensor.Tensor // Shape: [1]
	epsilon float64
}


// NewDice creates a Dice unit with a freshly drawn alpha.
func NewDice(epsilon float64) *Dice {
	d := &Dice{epsilon: epsilon}
	d.initAlpha(nil)
	return d
}

// Reseed redraws alpha from rng, so a seeded model starts from the same alpha
// on every run. A nil rng uses the global source. Any gradient is discarded.
func (d *Dice) Reseed(rng *rand.Rand) {
	d.initAlpha(rng)
}

func (d *Dice) initAlpha(rng *rand.Rand) {
	// a [1] shape never fails
	alpha, _ := tensor.RandN([]int{1}, rng)
	alpha.RequiresGrad = true
	d.alpha = alpha
}

func (d *Dice) setDefaults() {
	d.epsilon = DefaultDiceEpsilon
	d.initAlpha(nil)
}



// Forward applies Dice to x of shape [batch, features, ...], normalizing along dim 1.
// Inputs of rank < 2 fail with tensor.ErrShape.
func (d *Dice) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if d.alpha == nil {
		return nil, errDiceUninitialized
	}
	shape := x.GetShape()
	if len(shape) < 2 {
		return nil, fmt.Errorf("dice: %w: input must have at least 2 dimensions, got %v", tensor.ErrShape, shape)
	}

	avg, err := tensor.MeanDim(x, 1)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}
	avgB, err := tensor.BroadcastTo(avg, shape)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}
	centered, err := tensor.SubTensor(x, avgB)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}

	// epsilon is added per element before the sum
	sq, err := tensor.MulTensor(centered, centered)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}
	variance, err := tensor.SumDim(tensor.AddScalar(sq, d.epsilon), 1)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}
	stdB, err := tensor.BroadcastTo(tensor.SqrtTensor(variance), shape)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}

	normalized, err := tensor.DivTensor(centered, stdB)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}
	ps, err := Sigmoid(normalized)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}

	passThrough, err := tensor.MulTensor(ps, x)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}
	alphaB, err := tensor.BroadcastTo(d.alpha, shape)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}
	gateOff := tensor.AddScalar(tensor.ScaleTensor(ps, -1), 1)
	scaled, err := tensor.MulTensor(gateOff, alphaB)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}
	rectified, err := tensor.MulTensor(scaled, x)
	if err != nil {
		return nil, fmt.Errorf("dice: %w", err)
	}

	return tensor.AddTensor(passThrough, rectified)
}


// Alpha returns the learned scalar as a [1] tensor.
func (d *Dice) Alpha() *tensor.Tensor { return d.alpha }

func (d *Dice) Epsilon() float64 { return d.epsilon }

func (d *Dice) Parameters() []*tensor.Tensor {
	if d.alpha == nil {
		return []*tensor.Tensor{}
	}
	return []*tensor.Tensor{d.alpha}
}

func (d *Dice) ParameterNames() []string { return []string{"Alpha"} }
func (d *Dice) ZeroGrad() { zeroGrad(d.Parameters()) }
func (d *Dice) Name() string { return "Dice" }
