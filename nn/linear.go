package nn

import (
	"fmt"
	"math"
	"math/rand"

	"go-dice/tensor"
)


// linear dense layer: output = input @ weight + bias
type Linear struct {
	weight *tensor.Tensor // Shape: [inputDimensions, outputDimensions]
	bias   *tensor.Tensor // Shape: [outputDimensions]
}




// NewLinear creates a Linear layer with weights and biases drawn from U(-1/sqrt(in), 1/sqrt(in)).
// Both are parameters, so RequiresGrad is set. rng may be nil.
func NewLinear(inputDimensions, outputDimensions int, rng *rand.Rand) (*Linear, error) {
	if inputDimensions <= 0 || outputDimensions <= 0 {
		return nil, fmt.Errorf("linear layer dimensions must be positive, got input %d, output %d", inputDimensions, outputDimensions)
	}

	bound := 1 / math.Sqrt(float64(inputDimensions))

	weights, err := tensor.RandUniform([]int{inputDimensions, outputDimensions}, -bound, bound, rng)
	if err != nil {
		return nil, fmt.Errorf("linear layer failed to create weight tensor: %w", err)
	}
	weights.RequiresGrad = true

	bias, err := tensor.RandUniform([]int{outputDimensions}, -bound, bound, rng)
	if err != nil {
		return nil, fmt.Errorf("linear layer failed to create bias tensor: %w", err)
	}
	bias.RequiresGrad = true

	return &Linear{weight: weights, bias: bias}, nil
}




// Forward performs the forward pass of the Linear layer on input of shape [batch_size, input_dimensions].
func (l *Linear) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	inputShape := input.GetShape()
	if len(inputShape) != 2 {
		return nil, fmt.Errorf("%w: linear layer expects 2D input tensor [batch_size, input_dimensions], got shape %v", tensor.ErrShape, inputShape)
	}

	weightShape := l.weight.GetShape()
	if inputShape[1] != weightShape[0] {
		return nil, fmt.Errorf("%w: linear layer input dimension mismatch: input %d, weight expected %d", tensor.ErrShape, inputShape[1], weightShape[0])
	}

	// [batch_size, input_dimensions] @ [input_dimensions, output_dimensions]
	step, err := tensor.MatMulTensor(input, l.weight)
	if err != nil {
		return nil, fmt.Errorf("linear layer matmul failed: %w", err)
	}

	// [output_dimensions] -> [batch_size, output_dimensions], gradients are summed back over the batch
	broadcastedBias, err := tensor.BroadcastTo(l.bias, step.GetShape())
	if err != nil {
		return nil, fmt.Errorf("linear layer bias broadcast failed: %w", err)
	}

	output, err := tensor.AddTensor(step, broadcastedBias)
	if err != nil {
		return nil, fmt.Errorf("linear layer bias addition failed: %w", err)
	}
	return output, nil
}



// Parameters() returns the list of parameters in the layer that require gradients. i feed this for optimizers.
func (l *Linear) Parameters() []*tensor.Tensor {
	params := []*tensor.Tensor{}
	if l.weight != nil && l.weight.RequiresGrad {
		params = append(params, l.weight)
	}
	if l.bias != nil && l.bias.RequiresGrad {
		params = append(params, l.bias)
	}
	return params
}

func (l *Linear) ParameterNames() []string { return []string{"Weight", "Bias"} }

func (l *Linear) ZeroGrad() { zeroGrad(l.Parameters()) }

func (l *Linear) Name() string { return "Linear" }
