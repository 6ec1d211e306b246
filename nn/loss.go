package nn

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"go-dice/tensor"
)



// computes the mean Cross-Entropy Loss between logits [batch_size, num_classes] and
// target class indices (0-indexed). softmax is fused in, so pass raw logits.
func CrossEntropyLoss(logits *tensor.Tensor, targets []int) (*tensor.Tensor, error) {
	logitsSize := tensor.Numel(logits)
	batchSize := len(targets)

	if batchSize == 0 {
		return tensor.Scalar(0), nil
	}

	if logitsSize%batchSize != 0 {
		return nil, fmt.Errorf("cross_entropy_loss: logits size (%d) is not divisible by batch size (%d)", logitsSize, batchSize)
	}
	numClasses := logitsSize / batchSize

	logitsData := logits.GetData()
	probsData := make([]float64, logitsSize)
	lossSum := 0.0

	for i := 0; i < batchSize; i++ {
		itemLogits := logitsData[i*numClasses : (i+1)*numClasses]
		itemProbs := probsData[i*numClasses : (i+1)*numClasses]

		targetIndex := targets[i]
		if targetIndex < 0 || targetIndex >= numClasses {
			return nil, fmt.Errorf("cross_entropy_loss: target index %d out of bounds for batch item %d with %d classes", targetIndex, i, numClasses)
		}

		// log-sum-exp for numerical stability
		maxv := itemLogits[0]
		for _, v := range itemLogits {
			maxv = math.Max(maxv, v)
		}
		var sumExp float64
		for k, v := range itemLogits {
			itemProbs[k] = math.Exp(v - maxv)
			sumExp += itemProbs[k]
		}
		for k := range itemProbs {
			itemProbs[k] /= sumExp
		}

		// -log p_target = logsumexp - logit_target
		lossSum += maxv + math.Log(sumExp) - itemLogits[targetIndex]
	}

	lossTensor := tensor.Scalar(lossSum / float64(batchSize))

	if logits.RequiresGrad {
		lossTensor.RequiresGrad = true
		lossTensor.Parents = []*tensor.Tensor{logits}
		lossTensor.Operation = "cross_entropy_loss"

		lossTensor.BackwardFunc = func(grad *tensor.Tensor) {
			// d loss / d logit_j = (p_j - [j == target]) / batch_size, scaled by the incoming grad
			gradDataForLogits := make([]float64, logitsSize)
			scale := grad.GetData()[0] / float64(batchSize)

			// one goroutine per chunk of rows; rows never share gradient slots
			workers := min(runtime.NumCPU(), batchSize)
			chunk := (batchSize + workers - 1) / workers
			var g errgroup.Group
			for from := 0; from < batchSize; from += chunk {
				from := from
				to := min(from+chunk, batchSize)
				g.Go(func() error {
					for item := from; item < to; item++ {
						start := item * numClasses
						for j := 0; j < numClasses; j++ {
							gradVal := probsData[start+j]
							if j == targets[item] {
								gradVal -= 1.0
							}
							gradDataForLogits[start+j] = gradVal * scale
						}
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				fmt.Printf("Warning: CrossEntropyLoss backward failed: %v\n", err)
				return
			}

			gradTensorForLogits, err := tensor.NewTensor(logits.GetShape(), gradDataForLogits)
			if err != nil {
				fmt.Printf("Warning: Failed to create gradient tensor for logits in CrossEntropyLoss backward: %v\n", err)
				return
			}
			logits.AccumulateGrad(gradTensorForLogits)
		}
	}

	return lossTensor, nil
}



// Argmax returns the index of the largest value in each row of a [batch_size, num_classes] tensor.
func Argmax(t *tensor.Tensor) ([]int, error) {
	shape := t.GetShape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: argmax expects [batch_size, num_classes], got %v", tensor.ErrShape, shape)
	}
	rows, cols := shape[0], shape[1]
	data := t.GetData()
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		best := 0
		for k := 1; k < cols; k++ {
			if data[i*cols+k] > data[i*cols+best] {
				best = k
			}
		}
		out[i] = best
	}
	return out, nil
}
