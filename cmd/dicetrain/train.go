package main

import (
	"fmt"
	"math/rand"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"go-dice/nn"
	"go-dice/optimizer"
	"go-dice/utility"
)


type reseeder interface {
	Reseed(rng *rand.Rand)
}

// newClickModel builds Linear -> activation -> Linear with two output classes.
func newClickModel(cfg config, rng *rand.Rand) (*nn.Sequential, error) {
	hidden, err := nn.NewLinear(cfg.Features, cfg.Hidden, rng)
	if err != nil {
		return nil, err
	}
	act, err := nn.ActivationLayer(nn.ActivationName(cfg.Activation))
	if err != nil {
		return nil, err
	}
	// draw activation parameters from the seeded source too
	if r, ok := act.(reseeder); ok {
		r.Reseed(rng)
	}
	head, err := nn.NewLinear(cfg.Hidden, 2, rng)
	if err != nil {
		return nil, err
	}
	return nn.NewSequential(hidden, act, head), nil
}


// reporter receives training progress. it is either the terminal printer or the dashboard.
type reporter interface {
	batchDone(epoch, batch, totalBatches int, loss, avgLoss float64, alphas []float64, epochStart, totalStart time.Time)
	epochDone(epoch int, accuracy float64, took time.Duration)
}


type consoleReporter struct {
	epochs int
}

func (c consoleReporter) batchDone(epoch, batch, totalBatches int, _, avgLoss float64, _ []float64, _, _ time.Time) {
	percentComplete := float64(batch) / float64(totalBatches) * 100
	fmt.Printf("\rEpoch %d/%d [%-50s] %3.0f%% - Avg Loss: %.4f",
		epoch, c.epochs, buildProgressBar(percentComplete), percentComplete, avgLoss)
}

func (c consoleReporter) epochDone(epoch int, accuracy float64, took time.Duration) {
	fmt.Printf("\nEpoch %d completed in %v. Test Accuracy: %.2f%%\n", epoch, took, accuracy*100)
}


type dashboardReporter struct {
	d      *utility.TrainingDashboard
	epochs int
}

func (r dashboardReporter) batchDone(epoch, batch, totalBatches int, loss, avgLoss float64, alphas []float64, epochStart, totalStart time.Time) {
	r.d.AddLoss(loss)
	r.d.UpdateStats(epoch, r.epochs, batch, totalBatches, avgLoss, alphas, epochStart, totalStart)
}

func (r dashboardReporter) epochDone(epoch int, accuracy float64, took time.Duration) {
	r.d.AddAccuracy(accuracy * 100)
	r.d.Log(fmt.Sprintf("Epoch %d completed in %v. Test Accuracy: %.2f%%", epoch, took, accuracy*100))
}



// train runs cfg.Epochs of minibatch SGD and evaluates on test after each epoch.
func train(model *nn.Sequential, trainSet, testSet *dataset, cfg config, rng *rand.Rand, rep reporter) error {
	opt, err := optimizer.NewSGD(model.Parameters(), cfg.LearningRate)
	if err != nil {
		return err
	}
	inspector := utility.NewModelInspector(model)

	numTrainSamples := trainSet.Len()
	numBatches := (numTrainSamples + cfg.BatchSize - 1) / cfg.BatchSize
	totalStart := time.Now()

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		epochStart := time.Now()
		runningLoss := 0.0
		indices := rng.Perm(numTrainSamples)

		for i := 0; i < numBatches; i++ {
			end := min((i+1)*cfg.BatchSize, numTrainSamples)
			x, labels, err := trainSet.batch(indices[i*cfg.BatchSize : end])
			if err != nil {
				return fmt.Errorf("epoch %d, batch %d: %w", epoch, i, err)
			}

			opt.ZeroGrad()
			logits, err := model.Forward(x)
			if err != nil {
				return fmt.Errorf("epoch %d, batch %d: forward pass failed: %w", epoch, i, err)
			}
			loss, err := nn.CrossEntropyLoss(logits, labels)
			if err != nil {
				return fmt.Errorf("epoch %d, batch %d: loss calculation failed: %w", epoch, i, err)
			}
			lossValue := loss.GetData()[0]
			runningLoss += lossValue

			loss.Backward(nil)
			if err := opt.Step(); err != nil {
				return fmt.Errorf("epoch %d, batch %d: optimizer step failed: %w", epoch, i, err)
			}

			rep.batchDone(epoch, i+1, numBatches, lossValue, runningLoss/float64(i+1), inspector.DiceAlphas(), epochStart, totalStart)
		}

		accuracy, err := evaluate(model, testSet, cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("epoch %d: evaluation failed: %w", epoch, err)
		}
		rep.epochDone(epoch, accuracy, time.Since(epochStart))
	}
	return nil
}



// evaluate runs the test set in concurrent batches. forward passes only read parameters,
// so this must not overlap with an optimizer step.
func evaluate(model *nn.Sequential, testSet *dataset, batchSize int) (float64, error) {
	n := testSet.Len()
	if n == 0 {
		return 0, nil
	}

	var correct atomic.Int64
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for start := 0; start < n; start += batchSize {
		start := start
		end := min(start+batchSize, n)
		g.Go(func() error {
			indices := make([]int, end-start)
			for j := range indices {
				indices[j] = start + j
			}
			x, labels, err := testSet.batch(indices)
			if err != nil {
				return err
			}
			logits, err := model.Forward(x)
			if err != nil {
				return err
			}
			predictions, err := nn.Argmax(logits)
			if err != nil {
				return err
			}
			for j, p := range predictions {
				if p == labels[j] {
					correct.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return float64(correct.Load()) / float64(n), nil
}


// buildProgressBar is a helper function to create the visual progress bar string.
func buildProgressBar(percent float64) string {
	barWidth := 50
	progress := int(percent / 100.0 * float64(barWidth))

	var b strings.Builder
	b.WriteString(strings.Repeat("=", progress))
	if progress < barWidth {
		b.WriteString(">")
	}
	if rest := barWidth - progress - 1; rest > 0 {
		b.WriteString(strings.Repeat(" ", rest))
	}
	return b.String()
}
