package main

import (
	"fmt"
	"math"
	"math/rand"

	"go-dice/tensor"
)


// dataset is a dense click-through table: one row of features per impression and a 0/1 click label.
type dataset struct {
	features    []float64 // row-major [n, numFeatures]
	labels      []int
	numFeatures int
}

func (d *dataset) Len() int { return len(d.labels) }


// makeClickDataset draws features from N(0, 1) and clicks from a hidden logistic model
// with one pairwise interaction, so the task is not linearly separable.
func makeClickDataset(n, numFeatures int, rng *rand.Rand) (*dataset, error) {
	if n <= 0 || numFeatures < 2 {
		return nil, fmt.Errorf("dataset needs at least 1 sample and 2 features, got %d samples and %d features", n, numFeatures)
	}

	weights := make([]float64, numFeatures)
	for i := range weights {
		weights[i] = rng.NormFloat64()
	}

	d := &dataset{
		features:    make([]float64, n*numFeatures),
		labels:      make([]int, n),
		numFeatures: numFeatures,
	}
	for i := 0; i < n; i++ {
		row := d.features[i*numFeatures : (i+1)*numFeatures]
		logit := 0.0
		for j := range row {
			row[j] = rng.NormFloat64()
			logit += weights[j] * row[j]
		}
		logit += 2 * row[0] * row[1]

		if rng.Float64() < 1/(1+math.Exp(-logit)) {
			d.labels[i] = 1
		}
	}
	return d, nil
}


// split returns the first fraction of rows and the rest.
func (d *dataset) split(fraction float64) (*dataset, *dataset) {
	cut := int(float64(d.Len()) * fraction)
	f := d.numFeatures
	head := &dataset{features: d.features[:cut*f], labels: d.labels[:cut], numFeatures: f}
	tail := &dataset{features: d.features[cut*f:], labels: d.labels[cut:], numFeatures: f}
	return head, tail
}


// batch gathers the given rows into a [len(indices), numFeatures] tensor.
func (d *dataset) batch(indices []int) (*tensor.Tensor, []int, error) {
	f := d.numFeatures
	data := make([]float64, len(indices)*f)
	labels := make([]int, len(indices))
	for j, idx := range indices {
		copy(data[j*f:(j+1)*f], d.features[idx*f:(idx+1)*f])
		labels[j] = d.labels[idx]
	}
	x, err := tensor.NewTensor([]int{len(indices), f}, data)
	if err != nil {
		return nil, nil, err
	}
	return x, labels, nil
}
