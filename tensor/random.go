package tensor

import "math/rand"


// RandN fills a new tensor of the given shape with draws from N(0, 1).
// a nil rng uses the global math/rand source.
func RandN(shape []int, rng *rand.Rand) (*Tensor, error) {
	t, err := NewTensor(shape, nil)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		if rng != nil {
			t.data[i] = rng.NormFloat64()
		} else {
			t.data[i] = rand.NormFloat64()
		}
	}
	return t, nil
}


// RandUniform fills a new tensor with draws from [low, high).
func RandUniform(shape []int, low, high float64, rng *rand.Rand) (*Tensor, error) {
	t, err := NewTensor(shape, nil)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		var u float64
		if rng != nil {
			u = rng.Float64()
		} else {
			u = rand.Float64()
		}
		t.data[i] = low + (high-low)*u
	}
	return t, nil
}
