package main

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-dice/nn"
)

type nopReporter struct {
	epochs []float64
}

func (n *nopReporter) batchDone(int, int, int, float64, float64, []float64, time.Time, time.Time) {}
func (n *nopReporter) epochDone(_ int, accuracy float64, _ time.Duration) {
	n.epochs = append(n.epochs, accuracy)
}

func TestMakeClickDataset(t *testing.T) {
	d, err := makeClickDataset(100, 4, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 100, d.Len())
	for _, l := range d.labels {
		assert.Contains(t, []int{0, 1}, l)
	}

	trainSet, testSet := d.split(0.8)
	assert.Equal(t, 80, trainSet.Len())
	assert.Equal(t, 20, testSet.Len())

	x, labels, err := testSet.batch([]int{0, 19})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, x.GetShape())
	assert.Equal(t, testSet.features[:4], x.GetData()[:4])
	assert.Equal(t, testSet.labels[19], labels[1])

	_, err = makeClickDataset(10, 1, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestTrainWithEachActivation(t *testing.T) {
	for _, act := range []string{"dice", "prelu", "relu", "sigmoid", "softmax"} {
		t.Run(act, func(t *testing.T) {
			cfg := config{Activation: act, Samples: 200, Features: 4, Hidden: 6, Epochs: 2, BatchSize: 16, LearningRate: 0.05}
			require.NoError(t, cfg.validate())

			rng := rand.New(rand.NewSource(3))
			data, err := makeClickDataset(cfg.Samples, cfg.Features, rng)
			require.NoError(t, err)
			trainSet, testSet := data.split(0.8)

			model, err := newClickModel(cfg, rng)
			require.NoError(t, err)

			rep := &nopReporter{}
			require.NoError(t, train(model, trainSet, testSet, cfg, rng, rep))
			require.Len(t, rep.epochs, 2)
			for _, acc := range rep.epochs {
				assert.GreaterOrEqual(t, acc, 0.0)
				assert.LessOrEqual(t, acc, 1.0)
			}
		})
	}
}

func TestNewClickModelRejectsUnknownActivation(t *testing.T) {
	_, err := newClickModel(config{Activation: "swish", Features: 2, Hidden: 2}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestSaveModel(t *testing.T) {
	model, err := newClickModel(config{Activation: "dice", Features: 2, Hidden: 3}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.NoError(t, saveModel(model, filepath.Join(t.TempDir(), "model.gob")))
}

func TestBuildProgressBar(t *testing.T) {
	assert.Len(t, buildProgressBar(0), 50)
	assert.Len(t, buildProgressBar(40), 50)
	assert.Equal(t, 50, len(buildProgressBar(100)))
}

func TestConfigValidate(t *testing.T) {
	ok := config{Samples: 100, Features: 4, Hidden: 4, Epochs: 1, BatchSize: 8, LearningRate: 0.1}
	assert.NoError(t, ok.validate())

	bad := ok
	bad.LearningRate = 0
	assert.Error(t, bad.validate())

	bad = ok
	bad.Features = 1
	assert.Error(t, bad.validate())
}

func TestClickModelIsReproducibleFromSeed(t *testing.T) {
	cfg := config{Activation: "dice", Features: 4, Hidden: 6}
	build := func() []float64 {
		model, err := newClickModel(cfg, rand.New(rand.NewSource(11)))
		require.NoError(t, err)
		var out []float64
		for _, p := range model.Parameters() {
			out = append(out, p.GetData()...)
		}
		return out
	}

	first, second := build(), build()
	assert.Equal(t, first, second)

	model, err := newClickModel(cfg, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	alpha := model.Layers()[1].(*nn.Dice).Alpha().GetData()[0]
	assert.Contains(t, first, alpha)
}
