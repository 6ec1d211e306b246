// Command dicetrain trains a small click-through model on synthetic data to exercise
// the activation layers, Dice by default.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go-dice/nn"
	"go-dice/utility"
)


type config struct {
	Activation   string
	Samples      int
	Features     int
	Hidden       int
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         int64
	SavePath     string
	Dashboard    bool
}

func (c config) validate() error {
	switch {
	case c.Samples < 10:
		return fmt.Errorf("--samples must be at least 10, got %d", c.Samples)
	case c.Features < 2:
		return fmt.Errorf("--features must be at least 2, got %d", c.Features)
	case c.Hidden <= 0 || c.Epochs <= 0 || c.BatchSize <= 0:
		return fmt.Errorf("--hidden, --epochs and --batch-size must be positive")
	case c.LearningRate <= 0:
		return fmt.Errorf("--lr must be positive, got %f", c.LearningRate)
	}
	return nil
}


func newRootCmd() *cobra.Command {
	cfg := config{}

	cmd := &cobra.Command{
		Use:          "dicetrain",
		Short:        "Train a click-through model with a configurable activation layer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Activation, "activation", "dice", "activation layer: "+strings.Join(nn.ActivationNames(), ", "))
	f.IntVar(&cfg.Samples, "samples", 5000, "number of synthetic impressions")
	f.IntVar(&cfg.Features, "features", 8, "dense features per impression")
	f.IntVar(&cfg.Hidden, "hidden", 16, "hidden layer width")
	f.IntVar(&cfg.Epochs, "epochs", 5, "training epochs")
	f.IntVar(&cfg.BatchSize, "batch-size", 32, "minibatch size")
	f.Float64Var(&cfg.LearningRate, "lr", 0.05, "SGD learning rate")
	f.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "random seed for data, weights and Dice alpha")
	f.StringVar(&cfg.SavePath, "save", "", "write a gob checkpoint of the trained parameters to this path")
	f.BoolVar(&cfg.Dashboard, "dashboard", false, "show the terminal dashboard instead of progress lines")
	return cmd
}


func run(cfg config) error {
	rng := rand.New(rand.NewSource(cfg.Seed))

	data, err := makeClickDataset(cfg.Samples, cfg.Features, rng)
	if err != nil {
		return err
	}
	trainSet, testSet := data.split(0.8)

	model, err := newClickModel(cfg, rng)
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}
	inspector := utility.NewModelInspector(model)

	var rep reporter = consoleReporter{epochs: cfg.Epochs}
	if cfg.Dashboard {
		d, err := utility.NewTrainingDashboard(utility.DashboardConfig{
			Activation:   cfg.Activation,
			LearningRate: cfg.LearningRate,
			BatchSize:    cfg.BatchSize,
			Epochs:       cfg.Epochs,
		})
		if err != nil {
			return err
		}
		defer d.Close()
		rep = dashboardReporter{d: d, epochs: cfg.Epochs}
	} else {
		fmt.Printf("Generated %d training and %d test impressions.\n", trainSet.Len(), testSet.Len())
		if err := inspector.Summary(os.Stdout); err != nil {
			return err
		}
	}

	if err := train(model, trainSet, testSet, cfg, rng, rep); err != nil {
		return err
	}

	if dr, ok := rep.(dashboardReporter); ok {
		dr.d.Log("Training complete. Press q to quit.")
		dr.d.Loop()
	} else {
		for i, a := range inspector.DiceAlphas() {
			fmt.Printf("Dice[%d] learned alpha: %.4f\n", i, a)
		}
	}

	if cfg.SavePath != "" {
		if err := saveModel(model, cfg.SavePath); err != nil {
			return err
		}
		fmt.Printf("Model saved to %s\n", cfg.SavePath)
	}
	return nil
}


func saveModel(model *nn.Sequential, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file %s: %w", path, err)
	}
	if err := nn.SaveParameters(file, model.Parameters()); err != nil {
		file.Close()
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return file.Close()
}


func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
