package utility

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/samber/lo"

	"go-dice/nn"
	"go-dice/tensor"
)

// provides utility functions to analyze and log details of a model.
type ModelInspector struct {
	model *nn.Sequential
}

// creates a new inspector for the given sequential model.
func NewModelInspector(model *nn.Sequential) *ModelInspector {
	return &ModelInspector{model: model}
}


// parameterNames labels a layer's parameters, falling back to param0, param1, ...
func parameterNames(layer nn.Layer, params []*tensor.Tensor) []string {
	if namer, ok := layer.(nn.ParameterNamer); ok {
		if names := namer.ParameterNames(); len(names) == len(params) {
			return names
		}
	}
	return lo.Times(len(params), func(i int) string { return fmt.Sprintf("param%d", i) })
}


// writes a summary of the model to w
func (mi *ModelInspector) Summary(w io.Writer) error {
	fmt.Fprintln(w, "\n--- Model Summary ---")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Layer (Type)\tParameters\tShape\tParam #")
	fmt.Fprintln(tw, "--------------\t----------\t-----\t-------")

	for _, layer := range mi.model.Layers() {
		params := layer.Parameters()
		layerName := layer.Name()

		if len(params) == 0 {
			fmt.Fprintf(tw, "%s\t-\t-\t0\n", layerName)
			continue
		}

		names := parameterNames(layer, params)
		for i, p := range params {
			layerDisplayName := layerName
			if i > 0 {
				layerDisplayName = ""
			}
			fmt.Fprintf(tw, "%s\t%s\t%v\t%d\n", layerDisplayName, names[i], p.GetShape(), tensor.Numel(p))
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	total, trainable := mi.CountParameters()

	fmt.Fprintln(w, "----------------------------------")
	fmt.Fprintf(w, "Total Parameters: %d\n", total)
	fmt.Fprintf(w, "Trainable Parameters: %d\n", trainable)
	_, err := fmt.Fprintln(w, "----------------------------------")
	return err
}


// parameter counts for the model.
func (mi *ModelInspector) CountParameters() (total int64, trainable int64) {
	for _, p := range mi.model.Parameters() {
		numel := int64(tensor.Numel(p))
		total += numel
		if p.RequiresGrad {
			trainable += numel
		}
	}
	return total, trainable
}


// DiceAlphas returns the current alpha of every Dice layer in the model, in layer order.
func (mi *ModelInspector) DiceAlphas() []float64 {
	return lo.FilterMap(mi.model.Layers(), func(layer nn.Layer, _ int) (float64, bool) {
		d, ok := layer.(*nn.Dice)
		if !ok {
			return 0, false
		}
		return d.Alpha().GetData()[0], true
	})
}
