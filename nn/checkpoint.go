package nn

import (
	"encoding/gob"
	"fmt"
	"io"

	"go-dice/tensor"
)


// SaveParameters gob encodes params in order. gob is the go native binary format (how pickle is to python).
func SaveParameters(w io.Writer, params []*tensor.Tensor) error {
	if err := gob.NewEncoder(w).Encode(params); err != nil {
		return fmt.Errorf("could not encode parameters: %w", err)
	}
	return nil
}


// LoadParameters decodes a checkpoint written by SaveParameters and copies it into params.
// count and shapes must match exactly.
func LoadParameters(r io.Reader, params []*tensor.Tensor) error {
	var savedParams []*tensor.Tensor
	if err := gob.NewDecoder(r).Decode(&savedParams); err != nil {
		return fmt.Errorf("could not decode parameters: %w", err)
	}

	if len(savedParams) != len(params) {
		return fmt.Errorf("parameter count mismatch: saved model has %d, current model has %d", len(savedParams), len(params))
	}

	for i, param := range params {
		savedParam := savedParams[i]
		if !tensor.IsSameSize(param, savedParam) {
			return fmt.Errorf("%w: parameter %d saved shape %v, model shape %v", tensor.ErrShape, i, savedParam.GetShape(), param.GetShape())
		}
	}
	for i, param := range params {
		copy(param.GetData(), savedParams[i].GetData())
	}
	return nil
}
