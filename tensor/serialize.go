package tensor

import (
	"bytes"
	"encoding/gob"
	"fmt"
)


// gob skips unexported fields, so parameters are encoded through this mirror.
type wireTensor struct {
	Shape        []int
	Data         []float64
	RequiresGrad bool
}


func (t *Tensor) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(wireTensor{Shape: t.shape, Data: t.data, RequiresGrad: t.RequiresGrad})
	if err != nil {
		return nil, fmt.Errorf("tensor: gob encode: %w", err)
	}
	return buf.Bytes(), nil
}


// GobDecode restores shape, data and RequiresGrad. the graph and gradient are not stored.
func (t *Tensor) GobDecode(b []byte) error {
	var w wireTensor
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&w); err != nil {
		return fmt.Errorf("tensor: gob decode: %w", err)
	}
	decoded, err := NewTensor(w.Shape, w.Data)
	if err != nil {
		return err
	}
	*t = Tensor{shape: decoded.shape, data: decoded.data, RequiresGrad: w.RequiresGrad}
	return nil
}
