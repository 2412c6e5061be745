package codec

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/ndstats/ndarray"
	"github.com/hupe1980/ndstats/order"
)

type jsonArray[T order.Number] struct {
	DType string `json:"dtype"`
	Shape []int  `json:"shape"`
	Data  []T    `json:"data"`
}

// MarshalJSON encodes a as {"dtype": ..., "shape": [...], "data": [...]} with
// data in row-major order. Arrays holding NaN or Inf cannot be encoded.
func MarshalJSON[T order.Number](a *ndarray.Array[T]) ([]byte, error) {
	shape := a.Shape()
	if shape == nil {
		shape = []int{}
	}
	return gojson.Marshal(jsonArray[T]{
		DType: DTypeOf[T]().String(),
		Shape: shape,
		Data:  a.Data(),
	})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func UnmarshalJSON[T order.Number](data []byte) (*ndarray.Array[T], error) {
	var hdr struct {
		DType string            `json:"dtype"`
		Shape []int             `json:"shape"`
		Data  gojson.RawMessage `json:"data"`
	}
	if err := gojson.Unmarshal(data, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if want := DTypeOf[T]().String(); hdr.DType != want {
		return nil, fmt.Errorf("%w: document holds %q, want %q", ErrDTypeMismatch, hdr.DType, want)
	}
	if len(hdr.Shape) > MaxDims {
		return nil, fmt.Errorf("%w: %d dimensions exceed %d", ErrInvalidFrame, len(hdr.Shape), MaxDims)
	}

	elems := []T{}
	if len(hdr.Data) > 0 {
		if err := gojson.Unmarshal(hdr.Data, &elems); err != nil {
			return nil, fmt.Errorf("%w: data: %w", ErrInvalidFrame, err)
		}
	}
	if elems == nil {
		elems = []T{}
	}
	a, err := ndarray.FromSlice(elems, hdr.Shape...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	return a, nil
}
