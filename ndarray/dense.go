package ndarray

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrNotMatrix is returned when converting an array that is not a non-empty
// two-dimensional array.
var ErrNotMatrix = errors.New("array is not a non-empty matrix")

// FromDense copies a gonum matrix into a 2-d array.
func FromDense(m *mat.Dense) *Array[float64] {
	r, c := m.Dims()
	out := Zeros[float64](r, c)
	raw := m.RawMatrix()
	for i := 0; i < r; i++ {
		copy(out.data[i*c:(i+1)*c], raw.Data[i*raw.Stride:i*raw.Stride+c])
	}
	return out
}

// ToDense copies a 2-d array into a gonum matrix.
func ToDense(a *Array[float64]) (*mat.Dense, error) {
	if a.Ndim() != 2 || a.Size() == 0 {
		return nil, fmt.Errorf("%w: shape %v", ErrNotMatrix, a.shape)
	}
	data := make([]float64, len(a.data))
	copy(data, a.data)
	return mat.NewDense(a.shape[0], a.shape[1], data), nil
}
