package ndarray

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/hupe1980/ndstats/order"
)

var (
	// ErrInvalidAxis is the sentinel matched by AxisError.
	ErrInvalidAxis = errors.New("invalid axis")

	// ErrShapeMismatch is returned when data does not fit the requested shape.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNilArray is returned by CheckAxis on a nil array.
	ErrNilArray = errors.New("nil array")
)

// AxisError reports an axis outside [0, Ndim).
type AxisError struct {
	Axis int
	Ndim int
}

func (e *AxisError) Error() string {
	return fmt.Sprintf("invalid axis %d for array of %d dimensions", e.Axis, e.Ndim)
}

func (e *AxisError) Unwrap() error { return ErrInvalidAxis }

// Array is a dense, row-major n-dimensional array.
type Array[T order.Number] struct {
	data    []T
	shape   []int
	strides []int
}

// Zeros allocates a zero-filled array of the given shape. A call without
// dimensions yields a 0-d array holding a single element.
//
// Panics on a negative dimension.
func Zeros[T order.Number](shape ...int) *Array[T] {
	size, err := sizeOf(shape)
	if err != nil {
		panic(err)
	}
	return &Array[T]{
		data:    make([]T, size),
		shape:   slices.Clone(shape),
		strides: rowMajorStrides(shape),
	}
}

// FromSlice wraps data (without copying) as an array of the given shape.
func FromSlice[T order.Number](data []T, shape ...int) (*Array[T], error) {
	size, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	if size != len(data) {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, len(data), shape)
	}
	return &Array[T]{
		data:    data,
		shape:   slices.Clone(shape),
		strides: rowMajorStrides(shape),
	}, nil
}

// MustFromSlice is like FromSlice but panics on error. Intended for literals.
func MustFromSlice[T order.Number](data []T, shape ...int) *Array[T] {
	a, err := FromSlice(data, shape...)
	if err != nil {
		panic(err)
	}
	return a
}

// Scalar returns a 0-d array holding v.
func Scalar[T order.Number](v T) *Array[T] {
	return &Array[T]{data: []T{v}}
}

// Shape returns a copy of the array's shape.
// A nil array has no shape.
func (a *Array[T]) Shape() []int {
	if a == nil {
		return nil
	}
	return slices.Clone(a.shape)
}

// Strides returns a copy of the array's element strides.
func (a *Array[T]) Strides() []int {
	if a == nil {
		return nil
	}
	return slices.Clone(a.strides)
}

// Ndim returns the number of dimensions.
func (a *Array[T]) Ndim() int {
	if a == nil {
		return 0
	}
	return len(a.shape)
}

// Size returns the total number of elements.
func (a *Array[T]) Size() int {
	if a == nil {
		return 0
	}
	return len(a.data)
}

// Len returns the length of the array along axis.
func (a *Array[T]) Len(axis int) int { return a.shape[axis] }

// Data returns the row-major backing slice. Writes through it are visible in
// the array.
func (a *Array[T]) Data() []T {
	if a == nil {
		return nil
	}
	return a.data
}

// Clone returns a deep copy of the array.
func (a *Array[T]) Clone() *Array[T] {
	return &Array[T]{
		data:    slices.Clone(a.data),
		shape:   slices.Clone(a.shape),
		strides: slices.Clone(a.strides),
	}
}

// At returns the element at the given coordinates.
//
// Panics if the number of coordinates or any coordinate is out of range.
func (a *Array[T]) At(idx ...int) T {
	return a.data[a.offset(idx)]
}

// Set stores v at the given coordinates.
func (a *Array[T]) Set(v T, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a *Array[T]) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("ndarray: %d indices for %d dimensions", len(idx), len(a.shape)))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.shape[d] {
			panic(fmt.Sprintf("ndarray: index %d out of range for axis %d of length %d", i, d, a.shape[d]))
		}
		off += i * a.strides[d]
	}
	return off
}

// CheckAxis returns an AxisError unless 0 <= axis < Ndim.
func (a *Array[T]) CheckAxis(axis int) error {
	if a == nil {
		return ErrNilArray
	}
	if axis < 0 || axis >= len(a.shape) {
		return &AxisError{Axis: axis, Ndim: len(a.shape)}
	}
	return nil
}

// LaneCount returns the number of lanes along axis: the product of every
// other dimension.
func (a *Array[T]) LaneCount(axis int) int {
	n := 1
	for d, s := range a.shape {
		if d != axis {
			n *= s
		}
	}
	return n
}

// Lane returns the i-th lane along axis, counting lanes in row-major order of
// the remaining axes.
func (a *Array[T]) Lane(axis, i int) Lane[T] {
	rem := i
	off := 0
	for d := len(a.shape) - 1; d >= 0; d-- {
		if d == axis {
			continue
		}
		off += (rem % a.shape[d]) * a.strides[d]
		rem /= a.shape[d]
	}
	return Lane[T]{
		data:   a.data,
		offset: off,
		stride: a.strides[axis],
		n:      a.shape[axis],
	}
}

// Lanes iterates over every lane along axis together with its ordinal.
func (a *Array[T]) Lanes(axis int) iter.Seq2[int, Lane[T]] {
	return func(yield func(int, Lane[T]) bool) {
		count := a.LaneCount(axis)
		for i := 0; i < count; i++ {
			if !yield(i, a.Lane(axis, i)) {
				return
			}
		}
	}
}

// Equal reports whether a and b have the same shape and elements.
func Equal[T order.Number](a, b *Array[T]) bool {
	return slices.Equal(a.shape, b.shape) && slices.Equal(a.data, b.data)
}

func (a *Array[T]) String() string {
	return fmt.Sprintf("Array%v%v", a.shape, a.data)
}

func sizeOf(shape []int) (int, error) {
	size := 1
	for d, s := range shape {
		if s < 0 {
			return 0, fmt.Errorf("%w: negative length %d for axis %d", ErrShapeMismatch, s, d)
		}
		size *= s
	}
	return size, nil
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for d := len(shape) - 1; d >= 0; d-- {
		strides[d] = acc
		acc *= shape[d]
	}
	return strides
}

// RemoveAxis returns shape without axis.
func RemoveAxis(shape []int, axis int) []int {
	out := make([]int, 0, len(shape)-1)
	out = append(out, shape[:axis]...)
	return append(out, shape[axis+1:]...)
}

// InsertAxis returns shape with a new axis of length n at position axis.
func InsertAxis(shape []int, axis, n int) []int {
	out := make([]int, 0, len(shape)+1)
	out = append(out, shape[:axis]...)
	out = append(out, n)
	return append(out, shape[axis:]...)
}
