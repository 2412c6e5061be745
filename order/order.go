// Package order provides the total-order adapter used by the selection engine.
//
// Integer kinds are ordered natively. Floating-point kinds are ordered natively
// as well, which is only a strict total order when no NaN is present: callers
// that cannot guarantee this either pre-filter their data, wrap each value in
// NotNaN (which rejects NaN at construction time so that the comparison itself
// stays branch-free), or select with TotalCompare, which places NaN last.
//
// NotNaN lanes and TotalCompare plug into the comparator-driven selectors
// (selection.SelectManyFunc, quantile.ResolveFunc).
package order

import (
	"errors"
	"fmt"
)

// ErrNaN is returned when a NaN is wrapped into a NotNaN.
var ErrNaN = errors.New("value is NaN")

// Integer is the set of Go integer kinds.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is the set of Go floating-point kinds.
type Float interface {
	~float32 | ~float64
}

// Number is every element type the selection engine accepts.
type Number interface {
	Integer | Float
}

// Less reports whether a orders strictly before b.
func Less[T Number](a, b T) bool {
	return a < b
}

// Compare returns -1, 0 or +1 depending on whether a is less than, equal to or
// greater than b. NaN compares equal to everything, which is exactly why it
// breaks transitivity.
func Compare[T Number](a, b T) int {
	switch {
	case a < b:
		return -1
	case b < a:
		return 1
	default:
		return 0
	}
}

// IsNaN reports whether v is a floating-point NaN. It is always false for
// integer kinds.
func IsNaN[T Number](v T) bool {
	return v != v
}

// TotalCompare orders floats with every NaN placed after +Inf. Unlike Compare it
// is a strict total order on any input, at the cost of an extra branch.
func TotalCompare[F Float](a, b F) int {
	an, bn := IsNaN(a), IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	return Compare(a, b)
}

// NotNaN is a float that is known not to be NaN. Values of this type form a
// strict total order under Less.
type NotNaN[F Float] struct {
	v F
}

// NewNotNaN wraps v, failing with ErrNaN if v is NaN.
func NewNotNaN[F Float](v F) (NotNaN[F], error) {
	if IsNaN(v) {
		return NotNaN[F]{}, ErrNaN
	}
	return NotNaN[F]{v: v}, nil
}

// MustNotNaN is like NewNotNaN but panics on NaN. Intended for literals.
func MustNotNaN[F Float](v F) NotNaN[F] {
	n, err := NewNotNaN(v)
	if err != nil {
		panic(err)
	}
	return n
}

// Value returns the wrapped float.
func (n NotNaN[F]) Value() F { return n.v }

// Less reports whether n orders strictly before o.
func (n NotNaN[F]) Less(o NotNaN[F]) bool { return n.v < o.v }

// Compare is the three-way form of Less.
func (n NotNaN[F]) Compare(o NotNaN[F]) int { return Compare(n.v, o.v) }

func (n NotNaN[F]) String() string {
	return fmt.Sprint(n.v)
}

// Wrap converts plain floats to their wrapped form, failing on the first NaN.
func Wrap[F Float](xs []F) ([]NotNaN[F], error) {
	out := make([]NotNaN[F], len(xs))
	for i, v := range xs {
		n, err := NewNotNaN(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
