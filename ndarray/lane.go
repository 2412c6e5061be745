package ndarray

import "github.com/hupe1980/ndstats/order"

// Lane is a strided one-dimensional view into an Array. Writes through a Lane
// modify the underlying array.
type Lane[T order.Number] struct {
	data   []T
	offset int
	stride int
	n      int
}

// Len returns the number of elements in the lane.
func (l Lane[T]) Len() int { return l.n }

// At returns the i-th element of the lane.
func (l Lane[T]) At(i int) T { return l.data[l.offset+i*l.stride] }

// Set stores v as the i-th element of the lane.
func (l Lane[T]) Set(i int, v T) { l.data[l.offset+i*l.stride] = v }

// Contiguous returns the lane as a plain slice aliasing the array when its
// elements are adjacent in memory.
func (l Lane[T]) Contiguous() ([]T, bool) {
	if l.n == 0 {
		return nil, true
	}
	if l.stride == 1 || l.n == 1 {
		return l.data[l.offset : l.offset+l.n : l.offset+l.n], true
	}
	return nil, false
}

// CopyTo copies the lane into dst and returns the number of elements copied,
// min(len(dst), Len()).
func (l Lane[T]) CopyTo(dst []T) int {
	if s, ok := l.Contiguous(); ok {
		return copy(dst, s)
	}
	n := min(len(dst), l.n)
	for i, j := 0, l.offset; i < n; i, j = i+1, j+l.stride {
		dst[i] = l.data[j]
	}
	return n
}

// CopyFrom overwrites the lane with src and returns the number of elements
// copied, min(len(src), Len()).
func (l Lane[T]) CopyFrom(src []T) int {
	if s, ok := l.Contiguous(); ok {
		return copy(s, src)
	}
	n := min(len(src), l.n)
	for i, j := 0, l.offset; i < n; i, j = i+1, j+l.stride {
		l.data[j] = src[i]
	}
	return n
}

// Values returns a freshly allocated copy of the lane.
func (l Lane[T]) Values() []T {
	out := make([]T, l.n)
	l.CopyTo(out)
	return out
}
