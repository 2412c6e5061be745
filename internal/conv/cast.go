package conv

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// Uint64ToInt converts v to int.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d does not fit int", ErrOverflow, v)
	}
	return int(v), nil
}

// IntToUint64 converts a non-negative v to uint64.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrOverflow, v)
	}
	return uint64(v), nil
}

// MulInt returns a*b for non-negative operands, failing when the product
// exceeds math.MaxInt.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: negative factor in %d*%d", ErrOverflow, a, b)
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d*%d", ErrOverflow, a, b)
	}
	return int(lo), nil
}

// Product multiplies dims with MulInt. The empty product is 1.
func Product(dims []int) (int, error) {
	p := 1
	for _, d := range dims {
		var err error
		if p, err = MulInt(p, d); err != nil {
			return 0, err
		}
	}
	return p, nil
}
