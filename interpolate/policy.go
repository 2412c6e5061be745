// Package interpolate maps fractional quantile levels to integer ranks and
// combines the values found at those ranks.
//
// For a lane of n elements the level q selects the virtual position
// p = q*(n-1). With lo = floor(p), hi = ceil(p) and frac = p - lo:
//
//	Lower     value[lo]
//	Higher    value[hi]
//	Nearest   value[lo] if frac < 0.5, else value[hi]
//	Midpoint  (value[lo] + value[hi]) / 2, computed without overflow
//	Linear    value[lo] + frac*(value[hi] - value[lo])
//
// Nearest resolves the tie frac == 0.5 to the higher rank.
package interpolate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"

	"github.com/hupe1980/ndstats/order"
)

var (
	// ErrInvalidQuantile is the sentinel matched by InvalidQuantileError.
	ErrInvalidQuantile = errors.New("quantile level must be in [0, 1]")

	// ErrInvalidPolicy is returned for a Policy value outside the enumeration.
	ErrInvalidPolicy = errors.New("invalid interpolation policy")
)

// InvalidQuantileError reports a level outside [0, 1]. Index is the position
// of the level in the caller's batch.
type InvalidQuantileError struct {
	Index int
	Level float64
}

func (e *InvalidQuantileError) Error() string {
	return fmt.Sprintf("invalid quantile level %v at index %d: must be in [0, 1]", e.Level, e.Index)
}

func (e *InvalidQuantileError) Unwrap() error { return ErrInvalidQuantile }

// Policy selects how a fractional rank position is turned into a value.
type Policy uint8

const (
	// Linear interpolates between the two neighbouring ranks.
	Linear Policy = iota
	// Lower takes the lower neighbouring rank.
	Lower
	// Higher takes the higher neighbouring rank.
	Higher
	// Nearest takes the closer neighbouring rank; ties go to the higher one.
	Nearest
	// Midpoint averages the two neighbouring ranks.
	Midpoint
)

// String returns the string representation of a Policy.
func (p Policy) String() string {
	switch p {
	case Linear:
		return "linear"
	case Lower:
		return "lower"
	case Higher:
		return "higher"
	case Nearest:
		return "nearest"
	case Midpoint:
		return "midpoint"
	default:
		return "unknown"
	}
}

// ParsePolicy parses a string into a Policy value.
func ParsePolicy(s string) (Policy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return Linear, true
	case "lower":
		return Lower, true
	case "higher":
		return Higher, true
	case "nearest":
		return Nearest, true
	case "midpoint":
		return Midpoint, true
	default:
		return Linear, false
	}
}

// Validate returns ErrInvalidPolicy for values outside the enumeration.
func (p Policy) Validate() error {
	if p > Midpoint {
		return fmt.Errorf("%w: %d", ErrInvalidPolicy, p)
	}
	return nil
}

// CheckLevel validates a single level. NaN is rejected.
func CheckLevel(level float64) error {
	return checkLevel(0, level)
}

// CheckLevels validates every level and reports all failures at once.
// The returned error matches ErrInvalidQuantile.
func CheckLevels(levels []float64) error {
	var errs error
	for i, l := range levels {
		errs = multierr.Append(errs, checkLevel(i, l))
	}
	return errs
}

func checkLevel(i int, level float64) error {
	if !(level >= 0 && level <= 1) {
		return &InvalidQuantileError{Index: i, Level: level}
	}
	return nil
}

// Position returns the neighbouring ranks of level within a lane of n elements
// and the fractional distance from lo. n must be positive and level valid.
func Position(level float64, n int) (lo, hi int, frac float64) {
	p := level * float64(n-1)
	flo := math.Floor(p)
	lo = int(flo)
	hi = int(math.Ceil(p))
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi, p - flo
}

// Ranks returns the ranks policy p actually reads for level: the lower
// and higher rank, which coincide when only one of them is needed.
func (p Policy) Ranks(level float64, n int) (lo, hi int, frac float64) {
	lo, hi, frac = Position(level, n)
	switch p {
	case Lower:
		hi = lo
	case Higher:
		lo = hi
	case Nearest:
		if frac < 0.5 {
			hi = lo
		} else {
			lo = hi
		}
	}
	return lo, hi, frac
}

// Needs returns the distinct ranks policy p reads for level in a lane of n
// elements, in ascending order.
func (p Policy) Needs(level float64, n int) []int {
	lo, hi, _ := p.Ranks(level, n)
	if lo == hi {
		return []int{lo}
	}
	return []int{lo, hi}
}

// Combine resolves the final value from the values at the lower and higher rank.
// lower must not order after higher.
//
// Floats interpolate in float64. Integer kinds add the offset to lower with
// wrap-free arithmetic on the exact span, so narrow kinds never overflow; the
// offset is truncated, which rounds toward the lower value.
func Combine[T order.Number](p Policy, lower, higher T, frac float64) T {
	switch p {
	case Lower:
		return lower
	case Higher:
		return higher
	case Nearest:
		if frac < 0.5 {
			return lower
		}
		return higher
	case Midpoint:
		if lower == higher {
			return lower
		}
		if isFloat[T]() {
			return lower/2 + higher/2
		}
		return lower + T(span(lower, higher)/2)
	default:
		if frac == 0 || lower == higher {
			return lower
		}
		if isFloat[T]() {
			return lower + T(frac*(float64(higher)-float64(lower)))
		}
		s := span(lower, higher)
		return lower + T(min(uint64(frac*float64(s)), s))
	}
}

// span returns higher-lower for integer kinds. Both operands are widened to
// 64 bits with sign extension, so the difference is exact modulo 2^64 and,
// being non-negative, exact outright.
func span[T order.Number](lower, higher T) uint64 {
	return uint64(higher) - uint64(lower)
}

func isFloat[T order.Number]() bool {
	half := 0.5
	return T(half) != 0
}
