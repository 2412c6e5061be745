package summary

import (
	"fmt"

	"github.com/hupe1980/ndstats/ndarray"
	"github.com/hupe1980/ndstats/selection"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyInput is returned when a statistic is requested of zero elements.
var ErrEmptyInput = selection.ErrEmptyInput

// Mean returns the arithmetic mean of all elements.
func Mean(a *ndarray.Array[float64]) (float64, error) {
	if a.Size() == 0 {
		return 0, ErrEmptyInput
	}
	return stat.Mean(a.Data(), nil), nil
}

// HarmonicMean returns n / Σ 1/xᵢ.
func HarmonicMean(a *ndarray.Array[float64]) (float64, error) {
	if a.Size() == 0 {
		return 0, ErrEmptyInput
	}
	return stat.HarmonicMean(a.Data(), nil), nil
}

// GeometricMean returns (Π xᵢ)^(1/n), computed in log space.
func GeometricMean(a *ndarray.Array[float64]) (float64, error) {
	if a.Size() == 0 {
		return 0, ErrEmptyInput
	}
	return stat.GeometricMean(a.Data(), nil), nil
}

// CentralMoment returns the order-th central moment 1/n Σ (xᵢ-x̅)^order.
// The zeroth moment is 1 and the first is 0 by definition.
func CentralMoment(a *ndarray.Array[float64], order int) (float64, error) {
	if order < 0 {
		return 0, fmt.Errorf("negative moment order %d", order)
	}
	if a.Size() == 0 {
		return 0, ErrEmptyInput
	}
	switch order {
	case 0:
		return 1, nil
	case 1:
		return 0, nil
	default:
		return stat.Moment(float64(order), a.Data(), nil), nil
	}
}

// CentralMoments returns the central moments of order 0 through maxOrder,
// sharing one pass for the mean.
func CentralMoments(a *ndarray.Array[float64], maxOrder int) ([]float64, error) {
	if maxOrder < 0 {
		return nil, fmt.Errorf("negative moment order %d", maxOrder)
	}
	if a.Size() == 0 {
		return nil, ErrEmptyInput
	}

	x := a.Data()
	mean := stat.Mean(x, nil)
	dev := make([]float64, len(x))
	copy(dev, x)
	floats.AddConst(-mean, dev)
	pow := make([]float64, len(x))
	for i := range pow {
		pow[i] = 1
	}

	n := float64(len(x))
	out := make([]float64, maxOrder+1)
	out[0] = 1
	for p := 1; p <= maxOrder; p++ {
		floats.Mul(pow, dev)
		if p == 1 {
			continue
		}
		out[p] = floats.Sum(pow) / n
	}
	return out, nil
}

// Variance returns the population variance, the second central moment.
func Variance(a *ndarray.Array[float64]) (float64, error) {
	return CentralMoment(a, 2)
}

// SampleVariance returns the unbiased variance with an n-1 denominator. It
// needs at least two elements.
func SampleVariance(a *ndarray.Array[float64]) (float64, error) {
	if a.Size() < 2 {
		return 0, fmt.Errorf("%w: sample variance of %d elements", ErrEmptyInput, a.Size())
	}
	return stat.Variance(a.Data(), nil), nil
}

// MeanAxis returns the arithmetic mean of every lane along axis, shaped like
// a with axis removed.
func MeanAxis(a *ndarray.Array[float64], axis int) (*ndarray.Array[float64], error) {
	if err := a.CheckAxis(axis); err != nil {
		return nil, err
	}
	n := a.Len(axis)
	if n == 0 {
		return nil, fmt.Errorf("%w: axis %d has length 0", ErrEmptyInput, axis)
	}

	out := ndarray.Zeros[float64](ndarray.RemoveAxis(a.Shape(), axis)...)
	res := out.Data()
	scratch := make([]float64, n)
	for i, lane := range a.Lanes(axis) {
		lane.CopyTo(scratch)
		res[i] = floats.Sum(scratch) / float64(n)
	}
	return out, nil
}
