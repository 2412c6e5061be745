package ndstats

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/ndstats/interpolate"
	"github.com/hupe1980/ndstats/ndarray"
	"github.com/hupe1980/ndstats/order"
	"github.com/hupe1980/ndstats/quantile"
)

// Policy selects how a quantile falling between two ranks is resolved.
type Policy = interpolate.Policy

// Interpolation policies.
const (
	Linear   = interpolate.Linear
	Lower    = interpolate.Lower
	Higher   = interpolate.Higher
	Nearest  = interpolate.Nearest
	Midpoint = interpolate.Midpoint
)

// QuantilesAxis computes the quantiles at levels of every lane of a along
// axis. a is left untouched.
//
// With a single level the result has a's shape with axis removed. With
// several levels a new leading axis indexes them:
//
//	a: shape [4, 100], axis 1, levels [0.1, 0.5, 0.9]  ->  shape [3, 4]
//
// Arguments are validated before any lane is read. The call honours ctx
// between lanes.
func QuantilesAxis[T order.Number](ctx context.Context, a *ndarray.Array[T], axis int, levels []float64, p Policy, opts ...Option) (*ndarray.Array[T], error) {
	o := applyOptions(opts)
	return quantilesAxis(ctx, &o, a, axis, levels, p, false)
}

// QuantileAxis computes a single quantile of every lane of a along axis.
// The result has a's shape with axis removed.
func QuantileAxis[T order.Number](ctx context.Context, a *ndarray.Array[T], axis int, level float64, p Policy, opts ...Option) (*ndarray.Array[T], error) {
	return QuantilesAxis(ctx, a, axis, []float64{level}, p, opts...)
}

// MedianAxis is QuantileAxis at level 0.5 with Linear interpolation.
func MedianAxis[T order.Number](ctx context.Context, a *ndarray.Array[T], axis int, opts ...Option) (*ndarray.Array[T], error) {
	return QuantileAxis(ctx, a, axis, 0.5, Linear, opts...)
}

// QuantilesAxisMut is QuantilesAxis but rearranges the elements of every lane
// of a in place instead of copying contiguous lanes. Each lane keeps its
// multiset of values.
func QuantilesAxisMut[T order.Number](ctx context.Context, a *ndarray.Array[T], axis int, levels []float64, p Policy, opts ...Option) (*ndarray.Array[T], error) {
	o := applyOptions(opts)
	return quantilesAxis(ctx, &o, a, axis, levels, p, true)
}

// QuantileAxisMut is QuantileAxis with the in-place behaviour of
// QuantilesAxisMut.
func QuantileAxisMut[T order.Number](ctx context.Context, a *ndarray.Array[T], axis int, level float64, p Policy, opts ...Option) (*ndarray.Array[T], error) {
	return QuantilesAxisMut(ctx, a, axis, []float64{level}, p, opts...)
}

func quantilesAxis[T order.Number](ctx context.Context, o *options, a *ndarray.Array[T], axis int, levels []float64, p Policy, inPlace bool) (*ndarray.Array[T], error) {
	start := time.Now()
	log := o.logger.WithShape(a.Shape()).WithAxis(axis).WithLevels(levels)
	lanes := 0
	if axis >= 0 && axis < a.Ndim() {
		lanes = a.LaneCount(axis)
	}

	out, workers, err := computeQuantiles(ctx, o, a, axis, levels, p, inPlace)

	d := time.Since(start)
	o.metricsCollector.RecordQuantile(lanes, len(levels), d, err)
	log.logPass(ctx, passStats{op: "quantiles", lanes: lanes, workers: workers, duration: d}, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func computeQuantiles[T order.Number](ctx context.Context, o *options, a *ndarray.Array[T], axis int, levels []float64, p Policy, inPlace bool) (*ndarray.Array[T], int, error) {
	if err := validate(a, axis, levels, p); err != nil {
		return nil, 0, err
	}

	plan, err := quantile.NewPlan(a.Len(axis), levels, p)
	if err != nil {
		return nil, 0, err
	}

	out := ndarray.Zeros[T](resultShape(a.Shape(), axis, len(levels))...)
	res := out.Data()
	count := a.LaneCount(axis)
	k := len(levels)

	pass := &lanePass[T]{
		a:       a,
		axis:    axis,
		inPlace: inPlace,
		scratch: k,
		newWorker: func() laneFunc[T] {
			vals := make([]T, k)
			return func(i int, lane []T) error {
				if err := quantile.Resolve(plan, lane, vals); err != nil {
					return err
				}
				for j, v := range vals {
					res[j*count+i] = v
				}
				return nil
			}
		},
	}

	workers, err := pass.run(ctx, o)
	if err != nil {
		return nil, workers, err
	}
	return out, workers, nil
}

// validate checks every argument of an axis quantile call without reading
// array data.
func validate[T order.Number](a *ndarray.Array[T], axis int, levels []float64, p Policy) error {
	if err := a.CheckAxis(axis); err != nil {
		return err
	}
	if len(levels) == 0 {
		return fmt.Errorf("%w: no levels requested", ErrInvalidQuantile)
	}
	if err := interpolate.CheckLevels(levels); err != nil {
		return err
	}
	if a.Len(axis) == 0 {
		return fmt.Errorf("%w: axis %d has length 0", ErrEmptyInput, axis)
	}
	return p.Validate()
}

// resultShape is shape without axis, prefixed by a levels axis when more
// than one level is requested.
func resultShape(shape []int, axis, levels int) []int {
	reduced := ndarray.RemoveAxis(shape, axis)
	if levels > 1 {
		return ndarray.InsertAxis(reduced, 0, levels)
	}
	return reduced
}
