package ndstats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/ndstats/ndarray"
	"github.com/hupe1980/ndstats/order"
)

// Min returns the smallest element of a. It fails with ErrUndefinedOrder if
// a holds a NaN.
func Min[T order.Number](a *ndarray.Array[T], opts ...Option) (T, error) {
	return reduce(a, "min", extremum[T](order.Less[T]), opts)
}

// Max returns the largest element of a. It fails with ErrUndefinedOrder if
// a holds a NaN.
func Max[T order.Number](a *ndarray.Array[T], opts ...Option) (T, error) {
	return reduce(a, "max", extremum[T](greater[T]), opts)
}

// MinSkipNaN returns the smallest non-NaN element of a, or NaN if every
// element is NaN.
func MinSkipNaN[F order.Float](a *ndarray.Array[F], opts ...Option) (F, error) {
	return reduce(a, "min_skipnan", extremumSkipNaN[F](order.Less[F]), opts)
}

// MaxSkipNaN returns the largest non-NaN element of a, or NaN if every
// element is NaN.
func MaxSkipNaN[F order.Float](a *ndarray.Array[F], opts ...Option) (F, error) {
	return reduce(a, "max_skipnan", extremumSkipNaN[F](greater[F]), opts)
}

// MinAxis returns the smallest element of every lane along axis, shaped like
// a with axis removed.
func MinAxis[T order.Number](ctx context.Context, a *ndarray.Array[T], axis int, opts ...Option) (*ndarray.Array[T], error) {
	return reduceAxis(ctx, a, axis, "min_axis", extremum[T](order.Less[T]), opts)
}

// MaxAxis returns the largest element of every lane along axis, shaped like
// a with axis removed.
func MaxAxis[T order.Number](ctx context.Context, a *ndarray.Array[T], axis int, opts ...Option) (*ndarray.Array[T], error) {
	return reduceAxis(ctx, a, axis, "max_axis", extremum[T](greater[T]), opts)
}

func greater[T order.Number](a, b T) bool { return order.Less(b, a) }

type reducer[T order.Number] func(xs []T) (T, error)

func extremum[T order.Number](better func(a, b T) bool) reducer[T] {
	return func(xs []T) (T, error) {
		if len(xs) == 0 {
			return 0, ErrEmptyInput
		}
		best := xs[0]
		for i, v := range xs {
			if order.IsNaN(v) {
				return 0, fmt.Errorf("%w: element %d", ErrUndefinedOrder, i)
			}
			if better(v, best) {
				best = v
			}
		}
		return best, nil
	}
}

func extremumSkipNaN[F order.Float](better func(a, b F) bool) reducer[F] {
	return func(xs []F) (F, error) {
		if len(xs) == 0 {
			return 0, ErrEmptyInput
		}
		best := F(math.NaN())
		for _, v := range xs {
			if order.IsNaN(v) {
				continue
			}
			if order.IsNaN(best) || better(v, best) {
				best = v
			}
		}
		return best, nil
	}
}

func reduce[T order.Number](a *ndarray.Array[T], op string, fn reducer[T], opts []Option) (T, error) {
	o := applyOptions(opts)
	start := time.Now()

	var (
		v   T
		err error
	)
	if a == nil {
		err = ErrNilArray
	} else {
		v, err = fn(a.Data())
	}

	o.metricsCollector.RecordReduce(op, time.Since(start), err)
	o.logger.LogReduce(context.Background(), op, a.Size(), err)
	return v, err
}

func reduceAxis[T order.Number](ctx context.Context, a *ndarray.Array[T], axis int, op string, fn reducer[T], opts []Option) (*ndarray.Array[T], error) {
	o := applyOptions(opts)
	start := time.Now()

	out, workers, err := computeReduceAxis(ctx, &o, a, axis, fn)

	d := time.Since(start)
	o.metricsCollector.RecordReduce(op, d, err)
	lanes := 0
	if out != nil {
		lanes = out.Size()
	}
	o.logger.WithShape(a.Shape()).WithAxis(axis).logPass(ctx, passStats{op: op, lanes: lanes, workers: workers, duration: d}, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func computeReduceAxis[T order.Number](ctx context.Context, o *options, a *ndarray.Array[T], axis int, fn reducer[T]) (*ndarray.Array[T], int, error) {
	if err := a.CheckAxis(axis); err != nil {
		return nil, 0, err
	}
	if a.Len(axis) == 0 {
		return nil, 0, fmt.Errorf("%w: axis %d has length 0", ErrEmptyInput, axis)
	}

	out := ndarray.Zeros[T](ndarray.RemoveAxis(a.Shape(), axis)...)
	res := out.Data()
	pass := &lanePass[T]{
		a:    a,
		axis: axis,
		newWorker: func() laneFunc[T] {
			return func(i int, lane []T) error {
				v, err := fn(lane)
				if err != nil {
					return fmt.Errorf("lane %d: %w", i, err)
				}
				res[i] = v
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
