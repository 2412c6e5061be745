package ndstats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/ndstats/ndarray"
	"github.com/hupe1980/ndstats/order"
	"github.com/hupe1980/ndstats/quantile"
)

// SkipNaNResult is the outcome of QuantilesAxisSkipNaN.
type SkipNaNResult[F order.Float] struct {
	// Values is shaped like the result of QuantilesAxis. Lanes holding only
	// NaN contribute NaN.
	Values *ndarray.Array[F]

	// EmptyLanes holds the ordinals of the lanes that held only NaN. Lane
	// ordinals count lanes in row-major order of the remaining axes, which
	// is the flat index into a result slice for a single level.
	EmptyLanes *roaring.Bitmap
}

// QuantilesAxisSkipNaN is QuantilesAxis ignoring NaN elements. a is left
// untouched.
func QuantilesAxisSkipNaN[F order.Float](ctx context.Context, a *ndarray.Array[F], axis int, levels []float64, p Policy, opts ...Option) (*SkipNaNResult[F], error) {
	o := applyOptions(opts)
	start := time.Now()
	log := o.logger.WithShape(a.Shape()).WithAxis(axis).WithLevels(levels)
	lanes := 0
	if axis >= 0 && axis < a.Ndim() {
		lanes = a.LaneCount(axis)
	}

	res, workers, err := computeQuantilesSkipNaN(ctx, &o, a, axis, levels, p)

	d := time.Since(start)
	o.metricsCollector.RecordQuantile(lanes, len(levels), d, err)
	log.logPass(ctx, passStats{op: "quantiles_skipnan", lanes: lanes, workers: workers, duration: d}, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func computeQuantilesSkipNaN[F order.Float](ctx context.Context, o *options, a *ndarray.Array[F], axis int, levels []float64, p Policy) (*SkipNaNResult[F], int, error) {
	if err := validate(a, axis, levels, p); err != nil {
		return nil, 0, err
	}
	count := a.LaneCount(axis)
	if uint64(count) > math.MaxUint32 {
		return nil, 0, fmt.Errorf("%w: %d lanes exceed the lane bitmap", ErrIndexOutOfBounds, count)
	}

	n := a.Len(axis)
	full, err := quantile.NewPlan(n, levels, p)
	if err != nil {
		return nil, 0, err
	}

	out := ndarray.Zeros[F](resultShape(a.Shape(), axis, len(levels))...)
	res := out.Data()
	k := len(levels)
	empty := make([]bool, count)

	pass := &lanePass[F]{
		a:       a,
		axis:    axis,
		scratch: k,
		newWorker: func() laneFunc[F] {
			vals := make([]F, k)
			// Lanes with equally many NaN share a plan.
			plans := map[int]*quantile.Plan{n: full}
			return func(i int, lane []F) error {
				m := quantile.CompactNaN(lane)
				if m == 0 {
					empty[i] = true
					for j := range k {
						res[j*count+i] = F(math.NaN())
					}
					return nil
				}
				plan, ok := plans[m]
				if !ok {
					var err error
					if plan, err = quantile.NewPlan(m, levels, p); err != nil {
						return err
					}
					plans[m] = plan
				}
				if err := quantile.Resolve(plan, lane[:m], vals); err != nil {
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

	bm := roaring.New()
	for i, e := range empty {
		if e {
			bm.Add(uint32(i))
		}
	}
	bm.RunOptimize()

	return &SkipNaNResult[F]{Values: out, EmptyLanes: bm}, workers, nil
}
