package ndstats

import (
	"context"
	"unsafe"

	"github.com/hupe1980/ndstats/ndarray"
	"github.com/hupe1980/ndstats/order"
	"golang.org/x/sync/errgroup"
)

// laneFunc evaluates the i-th lane. lane is only valid during the call.
type laneFunc[T order.Number] func(i int, lane []T) error

// lanePass runs a per-lane computation over every lane of an array along
// one axis.
//
// Lanes are split into contiguous ranges, one per worker. Each worker calls
// newWorker once to obtain a laneFunc owning its private buffers, so lane
// functions never share mutable state and write to disjoint output slots.
type lanePass[T order.Number] struct {
	a    *ndarray.Array[T]
	axis int

	// inPlace hands contiguous lanes to the lane function directly and
	// writes strided lanes back after the call, so the caller's array
	// observes every rearrangement.
	inPlace bool

	// scratch is the number of extra elements each worker allocates besides
	// its lane copy. Used for memory accounting only.
	scratch int

	newWorker func() laneFunc[T]
}

// run evaluates every lane and returns the number of workers used.
func (p *lanePass[T]) run(ctx context.Context, o *options) (int, error) {
	count := p.a.LaneCount(p.axis)
	if count == 0 {
		return 0, ctx.Err()
	}
	n := p.a.Len(p.axis)
	workers := o.workersFor(count, p.a.Size())

	var zero T
	release, err := o.rc.ReserveScratch(int64(workers) * int64(n+p.scratch) * int64(unsafe.Sizeof(zero)))
	if err != nil {
		return workers, err
	}
	defer release()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := range workers {
		lo, hi := w*count/workers, (w+1)*count/workers
		g.Go(func() error {
			if err := o.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer o.rc.ReleaseWorker()
			return p.work(gctx, lo, hi, n)
		})
	}
	return workers, g.Wait()
}

func (p *lanePass[T]) work(ctx context.Context, lo, hi, n int) error {
	fn := p.newWorker()
	buf := make([]T, n)

	for i := lo; i < hi; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lane := p.a.Lane(p.axis, i)

		if p.inPlace {
			if s, ok := lane.Contiguous(); ok {
				if err := fn(i, s); err != nil {
					return err
				}
				continue
			}
		}

		lane.CopyTo(buf)
		if err := fn(i, buf); err != nil {
			return err
		}
		if p.inPlace {
			lane.CopyFrom(buf)
		}
	}
	return nil
}
