package ndstats

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/hupe1980/ndstats/ndarray"
	"github.com/hupe1980/ndstats/quantile"
	"github.com/hupe1980/ndstats/resource"
	"github.com/hupe1980/ndstats/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var scenarioLane = []float64{3, 1, 4, 1, 5, 9, 2, 6}

func TestQuantileAxisScenario(t *testing.T) {
	ctx := context.Background()
	a := ndarray.MustFromSlice(scenarioLane, len(scenarioLane))

	tests := []struct {
		policy Policy
		want   float64
	}{
		{Linear, 3.5},
		{Lower, 3},
		{Higher, 4},
		{Nearest, 4},
		{Midpoint, 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			q, err := QuantileAxis(ctx, a, 0, 0.5, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, 0, q.Ndim())
			assert.Equal(t, tt.want, q.At())
		})
	}

	t.Run("batched lower", func(t *testing.T) {
		q, err := QuantilesAxis(ctx, a, 0, []float64{0, 0.5, 1}, Lower)
		require.NoError(t, err)
		assert.Equal(t, []int{3}, q.Shape())
		assert.Equal(t, []float64{1, 3, 9}, q.Data())
	})

	t.Run("input untouched", func(t *testing.T) {
		assert.Equal(t, []float64{3, 1, 4, 1, 5, 9, 2, 6}, a.Data())
	})
}

func TestQuantilesAxisShapes(t *testing.T) {
	ctx := context.Background()
	a := ndarray.MustFromSlice([]float64{
		3, 1, 4, 1,
		5, 9, 2, 6,
	}, 2, 4)

	t.Run("rows", func(t *testing.T) {
		q, err := QuantilesAxis(ctx, a, 1, []float64{0, 1}, Linear)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 2}, q.Shape())
		// q[level, row]
		assert.Equal(t, 1.0, q.At(0, 0))
		assert.Equal(t, 2.0, q.At(0, 1))
		assert.Equal(t, 4.0, q.At(1, 0))
		assert.Equal(t, 9.0, q.At(1, 1))
	})

	t.Run("columns", func(t *testing.T) {
		m, err := MedianAxis(ctx, a, 0)
		require.NoError(t, err)
		assert.Equal(t, []int{4}, m.Shape())
		assert.Equal(t, []float64{4, 5, 3, 3.5}, m.Data())
	})

	t.Run("three dimensions", func(t *testing.T) {
		b := ndarray.Zeros[int32](2, 3, 5)
		for i := range b.Data() {
			b.Data()[i] = int32(i)
		}
		q, err := QuantilesAxis(ctx, b, 1, []float64{0, 0.5, 1}, Lower)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2, 5}, q.Shape())
		// lane (1, :, 4) holds 19, 24, 29
		assert.Equal(t, int32(19), q.At(0, 1, 4))
		assert.Equal(t, int32(24), q.At(1, 1, 4))
		assert.Equal(t, int32(29), q.At(2, 1, 4))
	})

	t.Run("no lanes", func(t *testing.T) {
		q, err := QuantilesAxis(ctx, ndarray.Zeros[float64](0, 3), 1, []float64{0.5}, Linear)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, q.Shape())
	})
}

func TestQuantilesAxisMatchesLaneQuantiles(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(7)
	a := ndarray.MustFromSlice(rng.Gaussian(6*7*8), 6, 7, 8)
	levels := rng.Levels(4)

	for axis := range a.Ndim() {
		for _, p := range []Policy{Linear, Lower, Higher, Nearest, Midpoint} {
			serial, err := QuantilesAxis(ctx, a, axis, levels, p, WithWorkers(1))
			require.NoError(t, err)
			parallel, err := QuantilesAxis(ctx, a, axis, levels, p, WithWorkers(4), WithParallelThreshold(0))
			require.NoError(t, err)
			assert.True(t, ndarray.Equal(serial, parallel), "axis %d policy %s", axis, p)

			count := a.LaneCount(axis)
			for i, lane := range a.Lanes(axis) {
				want, err := quantile.Quantiles(lane.Values(), levels, p)
				require.NoError(t, err)
				for j, w := range want {
					assert.Equal(t, w, serial.Data()[j*count+i])
				}
			}
		}
	}

	t.Run("linear against sorting", func(t *testing.T) {
		m, err := QuantileAxis(ctx, a, 2, 0.3, Linear)
		require.NoError(t, err)
		for i, lane := range a.Lanes(2) {
			assert.InDelta(t, testutil.LinearQuantile(lane.Values(), 0.3), m.Data()[i], 1e-12)
		}
	})
}

func TestQuantilesAxisValidation(t *testing.T) {
	ctx := context.Background()
	a := ndarray.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	t.Run("axis first", func(t *testing.T) {
		_, err := QuantilesAxis(ctx, a, 2, []float64{1.5}, Policy(99))
		assert.ErrorIs(t, err, ErrInvalidAxis)
		var ae *InvalidAxisError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, 2, ae.Axis)

		_, err = QuantilesAxis(ctx, a, -1, []float64{0.5}, Linear)
		assert.ErrorIs(t, err, ErrInvalidAxis)
	})

	t.Run("levels", func(t *testing.T) {
		_, err := QuantilesAxis(ctx, a, 1, []float64{1.5}, Policy(99))
		assert.ErrorIs(t, err, ErrInvalidQuantile)
		var qe *InvalidQuantileError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, 1.5, qe.Level)

		_, err = QuantilesAxis(ctx, a, 1, []float64{-0.1, 0.5, 2, math.NaN()}, Linear)
		assert.ErrorIs(t, err, ErrInvalidQuantile)
		assert.Len(t, multierr.Errors(err), 3)

		_, err = QuantilesAxis(ctx, a, 1, nil, Linear)
		assert.ErrorIs(t, err, ErrInvalidQuantile)
	})

	t.Run("empty axis", func(t *testing.T) {
		e := ndarray.Zeros[float64](3, 0)
		_, err := QuantilesAxis(ctx, e, 1, []float64{0.5}, Linear)
		assert.ErrorIs(t, err, ErrEmptyInput)

		// level errors win over the empty axis
		_, err = QuantilesAxis(ctx, e, 1, []float64{1.5}, Linear)
		assert.ErrorIs(t, err, ErrInvalidQuantile)
	})

	t.Run("policy", func(t *testing.T) {
		_, err := QuantilesAxis(ctx, a, 1, []float64{0.5}, Policy(99))
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("scalar has no axis", func(t *testing.T) {
		_, err := QuantileAxis(ctx, ndarray.Scalar(1.0), 0, 0.5, Linear)
		assert.ErrorIs(t, err, ErrInvalidAxis)
	})

	t.Run("nil array", func(t *testing.T) {
		var nilArr *ndarray.Array[float64]

		_, err := QuantilesAxis(ctx, nilArr, 0, []float64{0.5}, Linear)
		assert.ErrorIs(t, err, ErrNilArray)

		_, err = QuantileAxisMut(ctx, nilArr, 0, 0.5, Linear)
		assert.ErrorIs(t, err, ErrNilArray)

		_, err = MedianAxis[int](ctx, nil, 0)
		assert.ErrorIs(t, err, ErrNilArray)

		_, err = QuantilesAxisSkipNaN(ctx, nilArr, 0, []float64{0.5}, Linear)
		assert.ErrorIs(t, err, ErrNilArray)
	})
}

func TestQuantilesAxisCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := ndarray.MustFromSlice(testutil.NewRNG(1).Uniform(64), 8, 8)
	_, err := QuantilesAxis(ctx, a, 1, []float64{0.5}, Linear)
	assert.ErrorIs(t, err, context.Canceled)

	// validation still precedes the context
	_, err = QuantilesAxis(ctx, a, 3, []float64{0.5}, Linear)
	assert.ErrorIs(t, err, ErrInvalidAxis)
}

func TestQuantilesAxisMut(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(11)

	for axis, name := range []string{"strided", "contiguous"} {
		t.Run(name, func(t *testing.T) {
			a := ndarray.MustFromSlice(rng.Uniform(5*9), 5, 9)
			orig := a.Clone()

			want, err := QuantileAxis(ctx, orig, axis, 0.5, Lower)
			require.NoError(t, err)
			got, err := QuantileAxisMut(ctx, a, axis, 0.5, Lower)
			require.NoError(t, err)
			assert.True(t, ndarray.Equal(want, got))

			n := a.Len(axis)
			rank := (n - 1) / 2
			for i, lane := range a.Lanes(axis) {
				vals := lane.Values()
				assert.True(t, testutil.SameMultiset(orig.Lane(axis, i).Values(), vals))
				assert.True(t, testutil.IsPartitioned(vals, rank))
				assert.Equal(t, got.Data()[i], vals[rank])
			}
		})
	}

	t.Run("batched", func(t *testing.T) {
		a := ndarray.MustFromSlice(rng.Uniform(4*10), 4, 10)
		want, err := QuantilesAxis(ctx, a.Clone(), 1, []float64{0.1, 0.9}, Nearest)
		require.NoError(t, err)
		got, err := QuantilesAxisMut(ctx, a, 1, []float64{0.1, 0.9}, Nearest)
		require.NoError(t, err)
		assert.True(t, ndarray.Equal(want, got))
	})
}

func TestQuantilesAxisIntegers(t *testing.T) {
	ctx := context.Background()
	a := ndarray.MustFromSlice([]int64{3, 1, 4, 1, 5, 9, 2, 6}, 8)

	q, err := QuantilesAxis(ctx, a, 0, []float64{0.5, 0.75}, Linear)
	require.NoError(t, err)
	// 3.5 and 5.25 round toward the lower neighbour
	assert.Equal(t, []int64{3, 5}, q.Data())

	q, err = QuantilesAxis(ctx, a, 0, []float64{0.5}, Midpoint)
	require.NoError(t, err)
	assert.Equal(t, int64(3), q.At())

	neg := ndarray.MustFromSlice([]int8{2, -3, 127, -128}, 2, 2)
	q8, err := QuantilesAxis(ctx, neg, 1, []float64{0.5}, Midpoint)
	require.NoError(t, err)
	assert.Equal(t, []int8{-1, -1}, q8.Data())
}

func TestQuantilesAxisNaNDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(5)
	a := ndarray.MustFromSlice(rng.WithNaN(rng.Uniform(20*50), 0.3), 20, 50)

	assert.NotPanics(t, func() {
		_, err := QuantilesAxis(ctx, a, 1, []float64{0.1, 0.5, 0.9}, Linear)
		assert.NoError(t, err)
	})
}

func TestQuantilesAxisResources(t *testing.T) {
	ctx := context.Background()
	a := ndarray.MustFromSlice(testutil.NewRNG(2).Uniform(2*100), 2, 100)

	t.Run("memory limit", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})
		_, err := QuantilesAxis(ctx, a, 1, []float64{0.5}, Linear, WithResourceController(rc))
		assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
		assert.Equal(t, int64(0), rc.MemoryUsage())
	})

	t.Run("budget released", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20, MaxWorkers: 2})
		q, err := QuantilesAxis(ctx, a, 1, []float64{0.5}, Linear,
			WithResourceController(rc), WithWorkers(8), WithParallelThreshold(0))
		require.NoError(t, err)
		assert.Equal(t, []int{2}, q.Shape())
		assert.Equal(t, int64(0), rc.MemoryUsage())
		assert.Equal(t, int64(0), rc.ActiveWorkers())
	})

	t.Run("waits for a worker slot", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MaxWorkers: 1})
		require.True(t, rc.TryAcquireWorker())

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := QuantilesAxis(cctx, a, 1, []float64{0.5}, Linear, WithResourceController(rc))
		assert.ErrorIs(t, err, context.Canceled)
		rc.ReleaseWorker()
	})
}

func TestQuantilesAxisObservability(t *testing.T) {
	ctx := context.Background()
	a := ndarray.MustFromSlice(scenarioLane, 2, 4)

	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := &BasicMetricsCollector{}
	opts := []Option{WithLogger(logger), WithMetricsCollector(metrics)}

	_, err := QuantilesAxis(ctx, a, 1, []float64{0.25, 0.75}, Linear, opts...)
	require.NoError(t, err)
	_, err = QuantilesAxis(ctx, a, 1, []float64{2}, Linear, opts...)
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.QuantileCount)
	assert.Equal(t, int64(1), stats.QuantileErrors)
	assert.Equal(t, int64(2), stats.QuantileLanes)
	assert.Equal(t, int64(2), stats.QuantileLevels)

	out := buf.String()
	assert.Contains(t, out, `"msg":"quantiles completed"`)
	assert.Contains(t, out, `"msg":"quantiles failed"`)
	assert.Contains(t, out, `"axis":1`)
}

func TestResultShape(t *testing.T) {
	assert.Equal(t, []int{3, 5}, resultShape([]int{3, 4, 5}, 1, 1))
	assert.Equal(t, []int{2, 3, 5}, resultShape([]int{3, 4, 5}, 1, 2))
	assert.Equal(t, []int{}, resultShape([]int{4}, 0, 1))
	assert.Equal(t, []int{7}, resultShape([]int{4}, 0, 7))
}

func TestErrorsAreSentinels(t *testing.T) {
	_, err := QuantileAxis(context.Background(), ndarray.Zeros[float64](2, 2), 0, 0.5, Policy(42))
	assert.True(t, errors.Is(err, ErrInvalidPolicy))
}

func BenchmarkQuantilesAxis(b *testing.B) {
	ctx := context.Background()
	a := ndarray.MustFromSlice(testutil.NewRNG(1).Uniform(256*1024), 256, 1024)
	levels := []float64{0.01, 0.25, 0.5, 0.75, 0.99}

	for _, w := range []int{1, 4} {
		b.Run("contiguous", func(b *testing.B) {
			for b.Loop() {
				if _, err := QuantilesAxis(ctx, a, 1, levels, Linear, WithWorkers(w)); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run("strided", func(b *testing.B) {
			for b.Loop() {
				if _, err := QuantilesAxis(ctx, a, 0, levels, Linear, WithWorkers(w)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
