// Package ndstats computes order statistics of n-dimensional arrays.
//
// The engine selects only the ranks the requested quantiles need instead of
// sorting. Every lane along the chosen axis is reduced independently.
//
// # Quick Start
//
//	a := ndarray.MustFromSlice([]float64{3, 1, 4, 1, 5, 9, 2, 6}, 2, 4)
//
//	// Median of each row: shape [2]
//	med, _ := ndstats.MedianAxis(ctx, a, 1)
//
//	// Deciles of each row: shape [3, 2], one leading entry per level
//	q, _ := ndstats.QuantilesAxis(ctx, a, 1, []float64{0.1, 0.5, 0.9}, ndstats.Nearest)
//
// # Interpolation
//
// A level q maps to the virtual position q*(n-1) in the sorted lane. When it
// falls between two ranks the Policy decides the result: Linear, Lower,
// Higher, Nearest (ties round up) or Midpoint. Integer element types
// truncate interpolated values toward zero.
//
// # Validation
//
// Arguments are checked before any data is read, in this order: axis,
// levels, axis length, policy. All errors match the exported sentinels with
// errors.Is; invalid levels are reported together.
//
// # Concurrency
//
// Calls are synchronous. Lanes of large arrays are evaluated by a bounded
// pool of workers (WithWorkers, WithParallelThreshold), each owning its
// scratch buffer. A resource.Controller passed via WithResourceController
// shares memory and worker budgets across calls.
//
// # NaN
//
// Float NaNs have no order. QuantilesAxis treats them like any other value
// and the result is unspecified; QuantilesAxisSkipNaN and the SkipNaN
// reductions ignore them, and Min/Max report ErrUndefinedOrder.
package ndstats
