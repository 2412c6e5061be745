// Package quantile computes interpolated quantiles of one-dimensional lanes.
//
// The lane is rearranged in place: pass a copy when the original order
// matters. Batched calls collect every rank the requested levels need and run
// a single multi-rank selection over the lane.
//
//	lane := []float64{3, 1, 4, 1, 5, 9, 2, 6}
//	med, _ := quantile.Quantile(lane, 0.5, interpolate.Linear)                  // 3.5
//	qs, _ := quantile.Quantiles(lane, []float64{0, 0.5, 1}, interpolate.Lower)  // [1 3 9]
package quantile

import (
	"github.com/hupe1980/ndstats/interpolate"
	"github.com/hupe1980/ndstats/order"
	"github.com/hupe1980/ndstats/selection"
)

var (
	// ErrEmptyInput is returned for a lane without elements.
	ErrEmptyInput = selection.ErrEmptyInput

	// ErrInvalidQuantile is returned for levels outside [0, 1].
	ErrInvalidQuantile = interpolate.ErrInvalidQuantile
)

// Quantile returns the level-th quantile of lane.
func Quantile[T order.Number](lane []T, level float64, policy interpolate.Policy) (T, error) {
	var out [1]T
	if err := quantilesInto(lane, []float64{level}, policy, out[:]); err != nil {
		var zero T
		return zero, err
	}
	return out[0], nil
}

// Quantiles returns one quantile per level, in the order of levels.
func Quantiles[T order.Number](lane []T, levels []float64, policy interpolate.Policy) ([]T, error) {
	out := make([]T, len(levels))
	if err := quantilesInto(lane, levels, policy, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Median is Quantile(lane, 0.5, interpolate.Linear).
func Median[T order.Number](lane []T) (T, error) {
	return Quantile(lane, 0.5, interpolate.Linear)
}

func quantilesInto[T order.Number](lane []T, levels []float64, policy interpolate.Policy, dst []T) error {
	p, err := NewPlan(len(lane), levels, policy)
	if err != nil {
		return err
	}
	return Resolve(p, lane, dst)
}

// CompactNaN moves every non-NaN element of lane to the front, preserving
// their relative order, and returns how many there are.
func CompactNaN[F order.Float](lane []F) int {
	k := 0
	for i, v := range lane {
		if order.IsNaN(v) {
			continue
		}
		lane[k], lane[i] = v, lane[k]
		k++
	}
	return k
}

// QuantileSkipNaN is Quantile over the non-NaN elements of lane. A lane
// holding only NaN fails with ErrEmptyInput.
func QuantileSkipNaN[F order.Float](lane []F, level float64, policy interpolate.Policy) (F, error) {
	var out [1]F
	if err := quantilesSkipNaNInto(lane, []float64{level}, policy, out[:]); err != nil {
		return 0, err
	}
	return out[0], nil
}

// QuantilesSkipNaN is Quantiles over the non-NaN elements of lane.
func QuantilesSkipNaN[F order.Float](lane []F, levels []float64, policy interpolate.Policy) ([]F, error) {
	out := make([]F, len(levels))
	if err := quantilesSkipNaNInto(lane, levels, policy, out); err != nil {
		return nil, err
	}
	return out, nil
}

// quantilesSkipNaNInto selects over the whole lane under order.TotalCompare.
// NaN orders after every number there, so the ranks of a plan for the m
// non-NaN elements all land on numbers and no compaction pass is needed.
func quantilesSkipNaNInto[F order.Float](lane []F, levels []float64, policy interpolate.Policy, dst []F) error {
	m := 0
	for _, v := range lane {
		if !order.IsNaN(v) {
			m++
		}
	}

	p, err := NewPlan(m, levels, policy)
	if err != nil {
		return err
	}
	if err := selection.SelectSortedFunc(lane, p.ranks, order.TotalCompare[F]); err != nil {
		return err
	}
	combine(p, lane, identity[F], dst)
	return nil
}

// QuantileNotNaN is Quantile over wrapped floats, whose order is total by
// construction.
func QuantileNotNaN[F order.Float](lane []order.NotNaN[F], level float64, policy interpolate.Policy) (F, error) {
	qs, err := QuantilesNotNaN(lane, []float64{level}, policy)
	if err != nil {
		return 0, err
	}
	return qs[0], nil
}

// QuantilesNotNaN is Quantiles over wrapped floats. lane is rearranged in
// place like any other lane.
func QuantilesNotNaN[F order.Float](lane []order.NotNaN[F], levels []float64, policy interpolate.Policy) ([]F, error) {
	p, err := NewPlan(len(lane), levels, policy)
	if err != nil {
		return nil, err
	}
	out := make([]F, len(levels))
	if err := ResolveFunc(p, lane, order.NotNaN[F].Compare, order.NotNaN[F].Value, out); err != nil {
		return nil, err
	}
	return out, nil
}
