package quantile

import (
	"fmt"
	"slices"

	"github.com/hupe1980/ndstats/interpolate"
	"github.com/hupe1980/ndstats/order"
	"github.com/hupe1980/ndstats/selection"
)

// term resolves one requested level from the selected ranks.
type term struct {
	lo, hi int
	frac   float64
}

// Plan is the lane-independent part of a batched quantile computation: the
// union of ranks every level needs and how each level combines them. A Plan is
// immutable and may be shared by concurrent Resolve calls on distinct lanes.
type Plan struct {
	policy interpolate.Policy
	n      int
	ranks  []int
	terms  []term
}

// NewPlan validates the policy and levels and precomputes the ranks needed for
// lanes of n elements.
func NewPlan(n int, levels []float64, policy interpolate.Policy) (*Plan, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no levels requested", ErrInvalidQuantile)
	}
	if err := interpolate.CheckLevels(levels); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, ErrEmptyInput
	}

	p := &Plan{
		policy: policy,
		n:      n,
		terms:  make([]term, len(levels)),
		ranks:  make([]int, 0, 2*len(levels)),
	}
	for i, level := range levels {
		lo, hi, frac := policy.Ranks(level, n)
		p.terms[i] = term{lo: lo, hi: hi, frac: frac}
		p.ranks = append(p.ranks, policy.Needs(level, n)...)
	}
	slices.Sort(p.ranks)
	p.ranks = slices.Compact(p.ranks)

	return p, nil
}

// Len returns the lane length the plan was built for.
func (p *Plan) Len() int { return p.n }

// Levels returns the number of levels the plan resolves.
func (p *Plan) Levels() int { return len(p.terms) }

// Policy returns the interpolation policy.
func (p *Plan) Policy() interpolate.Policy { return p.policy }

// Ranks returns the sorted, de-duplicated ranks the plan selects. The slice
// must not be modified.
func (p *Plan) Ranks() []int { return p.ranks }

// Resolve selects the plan's ranks in lane (rearranging it) and writes one
// value per level into dst, in level order.
func Resolve[T order.Number](p *Plan, lane []T, dst []T) error {
	if err := p.check(len(lane), len(dst)); err != nil {
		return err
	}
	if err := selection.SelectSorted(lane, p.ranks); err != nil {
		return err
	}
	combine(p, lane, identity[T], dst)
	return nil
}

// ResolveFunc is Resolve for lanes whose elements are ordered by cmp, such
// as order.NotNaN values. value extracts the number interpolation works on.
func ResolveFunc[E any, T order.Number](p *Plan, lane []E, cmp func(a, b E) int, value func(E) T, dst []T) error {
	if err := p.check(len(lane), len(dst)); err != nil {
		return err
	}
	if err := selection.SelectSortedFunc(lane, p.ranks, cmp); err != nil {
		return err
	}
	combine(p, lane, value, dst)
	return nil
}

func (p *Plan) check(laneLen, dstLen int) error {
	if laneLen != p.n {
		return fmt.Errorf("lane length %d does not match plan length %d", laneLen, p.n)
	}
	if dstLen != len(p.terms) {
		return fmt.Errorf("destination length %d does not match %d levels", dstLen, len(p.terms))
	}
	return nil
}

// combine reads the selected ranks of lane and interpolates every level.
func combine[E any, T order.Number](p *Plan, lane []E, value func(E) T, dst []T) {
	for i, t := range p.terms {
		dst[i] = interpolate.Combine(p.policy, value(lane[t.lo]), value(lane[t.hi]), t.frac)
	}
}

func identity[T order.Number](v T) T { return v }
