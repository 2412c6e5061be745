package testutil

import (
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/ndstats/order"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Uniform returns n values in range [0, 1).
func (r *RNG) Uniform(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		out[i] = r.rand.Float64()
	}
	return out
}

// UniformRange returns n values in range [minVal, maxVal).
func (r *RNG) UniformRange(n int, minVal, maxVal float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	out := make([]float64, n)
	for i := range out {
		out[i] = minVal + r.rand.Float64()*span
	}
	return out
}

// Gaussian returns n values drawn from a standard normal distribution.
func (r *RNG) Gaussian(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		out[i] = r.rand.NormFloat64()
	}
	return out
}

// Ints returns n integers in [0, maxVal). Small maxVal gives many duplicates,
// which is the interesting case for partitioning.
func (r *RNG) Ints(n, maxVal int) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, n)
	for i := range out {
		out[i] = int64(r.rand.Intn(maxVal))
	}
	return out
}

// Levels returns k quantile levels in [0, 1], unsorted.
func (r *RNG) Levels(k int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, k)
	for i := range out {
		out[i] = r.rand.Float64()
	}
	return out
}

// Ranks returns k ranks in [0, n), possibly repeated.
func (r *RNG) Ranks(k, n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, k)
	for i := range out {
		out[i] = r.rand.Intn(n)
	}
	return out
}

// WithNaN copies xs and replaces roughly rate of its elements with NaN.
func (r *RNG) WithNaN(xs []float64, rate float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := slices.Clone(xs)
	for i := range out {
		if r.rand.Float64() < rate {
			out[i] = math.NaN()
		}
	}
	return out
}

// ============================================================================
// Adversarial Distribution Generators
// ============================================================================

// Sorted returns 0..n-1 ascending.
func Sorted(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// Reversed returns n-1..0 descending.
func Reversed(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(n - 1 - i)
	}
	return out
}

// OrganPipe returns 0,1,..,n/2,..,1,0. Median-of-three pivots do poorly on it.
func OrganPipe(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(min(i, n-1-i))
	}
	return out
}

// Constant returns n copies of v.
func Constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// ============================================================================
// Reference Values
// ============================================================================

// SortedCopy returns an ascending copy of xs.
func SortedCopy[T order.Number](xs []T) []T {
	out := slices.Clone(xs)
	slices.Sort(out)
	return out
}

// SortedRank returns the element a full ascending sort would put at rank.
func SortedRank[T order.Number](xs []T, rank int) T {
	return SortedCopy(xs)[rank]
}

// LinearQuantile is the textbook linear-interpolation quantile computed by
// full sorting; used as the oracle for the selection-based implementation.
func LinearQuantile(xs []float64, level float64) float64 {
	s := SortedCopy(xs)
	p := level * float64(len(s)-1)
	lo := math.Floor(p)
	hi := math.Ceil(p)
	return s[int(lo)] + (p-lo)*(s[int(hi)]-s[int(lo)])
}

// SameMultiset reports whether a and b hold the same values with the same
// multiplicities, in any order.
func SameMultiset[T order.Number](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	return slices.Equal(SortedCopy(a), SortedCopy(b))
}

// IsPartitioned reports whether xs[:k] <= xs[k] <= xs[k+1:].
func IsPartitioned[T order.Number](xs []T, k int) bool {
	for i := 0; i < k; i++ {
		if xs[k] < xs[i] {
			return false
		}
	}
	for i := k + 1; i < len(xs); i++ {
		if xs[i] < xs[k] {
			return false
		}
	}
	return true
}
