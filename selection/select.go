package selection

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/hupe1980/ndstats/order"
)

const (
	// insertionThreshold: ranges this short are finished by insertion sort.
	insertionThreshold = 12

	// nintherThreshold: ranges at least this long pick the pivot with Tukey's ninther.
	nintherThreshold = 50
)

// SelectMany places every requested rank of lane at its sorted position and
// returns the selected values keyed by rank.
//
// Duplicate ranks are allowed and collapse into one entry. An empty ranks slice
// returns an empty map without touching lane.
func SelectMany[T order.Number](lane []T, ranks []int) (map[int]T, error) {
	if len(ranks) == 0 {
		return map[int]T{}, nil
	}

	sorted, err := normalize(len(lane), ranks)
	if err != nil {
		return nil, err
	}

	solve(lane, 0, len(lane), sorted)

	out := make(map[int]T, len(sorted))
	for _, r := range sorted {
		out[r] = lane[r]
	}
	return out, nil
}

// SelectManyInto is the allocation-light form of SelectMany: dst[i] receives
// the value of rank ranks[i]. dst must have the same length as ranks.
func SelectManyInto[T order.Number](lane []T, ranks []int, dst []T) error {
	if len(dst) != len(ranks) {
		return fmt.Errorf("destination length %d does not match %d ranks", len(dst), len(ranks))
	}
	if len(ranks) == 0 {
		return nil
	}

	sorted, err := normalize(len(lane), ranks)
	if err != nil {
		return err
	}

	solve(lane, 0, len(lane), sorted)

	for i, r := range ranks {
		dst[i] = lane[r]
	}
	return nil
}

// SelectSorted is SelectMany for callers that already hold a strictly
// ascending rank list, such as a precomputed plan applied to many lanes. It
// validates the list in O(k) and allocates nothing; values are read back from
// lane[rank].
func SelectSorted[T order.Number](lane []T, ranks []int) error {
	if err := checkSorted(len(lane), ranks); err != nil {
		return err
	}
	solve(lane, 0, len(lane), ranks)
	return nil
}

// Select places the element of the given rank at lane[rank] and returns it.
func Select[T order.Number](lane []T, rank int) (T, error) {
	var zero T
	if len(lane) == 0 {
		return zero, ErrEmptyInput
	}
	if rank < 0 || rank >= len(lane) {
		return zero, &IndexOutOfBoundsError{Index: rank, Len: len(lane)}
	}

	nth(lane, 0, len(lane), rank)
	return lane[rank], nil
}

// Partition rearranges lane around the value at pivotIndex and returns the
// pivot's final position p: lane[:p] < pivot <= lane[p+1:].
//
// Panics if pivotIndex is out of range, like a slice index would.
func Partition[T order.Number](lane []T, pivotIndex int) int {
	last := len(lane) - 1
	lane[pivotIndex], lane[last] = lane[last], lane[pivotIndex]
	pivot := lane[last]

	p := 0
	for i := 0; i < last; i++ {
		if lane[i] < pivot {
			lane[i], lane[p] = lane[p], lane[i]
			p++
		}
	}
	lane[p], lane[last] = lane[last], lane[p]
	return p
}

// checkSorted validates a strictly ascending rank list against a lane of n
// elements. An empty list is valid for any n.
func checkSorted(n int, ranks []int) error {
	if len(ranks) == 0 {
		return nil
	}
	if n == 0 {
		return ErrEmptyInput
	}
	for i, r := range ranks {
		if r < 0 || r >= n {
			return &IndexOutOfBoundsError{Index: r, Len: n}
		}
		if i > 0 && r <= ranks[i-1] {
			return fmt.Errorf("ranks not strictly ascending at position %d", i)
		}
	}
	return nil
}

// normalize validates ranks against n and returns them sorted and de-duplicated.
// The caller's slice is left untouched.
func normalize(n int, ranks []int) ([]int, error) {
	if n == 0 {
		return nil, ErrEmptyInput
	}
	for _, r := range ranks {
		if r < 0 || r >= n {
			return nil, &IndexOutOfBoundsError{Index: r, Len: n}
		}
	}

	sorted := slices.Clone(ranks)
	slices.Sort(sorted)
	return slices.Compact(sorted), nil
}

// solve places every rank of ranks (sorted, all inside [lo, hi)) at its final
// position. The middle requested rank is placed first so that both halves carry
// a similar number of targets.
func solve[T order.Number](lane []T, lo, hi int, ranks []int) {
	for len(ranks) > 0 {
		if len(ranks) == 1 {
			nth(lane, lo, hi, ranks[0])
			return
		}

		mid := len(ranks) / 2
		m := ranks[mid]
		nth(lane, lo, hi, m)

		solve(lane, lo, m, ranks[:mid])

		lo = m + 1
		ranks = ranks[mid+1:]
	}
}

// nth places the element of rank k within lane[lo:hi] at index k, with smaller
// or equal elements before it and greater or equal elements after it.
func nth[T order.Number](lane []T, lo, hi, k int) {
	// Quickselect degrades to O(n^2) on adversarial input; once the partition
	// budget is spent the remaining range is sorted outright.
	budget := 2 * bits.Len(uint(hi-lo))

	for hi-lo > insertionThreshold {
		if budget == 0 {
			slices.Sort(lane[lo:hi])
			return
		}
		budget--

		p := partition(lane, lo, hi, choosePivot(lane, lo, hi))
		switch {
		case k < p:
			hi = p
		case k > p:
			lo = p + 1
		default:
			return
		}
	}
	insertionSort(lane, lo, hi)
}

// partition is a Hoare partition of lane[lo:hi] around lane[pivot]. Both scans
// stop on elements equal to the pivot, which keeps runs of duplicates balanced.
// Returns the pivot's final index p: lane[lo:p] <= pivot <= lane[p+1:hi].
func partition[T order.Number](lane []T, lo, hi, pivot int) int {
	lane[lo], lane[pivot] = lane[pivot], lane[lo]
	v := lane[lo]

	i, j := lo+1, hi-1
	for {
		for i <= j && lane[i] < v {
			i++
		}
		for i <= j && v < lane[j] {
			j--
		}
		if i >= j {
			break
		}
		lane[i], lane[j] = lane[j], lane[i]
		i++
		j--
	}

	lane[lo], lane[j] = lane[j], lane[lo]
	return j
}

// choosePivot returns the index of a pivot candidate in lane[lo:hi]:
// median of three samples, each refined to its neighbourhood median on long ranges.
func choosePivot[T order.Number](lane []T, lo, hi int) int {
	l := hi - lo
	i := lo + l/4
	j := lo + l/2
	k := lo + l/4*3

	if l >= nintherThreshold {
		i = median3(lane, i-1, i, i+1)
		j = median3(lane, j-1, j, j+1)
		k = median3(lane, k-1, k, k+1)
	}
	return median3(lane, i, j, k)
}

func median3[T order.Number](lane []T, a, b, c int) int {
	if lane[b] < lane[a] {
		a, b = b, a
	}
	if lane[c] < lane[b] {
		if lane[c] < lane[a] {
			return a
		}
		return c
	}
	return b
}

func insertionSort[T order.Number](lane []T, lo, hi int) {
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && lane[j] < lane[j-1]; j-- {
			lane[j], lane[j-1] = lane[j-1], lane[j]
		}
	}
}
