package selection

import (
	"math/bits"
	"slices"
)

// SelectManyFunc is SelectMany for element types ordered by cmp instead of
// the native operators, such as order.NotNaN values or floats ordered with
// order.TotalCompare. cmp follows the slices.SortFunc contract and must be a
// strict weak order.
func SelectManyFunc[E any](lane []E, ranks []int, cmp func(a, b E) int) (map[int]E, error) {
	if len(ranks) == 0 {
		return map[int]E{}, nil
	}

	sorted, err := normalize(len(lane), ranks)
	if err != nil {
		return nil, err
	}

	solveFunc(lane, 0, len(lane), sorted, cmp)

	out := make(map[int]E, len(sorted))
	for _, r := range sorted {
		out[r] = lane[r]
	}
	return out, nil
}

// SelectSortedFunc is SelectSorted ordered by cmp.
func SelectSortedFunc[E any](lane []E, ranks []int, cmp func(a, b E) int) error {
	if err := checkSorted(len(lane), ranks); err != nil {
		return err
	}
	solveFunc(lane, 0, len(lane), ranks, cmp)
	return nil
}

// SelectFunc is Select ordered by cmp.
func SelectFunc[E any](lane []E, rank int, cmp func(a, b E) int) (E, error) {
	var zero E
	if len(lane) == 0 {
		return zero, ErrEmptyInput
	}
	if rank < 0 || rank >= len(lane) {
		return zero, &IndexOutOfBoundsError{Index: rank, Len: len(lane)}
	}

	nthFunc(lane, 0, len(lane), rank, cmp)
	return lane[rank], nil
}

func solveFunc[E any](lane []E, lo, hi int, ranks []int, cmp func(a, b E) int) {
	for len(ranks) > 0 {
		if len(ranks) == 1 {
			nthFunc(lane, lo, hi, ranks[0], cmp)
			return
		}

		mid := len(ranks) / 2
		m := ranks[mid]
		nthFunc(lane, lo, hi, m, cmp)

		solveFunc(lane, lo, m, ranks[:mid], cmp)

		lo = m + 1
		ranks = ranks[mid+1:]
	}
}

func nthFunc[E any](lane []E, lo, hi, k int, cmp func(a, b E) int) {
	budget := 2 * bits.Len(uint(hi-lo))

	for hi-lo > insertionThreshold {
		if budget == 0 {
			slices.SortFunc(lane[lo:hi], cmp)
			return
		}
		budget--

		p := partitionFunc(lane, lo, hi, choosePivotFunc(lane, lo, hi, cmp), cmp)
		switch {
		case k < p:
			hi = p
		case k > p:
			lo = p + 1
		default:
			return
		}
	}
	insertionSortFunc(lane, lo, hi, cmp)
}

func partitionFunc[E any](lane []E, lo, hi, pivot int, cmp func(a, b E) int) int {
	lane[lo], lane[pivot] = lane[pivot], lane[lo]
	v := lane[lo]

	i, j := lo+1, hi-1
	for {
		for i <= j && cmp(lane[i], v) < 0 {
			i++
		}
		for i <= j && cmp(v, lane[j]) < 0 {
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

func choosePivotFunc[E any](lane []E, lo, hi int, cmp func(a, b E) int) int {
	l := hi - lo
	i := lo + l/4
	j := lo + l/2
	k := lo + l/4*3

	if l >= nintherThreshold {
		i = median3Func(lane, i-1, i, i+1, cmp)
		j = median3Func(lane, j-1, j, j+1, cmp)
		k = median3Func(lane, k-1, k, k+1, cmp)
	}
	return median3Func(lane, i, j, k, cmp)
}

func median3Func[E any](lane []E, a, b, c int, cmp func(a, b E) int) int {
	if cmp(lane[b], lane[a]) < 0 {
		a, b = b, a
	}
	if cmp(lane[c], lane[b]) < 0 {
		if cmp(lane[c], lane[a]) < 0 {
			return a
		}
		return c
	}
	return b
}

func insertionSortFunc[E any](lane []E, lo, hi int, cmp func(a, b E) int) {
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && cmp(lane[j], lane[j-1]) < 0; j-- {
			lane[j], lane[j-1] = lane[j-1], lane[j]
		}
	}
}
