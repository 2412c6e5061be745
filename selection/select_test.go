package selection

import (
	"slices"
	"testing"

	"github.com/hupe1980/ndstats/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectMany(t *testing.T) {
	t.Run("concrete lane", func(t *testing.T) {
		lane := []float64{3, 1, 4, 1, 5, 9, 2, 6}
		got, err := SelectMany(lane, []int{4, 3})
		require.NoError(t, err)
		assert.Equal(t, map[int]float64{3: 3, 4: 4}, got)
	})

	t.Run("empty ranks leave lane untouched", func(t *testing.T) {
		lane := []int{5, 4, 3}
		got, err := SelectMany(lane, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, []int{5, 4, 3}, lane)
	})

	t.Run("empty ranks on empty lane", func(t *testing.T) {
		got, err := SelectMany([]int{}, []int{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty lane", func(t *testing.T) {
		_, err := SelectMany([]int{}, []int{0})
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("out of bounds", func(t *testing.T) {
		lane := []int{5, 4, 3}
		_, err := SelectMany(lane, []int{0, 3})
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)

		var oob *IndexOutOfBoundsError
		require.ErrorAs(t, err, &oob)
		assert.Equal(t, 3, oob.Index)
		assert.Equal(t, 3, oob.Len)
		assert.Equal(t, []int{5, 4, 3}, lane, "lane must not be touched on error")

		_, err = SelectMany(lane, []int{-1})
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)
	})

	t.Run("duplicate ranks", func(t *testing.T) {
		lane := []int{9, 8, 7, 6, 5}
		ranks := []int{2, 2, 0, 2}
		got, err := SelectMany(lane, ranks)
		require.NoError(t, err)
		assert.Equal(t, map[int]int{0: 5, 2: 7}, got)
		assert.Equal(t, []int{2, 2, 0, 2}, ranks, "caller's ranks must not be reordered")
	})
}

func TestSelectManyMatchesSort(t *testing.T) {
	rng := testutil.NewRNG(42)

	lanes := map[string][]float64{
		"uniform":    rng.Uniform(1000),
		"gaussian":   rng.Gaussian(777),
		"sorted":     testutil.Sorted(500),
		"reversed":   testutil.Reversed(500),
		"organ pipe": testutil.OrganPipe(501),
		"constant":   testutil.Constant(300, 4),
		"tiny":       {2, 1},
		"single":     {7},
	}

	for name, lane := range lanes {
		t.Run(name, func(t *testing.T) {
			for _, k := range []int{1, 2, 5, 17} {
				work := slices.Clone(lane)
				ranks := rng.Ranks(k, len(work))
				want := testutil.SortedCopy(lane)

				got, err := SelectMany(work, ranks)
				require.NoError(t, err)

				for _, r := range ranks {
					assert.Equal(t, want[r], got[r], "rank %d", r)
					assert.Equal(t, want[r], work[r], "rank %d in place", r)
					assert.True(t, testutil.IsPartitioned(work, r), "rank %d not a partition point", r)
				}
				assert.True(t, testutil.SameMultiset(lane, work))
			}
		})
	}
}

func TestSelectManyAllRanksSorts(t *testing.T) {
	rng := testutil.NewRNG(7)

	for _, n := range []int{1, 2, 13, 64, 300} {
		xs := rng.Ints(n, 10)
		ranks := make([]int, n)
		for i := range ranks {
			ranks[i] = i
		}

		work := slices.Clone(xs)
		_, err := SelectMany(work, ranks)
		require.NoError(t, err)
		assert.Equal(t, testutil.SortedCopy(xs), work)
	}
}

func TestSelectManyInto(t *testing.T) {
	lane := []int32{3, 1, 4, 1, 5, 9, 2, 6}
	dst := make([]int32, 3)

	require.NoError(t, SelectManyInto(lane, []int{7, 0, 4}, dst))
	assert.Equal(t, []int32{9, 1, 4}, dst)

	assert.Error(t, SelectManyInto(lane, []int{1}, dst))
	assert.NoError(t, SelectManyInto(lane, nil, []int32{}))
	assert.ErrorIs(t, SelectManyInto([]int32{}, []int{0}, dst[:1]), ErrEmptyInput)
}

func TestSelect(t *testing.T) {
	cases := []struct {
		rank int
		want int
	}{
		{2, 3},
		{1, 2},
		{3, 10},
		{0, 1},
	}
	for _, tc := range cases {
		got, err := Select([]int{1, 3, 2, 10}, tc.rank)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := Select([]int{}, 0)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Select([]int{1}, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestSelectAsSortingAlgorithm(t *testing.T) {
	rng := testutil.NewRNG(99)
	xs := rng.Ints(200, 50)

	work := slices.Clone(xs)
	got := make([]int64, len(xs))
	for i := range got {
		v, err := Select(work, i)
		require.NoError(t, err)
		got[i] = v
	}
	assert.Equal(t, testutil.SortedCopy(xs), got)
}

func TestPartition(t *testing.T) {
	lanes := [][]int{
		{1, 1, 1, 1, 1},
		{1, 3, 2, 10, 10},
		{2, 3, 4, 1},
		{355, 453, 452, 391, 289, 343, 44, 154, 271, 44, 314, 276, 160, 469, 191, 138, 163, 308, 395, 3, 416, 391, 210, 354, 200},
		{84, 192, 216, 159, 89, 296, 35, 213, 456, 278, 98, 52, 308, 418, 329, 173, 286, 106, 366, 129, 125, 450, 23, 463, 151},
	}

	for _, a := range lanes {
		n := len(a)
		pivot := a[n-1]
		p := Partition(a, n-1)

		for i := 0; i < p; i++ {
			assert.Less(t, a[i], pivot)
		}
		assert.Equal(t, pivot, a[p])
		for j := p + 1; j < n; j++ {
			assert.LessOrEqual(t, pivot, a[j])
		}
	}
}

func TestNthDegenerateBudget(t *testing.T) {
	// Constant lanes exercise the equal-element path of the Hoare partition.
	lane := testutil.Constant(4096, 1)
	v, err := Select(lane, 2048)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func BenchmarkSelectMany(b *testing.B) {
	rng := testutil.NewRNG(1)
	src := rng.Gaussian(1 << 14)
	ranks := []int{len(src) / 4, len(src) / 2, 3 * len(src) / 4}
	work := make([]float64, len(src))

	b.ReportAllocs()
	for b.Loop() {
		copy(work, src)
		_, _ = SelectMany(work, ranks)
	}
}

func BenchmarkSortBaseline(b *testing.B) {
	rng := testutil.NewRNG(1)
	src := rng.Gaussian(1 << 14)
	work := make([]float64, len(src))

	b.ReportAllocs()
	for b.Loop() {
		copy(work, src)
		slices.Sort(work)
	}
}

func TestSelectSorted(t *testing.T) {
	rng := testutil.NewRNG(3)
	src := rng.Gaussian(257)
	want := testutil.SortedCopy(src)

	lane := slices.Clone(src)
	ranks := []int{0, 10, 128, 200, 256}
	require.NoError(t, SelectSorted(lane, ranks))
	for _, r := range ranks {
		assert.Equal(t, want[r], lane[r])
	}

	assert.Error(t, SelectSorted(lane, []int{3, 3}))
	assert.Error(t, SelectSorted(lane, []int{5, 2}))
	assert.ErrorIs(t, SelectSorted(lane, []int{257}), ErrIndexOutOfBounds)
	assert.ErrorIs(t, SelectSorted([]float64{}, []int{0}), ErrEmptyInput)
	assert.NoError(t, SelectSorted([]float64{}, nil))
}
