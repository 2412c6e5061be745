package ndstats_test

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/hupe1980/ndstats"
	"github.com/hupe1980/ndstats/ndarray"
)

// ExampleQuantilesAxis computes the quartiles of each row. The levels become
// the leading axis of the result.
func ExampleQuantilesAxis() {
	a := ndarray.MustFromSlice([]float64{
		3, 1, 4, 1,
		5, 9, 2, 6,
	}, 2, 4)

	q, err := ndstats.QuantilesAxis(context.Background(), a, 1, []float64{0.25, 0.75}, ndstats.Linear)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(q.Shape(), q.Data())
	// Output: [2 2] [1 4.25 3.25 6.75]
}

// ExampleMedianAxis reduces the columns of a matrix.
func ExampleMedianAxis() {
	a := ndarray.MustFromSlice([]float64{
		3, 1, 4, 1,
		5, 9, 2, 6,
	}, 2, 4)

	m, err := ndstats.MedianAxis(context.Background(), a, 0)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(m.Data())
	// Output: [4 5 3 3.5]
}

// ExampleQuantileAxis shows the interpolation policies on a single lane.
func ExampleQuantileAxis() {
	a := ndarray.MustFromSlice([]float64{3, 1, 4, 1, 5, 9, 2, 6}, 8)

	for _, p := range []ndstats.Policy{ndstats.Linear, ndstats.Lower, ndstats.Higher, ndstats.Nearest, ndstats.Midpoint} {
		q, err := ndstats.QuantileAxis(context.Background(), a, 0, 0.5, p)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(p, q.At())
	}
	// Output:
	// linear 3.5
	// lower 3
	// higher 4
	// nearest 4
	// midpoint 3.5
}

// ExampleQuantilesAxisSkipNaN ignores missing observations.
func ExampleQuantilesAxisSkipNaN() {
	nan := math.NaN()
	a := ndarray.MustFromSlice([]float64{
		1, nan, 3, 2,
		nan, nan, nan, nan,
	}, 2, 4)

	r, err := ndstats.QuantilesAxisSkipNaN(context.Background(), a, 1, []float64{0.5}, ndstats.Linear)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(r.Values.Data(), r.EmptyLanes.ToArray())
	// Output: [2 NaN] [1]
}
