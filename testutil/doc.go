// Package testutil provides testing utilities for ndstats.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random lanes, computing reference
// order statistics by full sorting, and checking that a selection only
// rearranged its input.
//
// # Random Lane Generation
//
//	rng := testutil.NewRNG(seed)
//	lane := rng.Uniform(1024)          // uniform [0, 1)
//	lane = rng.Gaussian(1024)          // standard normal
//	ints := rng.Ints(1024, 16)         // heavy duplicates in [0, 16)
//
// # Reference Values
//
//	want := testutil.SortedRank(lane, 3)          // what sort.Float64s would put at 3
//	ok := testutil.SameMultiset(before, after)    // pure rearrangement check
package testutil
