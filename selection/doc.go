// Package selection implements partition-based order-statistic selection.
//
// SelectMany generalizes quickselect to several target ranks at once. The
// requested ranks are sorted, the middle one is placed first, and the two
// halves of the lane on either side of it are solved independently with the
// ranks that fall inside them. For k ranks over a lane of n elements this takes
// O(n log k) comparisons on average instead of the O(n log n) of a full sort.
//
// All functions rearrange the lane in place. After a call every requested rank
// holds the value a full ascending sort would put there, every element left of
// it is <= and every element right of it is >=. Nothing else about the order of
// the lane is specified.
//
//	lane := []float64{3, 1, 4, 1, 5, 9, 2, 6}
//	vals, _ := selection.SelectMany(lane, []int{3, 4})
//	// vals[3] == 3, vals[4] == 4
//
// Floating-point lanes must not contain NaN; see package order.
package selection
