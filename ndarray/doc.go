// Package ndarray provides the minimal n-dimensional array the statistics
// engine operates on.
//
// An Array owns a row-major buffer together with its shape and strides. For a
// chosen axis the array decomposes into lanes: one-dimensional strided views
// holding every other coordinate fixed. Lanes are enumerated in the natural
// row-major order of the remaining axes, which is also the flat order of an
// array whose shape is the input shape with that axis removed:
//
//	a := ndarray.MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
//	for i, lane := range a.Lanes(1) {
//	    // i == 0: [1 2 3], i == 1: [4 5 6]
//	}
//
// Two-dimensional float64 arrays convert to and from gonum's mat.Dense.
package ndarray
