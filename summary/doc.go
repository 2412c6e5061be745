// Package summary computes moment-based summary statistics of float64
// arrays: arithmetic, harmonic and geometric means, central moments and
// variance.
//
// Every function reduces over all elements of the array, except MeanAxis
// which reduces along one axis. Empty inputs fail with ErrEmptyInput rather
// than producing NaN.
package summary
