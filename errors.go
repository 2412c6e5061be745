package ndstats

import (
	"errors"

	"github.com/hupe1980/ndstats/interpolate"
	"github.com/hupe1980/ndstats/ndarray"
	"github.com/hupe1980/ndstats/resource"
	"github.com/hupe1980/ndstats/selection"
)

var (
	// ErrEmptyInput is returned when a lane or array holds no elements.
	ErrEmptyInput = selection.ErrEmptyInput

	// ErrIndexOutOfBounds is returned when a rank lies outside a lane.
	ErrIndexOutOfBounds = selection.ErrIndexOutOfBounds

	// ErrInvalidQuantile is returned for levels outside [0, 1], NaN levels,
	// or an empty level list.
	ErrInvalidQuantile = interpolate.ErrInvalidQuantile

	// ErrInvalidPolicy is returned for an unknown interpolation policy.
	ErrInvalidPolicy = interpolate.ErrInvalidPolicy

	// ErrInvalidAxis is returned when the axis is not a dimension of the array.
	ErrInvalidAxis = ndarray.ErrInvalidAxis

	// ErrNilArray is returned when a nil array is passed where data is required.
	ErrNilArray = ndarray.ErrNilArray

	// ErrUndefinedOrder is returned when a reduction meets a NaN.
	ErrUndefinedOrder = errors.New("undefined order: NaN encountered")

	// ErrMemoryLimitExceeded is returned when the scratch buffers of a call
	// do not fit the resource controller's memory budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// IndexOutOfBoundsError carries the offending rank.
type IndexOutOfBoundsError = selection.IndexOutOfBoundsError

// InvalidQuantileError carries the offending level and its position.
type InvalidQuantileError = interpolate.InvalidQuantileError

// InvalidAxisError carries the offending axis and the array's dimensionality.
type InvalidAxisError = ndarray.AxisError
