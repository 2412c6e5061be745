package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when ranks are requested from an empty lane.
	ErrEmptyInput = errors.New("empty input")

	// ErrIndexOutOfBounds is the sentinel matched by IndexOutOfBoundsError.
	ErrIndexOutOfBounds = errors.New("index out of bounds")
)

// IndexOutOfBoundsError reports a rank outside [0, Len).
type IndexOutOfBoundsError struct {
	Index int
	Len   int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index out of bounds: %d not in [0, %d)", e.Index, e.Len)
}

func (e *IndexOutOfBoundsError) Unwrap() error { return ErrIndexOutOfBounds }
