package gapbuffer

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange indicates a position outside [0, Len()].
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError reports an out-of-range insertion position.
type IndexError struct {
	Index int
	Len   int
}

// Error implements error.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for GapBuffer of length %d", e.Index, e.Len)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
