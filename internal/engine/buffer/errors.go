package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, Len()].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a range that is inverted or extends past
	// the end of the buffer.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrEditsOverlap indicates a batch of edits that overlap or are not
	// ordered from the highest offset down.
	ErrEditsOverlap = errors.New("edits overlap or are not in reverse order")
)
