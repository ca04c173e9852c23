package gapbuffer

import "fmt"

// Range is a half-open range [Start, End) of physical offsets.
type Range struct {
	Start int
	End   int
}

// Len returns the number of offsets in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no offsets.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if offset i lies inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// indexToRaw converts logical index i to a raw storage offset, skipping the
// gap. It does not check i against Len, but never returns an offset inside
// the gap.
func (b *GapBuffer[T]) indexToRaw(i int) int {
	if i < b.gap.Start {
		return i
	}
	return i + b.gap.Len()
}
