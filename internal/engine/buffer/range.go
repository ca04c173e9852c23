package buffer

import "fmt"

// Range is a half-open rune range [Start, End).
type Range struct {
	Start Offset
	End   Offset
}

// NewRange returns the range [start, end).
func NewRange(start, end Offset) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the number of runes covered.
func (r Range) Len() Offset { return r.End - r.Start }

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool { return r.Start == r.End }

// IsValid reports whether Start <= End.
func (r Range) IsValid() bool { return r.Start <= r.End }

// Contains reports whether offset falls inside the range.
func (r Range) Contains(offset Offset) bool {
	return r.Start <= offset && offset < r.End
}

// Overlaps reports whether two ranges share at least one offset.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}
