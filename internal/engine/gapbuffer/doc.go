// Package gapbuffer provides a growable sequence with a movable hole ("gap")
// for cheap localized insertion and deletion, the structure classic text
// editors keep their text in.
//
// The buffer stores its elements in one contiguous slice. A run of vacant
// slots, the gap, sits at the current insertion position. Inserting writes
// into the front of the gap and removing widens it from the back, so repeated
// edits at a stable position cost O(1) amortized. Moving the position shifts
// exactly one contiguous block of elements across the gap.
//
// Layout of a buffer holding "abcdef" with the position at 2:
//
//	storage:  a b _ _ _ c d e f
//	              ^     ^
//	          gap.Start gap.End
//
// Logical indices (0..Len) skip the gap; physical offsets (0..Capacity)
// include it.
//
// Basic usage:
//
//	var b gapbuffer.RuneBuffer
//	b.InsertString("Lord of the Rings")
//	b.SetPosition(12)
//	b.InsertString("Onion ")
//	text := b.String() // "Lord of the Onion Rings"
//
// Ownership:
//
// A GapBuffer exclusively owns its live elements. Elements that implement
// Releaser are released exactly once when the buffer itself is released;
// vacant gap slots are never released. Elements handed back by Remove or
// Backspace become the caller's.
//
// A GapBuffer is not safe for concurrent use. Callers that share one across
// goroutines must synchronize access themselves.
package gapbuffer
