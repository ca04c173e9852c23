package gapbuffer

// storage is the raw slot region behind a GapBuffer.
// Its slice length always equals its capacity; which slots hold live
// elements is tracked entirely by the owner. storage never releases
// elements on its own.
type storage[T any] struct {
	slots []T
}

// capacity returns the number of slots.
func (s *storage[T]) capacity() int {
	return len(s.slots)
}

// slot returns a pointer to the slot at raw offset i.
// The caller guarantees 0 <= i < capacity().
func (s *storage[T]) slot(i int) *T {
	return &s.slots[i]
}

// move shifts n slots from src to dst in one bulk copy.
// The ranges may overlap.
func (s *storage[T]) move(dst, src, n int) {
	if n <= 0 || dst == src {
		return
	}
	copy(s.slots[dst:dst+n], s.slots[src:src+n])
}

// zero marks slots [lo, hi) vacant by storing the zero value, so vacated
// slots do not keep moved-out elements reachable.
func (s *storage[T]) zero(lo, hi int) {
	if lo < hi {
		clear(s.slots[lo:hi])
	}
}

// relocate copies the live prefix [0, gapStart) to the front of dst and the
// live suffix [gapEnd, capacity) to the tail of dst, then adopts dst.
// It returns the old slot slice, already zeroed.
func (s *storage[T]) relocate(dst []T, gapStart, gapEnd int) []T {
	old := s.slots
	after := len(old) - gapEnd
	copy(dst[:gapStart], old[:gapStart])
	copy(dst[len(dst)-after:], old[gapEnd:])
	clear(old)
	s.slots = dst
	return old
}

// reset drops the slot slice and returns it.
func (s *storage[T]) reset() []T {
	old := s.slots
	s.slots = nil
	return old
}
