package gapbuffer

import "iter"

// DefaultMinCapacity is the capacity allocated by the first growth of an
// empty buffer.
const DefaultMinCapacity = 4

// GapBuffer is a growable sequence of T with a movable gap at the insertion
// position. The zero value is an empty buffer ready to use.
//
// Invariants:
//   - raw offsets in [0, gap.Start) and [gap.End, Capacity()) hold live elements
//   - raw offsets in gap hold the zero value and are never read or released
//   - Position() == gap.Start lies in [0, Len()]
type GapBuffer[T any] struct {
	store       storage[T]
	gap         Range
	minCapacity int
	pool        *Pool[T]
}

// New creates an empty gap buffer.
func New[T any](opts ...Option[T]) *GapBuffer[T] {
	b := &GapBuffer[T]{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromSlice creates a gap buffer holding a copy of xs, with the insertion
// position at the end.
func FromSlice[T any](xs []T, opts ...Option[T]) *GapBuffer[T] {
	b := New(opts...)
	b.InsertSlice(xs...)
	return b
}

// Capacity returns the number of elements the buffer can hold without
// reallocating.
func (b *GapBuffer[T]) Capacity() int {
	return b.store.capacity()
}

// Len returns the number of elements in the buffer.
func (b *GapBuffer[T]) Len() int {
	return b.Capacity() - b.gap.Len()
}

// IsEmpty returns true if the buffer holds no elements.
func (b *GapBuffer[T]) IsEmpty() bool {
	return b.Len() == 0
}

// Position returns the current insertion position.
func (b *GapBuffer[T]) Position() int {
	return b.gap.Start
}

// Gap returns the raw range currently occupied by the gap.
func (b *GapBuffer[T]) Gap() Range {
	return b.gap
}

// Get returns the element at logical index i, or false if i is out of
// bounds.
func (b *GapBuffer[T]) Get(i int) (T, bool) {
	if p := b.At(i); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// At returns a pointer to the element at logical index i, or nil if i is
// out of bounds. The pointer is valid until the next mutation.
func (b *GapBuffer[T]) At(i int) *T {
	if i < 0 || i >= b.Len() {
		return nil
	}
	return b.store.slot(b.indexToRaw(i))
}

// SetPosition moves the insertion position to pos.
// It panics with an *IndexError if pos is outside [0, Len()].
func (b *GapBuffer[T]) SetPosition(pos int) {
	if err := b.TrySetPosition(pos); err != nil {
		panic(err)
	}
}

// TrySetPosition moves the insertion position to pos, or returns an
// *IndexError wrapping ErrIndexOutOfRange and leaves the buffer unchanged.
func (b *GapBuffer[T]) TrySetPosition(pos int) error {
	if pos < 0 || pos > b.Len() {
		return &IndexError{Index: pos, Len: b.Len()}
	}

	gap := b.gap
	var src Range
	switch {
	case pos > gap.Start:
		// Shift the elements just after the gap down to its front.
		distance := pos - gap.Start
		src = Range{Start: gap.End, End: gap.End + distance}
		b.store.move(gap.Start, gap.End, distance)
	case pos < gap.Start:
		// Shift the elements just before the gap up to its back.
		distance := gap.Start - pos
		src = Range{Start: pos, End: gap.Start}
		b.store.move(gap.End-distance, pos, distance)
	default:
		return nil
	}

	b.gap = Range{Start: pos, End: pos + gap.Len()}

	// Source slots the copy did not overwrite now belong to the gap.
	b.store.zero(max(src.Start, b.gap.Start), min(src.End, b.gap.End))
	return nil
}

// Insert writes elt at the insertion position and leaves the position
// after it.
func (b *GapBuffer[T]) Insert(elt T) {
	if b.gap.IsEmpty() {
		b.enlargeGap(1)
	}
	*b.store.slot(b.gap.Start) = elt
	b.gap.Start++
}

// InsertSlice inserts xs in order at the insertion position.
func (b *GapBuffer[T]) InsertSlice(xs ...T) {
	if len(xs) > b.gap.Len() {
		b.enlargeGap(len(xs))
	}
	for _, x := range xs {
		b.Insert(x)
	}
}

// InsertSeq inserts every element produced by seq at the insertion
// position. It does not return if seq is infinite.
func (b *GapBuffer[T]) InsertSeq(seq iter.Seq[T]) {
	for x := range seq {
		b.Insert(x)
	}
}

// Remove removes and returns the element just after the insertion
// position. It returns false if the position is at the end of the buffer.
func (b *GapBuffer[T]) Remove() (T, bool) {
	var zero T
	if b.gap.End == b.Capacity() {
		return zero, false
	}
	p := b.store.slot(b.gap.End)
	elt := *p
	*p = zero
	b.gap.End++
	return elt, true
}

// RemoveN removes up to n elements after the insertion position and
// returns them in order.
func (b *GapBuffer[T]) RemoveN(n int) []T {
	n = min(n, b.Capacity()-b.gap.End)
	if n <= 0 {
		return nil
	}
	out := make([]T, 0, n)
	for range n {
		elt, _ := b.Remove()
		out = append(out, elt)
	}
	return out
}

// Backspace removes and returns the element just before the insertion
// position, moving the position back by one. It returns false at
// position 0.
func (b *GapBuffer[T]) Backspace() (T, bool) {
	var zero T
	if b.gap.Start == 0 {
		return zero, false
	}
	b.gap.Start--
	p := b.store.slot(b.gap.Start)
	elt := *p
	*p = zero
	return elt, true
}

// Reserve grows the buffer, if needed, so that at least n more elements
// can be inserted at the current position without reallocating.
func (b *GapBuffer[T]) Reserve(n int) {
	if n > b.gap.Len() {
		b.enlargeGap(n)
	}
}

// enlargeGap doubles the capacity until the gap can hold at least need
// elements. The prefix and suffix are relocated verbatim; no element is
// released.
func (b *GapBuffer[T]) enlargeGap(need int) {
	newCapacity := b.Capacity() * 2
	if newCapacity == 0 {
		newCapacity = b.initialCapacity()
	}
	for newCapacity-b.Len() < need {
		newCapacity *= 2
	}

	after := b.Capacity() - b.gap.End
	old := b.store.relocate(b.alloc(newCapacity), b.gap.Start, b.gap.End)
	b.free(old)
	b.gap = Range{Start: b.gap.Start, End: newCapacity - after}
}

func (b *GapBuffer[T]) initialCapacity() int {
	return max(b.minCapacity, DefaultMinCapacity)
}

func (b *GapBuffer[T]) alloc(n int) []T {
	if b.pool != nil {
		return b.pool.Get(n)
	}
	return make([]T, n)
}

func (b *GapBuffer[T]) free(s []T) {
	if b.pool != nil && len(s) > 0 {
		b.pool.Put(s)
	}
}
