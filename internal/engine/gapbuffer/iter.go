package gapbuffer

import "iter"

// Iterator walks the live elements of a GapBuffer in logical order.
// It must not be used across mutations of the buffer.
type Iterator[T any] struct {
	buf   *GapBuffer[T]
	next  int
	index int
	value T
}

// Iter returns an iterator positioned before the first element.
// Each call starts a fresh pass.
func (b *GapBuffer[T]) Iter() *Iterator[T] {
	return &Iterator[T]{buf: b, index: -1}
}

// Next advances to the next element.
// Returns true if there is an element, false if iteration is complete.
func (it *Iterator[T]) Next() bool {
	if it.next >= it.buf.Len() {
		return false
	}
	it.index = it.next
	it.next++
	it.value, _ = it.buf.Get(it.index)
	return true
}

// Value returns the current element.
func (it *Iterator[T]) Value() T {
	return it.value
}

// Index returns the logical index of the current element, or -1 before the
// first call to Next.
func (it *Iterator[T]) Index() int {
	return it.index
}

// All returns a sequence of logical index and element pairs.
func (b *GapBuffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range b.gap.Start {
			if !yield(i, b.store.slots[i]) {
				return
			}
		}
		i := b.gap.Start
		for raw := b.gap.End; raw < b.Capacity(); raw++ {
			if !yield(i, b.store.slots[raw]) {
				return
			}
			i++
		}
	}
}

// Values returns a sequence of the elements in logical order.
func (b *GapBuffer[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range b.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Slice returns a copy of the elements in logical order.
func (b *GapBuffer[T]) Slice() []T {
	out := make([]T, b.Len())
	n := copy(out, b.store.slots[:b.gap.Start])
	copy(out[n:], b.store.slots[b.gap.End:])
	return out
}

// Range returns a copy of the elements in logical range [start, end).
// Bounds are clamped to [0, Len()].
func (b *GapBuffer[T]) Range(start, end int) []T {
	start = max(start, 0)
	end = min(end, b.Len())
	if start >= end {
		return nil
	}
	out := make([]T, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, *b.store.slot(b.indexToRaw(i)))
	}
	return out
}
