package gapbuffer

// Releaser is implemented by elements that must be told when the buffer
// that owns them is torn down.
type Releaser interface {
	Release()
}

// Release tears the buffer down. Every live element that implements
// Releaser (by value or by pointer) is released exactly once; gap slots are
// never touched. The storage is zeroed and handed to the pool, if any, and
// the buffer is left empty and reusable. Calling Release again is a no-op.
func (b *GapBuffer[T]) Release() {
	for i := range b.gap.Start {
		releaseSlot(b.store.slot(i))
	}
	for i := b.gap.End; i < b.Capacity(); i++ {
		releaseSlot(b.store.slot(i))
	}

	old := b.store.reset()
	clear(old)
	b.free(old)
	b.gap = Range{}
}

func releaseSlot[T any](p *T) {
	if r, ok := any(*p).(Releaser); ok {
		r.Release()
		return
	}
	if r, ok := any(p).(Releaser); ok {
		r.Release()
	}
}
