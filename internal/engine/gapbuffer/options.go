package gapbuffer

// Option configures a GapBuffer during creation.
type Option[T any] func(*GapBuffer[T])

// WithMinCapacity sets the capacity allocated by the first growth.
// Values below DefaultMinCapacity are ignored.
func WithMinCapacity[T any](n int) Option[T] {
	return func(b *GapBuffer[T]) {
		if n > DefaultMinCapacity {
			b.minCapacity = n
		}
	}
}

// WithPool makes the buffer draw storage from p and return released
// storage to it.
func WithPool[T any](p *Pool[T]) Option[T] {
	return func(b *GapBuffer[T]) {
		b.pool = p
	}
}
