package gapbuffer

import "sync"

// maxPooledCapacity bounds the slices a Pool keeps.
const maxPooledCapacity = 1 << 20

// Pool recycles backing storage between gap buffers of the same element
// type. Slices are grouped by capacity; growth always doubles, so buffers
// built with the same minimum capacity share size classes.
// It is safe for concurrent use.
type Pool[T any] struct {
	mu      sync.Mutex
	classes map[int]*sync.Pool
}

// NewPool creates an empty storage pool.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{classes: make(map[int]*sync.Pool)}
}

// Get returns a zeroed slice of length n.
func (p *Pool[T]) Get(n int) []T {
	if n <= 0 {
		return nil
	}
	if s, ok := p.class(n).Get().(*[]T); ok && s != nil && len(*s) == n {
		return *s
	}
	return make([]T, n)
}

// Put returns s to the pool. s must already be zeroed and must not be used
// afterwards.
func (p *Pool[T]) Put(s []T) {
	n := len(s)
	if n == 0 || n > maxPooledCapacity {
		return
	}
	s = s[:n:n]
	p.class(n).Put(&s)
}

// class returns the sync.Pool holding slices of length n.
func (p *Pool[T]) class(n int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.classes == nil {
		p.classes = make(map[int]*sync.Pool)
	}
	c, ok := p.classes[n]
	if !ok {
		c = &sync.Pool{}
		p.classes[n] = c
	}
	return c
}
