package gapbuffer

import (
	"slices"
	"testing"
)

func TestPoolGetZeroed(t *testing.T) {
	p := NewPool[int]()
	s := p.Get(8)
	if len(s) != 8 {
		t.Fatalf("len = %d, want 8", len(s))
	}
	for i, v := range s {
		if v != 0 {
			t.Errorf("slot %d = %d, want 0", i, v)
		}
	}
	if p.Get(0) != nil {
		t.Error("Get(0) should return nil")
	}
}

func TestPoolPutGet(t *testing.T) {
	p := NewPool[int]()
	p.Put(make([]int, 16))
	s := p.Get(16)
	if len(s) != 16 {
		t.Errorf("len = %d, want 16", len(s))
	}
	p.Put(nil)
	p.Put(make([]int, maxPooledCapacity+1))
}

func TestBufferWithPool(t *testing.T) {
	p := NewPool[int]()
	b := New(WithPool(p))
	for i := range 100 {
		b.Insert(i)
	}
	b.SetPosition(50)
	b.Insert(-1)

	want := make([]int, 0, 101)
	for i := range 50 {
		want = append(want, i)
	}
	want = append(want, -1)
	for i := 50; i < 100; i++ {
		want = append(want, i)
	}
	if got := b.Slice(); !slices.Equal(got, want) {
		t.Errorf("contents differ with pooled storage")
	}

	b.Release()

	// Storage handed back must not leak old elements into new buffers.
	c := New(WithPool(p))
	c.Reserve(128)
	for raw := range c.Capacity() {
		if *c.store.slot(raw) != 0 {
			t.Fatalf("pooled slot %d not zeroed", raw)
		}
	}
}

func TestPoolZeroValue(t *testing.T) {
	var p Pool[string]
	s := p.Get(4)
	p.Put(s)
	if len(p.Get(4)) != 4 {
		t.Error("zero-value pool should work")
	}
}
