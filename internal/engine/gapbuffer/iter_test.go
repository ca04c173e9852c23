package gapbuffer

import (
	"slices"
	"testing"
)

func TestIterator(t *testing.T) {
	b := FromSlice([]int{10, 20, 30, 40})
	b.SetPosition(2)

	it := b.Iter()
	if it.Index() != -1 {
		t.Errorf("Index() before Next = %d, want -1", it.Index())
	}
	var got []int
	for it.Next() {
		if it.Index() != len(got) {
			t.Errorf("Index() = %d, want %d", it.Index(), len(got))
		}
		got = append(got, it.Value())
	}
	if !slices.Equal(got, []int{10, 20, 30, 40}) {
		t.Errorf("got %v", got)
	}
	if it.Next() {
		t.Error("exhausted iterator should stay exhausted")
	}

	// A fresh iterator starts over.
	it = b.Iter()
	if !it.Next() || it.Value() != 10 {
		t.Error("new iterator should restart at the first element")
	}
}

func TestIteratorEmpty(t *testing.T) {
	if New[int]().Iter().Next() {
		t.Error("iterator over empty buffer should yield nothing")
	}
}

func TestAllAndValues(t *testing.T) {
	b := FromSlice([]string{"a", "b", "c", "d"})
	b.SetPosition(1)

	var idx []int
	var vals []string
	for i, v := range b.All() {
		idx = append(idx, i)
		vals = append(vals, v)
	}
	if !slices.Equal(idx, []int{0, 1, 2, 3}) {
		t.Errorf("indices = %v", idx)
	}
	if !slices.Equal(vals, []string{"a", "b", "c", "d"}) {
		t.Errorf("values = %v", vals)
	}

	if got := slices.Collect(b.Values()); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("Values() = %v", got)
	}

	// Early break stops on both sides of the gap.
	for _, stop := range []int{0, 2} {
		n := 0
		for i := range b.All() {
			n++
			if i == stop {
				break
			}
		}
		if n != stop+1 {
			t.Errorf("break at %d visited %d elements", stop, n)
		}
	}
}
