package gapbuffer

import (
	"fmt"
	"strings"
)

// String renders the live elements in logical order, e.g. "[1 2 3]".
func (b *GapBuffer[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range b.All() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte(']')
	return sb.String()
}

// GoString renders the raw layout with the gap marked, e.g.
// "GapBuffer{[1 2] _ _ [3] pos=2 len=3 cap=5}".
func (b *GapBuffer[T]) GoString() string {
	var sb strings.Builder
	sb.WriteString("GapBuffer{")
	writeRun(&sb, b.store.slots[:b.gap.Start])
	for range b.gap.Len() {
		sb.WriteString(" _")
	}
	sb.WriteByte(' ')
	writeRun(&sb, b.store.slots[b.gap.End:])
	fmt.Fprintf(&sb, " pos=%d len=%d cap=%d}", b.Position(), b.Len(), b.Capacity())
	return sb.String()
}

func writeRun[T any](sb *strings.Builder, run []T) {
	sb.WriteByte('[')
	for i, v := range run {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(sb, v)
	}
	sb.WriteByte(']')
}
