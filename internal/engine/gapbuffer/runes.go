package gapbuffer

import (
	"strings"
	"unicode/utf8"
)

// RuneBuffer is a gap buffer of runes with a text view.
// The zero value is an empty buffer ready to use.
type RuneBuffer struct {
	GapBuffer[rune]
}

// NewRuneBuffer creates a rune buffer holding s, with the insertion
// position at the end.
func NewRuneBuffer(s string, opts ...Option[rune]) *RuneBuffer {
	b := &RuneBuffer{GapBuffer: *New(opts...)}
	b.InsertString(s)
	return b
}

// InsertString inserts the runes of s at the insertion position.
func (b *RuneBuffer) InsertString(s string) {
	b.Reserve(utf8.RuneCountInString(s))
	for _, r := range s {
		b.Insert(r)
	}
}

// String returns the buffer's text.
func (b *RuneBuffer) String() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	for _, r := range b.All() {
		sb.WriteRune(r)
	}
	return sb.String()
}

// TextRange returns the text in logical rune range [start, end), clamped
// to the buffer.
func (b *RuneBuffer) TextRange(start, end int) string {
	return string(b.Range(start, end))
}

// RemoveString removes up to n runes after the insertion position and
// returns them as text.
func (b *RuneBuffer) RemoveString(n int) string {
	return string(b.RemoveN(n))
}
