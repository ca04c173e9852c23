package buffer

import "github.com/dshills/gapstorm/internal/engine/gapbuffer"

// Option configures a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending inserted text is normalized to.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) { b.lineEnding = le }
}

// WithTabWidth sets the tab width. Non-positive widths are ignored.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithInitialCapacity sets the capacity, in runes, of the first
// allocation.
func WithInitialCapacity(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.initialCapacity = n
		}
	}
}

// WithPool makes the buffer draw gap buffer storage from p.
func WithPool(p *gapbuffer.Pool[rune]) Option {
	return func(b *Buffer) { b.pool = p }
}

// WithID overrides the generated buffer ID.
func WithID(id ID) Option {
	return func(b *Buffer) { b.id = id }
}
