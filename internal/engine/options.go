package engine

import (
	"github.com/dshills/gapstorm/internal/engine/buffer"
	"github.com/dshills/gapstorm/internal/engine/gapbuffer"
	"github.com/dshills/gapstorm/internal/engine/history"
)

// Defaults applied when an option is absent.
const (
	DefaultTabWidth       = 4
	DefaultMaxUndoEntries = history.DefaultMaxEntries
)

// settings collects option values before the buffer exists.
type settings struct {
	content         string
	tabWidth        int
	lineEnding      buffer.LineEnding
	maxUndo         int
	initialCapacity int
	pool            *gapbuffer.Pool[rune]
	readOnly        bool
}

func newSettings(opts []Option) settings {
	s := settings{
		tabWidth:   DefaultTabWidth,
		lineEnding: buffer.LineEndingLF,
		maxUndo:    DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s settings) bufferOptions() []buffer.Option {
	opts := []buffer.Option{
		buffer.WithTabWidth(s.tabWidth),
		buffer.WithLineEnding(s.lineEnding),
		buffer.WithInitialCapacity(s.initialCapacity),
	}
	if s.pool != nil {
		opts = append(opts, buffer.WithPool(s.pool))
	}
	return opts
}

// Option configures an Engine.
type Option func(*settings)

// WithContent sets the initial text. The cursor starts at 0.
func WithContent(content string) Option {
	return func(s *settings) { s.content = content }
}

// WithTabWidth sets the tab width. Non-positive widths are ignored.
func WithTabWidth(width int) Option {
	return func(s *settings) {
		if width > 0 {
			s.tabWidth = width
		}
	}
}

// WithLineEnding sets the line ending inserted text is normalized to.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(s *settings) { s.lineEnding = ending }
}

// WithMaxUndoEntries bounds the undo history.
func WithMaxUndoEntries(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxUndo = n
		}
	}
}

// WithInitialCapacity sets the rune capacity the gap buffer starts with.
func WithInitialCapacity(n int) Option {
	return func(s *settings) { s.initialCapacity = n }
}

// WithPool makes the buffer recycle storage through p.
func WithPool(p *gapbuffer.Pool[rune]) Option {
	return func(s *settings) { s.pool = p }
}

// WithReadOnly makes every edit fail with ErrReadOnly.
func WithReadOnly() Option {
	return func(s *settings) { s.readOnly = true }
}
