// Package statusline draws the bottom status line: file name and flags,
// cursor position, and the gap buffer's length, capacity and gap.
package statusline

import (
	"fmt"
	"strings"

	"github.com/dshills/gapstorm/internal/renderer/backend"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageError
)

// State is what the status line shows. Line and Column are 0-indexed and
// displayed 1-indexed.
type State struct {
	Name      string
	Modified  bool
	ReadOnly  bool
	Recording bool

	Line, Column uint32
	Offset       int64

	Len, Capacity    int
	GapStart, GapLen int
	ShowGap          bool
}

// StatusLine renders State plus a transient message.
type StatusLine struct {
	state       State
	message     string
	messageType MessageType
}

// New creates an empty status line.
func New() *StatusLine {
	return &StatusLine{}
}

// SetState replaces the displayed state.
func (s *StatusLine) SetState(st State) {
	s.state = st
}

// SetMessage shows msg until the next ClearMessage.
func (s *StatusLine) SetMessage(msg string, typ MessageType) {
	s.message = msg
	s.messageType = typ
}

// ClearMessage removes the message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Left returns the left-aligned part: name, flags, cursor and message.
func (s *StatusLine) Left() string {
	st := s.state
	name := st.Name
	if name == "" {
		name = "[scratch]"
	}

	var sb strings.Builder
	sb.WriteByte(' ')
	sb.WriteString(name)
	if st.Modified {
		sb.WriteString(" [+]")
	}
	if st.ReadOnly {
		sb.WriteString(" [RO]")
	}
	if st.Recording {
		sb.WriteString(" [REC]")
	}
	fmt.Fprintf(&sb, "  %d:%d", st.Line+1, st.Column+1)
	return sb.String()
}

// Right returns the right-aligned gap buffer summary.
func (s *StatusLine) Right() string {
	st := s.state
	if !st.ShowGap {
		return fmt.Sprintf("pos %d  len %d ", st.Offset, st.Len)
	}
	return fmt.Sprintf("pos %d  len %d  cap %d  gap [%d+%d] ",
		st.Offset, st.Len, st.Capacity, st.GapStart, st.GapLen)
}

// Render draws the status line on row y, width cells wide. The right part
// is dropped when it does not fit.
func (s *StatusLine) Render(b backend.Backend, y, width int) {
	for x := range width {
		b.SetCell(x, y, ' ', backend.StyleStatus)
	}

	x := backend.DrawString(b, 0, y, width, s.Left(), backend.StyleStatus)
	if s.message != "" {
		style := backend.StyleMessage
		if s.messageType == MessageError {
			style = backend.StyleError
		}
		x = backend.DrawString(b, x, y, width, "  ", backend.StyleStatus)
		x = backend.DrawString(b, x, y, width, s.message, style)
	}

	right := s.Right()
	if start := width - len([]rune(right)); start > x+1 {
		backend.DrawString(b, start, y, width, right, backend.StyleStatus)
	}
}
