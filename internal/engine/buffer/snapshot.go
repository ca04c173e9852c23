package buffer

import (
	"iter"
	"unicode/utf8"
)

// Snapshot is an immutable copy of a buffer taken under its read lock.
// It owns its runes and line index, so any goroutine may read it while the
// buffer keeps changing.
type Snapshot struct {
	runes      []rune
	lines      lineIndex
	cursor     Offset
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// Text returns the whole content.
func (s *Snapshot) Text() string { return string(s.runes) }

// Len returns the length in runes.
func (s *Snapshot) Len() Offset { return Offset(len(s.runes)) }

// IsEmpty reports whether the snapshot holds no text.
func (s *Snapshot) IsEmpty() bool { return len(s.runes) == 0 }

// LineCount returns the number of lines, at least 1.
func (s *Snapshot) LineCount() uint32 { return s.lines.count() }

// Cursor is the buffer cursor when the snapshot was taken.
func (s *Snapshot) Cursor() Offset { return s.cursor }

// RevisionID is the revision the snapshot copies.
func (s *Snapshot) RevisionID() RevisionID { return s.revisionID }

// LineEnding returns the buffer line ending style.
func (s *Snapshot) LineEnding() LineEnding { return s.lineEnding }

// TabWidth returns the buffer tab width.
func (s *Snapshot) TabWidth() int { return s.tabWidth }

// TextRange returns the runes in [start, end), clamped.
func (s *Snapshot) TextRange(start, end Offset) string {
	start, end = s.clamp(start), s.clamp(end)
	if start >= end {
		return ""
	}
	return string(s.runes[start:end])
}

// LineText returns a line without its line break.
func (s *Snapshot) LineText(line uint32) string {
	return string(s.runes[s.lines.lineStart(line):s.lines.lineEnd(line)])
}

// LineLen is the rune length of a line without its line break.
func (s *Snapshot) LineLen(line uint32) int {
	return int(s.lines.lineEnd(line) - s.lines.lineStart(line))
}

// LineStartOffset is the offset of the first rune of line.
func (s *Snapshot) LineStartOffset(line uint32) Offset { return s.lines.lineStart(line) }

// LineEndOffset is the offset just before the line break of line.
func (s *Snapshot) LineEndOffset(line uint32) Offset { return s.lines.lineEnd(line) }

// RuneAt returns the rune at offset, or utf8.RuneError and false outside
// the snapshot.
func (s *Snapshot) RuneAt(offset Offset) (rune, bool) {
	if offset < 0 || offset >= s.Len() {
		return utf8.RuneError, false
	}
	return s.runes[offset], true
}

// OffsetToPoint converts a rune offset to line/column, clamping offset.
func (s *Snapshot) OffsetToPoint(offset Offset) Point {
	return offsetToPoint(&s.lines, s.clamp(offset))
}

// PointToOffset converts line/column to a rune offset, clamping both.
func (s *Snapshot) PointToOffset(point Point) Offset {
	return pointToOffset(&s.lines, point)
}

// Lines yields each line number with its text.
func (s *Snapshot) Lines() iter.Seq2[uint32, string] {
	return func(yield func(uint32, string) bool) {
		for line := range s.lines.count() {
			if !yield(line, s.LineText(line)) {
				return
			}
		}
	}
}

func (s *Snapshot) clamp(offset Offset) Offset {
	return min(max(offset, 0), s.Len())
}
