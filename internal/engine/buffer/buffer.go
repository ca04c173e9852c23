package buffer

import (
	"errors"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/dshills/gapstorm/internal/engine/gapbuffer"
)

// Stats describes the layout of the underlying gap buffer.
type Stats struct {
	Len      int
	Capacity int
	Gap      gapbuffer.Range // raw offsets
	Lines    uint32
}

// Buffer is a text buffer kept in a rune gap buffer.
// The gap follows the most recent edit, so typing at one place costs O(1)
// amortized. All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       gapbuffer.RuneBuffer
	lines      lineIndex
	id         ID
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int

	initialCapacity int
	pool            *gapbuffer.Pool[rune]
}

// NewBuffer creates an empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{id: NewID(), lineEnding: LineEndingLF, tabWidth: 4}
	for _, opt := range opts {
		opt(b)
	}

	var gopts []gapbuffer.Option[rune]
	if b.initialCapacity > 0 {
		gopts = append(gopts, gapbuffer.WithMinCapacity[rune](b.initialCapacity))
	}
	if b.pool != nil {
		gopts = append(gopts, gapbuffer.WithPool(b.pool))
	}
	b.text = gapbuffer.RuneBuffer{GapBuffer: *gapbuffer.New(gopts...)}
	b.reindex()
	return b
}

// NewBufferFromString creates a buffer holding s, cursor at 0.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.text.InsertString(b.lineEnding.Normalize(s))
	b.text.SetPosition(0)
	b.reindex()
	return b
}

// NewBufferFromReader creates a buffer holding everything r yields. The
// input is read whole so a CRLF split across reads still normalizes.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// reindex rebuilds the whole line index and starts a new revision.
// Callers hold the write lock.
func (b *Buffer) reindex() {
	b.lines = buildLineIndex(b.text.All(), b.text.Len())
	b.commit()
}

// commit starts a new revision. Edits keep the line index current
// themselves.
func (b *Buffer) commit() {
	b.revisionID = NewRevisionID()
}

func read[T any](b *Buffer, fn func() T) T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return fn()
}

// ID returns the identifier assigned at creation.
func (b *Buffer) ID() ID { return b.id }

// Text returns the whole content.
func (b *Buffer) Text() string {
	return read(b, b.text.String)
}

// TextRange returns the runes in [start, end), clamped to the buffer.
func (b *Buffer) TextRange(start, end Offset) string {
	return read(b, func() string { return b.text.TextRange(int(start), int(end)) })
}

// Len returns the length in runes.
func (b *Buffer) Len() Offset {
	return read(b, func() Offset { return Offset(b.text.Len()) })
}

// IsEmpty reports whether the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return read(b, b.text.IsEmpty)
}

// LineCount returns the number of lines, at least 1.
func (b *Buffer) LineCount() uint32 {
	return read(b, b.lines.count)
}

// LineText returns a line without its line break.
func (b *Buffer) LineText(line uint32) string {
	return read(b, func() string {
		return b.text.TextRange(int(b.lines.lineStart(line)), int(b.lines.lineEnd(line)))
	})
}

// LineLen is the rune length of a line without its line break.
func (b *Buffer) LineLen(line uint32) int {
	return read(b, func() int { return int(b.lines.lineEnd(line) - b.lines.lineStart(line)) })
}

// RuneAt returns the rune at offset, or utf8.RuneError and false outside
// the buffer.
func (b *Buffer) RuneAt(offset Offset) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if r, ok := b.text.Get(int(offset)); ok {
		return r, true
	}
	return utf8.RuneError, false
}

// Cursor is the insertion position, where the gap sits.
func (b *Buffer) Cursor() Offset {
	return read(b, func() Offset { return Offset(b.text.Position()) })
}

// Stats reports the gap buffer layout.
func (b *Buffer) Stats() Stats {
	return read(b, func() Stats {
		return Stats{Len: b.text.Len(), Capacity: b.text.Capacity(), Gap: b.text.Gap(), Lines: b.lines.count()}
	})
}

// OffsetToPoint converts a rune offset to line/column, clamping offset to
// the buffer.
func (b *Buffer) OffsetToPoint(offset Offset) Point {
	return read(b, func() Point {
		return offsetToPoint(&b.lines, min(max(offset, 0), Offset(b.text.Len())))
	})
}

// PointToOffset converts line/column to a rune offset. The line clamps to
// the last line and the column to the line end.
func (b *Buffer) PointToOffset(point Point) Offset {
	return read(b, func() Offset { return pointToOffset(&b.lines, point) })
}

// LineStartOffset is the offset of the first rune of line. The line
// clamps to the last line.
func (b *Buffer) LineStartOffset(line uint32) Offset {
	return read(b, func() Offset { return b.lines.lineStart(line) })
}

// LineEndOffset is the offset just before the line break of line.
func (b *Buffer) LineEndOffset(line uint32) Offset {
	return read(b, func() Offset { return b.lines.lineEnd(line) })
}

// RevisionID identifies the current content. Every edit changes it.
func (b *Buffer) RevisionID() RevisionID {
	return read(b, func() RevisionID { return b.revisionID })
}

// LineEnding returns the style inserts are normalized to.
func (b *Buffer) LineEnding() LineEnding {
	return read(b, func() LineEnding { return b.lineEnding })
}

// TabWidth returns the display width of a tab.
func (b *Buffer) TabWidth() int {
	return read(b, func() int { return b.tabWidth })
}

// SetCursor moves the insertion position, and with it the gap, to offset.
// The revision is unchanged.
func (b *Buffer) SetCursor(offset Offset) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.text.TrySetPosition(int(offset)) != nil {
		return ErrOffsetOutOfRange
	}
	return nil
}

// Insert inserts text at offset and returns the end of the inserted text,
// where the cursor is left.
func (b *Buffer) Insert(offset Offset, text string) (Offset, error) {
	if offset < 0 {
		return 0, ErrOffsetOutOfRange
	}
	end, err := b.Replace(offset, offset, text)
	if errors.Is(err, ErrRangeInvalid) {
		err = ErrOffsetOutOfRange
	}
	return end, err
}

// Delete removes [start, end) and leaves the cursor at start.
func (b *Buffer) Delete(start, end Offset) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Replace swaps [start, end) for text and returns the end of the new text.
func (b *Buffer) Replace(start, end Offset, text string) (Offset, error) {
	res, err := b.ApplyEdit(Edit{Range: Range{Start: start, End: end}, NewText: text})
	return res.NewRange.End, err
}

// ApplyEdit applies one edit and reports what it replaced.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validRange(edit.Range) {
		return EditResult{}, ErrRangeInvalid
	}
	old := b.text.TextRange(int(edit.Range.Start), int(edit.Range.End))
	end := b.splice(edit)
	b.commit()
	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: end},
		OldText:  old,
		Delta:    int64(end-edit.Range.Start) - int64(edit.Range.Len()),
	}, nil
}

// ApplyEdits applies edits as one revision. They must be ordered from the
// highest offset down and must not overlap; nothing is applied otherwise.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, edit := range edits {
		if i > 0 && edit.Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
		if !b.validRange(edit.Range) {
			return ErrRangeInvalid
		}
	}
	for _, edit := range edits {
		b.splice(edit)
	}
	b.commit()
	return nil
}

// splice moves the gap to the edit, widens it over the old text and fills
// it with the new, then re-indexes the touched lines. The range must
// already be validated.
func (b *Buffer) splice(edit Edit) Offset {
	b.text.SetPosition(int(edit.Range.Start))
	b.text.RemoveN(int(edit.Range.Len()))
	b.text.InsertString(b.lineEnding.Normalize(edit.NewText))
	end := Offset(b.text.Position())
	b.lines.update(&b.text, edit.Range.Start, edit.Range.End, end)
	return end
}

func (b *Buffer) validRange(r Range) bool {
	return r.Start >= 0 && r.IsValid() && r.End <= Offset(b.text.Len())
}

// Close releases the storage, to the pool when one is configured. The
// buffer is empty afterwards.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text.Release()
	b.reindex()
}

// SetLineEnding changes the style of future inserts. Existing text is not
// converted.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// SetTabWidth ignores non-positive widths.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width > 0 {
		b.tabWidth = width
	}
}

// Snapshot returns an immutable copy that other goroutines may read
// freely.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		runes:      b.text.Slice(),
		lines:      b.lines.clone(),
		cursor:     Offset(b.text.Position()),
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
		tabWidth:   b.tabWidth,
	}
}

func offsetToPoint(idx *lineIndex, offset Offset) Point {
	line := idx.lineOf(offset)
	return Point{Line: line, Column: uint32(offset - idx.lineStart(line))}
}

func pointToOffset(idx *lineIndex, point Point) Offset {
	line := idx.clampLine(point.Line)
	return min(idx.lineStart(line)+Offset(point.Column), idx.lineEnd(line))
}
