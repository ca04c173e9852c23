package engine

import (
	"fmt"
	"io"
	"sync"

	"github.com/dshills/gapstorm/internal/engine/buffer"
	"github.com/dshills/gapstorm/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// Offset is a rune position in the buffer.
	Offset = buffer.Offset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a rune range in the buffer.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// EditResult contains information about a completed edit.
	EditResult = buffer.EditResult

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// RevisionID uniquely identifies a buffer revision.
	RevisionID = buffer.RevisionID

	// Command is an undoable edit command.
	Command = history.Command

	// OperationInfo describes an entry on the undo or redo stack.
	OperationInfo = history.OperationInfo
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// Stats reports the gap buffer layout together with history depth.
type Stats struct {
	buffer.Stats
	Revision  RevisionID
	UndoCount int
	RedoCount int
}

// Engine is the main facade for the text engine.
// It combines the gap-buffer-backed text buffer, its cursor, and undo/redo
// into one thread-safe API. The cursor is the gap position of the buffer:
// every edit leaves it at the end of the inserted text.
type Engine struct {
	mu sync.RWMutex

	buf      *buffer.Buffer
	history  *history.History
	readOnly bool
}

func newEngine(s settings, buf *buffer.Buffer) *Engine {
	return &Engine{
		buf:      buf,
		history:  history.NewHistory(s.maxUndo),
		readOnly: s.readOnly,
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	s := newSettings(opts)
	return newEngine(s, buffer.NewBufferFromString(s.content, s.bufferOptions()...))
}

// NewFromReader creates an engine holding everything r yields.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	s := newSettings(opts)
	buf, err := buffer.NewBufferFromReader(r, s.bufferOptions()...)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return newEngine(s, buf), nil
}

// Read Operations

func view[T any](e *Engine, fn func(*buffer.Buffer) T) T {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.buf)
}

// write runs fn under the write lock unless the engine is read-only.
func (e *Engine) write(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	return fn()
}

// Text returns the full buffer content.
func (e *Engine) Text() string {
	return view(e, (*buffer.Buffer).Text)
}

// TextRange returns text in the given range.
func (e *Engine) TextRange(start, end Offset) string {
	return view(e, func(b *buffer.Buffer) string { return b.TextRange(start, end) })
}

// Len returns the number of runes in the buffer.
func (e *Engine) Len() Offset {
	return view(e, (*buffer.Buffer).Len)
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() uint32 {
	return view(e, (*buffer.Buffer).LineCount)
}

// LineText returns the text of a line without its line ending.
func (e *Engine) LineText(line uint32) string {
	return view(e, func(b *buffer.Buffer) string { return b.LineText(line) })
}

// LineLen returns the length of a line in runes.
func (e *Engine) LineLen(line uint32) int {
	return view(e, func(b *buffer.Buffer) int { return b.LineLen(line) })
}

// RuneAt returns the rune at offset.
func (e *Engine) RuneAt(offset Offset) (rune, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RuneAt(offset)
}

// IsEmpty returns true if the buffer has no content.
func (e *Engine) IsEmpty() bool {
	return view(e, (*buffer.Buffer).IsEmpty)
}

// OffsetToPoint converts a rune offset to a line/column point.
func (e *Engine) OffsetToPoint(offset Offset) Point {
	return view(e, func(b *buffer.Buffer) Point { return b.OffsetToPoint(offset) })
}

// PointToOffset converts a line/column point to a rune offset.
func (e *Engine) PointToOffset(point Point) Offset {
	return view(e, func(b *buffer.Buffer) Offset { return b.PointToOffset(point) })
}

// LineStartOffset returns the offset of the first rune of line.
func (e *Engine) LineStartOffset(line uint32) Offset {
	return view(e, func(b *buffer.Buffer) Offset { return b.LineStartOffset(line) })
}

// LineEndOffset returns the offset just before line's line ending.
func (e *Engine) LineEndOffset(line uint32) Offset {
	return view(e, func(b *buffer.Buffer) Offset { return b.LineEndOffset(line) })
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text, where the cursor is left.
func (e *Engine) Insert(offset Offset, text string) (Offset, error) {
	return e.Replace(offset, offset, text)
}

// Delete removes text in the given range.
func (e *Engine) Delete(start, end Offset) error {
	_, err := e.Replace(start, end, "")
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (e *Engine) Replace(start, end Offset, text string) (Offset, error) {
	var cursor Offset
	err := e.write(func() error {
		// An empty range is an insertion point and must lie inside the buffer.
		if start == end && (start < 0 || start > e.buf.Len()) {
			return ErrOffsetOutOfRange
		}
		if err := e.history.Execute(history.NewReplaceCommand(Range{Start: start, End: end}, text), e.buf); err != nil {
			return err
		}
		cursor = e.buf.Cursor()
		return nil
	})
	return cursor, err
}

// ApplyEdit applies a single edit and reports what it replaced.
func (e *Engine) ApplyEdit(edit Edit) (EditResult, error) {
	var res EditResult
	err := e.write(func() error {
		old := e.buf.TextRange(edit.Range.Start, edit.Range.End)
		if err := e.history.Execute(history.NewReplaceCommand(edit.Range, edit.NewText), e.buf); err != nil {
			return err
		}
		end := e.buf.Cursor()
		res = EditResult{
			OldRange: edit.Range,
			NewRange: Range{Start: edit.Range.Start, End: end},
			OldText:  old,
			Delta:    int64(end-edit.Range.Start) - int64(edit.Range.Len()),
		}
		return nil
	})
	return res, err
}

// ApplyEdits applies multiple edits as one undo unit.
// Edits must be in reverse order (highest offset first) and must not overlap.
func (e *Engine) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}
	cmds := make([]Command, len(edits))
	for i, edit := range edits {
		if i > 0 && edit.Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
		cmds[i] = history.NewReplaceCommand(edit.Range, edit.NewText)
	}
	return e.write(func() error {
		return e.history.Execute(history.NewCompoundCommand("multi-edit", cmds...), e.buf)
	})
}

// InsertAtCursor inserts text at the cursor and advances past it.
func (e *Engine) InsertAtCursor(text string) error {
	return e.write(func() error {
		return e.history.Execute(history.NewInsertCommand(text), e.buf)
	})
}

// DeleteBackward removes up to n runes before the cursor.
func (e *Engine) DeleteBackward(n int) error {
	return e.deleteAtCursor(history.DeleteBackward, n)
}

// DeleteForward removes up to n runes after the cursor.
func (e *Engine) DeleteForward(n int) error {
	return e.deleteAtCursor(history.DeleteForward, n)
}

// Deleting at either end of the buffer changes nothing and is not recorded.
func (e *Engine) deleteAtCursor(dir history.DeleteDirection, n int) error {
	return e.write(func() error {
		cmd := history.NewDeleteCommandN(dir, n)
		if err := cmd.Execute(e.buf); err != nil || cmd.IsNoop() {
			return err
		}
		e.history.Push(cmd)
		return nil
	})
}

// Undo/Redo Operations

// Undo undoes the last operation.
func (e *Engine) Undo() error {
	return e.write(func() error {
		return e.history.Undo(e.buf)
	})
}

// Redo redoes the last undone operation.
func (e *Engine) Redo() error {
	return e.write(func() error {
		return e.history.Redo(e.buf)
	})
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo operations.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of available redo operations.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// UndoInfo describes the undo stack, oldest first.
func (e *Engine) UndoInfo() []OperationInfo {
	return e.history.UndoInfo()
}

// BeginGroup starts a new undo group.
// All operations until EndGroup will be undone as a single unit.
func (e *Engine) BeginGroup(name string) {
	e.history.BeginGroup(name)
}

// EndGroup ends the current undo group.
func (e *Engine) EndGroup() {
	e.history.EndGroup()
}

// CancelGroup closes the current undo group and reverts its edits.
func (e *Engine) CancelGroup() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CancelGroup(e.buf)
}

// ClearHistory removes all undo/redo history.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}

// Execute runs a command and adds it to undo history.
func (e *Engine) Execute(cmd Command) error {
	return e.write(func() error {
		return e.history.Execute(cmd, e.buf)
	})
}

// Cursor Operations

// Cursor returns the cursor offset, which is also the gap position.
func (e *Engine) Cursor() Offset {
	return view(e, (*buffer.Buffer).Cursor)
}

// CursorPoint returns the cursor as a line/column point.
func (e *Engine) CursorPoint() Point {
	return view(e, func(b *buffer.Buffer) Point { return b.OffsetToPoint(b.Cursor()) })
}

// MoveCursor moves the cursor, and the gap, to offset.
// Cursor movement is allowed on read-only engines.
func (e *Engine) MoveCursor(offset Offset) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.SetCursor(offset)
}

// MoveCursorBy moves the cursor by delta runes, clamped to the buffer.
func (e *Engine) MoveCursorBy(delta Offset) Offset {
	e.mu.Lock()
	defer e.mu.Unlock()
	target := min(max(e.buf.Cursor()+delta, 0), e.buf.Len())
	_ = e.buf.SetCursor(target)
	return target
}

// MoveCursorToPoint moves the cursor to a line/column point, clamping both.
func (e *Engine) MoveCursorToPoint(p Point) Offset {
	e.mu.Lock()
	defer e.mu.Unlock()
	target := e.buf.PointToOffset(p)
	_ = e.buf.SetCursor(target)
	return target
}

// Buffer State

// RevisionID returns the current buffer revision.
func (e *Engine) RevisionID() RevisionID {
	return view(e, (*buffer.Buffer).RevisionID)
}

// Stats reports the gap buffer layout and history depth.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		Stats:     e.buf.Stats(),
		Revision:  e.buf.RevisionID(),
		UndoCount: e.history.UndoCount(),
		RedoCount: e.history.RedoCount(),
	}
}

// TabWidth returns the tab width setting.
func (e *Engine) TabWidth() int {
	return view(e, (*buffer.Buffer).TabWidth)
}

// SetTabWidth sets the tab width.
func (e *Engine) SetTabWidth(width int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.SetTabWidth(width)
}

// LineEnding returns the line ending style.
func (e *Engine) LineEnding() LineEnding {
	return view(e, (*buffer.Buffer).LineEnding)
}

// SetLineEnding sets the line ending style for future inserts.
func (e *Engine) SetLineEnding(ending LineEnding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.SetLineEnding(ending)
}

// IsReadOnly returns true if the engine is read-only.
func (e *Engine) IsReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// Snapshot returns a read-only snapshot of the current buffer state.
func (e *Engine) Snapshot() *buffer.Snapshot {
	return view(e, (*buffer.Buffer).Snapshot)
}

// Clear removes all content and history.
func (e *Engine) Clear() error {
	return e.SetContent("")
}

// SetContent replaces the buffer content and clears history.
// The cursor is left at the start of the text.
func (e *Engine) SetContent(content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if _, err := e.buf.Replace(0, e.buf.Len(), content); err != nil {
		return err
	}
	if err := e.buf.SetCursor(0); err != nil {
		return err
	}
	e.history.Clear()
	return nil
}

// WriteTo writes the buffer content to w.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.Text())
	return int64(n), err
}

// Close releases the buffer's storage. The engine is empty afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.Close()
	e.history.Clear()
}
