package history

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dshills/gapstorm/internal/engine/buffer"
)

type (
	Offset = buffer.Offset
	Range  = buffer.Range
)

// Operation is the record of one applied edit: Range held OldText before,
// and holds NewText after. The cursor positions are gap positions.
type Operation struct {
	Range        Range
	OldText      string
	NewText      string
	CursorBefore Offset
	CursorAfter  Offset
	Timestamp    time.Time
}

// record captures what replacing r with text would change in buf.
func record(buf *buffer.Buffer, r Range, text string) *Operation {
	return &Operation{
		Range:        r,
		OldText:      buf.TextRange(r.Start, r.End),
		NewText:      text,
		CursorBefore: buf.Cursor(),
		CursorAfter:  r.Start + runeLen(text),
		Timestamp:    time.Now(),
	}
}

func runeLen(s string) Offset {
	return Offset(utf8.RuneCountInString(s))
}

// Kind names the shape of the edit: insert, delete, replace or noop.
func (op *Operation) Kind() string {
	switch {
	case op.Range.IsEmpty() && op.NewText == "":
		return "noop"
	case op.Range.IsEmpty():
		return "insert"
	case op.NewText == "":
		return "delete"
	default:
		return "replace"
	}
}

// Delta is the change in buffer length, in runes.
func (op *Operation) Delta() Offset {
	return runeLen(op.NewText) - op.Range.Len()
}

// Inserted is the range NewText occupies once applied.
func (op *Operation) Inserted() Range {
	return Range{Start: op.Range.Start, End: op.Range.Start + runeLen(op.NewText)}
}

// Apply performs the edit and leaves the cursor at CursorAfter.
// The buffer may normalize line endings in NewText; the stored form is
// written back so Revert removes exactly what went in.
func (op *Operation) Apply(buf *buffer.Buffer) error {
	end, err := buf.Replace(op.Range.Start, op.Range.End, op.NewText)
	if err != nil {
		return fmt.Errorf("apply %s: %w", op.Range, err)
	}
	if end != op.Inserted().End {
		op.NewText = buf.TextRange(op.Range.Start, end)
		op.CursorAfter = end
	}
	return moveCursor(buf, op.CursorAfter)
}

// Revert restores OldText and leaves the cursor at CursorBefore.
func (op *Operation) Revert(buf *buffer.Buffer) error {
	r := op.Inserted()
	if _, err := buf.Replace(r.Start, r.End, op.OldText); err != nil {
		return fmt.Errorf("revert %s: %w", r, err)
	}
	return moveCursor(buf, op.CursorBefore)
}

func moveCursor(buf *buffer.Buffer, at Offset) error {
	if err := buf.SetCursor(at); err != nil {
		return fmt.Errorf("restore cursor %d: %w", at, err)
	}
	return nil
}

// OperationInfo describes a history entry for display.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}
