package buffer

import (
	"fmt"
	"unicode/utf8"
)

// Edit replaces Range with NewText. An empty range inserts; empty text
// deletes.
type Edit struct {
	Range   Range
	NewText string
}

// NewEdit returns an edit replacing r with newText.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert returns an edit inserting text at offset.
func NewInsert(offset Offset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete returns an edit removing [start, end).
func NewDelete(start, end Offset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

func (e Edit) String() string {
	switch {
	case e.Range.IsEmpty():
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	case e.NewText == "":
		return "Delete" + e.Range.String()
	default:
		return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
	}
}

// Delta returns the change in buffer length, in runes, the edit causes
// before line ending normalization.
func (e Edit) Delta() Offset {
	return Offset(utf8.RuneCountInString(e.NewText)) - e.Range.Len()
}

// EditResult describes an applied edit.
type EditResult struct {
	OldRange Range  // range that was replaced
	NewRange Range  // range now holding the new text
	OldText  string // text that was replaced
	Delta    int64  // change in length, in runes
}
