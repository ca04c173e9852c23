// Package engine provides the text engine behind gapstorm.
//
// Engine is a thread-safe facade over three subpackages:
//
//   - gapbuffer: generic gap buffer, the storage for all text
//   - buffer: rune-offset text buffer with line indexing and snapshots
//   - history: command-based undo/redo
//
// The buffer's gap doubles as the single cursor. Every edit leaves the gap
// at the end of the new text, so consecutive typing at one place never moves
// memory beyond the insert itself.
//
// # Basic Usage
//
//	e := engine.New()
//	e.Insert(0, "Hello, World!")
//	e.Replace(7, 12, "Go") // "Hello, Go!"
//	e.Undo()               // "Hello, World!"
//
// Cursor-relative editing:
//
//	e.MoveCursor(5)
//	e.InsertAtCursor(",")
//	e.DeleteBackward(1)
//
// Group several edits into one undo unit:
//
//	e.BeginGroup("format")
//	e.Replace(0, 5, "fn")
//	e.Insert(2, " main()")
//	e.EndGroup()
//	e.Undo() // undoes both
//
// # Configuration
//
//	e := engine.New(
//	    engine.WithContent("initial"),
//	    engine.WithTabWidth(4),
//	    engine.WithLineEnding(engine.LineEndingLF),
//	    engine.WithMaxUndoEntries(1000),
//	    engine.WithInitialCapacity(4096),
//	)
//
// A read-only engine (WithReadOnly) rejects edits, undo and redo with
// ErrReadOnly but still allows cursor movement.
//
// # Errors
//
//   - ErrOffsetOutOfRange: invalid rune offset
//   - ErrRangeInvalid: invalid range (e.g., end < start)
//   - ErrEditsOverlap: batch edits overlap or are not in reverse order
//   - ErrNothingToUndo, ErrNothingToRedo: empty history stack
//   - ErrReadOnly: write operation on a read-only engine
package engine
