// Package history provides undo/redo for the text engine.
//
// Edits are Commands with Execute and Undo. Each built-in command records an
// Operation the first time it runs: the range it touched, the text before and
// after, and the cursor (gap position) on either side. Undo reverts the
// recorded operation and Redo replays it, so both restore the cursor exactly.
//
//	h := history.NewHistory(1000)
//	h.Execute(history.NewInsertCommand("hi"), buf)
//	h.Undo(buf)
//	h.Redo(buf)
//
// Commands pushed between BeginGroup and EndGroup collapse into a single
// CompoundCommand, which undoes as one unit.
package history
