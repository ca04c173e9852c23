package history

import (
	"errors"
	"testing"

	"github.com/dshills/gapstorm/internal/engine/buffer"
)

// Helper to create a test buffer with the cursor at cursorPos
func newTestBuffer(t *testing.T, text string, cursorPos Offset) *buffer.Buffer {
	t.Helper()
	buf := buffer.NewBufferFromString(text)
	if err := buf.SetCursor(cursorPos); err != nil {
		t.Fatalf("SetCursor(%d): %v", cursorPos, err)
	}
	return buf
}

func TestOperationRecord(t *testing.T) {
	buf := newTestBuffer(t, "hello world", 2)
	op := record(buf, Range{Start: 6, End: 11}, "gophér")

	if op.OldText != "world" || op.CursorBefore != 2 || op.CursorAfter != 12 {
		t.Errorf("record = %+v", op)
	}
	if op.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if got := op.Delta(); got != 1 {
		t.Errorf("Delta() = %d, want 1", got)
	}
	if got := op.Inserted(); got != (Range{Start: 6, End: 12}) {
		t.Errorf("Inserted() = %v", got)
	}
}

func TestOperationKind(t *testing.T) {
	tests := []struct {
		r    Range
		text string
		want string
	}{
		{Range{Start: 1, End: 1}, "x", "insert"},
		{Range{Start: 1, End: 3}, "", "delete"},
		{Range{Start: 1, End: 3}, "x", "replace"},
		{Range{Start: 1, End: 1}, "", "noop"},
	}
	for _, tt := range tests {
		op := &Operation{Range: tt.r, NewText: tt.text}
		if got := op.Kind(); got != tt.want {
			t.Errorf("Kind(%v, %q) = %q, want %q", tt.r, tt.text, got, tt.want)
		}
	}
}

func TestOperationApplyRevert(t *testing.T) {
	buf := newTestBuffer(t, "hello world", 0)
	op := record(buf, Range{Start: 0, End: 5}, "hi")

	if err := op.Apply(buf); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if buf.Text() != "hi world" || buf.Cursor() != 2 {
		t.Fatalf("after apply: %q cursor %d", buf.Text(), buf.Cursor())
	}
	if err := op.Revert(buf); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if buf.Text() != "hello world" || buf.Cursor() != 0 {
		t.Errorf("after revert: %q cursor %d", buf.Text(), buf.Cursor())
	}
}

func TestOperationApplyNormalizesLineEndings(t *testing.T) {
	buf := buffer.NewBufferFromString("ab", buffer.WithLineEnding(buffer.LineEndingCRLF))
	if err := buf.SetCursor(1); err != nil {
		t.Fatal(err)
	}
	op := record(buf, Range{Start: 1, End: 1}, "\n")

	if err := op.Apply(buf); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if buf.Text() != "a\r\nb" {
		t.Fatalf("got %q", buf.Text())
	}
	if op.NewText != "\r\n" || op.CursorAfter != 3 {
		t.Errorf("operation should record stored text, got %q cursor %d", op.NewText, op.CursorAfter)
	}

	if err := op.Revert(buf); err != nil {
		t.Fatalf("Revert failed: %v", err)
	}
	if buf.Text() != "ab" || buf.Cursor() != 1 {
		t.Errorf("after revert: %q cursor %d", buf.Text(), buf.Cursor())
	}
}

// Command Tests

func TestInsertCommand(t *testing.T) {
	buf := newTestBuffer(t, "hello", 5)
	cmd := NewInsertCommand(" world")

	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if buf.Text() != "hello world" || buf.Cursor() != 11 {
		t.Errorf("after execute: %q cursor %d", buf.Text(), buf.Cursor())
	}

	if err := cmd.Undo(buf); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if buf.Text() != "hello" || buf.Cursor() != 5 {
		t.Errorf("after undo: %q cursor %d", buf.Text(), buf.Cursor())
	}
}

func TestInsertCommandRedoUsesRecordedOffset(t *testing.T) {
	buf := newTestBuffer(t, "abc", 1)
	cmd := NewInsertCommand("X")
	cmd.Execute(buf)
	cmd.Undo(buf)

	buf.SetCursor(3)
	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if buf.Text() != "aXbc" {
		t.Errorf("redo should insert at the original offset, got %q", buf.Text())
	}
}

func TestInsertCommandDescription(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"a", "Type 'a'"},
		{"é", "Type 'é'"},
		{"\n", "Insert newline"},
		{"\t", "Insert tab"},
		{"hello", `Insert "hello"`},
		{"this text is longer than twenty", "Insert 31 characters"},
	}
	for _, tt := range tests {
		if got := NewInsertCommand(tt.text).Description(); got != tt.want {
			t.Errorf("Description(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDeleteCommand(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     Offset
		dir        DeleteDirection
		count      int
		want       string
		wantCursor Offset
	}{
		{"backspace", "hello", 5, DeleteBackward, 1, "hell", 4},
		{"forward", "hello", 0, DeleteForward, 1, "ello", 0},
		{"backspace n", "hello", 5, DeleteBackward, 3, "he", 2},
		{"forward clamped", "hello", 3, DeleteForward, 10, "hel", 3},
		{"backspace at start", "hello", 0, DeleteBackward, 1, "hello", 0},
		{"forward at end", "hello", 5, DeleteForward, 1, "hello", 5},
		{"multibyte", "日本語", 2, DeleteBackward, 1, "日語", 1},
		{"forward zero", "hello", 2, DeleteForward, 0, "hello", 2},
		{"backspace negative", "hello", 2, DeleteBackward, -3, "hello", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := newTestBuffer(t, tt.text, tt.cursor)
			cmd := NewDeleteCommandN(tt.dir, tt.count)
			if err := cmd.Execute(buf); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if buf.Text() != tt.want || buf.Cursor() != tt.wantCursor {
				t.Errorf("got %q cursor %d, want %q cursor %d", buf.Text(), buf.Cursor(), tt.want, tt.wantCursor)
			}
			if err := cmd.Undo(buf); err != nil {
				t.Fatalf("Undo failed: %v", err)
			}
			if buf.Text() != tt.text || buf.Cursor() != tt.cursor {
				t.Errorf("after undo got %q cursor %d", buf.Text(), buf.Cursor())
			}
		})
	}
}

func TestReplaceCommand(t *testing.T) {
	buf := newTestBuffer(t, "hello world", 0)
	cmd := NewReplaceCommand(Range{Start: 6, End: 11}, "there")

	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if buf.Text() != "hello there" {
		t.Errorf("got %q", buf.Text())
	}
	if err := cmd.Undo(buf); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if buf.Text() != "hello world" || buf.Cursor() != 0 {
		t.Errorf("after undo: %q cursor %d", buf.Text(), buf.Cursor())
	}

	bad := NewReplaceCommand(Range{Start: 6, End: 50}, "x")
	if err := bad.Execute(buf); !errors.Is(err, buffer.ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestCompoundCommand(t *testing.T) {
	buf := newTestBuffer(t, "hello", 5)
	cmd := NewCompoundCommand("greet",
		NewInsertCommand(" "),
		NewInsertCommand("world"),
	)

	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if buf.Text() != "hello world" {
		t.Errorf("got %q", buf.Text())
	}
	if err := cmd.Undo(buf); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if buf.Text() != "hello" {
		t.Errorf("after undo: got %q", buf.Text())
	}
	if cmd.Description() != "greet" {
		t.Errorf("description = %q", cmd.Description())
	}
}

func TestCompoundCommandRollsBackOnError(t *testing.T) {
	buf := newTestBuffer(t, "abc", 3)
	cmd := NewCompoundCommand("",
		NewInsertCommand("d"),
		NewReplaceCommand(Range{Start: 0, End: 99}, "x"),
	)
	if err := cmd.Execute(buf); err == nil {
		t.Fatal("expected error")
	}
	if buf.Text() != "abc" {
		t.Errorf("partial compound should be rolled back, got %q", buf.Text())
	}
}

// History Tests

func TestHistoryUndoRedo(t *testing.T) {
	buf := newTestBuffer(t, "hello", 5)
	history := NewHistory(100)

	if err := history.Execute(NewInsertCommand(" world"), buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := history.Undo(buf); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if buf.Text() != "hello" {
		t.Errorf("after undo: got %q", buf.Text())
	}
	if err := history.Redo(buf); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if buf.Text() != "hello world" {
		t.Errorf("after redo: got %q", buf.Text())
	}
}

func TestHistoryRedoClearedOnPush(t *testing.T) {
	buf := newTestBuffer(t, "hello", 5)
	history := NewHistory(100)

	history.Execute(NewInsertCommand(" world"), buf)
	history.Undo(buf)
	if !history.CanRedo() {
		t.Error("should be able to redo")
	}

	history.Execute(NewInsertCommand("!"), buf)
	if history.CanRedo() {
		t.Error("redo should be cleared after new command")
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	buf := newTestBuffer(t, "", 0)
	history := NewHistory(3)

	for range 5 {
		history.Execute(NewInsertCommand("x"), buf)
	}
	if history.UndoCount() != 3 {
		t.Errorf("undo count = %d, want 3", history.UndoCount())
	}

	history.SetMaxEntries(1)
	if history.UndoCount() != 1 || history.MaxEntries() != 1 {
		t.Errorf("after SetMaxEntries: count %d max %d", history.UndoCount(), history.MaxEntries())
	}
}

func TestHistoryErrors(t *testing.T) {
	history := NewHistory(100)
	buf := newTestBuffer(t, "hello", 0)

	if err := history.Undo(buf); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if err := history.Redo(buf); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestHistoryFailedExecuteNotRecorded(t *testing.T) {
	history := NewHistory(100)
	buf := newTestBuffer(t, "hello", 0)

	if err := history.Execute(NewReplaceCommand(Range{Start: 2, End: 1}, "x"), buf); err == nil {
		t.Fatal("expected error")
	}
	if history.CanUndo() {
		t.Error("failed command should not be recorded")
	}
}

func TestHistoryGrouping(t *testing.T) {
	buf := newTestBuffer(t, "hello", 5)
	history := NewHistory(100)

	history.BeginGroup("test group")
	history.Execute(NewInsertCommand(" "), buf)
	history.Execute(NewInsertCommand("world"), buf)
	history.EndGroup()

	if buf.Text() != "hello world" {
		t.Errorf("got %q", buf.Text())
	}

	history.Undo(buf)
	if buf.Text() != "hello" || buf.Cursor() != 5 {
		t.Errorf("after undo: %q cursor %d", buf.Text(), buf.Cursor())
	}
	if history.CanUndo() {
		t.Error("should have only one undo entry for group")
	}

	history.Redo(buf)
	if buf.Text() != "hello world" || buf.Cursor() != 11 {
		t.Errorf("after redo: %q cursor %d", buf.Text(), buf.Cursor())
	}
}

func TestHistoryCancelGroupReverts(t *testing.T) {
	buf := newTestBuffer(t, "hello", 5)
	history := NewHistory(100)
	history.Execute(NewInsertCommand("!"), buf)

	history.BeginGroup("abandoned")
	history.Execute(NewInsertCommand(" big"), buf)
	history.Execute(NewDeleteCommandN(DeleteBackward, 2), buf)
	history.Execute(NewInsertCommand(" world"), buf)
	if buf.Text() != "hello! b world" {
		t.Fatalf("inside group: %q", buf.Text())
	}

	if err := history.CancelGroup(buf); err != nil {
		t.Fatalf("CancelGroup: %v", err)
	}
	if buf.Text() != "hello!" || buf.Cursor() != 6 {
		t.Errorf("after cancel: %q cursor %d", buf.Text(), buf.Cursor())
	}
	if history.UndoCount() != 1 || history.IsGrouping() {
		t.Errorf("undo count %d grouping %v", history.UndoCount(), history.IsGrouping())
	}
}

func TestHistoryEmptyGroup(t *testing.T) {
	history := NewHistory(100)
	history.BeginGroup("nothing")
	history.BeginGroup("nested")
	history.EndGroup()
	if history.CanUndo() || history.IsGrouping() {
		t.Error("empty group should record nothing and close")
	}
}

func TestHistoryTransaction(t *testing.T) {
	buf := newTestBuffer(t, "hello", 5)
	history := NewHistory(100)

	boom := errors.New("boom")
	err := history.Transaction("fail", buf, func() error {
		history.Execute(NewInsertCommand("!"), buf)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if history.CanUndo() || buf.Text() != "hello" {
		t.Errorf("failed transaction left %q, undo %v", buf.Text(), history.CanUndo())
	}

	err = history.Transaction("ok", buf, func() error {
		history.Execute(NewInsertCommand(" "), buf)
		return history.Execute(NewInsertCommand("world"), buf)
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if history.UndoCount() != 1 {
		t.Errorf("undo count = %d, want 1", history.UndoCount())
	}
	history.Undo(buf)
	if buf.Text() != "hello" {
		t.Errorf("after undo: %q", buf.Text())
	}
}

func TestHistoryInfo(t *testing.T) {
	buf := newTestBuffer(t, "hello", 5)
	history := NewHistory(100)

	if _, ok := history.PeekUndo(); ok {
		t.Error("PeekUndo should return false when empty")
	}

	history.Execute(NewInsertCommand(" world"), buf)

	info := history.UndoInfo()
	if len(info) != 1 || info[0].Description != `Insert " world"` {
		t.Fatalf("UndoInfo() = %+v", info)
	}
	if info[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	history.Undo(buf)
	if peek, ok := history.PeekRedo(); !ok || peek.Description != `Insert " world"` {
		t.Errorf("PeekRedo() = %+v, %v", peek, ok)
	}
	if _, ok := history.PeekUndo(); ok {
		t.Error("PeekUndo after undoing everything should be false")
	}
	if len(history.RedoInfo()) != 1 || len(history.UndoInfo()) != 0 {
		t.Error("the undone step should move to RedoInfo")
	}
}

func TestHistoryUndoToRedoTo(t *testing.T) {
	buf := newTestBuffer(t, "hello", 5)
	history := NewHistory(100)

	depth := history.UndoCount()
	history.Execute(NewInsertCommand(" "), buf)
	history.Execute(NewInsertCommand("world"), buf)
	history.Execute(NewInsertCommand("!"), buf)

	if err := history.UndoTo(depth, buf); err != nil {
		t.Fatalf("UndoTo: %v", err)
	}
	if buf.Text() != "hello" || history.RedoCount() != 3 {
		t.Errorf("after UndoTo: %q redo %d", buf.Text(), history.RedoCount())
	}

	if err := history.RedoTo(2, buf); err != nil {
		t.Fatalf("RedoTo: %v", err)
	}
	if buf.Text() != "hello world" {
		t.Errorf("after RedoTo(2): %q", buf.Text())
	}
	if err := history.RedoTo(10, buf); err != nil {
		t.Fatalf("RedoTo: %v", err)
	}
	if buf.Text() != "hello world!" || history.CanRedo() {
		t.Errorf("after RedoTo(10): %q", buf.Text())
	}
}

// Alternating undo and redo moves one entry across the gap each time, and
// a new edit after undo drops exactly the redo side.
func TestHistoryGapLayout(t *testing.T) {
	buf := newTestBuffer(t, "", 0)
	history := NewHistory(100)
	for _, s := range []string{"a", "b", "c", "d"} {
		history.Execute(NewInsertCommand(s), buf)
	}

	history.Undo(buf)
	history.Undo(buf)
	if got := history.entries.Gap(); history.entries.Position() != 2 || got.Start != 2 {
		t.Errorf("gap = %v, position %d", got, history.entries.Position())
	}
	history.Redo(buf)
	if buf.Text() != "abc" || history.UndoCount() != 3 || history.RedoCount() != 1 {
		t.Errorf("after redo: %q undo %d redo %d", buf.Text(), history.UndoCount(), history.RedoCount())
	}

	history.Execute(NewInsertCommand("x"), buf)
	if history.entries.Len() != 4 || history.CanRedo() {
		t.Errorf("len %d, redo %v", history.entries.Len(), history.CanRedo())
	}
	if err := history.UndoTo(0, buf); err != nil {
		t.Fatal(err)
	}
	if buf.Text() != "" {
		t.Errorf("after undoing all: %q", buf.Text())
	}
}

func TestHistoryTrimKeepsRedo(t *testing.T) {
	buf := newTestBuffer(t, "", 0)
	history := NewHistory(4)
	for range 4 {
		history.Execute(NewInsertCommand("x"), buf)
	}
	history.Undo(buf)
	history.SetMaxEntries(2)

	if history.UndoCount() != 2 || history.RedoCount() != 1 {
		t.Errorf("undo %d redo %d, want 2 and 1", history.UndoCount(), history.RedoCount())
	}
	history.Redo(buf)
	if buf.Text() != "xxxx" {
		t.Errorf("after redo: %q", buf.Text())
	}
}

func TestHistoryTrimInBatches(t *testing.T) {
	buf := newTestBuffer(t, "", 0)
	history := NewHistory(16)
	for range 17 {
		history.Execute(NewInsertCommand("x"), buf)
	}
	if history.UndoCount() != 16 || history.entries.Len() != 17 {
		t.Fatalf("undo %d stored %d, want 16 undoable of 17 stored", history.UndoCount(), history.entries.Len())
	}
	if err := history.UndoTo(0, buf); err != nil {
		t.Fatal(err)
	}
	if err := history.Undo(buf); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("undo past the limit: %v", err)
	}
	if _, ok := history.PeekUndo(); ok {
		t.Error("PeekUndo should report nothing past the limit")
	}
	if buf.Text() != "x" {
		t.Errorf("after undoing all: %q", buf.Text())
	}

	history.Execute(NewInsertCommand("y"), buf)
	if history.UndoCount() != 1 || len(history.UndoInfo()) != 1 {
		t.Errorf("expired entries came back: undo %d", history.UndoCount())
	}

	for range 17 {
		history.Execute(NewInsertCommand("z"), buf)
	}
	if history.UndoCount() != 16 || history.entries.Len() > 16+16/8 {
		t.Errorf("undo %d stored %d after compaction", history.UndoCount(), history.entries.Len())
	}
}

func TestHistoryClear(t *testing.T) {
	buf := newTestBuffer(t, "", 0)
	history := NewHistory(10)
	history.Execute(NewInsertCommand("x"), buf)
	history.Execute(NewInsertCommand("y"), buf)
	history.Undo(buf)
	history.BeginGroup("open")

	history.Clear()
	if history.CanUndo() || history.CanRedo() || history.IsGrouping() {
		t.Error("Clear should drop everything")
	}
	history.Execute(NewInsertCommand("z"), buf)
	if history.UndoCount() != 1 {
		t.Errorf("undo count after reuse = %d", history.UndoCount())
	}
}
