package history

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/gapstorm/internal/engine/buffer"
)

// Command is an edit that can be executed and undone.
type Command interface {
	Execute(buf *buffer.Buffer) error
	Undo(buf *buffer.Buffer) error
	Description() string
}

// recorded holds the Operation captured on first execution. Later
// executions are redos and replay it at the recorded offsets.
type recorded struct {
	op *Operation
}

func (r *recorded) apply(buf *buffer.Buffer, verb string) error {
	if err := r.op.Apply(buf); err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	return nil
}

// Undo reverts the recorded edit. A command that never ran is a no-op.
func (r *recorded) Undo(buf *buffer.Buffer) error {
	if r.op == nil {
		return nil
	}
	if err := r.op.Revert(buf); err != nil {
		return fmt.Errorf("undo %s: %w", r.op.Kind(), err)
	}
	return nil
}

// Operation returns the recorded edit, or nil before the first Execute.
func (r *recorded) Operation() *Operation { return r.op }

// InsertCommand inserts text at the cursor.
type InsertCommand struct {
	recorded
	Text string
}

// NewInsertCommand inserts text at the cursor when executed.
func NewInsertCommand(text string) *InsertCommand {
	return &InsertCommand{Text: text}
}

// Execute inserts the text and leaves the cursor after it. Inserting
// nothing is a no-op.
func (c *InsertCommand) Execute(buf *buffer.Buffer) error {
	if c.Text == "" {
		return nil
	}
	if c.op == nil {
		at := buf.Cursor()
		c.op = record(buf, Range{Start: at, End: at}, c.Text)
	}
	return c.apply(buf, fmt.Sprintf("insert at %d", c.op.Range.Start))
}

// Description summarizes the inserted text.
func (c *InsertCommand) Description() string {
	switch n := utf8.RuneCountInString(c.Text); {
	case c.Text == "\n":
		return "Insert newline"
	case c.Text == "\t":
		return "Insert tab"
	case n == 1:
		return fmt.Sprintf("Type '%s'", c.Text)
	case n <= 20:
		return fmt.Sprintf("Insert %q", c.Text)
	default:
		return fmt.Sprintf("Insert %d characters", n)
	}
}

// DeleteDirection selects the side of the cursor a delete removes from.
type DeleteDirection int

const (
	DeleteBackward DeleteDirection = iota // Backspace
	DeleteForward                         // Delete
)

func (d DeleteDirection) String() string {
	if d == DeleteBackward {
		return "backward"
	}
	return "forward"
}

// DeleteCommand removes up to Count runes beside the cursor, clamped to
// the buffer. Finding nothing to delete is not an error.
type DeleteCommand struct {
	recorded
	Direction DeleteDirection
	Count     int
}

// NewDeleteCommand deletes one rune in direction.
func NewDeleteCommand(direction DeleteDirection) *DeleteCommand {
	return NewDeleteCommandN(direction, 1)
}

// NewDeleteCommandN deletes up to count runes in direction. A count of
// zero or less deletes nothing.
func NewDeleteCommandN(direction DeleteDirection, count int) *DeleteCommand {
	return &DeleteCommand{Direction: direction, Count: max(count, 0)}
}

// Execute deletes beside the cursor on the first run and replays the
// recorded range after that.
func (c *DeleteCommand) Execute(buf *buffer.Buffer) error {
	if c.op == nil {
		at, n := buf.Cursor(), Offset(c.Count)
		r := Range{Start: at, End: min(at+n, buf.Len())}
		if c.Direction == DeleteBackward {
			r = Range{Start: max(at-n, 0), End: at}
		}
		if r.IsEmpty() {
			return nil
		}
		c.op = record(buf, r, "")
	}
	return c.apply(buf, "delete "+c.op.Range.String())
}

// IsNoop reports whether the command found nothing to delete.
func (c *DeleteCommand) IsNoop() bool {
	return c.op == nil
}

// Description names the direction and count.
func (c *DeleteCommand) Description() string {
	if c.Count == 1 {
		return "Delete " + c.Direction.String()
	}
	return fmt.Sprintf("Delete %d characters %s", c.Count, c.Direction)
}

// ReplaceCommand replaces a fixed range and leaves the cursor after the
// new text.
type ReplaceCommand struct {
	recorded
	Range   Range
	NewText string
}

// NewReplaceCommand replaces r with newText when executed.
func NewReplaceCommand(r Range, newText string) *ReplaceCommand {
	return &ReplaceCommand{Range: r, NewText: newText}
}

// Execute replaces the range. A range outside the buffer fails with
// ErrRangeInvalid.
func (c *ReplaceCommand) Execute(buf *buffer.Buffer) error {
	if c.op == nil {
		if !c.Range.IsValid() || c.Range.End > buf.Len() {
			return fmt.Errorf("replace %s: %w", c.Range, buffer.ErrRangeInvalid)
		}
		c.op = record(buf, c.Range, c.NewText)
	}
	return c.apply(buf, "replace "+c.Range.String())
}

// Description shows the replaced range.
func (c *ReplaceCommand) Description() string {
	if c.NewText == "" {
		return "Delete " + c.Range.String()
	}
	return "Replace " + c.Range.String()
}

// CompoundCommand runs several commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand groups commands under name.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{Name: name, Commands: commands}
}

// Execute runs the commands in order. On failure the ones that already
// ran are undone.
func (c *CompoundCommand) Execute(buf *buffer.Buffer) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(buf); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(buf)
			}
			return fmt.Errorf("%s: %w", c.Description(), err)
		}
	}
	return nil
}

// Undo undoes the commands newest first.
func (c *CompoundCommand) Undo(buf *buffer.Buffer) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(buf); err != nil {
			return fmt.Errorf("undo %s: %w", c.Description(), err)
		}
	}
	return nil
}

// Description returns the group name, or a count when unnamed.
func (c *CompoundCommand) Description() string {
	if c.Name == "" {
		return fmt.Sprintf("%d edits", len(c.Commands))
	}
	return c.Name
}

// Add appends cmd without executing it.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty reports whether the group holds no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
