package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/gapstorm/internal/engine/buffer"
	"github.com/dshills/gapstorm/internal/engine/gapbuffer"
)

// DefaultMaxEntries bounds the undo stack when no limit is given.
const DefaultMaxEntries = 1000

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

type entry struct {
	command   Command
	timestamp time.Time
}

func (e *entry) info() OperationInfo {
	return OperationInfo{Description: e.command.Description(), Timestamp: e.timestamp}
}

// History manages undo/redo state for a buffer.
//
// Entries live in a gap buffer whose gap is the present: everything before
// the gap can be undone, everything after it redone. Undo and redo each move
// a single entry across the gap. The first expired entries are past the
// limit and no longer undoable; they are dropped from storage in batches.
type History struct {
	mu      sync.Mutex
	entries *gapbuffer.GapBuffer[*entry]
	max     int
	expired int

	grouping  bool
	groupName string
	group     []Command
}

// NewHistory creates a history keeping at most maxEntries undo steps.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		entries: gapbuffer.New[*entry](),
		max:     maxEntries,
	}
}

// Execute runs cmd and records it. A failed command is not recorded.
func (h *History) Execute(cmd Command, buf *buffer.Buffer) error {
	if err := cmd.Execute(buf); err != nil {
		return err
	}
	h.Push(cmd)
	return nil
}

// Push records a command that has already run and drops the redo entries.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.group = append(h.group, cmd)
		return
	}
	h.pushLocked(cmd)
}

func (h *History) pushLocked(cmd Command) {
	e := h.entries
	e.RemoveN(e.Len() - e.Position())
	e.Insert(&entry{command: cmd, timestamp: time.Now()})
	h.expireLocked()
	if h.expired > h.max/8 {
		h.compactLocked()
	}
}

// expireLocked retires the oldest undo steps beyond the limit.
func (h *History) expireLocked() {
	h.expired = max(h.expired, h.entries.Position()-h.max)
}

// compactLocked drops the expired entries from storage.
func (h *History) compactLocked() {
	if h.expired == 0 {
		return
	}
	e := h.entries
	pos := e.Position()
	e.SetPosition(0)
	e.RemoveN(h.expired)
	e.SetPosition(pos - h.expired)
	h.expired = 0
}

// Undo reverts the most recent entry.
func (h *History) Undo(buf *buffer.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	pos := h.entries.Position()
	if pos == h.expired {
		return ErrNothingToUndo
	}
	ent, _ := h.entries.Get(pos - 1)
	if err := ent.command.Undo(buf); err != nil {
		return err
	}
	h.entries.SetPosition(pos - 1)
	return nil
}

// Redo replays the most recently undone entry.
func (h *History) Redo(buf *buffer.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	pos := h.entries.Position()
	ent, ok := h.entries.Get(pos)
	if !ok {
		return ErrNothingToRedo
	}
	if err := ent.command.Execute(buf); err != nil {
		return err
	}
	h.entries.SetPosition(pos + 1)
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return h.UndoCount() > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return h.RedoCount() > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries.Position() - h.expired
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries.Len() - h.entries.Position()
}

// BeginGroup starts collecting commands into one undo step. Nested calls
// join the open group.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.group = nil
}

// EndGroup records the collected commands as a single CompoundCommand.
// An empty group records nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	cmds := h.group
	h.grouping, h.group = false, nil
	if len(cmds) > 0 {
		h.pushLocked(&CompoundCommand{Name: h.groupName, Commands: cmds})
	}
}

// CancelGroup closes the open group and reverts its commands, newest
// first, so the buffer matches the recorded history again.
func (h *History) CancelGroup(buf *buffer.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return nil
	}
	cmds := h.group
	h.grouping, h.group = false, nil
	for i := len(cmds) - 1; i >= 0; i-- {
		if err := cmds[i].Undo(buf); err != nil {
			return err
		}
	}
	return nil
}

// IsGrouping returns true while a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Transaction runs fn inside a group. If fn fails its edits are reverted.
func (h *History) Transaction(name string, buf *buffer.Buffer, fn func() error) error {
	h.BeginGroup(name)
	if err := fn(); err != nil {
		if cerr := h.CancelGroup(buf); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}
	h.EndGroup()
	return nil
}

// UndoTo undoes until depth undo steps remain.
func (h *History) UndoTo(depth int, buf *buffer.Buffer) error {
	for h.UndoCount() > depth {
		if err := h.Undo(buf); err != nil {
			return err
		}
	}
	return nil
}

// RedoTo redoes until depth undo steps exist or redo runs out.
func (h *History) RedoTo(depth int, buf *buffer.Buffer) error {
	for h.UndoCount() < depth && h.CanRedo() {
		if err := h.Redo(buf); err != nil {
			return err
		}
	}
	return nil
}

// Clear drops all entries and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries.Release()
	h.expired = 0
	h.grouping, h.group = false, nil
}

// UndoInfo describes the undo steps, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	pos := h.entries.Position()
	out := make([]OperationInfo, 0, pos-h.expired)
	for _, e := range h.entries.Range(h.expired, pos) {
		out = append(out, e.info())
	}
	return out
}

// RedoInfo describes the redo steps, next redo first.
func (h *History) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]OperationInfo, 0, h.entries.Len()-h.entries.Position())
	for _, e := range h.entries.Range(h.entries.Position(), h.entries.Len()) {
		out = append(out, e.info())
	}
	return out
}

// PeekUndo describes the step Undo would revert.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pos := h.entries.Position()
	if pos == h.expired {
		return OperationInfo{}, false
	}
	e, _ := h.entries.Get(pos - 1)
	return e.info(), true
}

// PeekRedo describes the step Redo would replay.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.entries.Get(h.entries.Position())
	if !ok {
		return OperationInfo{}, false
	}
	return e.info(), true
}

// SetMaxEntries changes the undo limit, dropping the oldest steps if needed.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.max = n
	h.expireLocked()
	h.compactLocked()
}

// MaxEntries returns the undo limit.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.max
}
