package script

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gapstorm/internal/engine"
)

// bufModule binds the buf table to an engine.
type bufModule struct {
	eng *engine.Engine
}

func (m *bufModule) register(L *lua.LState) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":         m.text,
		"len":          m.bufLen,
		"line_count":   m.lineCount,
		"position":     m.position,
		"set_position": m.setPosition,
		"insert":       m.insert,
		"remove":       m.remove,
		"backspace":    m.backspace,
		"get":          m.get,
		"undo":         m.undo,
		"redo":         m.redo,
	})
	L.SetGlobal("buf", mod)
}

// text() -> string
func (m *bufModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.eng.Text()))
	return 1
}

// len() -> number
func (m *bufModule) bufLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Len()))
	return 1
}

// line_count() -> number
func (m *bufModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.LineCount()))
	return 1
}

// position() -> number
func (m *bufModule) position(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Cursor()))
	return 1
}

// set_position(n)
func (m *bufModule) setPosition(L *lua.LState) int {
	pos := L.CheckInt64(1)
	if err := m.eng.MoveCursor(engine.Offset(pos)); err != nil {
		L.RaiseError("set_position(%d): %v (len %d)", pos, err, m.eng.Len())
	}
	return 0
}

// insert(s)
func (m *bufModule) insert(L *lua.LState) int {
	s := L.CheckString(1)
	if err := m.eng.InsertAtCursor(s); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// remove([n]) -> string
func (m *bufModule) remove(L *lua.LState) int {
	n := optCount(L, 1)
	pos := m.eng.Cursor()
	end := min(pos+engine.Offset(n), m.eng.Len())
	removed := m.eng.TextRange(pos, end)
	if err := m.eng.DeleteForward(n); err != nil {
		L.RaiseError("remove: %v", err)
	}
	L.Push(lua.LString(removed))
	return 1
}

// backspace([n]) -> string
func (m *bufModule) backspace(L *lua.LState) int {
	n := optCount(L, 1)
	pos := m.eng.Cursor()
	start := max(pos-engine.Offset(n), 0)
	removed := m.eng.TextRange(start, pos)
	if err := m.eng.DeleteBackward(n); err != nil {
		L.RaiseError("backspace: %v", err)
	}
	L.Push(lua.LString(removed))
	return 1
}

// get(i) -> string | nil
func (m *bufModule) get(L *lua.LState) int {
	i := L.CheckInt64(1)
	r, ok := m.eng.RuneAt(engine.Offset(i))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(string(r)))
	return 1
}

// undo() -> bool
func (m *bufModule) undo(L *lua.LState) int {
	return m.history(L, "undo", m.eng.Undo, engine.ErrNothingToUndo)
}

// redo() -> bool
func (m *bufModule) redo(L *lua.LState) int {
	return m.history(L, "redo", m.eng.Redo, engine.ErrNothingToRedo)
}

func (m *bufModule) history(L *lua.LState, name string, fn func() error, empty error) int {
	err := fn()
	switch {
	case err == nil:
		L.Push(lua.LTrue)
	case errors.Is(err, empty):
		L.Push(lua.LFalse)
	default:
		L.RaiseError("%s: %v", name, err)
	}
	return 1
}

// optCount reads an optional non-negative count argument.
func optCount(L *lua.LState, n int) int {
	c := L.OptInt(n, 1)
	if c < 0 {
		L.ArgError(n, "count must be non-negative")
	}
	return c
}
