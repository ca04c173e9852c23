// Package script runs Lua scripts against an engine.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, and dofile, loadfile, load and
// loadstring are removed. Run time is bounded by a timeout and the call
// stack by a fixed depth.
//
// The global table buf exposes the engine. Offsets are rune offsets and
// the position is the cursor, which is where the gap sits:
//
//	buf.text()            -> string
//	buf.len()             -> number
//	buf.line_count()      -> number
//	buf.position()        -> number
//	buf.set_position(n)   raises an error when n is outside [0, len]
//	buf.insert(s)         inserts s before the position and moves past it
//	buf.remove([n])       -> string, removes up to n runes after the position
//	buf.backspace([n])    -> string, removes up to n runes before the position
//	buf.get(i)            -> string or nil when i is outside [0, len)
//	buf.undo()            -> bool
//	buf.redo()            -> bool
//
// Example:
//
//	buf.set_position(buf.len())
//	buf.insert("\n-- end\n")
package script
