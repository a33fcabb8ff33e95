// Package script runs Lua edit scripts against an engine.
//
// A script sees two modules. buf reads and edits the document by flat
// index:
//
//	buf.insert(0, "hello\n")
//	buf.replace(0, 5, "howdy")
//	buf.delete(0, buf.len())
//
// cursor drives the engine's caret and selection:
//
//	cursor.set_selection(1, 4)
//	local removed = cursor.cut()
//	cursor.move("eol")
//	cursor.type("!")
//
// Indexes are 0-based, lines 1-based and columns 0-based. Only the base,
// string, table and math libraries are available, and print writes to the
// runner's logger. A failing call stops the script; edits made before it
// are kept and the error is returned as a *ScriptError carrying the script
// line and the engine error.
package script
