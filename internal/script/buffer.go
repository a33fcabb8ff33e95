package script

import (
	lua "github.com/yuin/gopher-lua"
)

// BufferModule implements the buf API module.
type BufferModule struct {
	ctx *Context
}

// NewBufferModule creates a new buffer module.
func NewBufferModule(ctx *Context) *BufferModule {
	return &BufferModule{ctx: ctx}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return "buf"
}

// Register registers the module into the Lua state.
func (m *BufferModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "text", L.NewFunction(m.text))
	L.SetField(mod, "text_range", L.NewFunction(m.textRange))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "line_count", L.NewFunction(m.lineCount))
	L.SetField(mod, "len", L.NewFunction(m.bufLen))
	L.SetField(mod, "position", L.NewFunction(m.position))
	L.SetField(mod, "index", L.NewFunction(m.index))
	L.SetField(mod, "insert", L.NewFunction(m.insert))
	L.SetField(mod, "append", L.NewFunction(m.append))
	L.SetField(mod, "delete", L.NewFunction(m.delete))
	L.SetField(mod, "replace", L.NewFunction(m.replace))
	L.SetField(mod, "clear", L.NewFunction(m.clear))

	L.SetGlobal(m.Name(), mod)
	return nil
}

// text() -> string
// Returns the full document with LF line breaks.
func (m *BufferModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.ctx.Engine.Text()))
	return 1
}

// text_range(start, end) -> string
// Returns the characters in [start, end).
func (m *BufferModule) textRange(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)

	text, err := m.ctx.Engine.Model().Slice(start, end)
	if err != nil {
		m.ctx.raise(L, "text_range", err)
		return 0
	}

	L.Push(lua.LString(text))
	return 1
}

// line(n) -> string
// Returns the text of a line (1-indexed).
func (m *BufferModule) line(L *lua.LState) int {
	lineNum := L.CheckInt(1)

	text, err := m.ctx.Engine.LineText(lineNum)
	if err != nil {
		m.ctx.raise(L, "line", err)
		return 0
	}

	L.Push(lua.LString(text))
	return 1
}

// line_count() -> number
func (m *BufferModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.ctx.Engine.LineCount()))
	return 1
}

// len() -> number
// Returns the document length in characters, line breaks included.
func (m *BufferModule) bufLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.ctx.Engine.Len()))
	return 1
}

// position(index) -> line, column
func (m *BufferModule) position(L *lua.LState) int {
	index := L.CheckInt(1)

	pos, err := m.ctx.Engine.Position(index)
	if err != nil {
		m.ctx.raise(L, "position", err)
		return 0
	}

	L.Push(lua.LNumber(pos.Line))
	L.Push(lua.LNumber(pos.Column))
	return 2
}

// index(line, column) -> number
func (m *BufferModule) index(L *lua.LState) int {
	line := L.CheckInt(1)
	column := L.CheckInt(2)

	index, err := m.ctx.Engine.Index(line, column)
	if err != nil {
		m.ctx.raise(L, "index", err)
		return 0
	}

	L.Push(lua.LNumber(index))
	return 1
}

// insert(index, text) -> end_index
// Inserts text and returns the index just past it.
func (m *BufferModule) insert(L *lua.LState) int {
	index := L.CheckInt(1)
	text := L.CheckString(2)

	end, err := m.ctx.Engine.Insert(index, text)
	if err != nil {
		m.ctx.raise(L, "insert", err)
		return 0
	}
	m.ctx.edits++

	L.Push(lua.LNumber(end))
	return 1
}

// append(text) -> end_index
// Inserts text at the end of the document.
func (m *BufferModule) append(L *lua.LState) int {
	text := L.CheckString(1)

	end, err := m.ctx.Engine.Insert(m.ctx.Engine.Len(), text)
	if err != nil {
		m.ctx.raise(L, "append", err)
		return 0
	}
	m.ctx.edits++

	L.Push(lua.LNumber(end))
	return 1
}

// delete(start, end) -> nil
// Deletes the characters in [start, end).
func (m *BufferModule) delete(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)

	if err := m.ctx.Engine.Delete(start, end); err != nil {
		m.ctx.raise(L, "delete", err)
		return 0
	}
	m.ctx.edits++
	return 0
}

// replace(start, end, text) -> end_index
func (m *BufferModule) replace(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)
	text := L.CheckString(3)

	newEnd, err := m.ctx.Engine.Replace(start, end, text)
	if err != nil {
		m.ctx.raise(L, "replace", err)
		return 0
	}
	m.ctx.edits++

	L.Push(lua.LNumber(newEnd))
	return 1
}

// clear() -> nil
// Removes all text.
func (m *BufferModule) clear(L *lua.LState) int {
	if err := m.ctx.Engine.Delete(0, m.ctx.Engine.Len()); err != nil {
		m.ctx.raise(L, "clear", err)
		return 0
	}
	m.ctx.edits++
	return 0
}
