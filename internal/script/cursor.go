package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textcore/internal/engine/cursor"
)

// CursorModule implements the cursor API module.
type CursorModule struct {
	ctx *Context
}

// NewCursorModule creates a new cursor module.
func NewCursorModule(ctx *Context) *CursorModule {
	return &CursorModule{ctx: ctx}
}

// Name returns the module name.
func (m *CursorModule) Name() string {
	return "cursor"
}

// Register registers the module into the Lua state.
func (m *CursorModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetField(mod, "set_position", L.NewFunction(m.setPosition))
	L.SetField(mod, "selection", L.NewFunction(m.selection))
	L.SetField(mod, "set_selection", L.NewFunction(m.setSelection))
	L.SetField(mod, "selected_text", L.NewFunction(m.selectedText))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "column", L.NewFunction(m.column))
	L.SetField(mod, "move", L.NewFunction(m.move))
	L.SetField(mod, "type", L.NewFunction(m.typeText))
	L.SetField(mod, "backspace", L.NewFunction(m.backspace))
	L.SetField(mod, "delete_forward", L.NewFunction(m.deleteForward))
	L.SetField(mod, "cut", L.NewFunction(m.cut))

	L.SetGlobal(m.Name(), mod)
	return nil
}

func (m *CursorModule) cursor() *cursor.Cursor {
	return m.ctx.Engine.Cursor()
}

// get() -> index
// Returns the caret index (the right boundary).
func (m *CursorModule) get(L *lua.LState) int {
	L.Push(lua.LNumber(m.cursor().Right().Index))
	return 1
}

// set(index) -> nil
// Places the caret, dropping any selection.
func (m *CursorModule) set(L *lua.LState) int {
	index := L.CheckInt(1)

	if err := m.cursor().Set(index); err != nil {
		m.ctx.raise(L, "set", err)
		return 0
	}
	return 0
}

// set_position(line, column) -> nil
func (m *CursorModule) setPosition(L *lua.LState) int {
	line := L.CheckInt(1)
	column := L.CheckInt(2)

	if err := m.cursor().SetPos(line, column); err != nil {
		m.ctx.raise(L, "set_position", err)
		return 0
	}
	return 0
}

// selection() -> {start, end} or nil
// Returns the selected range in document order, or nil without a
// selection.
func (m *CursorModule) selection(L *lua.LState) int {
	c := m.cursor()
	if !c.IsSelected() {
		L.Push(lua.LNil)
		return 1
	}

	start, end := c.Range()
	tbl := L.NewTable()
	L.SetField(tbl, "start", lua.LNumber(start))
	L.SetField(tbl, "end", lua.LNumber(end))
	L.Push(tbl)
	return 1
}

// set_selection(left, right) -> nil
func (m *CursorModule) setSelection(L *lua.LState) int {
	left := L.CheckInt(1)
	right := L.CheckInt(2)

	if err := m.cursor().Select(left, right); err != nil {
		m.ctx.raise(L, "set_selection", err)
		return 0
	}
	return 0
}

// selected_text() -> string
func (m *CursorModule) selectedText(L *lua.LState) int {
	text, err := m.cursor().SelectedText()
	if err != nil {
		m.ctx.raise(L, "selected_text", err)
		return 0
	}

	L.Push(lua.LString(text))
	return 1
}

// line() -> number
// Returns the caret line (1-indexed).
func (m *CursorModule) line(L *lua.LState) int {
	L.Push(lua.LNumber(m.cursor().Right().Line))
	return 1
}

// column() -> number
// Returns the caret column (0-indexed).
func (m *CursorModule) column(L *lua.LState) int {
	L.Push(lua.LNumber(m.cursor().Right().Column))
	return 1
}

// move(direction, count?) -> nil
// Direction is one of left, right, up, down, start, end, home, eol.
func (m *CursorModule) move(L *lua.LState) int {
	direction := L.CheckString(1)
	count := L.OptInt(2, 1)

	if count < 0 {
		L.ArgError(2, "count must be non-negative")
		return 0
	}

	c := m.cursor()
	switch direction {
	case "left":
		c.MoveLeft(count)
	case "right":
		c.MoveRight(count)
	case "up":
		c.MoveUp(count)
	case "down":
		c.MoveDown(count)
	case "start":
		c.MoveToStart()
	case "end":
		c.MoveToEnd()
	case "home":
		c.MoveToLineStart()
	case "eol":
		c.MoveToLineEnd()
	default:
		L.ArgError(1, "unknown direction "+direction)
	}
	return 0
}

// type(text) -> end_index
// Replaces the selection, if any, with text.
func (m *CursorModule) typeText(L *lua.LState) int {
	text := L.CheckString(1)

	end, err := m.ctx.Engine.InsertAtCursor(text)
	if err != nil {
		m.ctx.raise(L, "type", err)
		return 0
	}
	m.ctx.edits++

	L.Push(lua.LNumber(end))
	return 1
}

// backspace(count?) -> nil
func (m *CursorModule) backspace(L *lua.LState) int {
	count := L.OptInt(1, 1)

	for range count {
		if err := m.ctx.Engine.Backspace(); err != nil {
			m.ctx.raise(L, "backspace", err)
			return 0
		}
		m.ctx.edits++
	}
	return 0
}

// delete_forward(count?) -> nil
func (m *CursorModule) deleteForward(L *lua.LState) int {
	count := L.OptInt(1, 1)

	for range count {
		if err := m.ctx.Engine.DeleteForward(); err != nil {
			m.ctx.raise(L, "delete_forward", err)
			return 0
		}
		m.ctx.edits++
	}
	return 0
}

// cut() -> string
// Removes the selection and returns its text.
func (m *CursorModule) cut(L *lua.LState) int {
	text, err := m.cursor().SelectedText()
	if err != nil {
		m.ctx.raise(L, "cut", err)
		return 0
	}
	if err := m.ctx.Engine.DeleteSelection(); err != nil {
		m.ctx.raise(L, "cut", err)
		return 0
	}
	if text != "" {
		m.ctx.edits++
	}

	L.Push(lua.LString(text))
	return 1
}
