package cursor

import "github.com/dshills/textcore/internal/engine/textmodel"

// Movement collapses the selection: each primitive steps from the left
// boundary and places both boundaries on the result. A count below one
// moves nothing.

// MoveLeft steps count characters back. At column 0 a step goes to the end
// of the previous line.
func (c *Cursor) MoveLeft(count int) {
	c.move(count, func(v textmodel.View, line, col int) (int, int) {
		if col > 0 {
			return line, col - 1
		}
		if line > 1 {
			return line - 1, v.LineLen(line - 1)
		}
		return line, col
	})
}

// MoveRight steps count characters forward. At the end of a line a step
// goes to column 0 of the next line.
func (c *Cursor) MoveRight(count int) {
	c.move(count, func(v textmodel.View, line, col int) (int, int) {
		if col < v.LineLen(line) {
			return line, col + 1
		}
		if line < v.LineCount() {
			return line + 1, 0
		}
		return line, col
	})
}

// MoveUp steps count lines up, clamping the column to the target line.
func (c *Cursor) MoveUp(count int) {
	c.move(count, func(v textmodel.View, line, col int) (int, int) {
		if line == 1 {
			return line, col
		}
		return line - 1, min(col, v.LineLen(line-1))
	})
}

// MoveDown steps count lines down, clamping the column to the target line.
func (c *Cursor) MoveDown(count int) {
	c.move(count, func(v textmodel.View, line, col int) (int, int) {
		if line == v.LineCount() {
			return line, col
		}
		return line + 1, min(col, v.LineLen(line+1))
	})
}

// MoveToStart places the cursor at the start of the document.
func (c *Cursor) MoveToStart() {
	c.jump(func(textmodel.View) (int, int) { return 1, 0 })
}

// MoveToEnd places the cursor at the end of the document.
func (c *Cursor) MoveToEnd() {
	c.jump(func(v textmodel.View) (int, int) {
		return v.LineCount(), v.LineLen(v.LineCount())
	})
}

// MoveToLineStart places the cursor at column 0 of its line.
func (c *Cursor) MoveToLineStart() {
	c.jump(func(textmodel.View) (int, int) { return c.left.Line, 0 })
}

// MoveToLineEnd places the cursor at the end of its line.
func (c *Cursor) MoveToLineEnd() {
	c.jump(func(v textmodel.View) (int, int) { return c.left.Line, v.LineLen(c.left.Line) })
}

func (c *Cursor) move(count int, step func(v textmodel.View, line, col int) (int, int)) {
	if count < 1 {
		return
	}
	c.jump(func(v textmodel.View) (int, int) {
		line, col := c.left.Line, c.left.Column
		for i := 0; i < count; i++ {
			line, col = step(v, line, col)
		}
		return line, col
	})
}

// jump runs target under the model's read lock and the cursor's lock, then
// collapses the cursor onto the result.
func (c *Cursor) jump(target func(v textmodel.View) (int, int)) {
	c.model.Read(func(v textmodel.View) {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.clampTo(v)
		line, col := target(v)
		if pos, err := v.Indexer().CharPositionAt(line, col); err == nil {
			c.left, c.right = pos, pos
		}
	})
}

// clampTo keeps the left boundary inside v for a cursor that missed edits
// while detached.
func (c *Cursor) clampTo(v textmodel.View) {
	if last := v.LineCount(); c.left.Line > last {
		c.left.Line = last
		c.left.Column = v.LineLen(last)
	}
	if n := v.LineLen(c.left.Line); c.left.Column > n {
		c.left.Column = n
	}
}
