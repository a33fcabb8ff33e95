package cursor

import (
	"fmt"
	"sync"

	"github.com/dshills/textcore/internal/engine/textmodel"
)

// Position is an alias for textmodel.Position for convenience.
type Position = textmodel.Position

// Cursor is a caret or selection over a text model. It holds a left and a
// right position; they are equal when nothing is selected. Left is the
// anchor side by convention but is not forced to precede right.
//
// A Cursor installs itself as the model's privileged cursor listener, so its
// boundaries follow the characters they address across edits.
//
// Cursor methods must not be called from inside a model listener callback.
type Cursor struct {
	mu    sync.Mutex
	model *textmodel.Model

	left  Position
	right Position

	// Flat index of a pending deletion's start, or -1 when no boundary
	// falls inside it.
	delStart int
}

// New creates a cursor at the start of model and attaches it.
func New(model *textmodel.Model) *Cursor {
	c := &Cursor{
		model: model,
		left:  textmodel.ZeroPosition(),
		right: textmodel.ZeroPosition(),
	}
	model.SetCursor(c)
	return c
}

// Detach stops the cursor from tracking edits.
func (c *Cursor) Detach() {
	c.model.SetCursor(nil)
}

// Model returns the model the cursor addresses.
func (c *Cursor) Model() *textmodel.Model {
	return c.model
}

// Left returns the left boundary.
func (c *Cursor) Left() Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.left
}

// Right returns the right boundary.
func (c *Cursor) Right() Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right
}

// IsSelected returns true if the boundaries address different characters.
func (c *Cursor) IsSelected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.left.Index != c.right.Index
}

// Range returns the selected flat index range, ordered.
func (c *Cursor) Range() (start, end int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ordered(c.left.Index, c.right.Index)
}

// SelectedText returns the text between the boundaries.
func (c *Cursor) SelectedText() (string, error) {
	start, end := c.Range()
	return c.model.Slice(start, end)
}

// Set collapses both boundaries onto a flat index.
func (c *Cursor) Set(index int) error {
	return c.resolve(func(idx textmodel.Indexer) (Position, error) {
		return idx.CharPosition(index)
	}, true, true)
}

// SetPos collapses both boundaries onto (line, column).
func (c *Cursor) SetPos(line, column int) error {
	return c.resolve(func(idx textmodel.Indexer) (Position, error) {
		return idx.CharPositionAt(line, column)
	}, true, true)
}

// SetLeft moves the left boundary to a flat index.
func (c *Cursor) SetLeft(index int) error {
	return c.resolve(func(idx textmodel.Indexer) (Position, error) {
		return idx.CharPosition(index)
	}, true, false)
}

// SetLeftPos moves the left boundary to (line, column).
func (c *Cursor) SetLeftPos(line, column int) error {
	return c.resolve(func(idx textmodel.Indexer) (Position, error) {
		return idx.CharPositionAt(line, column)
	}, true, false)
}

// SetRight moves the right boundary to a flat index.
func (c *Cursor) SetRight(index int) error {
	return c.resolve(func(idx textmodel.Indexer) (Position, error) {
		return idx.CharPosition(index)
	}, false, true)
}

// SetRightPos moves the right boundary to (line, column).
func (c *Cursor) SetRightPos(line, column int) error {
	return c.resolve(func(idx textmodel.Indexer) (Position, error) {
		return idx.CharPositionAt(line, column)
	}, false, true)
}

// Select sets the left and right boundaries to flat indexes.
func (c *Cursor) Select(left, right int) error {
	var err error
	c.model.Read(func(v textmodel.View) {
		var l, r Position
		if l, err = v.Indexer().CharPosition(left); err != nil {
			return
		}
		if r, err = v.Indexer().CharPosition(right); err != nil {
			return
		}
		c.mu.Lock()
		c.left, c.right = l, r
		c.mu.Unlock()
	})
	return err
}

// resolve looks up a position under the model's read lock and stores it in
// the chosen boundaries. Lock order is always model, then cursor.
func (c *Cursor) resolve(lookup func(textmodel.Indexer) (Position, error), left, right bool) error {
	var err error
	c.model.Read(func(v textmodel.View) {
		var pos Position
		if pos, err = lookup(v.Indexer()); err != nil {
			return
		}
		c.mu.Lock()
		if left {
			c.left = pos
		}
		if right {
			c.right = pos
		}
		c.mu.Unlock()
	})
	return err
}

// String returns a string representation of the cursor.
func (c *Cursor) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("Cursor(left=%v, right=%v)", c.left, c.right)
}

// Equal returns true if both cursors have the same boundaries.
func (c *Cursor) Equal(other *Cursor) bool {
	if c == other {
		return true
	}
	l, r := other.Left(), other.Right()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.left == l && c.right == r
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
