package cursor

import "github.com/dshills/textcore/internal/engine/textmodel"

// Boundaries move by span arithmetic. The indexer is stale during the after
// callbacks and must not be queried there.

// BeforeInsert is a no-op; inserts are tracked from the event span alone.
func (c *Cursor) BeforeInsert(textmodel.Event) {}

// AfterInsert shifts every boundary at or after the insertion point past
// the inserted text.
func (c *Cursor) AfterInsert(ev textmodel.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.left = shiftForInsert(c.left, ev.Span, ev.Length)
	c.right = shiftForInsert(c.right, ev.Span, ev.Length)
}

// BeforeDelete records the flat index of the deletion start when a boundary
// lies inside the deleted range and will collapse onto it.
func (c *Cursor) BeforeDelete(ev textmodel.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delStart = -1
	for _, p := range [...]Position{c.left, c.right} {
		if !inside(p, ev.Span) {
			continue
		}
		if p.Line == ev.Span.StartLine {
			c.delStart = p.Index - (p.Column - ev.Span.StartColumn)
			return
		}
	}
	if inside(c.left, ev.Span) || inside(c.right, ev.Span) {
		c.delStart, _ = ev.Doc.Indexer().CharIndex(ev.Span.StartLine, ev.Span.StartColumn)
	}
}

// AfterDelete moves each boundary independently. A boundary inside the
// deleted range collapses to its start; one after it shifts back by the
// deleted length.
func (c *Cursor) AfterDelete(ev textmodel.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.left = shiftForDelete(c.left, ev.Span, ev.Length, c.delStart)
	c.right = shiftForDelete(c.right, ev.Span, ev.Length, c.delStart)
}

func shiftForInsert(p Position, s textmodel.Span, n int) Position {
	if before(p, s.StartLine, s.StartColumn) {
		return p
	}
	if p.Line == s.StartLine {
		p.Column = s.EndColumn + (p.Column - s.StartColumn)
	}
	p.Line += s.Lines()
	p.Index += n
	return p
}

func shiftForDelete(p Position, s textmodel.Span, n, start int) Position {
	switch {
	case before(p, s.StartLine, s.StartColumn):
		return p
	case before(p, s.EndLine, s.EndColumn):
		return Position{Line: s.StartLine, Column: s.StartColumn, Index: start}
	}
	if p.Line == s.EndLine {
		p.Column = s.StartColumn + (p.Column - s.EndColumn)
	}
	p.Line -= s.Lines()
	p.Index -= n
	return p
}

// inside reports whether p is in [start, end) of s.
func inside(p Position, s textmodel.Span) bool {
	return !before(p, s.StartLine, s.StartColumn) && before(p, s.EndLine, s.EndColumn)
}

func before(p Position, line, column int) bool {
	return p.Line < line || (p.Line == line && p.Column < column)
}
