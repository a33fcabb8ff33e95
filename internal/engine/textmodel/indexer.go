package textmodel

import (
	"sync"

	"golang.org/x/exp/slices"

	"github.com/dshills/textcore/internal/engine/bounds"
)

// DefaultCacheCapacity is the number of recently resolved positions kept by
// a CachedIndexer.
const DefaultCacheCapacity = 100

// Indexer translates between flat character indexes and (line, column)
// pairs. It is notified of every edit so it can keep internal state valid.
type Indexer interface {
	Listener

	// CharPosition resolves a flat index in [0, Len].
	CharPosition(index int) (Position, error)
	// CharPositionAt resolves (line, column); column may equal the line length.
	CharPositionAt(line, column int) (Position, error)
	// CharIndex returns the flat index of (line, column).
	CharIndex(line, column int) (int, error)
	// CharLine returns the line holding a flat index.
	CharLine(index int) (int, error)
	// CharColumn returns the column of a flat index.
	CharColumn(index int) (int, error)
}

// IndexerStats reports cache effectiveness.
type IndexerStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// IndexerOption configures a CachedIndexer.
type IndexerOption func(*CachedIndexer)

// WithCacheCapacity sets the number of cached anchors.
func WithCacheCapacity(n int) IndexerOption {
	return func(c *CachedIndexer) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithCacheEnabled turns anchor caching on or off.
func WithCacheEnabled(enabled bool) IndexerOption {
	return func(c *CachedIndexer) {
		c.useCache = enabled
	}
}

// CachedIndexer resolves positions by walking line lengths from the nearest
// known anchor: the zero position, the end of the document, or one of a
// bounded list of recently resolved positions.
//
// The cache is kept most recent first. A chosen anchor is swapped to the
// front; new entries are pushed to the front and the oldest falls off the
// back once capacity is exceeded.
//
// Every cache adjustment is stamped with the document revision. While the
// stamp is behind the document (an edit is being dispatched and the indexer
// has not yet seen its after event) cached anchors are ignored and nothing
// is pushed.
//
// CachedIndexer has its own lock, separate from the model's, since it is
// consulted while the model lock is held in either mode.
type CachedIndexer struct {
	mu sync.Mutex

	doc      View
	cache    []Position
	capacity int
	useCache bool
	rev      uint64

	hits   uint64
	misses uint64
}

// NewCachedIndexer creates an indexer over doc.
func NewCachedIndexer(doc View, opts ...IndexerOption) *CachedIndexer {
	c := &CachedIndexer{
		doc:      doc,
		capacity: DefaultCacheCapacity,
		useCache: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = make([]Position, 0, c.capacity+1)
	c.rev = doc.Revision()
	return c
}

// SetCacheUse enables or disables anchor caching. While disabled every
// lookup walks from the zero position or the end of the document, and
// existing entries are still adjusted on edits.
func (c *CachedIndexer) SetCacheUse(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.useCache = enabled
}

// CacheUse reports whether anchor caching is enabled.
func (c *CachedIndexer) CacheUse() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.useCache
}

// ClearCache drops every cached anchor.
func (c *CachedIndexer) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = c.cache[:0]
}

// Stats returns hit and miss counters and the current cache size.
func (c *CachedIndexer) Stats() IndexerStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return IndexerStats{Hits: c.hits, Misses: c.misses, Size: len(c.cache)}
}

// CharPosition resolves a flat index in [0, Len].
func (c *CachedIndexer) CharPosition(index int) (Position, error) {
	if err := bounds.Index(index, c.doc.Len(), true); err != nil {
		return Position{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := c.fresh()
	anchor, slot := c.nearestByIndex(index, fresh)
	pos := c.walkToIndex(anchor, index)
	c.record(pos, anchor, slot, fresh)
	return pos, nil
}

// CharPositionAt resolves (line, column).
func (c *CachedIndexer) CharPositionAt(line, column int) (Position, error) {
	if err := bounds.Line(line, c.doc.LineCount()); err != nil {
		return Position{}, err
	}
	if err := bounds.Column(column, c.doc.LineLen(line), true); err != nil {
		return Position{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := c.fresh()
	anchor, slot := c.nearestByLine(line, fresh)
	pos := c.walkToLine(anchor, line, column)
	c.record(pos, anchor, slot, fresh)
	return pos, nil
}

// CharIndex returns the flat index of (line, column).
func (c *CachedIndexer) CharIndex(line, column int) (int, error) {
	pos, err := c.CharPositionAt(line, column)
	if err != nil {
		return 0, err
	}
	return pos.Index, nil
}

// CharLine returns the line holding a flat index.
func (c *CachedIndexer) CharLine(index int) (int, error) {
	pos, err := c.CharPosition(index)
	if err != nil {
		return 0, err
	}
	return pos.Line, nil
}

// CharColumn returns the column of a flat index.
func (c *CachedIndexer) CharColumn(index int) (int, error) {
	pos, err := c.CharPosition(index)
	if err != nil {
		return 0, err
	}
	return pos.Column, nil
}

// fresh reports whether cached anchors reflect the current document.
func (c *CachedIndexer) fresh() bool {
	return c.useCache && c.rev == c.doc.Revision()
}

func (c *CachedIndexer) endPosition() Position {
	last := c.doc.LineCount()
	return Position{Line: last, Column: c.doc.LineLen(last), Index: c.doc.Len()}
}

// nearestByIndex returns the closest anchor to index and its cache slot, or
// -1 when the anchor is not a cache entry.
func (c *CachedIndexer) nearestByIndex(index int, fresh bool) (Position, int) {
	best, dist, slot := ZeroPosition(), index, -1
	if fresh {
		for i, p := range c.cache {
			if d := abs(p.Index - index); d < dist {
				best, dist, slot = p, d, i
			}
		}
	}
	if end := c.endPosition(); abs(end.Index-index) < dist {
		return end, -1
	}
	return best, slot
}

func (c *CachedIndexer) nearestByLine(line int, fresh bool) (Position, int) {
	best, dist, slot := ZeroPosition(), line-1, -1
	if fresh {
		for i, p := range c.cache {
			if d := abs(p.Line - line); d < dist {
				best, dist, slot = p, d, i
			}
		}
	}
	if end := c.endPosition(); abs(end.Line-line) < dist {
		return end, -1
	}
	return best, slot
}

// walkToIndex steps line by line from anchor until index lies on the
// current line. A line's break belongs to that line, at column LineLen.
func (c *CachedIndexer) walkToIndex(anchor Position, index int) Position {
	line := anchor.Line
	start := anchor.Index - anchor.Column
	for index > start+c.doc.LineLen(line) {
		start += c.doc.LineLen(line) + 1
		line++
	}
	for index < start {
		line--
		start -= c.doc.LineLen(line) + 1
	}
	return Position{Line: line, Column: index - start, Index: index}
}

func (c *CachedIndexer) walkToLine(anchor Position, target, column int) Position {
	line := anchor.Line
	start := anchor.Index - anchor.Column
	for line < target {
		start += c.doc.LineLen(line) + 1
		line++
	}
	for line > target {
		line--
		start -= c.doc.LineLen(line) + 1
	}
	return Position{Line: line, Column: column, Index: start + column}
}

// record updates statistics and the cache after a lookup.
func (c *CachedIndexer) record(pos, anchor Position, slot int, fresh bool) {
	if slot >= 0 {
		c.hits++
	} else {
		c.misses++
	}
	if !fresh {
		return
	}
	if slot > 0 {
		c.cache[0], c.cache[slot] = c.cache[slot], c.cache[0]
	}
	if pos == anchor {
		return
	}
	c.cache = slices.Insert(c.cache, 0, pos)
	if len(c.cache) > c.capacity {
		c.cache = c.cache[:c.capacity]
	}
}

// BeforeInsert implements Listener.
func (c *CachedIndexer) BeforeInsert(Event) {}

// BeforeDelete implements Listener.
func (c *CachedIndexer) BeforeDelete(Event) {}

// AfterInsert shifts every anchor at or after the insertion point.
func (c *CachedIndexer) AfterInsert(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := ev.Span
	for i := range c.cache {
		p := &c.cache[i]
		switch {
		case p.Line == s.StartLine && p.Column >= s.StartColumn:
			p.Column = s.EndColumn + (p.Column - s.StartColumn)
			p.Line = s.EndLine
			p.Index += ev.Length
		case p.Line > s.StartLine:
			p.Line += s.Lines()
			p.Index += ev.Length
		}
	}
	c.rev = c.doc.Revision()
}

// AfterDelete evicts anchors inside the removed span and shifts the ones
// after it.
func (c *CachedIndexer) AfterDelete(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := ev.Span
	kept := c.cache[:0]
	for _, p := range c.cache {
		if compareLineColumn(p.Line, p.Column, s.StartLine, s.StartColumn) > 0 {
			if compareLineColumn(p.Line, p.Column, s.EndLine, s.EndColumn) < 0 {
				continue
			}
			if p.Line == s.EndLine {
				p.Column = s.StartColumn + (p.Column - s.EndColumn)
				p.Line = s.StartLine
			} else {
				p.Line -= s.Lines()
			}
			p.Index -= ev.Length
		}
		kept = append(kept, p)
	}
	c.cache = kept
	c.rev = c.doc.Revision()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
