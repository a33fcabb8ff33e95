package textmodel

// LockedIndexer is the model's indexer with every query taken under the
// model's read lock. It is what Model.Indexer hands out; listener and Read
// callbacks already hold the lock and use View.Indexer instead.
type LockedIndexer struct {
	m *Model
}

// CharPosition resolves a flat index in [0, Len].
func (l *LockedIndexer) CharPosition(index int) (Position, error) {
	l.m.guard.RLock()
	defer l.m.guard.RUnlock()
	return l.m.indexer.CharPosition(index)
}

// CharPositionAt resolves (line, column); column may equal the line length.
func (l *LockedIndexer) CharPositionAt(line, column int) (Position, error) {
	l.m.guard.RLock()
	defer l.m.guard.RUnlock()
	return l.m.indexer.CharPositionAt(line, column)
}

// CharIndex returns the flat index of (line, column).
func (l *LockedIndexer) CharIndex(line, column int) (int, error) {
	l.m.guard.RLock()
	defer l.m.guard.RUnlock()
	return l.m.indexer.CharIndex(line, column)
}

// CharLine returns the line holding a flat index.
func (l *LockedIndexer) CharLine(index int) (int, error) {
	l.m.guard.RLock()
	defer l.m.guard.RUnlock()
	return l.m.indexer.CharLine(index)
}

// CharColumn returns the column of a flat index.
func (l *LockedIndexer) CharColumn(index int) (int, error) {
	l.m.guard.RLock()
	defer l.m.guard.RUnlock()
	return l.m.indexer.CharColumn(index)
}

// Stats returns the cache counters of a CachedIndexer. ok is false for
// other indexer implementations.
func (l *LockedIndexer) Stats() (stats IndexerStats, ok bool) {
	c, ok := l.m.indexer.(*CachedIndexer)
	if !ok {
		return IndexerStats{}, false
	}
	return c.Stats(), true
}

// Unwrap returns the underlying indexer. Its queries read the document
// without the model lock, so they must not run concurrently with edits.
func (l *LockedIndexer) Unwrap() Indexer {
	return l.m.indexer
}
