package engine

import (
	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/textmodel"
)

// constructionOnly lists settings that take effect only for models created
// after the change.
var constructionOnly = map[string]bool{
	"editor.thread_safe":            true,
	"editor.indexer_cache_capacity": true,
	"editor.line_ending":            true,
}

// ApplyConfig validates cfg and applies it. Tab width, tab-as-whitespace,
// max offset tracking, the indexer cache switch and the log level change
// immediately. Thread safety, indexer cache capacity and line ending are
// recorded for new documents and logged as deferred.
func (e *Engine) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	changes := config.Diff(e.cfg, cfg)
	if len(changes) == 0 {
		return nil
	}

	e.logger.SetLevel(cfg.LogLevel())
	e.measure.SetTabWidth(cfg.Measure.TabWidth)
	e.measure.SetTabAsWhitespace(cfg.Measure.TabAsWhitespace)
	e.measure.SetMaxOffsetEnabled(cfg.Measure.MaxOffset)
	if idx, ok := e.model.Indexer().Unwrap().(*textmodel.CachedIndexer); ok {
		idx.SetCacheUse(cfg.Editor.IndexerCache)
	}

	for _, c := range changes {
		if constructionOnly[c.Path] {
			e.logger.Warn("%s changed to %v; applies to new documents", c.Path, c.NewValue)
			continue
		}
		e.logger.Info("%s: %v -> %v", c.Path, c.OldValue, c.NewValue)
	}
	e.cfg = cfg
	return nil
}

// Stats reports the state of the current document and its caches.
type Stats struct {
	Lines     int
	Length    int
	Revision  uint64
	Listeners int

	Indexer textmodel.IndexerStats

	MeasureBusy bool
	MaxOffset   float32
}

// Stats returns a snapshot of engine statistics.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Stats{
		Lines:       e.model.LineCount(),
		Length:      e.model.Len(),
		Revision:    e.model.Revision(),
		Listeners:   e.model.ListenerCount(),
		MeasureBusy: e.measure.Busy(),
	}
	s.Indexer, _ = e.model.Indexer().Stats()
	if !e.closed {
		s.MaxOffset, _ = e.measure.MaxOffset()
	}
	return s
}
