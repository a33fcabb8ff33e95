package engine

import (
	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/diag"
	"github.com/dshills/textcore/internal/engine/measure"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithConfig sets the engine settings. New does not validate them.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithWidthProvider sets the glyph width provider of the measurement cache.
// The default measures terminal cells.
func WithWidthProvider(p measure.WidthProvider) Option {
	return func(e *Engine) {
		if p != nil {
			e.provider = p
		}
	}
}

// WithLogger sets the diagnostics sink shared by the engine's components.
func WithLogger(l *diag.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
