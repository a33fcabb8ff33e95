package measure

import "github.com/dshills/textcore/internal/diag"

// DefaultTabWidth is the number of spaces a tab stands for.
const DefaultTabWidth = 4

// Option configures a Cache.
type Option func(*Cache)

// WithTabWidth sets the tab width multiplier. Values below 1 are ignored.
func WithTabWidth(n int) Option {
	return func(c *Cache) {
		if n >= 1 {
			c.tabWidth = n
		}
	}
}

// WithTabAsWhitespace measures tabs as tab-width spaces instead of
// tab-width copies of the tab glyph.
func WithTabAsWhitespace(enabled bool) Option {
	return func(c *Cache) {
		c.tabAsWhitespace = enabled
	}
}

// WithMaxOffset enables tracking of the widest row.
func WithMaxOffset(enabled bool) Option {
	return func(c *Cache) {
		c.maxOffsetEnabled = enabled
	}
}

// WithLogger sets the diagnostics sink.
func WithLogger(l *diag.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}
