package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dshills/textcore/internal/config/loader"
	"github.com/dshills/textcore/internal/diag"
	"github.com/dshills/textcore/internal/engine/textmodel"
)

// Tab width limits accepted by Validate.
const (
	MinTabWidth = 1
	MaxTabWidth = 16
)

// Config holds every engine setting.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Measure MeasureConfig `toml:"measure" yaml:"measure"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EditorConfig configures the text model and its indexer.
type EditorConfig struct {
	// ThreadSafe selects the reader/writer lock. Construction only.
	ThreadSafe bool `toml:"thread_safe" yaml:"thread_safe"`
	// IndexerCache enables the position indexer's anchor cache.
	IndexerCache bool `toml:"indexer_cache" yaml:"indexer_cache"`
	// IndexerCacheCapacity bounds the anchor cache. Construction only.
	IndexerCacheCapacity int `toml:"indexer_cache_capacity" yaml:"indexer_cache_capacity"`
	// LineEnding is "lf", "cr", "crlf" or "native".
	LineEnding string `toml:"line_ending" yaml:"line_ending"`
}

// MeasureConfig configures the measurement cache.
type MeasureConfig struct {
	TabWidth        int  `toml:"tab_width" yaml:"tab_width"`
	TabAsWhitespace bool `toml:"tab_as_whitespace" yaml:"tab_as_whitespace"`
	MaxOffset       bool `toml:"max_offset" yaml:"max_offset"`
}

// LoggingConfig configures diagnostics.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			ThreadSafe:           true,
			IndexerCache:         true,
			IndexerCacheCapacity: textmodel.DefaultCacheCapacity,
			LineEnding:           "lf",
		},
		Measure: MeasureConfig{
			TabWidth:        4,
			TabAsWhitespace: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks every setting and returns the first violation as a
// *ValidationError.
func (c Config) Validate() error {
	if c.Measure.TabWidth < MinTabWidth || c.Measure.TabWidth > MaxTabWidth {
		return &ValidationError{
			Path:    "measure.tab_width",
			Message: fmt.Sprintf("must be between %d and %d", MinTabWidth, MaxTabWidth),
			Value:   c.Measure.TabWidth,
		}
	}
	if c.Editor.IndexerCacheCapacity < 1 {
		return &ValidationError{
			Path:    "editor.indexer_cache_capacity",
			Message: "must be at least 1",
			Value:   c.Editor.IndexerCacheCapacity,
		}
	}
	if _, ok := textmodel.ParseLineEnding(c.Editor.LineEnding); !ok {
		return &ValidationError{
			Path:    "editor.line_ending",
			Message: "must be one of lf, cr, crlf, native",
			Value:   c.Editor.LineEnding,
		}
	}
	if _, ok := diag.ParseLevel(c.Logging.Level); !ok {
		return &ValidationError{
			Path:    "logging.level",
			Message: "must be one of debug, info, warn, error",
			Value:   c.Logging.Level,
		}
	}
	return nil
}

// LineEnding returns the parsed line ending.
func (c Config) LineEnding() textmodel.LineEnding {
	le, _ := textmodel.ParseLineEnding(c.Editor.LineEnding)
	return le
}

// LogLevel returns the parsed logging level.
func (c Config) LogLevel() diag.Level {
	level, _ := diag.ParseLevel(c.Logging.Level)
	return level
}

// Set assigns the setting at path. Strings are accepted for every type;
// integers are accepted for booleans as 0 or 1. Set does not run Validate.
func (c *Config) Set(path string, value any) error {
	f, ok := settings[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return f.set(c, path, value)
}

// Get returns the value of the setting at path.
func (c Config) Get(path string) (any, error) {
	f, ok := settings[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return f.get(&c), nil
}

// Paths returns every setting path in sorted order.
func Paths() []string {
	return slices.Sorted(maps.Keys(settings))
}

// Change records one setting that differs between two configurations.
type Change struct {
	Path     string
	OldValue any
	NewValue any
}

// Diff returns the settings whose values differ, sorted by path.
func Diff(old, updated Config) []Change {
	var changes []Change
	for _, path := range Paths() {
		f := settings[path]
		if a, b := f.get(&old), f.get(&updated); a != b {
			changes = append(changes, Change{Path: path, OldValue: a, NewValue: b})
		}
	}
	return changes
}

// Loader assembles a Config from defaults, a file and the environment.
type Loader struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem reads files through fsys.
func WithFileSystem(fsys loader.FileSystem) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithEnv sets the environment source. Pass nil to ignore the environment.
func WithEnv(env *loader.EnvLoader) LoaderOption {
	return func(l *Loader) {
		l.env = env
	}
}

// NewLoader creates a loader reading the OS file system and TEXTCORE_*
// variables.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the defaults overlaid with the file at path (skipped when
// path is empty or the file is missing) and the environment, validated.
func (l *Loader) Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := loader.ReadInto(l.fs, path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if l.env != nil {
		vars, err := l.env.Load()
		if err != nil {
			return Config{}, err
		}
		for _, p := range slices.Sorted(maps.Keys(vars)) {
			err := cfg.Set(p, vars[p])
			if errors.Is(err, ErrSettingNotFound) {
				continue
			}
			if err != nil {
				return Config{}, fmt.Errorf("environment: %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile loads path with the default loader.
func LoadFile(path string) (Config, error) {
	return NewLoader().Load(path)
}
