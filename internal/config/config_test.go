package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/textcore/internal/config/loader"
	"github.com/dshills/textcore/internal/diag"
	"github.com/dshills/textcore/internal/engine/textmodel"
)

func noEnv() *loader.EnvLoader {
	return loader.NewEnvLoaderWithMapping("TEXTCORE_TEST_UNUSED_", map[string]string{})
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if !cfg.Editor.ThreadSafe || !cfg.Editor.IndexerCache {
		t.Error("expected thread safety and indexer cache on by default")
	}
	if cfg.Editor.IndexerCacheCapacity != textmodel.DefaultCacheCapacity {
		t.Errorf("expected capacity %d, got %d", textmodel.DefaultCacheCapacity, cfg.Editor.IndexerCacheCapacity)
	}
	if cfg.Measure.TabWidth != 4 || !cfg.Measure.TabAsWhitespace || cfg.Measure.MaxOffset {
		t.Errorf("unexpected measure defaults %+v", cfg.Measure)
	}
	if cfg.LineEnding() != textmodel.LineEndingLF {
		t.Errorf("expected LF, got %v", cfg.LineEnding())
	}
	if cfg.LogLevel() != diag.LevelInfo {
		t.Errorf("expected info, got %v", cfg.LogLevel())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"tab width zero", func(c *Config) { c.Measure.TabWidth = 0 }, "measure.tab_width"},
		{"tab width too wide", func(c *Config) { c.Measure.TabWidth = 17 }, "measure.tab_width"},
		{"capacity", func(c *Config) { c.Editor.IndexerCacheCapacity = 0 }, "editor.indexer_cache_capacity"},
		{"line ending", func(c *Config) { c.Editor.LineEnding = "lfcr" }, "editor.line_ending"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Errorf("expected violation at %s, got %v", tt.path, err)
			}
		})
	}

	cfg := Default()
	cfg.Measure.TabWidth = MaxTabWidth
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected tab width %d to be valid, got %v", MaxTabWidth, err)
	}
}

func TestSetAndGet(t *testing.T) {
	tests := []struct {
		path  string
		value any
		want  any
	}{
		{"measure.tab_width", int64(8), 8},
		{"measure.tab_width", "2", 2},
		{"measure.tab_width", 3.0, 3},
		{"measure.max_offset", true, true},
		{"measure.max_offset", int64(0), false},
		{"editor.thread_safe", "false", false},
		{"editor.line_ending", "crlf", "crlf"},
		{"logging.level", "debug", "debug"},
	}

	for _, tt := range tests {
		cfg := Default()
		if err := cfg.Set(tt.path, tt.value); err != nil {
			t.Fatalf("Set(%s, %v) failed: %v", tt.path, tt.value, err)
		}
		got, err := cfg.Get(tt.path)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Get(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSetErrors(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("editor.colour", "red"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound, got %v", err)
	}
	if err := cfg.Set("measure.tab_width", "wide"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if err := cfg.Set("measure.tab_width", 2.5); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if err := cfg.Set("editor.thread_safe", int64(2)); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if err := cfg.Set("logging.level", 3); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if cfg != Default() {
		t.Errorf("failed sets modified config: %+v", cfg)
	}
}

func TestPaths(t *testing.T) {
	paths := Paths()
	if len(paths) != 8 {
		t.Fatalf("expected 8 settings, got %d", len(paths))
	}
	if paths[0] != "editor.indexer_cache" || paths[len(paths)-1] != "measure.tab_width" {
		t.Errorf("expected sorted paths, got %v", paths)
	}
}

func TestDiff(t *testing.T) {
	old := Default()
	updated := Default()
	updated.Measure.TabWidth = 8
	updated.Logging.Level = "debug"

	changes := Diff(old, updated)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %v", changes)
	}
	if changes[0].Path != "logging.level" || changes[0].OldValue != "info" || changes[0].NewValue != "debug" {
		t.Errorf("unexpected first change %+v", changes[0])
	}
	if changes[1].Path != "measure.tab_width" || changes[1].NewValue != 8 {
		t.Errorf("unexpected second change %+v", changes[1])
	}
	if len(Diff(old, old)) != 0 {
		t.Error("expected no changes between equal configs")
	}
}

func TestLoaderTOML(t *testing.T) {
	memfs := loader.NewMemFS()
	memfs.AddFile("/etc/textcore.toml", `
[editor]
thread_safe = false
line_ending = "crlf"

[measure]
tab_width = 8
`)

	cfg, err := NewLoader(WithFileSystem(memfs), WithEnv(noEnv())).Load("/etc/textcore.toml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Editor.ThreadSafe {
		t.Error("expected thread_safe false")
	}
	if cfg.LineEnding() != textmodel.LineEndingCRLF {
		t.Errorf("expected CRLF, got %v", cfg.LineEnding())
	}
	if cfg.Measure.TabWidth != 8 {
		t.Errorf("expected tab width 8, got %d", cfg.Measure.TabWidth)
	}
	if !cfg.Measure.TabAsWhitespace || cfg.Logging.Level != "info" {
		t.Errorf("expected unset settings to keep defaults, got %+v", cfg)
	}
}

func TestLoaderYAML(t *testing.T) {
	memfs := loader.NewMemFS()
	memfs.AddFile("/cfg/textcore.yml", "measure:\n  max_offset: true\nlogging:\n  level: warn\n")

	cfg, err := NewLoader(WithFileSystem(memfs), WithEnv(noEnv())).Load("/cfg/textcore.yml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.Measure.MaxOffset {
		t.Error("expected max_offset true")
	}
	if cfg.LogLevel() != diag.LevelWarn {
		t.Errorf("expected warn, got %v", cfg.LogLevel())
	}
}

func TestLoaderMissingFileGivesDefaults(t *testing.T) {
	cfg, err := NewLoader(WithFileSystem(loader.NewMemFS()), WithEnv(noEnv())).Load("/nope.toml")
	if err != nil {
		t.Fatalf("expected missing file to be fine, got %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoaderErrors(t *testing.T) {
	memfs := loader.NewMemFS()
	memfs.AddFile("/bad.toml", "[measure]\ntab_width = \"four\"\n")
	memfs.AddFile("/wide.toml", "[measure]\ntab_width = 40\n")
	memfs.AddFile("/a.json", "{}")

	l := NewLoader(WithFileSystem(memfs), WithEnv(noEnv()))

	var perr *ParseError
	if _, err := l.Load("/bad.toml"); !errors.As(err, &perr) {
		t.Errorf("expected *ParseError, got %v", err)
	} else if perr.Path != "/bad.toml" {
		t.Errorf("expected path /bad.toml, got %q", perr.Path)
	}

	if _, err := l.Load("/wide.toml"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := l.Load("/a.json"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestLoaderEnvironmentOverrides(t *testing.T) {
	t.Setenv("TEXTCORE_TAB_WIDTH", "2")
	t.Setenv("TEXTCORE_THREAD_SAFE", "false")
	t.Setenv("TEXTCORE_LOG_LEVEL", "error")
	t.Setenv("TEXTCORE_MEASURE_MAX_OFFSET", "yes")
	t.Setenv("TEXTCORE_CONFIG", "/somewhere/else.toml")

	memfs := loader.NewMemFS()
	memfs.AddFile("/c.toml", "[measure]\ntab_width = 8\n")

	cfg, err := NewLoader(WithFileSystem(memfs)).Load("/c.toml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Measure.TabWidth != 2 {
		t.Errorf("expected environment to override file tab width, got %d", cfg.Measure.TabWidth)
	}
	if cfg.Editor.ThreadSafe {
		t.Error("expected thread safety off")
	}
	if cfg.LogLevel() != diag.LevelError {
		t.Errorf("expected error level, got %v", cfg.LogLevel())
	}
	if !cfg.Measure.MaxOffset {
		t.Error("expected max offset on")
	}
}

func TestLoaderEnvironmentInvalid(t *testing.T) {
	t.Setenv("TEXTCORE_TAB_WIDTH", "wide")

	_, err := NewLoader(WithFileSystem(loader.NewMemFS())).Load("")
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "environment: ") {
		t.Errorf("expected environment prefix, got %q", err.Error())
	}
}
