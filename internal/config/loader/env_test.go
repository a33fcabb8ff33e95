package loader

import (
	"testing"
)

func fakeEnviron(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = fakeEnviron(
		"TEXTCORE_TAB_WIDTH=2",
		"TEXTCORE_LOG_LEVEL=debug",
		"TEXTCORE_MEASURE_TAB_AS_WHITESPACE=off",
		"HOME=/root",
	)

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val := config["measure.tab_width"]; val != int64(2) {
		t.Errorf("measure.tab_width = %v (%T), want 2", val, val)
	}
	if val := config["logging.level"]; val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
	if val := config["measure.tab_as_whitespace"]; val != false {
		t.Errorf("measure.tab_as_whitespace = %v, want false", val)
	}
	if len(config) != 3 {
		t.Errorf("expected 3 settings, got %d: %v", len(config), config)
	}
}

func TestEnvLoader_MappingWins(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = fakeEnviron("TEXTCORE_MEASURE_TAB_WIDTH=8", "TEXTCORE_TAB_WIDTH=3")

	config, _ := l.Load()
	if val := config["measure.tab_width"]; val != int64(3) {
		t.Errorf("measure.tab_width = %v, want 3", val)
	}
}

func TestEnvLoader_CustomMapping(t *testing.T) {
	l := NewEnvLoaderWithMapping("APP_", map[string]string{})
	l.AddMapping("APP_EOL", "editor.line_ending")
	l.environ = fakeEnviron("APP_EOL=crlf")

	config, _ := l.Load()
	if val := config["editor.line_ending"]; val != "crlf" {
		t.Errorf("editor.line_ending = %v, want 'crlf'", val)
	}

	l.RemoveMapping("APP_EOL")
	config, _ = l.Load()
	if _, ok := config["editor.line_ending"]; ok {
		t.Error("expected removed mapping to be ignored")
	}
	if val := config["eol"]; val != "crlf" {
		t.Errorf("eol = %v, want 'crlf'", val)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)

	tests := []struct {
		env      string
		expected string
	}{
		{"TEXTCORE_EDITOR_THREAD_SAFE", "editor.thread_safe"},
		{"TEXTCORE_MEASURE_TAB_WIDTH", "measure.tab_width"},
		{"TEXTCORE_SIMPLE", "simple"},
		{"TEXTCORE_EDITOR_INDEXER_CACHE_CAPACITY", "editor.indexer_cache_capacity"},
	}

	for _, tt := range tests {
		got := l.envToPath(tt.env)
		if got != tt.expected {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.expected)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"", ""},
		{"true", true},
		{"YES", true},
		{"off", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"-42", int64(-42)},
		{"1.5", 1.5},
		{"lf", "lf"},
	}

	for _, tt := range tests {
		if got := parseValue(tt.input); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
		}
	}
}
