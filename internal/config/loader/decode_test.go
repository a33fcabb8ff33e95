package loader

import (
	"errors"
	"testing"
)

type sample struct {
	Editor struct {
		Name  string `toml:"name" yaml:"name"`
		Width int    `toml:"width" yaml:"width"`
	} `toml:"editor" yaml:"editor"`
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"/etc/textcore.toml", FormatTOML},
		{"config.YAML", FormatYAML},
		{"config.yml", FormatYAML},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatFor(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
		}
	}

	if _, err := FormatFor("config.json"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestReadInto(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", "[editor]\nname = \"toml\"\nwidth = 3\n")
	memfs.AddFile("/b.yaml", "editor:\n  name: yaml\n  width: 5\n")

	var a, b sample
	if found, err := ReadInto(memfs, "/a.toml", &a); !found || err != nil {
		t.Fatalf("toml read: found=%v err=%v", found, err)
	}
	if a.Editor.Name != "toml" || a.Editor.Width != 3 {
		t.Errorf("unexpected toml result %+v", a)
	}
	if found, err := ReadInto(memfs, "/b.yaml", &b); !found || err != nil {
		t.Fatalf("yaml read: found=%v err=%v", found, err)
	}
	if b.Editor.Name != "yaml" || b.Editor.Width != 5 {
		t.Errorf("unexpected yaml result %+v", b)
	}
}

func TestReadIntoMissingFile(t *testing.T) {
	var s sample
	s.Editor.Width = 9

	found, err := ReadInto(NewMemFS(), "/missing.toml", &s)
	if found || err != nil {
		t.Errorf("expected not found without error, got found=%v err=%v", found, err)
	}
	if s.Editor.Width != 9 {
		t.Errorf("expected target untouched, got %+v", s)
	}
}

func TestDecodeKeepsUnsetFields(t *testing.T) {
	var s sample
	s.Editor.Width = 7

	if err := Decode("inline", FormatTOML, []byte("[editor]\nname = \"x\"\n"), &s); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.Editor.Width != 7 {
		t.Errorf("expected width to keep its default, got %d", s.Editor.Width)
	}
	if err := Decode("empty", FormatYAML, nil, &s); err != nil {
		t.Errorf("expected empty yaml to decode, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		line   int
	}{
		{"toml syntax", FormatTOML, "[editor]\nname = \n", 0},
		{"toml unknown key", FormatTOML, "[editor]\nname = \"x\"\ncolour = 1\n", 3},
		{"yaml syntax", FormatYAML, "editor:\n  name: [x\n", 0},
		{"yaml unknown key", FormatYAML, "editor:\n  colour: red\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s sample
			err := Decode("test", tt.format, []byte(tt.data), &s)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Path != "test" {
				t.Errorf("expected path 'test', got %q", perr.Path)
			}
			if tt.line > 0 && perr.Line != tt.line {
				t.Errorf("expected line %d, got %d (%v)", tt.line, perr.Line, err)
			}
			if perr.Unwrap() == nil {
				t.Error("expected wrapped library error")
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a.toml", Line: 2, Column: 5, Message: "bad"}, "parse error in a.toml at line 2, column 5: bad"},
		{ParseError{Path: "a.yaml", Line: 3, Message: "bad"}, "parse error in a.yaml at line 3: bad"},
		{ParseError{Path: "x", Message: "bad"}, "parse error in x: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
