package textmodel

import (
	"errors"
	"strings"
	"testing"
)

func TestNewModel(t *testing.T) {
	m := New()

	if m.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", m.LineCount())
	}
	if m.Len() != 0 {
		t.Errorf("expected length 0, got %d", m.Len())
	}
	if !m.IsEmpty() {
		t.Error("expected empty model")
	}
	line, err := m.Line(1)
	if err != nil || line != "" {
		t.Errorf("expected empty first line, got %q (%v)", line, err)
	}
	if m.SyncMode() != ReaderWriter {
		t.Errorf("expected ReaderWriter, got %v", m.SyncMode())
	}
}

func TestNewFromString(t *testing.T) {
	m := NewFromString("ab\ncd\r\nef\rgh")

	want := []string{"ab", "cd", "ef", "gh"}
	if m.LineCount() != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), m.LineCount())
	}
	for i, w := range want {
		got, _ := m.Line(i + 1)
		if got != w {
			t.Errorf("line %d: expected %q, got %q", i+1, w, got)
		}
	}
	if m.Len() != 11 {
		t.Errorf("expected length 11, got %d", m.Len())
	}
}

func TestNewFromLines(t *testing.T) {
	m := NewFromLines([]string{"a", "b", ""})

	if m.String() != "a\nb\n" {
		t.Errorf("expected %q, got %q", "a\nb\n", m.String())
	}
	if m.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", m.LineCount())
	}
	if m.Len() != 4 {
		t.Errorf("expected length 4, got %d", m.Len())
	}
}

func TestStringRoundTrip(t *testing.T) {
	texts := []string{"", "a", "\n", "ab\ncd", "\n\n\n", "héllo\nwörld\n", "tab\there\n\nend"}

	for _, text := range texts {
		m := NewFromString(text)
		if m.String() != text {
			t.Errorf("expected %q, got %q", text, m.String())
		}
		if m.LineCount() != strings.Count(text, "\n")+1 {
			t.Errorf("%q: expected %d lines, got %d", text, strings.Count(text, "\n")+1, m.LineCount())
		}
	}
}

func TestRuneAt(t *testing.T) {
	m := NewFromString("ab\ncd")

	tests := []struct {
		index int
		want  rune
	}{
		{0, 'a'},
		{1, 'b'},
		{2, '\n'},
		{3, 'c'},
		{4, 'd'},
	}
	for _, tt := range tests {
		got, err := m.RuneAt(tt.index)
		if err != nil {
			t.Errorf("RuneAt(%d): unexpected error %v", tt.index, err)
			continue
		}
		if got != tt.want {
			t.Errorf("RuneAt(%d): expected %q, got %q", tt.index, tt.want, got)
		}
	}

	if _, err := m.RuneAt(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if r, err := m.RuneAtPos(1, 2); err != nil || r != '\n' {
		t.Errorf("expected virtual newline, got %q (%v)", r, err)
	}
	if _, err := m.RuneAtPos(2, 2); !errors.Is(err, ErrColumnOutOfRange) {
		t.Errorf("expected ErrColumnOutOfRange on last line, got %v", err)
	}
	if _, err := m.RuneAtPos(3, 0); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestSlice(t *testing.T) {
	m := NewFromString("ab\ncd\nef")

	s, err := m.Slice(1, 4)
	if err != nil || s != "b\nc" {
		t.Errorf("expected %q, got %q (%v)", "b\nc", s, err)
	}
	s, err = m.SlicePos(1, 1, 3, 1)
	if err != nil || s != "b\ncd\ne" {
		t.Errorf("expected %q, got %q (%v)", "b\ncd\ne", s, err)
	}
	s, err = m.Slice(0, m.Len())
	if err != nil || s != m.String() {
		t.Errorf("expected whole document, got %q (%v)", s, err)
	}

	if _, err := m.Slice(3, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := m.SlicePos(2, 0, 1, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := m.SlicePos(1, 2, 1, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for reversed columns, got %v", err)
	}
	if _, err := m.Slice(0, 9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestLineAccessors(t *testing.T) {
	m := NewFromString("héllo\nx")

	n, err := m.LineLen(1)
	if err != nil || n != 5 {
		t.Errorf("expected length 5, got %d (%v)", n, err)
	}
	r, err := m.LineRunes(1)
	if err != nil || string(r) != "héllo" {
		t.Errorf("expected runes of 'héllo', got %q (%v)", string(r), err)
	}
	r[0] = 'X'
	if line, _ := m.Line(1); line != "héllo" {
		t.Errorf("LineRunes shares storage: %q", line)
	}
	if _, err := m.Line(0); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestTextLineEndings(t *testing.T) {
	m := NewFromString("a\nb")

	tests := []struct {
		le   LineEnding
		want string
	}{
		{LineEndingLF, "a\nb"},
		{LineEndingCRLF, "a\r\nb"},
		{LineEndingCR, "a\rb"},
		{LineEndingNative, "a" + LineEndingNative.Sequence() + "b"},
	}
	for _, tt := range tests {
		if got := m.Text(tt.le); got != tt.want {
			t.Errorf("%v: expected %q, got %q", tt.le, tt.want, got)
		}
	}

	want := "a" + LineEndingNative.Sequence() + "b\x00"
	if m.CString() != want {
		t.Errorf("expected %q, got %q", want, m.CString())
	}
}

func TestParseLineEnding(t *testing.T) {
	tests := []struct {
		in   string
		want LineEnding
		ok   bool
	}{
		{"lf", LineEndingLF, true},
		{"CRLF", LineEndingCRLF, true},
		{"cr", LineEndingCR, true},
		{"native", LineEndingNative, true},
		{"unix", LineEndingLF, false},
	}
	for _, tt := range tests {
		got, ok := ParseLineEnding(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("%q: expected (%v, %v), got (%v, %v)", tt.in, tt.want, tt.ok, got, ok)
		}
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"no breaks", LineEndingLF},
		{"a\nb\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
		{"a\r\nb\nc\r\n", LineEndingCRLF},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.text, tt.want, got)
		}
	}
}

func TestModelEqual(t *testing.T) {
	a := NewFromString("x\ny")
	b := NewFromLines([]string{"x", "y"})
	c := NewFromString("x\nz")

	if !a.Equal(b) {
		t.Error("expected equal models")
	}
	if a.Equal(c) {
		t.Error("expected different models")
	}
	if !a.Equal(a) {
		t.Error("expected model to equal itself")
	}
}

func TestIterators(t *testing.T) {
	m := NewFromString("ab\nc")

	var lines []string
	for n, text := range m.All() {
		if n != len(lines)+1 {
			t.Errorf("expected line number %d, got %d", len(lines)+1, n)
		}
		lines = append(lines, text)
	}
	if strings.Join(lines, "|") != "ab|c" {
		t.Errorf("expected ab|c, got %q", strings.Join(lines, "|"))
	}

	var sb strings.Builder
	for i, r := range m.Runes() {
		got, _ := m.RuneAt(i)
		if got != r {
			t.Errorf("index %d: expected %q, got %q", i, got, r)
		}
		sb.WriteRune(r)
	}
	if sb.String() != "ab\nc" {
		t.Errorf("expected %q, got %q", "ab\nc", sb.String())
	}
}

func TestNewFromReader(t *testing.T) {
	m, err := NewFromReader(strings.NewReader("\xef\xbb\xbfa\r\nb\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.String() != "a\nb\n" {
		t.Errorf("expected %q, got %q", "a\nb\n", m.String())
	}
	if m.LineEnding() != LineEndingCRLF {
		t.Errorf("expected CRLF, got %v", m.LineEnding())
	}

	var sb strings.Builder
	n, err := m.WriteTo(&sb)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if sb.String() != "a\r\nb\r\n" || n != int64(sb.Len()) {
		t.Errorf("expected %q (%d bytes), got %q (%d)", "a\r\nb\r\n", sb.Len(), sb.String(), n)
	}
}

func TestNewFromReaderOverrides(t *testing.T) {
	m, err := NewFromReader(strings.NewReader("a\r\nb"), WithLineEnding(LineEndingLF))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.LineEnding() != LineEndingLF {
		t.Errorf("expected option to override detection, got %v", m.LineEnding())
	}
}

func TestNewFromReaderRejectsUTF16(t *testing.T) {
	_, err := NewFromReader(strings.NewReader("\xff\xfea\x00"))
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("expected ErrUnsupportedEncoding, got %v", err)
	}
}

func TestUnsynchronizedMode(t *testing.T) {
	m := NewFromString("abc", WithThreadSafe(false))

	if m.SyncMode() != Unsynchronized {
		t.Errorf("expected Unsynchronized, got %v", m.SyncMode())
	}
	if _, err := m.Insert(3, "d"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if m.String() != "abcd" {
		t.Errorf("expected 'abcd', got %q", m.String())
	}
}

func TestModelRead(t *testing.T) {
	m := NewFromString("one\ntwo")

	m.Read(func(v View) {
		if v.LineCount() != 2 {
			t.Errorf("expected 2 lines, got %d", v.LineCount())
		}
		if v.LineText(2) != "two" {
			t.Errorf("expected 'two', got %q", v.LineText(2))
		}
		pos, err := v.Indexer().CharPosition(5)
		if err != nil || pos.Line != 2 || pos.Column != 1 {
			t.Errorf("expected (2:1), got %v (%v)", pos, err)
		}
	})
}
