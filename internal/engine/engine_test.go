package engine

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/diag"
	"github.com/dshills/textcore/internal/engine/glyph"
	"github.com/dshills/textcore/internal/engine/textmodel"
)

func TestNew(t *testing.T) {
	e := New()
	defer e.Close()

	if e.Len() != 0 {
		t.Errorf("expected empty engine, got length %d", e.Len())
	}
	if e.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", e.LineCount())
	}
	if e.Model().ListenerCount() != 1 {
		t.Errorf("expected the measure cache as the only listener, got %d", e.Model().ListenerCount())
	}
}

func TestInsert(t *testing.T) {
	e := New()
	defer e.Close()

	end, err := e.Insert(0, "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 5 {
		t.Errorf("expected end position 5, got %d", end)
	}

	end, err = e.Insert(5, ",\r\nWorld!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 13 {
		t.Errorf("expected end position 13, got %d", end)
	}
	if e.Text() != "Hello,\nWorld!" {
		t.Errorf("expected %q, got %q", "Hello,\nWorld!", e.Text())
	}
}

func TestInsertOutOfRange(t *testing.T) {
	e := New(WithContent("Hello"))
	defer e.Close()

	if _, err := e.Insert(100, "text"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if e.Model().Revision() != 0 {
		t.Error("failed insert changed the document")
	}
}

func TestDelete(t *testing.T) {
	e := New(WithContent("Hello, World!"))
	defer e.Close()

	if err := e.Delete(5, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "HelloWorld!" {
		t.Errorf("expected %q, got %q", "HelloWorld!", e.Text())
	}
	if err := e.Delete(4, 2); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestReplace(t *testing.T) {
	e := New(WithContent("Hello, World!"))
	defer e.Close()

	end, err := e.Replace(7, 12, "Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 9 {
		t.Errorf("expected end position 9, got %d", end)
	}
	if e.Text() != "Hello, Go!" {
		t.Errorf("expected %q, got %q", "Hello, Go!", e.Text())
	}

	if _, err := e.Replace(8, 50, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if e.Text() != "Hello, Go!" {
		t.Errorf("failed replace modified text: %q", e.Text())
	}
}

func TestCursorEditing(t *testing.T) {
	e := New(WithContent("Hello, World!"))
	defer e.Close()
	c := e.Cursor()

	if err := c.Select(7, 12); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if _, err := e.InsertAtCursor("Go"); err != nil {
		t.Fatalf("insert at cursor failed: %v", err)
	}
	if e.Text() != "Hello, Go!" {
		t.Errorf("expected %q, got %q", "Hello, Go!", e.Text())
	}
	if c.IsSelected() || c.Left().Index != 9 {
		t.Errorf("expected caret after inserted text, got %v", c)
	}

	if err := e.Backspace(); err != nil {
		t.Fatalf("backspace failed: %v", err)
	}
	if e.Text() != "Hello, G!" || c.Left().Index != 8 {
		t.Errorf("unexpected state after backspace: %q %v", e.Text(), c)
	}

	if err := e.DeleteForward(); err != nil {
		t.Fatalf("delete forward failed: %v", err)
	}
	if e.Text() != "Hello, G" {
		t.Errorf("expected %q, got %q", "Hello, G", e.Text())
	}
	if err := e.DeleteForward(); err != nil || e.Text() != "Hello, G" {
		t.Errorf("expected delete at end to be a no-op, got %q (%v)", e.Text(), err)
	}

	_ = c.Select(0, 7)
	if err := e.DeleteSelection(); err != nil {
		t.Fatalf("delete selection failed: %v", err)
	}
	if e.Text() != "G" {
		t.Errorf("expected %q, got %q", "G", e.Text())
	}
	if err := e.Backspace(); err != nil || e.Text() != "G" {
		t.Errorf("expected backspace at start to be a no-op, got %q (%v)", e.Text(), err)
	}
}

func TestReadOnly(t *testing.T) {
	e := New(WithContent("fixed"), WithReadOnly())
	defer e.Close()

	if !e.IsReadOnly() {
		t.Error("expected read-only engine")
	}
	if _, err := e.Insert(0, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if err := e.Delete(0, 1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if _, err := e.Replace(0, 1, "y"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if e.Text() != "fixed" {
		t.Errorf("read-only engine modified: %q", e.Text())
	}
}

func TestMeasureFollowsEdits(t *testing.T) {
	e := New(WithContent("ab"), WithWidthProvider(glyph.Fixed(2)))
	defer e.Close()

	if _, err := e.Insert(1, "\t"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	n, err := e.Measure().RowLen(1)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 widths, got %d (%v)", n, err)
	}

	w, _ := e.CharWidth(1, 1)
	if w != 8 {
		t.Errorf("expected tab width 2*4=8, got %v", w)
	}
	x, _ := e.OffsetAt(1, 2)
	if x != 4 {
		t.Errorf("expected stored offset 4, got %v", x)
	}
}

func TestNewFromReader(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("\xef\xbb\xbfone\r\ntwo"))
	if err != nil {
		t.Fatalf("NewFromReader failed: %v", err)
	}
	defer e.Close()

	if e.Text() != "one\ntwo" {
		t.Errorf("expected %q, got %q", "one\ntwo", e.Text())
	}

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if buf.String() != "one\r\ntwo" {
		t.Errorf("expected CRLF round trip, got %q", buf.String())
	}
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.ThreadSafe = false
	cfg.Editor.IndexerCache = false
	cfg.Measure.TabWidth = 2

	e := New(WithConfig(cfg), WithContent("\tx"), WithWidthProvider(glyph.Fixed(1)))
	defer e.Close()

	if e.Model().SyncMode() != textmodel.Unsynchronized {
		t.Errorf("expected unsynchronized model, got %v", e.Model().SyncMode())
	}
	idx := e.Model().Indexer().Unwrap().(*textmodel.CachedIndexer)
	if idx.CacheUse() {
		t.Error("expected indexer cache disabled")
	}
	if w, _ := e.CharWidth(1, 0); w != 2 {
		t.Errorf("expected tab width 2, got %v", w)
	}
}

func TestApplyConfig(t *testing.T) {
	var out bytes.Buffer
	logger := diag.New(diag.Config{Level: diag.LevelInfo, Output: &out})

	e := New(WithContent("\tx"), WithWidthProvider(glyph.Fixed(1)), WithLogger(logger))
	defer e.Close()

	cfg := e.Config()
	cfg.Measure.TabWidth = 8
	cfg.Measure.MaxOffset = true
	cfg.Editor.IndexerCache = false
	cfg.Editor.ThreadSafe = false
	if err := e.ApplyConfig(cfg); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if w, _ := e.CharWidth(1, 0); w != 8 {
		t.Errorf("expected tab width 8, got %v", w)
	}
	if !e.Measure().MaxOffsetEnabled() {
		t.Error("expected max offset tracking on")
	}
	if e.Model().Indexer().Unwrap().(*textmodel.CachedIndexer).CacheUse() {
		t.Error("expected indexer cache off")
	}
	if e.Model().SyncMode() != textmodel.ReaderWriter {
		t.Error("thread safety must not change on a live model")
	}
	if e.Config() != cfg {
		t.Error("expected config to be recorded")
	}

	log := out.String()
	if !strings.Contains(log, "measure.tab_width: 4 -> 8") {
		t.Errorf("expected tab width change logged, got %q", log)
	}
	if !strings.Contains(log, "[WARN]") || !strings.Contains(log, "editor.thread_safe") {
		t.Errorf("expected deferred thread safety warning, got %q", log)
	}
}

func TestApplyConfigRejectsInvalid(t *testing.T) {
	e := New()
	defer e.Close()

	cfg := e.Config()
	cfg.Measure.TabWidth = 0
	if err := e.ApplyConfig(cfg); !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if e.Config().Measure.TabWidth != 4 {
		t.Error("invalid config was applied")
	}
}

func TestLoadSwapsModel(t *testing.T) {
	e := New(WithContent("old"), WithWidthProvider(glyph.Fixed(1)))
	defer e.Close()
	old := e.Model()

	if err := e.Load(strings.NewReader("new\ndocument")); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if e.Text() != "new\ndocument" {
		t.Errorf("expected new text, got %q", e.Text())
	}
	if old.ListenerCount() != 0 {
		t.Errorf("expected old model released, has %d listeners", old.ListenerCount())
	}
	if e.Cursor().Model() != e.Model() {
		t.Error("expected cursor on the new model")
	}

	_, _ = e.Insert(3, "er")
	if n, _ := e.Measure().RowLen(1); n != 5 {
		t.Errorf("expected measure to follow the new model, got %d widths", n)
	}
	if _, err := old.Insert(0, "x"); err != nil {
		t.Fatalf("old model edit failed: %v", err)
	}
	if e.Text() != "newer\ndocument" {
		t.Errorf("old model edit leaked into engine: %q", e.Text())
	}
}

func TestStats(t *testing.T) {
	e := New(WithContent("abc\ndef"), WithWidthProvider(glyph.Fixed(1)))
	defer e.Close()

	_, _ = e.Position(5)
	_, _ = e.Position(6)
	_ = e.Measure()
	cfg := e.Config()
	cfg.Measure.MaxOffset = true
	_ = e.ApplyConfig(cfg)

	s := e.Stats()
	if s.Lines != 2 || s.Length != 7 {
		t.Errorf("unexpected document stats %+v", s)
	}
	if s.Indexer.Hits+s.Indexer.Misses < 2 {
		t.Errorf("expected indexer lookups counted, got %+v", s.Indexer)
	}
	if s.MaxOffset != 3 {
		t.Errorf("expected max offset 3, got %v", s.MaxOffset)
	}
}

func TestClose(t *testing.T) {
	e := New(WithContent("abc"))
	e.Close()

	if _, err := e.Insert(0, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if e.Model().ListenerCount() != 0 {
		t.Error("expected measure cache detached")
	}
	if e.Text() != "abc" {
		t.Errorf("expected reads to keep working, got %q", e.Text())
	}
	e.Close()
}

func TestConcurrentEditsAndReads(t *testing.T) {
	e := New(WithContent(strings.Repeat("line\n", 50)))
	defer e.Close()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = e.Insert(0, "x\n")
				_ = e.Delete(0, 2)
			}
		}()
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = e.Text()
				_, _ = e.Position(e.Len() / 2)
				_, _ = e.Measure().RowLen(1)
			}
		}()
	}
	wg.Wait()

	if e.Text() != strings.Repeat("line\n", 50) {
		t.Error("expected balanced edits to restore the document")
	}
	for line := 1; line <= e.LineCount(); line++ {
		n, _ := e.Measure().RowLen(line)
		l, _ := e.Model().LineLen(line)
		if n != l {
			t.Fatalf("line %d: %d widths for %d characters", line, n, l)
		}
	}
}
