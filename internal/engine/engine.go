package engine

import (
	"io"
	"sync"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/diag"
	"github.com/dshills/textcore/internal/engine/cursor"
	"github.com/dshills/textcore/internal/engine/glyph"
	"github.com/dshills/textcore/internal/engine/measure"
	"github.com/dshills/textcore/internal/engine/textmodel"
)

// Re-export commonly used types for convenience.
type (
	// Position is a (line, column, index) triple.
	Position = textmodel.Position

	// Span is the region affected by an edit.
	Span = textmodel.Span

	// LineEnding specifies the line ending style.
	LineEnding = textmodel.LineEnding

	// Listener observes edits.
	Listener = textmodel.Listener

	// ListenerID identifies a registered listener.
	ListenerID = textmodel.ListenerID
)

// Re-export constants.
const (
	LineEndingLF     = textmodel.LineEndingLF
	LineEndingCRLF   = textmodel.LineEndingCRLF
	LineEndingCR     = textmodel.LineEndingCR
	LineEndingNative = textmodel.LineEndingNative
)

// Engine combines a text model, its cursor and its measurement cache into
// one thread-safe API.
//
// Edits made through the Engine are serialized with each other, so compound
// edits like Replace are atomic with respect to other Engine calls. The
// components remain reachable for direct use.
type Engine struct {
	mu sync.RWMutex

	// Core components
	model   *textmodel.Model
	cursor  *cursor.Cursor
	measure *measure.Cache

	// Configuration
	cfg      config.Config
	provider measure.WidthProvider
	logger   *diag.Logger
	readOnly bool
	closed   bool

	// Initialization
	initContent string
}

// New creates an engine from the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	mopts := append(e.modelOptions(), textmodel.WithLineEnding(e.cfg.LineEnding()))
	e.attach(textmodel.NewFromString(e.initContent, mopts...))
	return e
}

// NewFromReader creates an engine whose content is read from r. The line
// ending is detected from the content, not taken from the configuration; a
// UTF-8 byte order mark is skipped.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	m, err := textmodel.NewFromReader(r, e.modelOptions()...)
	if err != nil {
		return nil, err
	}
	e.attach(m)
	return e, nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		cfg:      config.Default(),
		provider: glyph.Cells{},
		logger:   diag.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("engine")
	return e
}

// modelOptions excludes the line ending, which readers detect.
func (e *Engine) modelOptions() []textmodel.Option {
	return []textmodel.Option{
		textmodel.WithThreadSafe(e.cfg.Editor.ThreadSafe),
		textmodel.WithIndexerOptions(
			textmodel.WithCacheCapacity(e.cfg.Editor.IndexerCacheCapacity),
			textmodel.WithCacheEnabled(e.cfg.Editor.IndexerCache),
		),
	}
}

// attach wires a fresh cursor and measurement cache to m.
func (e *Engine) attach(m *textmodel.Model) {
	e.model = m
	e.cursor = cursor.New(m)
	e.measure = measure.New(m, e.provider,
		measure.WithTabWidth(e.cfg.Measure.TabWidth),
		measure.WithTabAsWhitespace(e.cfg.Measure.TabAsWhitespace),
		measure.WithMaxOffset(e.cfg.Measure.MaxOffset),
		measure.WithLogger(e.logger),
	)
}

// Components

// Model returns the current text model.
func (e *Engine) Model() *textmodel.Model {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model
}

// Cursor returns the cursor of the current model.
func (e *Engine) Cursor() *cursor.Cursor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursor
}

// Measure returns the measurement cache.
func (e *Engine) Measure() *measure.Cache {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.measure
}

// Config returns the active configuration.
func (e *Engine) Config() config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// IsReadOnly returns true if the engine rejects edits.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// Read Operations

// Text returns the document with LF line breaks.
func (e *Engine) Text() string {
	return e.Model().String()
}

// TextRange returns the text in [start, end), or "" if the range is invalid.
func (e *Engine) TextRange(start, end int) string {
	s, err := e.Model().Slice(start, end)
	if err != nil {
		return ""
	}
	return s
}

// Len returns the document length in characters.
func (e *Engine) Len() int {
	return e.Model().Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.Model().LineCount()
}

// LineText returns the text of a line.
func (e *Engine) LineText(line int) (string, error) {
	return e.Model().Line(line)
}

// Position resolves a flat index.
func (e *Engine) Position(index int) (Position, error) {
	return e.Model().Position(index)
}

// Index resolves (line, column) to a flat index.
func (e *Engine) Index(line, column int) (int, error) {
	return e.Model().Index(line, column)
}

// CharWidth returns the display width of the character at (line, column).
func (e *Engine) CharWidth(line, column int) (float32, error) {
	return e.Measure().CharWidth(line, column)
}

// OffsetAt returns the offset of column within its line, summed from stored
// widths. Tab settings are not applied; see measure.Cache.OffsetAt.
func (e *Engine) OffsetAt(line, column int) (float32, error) {
	return e.Measure().OffsetAt(line, column)
}

// WriteTo writes the document using its line ending.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	return e.Model().WriteTo(w)
}

// Write Operations

// Insert inserts text at index and returns the index just past it.
func (e *Engine) Insert(index int, text string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.writable(); err != nil {
		return 0, err
	}
	return e.insert(index, text)
}

func (e *Engine) insert(index int, text string) (int, error) {
	span, err := e.model.Insert(index, text)
	if err != nil {
		return 0, err
	}
	return e.model.Index(span.EndLine, span.EndColumn)
}

// Delete removes the text in [start, end).
func (e *Engine) Delete(start, end int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.writable(); err != nil {
		return err
	}
	return e.model.Delete(start, end)
}

// Replace replaces [start, end) with text and returns the index just past
// the new text. The range is validated before anything is deleted.
func (e *Engine) Replace(start, end int, text string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.writable(); err != nil {
		return 0, err
	}
	return e.replace(start, end, text)
}

func (e *Engine) replace(start, end int, text string) (int, error) {
	if _, err := e.model.Slice(start, end); err != nil {
		return 0, err
	}
	if err := e.model.Delete(start, end); err != nil {
		return 0, err
	}
	return e.insert(start, text)
}

// InsertAtCursor replaces the selection, if any, with text. The caret ends
// up after the inserted text.
func (e *Engine) InsertAtCursor(text string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.writable(); err != nil {
		return 0, err
	}
	start, end := e.cursor.Range()
	return e.replace(start, end, text)
}

// DeleteSelection removes the selected text. It is a no-op without a
// selection.
func (e *Engine) DeleteSelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.writable(); err != nil {
		return err
	}
	start, end := e.cursor.Range()
	return e.model.Delete(start, end)
}

// Backspace deletes the selection, or the character before the caret.
func (e *Engine) Backspace() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.writable(); err != nil {
		return err
	}
	start, end := e.cursor.Range()
	if start == end {
		if start == 0 {
			return nil
		}
		start--
	}
	return e.model.Delete(start, end)
}

// DeleteForward deletes the selection, or the character after the caret.
func (e *Engine) DeleteForward() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.writable(); err != nil {
		return err
	}
	start, end := e.cursor.Range()
	if start == end {
		if end == e.model.Len() {
			return nil
		}
		end++
	}
	return e.model.Delete(start, end)
}

func (e *Engine) writable() error {
	if e.closed {
		return ErrClosed
	}
	if e.readOnly {
		return ErrReadOnly
	}
	return nil
}

// Document swapping

// SetModel makes m the engine's document. The old model's cursor is
// detached and the measurement cache is rebuilt for m.
func (e *Engine) SetModel(m *textmodel.Model) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if err := e.measure.SetTextModel(m); err != nil {
		return err
	}
	e.cursor.Detach()
	e.model = m
	e.cursor = cursor.New(m)
	e.logger.Info("model swapped: %d lines, %d characters", m.LineCount(), m.Len())
	return nil
}

// Load reads a new document from r and makes it current.
func (e *Engine) Load(r io.Reader) error {
	e.mu.RLock()
	opts := e.modelOptions()
	e.mu.RUnlock()

	m, err := textmodel.NewFromReader(r, opts...)
	if err != nil {
		return err
	}
	return e.SetModel(m)
}

// Listeners

// AddListener registers a general edit listener on the current model.
func (e *Engine) AddListener(l Listener) ListenerID {
	return e.Model().AddListener(l)
}

// RemoveListener unregisters a listener from the current model.
func (e *Engine) RemoveListener(id ListenerID) bool {
	return e.Model().RemoveListener(id)
}

// Close detaches the cursor and destroys the measurement cache. Read
// operations on the model keep working.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.cursor.Detach()
	e.measure.Destroy()
}
