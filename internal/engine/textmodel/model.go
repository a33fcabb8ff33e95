package textmodel

import (
	"iter"
	"strings"
	"sync/atomic"

	"github.com/dshills/textcore/internal/engine/bounds"
	"github.com/dshills/textcore/internal/engine/linebuf"
)

// Model is a mutable multi-line document: an ordered sequence of lines that
// is never empty, a running length, and the edit notification hub.
//
// Invariants: the line count is the number of line breaks plus one, and
// Len is the sum of all line lengths plus LineCount-1.
type Model struct {
	id    uint64
	guard guard
	mode  SyncMode

	lines    []*linebuf.Line
	length   int
	revision uint64

	indexer        Indexer
	indexerFactory func(View) Indexer
	indexerOpts    []IndexerOption
	cursor         Listener
	listeners      []listenerEntry

	lineEnding   LineEnding
	lineCapacity int
}

// New creates an empty model holding one empty line.
func New(opts ...Option) *Model {
	return build("", opts)
}

// NewFromString creates a model from a block of text, split on line breaks.
// CRLF and CR breaks are normalized to LF.
func NewFromString(text string, opts ...Option) *Model {
	return build(normalizeLineEndings(text), opts)
}

// NewFromLines creates a model whose lines are the given strings. Line
// breaks are placed between entries, not after the last.
func NewFromLines(lines []string, opts ...Option) *Model {
	return NewFromString(strings.Join(lines, "\n"), opts...)
}

// modelSeq numbers models so pairs of them are always locked in the same
// order.
var modelSeq atomic.Uint64

func build(text string, opts []Option) *Model {
	m := &Model{
		id:           modelSeq.Add(1),
		mode:         ReaderWriter,
		lineEnding:   LineEndingLF,
		lineCapacity: DefaultLineCapacity,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.guard = newGuard(m.mode)

	parts := strings.Split(text, "\n")
	m.lines = make([]*linebuf.Line, len(parts), max(len(parts), m.lineCapacity))
	m.length = len(parts) - 1
	for i, p := range parts {
		m.lines[i] = linebuf.FromString(p)
		m.length += m.lines[i].Len()
	}

	if m.indexerFactory != nil {
		m.indexer = m.indexerFactory(m.view())
	} else {
		m.indexer = NewCachedIndexer(m.view(), m.indexerOpts...)
	}
	return m
}

func (m *Model) view() View {
	return docView{m: m}
}

// SyncMode returns the synchronization mode chosen at construction.
func (m *Model) SyncMode() SyncMode {
	return m.mode
}

// Indexer returns the model's position indexer, locked for use from any
// goroutine.
func (m *Model) Indexer() *LockedIndexer {
	return &LockedIndexer{m: m}
}

// LineEnding returns the separator used by WriteTo and DefaultText.
func (m *Model) LineEnding() LineEnding {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return m.lineEnding
}

// Read runs fn under the read lock with a lock-free view of the model. fn
// must not call locking Model methods.
func (m *Model) Read(fn func(v View)) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	fn(m.view())
}

// Listeners

// SetCursor installs the privileged cursor listener, notified before the
// indexer and all general listeners. Pass nil to detach.
func (m *Model) SetCursor(l Listener) {
	m.guard.Lock()
	defer m.guard.Unlock()
	m.cursor = l
}

// AddListener registers a general listener and returns its handle.
func (m *Model) AddListener(l Listener) ListenerID {
	m.guard.Lock()
	defer m.guard.Unlock()
	id := newListenerID()
	m.listeners = append(m.listeners, listenerEntry{id: id, listener: l})
	return id
}

// RemoveListener unregisters a listener. Returns false if id is unknown.
func (m *Model) RemoveListener(id ListenerID) bool {
	m.guard.Lock()
	defer m.guard.Unlock()
	for i, e := range m.listeners {
		if e.id == id {
			m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of general listeners.
func (m *Model) ListenerCount() int {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return len(m.listeners)
}

// Read Operations

// Len returns the document length in characters, counting each line break
// as one character.
func (m *Model) Len() int {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return m.length
}

// IsEmpty returns true if the document has no characters.
func (m *Model) IsEmpty() bool {
	return m.Len() == 0
}

// LineCount returns the number of lines, which is also the last line number.
func (m *Model) LineCount() int {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return len(m.lines)
}

// Revision returns the edit counter.
func (m *Model) Revision() uint64 {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return m.revision
}

// Line returns the text of a line.
func (m *Model) Line(line int) (string, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	if err := m.checkLine(line); err != nil {
		return "", err
	}
	return m.lines[line-1].String(), nil
}

// LineRunes returns a copy of a line's characters.
func (m *Model) LineRunes(line int) ([]rune, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	if err := m.checkLine(line); err != nil {
		return nil, err
	}
	l := m.lines[line-1]
	return l.SubRunes(0, l.Len())
}

// LineLen returns the number of characters in a line.
func (m *Model) LineLen(line int) (int, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	if err := m.checkLine(line); err != nil {
		return 0, err
	}
	return m.lines[line-1].Len(), nil
}

// RuneAt returns the character at a flat index. The position just past a
// line's last character yields '\n' on every line but the last.
func (m *Model) RuneAt(index int) (rune, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	if err := bounds.Index(index, m.length, false); err != nil {
		return 0, err
	}
	pos, err := m.indexer.CharPosition(index)
	if err != nil {
		return 0, err
	}
	return m.runeAt(pos.Line, pos.Column), nil
}

// RuneAtPos returns the character at (line, column), with the same virtual
// newline rule as RuneAt.
func (m *Model) RuneAtPos(line, column int) (rune, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	if err := m.checkCharPos(line, column); err != nil {
		return 0, err
	}
	return m.runeAt(line, column), nil
}

func (m *Model) runeAt(line, column int) rune {
	l := m.lines[line-1]
	if column == l.Len() {
		return '\n'
	}
	return l.Runes()[column]
}

// Slice returns the text in the flat index range [start, end).
func (m *Model) Slice(start, end int) (string, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	if err := bounds.Range(start, end, m.length); err != nil {
		return "", err
	}
	s, err := m.indexer.CharPosition(start)
	if err != nil {
		return "", err
	}
	e, err := m.indexer.CharPosition(end)
	if err != nil {
		return "", err
	}
	return m.slice(s.Line, s.Column, e.Line, e.Column), nil
}

// SlicePos returns the text between two (line, column) positions.
func (m *Model) SlicePos(startLine, startColumn, endLine, endColumn int) (string, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	if err := m.checkSpan(startLine, startColumn, endLine, endColumn); err != nil {
		return "", err
	}
	return m.slice(startLine, startColumn, endLine, endColumn), nil
}

func (m *Model) slice(startLine, startColumn, endLine, endColumn int) string {
	var sb strings.Builder
	if startLine == endLine {
		_ = m.lines[startLine-1].WriteRange(&sb, startColumn, endColumn)
		return sb.String()
	}

	first := m.lines[startLine-1]
	_ = first.WriteRange(&sb, startColumn, first.Len())
	sb.WriteByte('\n')
	for line := startLine + 1; line < endLine; line++ {
		l := m.lines[line-1]
		_ = l.WriteRange(&sb, 0, l.Len())
		sb.WriteByte('\n')
	}
	_ = m.lines[endLine-1].WriteRange(&sb, 0, endColumn)
	return sb.String()
}

// Position resolves a flat index to a position.
func (m *Model) Position(index int) (Position, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return m.indexer.CharPosition(index)
}

// PositionAt resolves (line, column) to a position.
func (m *Model) PositionAt(line, column int) (Position, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return m.indexer.CharPositionAt(line, column)
}

// Index resolves (line, column) to a flat index.
func (m *Model) Index(line, column int) (int, error) {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return m.indexer.CharIndex(line, column)
}

// All returns an iterator over (line number, line text) pairs. The lines are
// copied under the read lock before iteration begins.
func (m *Model) All() iter.Seq2[int, string] {
	m.guard.RLock()
	texts := make([]string, len(m.lines))
	for i, l := range m.lines {
		texts[i] = l.String()
	}
	m.guard.RUnlock()

	return func(yield func(int, string) bool) {
		for i, t := range texts {
			if !yield(i+1, t) {
				return
			}
		}
	}
}

// Runes returns an iterator over every character, including the virtual
// line breaks, paired with its flat index.
func (m *Model) Runes() iter.Seq2[int, rune] {
	text := []rune(m.String())
	return func(yield func(int, rune) bool) {
		for i, r := range text {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Serialization

// String returns the document with LF line breaks.
func (m *Model) String() string {
	return m.Text(LineEndingLF)
}

// Text returns the document joined with the given line ending.
func (m *Model) Text(le LineEnding) string {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return m.join(le.Sequence())
}

// DefaultText returns the document joined with the model's line ending.
func (m *Model) DefaultText() string {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return m.join(m.lineEnding.Sequence())
}

// CString returns the document with native line breaks and a trailing NUL.
func (m *Model) CString() string {
	m.guard.RLock()
	defer m.guard.RUnlock()
	return m.join(LineEndingNative.Sequence()) + "\x00"
}

func (m *Model) join(sep string) string {
	var sb strings.Builder
	sb.Grow(m.length + len(m.lines)*(len(sep)-1) + 1)
	for i, l := range m.lines {
		if i > 0 {
			sb.WriteString(sep)
		}
		for _, r := range l.Runes() {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Equal reports whether both models hold the same lines. The two read
// locks are taken in model creation order, so a.Equal(b) and b.Equal(a)
// may run concurrently with edits to either.
func (m *Model) Equal(other *Model) bool {
	if m == other {
		return true
	}
	first, second := m, other
	if second.id < first.id {
		first, second = second, first
	}
	first.guard.RLock()
	defer first.guard.RUnlock()
	second.guard.RLock()
	defer second.guard.RUnlock()

	if m.length != other.length || len(m.lines) != len(other.lines) {
		return false
	}
	for i := range m.lines {
		if !m.lines[i].Equal(other.lines[i]) {
			return false
		}
	}
	return true
}

// Validation

func (m *Model) checkLine(line int) error {
	return bounds.Line(line, len(m.lines))
}

// checkPos validates a caret position: the column may equal the line length.
func (m *Model) checkPos(line, column int) error {
	if err := m.checkLine(line); err != nil {
		return err
	}
	return bounds.Column(column, m.lines[line-1].Len(), true)
}

// checkCharPos validates the position of an existing character. The line
// break after a non-last line counts as a character.
func (m *Model) checkCharPos(line, column int) error {
	if err := m.checkLine(line); err != nil {
		return err
	}
	return bounds.Column(column, m.lines[line-1].Len(), line < len(m.lines))
}

func (m *Model) checkSpan(startLine, startColumn, endLine, endColumn int) error {
	if err := m.checkPos(startLine, startColumn); err != nil {
		return err
	}
	if err := m.checkPos(endLine, endColumn); err != nil {
		return err
	}
	if startLine != endLine {
		return bounds.Order(startLine, endLine)
	}
	return bounds.Order(startColumn, endColumn)
}
