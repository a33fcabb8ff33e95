package textmodel

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slices"

	"github.com/dshills/textcore/internal/engine/bounds"
	"github.com/dshills/textcore/internal/engine/linebuf"
)

// Insert inserts text at a flat index in [0, Len] and returns the span it
// now occupies. CRLF and CR breaks in text are normalized to LF.
func (m *Model) Insert(index int, text string) (Span, error) {
	m.guard.Lock()
	defer m.guard.Unlock()

	if err := bounds.Index(index, m.length, true); err != nil {
		return Span{}, err
	}
	pos, err := m.indexer.CharPosition(index)
	if err != nil {
		return Span{}, err
	}
	return m.insert(pos.Line, pos.Column, text), nil
}

// InsertPos inserts text at (line, column). The column may equal the line
// length.
func (m *Model) InsertPos(line, column int, text string) (Span, error) {
	m.guard.Lock()
	defer m.guard.Unlock()

	if err := m.checkPos(line, column); err != nil {
		return Span{}, err
	}
	return m.insert(line, column, text), nil
}

// Append inserts text at the end of the document.
func (m *Model) Append(text string) Span {
	m.guard.Lock()
	defer m.guard.Unlock()

	last := len(m.lines)
	return m.insert(last, m.lines[last-1].Len(), text)
}

func (m *Model) insert(line, column int, text string) Span {
	text = normalizeLineEndings(text)
	parts := strings.Split(text, "\n")
	tail := []rune(parts[len(parts)-1])

	span := Span{
		StartLine:   line,
		StartColumn: column,
		EndLine:     line + len(parts) - 1,
		EndColumn:   len(tail),
	}
	if len(parts) == 1 {
		span.EndColumn += column
	}
	if text == "" {
		return span
	}

	ev := Event{Span: span, Text: text, Length: utf8.RuneCountInString(text), Doc: m.view()}
	m.dispatchBeforeInsert(ev)

	cur := m.lines[line-1]
	if len(parts) == 1 {
		_ = cur.InsertRunes(column, tail)
	} else {
		// Split the current line at column: its remainder moves behind the
		// last inserted segment.
		rest, _ := cur.SubRunes(column, cur.Len())
		_ = cur.Truncate(column)
		cur.Append(parts[0])

		added := make([]*linebuf.Line, 0, len(parts)-1)
		for _, p := range parts[1 : len(parts)-1] {
			added = append(added, linebuf.FromString(p))
		}
		last := linebuf.New(len(tail) + len(rest))
		last.AppendRunes(tail)
		last.AppendRunes(rest)
		added = append(added, last)

		m.lines = slices.Insert(m.lines, line, added...)
	}

	m.length += ev.Length
	m.revision++
	m.dispatchAfterInsert(ev)
	return span
}

// Delete removes the characters in the flat index range [start, end).
func (m *Model) Delete(start, end int) error {
	m.guard.Lock()
	defer m.guard.Unlock()

	if err := bounds.Range(start, end, m.length); err != nil {
		return err
	}
	s, err := m.indexer.CharPosition(start)
	if err != nil {
		return err
	}
	e, err := m.indexer.CharPosition(end)
	if err != nil {
		return err
	}
	m.delete(s.Line, s.Column, e.Line, e.Column)
	return nil
}

// DeletePos removes the text between two (line, column) positions.
func (m *Model) DeletePos(startLine, startColumn, endLine, endColumn int) error {
	m.guard.Lock()
	defer m.guard.Unlock()

	if err := m.checkSpan(startLine, startColumn, endLine, endColumn); err != nil {
		return err
	}
	m.delete(startLine, startColumn, endLine, endColumn)
	return nil
}

// DeleteCharAt removes the character at a flat index in [0, Len). Deleting
// the position just past a line's last character joins it with the next line.
func (m *Model) DeleteCharAt(index int) error {
	m.guard.Lock()
	defer m.guard.Unlock()

	if err := bounds.Index(index, m.length, false); err != nil {
		return err
	}
	pos, err := m.indexer.CharPosition(index)
	if err != nil {
		return err
	}
	m.deleteChar(pos.Line, pos.Column)
	return nil
}

// DeleteCharAtPos removes the character at (line, column), with the same
// line-join rule as DeleteCharAt.
func (m *Model) DeleteCharAtPos(line, column int) error {
	m.guard.Lock()
	defer m.guard.Unlock()

	if err := m.checkCharPos(line, column); err != nil {
		return err
	}
	m.deleteChar(line, column)
	return nil
}

func (m *Model) deleteChar(line, column int) {
	if column == m.lines[line-1].Len() {
		m.delete(line, column, line+1, 0)
		return
	}
	m.delete(line, column, line, column+1)
}

// Clear removes all text, leaving one empty line. Listeners see a single
// delete spanning the whole document.
func (m *Model) Clear() {
	m.guard.Lock()
	defer m.guard.Unlock()

	last := len(m.lines)
	m.delete(1, 0, last, m.lines[last-1].Len())
}

func (m *Model) delete(startLine, startColumn, endLine, endColumn int) {
	if startLine == endLine && startColumn == endColumn {
		return
	}

	text := m.slice(startLine, startColumn, endLine, endColumn)
	ev := Event{
		Span: Span{
			StartLine:   startLine,
			StartColumn: startColumn,
			EndLine:     endLine,
			EndColumn:   endColumn,
		},
		Text:   text,
		Length: utf8.RuneCountInString(text),
		Doc:    m.view(),
	}
	m.dispatchBeforeDelete(ev)

	first := m.lines[startLine-1]
	if startLine == endLine {
		_ = first.Delete(startColumn, endColumn)
	} else {
		last := m.lines[endLine-1]
		_ = first.Truncate(startColumn)
		first.AppendRunes(last.Runes()[endColumn:])
		for _, l := range m.lines[startLine:endLine] {
			l.Clear()
		}
		m.lines = slices.Delete(m.lines, startLine, endLine)
	}

	m.length -= ev.Length
	m.revision++
	m.dispatchAfterDelete(ev)
}
