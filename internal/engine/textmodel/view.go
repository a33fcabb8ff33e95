package textmodel

// View is a lock-free, read-only view of a model. It is handed to listeners
// during dispatch, to indexers at construction, and to Model.Read callbacks.
//
// Line numbers passed to View methods must be valid (1..LineCount); View
// does not re-validate them.
type View interface {
	// LineCount returns the number of lines (the last line number).
	LineCount() int
	// LineLen returns the number of characters in line, excluding the break.
	LineLen(line int) int
	// LineText returns the text of line.
	LineText(line int) string
	// LineRunes returns the live characters of line. The slice must not be
	// modified and is invalidated by the next edit.
	LineRunes(line int) []rune
	// Len returns the document length, counting each line break as one.
	Len() int
	// Revision returns the edit counter; it increases after every mutation.
	Revision() uint64
	// Indexer returns the model's position indexer.
	Indexer() Indexer
}

type docView struct {
	m *Model
}

func (v docView) LineCount() int            { return len(v.m.lines) }
func (v docView) LineLen(line int) int      { return v.m.lines[line-1].Len() }
func (v docView) LineText(line int) string  { return v.m.lines[line-1].String() }
func (v docView) LineRunes(line int) []rune { return v.m.lines[line-1].Runes() }
func (v docView) Len() int                  { return v.m.length }
func (v docView) Revision() uint64          { return v.m.revision }
func (v docView) Indexer() Indexer          { return v.m.indexer }
