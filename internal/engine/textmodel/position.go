package textmodel

import "fmt"

// Position addresses one character offset three ways at once. Line is
// 1-based, Column is 0-based within the line, and Index is 0-based in the
// whole document, counting each line break as one character.
type Position struct {
	Line   int
	Column int
	Index  int
}

// ZeroPosition returns the position of the first character.
func ZeroPosition() Position {
	return Position{Line: 1}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d @%d)", p.Line, p.Column, p.Index)
}

// Compare orders positions by line, then column.
// Returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	return compareLineColumn(p.Line, p.Column, other.Line, other.Column)
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

func compareLineColumn(l1, c1, l2, c2 int) int {
	switch {
	case l1 < l2:
		return -1
	case l1 > l2:
		return 1
	case c1 < c2:
		return -1
	case c1 > c2:
		return 1
	}
	return 0
}

// Span is the (line, column) region affected by an edit. For an insert the
// end is where the inserted text ends after the mutation; for a delete it is
// where the removed text ended before the mutation.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// SingleLine reports whether the span starts and ends on the same line.
func (s Span) SingleLine() bool {
	return s.StartLine == s.EndLine
}

// Lines returns the number of line breaks crossed by the span.
func (s Span) Lines() int {
	return s.EndLine - s.StartLine
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("(%d:%d)-(%d:%d)", s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}
