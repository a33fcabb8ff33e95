package linebuf

import (
	"strings"

	"github.com/dshills/textcore/internal/engine/bounds"
)

// Line is the character storage of one document line. It never contains a
// line break; the text model owns line splitting and merging.
type Line struct {
	runes Array[rune]
}

// New creates an empty line with at least the given capacity.
func New(capacity int) *Line {
	return &Line{runes: *NewArray[rune](capacity)}
}

// FromString creates a line holding the characters of s.
func FromString(s string) *Line {
	return FromRunes([]rune(s))
}

// FromRunes creates a line holding a copy of r.
func FromRunes(r []rune) *Line {
	return &Line{runes: *ArrayOf(r)}
}

// Len returns the number of characters in the line.
func (l *Line) Len() int {
	return l.runes.Len()
}

// Cap returns the capacity of the line's storage.
func (l *Line) Cap() int {
	return l.runes.Cap()
}

// At returns the character at index.
func (l *Line) At(index int) (rune, error) {
	return l.runes.At(index)
}

// InsertRune inserts a single character at index.
func (l *Line) InsertRune(index int, r rune) error {
	return l.runes.Insert(index, r)
}

// InsertRunes inserts characters at index.
func (l *Line) InsertRunes(index int, r []rune) error {
	return l.runes.Insert(index, r...)
}

// Insert inserts the characters of s at index.
func (l *Line) Insert(index int, s string) error {
	return l.runes.Insert(index, []rune(s)...)
}

// Append appends the characters of s.
func (l *Line) Append(s string) {
	l.runes.Append([]rune(s)...)
}

// AppendRunes appends r.
func (l *Line) AppendRunes(r []rune) {
	l.runes.Append(r...)
}

// AppendLine appends the contents of other.
func (l *Line) AppendLine(other *Line) {
	l.runes.Append(other.runes.Values()...)
}

// Delete removes the characters in [start, end).
func (l *Line) Delete(start, end int) error {
	return l.runes.Delete(start, end)
}

// DeleteAt removes the character at index.
func (l *Line) DeleteAt(index int) error {
	return l.runes.DeleteAt(index)
}

// Truncate removes every character from index to the end of the line.
func (l *Line) Truncate(index int) error {
	return l.runes.Truncate(index)
}

// DeleteBefore removes every character before index.
func (l *Line) DeleteBefore(index int) error {
	return l.runes.DeleteBefore(index)
}

// Sub returns the characters in [start, end) as a new string.
func (l *Line) Sub(start, end int) (string, error) {
	r, err := l.runes.Sub(start, end)
	if err != nil {
		return "", err
	}
	return string(r), nil
}

// SubRunes returns an independent copy of the characters in [start, end).
func (l *Line) SubRunes(start, end int) ([]rune, error) {
	return l.runes.Sub(start, end)
}

// SubLine returns [start, end) as a new, independent line.
func (l *Line) SubLine(start, end int) (*Line, error) {
	r, err := l.runes.Sub(start, end)
	if err != nil {
		return nil, err
	}
	return &Line{runes: *ArrayOf(r)}, nil
}

// Runes returns the live characters. The slice aliases the line's storage:
// it must not be modified and is invalidated by the next edit.
func (l *Line) Runes() []rune {
	return l.runes.Values()
}

// WriteRange appends [start, end) to b.
func (l *Line) WriteRange(b *strings.Builder, start, end int) error {
	if err := bounds.Range(start, end, l.Len()); err != nil {
		return err
	}
	for _, c := range l.runes.Values()[start:end] {
		b.WriteRune(c)
	}
	return nil
}

// Copy returns an independent copy of the line.
func (l *Line) Copy() *Line {
	return &Line{runes: *l.runes.Clone()}
}

// Clear drops the contents and releases storage.
func (l *Line) Clear() {
	l.runes.Clear()
}

// Equal reports whether l and other hold the same characters.
func (l *Line) Equal(other *Line) bool {
	if l.Len() != other.Len() {
		return false
	}
	a, b := l.Runes(), other.Runes()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String returns the line's text.
func (l *Line) String() string {
	return string(l.runes.Values())
}
