package glyph

import (
	"unicode"

	"golang.org/x/text/width"
)

// EastAsian measures characters by their Unicode East Asian Width class,
// scaled by Unit.
type EastAsian struct {
	// Unit is the width of a narrow character. Zero means 1.
	Unit float32
	// AmbiguousWide treats ambiguous characters as wide.
	AmbiguousWide bool
}

// Width returns the width of r.
func (e EastAsian) Width(r rune) float32 {
	unit := e.Unit
	if unit == 0 {
		unit = 1
	}
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2 * unit
	case width.EastAsianAmbiguous:
		if e.AmbiguousWide {
			return 2 * unit
		}
	}
	return unit
}

// Widths implements the provider interface.
func (e EastAsian) Widths(text []rune, start, end int, out []float32) {
	for i, r := range text[start:end] {
		out[i] = e.Width(r)
	}
}
