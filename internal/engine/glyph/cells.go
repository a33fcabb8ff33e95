package glyph

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

var (
	narrowCondition = newCondition(false)
	wideCondition   = newCondition(true)
)

func newCondition(ambiguousWide bool) *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = ambiguousWide
	return c
}

// Cells measures characters in terminal cells. Tabs measure as one cell;
// the cache multiplies them by the tab width at query time.
type Cells struct {
	// EastAsianAmbiguousWide measures ambiguous-width characters as two
	// cells, as CJK terminals do.
	EastAsianAmbiguousWide bool
}

// Width returns the cell width of r.
func (c Cells) Width(r rune) float32 {
	if r == '\t' {
		return 1
	}
	cond := narrowCondition
	if c.EastAsianAmbiguousWide {
		cond = wideCondition
	}
	w := cond.RuneWidth(r)
	if w == 0 && r >= 0x20 && r != 0x7f {
		// Some emoji and symbols report zero; uniseg knows better.
		w = uniseg.StringWidth(string(r))
	}
	return float32(w)
}

// Widths implements the provider interface.
func (c Cells) Widths(text []rune, start, end int, out []float32) {
	for i, r := range text[start:end] {
		out[i] = c.Width(r)
	}
}
