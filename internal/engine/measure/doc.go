// Package measure caches the display width of every character of a text
// model, one Row per line.
//
// A Cache registers itself as a general listener of its model and patches
// rows in place on every edit, calling its WidthProvider only for the
// characters an insert introduced. Row totals and the widest row are
// computed lazily.
//
// Basic usage:
//
//	model := textmodel.NewFromString("a\tb")
//	cache := measure.New(model, glyph.Cells{}, measure.WithTabWidth(4))
//	defer cache.Destroy()
//
//	w, _ := cache.CharWidth(1, 1) // width of the tab
//	x, _ := cache.OffsetAt(1, 2)  // x position of 'b'
//
// A full remeasure (after changing fonts, say) runs with Rebuild or
// RebuildAsync. While it is in flight every query returns ErrBusy.
package measure
