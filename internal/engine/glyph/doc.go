// Package glyph provides character width providers for the measurement
// cache.
//
// Every provider implements
//
//	Widths(text []rune, start, end int, out []float32)
//
// writing the advance width of each character of text[start:end] into
// out[0:end-start]. Providers are stateless or internally synchronized and
// may be shared between caches.
//
// Available providers:
//
//   - Cells: terminal cell widths (0, 1 or 2) from go-runewidth and uniseg
//   - EastAsian: widths from the Unicode East Asian Width property
//   - Face: pixel advances from a golang.org/x/image/font.Face
//   - Func: an adapter for a plain per-character function
package glyph

// Func adapts a per-character width function to a provider.
type Func func(r rune) float32

// Widths implements the provider interface.
func (f Func) Widths(text []rune, start, end int, out []float32) {
	for i, r := range text[start:end] {
		out[i] = f(r)
	}
}

// Fixed returns a provider that gives every character the same width.
func Fixed(w float32) Func {
	return func(rune) float32 { return w }
}
