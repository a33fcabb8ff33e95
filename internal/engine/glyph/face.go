package glyph

import (
	"sync"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FaceOption configures a Face.
type FaceOption func(*Face)

// WithSnap rounds every advance to a whole pixel.
func WithSnap(snap bool) FaceOption {
	return func(f *Face) {
		f.snap = snap
	}
}

// WithFallback sets the character measured in place of glyphs the face
// does not have. The default is '?'.
func WithFallback(r rune) FaceOption {
	return func(f *Face) {
		f.fallback = r
	}
}

// Face measures pixel advances with a font face. font.Face values are not
// safe for concurrent use, so calls are serialized.
type Face struct {
	mu       sync.Mutex
	face     font.Face
	snap     bool
	fallback rune
}

// NewFace creates a provider over face.
func NewFace(face font.Face, opts ...FaceOption) *Face {
	f := &Face{face: face, fallback: '?'}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DefaultFace returns a provider over the fixed 7x13 basic font.
func DefaultFace(opts ...FaceOption) *Face {
	return NewFace(basicfont.Face7x13, opts...)
}

// Width returns the advance of r in pixels.
func (f *Face) Width(r rune) float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width(r)
}

// Widths implements the provider interface.
func (f *Face) Widths(text []rune, start, end int, out []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range text[start:end] {
		out[i] = f.width(r)
	}
}

func (f *Face) width(r rune) float32 {
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		adv, ok = f.face.GlyphAdvance(f.fallback)
		if !ok {
			return 0
		}
	}
	w := toFloat(adv)
	if f.snap {
		w = math32.Round(w)
	}
	return w
}

func toFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
