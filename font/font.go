// Package font registers font files for wr display lists.
//
// wr never shapes or rasterizes text: a text run is a list of glyph
// indices with positions. This package parses just enough of a font file
// to give it a stable Key, a family name, a glyph count and horizontal
// advances, so that runs referencing a missing font or an out of range
// glyph are rejected before a scene is submitted, and runs can be measured.
//
// Two parsers are available: "ximage" (golang.org/x/image/font/opentype,
// the default) and "gotext" (github.com/go-text/typesetting). Further
// parsers can be added with RegisterParser.
package font

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/fixed"
)

// Key is the handle of a registered font. The zero value is never assigned.
type Key uint32

func (k Key) String() string { return fmt.Sprintf("font(%d)", uint32(k)) }

// Sentinel errors for the font package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("font: empty font data")

	// ErrUnknownParser is returned when no parser is registered under a name.
	ErrUnknownParser = errors.New("font: unknown parser")
)

// Face is the parsed metadata of one font.
type Face interface {
	// Family returns the family name, or "" when the font has none.
	Family() string

	// NumGlyphs returns the number of glyphs; valid indices are
	// [0, NumGlyphs).
	NumGlyphs() int

	// UnitsPerEm returns the design units per em.
	UnitsPerEm() int

	// Advance returns the horizontal advance of glyph index at size
	// pixels per em.
	Advance(index uint32, size fixed.Int26_6) (fixed.Int26_6, error)
}

// Parser turns font file bytes into a Face.
// Implementations must not retain data after Parse returns.
type Parser interface {
	Parse(data []byte) (Face, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(data []byte) (Face, error)

// Parse calls f(data).
func (f ParserFunc) Parse(data []byte) (Face, error) { return f(data) }

// face is the common Face implementation returned by the built-in parsers.
type face struct {
	family     string
	numGlyphs  int
	unitsPerEm int

	// advances in design units, indexed by glyph. Shorter than numGlyphs
	// when the font repeats its last advance.
	advances []uint16
}

func (f *face) Family() string  { return f.family }
func (f *face) NumGlyphs() int  { return f.numGlyphs }
func (f *face) UnitsPerEm() int { return f.unitsPerEm }

func (f *face) Advance(index uint32, size fixed.Int26_6) (fixed.Int26_6, error) {
	if int64(index) >= int64(f.numGlyphs) {
		return 0, fmt.Errorf("font: glyph %d out of range [0, %d)", index, f.numGlyphs)
	}
	if len(f.advances) == 0 || f.unitsPerEm <= 0 {
		return 0, nil
	}
	units := f.advances[min(int(index), len(f.advances)-1)]
	return scaleUnits(int64(units), size, f.unitsPerEm), nil
}

// scaleUnits converts design units to 26.6 pixels, rounding half away
// from zero.
func scaleUnits(units int64, size fixed.Int26_6, unitsPerEm int) fixed.Int26_6 {
	v := units * int64(size)
	half := int64(unitsPerEm) / 2
	if v < 0 {
		half = -half
	}
	return fixed.Int26_6((v + half) / int64(unitsPerEm))
}
