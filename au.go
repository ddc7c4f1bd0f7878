package wr

import "golang.org/x/image/math/fixed"

// Au is a length in app units. One CSS pixel is 60 app units, which keeps
// common fractions (halves, thirds, quarters, fifths) exact.
type Au int32

// AuPerPx is the number of app units in one pixel.
const AuPerPx = 60

// AuFromPx converts whole pixels to app units.
func AuFromPx(px int) Au {
	return Au(px * AuPerPx)
}

// AuFromF32 converts fractional pixels to app units, rounding to nearest.
func AuFromF32(px float32) Au {
	if px < 0 {
		return Au(px*AuPerPx - 0.5)
	}
	return Au(px*AuPerPx + 0.5)
}

// Px returns the length in pixels.
func (a Au) Px() float32 {
	return float32(a) / AuPerPx
}

// Fixed returns the length as a 26.6 fixed-point pixel value, the unit
// used by font metrics.
func (a Au) Fixed() fixed.Int26_6 {
	return fixed.Int26_6(int64(a) * 64 / AuPerPx)
}

// AuFromFixed converts a 26.6 fixed-point pixel value to app units,
// rounding to nearest.
func AuFromFixed(v fixed.Int26_6) Au {
	n := int64(v) * AuPerPx
	if n < 0 {
		return Au((n - 32) / 64)
	}
	return Au((n + 32) / 64)
}
