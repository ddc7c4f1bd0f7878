package wr

import (
	"image/color"

	"github.com/chewxy/math32"
)

// ColorF represents a color with straight alpha.
// Each component is in the range [0, 1].
type ColorF struct {
	R, G, B, A float32
}

// NewColorF creates a color from its components.
func NewColorF(r, g, b, a float32) ColorF {
	return ColorF{R: r, G: g, B: b, A: a}
}

// Common colors used by the reference scenes.
var (
	Black  = ColorF{R: 0, G: 0, B: 0, A: 1}
	White  = ColorF{R: 1, G: 1, B: 1, A: 1}
	Red    = ColorF{R: 1, G: 0, B: 0, A: 1}
	Green  = ColorF{R: 0, G: 1, B: 0, A: 1}
	Blue   = ColorF{R: 0, G: 0, B: 1, A: 1}
	Yellow = ColorF{R: 1, G: 1, B: 0, A: 1}
)

// PremulBGRA returns the color in the canonical byte layout: B, G, R, A
// with color channels premultiplied by alpha.
func (c ColorF) PremulBGRA() (b, g, r, a byte) {
	alpha := clampUnit(c.A)
	return toByte(clampUnit(c.B) * alpha),
		toByte(clampUnit(c.G) * alpha),
		toByte(clampUnit(c.R) * alpha),
		toByte(alpha)
}

// Lerp interpolates linearly between c and o in straight-alpha space.
func (c ColorF) Lerp(o ColorF, t float32) ColorF {
	return ColorF{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Color converts ColorF to the standard color.Color interface.
func (c ColorF) Color() color.Color {
	return color.NRGBA{
		R: toByte(clampUnit(c.R)),
		G: toByte(clampUnit(c.G)),
		B: toByte(clampUnit(c.B)),
		A: toByte(clampUnit(c.A)),
	}
}

func clampUnit(v float32) float32 {
	if math32.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toByte maps [0, 1] to [0, 255] rounding to nearest.
func toByte(v float32) byte {
	return byte(v*255 + 0.5)
}
