// Package blend composites premultiplied 8-bit pixels.
//
// Every function works on premultiplied alpha in the range 0-255. Span
// functions operate on the canonical B, G, R, A byte order used by pixfmt
// images and raster surfaces; the per-pixel Func signature takes channels
// in R, G, B order because the non-separable modes weight them differently.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode selects the blend function applied when a source is composited
// onto a backdrop. The values follow the order of wr.MixBlendMode so that a
// conversion is a plain cast.
type Mode uint8

const (
	ModeNormal     Mode = iota // source-over
	ModeMultiply               // S * D
	ModeScreen                 // 1 - (1-S)*(1-D)
	ModeOverlay                // HardLight with swapped layers
	ModeDarken                 // min(S, D)
	ModeLighten                // max(S, D)
	ModeColorDodge             // D / (1 - S)
	ModeColorBurn              // 1 - (1 - D) / S
	ModeHardLight              // Multiply or Screen depending on source
	ModeSoftLight              // soft version of HardLight
	ModeDifference             // |S - D|
	ModeExclusion              // S + D - 2*S*D
	ModeHue
	ModeSaturation
	ModeColor
	ModeLuminosity

	modeCount
)

var modeNames = [...]string{
	"Normal", "Multiply", "Screen", "Overlay", "Darken", "Lighten",
	"ColorDodge", "ColorBurn", "HardLight", "SoftLight", "Difference",
	"Exclusion", "Hue", "Saturation", "Color", "Luminosity",
}

func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return "Unknown"
}

// Func blends one premultiplied source pixel onto one premultiplied
// destination pixel and returns the result.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// FuncFor returns the blend function for mode.
// Unknown modes fall back to source-over.
func FuncFor(mode Mode) Func {
	switch mode {
	case ModeMultiply:
		return blendMultiply
	case ModeScreen:
		return blendScreen
	case ModeOverlay:
		return blendOverlay
	case ModeDarken:
		return blendDarken
	case ModeLighten:
		return blendLighten
	case ModeColorDodge:
		return blendColorDodge
	case ModeColorBurn:
		return blendColorBurn
	case ModeHardLight:
		return blendHardLight
	case ModeSoftLight:
		return blendSoftLight
	case ModeDifference:
		return blendDifference
	case ModeExclusion:
		return blendExclusion
	case ModeHue:
		return blendHue
	case ModeSaturation:
		return blendSaturation
	case ModeColor:
		return blendColor
	case ModeLuminosity:
		return blendLuminosity
	default:
		return blendSourceOver
	}
}

// Span composites the BGRA premultiplied pixels of src onto dst in place.
// Only min(len(dst), len(src))/4 pixels are touched.
func Span(dst, src []byte, mode Mode) {
	n := min(len(dst), len(src)) &^ 3
	if mode == ModeNormal {
		spanSourceOver(dst[:n], src[:n])
		return
	}
	fn := FuncFor(mode)
	for i := 0; i < n; i += 4 {
		sa := src[i+3]
		if sa == 0 {
			continue
		}
		r, g, b, a := fn(src[i+2], src[i+1], src[i], sa, dst[i+2], dst[i+1], dst[i], dst[i+3])
		dst[i], dst[i+1], dst[i+2], dst[i+3] = b, g, r, a
	}
}

// Fill composites a single BGRA premultiplied color onto every pixel of dst.
func Fill(dst []byte, b, g, r, a byte, mode Mode) {
	if a == 0 {
		return
	}
	n := len(dst) &^ 3
	if mode == ModeNormal && a == 255 {
		for i := 0; i < n; i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = b, g, r, a
		}
		return
	}
	fn := FuncFor(mode)
	for i := 0; i < n; i += 4 {
		rr, rg, rb, ra := fn(r, g, b, a, dst[i+2], dst[i+1], dst[i], dst[i+3])
		dst[i], dst[i+1], dst[i+2], dst[i+3] = rb, rg, rr, ra
	}
}

// Pixel composites one BGRA premultiplied source pixel onto the four bytes
// at dst.
func Pixel(dst []byte, b, g, r, a byte, mode Mode) {
	if a == 0 {
		return
	}
	rr, rg, rb, ra := FuncFor(mode)(r, g, b, a, dst[2], dst[1], dst[0], dst[3])
	dst[0], dst[1], dst[2], dst[3] = rb, rg, rr, ra
}

func spanSourceOver(dst, src []byte) {
	for i := 0; i < len(src); i += 4 {
		sa := src[i+3]
		switch sa {
		case 0:
			continue
		case 255:
			copy(dst[i:i+4], src[i:i+4])
			continue
		}
		inv := 255 - sa
		dst[i] = addDiv255(src[i], mulDiv255(dst[i], inv))
		dst[i+1] = addDiv255(src[i+1], mulDiv255(dst[i+1], inv))
		dst[i+2] = addDiv255(src[i+2], mulDiv255(dst[i+2], inv))
		dst[i+3] = addDiv255(sa, mulDiv255(dst[i+3], inv))
	}
}

// blendSourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addDiv255(sr, mulDiv255(dr, invSa)),
		addDiv255(sg, mulDiv255(dg, invSa)),
		addDiv255(sb, mulDiv255(db, invSa)),
		addDiv255(sa, mulDiv255(da, invSa))
}
