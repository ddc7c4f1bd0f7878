package blend

import "github.com/chewxy/math32"

// Lum returns the luminance of a color using BT.601 coefficients.
// Components are normalized to [0, 1].
func Lum(r, g, b float32) float32 {
	return 0.30*r + 0.59*g + 0.11*b
}

// Sat returns max(r, g, b) - min(r, g, b).
func Sat(r, g, b float32) float32 {
	return max(r, g, b) - min(r, g, b)
}

// ClipColor pulls out-of-range components back into [0, 1] toward the
// luminance of the color, keeping the luminance unchanged.
func ClipColor(r, g, b float32) (float32, float32, float32) {
	l := Lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)

	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

// SetLum shifts a color to luminance l.
func SetLum(r, g, b, l float32) (float32, float32, float32) {
	d := l - Lum(r, g, b)
	return ClipColor(r+d, g+d, b+d)
}

// SetSat rescales a color to saturation s keeping the order of its
// components. Gray input is returned unchanged.
func SetSat(r, g, b, s float32) (float32, float32, float32) {
	lo, mid, hi := sortRGB(&r, &g, &b)
	if *hi > *lo {
		*mid = ((*mid - *lo) * s) / (*hi - *lo)
		*hi = s
		*lo = 0
	}
	return r, g, b
}

// sortRGB returns pointers to r, g, b ordered by value.
func sortRGB(r, g, b *float32) (lo, mid, hi *float32) {
	switch {
	case *r <= *g && *g <= *b:
		return r, g, b
	case *r <= *b && *b <= *g:
		return r, b, g
	case *b <= *r && *r <= *g:
		return b, r, g
	case *g <= *r && *r <= *b:
		return g, r, b
	case *g <= *b && *b <= *r:
		return g, b, r
	default:
		return b, g, r
	}
}

// SetLum(SetSat(Cs, Sat(Cb)), Lum(Cb))
func hslHue(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	r, g, b := SetSat(sr, sg, sb, Sat(dr, dg, db))
	return SetLum(r, g, b, Lum(dr, dg, db))
}

// SetLum(SetSat(Cb, Sat(Cs)), Lum(Cb))
func hslSaturation(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	r, g, b := SetSat(dr, dg, db, Sat(sr, sg, sb))
	return SetLum(r, g, b, Lum(dr, dg, db))
}

// SetLum(Cs, Lum(Cb))
func hslColor(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	return SetLum(sr, sg, sb, Lum(dr, dg, db))
}

// SetLum(Cb, Lum(Cs))
func hslLuminosity(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	return SetLum(dr, dg, db, Lum(sr, sg, sb))
}

func blendHue(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslHue)
}

func blendSaturation(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslSaturation)
}

func blendColor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslColor)
}

func blendLuminosity(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslLuminosity)
}

// nonSeparableBlend is separableBlend for functions of the whole RGB
// triplet. The blend result is computed in float and folded back with the
// same compositing formula.
func nonSeparableBlend(
	sr, sg, sb, sa, dr, dg, db, da byte,
	fn func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32),
) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	saf := float32(sa)
	daf := float32(da)
	br, bg, bb := fn(
		float32(sr)/saf, float32(sg)/saf, float32(sb)/saf,
		float32(dr)/daf, float32(dg)/daf, float32(db)/daf,
	)

	invSa := 255 - sa
	invDa := 255 - da
	saDa := saf * daf / (255 * 255)

	compose := func(s, d byte, b float32) byte {
		c := addDiv255(mulDiv255(d, invSa), mulDiv255(s, invDa))
		return addDiv255(c, byte(math32.Round(math32.Max(0, math32.Min(1, b*saDa))*255)))
	}
	return compose(sr, dr, br),
		compose(sg, dg, bg),
		compose(sb, db, bb),
		addDiv255(sa, mulDiv255(da, invSa))
}
