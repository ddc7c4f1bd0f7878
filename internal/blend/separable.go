package blend

import "github.com/chewxy/math32"

// separableBlend applies a per-channel blend function B to premultiplied
// input using the general compositing formula
//
//	Result = (1 - Sa) * D + (1 - Da) * S + Sa * Da * B(Cs, Cb)
//
// where Cs and Cb are the unpremultiplied source and backdrop channels.
func separableBlend(sr, sg, sb, sa, dr, dg, db, da byte, blendChan func(s, d byte) byte) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	blendR := blendChan(unpremul(sr, sa), unpremul(dr, da))
	blendG := blendChan(unpremul(sg, sa), unpremul(dg, da))
	blendB := blendChan(unpremul(sb, sa), unpremul(db, da))

	invSa := 255 - sa
	invDa := 255 - da
	saDa := mulDiv255(sa, da)

	compose := func(s, d, b byte) byte {
		c := addDiv255(mulDiv255(d, invSa), mulDiv255(s, invDa))
		return addDiv255(c, mulDiv255(saDa, b))
	}
	return compose(sr, dr, blendR),
		compose(sg, dg, blendG),
		compose(sb, db, blendB),
		addDiv255(sa, mulDiv255(da, invSa))
}

// mul2 returns 2*a*b/255 clamped to a byte.
func mul2(a, b byte) byte {
	v := div255(2 * uint16(a) * uint16(b))
	if v > 255 {
		return 255
	}
	return byte(v)
}

func blendMultiply(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, mulDiv255)
}

func blendScreen(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		return 255 - mulDiv255(255-s, 255-d)
	})
}

func hardLight(s, d byte) byte {
	if s <= 128 {
		return mul2(s, d)
	}
	return 255 - mul2(255-s, 255-d)
}

// blendOverlay is HardLight with source and backdrop swapped.
func blendOverlay(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		return hardLight(d, s)
	})
}

func blendDarken(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, minByte)
}

func blendLighten(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, maxByte)
}

// blendColorDodge: if Cs == 1 then 1, else min(1, Cb / (1 - Cs)).
func blendColorDodge(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 0 {
			return 0
		}
		if s == 255 {
			return 255
		}
		v := (uint16(d) * 255) / uint16(255-s)
		if v > 255 {
			return 255
		}
		return byte(v)
	})
}

// blendColorBurn: if Cs == 0 then 0, else 1 - min(1, (1 - Cb) / Cs).
func blendColorBurn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 255 {
			return 255
		}
		if s == 0 {
			return 0
		}
		v := (uint16(255-d) * 255) / uint16(s)
		if v > 255 {
			return 0
		}
		return 255 - byte(v)
	})
}

func blendHardLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, hardLight)
}

func blendSoftLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		sf := float32(s) / 255
		df := float32(d) / 255

		var v float32
		if sf <= 0.5 {
			v = df - (1-2*sf)*df*(1-df)
		} else {
			var dx float32
			if df <= 0.25 {
				dx = ((16*df-12)*df + 4) * df
			} else {
				dx = math32.Sqrt(df)
			}
			v = df + (2*sf-1)*(dx-df)
		}
		return unit(v)
	})
}

func blendDifference(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if s > d {
			return s - d
		}
		return d - s
	})
}

// blendExclusion: Cb + Cs - 2 * Cb * Cs.
func blendExclusion(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		v := uint16(s) + uint16(d) - 2*uint16(mulDiv255(s, d))
		if v > 255 {
			return 255
		}
		return byte(v)
	})
}

// unit converts v in [0, 1] to a rounded byte, clamping outside values.
func unit(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return byte(math32.Round(v * 255))
}
