package raster

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/wr"
	"github.com/gogpu/wr/internal/blend"
)

// shader returns the premultiplied color of a primitive at a local point.
// ok is false where the primitive does not cover the point.
type shader func(x, y float32) (b, g, r, a byte, ok bool)

// draw fills p into dst under xf. It reports whether p was drawn.
func (r *renderer) draw(dst *Surface, xf wr.Matrix4, p wr.Primitive) bool {
	base := p.Base()
	area := base.Bounds.Intersect(base.Clip.Main)
	if area.IsEmpty() {
		return true
	}

	var sh shader
	switch p := p.(type) {
	case *wr.RectPrimitive:
		sh = solid(p.Color)
	case *wr.GradientPrimitive:
		sh = linearGradient(p)
	case *wr.ImagePrimitive:
		sh = r.image(p)
	case *wr.BorderPrimitive:
		sh = border(p)
	case *wr.TextPrimitive:
		wr.Logger().Warn("text run skipped", "font", p.Font, "glyphs", p.NumGlyphs())
	}
	if sh == nil {
		return false
	}

	h := homographyOf(xf)
	inv, ok := h.invert()
	if !ok {
		return true
	}

	dev := xf.TransformRect(area)
	x0 := max(0, int(math32.Floor(dev.MinX())))
	y0 := max(0, int(math32.Floor(dev.MinY())))
	x1 := min(dst.Width, int(math32.Ceil(dev.MaxX())))
	y1 := min(dst.Height, int(math32.Ceil(dev.MaxY())))

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			lx, ly, ok := inv.apply(float32(x)+0.5, float32(y)+0.5)
			if !ok || !area.Contains(wr.Pt(lx, ly)) {
				continue
			}
			b, g, cr, a, ok := sh(lx, ly)
			if !ok {
				continue
			}
			i := dst.offset(x, y)
			blend.Pixel(dst.Pix[i:i+4], b, g, cr, a, blend.ModeNormal)
		}
	}
	return true
}

func solid(c wr.ColorF) shader {
	b, g, r, a := c.PremulBGRA()
	return func(float32, float32) (byte, byte, byte, byte, bool) {
		return b, g, r, a, true
	}
}

func linearGradient(p *wr.GradientPrimitive) shader {
	stops := p.Stops()
	dx, dy := p.End.X-p.Start.X, p.End.Y-p.Start.Y
	len2 := dx*dx + dy*dy
	return func(x, y float32) (byte, byte, byte, byte, bool) {
		var t float32
		if len2 > 0 {
			t = ((x-p.Start.X)*dx + (y-p.Start.Y)*dy) / len2
		}
		b, g, r, a := stopColor(stops, t).PremulBGRA()
		return b, g, r, a, true
	}
}

// stopColor interpolates the stop list at t, padding with the end colors.
func stopColor(stops []wr.GradientStop, t float32) wr.ColorF {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		s0, s1 := stops[i-1], stops[i]
		if t > s1.Offset {
			continue
		}
		span := s1.Offset - s0.Offset
		if span <= 0 {
			return s1.Color
		}
		return s0.Color.Lerp(s1.Color, (t-s0.Offset)/span)
	}
	return stops[len(stops)-1].Color
}

// image tiles the image every StretchSize from the primitive origin and
// samples the nearest texel.
func (r *renderer) image(p *wr.ImagePrimitive) shader {
	if r.opts.images == nil {
		wr.Logger().Warn("image skipped: no resolver", "image", p.Image)
		return nil
	}
	img, ok := r.opts.images.Image(p.Image)
	if !ok {
		wr.Logger().Warn("image skipped: unknown key", "image", p.Image)
		return nil
	}
	sw, sh := p.StretchSize.Width, p.StretchSize.Height
	iw, ih := img.Width(), img.Height()
	ox, oy := p.Bounds.MinX(), p.Bounds.MinY()
	return func(x, y float32) (byte, byte, byte, byte, bool) {
		u := wrap(x-ox, sw) / sw
		v := wrap(y-oy, sh) / sh
		tx := min(iw-1, int(u*float32(iw)))
		ty := min(ih-1, int(v*float32(ih)))
		b, g, r, a := img.At(tx, ty)
		return b, g, r, a, true
	}
}

// wrap returns v modulo n in [0, n).
func wrap(v, n float32) float32 {
	m := math32.Mod(v, n)
	if m < 0 {
		m += n
	}
	return m
}

// border paints the ring between the outer rounded rectangle and the
// inner one inset by the side widths. Every visible style is drawn solid.
func border(p *wr.BorderPrimitive) shader {
	outer := p.Bounds
	l, t, rt, bt := p.Left.Width, p.Top.Width, p.Right.Width, p.Bottom.Width
	inner := wr.NewRect(outer.MinX()+l, outer.MinY()+t,
		outer.Size.Width-l-rt, outer.Size.Height-t-bt)
	innerRadius := wr.BorderRadius{
		TopLeft:     shrink(p.Radius.TopLeft, l, t),
		TopRight:    shrink(p.Radius.TopRight, rt, t),
		BottomLeft:  shrink(p.Radius.BottomLeft, l, bt),
		BottomRight: shrink(p.Radius.BottomRight, rt, bt),
	}

	type side struct {
		dist float32
		s    wr.BorderSide
	}
	return func(x, y float32) (byte, byte, byte, byte, bool) {
		if !insideRounded(outer, p.Radius, x, y) || insideRounded(inner, innerRadius, x, y) {
			return 0, 0, 0, 0, false
		}
		// The nearest side relative to its width owns the pixel, which
		// splits corners along their diagonal.
		sides := [4]side{
			{ratio(x-outer.MinX(), l), p.Left},
			{ratio(y-outer.MinY(), t), p.Top},
			{ratio(outer.MaxX()-x, rt), p.Right},
			{ratio(outer.MaxY()-y, bt), p.Bottom},
		}
		best := sides[0]
		for _, s := range sides[1:] {
			if s.dist < best.dist {
				best = s
			}
		}
		if best.s.Style == wr.BorderNone || best.s.Style == wr.BorderHidden {
			return 0, 0, 0, 0, false
		}
		b, g, r, a := best.s.Color.PremulBGRA()
		return b, g, r, a, true
	}
}

func ratio(d, width float32) float32 {
	if width <= 0 {
		return math32.Inf(1)
	}
	return d / width
}

func shrink(r wr.Size, dx, dy float32) wr.Size {
	return wr.Sz(max(0, r.Width-dx), max(0, r.Height-dy))
}

// insideRounded reports whether (x, y) lies in r with elliptical corners.
func insideRounded(r wr.Rect, rad wr.BorderRadius, x, y float32) bool {
	if !r.Contains(wr.Pt(x, y)) {
		return false
	}
	corners := [4]struct {
		size   wr.Size
		cx, cy float32
		in     bool
	}{
		{rad.TopLeft, r.MinX() + rad.TopLeft.Width, r.MinY() + rad.TopLeft.Height,
			x < r.MinX()+rad.TopLeft.Width && y < r.MinY()+rad.TopLeft.Height},
		{rad.TopRight, r.MaxX() - rad.TopRight.Width, r.MinY() + rad.TopRight.Height,
			x > r.MaxX()-rad.TopRight.Width && y < r.MinY()+rad.TopRight.Height},
		{rad.BottomLeft, r.MinX() + rad.BottomLeft.Width, r.MaxY() - rad.BottomLeft.Height,
			x < r.MinX()+rad.BottomLeft.Width && y > r.MaxY()-rad.BottomLeft.Height},
		{rad.BottomRight, r.MaxX() - rad.BottomRight.Width, r.MaxY() - rad.BottomRight.Height,
			x > r.MaxX()-rad.BottomRight.Width && y > r.MaxY()-rad.BottomRight.Height},
	}
	for _, c := range corners {
		if c.size.IsEmpty() || !c.in {
			continue
		}
		nx := (x - c.cx) / c.size.Width
		ny := (y - c.cy) / c.size.Height
		return nx*nx+ny*ny <= 1
	}
	return true
}

// homography is the 3x3 projective part of a Matrix4 acting on z = 0
// points, row-major.
type homography [9]float32

func homographyOf(m wr.Matrix4) homography {
	if m == (wr.Matrix4{}) {
		m = wr.Identity4()
	}
	return homography{m[0], m[1], m[3], m[4], m[5], m[7], m[12], m[13], m[15]}
}

func (h homography) invert() (homography, bool) {
	a, b, c := h[0], h[1], h[2]
	d, e, f := h[3], h[4], h[5]
	g, k, i := h[6], h[7], h[8]
	adj := homography{
		e*i - f*k, c*k - b*i, b*f - c*e,
		f*g - d*i, a*i - c*g, c*d - a*f,
		d*k - e*g, b*g - a*k, a*e - b*d,
	}
	det := a*adj[0] + b*adj[3] + c*adj[6]
	if math32.Abs(det) < 1e-12 {
		return homography{}, false
	}
	inv := 1 / det
	for j := range adj {
		adj[j] *= inv
	}
	return adj, true
}

func (h homography) apply(x, y float32) (float32, float32, bool) {
	w := h[6]*x + h[7]*y + h[8]
	if w == 0 {
		return 0, 0, false
	}
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w, true
}
