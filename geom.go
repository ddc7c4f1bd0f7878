package wr

import "github.com/chewxy/math32"

// Point is a position in a local coordinate space, in pixels.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is a two-dimensional extent, in pixels.
type Size struct {
	Width, Height float32
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h float32) Size {
	return Size{Width: w, Height: h}
}

// IsEmpty returns true if either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle described by its origin and size.
type Rect struct {
	Origin Point
	Size   Size
}

// NewRect creates a rectangle from its origin and size.
func NewRect(x, y, w, h float32) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// MinX returns the left edge.
func (r Rect) MinX() float32 { return r.Origin.X }

// MinY returns the top edge.
func (r Rect) MinY() float32 { return r.Origin.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float32 { return r.Origin.X + r.Size.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float32 { return r.Origin.Y + r.Size.Height }

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Size.IsEmpty()
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	return Rect{Origin: Point{X: r.Origin.X + dx, Y: r.Origin.Y + dy}, Size: r.Size}
}

// Intersect returns the overlap of r and o. The result is empty when they do
// not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math32.Max(r.MinX(), o.MinX())
	y0 := math32.Max(r.MinY(), o.MinY())
	x1 := math32.Min(r.MaxX(), o.MaxX())
	y1 := math32.Min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{Origin: Point{X: x0, Y: y0}}
	}
	return NewRect(x0, y0, x1-x0, y1-y0)
}

// Union returns the smallest rectangle containing both r and o.
// Empty rectangles do not contribute.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0 := math32.Min(r.MinX(), o.MinX())
	y0 := math32.Min(r.MinY(), o.MinY())
	x1 := math32.Max(r.MaxX(), o.MaxX())
	y1 := math32.Max(r.MaxY(), o.MaxY())
	return NewRect(x0, y0, x1-x0, y1-y0)
}

// valid reports whether every coordinate is finite and the size is non-negative.
func (r Rect) valid() bool {
	return finite(r.Origin.X) && finite(r.Origin.Y) &&
		finite(r.Size.Width) && finite(r.Size.Height) &&
		r.Size.Width >= 0 && r.Size.Height >= 0
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

// ClipRegion restricts where a primitive may paint, in the same local space
// as the primitive bounds.
type ClipRegion struct {
	Main Rect
}

// MaxDeviceExtent is the implicit device bound used by DeviceClip.
const MaxDeviceExtent = 2048

// NewClipRegion creates a rectangular clip.
func NewClipRegion(main Rect) ClipRegion {
	return ClipRegion{Main: main}
}

// DeviceClip returns a clip covering the largest supported device surface.
func DeviceClip() ClipRegion {
	return ClipRegion{Main: NewRect(0, 0, MaxDeviceExtent, MaxDeviceExtent)}
}
