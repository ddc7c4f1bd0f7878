package wr

import "github.com/chewxy/math32"

// Matrix4 is a 4x4 transform in row-major order acting on column vectors:
//
//	| m0  m1  m2  m3  |
//	| m4  m5  m6  m7  |
//	| m8  m9  m10 m11 |
//	| m12 m13 m14 m15 |
//
// The zero value behaves as the identity so that a StackingContext built
// without a transform does not collapse its subtree.
type Matrix4 [16]float32

// Identity4 returns the identity matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate4 creates a translation matrix.
func Translate4(x, y, z float32) Matrix4 {
	m := Identity4()
	m[3], m[7], m[11] = x, y, z
	return m
}

// Scale4 creates a scaling matrix.
func Scale4(x, y, z float32) Matrix4 {
	m := Identity4()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateZ4 creates a rotation about the z axis (angle in radians).
func RotateZ4(angle float32) Matrix4 {
	c, s := math32.Cos(angle), math32.Sin(angle)
	m := Identity4()
	m[0], m[1] = c, -s
	m[4], m[5] = s, c
	return m
}

// Perspective4 creates a CSS-style perspective projection with the viewer
// at distance d on the z axis. A non-positive d yields the identity.
func Perspective4(d float32) Matrix4 {
	m := Identity4()
	if d > 0 {
		m[14] = -1 / d
	}
	return m
}

func (m Matrix4) norm() Matrix4 {
	if m == (Matrix4{}) {
		return Identity4()
	}
	return m
}

// IsIdentity returns true if m is the identity (or the zero value).
func (m Matrix4) IsIdentity() bool {
	return m.norm() == Identity4()
}

// Mul returns m × n: n is applied first, then m.
func (m Matrix4) Mul(n Matrix4) Matrix4 {
	a, b := m.norm(), n.norm()
	var r Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[row*4+k] * b[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// TransformPoint maps p (at z = 0) through m, including the perspective divide.
func (m Matrix4) TransformPoint(p Point) Point {
	a := m.norm()
	x := a[0]*p.X + a[1]*p.Y + a[3]
	y := a[4]*p.X + a[5]*p.Y + a[7]
	w := a[12]*p.X + a[13]*p.Y + a[15]
	if w != 0 && w != 1 {
		x /= w
		y /= w
	}
	return Point{X: x, Y: y}
}

// Flatten projects m onto the z = 0 plane, discarding depth so that
// descendants compose in 2D.
func (m Matrix4) Flatten() Matrix4 {
	r := m.norm()
	r[2], r[6], r[14] = 0, 0, 0
	r[8], r[9], r[11] = 0, 0, 0
	r[10] = 1
	return r
}

// IsAffine2D reports whether m only has 2D affine components, so that it
// can be evaluated without a perspective divide.
func (m Matrix4) IsAffine2D() bool {
	a := m.norm()
	return a[12] == 0 && a[13] == 0 && a[14] == 0 && a[15] == 1 &&
		a[2] == 0 && a[6] == 0 && a[8] == 0 && a[9] == 0
}

// Affine returns the 2D affine part of m as (a, b, c, d, e, f) where
// x' = a*x + b*y + c and y' = d*x + e*y + f.
func (m Matrix4) Affine() [6]float32 {
	a := m.norm()
	return [6]float32{a[0], a[1], a[3], a[4], a[5], a[7]}
}

// Invert2D returns the inverse of the 2D affine part of m.
// The boolean is false if the affine part is singular.
func (m Matrix4) Invert2D() ([6]float32, bool) {
	af := m.Affine()
	det := af[0]*af[4] - af[1]*af[3]
	if math32.Abs(det) < 1e-12 {
		return [6]float32{}, false
	}
	inv := 1 / det
	a := af[4] * inv
	b := -af[1] * inv
	d := -af[3] * inv
	e := af[0] * inv
	c := -(a*af[2] + b*af[5])
	f := -(d*af[2] + e*af[5])
	return [6]float32{a, b, c, d, e, f}, true
}

// TransformRect returns the bounding box of r mapped through m.
func (m Matrix4) TransformRect(r Rect) Rect {
	pts := [4]Point{
		m.TransformPoint(Point{X: r.MinX(), Y: r.MinY()}),
		m.TransformPoint(Point{X: r.MaxX(), Y: r.MinY()}),
		m.TransformPoint(Point{X: r.MinX(), Y: r.MaxY()}),
		m.TransformPoint(Point{X: r.MaxX(), Y: r.MaxY()}),
	}
	x0, y0 := pts[0].X, pts[0].Y
	x1, y1 := x0, y0
	for _, p := range pts[1:] {
		x0, y0 = math32.Min(x0, p.X), math32.Min(y0, p.Y)
		x1, y1 = math32.Max(x1, p.X), math32.Max(y1, p.Y)
	}
	return NewRect(x0, y0, x1-x0, y1-y0)
}

func (m Matrix4) finite() bool {
	for _, v := range m {
		if !finite(v) {
			return false
		}
	}
	return true
}
