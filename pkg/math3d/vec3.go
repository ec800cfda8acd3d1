// Package math3d provides the vector and matrix types used by the renderer.
// Matrices follow OpenGL conventions: column-major storage, right-handed
// view space looking down -Z, clip space in [-1, 1].
package math3d

import "math"

// Vec3 is a position, direction or RGB color.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Up returns the world up vector (0, 1, 0).
func Up() Vec3 {
	return Vec3{Y: 1}
}

// each applies f to every component.
func (a Vec3) each(f func(float64) float64) Vec3 {
	return Vec3{f(a.X), f(a.Y), f(a.Z)}
}

// zip combines matching components of a and b with f.
func (a Vec3) zip(b Vec3, f func(x, y float64) float64) Vec3 {
	return Vec3{f(a.X, b.X), f(a.Y, b.Y), f(a.Z, b.Z)}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return a.Add(b.Negate())
}

// Mul multiplies component-wise, as when tinting a color.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{X: s * a.X, Y: s * a.Y, Z: s * a.Z}
}

func (a Vec3) Div(s float64) Vec3 {
	return Vec3{X: a.X / s, Y: a.Y / s, Z: a.Z / s}
}

func (a Vec3) Negate() Vec3 {
	return a.Scale(-1)
}

func (a Vec3) Dot(b Vec3) float64 {
	p := a.Mul(b)
	return p.X + p.Y + p.Z
}

// Cross returns the right-handed cross product a x b.
func (a Vec3) Cross(b Vec3) Vec3 {
	x := a.Y*b.Z - b.Y*a.Z
	y := a.Z*b.X - b.Z*a.X
	z := a.X*b.Y - b.X*a.Y
	return Vec3{x, y, z}
}

func (a Vec3) Len() float64 {
	return math.Sqrt(a.Dot(a))
}

// Normalize returns a unit vector, or the zero vector when a has no length.
func (a Vec3) Normalize() Vec3 {
	if l := a.Len(); l != 0 {
		return a.Div(l)
	}
	return Vec3{}
}

// Lerp moves from a towards b by t; t = 0 gives a and t = 1 gives b.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

func (a Vec3) Min(b Vec3) Vec3 { return a.zip(b, math.Min) }
func (a Vec3) Max(b Vec3) Vec3 { return a.zip(b, math.Max) }

// Clamp limits every component to [lo, hi]. NaN components stay NaN.
func (a Vec3) Clamp(lo, hi float64) Vec3 {
	return a.each(func(v float64) float64 { return min(max(v, lo), hi) })
}

// IsNaN reports whether any component is NaN.
func (a Vec3) IsNaN() bool {
	return math.IsNaN(a.X) || math.IsNaN(a.Y) || math.IsNaN(a.Z)
}
