package render

import "github.com/taigrr/pcrender/pkg/math3d"

// Viewport maps normalized device coordinates to pixels. The origin is the
// bottom-left corner.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// NewViewport returns the viewport covering a width x height image.
func NewViewport(width, height int) Viewport {
	return Viewport{Width: float64(width), Height: float64(height)}
}

// Project divides x and y by w and maps them to pixel coordinates.
// A zero w is not guarded against; the resulting infinities or NaNs make
// the screen area empty downstream.
func (v Viewport) Project(clip math3d.Vec4) math3d.Vec2 {
	return math3d.V2(
		(0.5*(clip.X/clip.W)+0.5)*v.Width+v.X,
		(0.5*(clip.Y/clip.W)+0.5)*v.Height+v.Y,
	)
}

// ScreenTriangle is a projected triangle. Clip keeps the homogeneous
// corners for depth interpolation.
type ScreenTriangle struct {
	Screen [3]math3d.Vec2
	Clip   [3]math3d.Vec4
}

// ProjectTriangle projects the three clip-space corners of a triangle.
func (v Viewport) ProjectTriangle(a, b, c math3d.Vec4) ScreenTriangle {
	return ScreenTriangle{
		Screen: [3]math3d.Vec2{v.Project(a), v.Project(b), v.Project(c)},
		Clip:   [3]math3d.Vec4{a, b, c},
	}
}

// Depth interpolates clip-space z with barycentric weights.
func (t *ScreenTriangle) Depth(bc math3d.Vec3) float64 {
	return t.Clip[0].Z*bc.X + t.Clip[1].Z*bc.Y + t.Clip[2].Z*bc.Z
}
