package math3d

// Vec4 is a homogeneous point in clip space, or an RGBA color.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// V4FromV3 extends v with w: 1 for points, 0 for directions.
func V4FromV3(v Vec3, w float64) Vec4 {
	return V4(v.X, v.Y, v.Z, w)
}

// Vec3 drops W.
func (v Vec4) Vec3() Vec3 {
	return V3(v.X, v.Y, v.Z)
}

// PerspectiveDivide returns the normalized device coordinates x/w, y/w, z/w.
// A zero W is divided through like any other value; callers that need
// finite results must check W themselves.
func (v Vec4) PerspectiveDivide() Vec3 {
	return v.Vec3().Div(v.W)
}
