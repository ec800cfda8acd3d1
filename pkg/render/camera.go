package render

import (
	"math"

	"github.com/taigrr/pcrender/pkg/math3d"
)

// DefaultFOV is the default vertical field of view in degrees.
const DefaultFOV = 20.0

// Pose places the camera: it looks from Eye towards Center.
type Pose struct {
	Eye    math3d.Vec3
	Center math3d.Vec3
	Up     math3d.Vec3
}

// Distance returns the eye to center distance.
func (p Pose) Distance() float64 {
	return p.Eye.Sub(p.Center).Len()
}

// ModelMatrix returns the look-at matrix of the pose.
func (p Pose) ModelMatrix() math3d.Mat4 {
	return math3d.LookAt(p.Eye, p.Center, p.Up)
}

// Camera holds the projection parameters shared by every frame of an
// export. Clip planes scale with the scene: near is BoxSize/100 and far
// reaches 40 box sizes behind the center.
type Camera struct {
	FOV          float64 // Vertical field of view in degrees
	BoxSize      float64 // Largest scene dimension
	Orthographic bool
}

// NewCamera creates a perspective camera for a scene of the given size.
func NewCamera(boxSize float64) *Camera {
	return &Camera{
		FOV:     DefaultFOV,
		BoxSize: boxSize,
	}
}

// ClipPlanes returns the near and far planes for a pose at dist from its
// center.
func (c *Camera) ClipPlanes(dist float64) (near, far float64) {
	return c.BoxSize / 100, dist + c.BoxSize*40
}

// ProjectionMatrix returns the projection for a pose at dist from its
// center and the given aspect ratio (width / height). A FOV below one
// degree falls back to an orthographic projection sized from dist.
func (c *Camera) ProjectionMatrix(dist, aspect float64) math3d.Mat4 {
	near, far := c.ClipPlanes(dist)
	if c.Orthographic || c.FOV < 1 {
		sx, sy := dist*aspect/6, dist/6
		return math3d.Orthographic(-sx, sx, -sy, sy, near, far)
	}
	h := near * math.Tan(c.FOV*math.Pi/360)
	w := h * aspect
	return math3d.Frustum(-w, w, -h, h, near, far)
}

// Transform returns the frame transform for pose on a width x height
// image.
func (c *Camera) Transform(pose Pose, width, height int) Transform {
	return Transform{
		Model:      pose.ModelMatrix(),
		Projection: c.ProjectionMatrix(pose.Distance(), float64(width)/float64(height)),
	}
}

// FitDistance returns the eye distance at which a sphere around the scene
// box fills the vertical field of view, or the orthographic view height.
func (c *Camera) FitDistance() float64 {
	radius := c.BoxSize * math.Sqrt(3) / 2
	if c.Orthographic || c.FOV < 1 {
		return radius * 6
	}
	return radius / math.Sin(c.FOV*math.Pi/360)
}
