package render

import (
	"fmt"
	"math"

	"github.com/taigrr/pcrender/pkg/math3d"
	"github.com/taigrr/pcrender/pkg/models"
)

// PointSize is the splat half-size in pixels of a point at clip w = 1.
// Splats scale with 1/w, like GPU point size attenuation.
const PointSize = 500.0

// Transform is the camera input of one frame.
type Transform struct {
	Model      math3d.Mat4 // World to view (look-at)
	Projection math3d.Mat4 // View to clip
}

// MVP returns Projection * Model.
func (t Transform) MVP() math3d.Mat4 {
	return t.Projection.Mul(t.Model)
}

// Engine rasterizes one frame into a framebuffer. It is not safe for
// concurrent use; parallel exports use one Engine, Framebuffer and
// DepthBuffer per frame.
type Engine struct {
	fb       *Framebuffer
	depth    *DepthBuffer
	viewport Viewport
	mvp      math3d.Mat4
	nrm      math3d.Mat4
	lighting bool

	// Filter is the texture filter of textured meshes; the zero value
	// is bilinear.
	Filter FilterMode

	Stats Stats // Work counters for logging and tests
}

// Stats counts the work done by an Engine.
type Stats struct {
	Triangles     int // Triangles processed
	Points        int // Points processed
	Fragments     int // Fragments written
	DepthRejected int // Fragments that lost the depth test
	NaNDiscarded  int // Fragments dropped for NaN depth
}

// NewEngine creates an engine drawing into fb. depth must match fb in size;
// pass nil to allocate a fresh one.
func NewEngine(fb *Framebuffer, depth *DepthBuffer, xf Transform, lighting bool) *Engine {
	if depth == nil {
		depth = NewDepthBuffer(fb.Width(), fb.Height())
	}
	depth.mustMatch(fb)
	return &Engine{
		fb:       fb,
		depth:    depth,
		viewport: NewViewport(fb.Width(), fb.Height()),
		mvp:      xf.MVP(),
		nrm:      xf.Model.NormalMatrix(),
		lighting: lighting,
	}
}

// Depth returns the frame's depth buffer.
func (e *Engine) Depth() *DepthBuffer { return e.depth }

// DrawBackground fills the framebuffer with c.
func (e *Engine) DrawBackground(c math3d.Vec3) {
	e.fb.Fill(c)
}

// DrawFloor draws box as a vertex-colored mesh.
func (e *Engine) DrawFloor(box models.Box, c math3d.Vec4) {
	e.DrawMesh(models.NewBoxMesh(box, c))
}

// DrawObject draws a scene object.
func (e *Engine) DrawObject(obj models.Object) {
	switch o := obj.(type) {
	case *models.MeshObject:
		for _, m := range o.Meshes {
			e.DrawMesh(m)
		}
	case *models.PointCloud:
		e.DrawPointCloud(o)
	default:
		panic(fmt.Sprintf("render: unknown object type %T", obj))
	}
}

// DrawMesh rasterizes every triangle of mesh with the shader its
// UseColorPerVertex flag selects.
func (e *Engine) DrawMesh(mesh *models.Mesh) {
	shader := NewShader(mesh, e.mvp, e.nrm, e.lighting)
	shader.Filter = e.Filter
	e.drawTriangles(mesh, shader)
}

func (e *Engine) drawTriangles(mesh *models.Mesh, shader *Shader) {
	area := NewScreenArea(e.fb.Width(), e.fb.Height())

	for f := range mesh.TriangleCount() {
		e.Stats.Triangles++
		tri := e.viewport.ProjectTriangle(shader.Vertex(f, 0), shader.Vertex(f, 1), shader.Vertex(f, 2))
		s := tri.Screen

		// Edge vectors relative to corner 2. A degenerate triangle gives
		// an infinite inverse determinant and non-finite weights, which
		// fail the coverage test.
		ea := math3d.V2(s[1].Y-s[2].Y, s[2].X-s[1].X)
		eb := math3d.V2(s[2].Y-s[0].Y, s[0].X-s[2].X)
		invDet := 1 / (ea.X*eb.Y - eb.X*ea.Y)

		area.SetTriangle(s)
		for x := area.MinX; x <= area.MaxX; x++ {
			for y := area.MinY; y <= area.MaxY; y++ {
				p := math3d.V2(float64(x), float64(y)).Sub(s[2])
				a := ea.Dot(p) * invDet
				b := eb.Dot(p) * invDet
				bc := math3d.V3(a, b, 1-a-b)
				if !(bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0) {
					continue
				}
				if e.testDepth(x, y, tri.Depth(bc)) {
					e.fb.Set(x, y, shader.Fragment(bc))
				}
			}
		}
	}
}

// DrawPointCloud draws each point as a square splat of flat color.
func (e *Engine) DrawPointCloud(pc *models.PointCloud) {
	area := NewScreenArea(e.fb.Width(), e.fb.Height())

	for i, pos := range pc.Positions {
		e.Stats.Points++
		clip := e.mvp.MulVec4(math3d.V4FromV3(pos, 1))
		area.SetSplat(e.viewport.Project(clip), PointSize/clip.W)

		for x := area.MinX; x <= area.MaxX; x++ {
			for y := area.MinY; y <= area.MaxY; y++ {
				if e.testDepth(x, y, clip.Z) {
					e.fb.Set(x, y, pc.Colors[i])
				}
			}
		}
	}
}

func (e *Engine) testDepth(x, y int, d float64) bool {
	switch {
	case math.IsNaN(d):
		e.Stats.NaNDiscarded++
		return false
	case e.depth.Test(x, y, d):
		e.Stats.Fragments++
		return true
	default:
		e.Stats.DepthRejected++
		return false
	}
}

// ResolveDepth overwrites the framebuffer with a gray depth map: the
// nearest written depth is black, the farthest white, and pixels never
// drawn are white.
func (e *Engine) ResolveDepth() {
	lo, hi, ok := e.depth.Range()
	scale := 0.0
	if ok && hi > lo {
		scale = 1 / (hi - lo)
	}

	for y := range e.fb.Height() {
		for x := range e.fb.Width() {
			d := e.depth.At(x, y)
			g := 1.0
			if d != math.MaxFloat64 {
				g = (d - lo) * scale
			}
			e.fb.Set(x, y, math3d.V3(g, g, g))
		}
	}
}
