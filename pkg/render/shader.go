package render

import (
	"math"

	"github.com/taigrr/pcrender/pkg/math3d"
	"github.com/taigrr/pcrender/pkg/models"
)

// Lighting constants, shared by every shading mode.
var (
	LightDirection  = math3d.V3(1, 1, 1)
	LightColor      = math3d.V3(1, 1, 1)
	MaterialAmbient = math3d.V3(0.4, 0.4, 0.4)
	MaterialDiffuse = math3d.V3(0.6, 0.6, 0.6)
)

// ShadingMode selects how a mesh is colored.
type ShadingMode int

const (
	ShadeVertexColor ShadingMode = iota // Interpolate per-vertex colors
	ShadeTexture                        // Bilinear texture lookup
)

func (m ShadingMode) String() string {
	switch m {
	case ShadeVertexColor:
		return "vertex-color"
	case ShadeTexture:
		return "texture"
	}
	return "unknown"
}

// Shader transforms the corners of one triangle at a time and colors its
// fragments. Vertex caches the per-corner attributes that Fragment
// interpolates, so the three corners of a face must be processed before its
// fragments.
type Shader struct {
	Mode     ShadingMode
	Filter   FilterMode // Texture filter for ShadeTexture
	Lighting bool

	mesh *models.Mesh
	mvp  math3d.Mat4
	nrm  math3d.Mat4

	colors  [3]math3d.Vec3
	uvs     [3]math3d.Vec2
	normals [3]math3d.Vec3
}

// NewShader creates the shader for mesh. The mode follows
// mesh.UseColorPerVertex.
func NewShader(mesh *models.Mesh, mvp, normalMatrix math3d.Mat4, lighting bool) *Shader {
	mode := ShadeTexture
	if mesh.UseColorPerVertex {
		mode = ShadeVertexColor
	}
	return &Shader{
		Mode:     mode,
		Lighting: lighting,
		mesh:     mesh,
		mvp:      mvp,
		nrm:      normalMatrix,
	}
}

// Vertex returns the clip-space position of corner i of face and caches the
// attributes the fragment stage needs.
func (s *Shader) Vertex(face, i int) math3d.Vec4 {
	v := s.mesh.Corner(face, i)
	switch s.Mode {
	case ShadeVertexColor:
		s.colors[i] = v.Color.Vec3()
	case ShadeTexture:
		s.uvs[i] = v.UV
	}
	if s.Lighting {
		s.normals[i] = s.nrm.MulVec3Dir(v.Normal)
	}
	return s.mvp.MulVec4(math3d.V4FromV3(v.Position, 1))
}

// Fragment returns the color at barycentric weights bc.
func (s *Shader) Fragment(bc math3d.Vec3) math3d.Vec3 {
	var rgb math3d.Vec3
	switch s.Mode {
	case ShadeVertexColor:
		rgb = s.colors[0].Scale(bc.X).Add(s.colors[1].Scale(bc.Y)).Add(s.colors[2].Scale(bc.Z))
	case ShadeTexture:
		uv := s.uvs[0].Scale(bc.X).Add(s.uvs[1].Scale(bc.Y)).Add(s.uvs[2].Scale(bc.Z))
		rgb = Sample(s.mesh.Texture, uv, s.Filter).Scale(1.0 / 256)
	}
	if !s.Lighting {
		return rgb
	}

	n := s.normals[0].Scale(bc.X).Add(s.normals[1].Scale(bc.Y)).Add(s.normals[2].Scale(bc.Z))
	return shade(rgb, n)
}

// shade applies the ambient plus diffuse model to rgb for surface normal n.
func shade(rgb, n math3d.Vec3) math3d.Vec3 {
	diff := math.Max(n.Normalize().Dot(LightDirection.Normalize()), 0)
	ambient := rgb.Mul(MaterialAmbient)
	diffuse := rgb.Mul(MaterialDiffuse).Mul(LightColor).Scale(diff)
	return ambient.Add(diffuse).Clamp(0, 1)
}
