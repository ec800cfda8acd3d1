// Package models holds the scene data handed to the renderer: meshes, point
// clouds, textures and the loaders that build them.
package models

import (
	"math"

	"github.com/taigrr/pcrender/pkg/math3d"
)

// Vertex holds all vertex attributes.
type Vertex struct {
	Position math3d.Vec3
	Color    math3d.Vec4 // RGBA in 0-1 range
	UV       math3d.Vec2 // Origin at bottom-left
	Normal   math3d.Vec3
}

// Mesh is an indexed triangle list. Every three entries of Indices form one
// triangle.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Texture  *Texture

	// UseColorPerVertex selects vertex-color shading. When false the mesh
	// is shaded from Texture, which must then be non-nil.
	UseColorPerVertex bool

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty vertex-colored mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:              name,
		UseColorPerVertex: true,
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Corner returns the vertex at corner i (0..2) of triangle face.
func (m *Mesh) Corner(face, i int) *Vertex {
	return &m.Vertices[m.Indices[face*3+i]]
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Bounds returns the bounding box, or an empty box for a mesh without
// vertices.
func (m *Mesh) Bounds() Box {
	if len(m.Vertices) == 0 {
		return EmptyBox()
	}
	return NewBox(m.BoundsMin, m.BoundsMax)
}

// CalculateSmoothNormals computes vertex normals without seams: the
// unnormalized face normals of every triangle touching a position are summed
// and shared by all vertices at that position, even when the vertices are
// distinct entries (split for color or UV).
func (m *Mesh) CalculateSmoothNormals() {
	sums := make(map[math3d.Vec3]math3d.Vec3)

	for f := range m.TriangleCount() {
		p0 := m.Corner(f, 0).Position
		p1 := m.Corner(f, 1).Position
		p2 := m.Corner(f, 2).Position
		n := p1.Sub(p0).Cross(p2.Sub(p0))

		for i := range 3 {
			p := m.Corner(f, i).Position
			sums[p] = sums[p].Add(n)
		}
	}

	for i := range m.Vertices {
		n, ok := sums[m.Vertices[i].Position]
		if !ok {
			continue
		}
		m.Vertices[i].Normal = normalizeOrZ(n)
	}
}

// normalizeOrZ normalizes n, falling back to +Z for degenerate input.
func normalizeOrZ(n math3d.Vec3) math3d.Vec3 {
	l := n.Len()
	n = n.Div(l)
	if l == 0 || math.IsNaN(n.X) {
		return math3d.V3(0, 0, 1)
	}
	return n
}

// Transform applies a transformation matrix to all vertices.
// Normals are transformed with the inverse transpose so they stay
// perpendicular under non-uniform scaling.
func (m *Mesh) Transform(mat math3d.Mat4) {
	nrm := mat.NormalMatrix()
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		if m.Vertices[i].Normal != (math3d.Vec3{}) {
			m.Vertices[i].Normal = nrm.MulVec3Dir(m.Vertices[i].Normal).Normalize()
		}
	}
	m.CalculateBounds()
}

// boxCorners lists, for each of the 36 box vertices, whether the x, y and z
// coordinates come from the box minimum (0) or maximum (1).
var boxCorners = [36][3]uint8{
	{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {1, 1, 0}, {0, 0, 0}, {0, 1, 0}, {1, 0, 1}, {0, 0, 0}, {1, 0, 0},
	{1, 1, 0}, {1, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 1, 1}, {0, 1, 0}, {1, 0, 1}, {0, 0, 1}, {0, 0, 0},
	{0, 1, 1}, {0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {1, 0, 0}, {1, 1, 0}, {1, 0, 0}, {1, 1, 1}, {1, 0, 1},
	{1, 1, 1}, {1, 1, 0}, {0, 1, 0}, {1, 1, 1}, {0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {0, 1, 1}, {1, 0, 1},
}

// NewBoxMesh creates the 12-triangle mesh of box, uniformly colored, with
// seamless vertex normals.
func NewBoxMesh(box Box, c math3d.Vec4) *Mesh {
	m := NewMesh("box")
	m.Vertices = make([]Vertex, len(boxCorners))
	m.Indices = make([]uint32, len(boxCorners))

	ends := [2]math3d.Vec3{box.Min, box.Max}
	for i, e := range boxCorners {
		m.Vertices[i] = Vertex{
			Position: math3d.V3(ends[e[0]].X, ends[e[1]].Y, ends[e[2]].Z),
			Color:    c,
		}
		m.Indices[i] = uint32(i)
	}

	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}
