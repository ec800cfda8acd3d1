package models

import "github.com/taigrr/pcrender/pkg/math3d"

// Object is one drawable scene object: a *MeshObject or a *PointCloud.
// The set is closed; the renderer switches on the concrete type.
type Object interface {
	// Bounds returns the bounding box of the object's geometry.
	Bounds() Box
	// Transform applies m to every position in place.
	Transform(m math3d.Mat4)

	object()
}

// MeshObject groups the meshes loaded from one model file. Each mesh keeps
// its own shading choice.
type MeshObject struct {
	Name   string
	Meshes []*Mesh
}

// NewMeshObject creates an object from meshes.
func NewMeshObject(name string, meshes ...*Mesh) *MeshObject {
	return &MeshObject{Name: name, Meshes: meshes}
}

// Bounds returns the union of the mesh bounds.
func (o *MeshObject) Bounds() Box {
	b := EmptyBox()
	for _, m := range o.Meshes {
		b = b.Union(m.Bounds())
	}
	return b
}

// Transform transforms every mesh.
func (o *MeshObject) Transform(m math3d.Mat4) {
	for _, mesh := range o.Meshes {
		mesh.Transform(m)
	}
}

// TriangleCount returns the number of triangles across all meshes.
func (o *MeshObject) TriangleCount() int {
	n := 0
	for _, m := range o.Meshes {
		n += m.TriangleCount()
	}
	return n
}

func (*MeshObject) object() {}
func (*PointCloud) object() {}

// SceneBounds returns the union of the bounds of objs.
func SceneBounds(objs ...Object) Box {
	b := EmptyBox()
	for _, o := range objs {
		b = b.Union(o.Bounds())
	}
	return b
}

// Normalize centers objs on the origin and scales them uniformly so that the
// largest dimension of their combined bounds equals size.
func Normalize(size float64, objs ...Object) {
	b := SceneBounds(objs...)
	if b.IsEmpty() || b.MaxExtent() == 0 {
		return
	}
	s := size / b.MaxExtent()
	m := math3d.ScaleUniform(s).Mul(math3d.Translate(b.Center().Negate()))
	for _, o := range objs {
		o.Transform(m)
	}
}
