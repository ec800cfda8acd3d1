package models

import (
	"math"
	"testing"

	"github.com/taigrr/pcrender/pkg/math3d"
)

func TestBoxMesh(t *testing.T) {
	box := NewBox(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))
	color := math3d.V4(0.5, 0.25, 1, 1)
	m := NewBoxMesh(box, color)

	if m.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", m.TriangleCount())
	}
	if !m.UseColorPerVertex {
		t.Error("box mesh should use vertex colors")
	}
	if m.BoundsMin != box.Min || m.BoundsMax != box.Max {
		t.Errorf("bounds = %v..%v, want %v..%v", m.BoundsMin, m.BoundsMax, box.Min, box.Max)
	}

	for i, v := range m.Vertices {
		if v.Color != color {
			t.Fatalf("vertex %d color = %v", i, v.Color)
		}
		if math.Abs(v.Normal.Len()-1) > 1e-9 {
			t.Fatalf("vertex %d normal not unit: %v", i, v.Normal)
		}
		// Corner normals point away from the center.
		if v.Normal.Dot(v.Position.Sub(box.Center())) <= 0 {
			t.Errorf("vertex %d normal %v points inward", i, v.Normal)
		}
	}
}

func TestSmoothNormalsShareAcrossSeams(t *testing.T) {
	// Two triangles meeting at a right angle along the X axis, with the
	// shared edge duplicated as separate vertices.
	m := NewMesh("fold")
	m.Vertices = []Vertex{
		{Position: math3d.V3(0, 0, 0)}, {Position: math3d.V3(1, 0, 0)}, {Position: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(0, 0, 0)}, {Position: math3d.V3(0, 0, 1)}, {Position: math3d.V3(1, 0, 0)},
	}
	m.Indices = []uint32{0, 1, 2, 3, 4, 5}
	m.CalculateSmoothNormals()

	want := math3d.V3(0, 1, 1).Normalize()
	for _, i := range []int{0, 3} {
		if got := m.Vertices[i].Normal; got.Sub(want).Len() > 1e-9 {
			t.Errorf("vertex %d normal = %v, want %v", i, got, want)
		}
	}
	if got := m.Vertices[2].Normal; got != math3d.V3(0, 0, 1) {
		t.Errorf("unshared vertex normal = %v, want +Z", got)
	}
}

func TestSmoothNormalsDegenerate(t *testing.T) {
	m := NewMesh("line")
	m.Vertices = []Vertex{
		{Position: math3d.V3(0, 0, 0)}, {Position: math3d.V3(1, 0, 0)}, {Position: math3d.V3(2, 0, 0)},
	}
	m.Indices = []uint32{0, 1, 2}
	m.CalculateSmoothNormals()

	for i, v := range m.Vertices {
		if v.Normal != math3d.V3(0, 0, 1) {
			t.Errorf("vertex %d normal = %v, want fallback +Z", i, v.Normal)
		}
	}
}

func TestMeshTransform(t *testing.T) {
	m := NewBoxMesh(NewBox(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1)), math3d.V4(1, 1, 1, 1))
	m.Transform(math3d.Translate(math3d.V3(10, 0, 0)).Mul(math3d.Scale(math3d.V3(2, 1, 1))))

	if m.BoundsMin.X != 10 || m.BoundsMax.X != 12 {
		t.Errorf("bounds x = [%v, %v], want [10, 12]", m.BoundsMin.X, m.BoundsMax.X)
	}
	for i, v := range m.Vertices {
		if math.Abs(v.Normal.Len()-1) > 1e-9 {
			t.Fatalf("vertex %d normal not unit after transform: %v", i, v.Normal)
		}
	}
}

func TestNormalize(t *testing.T) {
	pc, err := NewPointCloud("pc", []math3d.Vec3{math3d.V3(10, 10, 10), math3d.V3(14, 12, 10)}, make([]math3d.Vec3, 2))
	if err != nil {
		t.Fatal(err)
	}
	mo := NewMeshObject("m", NewBoxMesh(NewBox(math3d.V3(10, 10, 10), math3d.V3(12, 11, 11)), math3d.V4(1, 1, 1, 1)))

	Normalize(2, pc, mo)

	b := SceneBounds(pc, mo)
	if math.Abs(b.MaxExtent()-2) > 1e-9 {
		t.Errorf("MaxExtent = %v, want 2", b.MaxExtent())
	}
	if c := b.Center(); c.Len() > 1e-9 {
		t.Errorf("center = %v, want origin", c)
	}
}
