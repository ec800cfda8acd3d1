package models

import (
	"testing"

	"github.com/taigrr/pcrender/pkg/math3d"
)

func TestNewPointCloud(t *testing.T) {
	tests := []struct {
		name    string
		pos     []math3d.Vec3
		colors  []math3d.Vec3
		wantErr bool
	}{
		{"empty", nil, nil, false},
		{"matched", []math3d.Vec3{{X: 1}}, []math3d.Vec3{{X: 1}}, false},
		{"mismatched", []math3d.Vec3{{X: 1}, {Y: 1}}, []math3d.Vec3{{X: 1}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPointCloud(tc.name, tc.pos, tc.colors)
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestPointCloudBounds(t *testing.T) {
	pc, err := NewPointCloud("pc",
		[]math3d.Vec3{math3d.V3(-1, 2, 0), math3d.V3(3, -4, 5)},
		[]math3d.Vec3{{}, {}})
	if err != nil {
		t.Fatal(err)
	}

	b := pc.Bounds()
	if b.Min != math3d.V3(-1, -4, 0) || b.Max != math3d.V3(3, 2, 5) {
		t.Errorf("bounds = %+v", b)
	}

	pc.Transform(math3d.Translate(math3d.V3(1, 1, 1)))
	if b := pc.Bounds(); b.Min != math3d.V3(0, -3, 1) {
		t.Errorf("bounds after transform = %+v", b)
	}

	empty, _ := NewPointCloud("empty", nil, nil)
	if !empty.Bounds().IsEmpty() {
		t.Error("empty point cloud should have empty bounds")
	}
}

func TestBoxUnion(t *testing.T) {
	a := NewBox(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1))
	b := NewBox(math3d.V3(-1, 0.5, 0), math3d.V3(0.5, 3, 1))

	u := a.Union(b)
	if u.Min != math3d.V3(-1, 0, 0) || u.Max != math3d.V3(1, 3, 1) {
		t.Errorf("union = %+v", u)
	}
	if got := EmptyBox().Union(a); got != a {
		t.Errorf("empty union a = %+v, want %+v", got, a)
	}
	if !u.ContainsPoint(math3d.V3(0, 2, 0.5)) {
		t.Error("union should contain (0, 2, 0.5)")
	}
	if u.MaxExtent() != 3 {
		t.Errorf("MaxExtent = %v, want 3", u.MaxExtent())
	}
}
