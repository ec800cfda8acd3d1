package models

import (
	"fmt"

	"github.com/taigrr/pcrender/pkg/math3d"
)

// PointCloud stores points as parallel arrays: Positions[i] is drawn with
// Colors[i]. Colors are RGB in 0-1 range.
type PointCloud struct {
	Name      string
	Positions []math3d.Vec3
	Colors    []math3d.Vec3

	bounds Box
}

// NewPointCloud creates a point cloud and computes its bounds.
// It fails if the two arrays differ in length.
func NewPointCloud(name string, positions, colors []math3d.Vec3) (*PointCloud, error) {
	if len(positions) != len(colors) {
		return nil, fmt.Errorf("point cloud %q: %d positions but %d colors", name, len(positions), len(colors))
	}
	pc := &PointCloud{Name: name, Positions: positions, Colors: colors}
	pc.CalculateBounds()
	return pc, nil
}

// NumPoints returns the number of points.
func (pc *PointCloud) NumPoints() int {
	return len(pc.Positions)
}

// CalculateBounds recomputes the bounding box.
func (pc *PointCloud) CalculateBounds() {
	pc.bounds = EmptyBox()
	for _, p := range pc.Positions {
		pc.bounds = pc.bounds.Extend(p)
	}
}

// Bounds returns the bounding box.
func (pc *PointCloud) Bounds() Box {
	return pc.bounds
}

// Transform applies m to every position.
func (pc *PointCloud) Transform(m math3d.Mat4) {
	for i, p := range pc.Positions {
		pc.Positions[i] = m.MulVec3(p)
	}
	pc.CalculateBounds()
}
