package models

import (
	"math"

	"github.com/taigrr/pcrender/pkg/math3d"
)

// Box is an axis-aligned bounding box.
// The zero value is a degenerate box at the origin; use EmptyBox to start
// accumulating points.
type Box struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewBox creates a box from min and max corners.
func NewBox(min, max math3d.Vec3) Box {
	return Box{Min: min, Max: max}
}

// EmptyBox returns an inverted box that any Extend call replaces.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: math3d.V3(inf, inf, inf),
		Max: math3d.V3(-inf, -inf, -inf),
	}
}

// IsEmpty reports whether the box contains no point.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend returns the box grown to contain p.
func (b Box) Extend(p math3d.Vec3) Box {
	return Box{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Box{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the center of the box.
func (b Box) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the box.
func (b Box) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// HalfSize returns half the dimensions (extents from center).
func (b Box) HalfSize() math3d.Vec3 {
	return b.Size().Scale(0.5)
}

// MaxExtent returns the largest dimension of the box.
func (b Box) MaxExtent() float64 {
	s := b.Size()
	return max(s.X, s.Y, s.Z)
}

// ContainsPoint returns true if the point is inside the box.
func (b Box) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
