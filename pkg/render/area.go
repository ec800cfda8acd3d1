package render

import (
	"math"

	"github.com/taigrr/pcrender/pkg/math3d"
)

// ScreenArea is the inclusive pixel rectangle scanned for one primitive,
// clamped to the framebuffer. When MinX > MaxX or MinY > MaxY the area is
// empty and a scan over it runs zero iterations.
type ScreenArea struct {
	MinX, MinY int
	MaxX, MaxY int

	width, height int
}

// NewScreenArea creates an empty area for a width x height framebuffer.
func NewScreenArea(width, height int) ScreenArea {
	a := ScreenArea{width: width, height: height}
	a.reset()
	return a
}

func (a *ScreenArea) reset() {
	a.MinX, a.MinY = 0, 0
	a.MaxX, a.MaxY = -1, -1
}

// Empty reports whether the area holds no pixel.
func (a ScreenArea) Empty() bool {
	return a.MinX > a.MaxX || a.MinY > a.MaxY
}

// SetTriangle sets the area to the pixels spanned by three screen corners.
func (a *ScreenArea) SetTriangle(s [3]math3d.Vec2) {
	lo := math3d.V2(math.Inf(1), math.Inf(1))
	hi := math3d.V2(math.Inf(-1), math.Inf(-1))
	for _, p := range s {
		p = math3d.V2(math.Trunc(p.X), math.Trunc(p.Y))
		lo = math3d.V2(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = math3d.V2(max(hi.X, p.X), max(hi.Y, p.Y))
	}
	a.set(lo, hi)
}

// SetSplat sets the area to the square of half-size radius around p.
// A negative radius yields an inverted, empty area.
func (a *ScreenArea) SetSplat(p math3d.Vec2, radius float64) {
	a.set(
		math3d.V2(math.Trunc(p.X-radius), math.Trunc(p.Y-radius)),
		math3d.V2(math.Trunc(p.X+radius), math.Trunc(p.Y+radius)),
	)
}

// set clamps the truncated bounds to the framebuffer. Clamping happens
// before the int conversion so that infinities stay representable; any
// NaN empties the area.
func (a *ScreenArea) set(lo, hi math3d.Vec2) {
	if math.IsNaN(lo.X) || math.IsNaN(lo.Y) || math.IsNaN(hi.X) || math.IsNaN(hi.Y) {
		a.reset()
		return
	}
	w, h := float64(a.width), float64(a.height)
	a.MinX = int(min(max(lo.X, 0), w))
	a.MinY = int(min(max(lo.Y, 0), h))
	a.MaxX = int(max(min(hi.X, w-1), -1))
	a.MaxY = int(max(min(hi.Y, h-1), -1))
}
