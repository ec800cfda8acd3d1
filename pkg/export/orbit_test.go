package export

import (
	"math"
	"testing"

	"github.com/taigrr/pcrender/pkg/math3d"
)

func TestOrbit(t *testing.T) {
	path := OrbitPath{
		Center:    math3d.V3(1, 2, 3),
		Distance:  10,
		Elevation: math.Pi / 6,
		Turns:     1,
		Frames:    90,
		FPS:       30,
	}
	poses := Orbit(path)
	if len(poses) != path.Frames {
		t.Fatalf("got %d poses, want %d", len(poses), path.Frames)
	}

	first := poses[0].Eye.Sub(path.Center)
	want := math3d.V3(0, 5, 10*math.Cos(math.Pi/6))
	if first.Sub(want).Len() > 1e-9 {
		t.Errorf("first eye offset = %v, want %v", first, want)
	}

	prevYaw := 0.0
	for i, p := range poses {
		if d := p.Distance(); math.Abs(d-path.Distance) > 1e-9 {
			t.Errorf("pose %d distance = %v", i, d)
		}
		if p.Center != path.Center || p.Up != math3d.Up() {
			t.Errorf("pose %d center/up = %v/%v", i, p.Center, p.Up)
		}
		off := p.Eye.Sub(path.Center)
		yaw := math.Atan2(off.X, off.Z)
		if yaw < 0 {
			yaw += 2 * math.Pi
		}
		// The spring lags the target, so one turn never wraps around.
		if yaw+1e-12 < prevYaw {
			t.Errorf("yaw decreased at pose %d: %v < %v", i, yaw, prevYaw)
		}
		prevYaw = yaw
	}
	if prevYaw <= 0 {
		t.Error("camera never moved")
	}
}

func TestOrbitEdgeCases(t *testing.T) {
	if got := Orbit(OrbitPath{Distance: 1, Frames: 0}); got != nil {
		t.Errorf("Orbit with no frames = %v", got)
	}

	poses := Orbit(OrbitPath{Distance: 3, Frames: 4})
	for i, p := range poses {
		if p.Eye != math3d.V3(0, 0, 3) {
			t.Errorf("zero turns pose %d eye = %v", i, p.Eye)
		}
	}
}
