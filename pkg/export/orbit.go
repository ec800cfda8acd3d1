package export

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/pcrender/pkg/math3d"
	"github.com/taigrr/pcrender/pkg/render"
)

// OrbitPath describes a camera circling a point around the vertical axis.
type OrbitPath struct {
	Center    math3d.Vec3
	Distance  float64 // Eye to center
	Elevation float64 // Radians above the horizontal plane
	Turns     float64 // Revolutions the target angle makes over Frames
	Frames    int
	FPS       int // Spring time step; 0 means 30
}

// Orbit returns one pose per frame. The yaw follows a target angle that
// advances at a constant rate through a critically damped spring, so the
// camera starts at rest and eases into the orbit.
func Orbit(p OrbitPath) []render.Pose {
	if p.Frames <= 0 {
		return nil
	}
	fps := p.FPS
	if fps <= 0 {
		fps = 30
	}

	// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
	spring := harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)
	step := 2 * math.Pi * p.Turns / float64(p.Frames)

	poses := make([]render.Pose, p.Frames)
	var yaw, vel, target float64
	for i := range poses {
		poses[i] = p.pose(yaw)
		target += step
		yaw, vel = spring.Update(yaw, vel, target)
	}
	return poses
}

func (p OrbitPath) pose(yaw float64) render.Pose {
	horiz := p.Distance * math.Cos(p.Elevation)
	offset := math3d.V3(horiz*math.Sin(yaw), p.Distance*math.Sin(p.Elevation), horiz*math.Cos(yaw))
	return render.Pose{
		Eye:    p.Center.Add(offset),
		Center: p.Center,
		Up:     math3d.Up(),
	}
}
