package export

import (
	"github.com/taigrr/pcrender/pkg/math3d"
	"github.com/taigrr/pcrender/pkg/models"
)

// floorScale is the floor's horizontal extent relative to the scene.
const floorScale = 1.4

// FloorBox returns the floor slab under scene: 1.4 times the scene's
// horizontal extent around its center, with its top face at the scene's
// lowest point and a thickness of one fiftieth of the scene height.
func FloorBox(scene models.Box) models.Box {
	c := scene.Center()
	h := scene.HalfSize()
	return models.NewBox(
		math3d.V3(c.X-floorScale*h.X, scene.Min.Y-h.Y/25, c.Z-floorScale*h.Z),
		math3d.V3(c.X+floorScale*h.X, scene.Min.Y, c.Z+floorScale*h.Z),
	)
}
