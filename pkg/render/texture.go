package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/pcrender/pkg/math3d"
	"github.com/taigrr/pcrender/pkg/models"
)

// FilterMode selects how textured fragments read their texture.
type FilterMode int

const (
	FilterBilinear FilterMode = iota // Blend the four nearest texels
	FilterNearest                    // Take the texel under the coordinate
)

func (m FilterMode) String() string {
	switch m {
	case FilterBilinear:
		return "bilinear"
	case FilterNearest:
		return "nearest"
	}
	return "unknown"
}

// ParseFilterMode parses "bilinear" or "nearest". The empty string selects
// bilinear filtering.
func ParseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "", "bilinear":
		return FilterBilinear, nil
	case "nearest":
		return FilterNearest, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrFilterMode, s)
}

// ErrFilterMode is returned by ParseFilterMode for unknown names.
var ErrFilterMode = errors.New("unknown texture filter")

// Sample samples tex at uv with the given filter. Results are in byte
// range, 0 to 255.
func Sample(tex *models.Texture, uv math3d.Vec2, mode FilterMode) math3d.Vec3 {
	if mode == FilterNearest {
		return SampleNearest(tex, uv)
	}
	return SampleBilinear(tex, uv)
}

// SampleNearest returns the texel containing uv. Coordinates outside [0,1]
// clamp to the edge.
func SampleNearest(tex *models.Texture, uv math3d.Vec2) math3d.Vec3 {
	return texel(tex, int(uv.X*float64(tex.Width)), int(uv.Y*float64(tex.Height)))
}

// SampleBilinear blends the four texels around uv, first along x then
// along y. Texel centers sit at half-integer positions.
func SampleBilinear(tex *models.Texture, uv math3d.Vec2) math3d.Vec3 {
	pos := uv.Mul(math3d.V2(float64(tex.Width), float64(tex.Height))).Sub(math3d.V2(0.5, 0.5))
	f := pos.Fract()
	x0 := int(math.Floor(pos.X))
	y0 := int(math.Floor(pos.Y))

	c00 := texel(tex, x0, y0)
	c10 := texel(tex, x0+1, y0)
	c01 := texel(tex, x0, y0+1)
	c11 := texel(tex, x0+1, y0+1)

	// Bilinear interpolation
	bottom := c00.Lerp(c10, f.X)
	top := c01.Lerp(c11, f.X)
	return bottom.Lerp(top, f.Y)
}

// texel fetches one clamped, vertically flipped texel as floats.
func texel(tex *models.Texture, x, y int) math3d.Vec3 {
	r, g, b := tex.Fetch(x, y)
	return math3d.V3(float64(r), float64(g), float64(b))
}
