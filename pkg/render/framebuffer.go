// Package render implements a CPU rasterizer for triangle meshes and point
// clouds. It draws into 16-bit framebuffers that serialize to the raw frame
// layout of the headless exporter.
package render

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/taigrr/pcrender/pkg/math3d"
)

// Framebuffer is a 2D array of 16-bit color samples with 3 or 4 channels per
// pixel. Row 0 is the bottom of the image.
type Framebuffer struct {
	width    int
	height   int
	channels int
	samples  []uint16 // Row-major, width*height*channels
}

// NewFramebuffer creates a zeroed framebuffer. It panics if channels is not
// 3 or 4: every write path assumes one of those two layouts.
func NewFramebuffer(width, height, channels int) *Framebuffer {
	if channels != 3 && channels != 4 {
		panic(fmt.Sprintf("render: framebuffer with %d channels is not supported", channels))
	}
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("render: invalid framebuffer size %dx%d", width, height))
	}
	return &Framebuffer{
		width:    width,
		height:   height,
		channels: channels,
		samples:  make([]uint16, width*height*channels),
	}
}

// Width returns the width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Channels returns the number of samples per pixel.
func (fb *Framebuffer) Channels() int { return fb.channels }

// Samples returns the underlying sample storage.
func (fb *Framebuffer) Samples() []uint16 { return fb.samples }

// quantize converts a normalized component to 16 bits, rounding half up and
// clamping out-of-range values. NaN maps to zero.
func quantize(v float64) uint16 {
	if math.IsNaN(v) {
		return 0
	}
	return uint16(min(max(v*math.MaxUint16+0.5, 0), math.MaxUint16))
}

// Set writes the RGB channels of pixel (x, y). A fourth channel, if present,
// is left untouched. The coordinates must be inside the framebuffer.
func (fb *Framebuffer) Set(x, y int, c math3d.Vec3) {
	i := (y*fb.width + x) * fb.channels
	fb.samples[i] = quantize(c.X)
	fb.samples[i+1] = quantize(c.Y)
	fb.samples[i+2] = quantize(c.Z)
}

// Fill writes one RGB color to every pixel.
func (fb *Framebuffer) Fill(c math3d.Vec3) {
	r, g, b := quantize(c.X), quantize(c.Y), quantize(c.Z)
	for i := 0; i < len(fb.samples); i += fb.channels {
		fb.samples[i] = r
		fb.samples[i+1] = g
		fb.samples[i+2] = b
	}
}

// At returns the RGB samples of pixel (x, y).
func (fb *Framebuffer) At(x, y int) (r, g, b uint16) {
	i := (y*fb.width + x) * fb.channels
	return fb.samples[i], fb.samples[i+1], fb.samples[i+2]
}

// Repack returns a copy of the samples with channels per pixel. Channels
// present in both layouts are copied; extra channels are zero.
func (fb *Framebuffer) Repack(channels int) []uint16 {
	if channels <= 0 {
		panic(fmt.Sprintf("render: cannot repack to %d channels", channels))
	}
	out := make([]uint16, fb.width*fb.height*channels)
	common := min(channels, fb.channels)
	for p := range fb.width * fb.height {
		copy(out[p*channels:p*channels+common], fb.samples[p*fb.channels:p*fb.channels+common])
	}
	return out
}

// Serialize writes the image top row first, each row as width*channels
// samples in native byte order, with no header. If channels differs from
// the stored layout the samples are repacked first.
func (fb *Framebuffer) Serialize(w io.Writer, channels int) error {
	samples := fb.samples
	if channels != fb.channels {
		samples = fb.Repack(channels)
	}

	stride := fb.width * channels
	row := make([]byte, stride*2)
	for y := fb.height - 1; y >= 0; y-- {
		for i, s := range samples[y*stride : (y+1)*stride] {
			binary.NativeEndian.PutUint16(row[i*2:], s)
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", fb.height-1-y, err)
		}
	}
	return nil
}

// ToImage converts the framebuffer to an opaque image with the usual
// top-left origin.
func (fb *Framebuffer) ToImage() *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, fb.width, fb.height))
	for y := range fb.height {
		for x := range fb.width {
			r, g, b := fb.At(x, y)
			img.SetRGBA64(x, fb.height-1-y, color.RGBA64{R: r, G: g, B: b, A: math.MaxUint16})
		}
	}
	return img
}
