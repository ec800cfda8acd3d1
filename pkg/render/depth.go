package render

import (
	"fmt"
	"math"
)

// DepthBuffer stores the nearest depth drawn at each pixel of one frame.
// Untouched pixels hold math.MaxFloat64.
type DepthBuffer struct {
	width  int
	height int
	values []float64
}

// NewDepthBuffer creates a cleared depth buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		width:  width,
		height: height,
		values: make([]float64, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every pixel to the far value.
func (d *DepthBuffer) Clear() {
	// Use copy-doubling for faster clearing
	n := len(d.values)
	if n == 0 {
		return
	}
	d.values[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(d.values[i:], d.values[:i])
	}
}

// At returns the stored depth at (x, y).
func (d *DepthBuffer) At(x, y int) float64 {
	return d.values[y*d.width+x]
}

// Test reports whether depth is strictly nearer than the value stored at
// (x, y), and stores it if so. NaN never passes.
func (d *DepthBuffer) Test(x, y int, depth float64) bool {
	i := y*d.width + x
	if math.IsNaN(depth) || !(depth < d.values[i]) {
		return false
	}
	d.values[i] = depth
	return true
}

// Range returns the nearest and farthest depths written so far. ok is false
// when nothing was written.
func (d *DepthBuffer) Range() (lo, hi float64, ok bool) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for _, v := range d.values {
		if v == math.MaxFloat64 {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

func (d *DepthBuffer) mustMatch(fb *Framebuffer) {
	if d.width != fb.width || d.height != fb.height {
		panic(fmt.Sprintf("render: depth buffer %dx%d does not match framebuffer %dx%d",
			d.width, d.height, fb.width, fb.height))
	}
}
