package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/pcrender/pkg/math3d"
)

func TestDrawImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})

	scr := uv.NewScreenBuffer(2, 2)
	DrawImage(scr, uv.Rect(0, 0, 2, 2), img)

	cell := scr.CellAt(0, 0)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell = %+v, want half block", cell)
	}
	if r, _, _, _ := cell.Style.Fg.RGBA(); r != 0xffff {
		t.Errorf("fg red = %x, want ffff", r)
	}
	if _, _, b, _ := cell.Style.Bg.RGBA(); b != 0xffff {
		t.Errorf("bg blue = %x, want ffff", b)
	}
}

func TestPreview(t *testing.T) {
	fb := NewFramebuffer(64, 32, 3)
	fb.Fill(math3d.V3(0.2, 0.6, 1))

	tests := []struct {
		name  string
		cols  int
		empty bool
	}{
		{"scaled down", 16, false},
		{"one column", 1, false},
		{"zero columns", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Preview(fb, tc.cols)
			if (got == "") != tc.empty {
				t.Fatalf("Preview(%d) = %q", tc.cols, got)
			}
			if !tc.empty && !strings.Contains(got, "▀") {
				t.Errorf("preview has no half blocks: %q", got)
			}
		})
	}
}
