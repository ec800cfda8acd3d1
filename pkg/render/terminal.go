package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"
)

// DrawImage draws img onto the screen with half-block characters: each
// terminal cell shows two vertically stacked pixels, so img should be twice
// as tall as area.
func DrawImage(scr uv.Screen, area uv.Rectangle, img image.Image) {
	// Each terminal row represents 2 image rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	b := img.Bounds()
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := b.Min.Y + (row-area.Min.Y)*2
		botY := topY + 1
		if topY >= b.Max.Y {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := b.Min.X + col - area.Min.X
			if x >= b.Max.X {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: color.RGBAModel.Convert(img.At(x, topY)),
				},
			}
			if botY < b.Max.Y {
				cell.Style.Bg = color.RGBAModel.Convert(img.At(x, botY))
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// Draw scales the framebuffer to fill area, two pixels per cell, and
// draws it onto the screen.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	if area.Empty() {
		return
	}
	src := fb.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()*2))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	DrawImage(scr, area, dst)
}

// Preview renders the framebuffer, scaled to cols terminal columns, as a
// string of styled half-block cells.
func Preview(fb *Framebuffer, cols int) string {
	if cols <= 0 || fb.Width() == 0 || fb.Height() == 0 {
		return ""
	}
	rows := max(1, cols*fb.Height()/fb.Width()/2)

	scr := uv.NewScreenBuffer(cols, rows)
	fb.Draw(scr, uv.Rect(0, 0, cols, rows))
	return scr.Render()
}
