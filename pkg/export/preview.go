package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/taigrr/pcrender/pkg/render"
)

// ErrPreviewFormat is returned for preview paths with an unknown extension.
var ErrPreviewFormat = errors.New("unsupported preview format")

// SavePreview writes fb as a PNG or lossless WebP image, chosen by the
// extension of path. A positive width downscales the image to that many
// pixels wide, keeping the aspect ratio.
func SavePreview(path string, fb *render.Framebuffer, width int) error {
	var img image.Image = fb.ToImage()
	if width > 0 && width < fb.Width() {
		height := max(1, width*fb.Height()/fb.Width())
		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".webp" {
		return fmt.Errorf("%w: %q", ErrPreviewFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s preview: %w", ext, err)
	}
	return f.Close()
}
