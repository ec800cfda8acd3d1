package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	_ "github.com/ftrvxmtrx/tga" // Register TGA decoder
	_ "golang.org/x/image/bmp"   // Register BMP decoder
	_ "golang.org/x/image/webp"  // Register WebP decoder
)

// Texture is an RGB byte image stored top row first, as decoded.
// Sampling addresses it with a bottom-left origin; Fetch does the flip.
type Texture struct {
	Width  int
	Height int
	Data   []byte // Width*Height RGB triplets
}

// NewTexture wraps RGB data. It fails if data does not hold exactly
// width*height triplets.
func NewTexture(width, height int, data []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("texture size %dx%d", width, height)
	}
	if len(data) != width*height*3 {
		return nil, fmt.Errorf("texture %dx%d needs %d bytes, got %d", width, height, width*height*3, len(data))
	}
	return &Texture{Width: width, Height: height, Data: data}, nil
}

// Fetch returns the texel at column x, row y counted from the bottom.
// Coordinates are clamped to the image.
func (t *Texture) Fetch(x, y int) (r, g, b uint8) {
	x = min(max(x, 0), t.Width-1)
	y = t.Height - 1 - min(max(y, 0), t.Height-1)
	i := (y*t.Width + x) * 3
	return t.Data[i], t.Data[i+1], t.Data[i+2]
}

// TextureFromImage creates a texture from an image.Image, dropping alpha.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := &Texture{Width: width, Height: height, Data: make([]byte, width*height*3)}
	for y := range height {
		for x := range width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			i := (y*width + x) * 3
			tex.Data[i] = uint8(r >> 8)
			tex.Data[i+1] = uint8(g >> 8)
			tex.Data[i+2] = uint8(b >> 8)
		}
	}

	return tex
}

// DecodeTexture decodes an encoded PNG, JPEG, TGA, BMP or WebP image.
func DecodeTexture(data []byte) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return TextureFromImage(img), nil
}

// LoadTexture loads a texture from an image file.
func LoadTexture(path string) (*Texture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}
	tex, err := DecodeTexture(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tex, nil
}
