package models

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestNewTextureValidates(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		n       int
		wantErr bool
	}{
		{"ok", 2, 2, 12, false},
		{"short", 2, 2, 11, true},
		{"zero size", 0, 2, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTexture(tc.w, tc.h, make([]byte, tc.n))
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTextureFetch(t *testing.T) {
	// Stored top row first: top row red/green, bottom row blue/white.
	tex, err := NewTexture(2, 2, []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint8
	}{
		{"bottom-left", 0, 0, 0, 0, 255},
		{"bottom-right", 1, 0, 255, 255, 255},
		{"top-left", 0, 1, 255, 0, 0},
		{"clamped low", -5, -5, 0, 0, 255},
		{"clamped high", 9, 9, 0, 255, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, g, b := tex.Fetch(tc.x, tc.y)
			if r != tc.r || g != tc.g || b != tc.b {
				t.Errorf("Fetch(%d, %d) = %d,%d,%d want %d,%d,%d", tc.x, tc.y, r, g, b, tc.r, tc.g, tc.b)
			}
		})
	}
}

func TestDecodeTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	tex, err := DecodeTexture(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeTexture: %v", err)
	}
	if tex.Width != 3 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", tex.Width, tex.Height)
	}
	// Image row 0 is the top, which Fetch addresses as y = 1.
	if r, g, b := tex.Fetch(2, 1); r != 10 || g != 20 || b != 30 {
		t.Errorf("Fetch(2, 1) = %d,%d,%d", r, g, b)
	}

	if _, err := DecodeTexture([]byte("not an image")); err == nil {
		t.Error("expected error for garbage input")
	}
}
