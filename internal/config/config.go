// Package config loads export settings from a JSON file and merges them with
// command line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/taigrr/pcrender/pkg/render"
)

// Validation errors.
var (
	ErrNoInput         = errors.New("no input model")
	ErrNoOutput        = errors.New("no output file")
	ErrInvalidSize     = errors.New("frame size must be positive")
	ErrInvalidFrames   = errors.New("frame count must be positive")
	ErrInvalidChannels = errors.New("channel count must be 3 or 4")
	ErrInvalidColor    = errors.New("color must have three components in 0-255")
)

// Config holds the settings of one export.
type Config struct {
	// Paths
	Inputs  []string `json:"inputs"`  // Models; several files form a sequence
	Output  string   `json:"output"`  // Raw frame stream
	Preview string   `json:"preview"` // Optional PNG or WebP of frame 0

	// Frame settings
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Channels int  `json:"channels"`
	DepthMap bool `json:"depth_map"`
	Workers  int  `json:"workers"`

	// Camera path
	Frames       int      `json:"frames"`
	FPS          int      `json:"fps"`
	Turns        float64  `json:"turns"`
	Elevation    *float64 `json:"elevation"` // Degrees; nil means 20
	FOV          float64  `json:"fov"`       // Degrees; below 1 is orthographic
	Orthographic bool     `json:"orthographic"`

	// Scene
	BoxSize       float64 `json:"box_size"` // Scene is scaled to this size
	Lighting      bool    `json:"lighting"`
	TextureFilter string  `json:"texture_filter"` // "bilinear" or "nearest"
	Floor         bool    `json:"floor"`
	FloorColor    []int   `json:"floor_color"` // RGB, 0-255
	Background    []int   `json:"background"`  // RGB, 0-255
}

// Load reads a JSON config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values and nil pointers leave the file setting alone.
type Flags struct {
	Inputs        []string
	Output        string
	Preview       string
	Width         int
	Height        int
	Workers       int
	Frames        int
	Turns         float64
	Elevation     *float64
	FOV           float64
	TextureFilter string
	Lighting      bool
	Floor         bool
	DepthMap      bool
	Orthographic  bool
}

// Resolve applies flags over the file settings, then fills any empty field
// with its default.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if len(flags.Inputs) > 0 {
		c.Inputs = flags.Inputs
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Preview != "" {
		c.Preview = flags.Preview
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Turns != 0 {
		c.Turns = flags.Turns
	}
	if flags.Elevation != nil {
		c.Elevation = flags.Elevation
	}
	if flags.FOV > 0 {
		c.FOV = flags.FOV
	}
	if flags.TextureFilter != "" {
		c.TextureFilter = flags.TextureFilter
	}
	c.Lighting = c.Lighting || flags.Lighting
	c.Floor = c.Floor || flags.Floor
	c.DepthMap = c.DepthMap || flags.DepthMap
	c.Orthographic = c.Orthographic || flags.Orthographic

	// Defaults
	if c.Width == 0 {
		c.Width = 1920
	}
	if c.Height == 0 {
		c.Height = 1080
	}
	if c.Channels == 0 {
		c.Channels = 3
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Frames == 0 {
		c.Frames = 300
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Turns == 0 {
		c.Turns = 1
	}
	if c.Elevation == nil {
		elevation := 20.0
		c.Elevation = &elevation
	}
	if c.TextureFilter == "" {
		c.TextureFilter = render.FilterBilinear.String()
	}
	if c.FOV == 0 {
		c.FOV = 20
	}
	if c.BoxSize <= 0 {
		c.BoxSize = 1024
	}
	if c.FloorColor == nil {
		c.FloorColor = []int{128, 128, 128}
	}
	if c.Background == nil {
		c.Background = []int{0, 0, 0}
	}
}

// Validate checks a resolved config.
func (c *Config) Validate() error {
	switch {
	case len(c.Inputs) == 0:
		return ErrNoInput
	case c.Output == "":
		return ErrNoOutput
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	case c.Frames <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidFrames, c.Frames)
	case c.Channels != 3 && c.Channels != 4:
		return fmt.Errorf("%w: %d", ErrInvalidChannels, c.Channels)
	}
	if _, err := render.ParseFilterMode(c.TextureFilter); err != nil {
		return fmt.Errorf("texture_filter: %w", err)
	}
	if err := validColor(c.FloorColor); err != nil {
		return fmt.Errorf("floor_color: %w", err)
	}
	if err := validColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	return nil
}

func validColor(rgb []int) error {
	if len(rgb) != 3 {
		return fmt.Errorf("%w: %v", ErrInvalidColor, rgb)
	}
	for _, v := range rgb {
		if v < 0 || v > 255 {
			return fmt.Errorf("%w: %v", ErrInvalidColor, rgb)
		}
	}
	return nil
}
