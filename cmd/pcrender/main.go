// pcrender - Headless point cloud and mesh frame exporter
// Renders glTF/GLB models on the CPU along an orbit camera path and writes
// the frames as a raw 16-bit RGB stream.
//
// Usage:
//
//	pcrender [flags] model.glb [frame2.glb ...]
//
// Several models form a sequence: frame i shows model i modulo the count.
// The output has no header; read it back with the width, height, channel
// count and frame count printed at the end of the export.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/pcrender/internal/config"
	"github.com/taigrr/pcrender/pkg/export"
	"github.com/taigrr/pcrender/pkg/math3d"
	"github.com/taigrr/pcrender/pkg/models"
	"github.com/taigrr/pcrender/pkg/render"
)

var version = "dev"

type options struct {
	configFile string
	flags      config.Flags
	show       int
	verbose    bool
}

func main() {
	var (
		opts      options
		elevation float64
	)

	cmd := &cobra.Command{
		Use:   "pcrender [flags] model.glb [model.glb ...]",
		Short: "Render glTF meshes and point clouds to raw frames on the CPU",
		Long: "pcrender rasterizes glTF/GLB meshes and point clouds without a GPU.\n" +
			"Each frame is written as height rows, top row first, of width*channels\n" +
			"16-bit samples in native byte order, with no header.",
		Example: "  pcrender -o orbit.rgb --frames 120 --floor model.glb\n" +
			"  pcrender -o depth.raw --depth-map --preview depth.png scan.glb",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.flags.Inputs = args
			if cmd.Flags().Changed("elevation") {
				opts.flags.Elevation = &elevation
			}
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "JSON config file")
	f.StringVarP(&opts.flags.Output, "output", "o", "", "raw frame stream to write")
	f.StringVar(&opts.flags.Preview, "preview", "", "also save frame 0 as PNG or WebP")
	f.IntVar(&opts.flags.Width, "width", 0, "frame width (default 1920)")
	f.IntVar(&opts.flags.Height, "height", 0, "frame height (default 1080)")
	f.IntVarP(&opts.flags.Workers, "workers", "j", 0, "frames rendered in parallel (default GOMAXPROCS)")
	f.IntVarP(&opts.flags.Frames, "frames", "n", 0, "number of frames (default 300)")
	f.Float64Var(&opts.flags.Turns, "turns", 0, "orbit revolutions over the export (default 1)")
	f.Float64Var(&elevation, "elevation", 0, "camera height above the horizon in degrees (default 20)")
	f.Float64Var(&opts.flags.FOV, "fov", 0, "vertical field of view in degrees (default 20)")
	f.StringVar(&opts.flags.TextureFilter, "texture-filter", "", "texture filter, bilinear or nearest (default bilinear)")
	f.BoolVar(&opts.flags.Lighting, "lighting", false, "apply ambient and diffuse lighting")
	f.BoolVar(&opts.flags.Floor, "floor", false, "draw a floor under the scene")
	f.BoolVar(&opts.flags.DepthMap, "depth-map", false, "write one channel of normalized depth")
	f.BoolVar(&opts.flags.Orthographic, "orthographic", false, "use an orthographic projection")
	f.IntVar(&opts.show, "show", 0, "print frame 0 to the terminal, this many columns wide")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log per-frame statistics")

	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	export.SetLogger(log)

	var cfg config.Config
	if opts.configFile != "" {
		var err error
		if cfg, err = config.Load(opts.configFile); err != nil {
			return err
		}
	}
	cfg.Resolve(opts.flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	objs, err := loadModels(log, cfg.Inputs)
	if err != nil {
		return err
	}
	models.Normalize(cfg.BoxSize, objs...)

	cam := render.NewCamera(cfg.BoxSize)
	cam.FOV = cfg.FOV
	cam.Orthographic = cfg.Orthographic

	scene := &export.Scene{
		Sequence:   objs,
		Background: rgb(cfg.Background),
		Floor:      cfg.Floor,
		FloorColor: math3d.V4FromV3(rgb(cfg.FloorColor), 1),
		Camera:     cam,
	}
	poses := export.Orbit(export.OrbitPath{
		Center:    scene.Bounds().Center(),
		Distance:  cam.FitDistance(),
		Elevation: *cfg.Elevation * math.Pi / 180,
		Turns:     cfg.Turns,
		Frames:    cfg.Frames,
		FPS:       cfg.FPS,
	})

	filter, err := render.ParseFilterMode(cfg.TextureFilter)
	if err != nil {
		return err
	}
	exp, err := export.New(export.Options{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Channels: cfg.Channels,
		Workers:  cfg.Workers,
		Lighting: cfg.Lighting,
		Filter:   filter,
		DepthMap: cfg.DepthMap,
	})
	if err != nil {
		return err
	}

	if cfg.Preview != "" || opts.show > 0 {
		fb := exp.RenderFrame(scene, 0, poses[0])
		if cfg.Preview != "" {
			if err := export.SavePreview(cfg.Preview, fb, 0); err != nil {
				return err
			}
			log.Info("preview saved", "path", cfg.Preview)
		}
		if opts.show > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), render.Preview(fb, opts.show))
		}
	}

	if err := writeStream(cmd.Context(), exp, cfg.Output, scene, poses); err != nil {
		return err
	}

	o := exp.Options()
	log.Info("stream written",
		"path", cfg.Output,
		"width", o.Width,
		"height", o.Height,
		"channels", o.OutputChannels,
		"frames", len(poses),
	)
	return nil
}

func loadModels(log *slog.Logger, paths []string) ([]models.Object, error) {
	objs := make([]models.Object, 0, len(paths))
	for _, path := range paths {
		obj, err := models.LoadGLTF(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}

		switch o := obj.(type) {
		case *models.MeshObject:
			log.Debug("mesh loaded", "path", path, "meshes", len(o.Meshes), "triangles", o.TriangleCount())
		case *models.PointCloud:
			log.Debug("point cloud loaded", "path", path, "points", o.NumPoints())
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func writeStream(ctx context.Context, exp *export.Exporter, path string, scene *export.Scene, poses []render.Pose) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(f, 1<<20)
	if err := exp.Run(ctx, w, scene, poses); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// rgb converts a validated 0-255 color to normalized components.
func rgb(c []int) math3d.Vec3 {
	return math3d.V3(float64(c[0]), float64(c[1]), float64(c[2])).Scale(1.0 / 255)
}
