// Package export renders frame sequences headlessly and streams them as raw
// 16-bit frames, one framebuffer per frame, rendered in parallel and written
// in frame order.
package export

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/pcrender/pkg/math3d"
	"github.com/taigrr/pcrender/pkg/models"
	"github.com/taigrr/pcrender/pkg/render"
)

// Options configures an Exporter.
type Options struct {
	Width    int
	Height   int
	Channels int // Framebuffer channels, 3 or 4; 0 means 3
	// OutputChannels is the channel count written per pixel; 0 means
	// Channels. Depth maps always write one channel.
	OutputChannels int
	Workers        int // Frames rendered concurrently; 0 means GOMAXPROCS
	Lighting       bool
	Filter         render.FilterMode // Texture filter of textured meshes
	DepthMap       bool              // Write normalized depth instead of color
}

// Scene is everything drawn by an export. Frame i draws
// Sequence[i % len(Sequence)] and every Static object. Objects are shared
// read-only by all frame workers.
type Scene struct {
	Sequence   []models.Object
	Static     []models.Object
	Background math3d.Vec3
	Floor      bool
	FloorColor math3d.Vec4

	// Camera projects every frame. When nil a default camera sized to the
	// scene bounds is used.
	Camera *render.Camera
}

// Bounds returns the union of the bounds of every scene object.
func (s *Scene) Bounds() models.Box {
	return models.SceneBounds(s.Static...).Union(models.SceneBounds(s.Sequence...))
}

func (s *Scene) camera() *render.Camera {
	if s.Camera != nil {
		return s.Camera
	}
	return render.NewCamera(s.Bounds().MaxExtent())
}

// Exporter renders scenes frame by frame.
type Exporter struct {
	opts Options
}

// New validates opts, fills defaults and returns an Exporter.
func New(opts Options) (*Exporter, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", opts.Width, opts.Height)
	}
	if opts.Channels == 0 {
		opts.Channels = 3
	}
	if opts.Channels != 3 && opts.Channels != 4 {
		return nil, fmt.Errorf("unsupported channel count %d", opts.Channels)
	}
	if opts.OutputChannels == 0 {
		opts.OutputChannels = opts.Channels
	}
	if opts.DepthMap {
		opts.OutputChannels = 1
	}
	if opts.OutputChannels < 0 {
		return nil, fmt.Errorf("invalid output channel count %d", opts.OutputChannels)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Exporter{opts: opts}, nil
}

// Options returns the options after defaults were applied.
func (e *Exporter) Options() Options { return e.opts }

// FrameSize returns the number of bytes written per frame.
func (e *Exporter) FrameSize() int {
	return e.opts.Width * e.opts.Height * e.opts.OutputChannels * 2
}

// RenderFrame renders frame i of scene seen from pose into a new
// framebuffer.
func (e *Exporter) RenderFrame(scene *Scene, i int, pose render.Pose) *render.Framebuffer {
	fb := render.NewFramebuffer(e.opts.Width, e.opts.Height, e.opts.Channels)
	xf := scene.camera().Transform(pose, e.opts.Width, e.opts.Height)
	eng := render.NewEngine(fb, nil, xf, e.opts.Lighting)
	eng.Filter = e.opts.Filter

	eng.DrawBackground(scene.Background)
	if scene.Floor {
		eng.DrawFloor(FloorBox(scene.Bounds()), scene.FloorColor)
	}
	for _, obj := range scene.Static {
		eng.DrawObject(obj)
	}
	if n := len(scene.Sequence); n > 0 {
		eng.DrawObject(scene.Sequence[i%n])
	}
	if e.opts.DepthMap {
		eng.ResolveDepth()
	}

	Logger().Debug("frame rendered",
		"frame", i,
		"triangles", eng.Stats.Triangles,
		"points", eng.Stats.Points,
		"fragments", eng.Stats.Fragments,
		"depth_rejected", eng.Stats.DepthRejected,
		"nan_discarded", eng.Stats.NaNDiscarded,
	)
	return fb
}

// Run renders one frame per pose and writes them to w in order. Up to
// Workers frames render at once; at most twice that many are held in
// memory waiting for the writer. Cancelling ctx stops the export and Run
// returns the context error.
func (e *Exporter) Run(ctx context.Context, w io.Writer, scene *Scene, poses []render.Pose) error {
	if len(poses) == 0 {
		return nil
	}
	if scene.Camera == nil {
		// Resolve once instead of per frame.
		s := *scene
		s.Camera = scene.camera()
		scene = &s
	}

	start := time.Now()
	Logger().Info("export started",
		"frames", len(poses),
		"width", e.opts.Width,
		"height", e.opts.Height,
		"channels", e.opts.OutputChannels,
		"workers", e.opts.Workers,
	)

	frames := make([]chan *render.Framebuffer, len(poses))
	for i := range frames {
		frames[i] = make(chan *render.Framebuffer, 1)
	}
	inflight := make(chan struct{}, 2*e.opts.Workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers + 1) // Renderers plus the writer
	g.Go(func() error {
		return e.writeFrames(ctx, w, frames, inflight, start)
	})

dispatch:
	for i, pose := range poses {
		select {
		case inflight <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frames[i] <- e.RenderFrame(scene, i, pose)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	Logger().Info("export finished", "frames", len(poses), "elapsed", time.Since(start))
	return nil
}

// writeFrames serializes frames in index order as they become available.
func (e *Exporter) writeFrames(ctx context.Context, w io.Writer, frames []chan *render.Framebuffer, inflight <-chan struct{}, start time.Time) error {
	every := max(1, len(frames)/10)

	for i, ch := range frames {
		select {
		case fb := <-ch:
			if err := fb.Serialize(w, e.opts.OutputChannels); err != nil {
				return fmt.Errorf("write frame %d: %w", i, err)
			}
			<-inflight
		case <-ctx.Done():
			return ctx.Err()
		}

		if n := i + 1; n%every == 0 || n == len(frames) {
			elapsed := time.Since(start).Seconds()
			Logger().Info("export progress",
				"frame", n,
				"total", len(frames),
				"fps", float64(n)/max(elapsed, 1e-9),
			)
		}
	}
	return nil
}
