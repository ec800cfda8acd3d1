package export

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/taigrr/pcrender/pkg/math3d"
	"github.com/taigrr/pcrender/pkg/models"
	"github.com/taigrr/pcrender/pkg/render"
)

const frameSide = 16

// dot is a single point at the origin, large enough on screen to cover the
// whole frame.
func dot(t testing.TB, c math3d.Vec3) *models.PointCloud {
	t.Helper()
	pc, err := models.NewPointCloud("dot", []math3d.Vec3{{}}, []math3d.Vec3{c})
	if err != nil {
		t.Fatal(err)
	}
	return pc
}

func testScene(t testing.TB) *Scene {
	return &Scene{
		Sequence: []models.Object{
			dot(t, math3d.V3(1, 0, 0)),
			dot(t, math3d.V3(0, 1, 0)),
		},
		Camera: render.NewCamera(1),
	}
}

func staticPoses(n int) []render.Pose {
	poses := make([]render.Pose, n)
	for i := range poses {
		poses[i] = render.Pose{Eye: math3d.V3(0, 0, 5), Up: math3d.Up()}
	}
	return poses
}

// centerSample returns the first sample of the center pixel of frame i in
// a raw stream.
func centerSample(t *testing.T, raw []byte, frameSize, channels, i, c int) uint16 {
	t.Helper()
	row := frameSide / 2
	off := i*frameSize + ((frameSide-1-row)*frameSide+frameSide/2)*channels*2 + c*2
	return binary.NativeEndian.Uint16(raw[off:])
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{Width: 4, Height: 4}, false},
		{"four channels", Options{Width: 4, Height: 4, Channels: 4}, false},
		{"zero width", Options{Height: 4}, true},
		{"negative height", Options{Width: 4, Height: -1}, true},
		{"two channels", Options{Width: 4, Height: 4, Channels: 2}, true},
		{"negative output channels", Options{Width: 4, Height: 4, OutputChannels: -1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opts)
			if (err != nil) != tc.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	e, err := New(Options{Width: 4, Height: 2, DepthMap: true, OutputChannels: 3})
	if err != nil {
		t.Fatal(err)
	}
	opts := e.Options()
	if opts.Channels != 3 || opts.OutputChannels != 1 || opts.Workers <= 0 {
		t.Errorf("options = %+v", opts)
	}
	if got := e.FrameSize(); got != 4*2*1*2 {
		t.Errorf("FrameSize = %d", got)
	}
}

func TestRunWritesFramesInOrder(t *testing.T) {
	const frames = 7
	e, err := New(Options{Width: frameSide, Height: frameSide, Workers: 3})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := e.Run(context.Background(), &buf, testScene(t), staticPoses(frames)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if buf.Len() != frames*e.FrameSize() {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), frames*e.FrameSize())
	}

	for i := range frames {
		r := centerSample(t, buf.Bytes(), e.FrameSize(), 3, i, 0)
		g := centerSample(t, buf.Bytes(), e.FrameSize(), 3, i, 1)
		wantRed := i%2 == 0
		if (r == 65535) != wantRed || (g == 65535) == wantRed {
			t.Errorf("frame %d center = r %d g %d, want red %v", i, r, g, wantRed)
		}
	}
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	scene := testScene(t)
	scene.Floor = true
	scene.FloorColor = math3d.V4(0.5, 0.5, 0.5, 1)
	scene.Static = []models.Object{
		models.NewMeshObject("cube", models.NewBoxMesh(
			models.NewBox(math3d.V3(-0.3, -0.3, -0.3), math3d.V3(0.3, 0.3, 0.3)),
			math3d.V4(0, 0, 1, 1))),
	}
	poses := Orbit(OrbitPath{Distance: 200, Elevation: 0.3, Turns: 1, Frames: 5})

	var outputs [][]byte
	for _, workers := range []int{1, 4} {
		e, err := New(Options{Width: frameSide, Height: frameSide, Workers: workers, Lighting: true})
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := e.Run(context.Background(), &buf, scene, poses); err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, buf.Bytes())
	}

	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("output differs between worker counts")
	}
}

func TestRunDepthMap(t *testing.T) {
	e, err := New(Options{Width: frameSide, Height: frameSide, DepthMap: true})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := e.Run(context.Background(), &buf, testScene(t), staticPoses(2)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2*frameSide*frameSide*2 {
		t.Fatalf("wrote %d bytes", buf.Len())
	}
	// One splat at a single depth is both the nearest and farthest sample.
	if got := centerSample(t, buf.Bytes(), e.FrameSize(), 1, 0, 0); got != 0 {
		t.Errorf("center depth = %d, want 0", got)
	}
}

func TestRunNoPoses(t *testing.T) {
	e, err := New(Options{Width: 2, Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := e.Run(context.Background(), &buf, testScene(t), nil); err != nil || buf.Len() != 0 {
		t.Errorf("Run(nil poses) = %v, %d bytes", err, buf.Len())
	}
}

func TestRunCancelled(t *testing.T) {
	e, err := New(Options{Width: frameSide, Height: frameSide, Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err = e.Run(ctx, &buf, testScene(t), staticPoses(20))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

type failAfter struct {
	n   int
	err error
}

func (w *failAfter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, w.err
	}
	w.n--
	return len(p), nil
}

func TestRunWriteError(t *testing.T) {
	e, err := New(Options{Width: frameSide, Height: frameSide, Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	errDisk := errors.New("disk full")

	err = e.Run(context.Background(), &failAfter{n: frameSide * 3, err: errDisk}, testScene(t), staticPoses(10))
	if !errors.Is(err, errDisk) {
		t.Errorf("Run() error = %v, want %v", err, errDisk)
	}
}

func TestSceneDefaultCamera(t *testing.T) {
	scene := &Scene{Static: []models.Object{models.NewMeshObject("cube", models.NewBoxMesh(
		models.NewBox(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)),
		math3d.V4(1, 1, 1, 1)))}}
	e, err := New(Options{Width: frameSide, Height: frameSide})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := e.Run(context.Background(), &buf, scene, staticPoses(1)); err != nil {
		t.Fatal(err)
	}
	if scene.Camera != nil {
		t.Error("Run modified the caller's scene")
	}
}

func BenchmarkRun(b *testing.B) {
	e, err := New(Options{Width: 320, Height: 240, Lighting: true})
	if err != nil {
		b.Fatal(err)
	}
	scene := &Scene{
		Static: []models.Object{models.NewMeshObject("cube", models.NewBoxMesh(
			models.NewBox(math3d.V3(-0.5, -0.5, -0.5), math3d.V3(0.5, 0.5, 0.5)),
			math3d.V4(1, 0.5, 0, 1)))},
		Floor:      true,
		FloorColor: math3d.V4(0.5, 0.5, 0.5, 1),
	}
	poses := Orbit(OrbitPath{Distance: 6, Turns: 1, Frames: 16})

	var buf bytes.Buffer
	for b.Loop() {
		buf.Reset()
		if err := e.Run(context.Background(), &buf, scene, poses); err != nil {
			b.Fatal(err)
		}
	}
}

func TestRenderFrameTextureFilter(t *testing.T) {
	tex, err := models.NewTexture(2, 2, []byte{
		10, 10, 10, 20, 20, 20,
		30, 30, 30, 40, 40, 40,
	})
	if err != nil {
		t.Fatal(err)
	}
	mesh := models.NewMesh("wall")
	for i, p := range []math3d.Vec3{math3d.V3(-10, -10, 0), math3d.V3(30, -10, 0), math3d.V3(-10, 30, 0)} {
		mesh.Vertices = append(mesh.Vertices, models.Vertex{Position: p, UV: math3d.V2(0.5, 0.5)})
		mesh.Indices = append(mesh.Indices, uint32(i))
	}
	mesh.UseColorPerVertex = false
	mesh.Texture = tex
	mesh.CalculateBounds()

	scene := &Scene{
		Sequence: []models.Object{models.NewMeshObject("wall", mesh)},
		Camera:   render.NewCamera(1),
	}

	tests := []struct {
		filter render.FilterMode
		want   uint16
	}{
		{render.FilterBilinear, 6400},
		{render.FilterNearest, 5120},
	}

	for _, tc := range tests {
		t.Run(tc.filter.String(), func(t *testing.T) {
			e, err := New(Options{Width: frameSide, Height: frameSide, Filter: tc.filter})
			if err != nil {
				t.Fatal(err)
			}
			fb := e.RenderFrame(scene, 0, staticPoses(1)[0])
			if r, _, _ := fb.At(frameSide/2, frameSide/2); r != tc.want {
				t.Errorf("center = %d, want %d", r, tc.want)
			}
		})
	}
}
