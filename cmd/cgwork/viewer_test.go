package main

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/cgwork/internal/config"
	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
	"github.com/taigrr/cgwork/pkg/scene"
)

func testConfig() *config.Config {
	return &config.Config{
		FPS:                30,
		ProjectionDistance: 4,
		EyeDistance:        4,
		Background:         config.Color(render.ColorBlack),
		WireColor:          config.Color(render.ColorWhite),
		NormalScale:        0.1,
	}
}

// demoViewer returns an orthographic viewer over the demo scene on a
// 200x100 framebuffer. The cube sits near pixel (96, 54).
func demoViewer(t *testing.T) *viewer {
	t.Helper()
	world, _, err := loadWorld(nil, true, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	v := newViewer(world, testConfig(), filepath.Join(t.TempDir(), "snap.bmp"), slog.New(slog.DiscardHandler))
	v.resize(200, 100)
	return v
}

func figureNamed(t *testing.T, w *scene.World, name string) *scene.Figure {
	t.Helper()
	for _, f := range w.Figures() {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("no figure %q", name)
	return nil
}

func TestLoadWorldDemo(t *testing.T) {
	world, title, err := loadWorld(nil, true, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	if title != "demo" || len(world.Figures()) != 3 {
		t.Errorf("title %q with %d figures", title, len(world.Figures()))
	}
	if got := polygonCount(world); got != 18 {
		t.Errorf("polygonCount = %d, want 18", got)
	}
}

func TestLoadWorldRejectsFormat(t *testing.T) {
	if _, _, err := loadWorld([]string{"model.obj"}, false, slog.New(slog.DiscardHandler)); err == nil {
		t.Error("expected error for .obj")
	}
}

func TestViewerKeys(t *testing.T) {
	v := demoViewer(t)

	tests := []struct {
		key   string
		check func(scene.ViewState) bool
	}{
		{"p", func(vs scene.ViewState) bool { return vs.Perspective }},
		{"n", func(vs scene.ViewState) bool { return vs.ShowVertexNormals }},
		{"m", func(vs scene.ViewState) bool { return vs.ShowPolygonNormals }},
		{"b", func(vs scene.ViewState) bool { return vs.ShowBoundingBox }},
		{"y", func(vs scene.ViewState) bool { return vs.AxisLock == scene.AxisY }},
		{"0", func(vs scene.ViewState) bool { return vs.AxisLock == scene.AxisAll }},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if quit := v.key(tc.key); quit {
				t.Fatal("key should not quit")
			}
			vs, _, _ := v.status()
			if !tc.check(vs) {
				t.Errorf("view state after %q = %+v", tc.key, vs)
			}
		})
	}

	if !v.key("escape") {
		t.Error("escape while idle should quit")
	}
}

func TestViewerDragFigure(t *testing.T) {
	v := demoViewer(t)
	cube := figureNamed(t, v.world, "cube")

	v.press(96, 54)
	if _, mode, _ := v.status(); mode != scene.ModeTransformingObject {
		t.Fatalf("mode = %v, want object", mode)
	}
	v.drag(146, 54)
	if cube.Transform() == math3d.Identity() {
		t.Error("drag did not rotate the cube")
	}
	// The pivot is the cube center, which stays in place.
	if c := cube.Transform().MulVec3(math3d.Zero3()); c.Len() > 1e-9 {
		t.Errorf("cube center moved to %v", c)
	}

	v.release()
	if _, mode, _ := v.status(); mode != scene.ModeIdle {
		t.Errorf("mode after release = %v", mode)
	}
	if cube.BackupTransform() != cube.Transform() {
		t.Error("release should commit the transform")
	}

	v.key("r")
	if cube.Transform() != math3d.Identity() {
		t.Error("reset should clear figure transforms")
	}
}

func TestViewerEscapeCancelsDrag(t *testing.T) {
	v := demoViewer(t)
	cube := figureNamed(t, v.world, "cube")

	v.press(96, 54)
	v.drag(120, 80)
	if quit := v.key("escape"); quit {
		t.Fatal("escape during a drag should not quit")
	}
	if cube.Transform() != math3d.Identity() {
		t.Error("cancel should restore the transform")
	}

	// Motion after cancel is ignored.
	v.drag(10, 10)
	if cube.Transform() != math3d.Identity() {
		t.Error("drag after cancel changed the cube")
	}
}

func TestViewerDragWorld(t *testing.T) {
	v := demoViewer(t)

	v.press(2, 2)
	if _, mode, _ := v.status(); mode != scene.ModeTransformingWorld {
		t.Fatalf("mode = %v, want world", mode)
	}
	v.drag(2, 40)
	v.release()
	if v.world.WorldTransform() == math3d.Identity() {
		t.Error("world drag did not change the world transform")
	}
}

func TestViewerPan(t *testing.T) {
	v := demoViewer(t)
	cube := figureNamed(t, v.world, "cube")

	v.key("t")
	v.press(96, 54)
	v.drag(106, 54)
	v.release()

	tr := cube.Transform().Translation()
	if tr.X <= 0 || math.Abs(tr.Y) > 1e-9 || math.Abs(tr.Z) > 1e-9 {
		t.Errorf("pan translation = %v, want +X only", tr)
	}
}

func TestViewerFrameAndSnapshot(t *testing.T) {
	v := demoViewer(t)
	fb := render.NewFramebuffer(200, 100)

	v.frame(fb)
	lit := 0
	for _, p := range fb.Pixels {
		if p == render.ColorWhite {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("frame drew nothing")
	}

	v.key("s")
	v.frame(fb)
	if _, err := os.Stat(v.snapPath); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestZoom(t *testing.T) {
	z := NewZoom(30, 4)
	z.Step(100)
	if z.Target != maxEye {
		t.Errorf("Target = %v, want clamp to %v", z.Target, maxEye)
	}
	for range 300 {
		z.Update()
	}
	if math.Abs(z.Distance-maxEye) > 0.1 {
		t.Errorf("Distance = %v, want about %v", z.Distance, maxEye)
	}

	z.Step(0)
	if z.Target != minEye {
		t.Errorf("Target = %v, want clamp to %v", z.Target, minEye)
	}
}

func TestCellToPixel(t *testing.T) {
	x, y := cellToPixel(3, 4)
	if x != 3.5 || y != 9 {
		t.Errorf("cellToPixel(3, 4) = (%v, %v), want (3.5, 9)", x, y)
	}
}
