package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/cgwork/internal/config"
	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
	"github.com/taigrr/cgwork/pkg/scene"
)

const (
	rotateSpeed = 0.01 // radians per pixel
	zoomStep    = 1.15
	minEye      = 1.2
	maxEye      = 40.0
)

// Zoom animates the eye distance toward its target with a spring.
type Zoom struct {
	Distance float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

// NewZoom creates a zoom resting at distance.
func NewZoom(fps int, distance float64) Zoom {
	return Zoom{
		Distance: distance,
		Target:   distance,
		// Critically damped: settles quickly without overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update advances the spring one frame.
func (z *Zoom) Update() {
	z.Distance, z.velocity = z.spring.Update(z.Distance, z.velocity, z.Target)
}

// Step multiplies the target distance by factor within the allowed range.
func (z *Zoom) Step(factor float64) {
	z.Target = math.Min(maxEye, math.Max(minEye, z.Target*factor))
}

// viewer owns the world and all UI state. The event goroutine and the
// frame loop both go through its methods, which hold mu.
type viewer struct {
	mu sync.Mutex

	world *scene.World
	cfg   *config.Config
	log   *slog.Logger

	width, height int // framebuffer pixels

	pan            bool
	dragging       bool
	startX, startY float64
	pivot          math3d.Vec3

	zoom     Zoom
	showHUD  bool
	snapPath string
	snapshot bool
	lastErr  string
}

func newViewer(world *scene.World, cfg *config.Config, snapPath string, log *slog.Logger) *viewer {
	vs := world.ViewState()
	vs.Perspective = cfg.Perspective
	vs.ProjectionDistance = cfg.ProjectionDistance
	vs.WireColor = cfg.WireColor.Value()
	vs.NormalLength = cfg.NormalScale
	world.SetViewState(vs)
	world.Normalize()

	v := &viewer{
		world:    world,
		cfg:      cfg,
		log:      log,
		zoom:     NewZoom(cfg.FPS, cfg.EyeDistance),
		snapPath: snapPath,
	}
	v.placeCamera()
	return v
}

func (v *viewer) placeCamera() {
	v.world.SetCamera(scene.Camera{
		Eye:    math3d.V3(0, 0, v.zoom.Distance),
		Target: math3d.Zero3(),
		Up:     math3d.Up(),
	})
}

// resize rebuilds the screen matrix for a framebuffer of width x height.
func (v *viewer) resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width, v.height = width, height
	v.world.SetScreenMatrix(math3d.StandardFrame(), width, height)
}

// key handles a key press and reports whether the viewer should quit.
func (v *viewer) key(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	vs := v.world.ViewState()
	switch name {
	case "escape":
		if v.dragging {
			v.world.Interaction().Cancel()
			v.dragging = false
			return false
		}
		return true
	case "ctrl+c":
		return true
	case "p":
		vs.Perspective = !vs.Perspective
	case "n":
		vs.ShowVertexNormals = !vs.ShowVertexNormals
	case "m":
		vs.ShowPolygonNormals = !vs.ShowPolygonNormals
	case "b":
		vs.ShowBoundingBox = !vs.ShowBoundingBox
	case "x":
		vs.AxisLock = scene.AxisX
	case "y":
		vs.AxisLock = scene.AxisY
	case "z":
		vs.AxisLock = scene.AxisZ
	case "0":
		vs.AxisLock = scene.AxisAll
	case "t":
		v.pan = !v.pan
	case "r":
		v.reset()
	case "+", "=":
		v.zoom.Step(1 / zoomStep)
	case "-", "_":
		v.zoom.Step(zoomStep)
	case "s":
		v.snapshot = true
	case "?":
		v.showHUD = !v.showHUD
	}
	v.world.SetViewState(vs)
	return false
}

func (v *viewer) reset() {
	in := v.world.Interaction()
	if in.Mode() != scene.ModeIdle {
		in.Cancel()
		v.dragging = false
	}
	for _, f := range v.world.Figures() {
		f.SetTransform(math3d.Identity())
		f.SaveBackup()
	}
	v.world.SetWorldTransform(math3d.Identity())
	v.zoom.Target = v.cfg.EyeDistance
}

// press starts a drag at framebuffer point (x, y): on a figure it moves
// that figure, elsewhere it moves the world.
func (v *viewer) press(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	in := v.world.Interaction()
	fig := v.world.FigureAtPoint(x, y)
	mode := scene.ModeTransformingWorld
	if fig != nil {
		mode = scene.ModeTransformingObject
		v.pivot = fig.Bounds().Center()
	}
	if err := in.Begin(mode, fig); err != nil {
		v.log.Debug("drag not started", "err", err)
		return
	}
	v.dragging = true
	v.startX, v.startY = x, y
	v.log.Debug("drag started", "mode", mode, "x", x, "y", y)
}

// drag updates the live transform from the total motion since press.
func (v *viewer) drag(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.dragging {
		return
	}
	in := v.world.Interaction()
	vs := v.world.ViewState()
	dx, dy := x-v.startX, y-v.startY

	if v.pan {
		var (
			d   math3d.Vec3
			err error
		)
		if fig := in.Figure(); fig != nil {
			d, err = v.world.ScreenDeltaToFigure(fig, dx, dy)
		} else {
			d, err = v.world.ScreenDeltaToWorld(dx, dy)
		}
		if err != nil {
			v.log.Warn("pan ignored", "err", err)
			return
		}
		in.Update(vs.TranslationDelta(d))
		return
	}

	var rot math3d.Mat4
	if vs.AxisLock != scene.AxisAll {
		rot = vs.RotationDelta(vs.AxisLock, (dx+dy)*rotateSpeed)
	} else {
		rot = math3d.RotateY(dx * rotateSpeed).Mul(math3d.RotateX(dy * rotateSpeed))
	}
	if in.Mode() == scene.ModeTransformingObject {
		// Spin the figure about its own center.
		rot = math3d.Translate(v.pivot).Mul(rot).Mul(math3d.Translate(v.pivot.Negate()))
	}
	in.Update(rot)
}

// release commits the drag.
func (v *viewer) release() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.dragging {
		return
	}
	v.world.Interaction().End()
	v.dragging = false
}

// frame advances animation and draws the world into fb.
func (v *viewer) frame(fb *render.Framebuffer) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.zoom.Update()
	v.placeCamera()

	fb.Clear(v.cfg.Background.Value())
	err := v.world.Draw(fb)
	if msg := errString(err); msg != v.lastErr {
		if err != nil {
			v.log.Warn("draw incomplete", "err", err)
		}
		v.lastErr = msg
	}

	if fig := v.world.Interaction().Figure(); fig != nil {
		if r, ok := v.world.ScreenRect(fig); ok {
			fb.DrawRectOutline(
				int(r.Min.X), int(r.Min.Y),
				int(r.Max.X-r.Min.X)+1, int(r.Max.Y-r.Min.Y)+1,
				v.world.ViewState().BoxColor,
			)
		}
	}

	if v.snapshot {
		v.snapshot = false
		if err := fb.Save(v.snapPath); err != nil {
			v.log.Error("snapshot failed", "path", v.snapPath, "err", err)
		} else {
			v.log.Info("snapshot saved", "path", v.snapPath)
		}
	}
}

// status returns a copy of the state the HUD shows.
func (v *viewer) status() (scene.ViewState, scene.Mode, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.world.ViewState(), v.world.Interaction().Mode(), v.pan
}

func (v *viewer) hudVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.showHUD
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
