// Package scene holds the geometry hierarchy (world, figures, objects,
// polygons, points) and the transformation pipeline that maps it to pixels.
//
// A model-space point p of a figure reaches the screen as
//
//	S · P · V · W · N · F · p
//
// with F the figure transform, N the normalization matrix, W the world
// transform, V the view matrix, P the projection and S the screen matrix.
// The homogeneous divide follows the whole product; S is affine so dividing
// after it is equivalent to dividing before it.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
)

// World is the root of the scene. It is not safe for concurrent use; the
// caller serializes mutation and drawing.
type World struct {
	figures []*Figure
	bounds  BoundingBox

	camera        Camera
	view          ViewState
	screen        math3d.Mat4
	normalization math3d.Mat4
	transform     math3d.Mat4
	backup        math3d.Mat4

	interaction Interaction
}

// NewWorld creates an empty world with the default camera and view state
// and identity matrices.
func NewWorld() *World {
	w := &World{
		camera:        DefaultCamera(),
		view:          DefaultViewState(),
		screen:        math3d.Identity(),
		normalization: math3d.Identity(),
		transform:     math3d.Identity(),
		backup:        math3d.Identity(),
	}
	w.interaction.world = w
	return w
}

func (w *World) grow(b BoundingBox) {
	w.bounds.Union(b)
}

// NewFigure creates a figure owned by w and appends it.
func (w *World) NewFigure(name string) *Figure {
	f := NewFigure(name)
	_ = w.AddFigure(f)
	return f
}

// AddFigure appends f and counts its points into the world bounds. A figure
// that already belongs to a world is rejected with ErrAttached.
func (w *World) AddFigure(f *Figure) error {
	if f.owner != nil {
		return ErrAttached
	}
	f.owner = w
	w.figures = append(w.figures, f)
	w.grow(f.bounds)
	return nil
}

// Figures returns the figures in insertion order.
func (w *World) Figures() []*Figure {
	return w.figures
}

// IsEmpty reports whether the world has no figures.
func (w *World) IsEmpty() bool {
	return len(w.figures) == 0
}

// Bounds returns the union of every figure's model-space bounds.
func (w *World) Bounds() BoundingBox {
	return w.bounds
}

// SetScreenMatrix builds the screen matrix for a width x height viewport.
// The frame axes must be orthonormal.
func (w *World) SetScreenMatrix(frame math3d.Frame, width, height int) {
	w.screen = math3d.ScreenMatrix(frame, width, height)
}

// ScreenMatrix returns S.
func (w *World) ScreenMatrix() math3d.Mat4 {
	return w.screen
}

// SetViewState replaces the view options.
func (w *World) SetViewState(vs ViewState) {
	w.view = vs
}

// ViewState returns the view options.
func (w *World) ViewState() ViewState {
	return w.view
}

// SetCamera moves the eye.
func (w *World) SetCamera(c Camera) {
	w.camera = c
}

// Camera returns the eye placement.
func (w *World) Camera() Camera {
	return w.camera
}

// SetNormalization replaces N.
func (w *World) SetNormalization(m math3d.Mat4) {
	w.normalization = m
}

// Normalization returns N.
func (w *World) Normalization() math3d.Mat4 {
	return w.normalization
}

// Normalize sets N so that the current bounds fit the cube [-1, 1].
// An empty world keeps the identity.
func (w *World) Normalize() {
	if w.bounds.IsEmpty() {
		w.normalization = math3d.Identity()
		return
	}
	w.normalization = math3d.NormalizeToUnitCube(w.bounds.Min, w.bounds.Max)
}

// WorldTransform returns the live world transform W.
func (w *World) WorldTransform() math3d.Mat4 {
	return w.transform
}

// SetWorldTransform replaces W.
func (w *World) SetWorldTransform(m math3d.Mat4) {
	w.transform = m
}

// BackupTransform returns the snapshot of W taken when a world drag began.
func (w *World) BackupTransform() math3d.Mat4 {
	return w.backup
}

// ViewMatrix returns V.
func (w *World) ViewMatrix() math3d.Mat4 {
	return w.camera.ViewMatrix()
}

// ProjectionMatrix returns P for the current view state.
func (w *World) ProjectionMatrix() math3d.Mat4 {
	if w.view.Perspective {
		return math3d.Perspective(w.view.ProjectionDistance)
	}
	return math3d.Orthographic()
}

// Transform returns S · P · V · W · N.
func (w *World) Transform() math3d.Mat4 {
	return w.screen.
		Mul(w.ProjectionMatrix()).
		Mul(w.ViewMatrix()).
		Mul(w.transform).
		Mul(w.normalization)
}

// Draw draws every figure into target in insertion order. An invalid target
// is rejected before any pixel is written; an empty world draws nothing.
func (w *World) Draw(target *render.Framebuffer) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if w.IsEmpty() {
		return nil
	}

	m := w.Transform()
	var errs []error
	for i, f := range w.figures {
		if err := f.Draw(target, m, w.view); err != nil {
			errs = append(errs, fmt.Errorf("figure %d (%s): %w", i, f.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ScreenRect returns the screen-space rectangle covered by f's bounding
// box. ok is false when the box is empty or entirely behind the eye.
func (w *World) ScreenRect(f *Figure) (math3d.Rect2, bool) {
	if f.bounds.IsEmpty() {
		return math3d.Rect2{}, false
	}

	wf := render.NewWireframe(w.Transform().Mul(f.transform), nil)
	var rect math3d.Rect2
	seen := false
	for _, c := range f.bounds.Corners() {
		x, y, ok := wf.Project(c)
		if !ok {
			continue
		}
		p := math3d.V2(x, y)
		if !seen {
			rect = math3d.Rect2{Min: p, Max: p}
			seen = true
			continue
		}
		rect.Min = math3d.V2(min(rect.Min.X, x), min(rect.Min.Y, y))
		rect.Max = math3d.V2(max(rect.Max.X, x), max(rect.Max.Y, y))
	}
	return rect, seen
}

// FigureAtPoint returns the first figure, in insertion order, whose
// projected bounding box contains the screen point, or nil. Figures are not
// depth sorted: when boxes overlap the earlier figure wins even if it is
// farther away.
func (w *World) FigureAtPoint(x, y float64) *Figure {
	p := math3d.V2(x, y)
	for _, f := range w.figures {
		rect, ok := w.ScreenRect(f)
		if ok && rect.Contains(p) {
			return f
		}
	}
	return nil
}

// ScreenDeltaToWorld converts a pixel displacement into a displacement in
// the space W acts on, ignoring perspective foreshortening.
func (w *World) ScreenDeltaToWorld(dx, dy float64) (math3d.Vec3, error) {
	return screenDelta(w.screen.Mul(w.ViewMatrix()).Mul(w.transform), dx, dy)
}

// ScreenDeltaToFigure converts a pixel displacement into a displacement in
// f's model space, measured against f's backup transform.
func (w *World) ScreenDeltaToFigure(f *Figure, dx, dy float64) (math3d.Vec3, error) {
	m := w.screen.
		Mul(w.ViewMatrix()).
		Mul(w.transform).
		Mul(w.normalization).
		Mul(f.backup)
	return screenDelta(m, dx, dy)
}

func screenDelta(m math3d.Mat4, dx, dy float64) (math3d.Vec3, error) {
	inv, err := m.Linear().InverseChecked()
	if err != nil {
		return math3d.Vec3{}, fmt.Errorf("screen delta: %w", err)
	}
	return inv.MulVec3Dir(math3d.V3(dx, dy, 0)), nil
}

// Interaction returns the world's drag state machine.
func (w *World) Interaction() *Interaction {
	return &w.interaction
}
