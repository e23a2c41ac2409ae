package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
)

// Figure groups objects under one transform. It is the unit of picking and
// interactive manipulation.
type Figure struct {
	Name string

	objects   []*Object
	transform math3d.Mat4
	backup    math3d.Mat4
	bounds    BoundingBox
	owner     boundsSink
}

// NewFigure creates an empty figure with an identity transform.
func NewFigure(name string) *Figure {
	return &Figure{
		Name:      name,
		transform: math3d.Identity(),
		backup:    math3d.Identity(),
	}
}

// NewObject creates an object owned by f and appends it.
func (f *Figure) NewObject() *Object {
	o := NewObject()
	_ = f.AddObject(o)
	return o
}

// AddObject appends o and counts its points into the bounds. An object that
// already belongs to a figure is rejected with ErrAttached.
func (f *Figure) AddObject(o *Object) error {
	if o.owner != nil {
		return ErrAttached
	}
	o.owner = f
	f.objects = append(f.objects, o)
	f.grow(o.bounds)
	return nil
}

func (f *Figure) grow(b BoundingBox) {
	f.bounds.Union(b)
	if f.owner != nil {
		f.owner.grow(b)
	}
}

// Objects returns the objects in insertion order.
func (f *Figure) Objects() []*Object {
	return f.objects
}

// IsEmpty reports whether the figure has no objects.
func (f *Figure) IsEmpty() bool {
	return len(f.objects) == 0
}

// Bounds returns the model-space bounding box. The figure transform is not
// applied.
func (f *Figure) Bounds() BoundingBox {
	return f.bounds
}

// Transform returns the live figure transform.
func (f *Figure) Transform() math3d.Mat4 {
	return f.transform
}

// SetTransform replaces the live figure transform.
func (f *Figure) SetTransform(m math3d.Mat4) {
	f.transform = m
}

// BackupTransform returns the snapshot taken by SaveBackup.
func (f *Figure) BackupTransform() math3d.Mat4 {
	return f.backup
}

// SaveBackup snapshots the live transform.
func (f *Figure) SaveBackup() {
	f.backup = f.transform
}

// RestoreBackup makes the snapshot live again.
func (f *Figure) RestoreBackup() {
	f.transform = f.backup
}

// Draw composes parent with the figure transform and draws every object.
func (f *Figure) Draw(target *render.Framebuffer, parent math3d.Mat4, state ViewState) error {
	m := parent.Mul(f.transform)

	var errs []error
	for i, o := range f.objects {
		if err := o.Draw(target, m, state); err != nil {
			errs = append(errs, fmt.Errorf("object %d (%s): %w", i, o.Attributes.Name, err))
		}
	}
	if state.ShowBoundingBox && !f.bounds.IsEmpty() {
		render.NewWireframe(m, target).DrawBox(f.bounds.Min, f.bounds.Max, state.BoxColor)
	}
	return errors.Join(errs...)
}
