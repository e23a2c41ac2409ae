package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
)

// Attributes are the opaque per-object properties carried from the model
// source. The core only reads Color.
type Attributes struct {
	Name         string
	Color        render.Color
	HasColor     bool
	Transparency float64
	Texture      string
	PTexture     string
}

// Object is an ordered list of polygons sharing one set of attributes.
type Object struct {
	Attributes Attributes

	polygons []*Polygon
	bounds   BoundingBox
	owner    boundsSink
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{}
}

// NewPolygon creates a polygon owned by o and appends it.
func (o *Object) NewPolygon() *Polygon {
	p := NewPolygon()
	_ = o.AddPolygon(p)
	return p
}

// AddPolygon appends p. Points already in p are counted into the bounds.
// A polygon that already belongs to an object is rejected with ErrAttached.
func (o *Object) AddPolygon(p *Polygon) error {
	if p.owner != nil {
		return ErrAttached
	}
	p.owner = o
	o.polygons = append(o.polygons, p)
	o.grow(p.bounds)
	return nil
}

func (o *Object) grow(b BoundingBox) {
	o.bounds.Union(b)
	if o.owner != nil {
		o.owner.grow(b)
	}
}

// Polygons returns the polygons in insertion order.
func (o *Object) Polygons() []*Polygon {
	return o.polygons
}

// Len returns the number of polygons.
func (o *Object) Len() int {
	return len(o.polygons)
}

// Bounds returns the bounding box of every point in the object.
func (o *Object) Bounds() BoundingBox {
	return o.bounds
}

// Draw draws every polygon in insertion order. A failing polygon does not
// stop its siblings; all failures are joined.
func (o *Object) Draw(target *render.Framebuffer, m math3d.Mat4, state ViewState) error {
	color := state.WireColor
	if o.Attributes.HasColor {
		color = o.Attributes.Color
	}

	var errs []error
	for i, p := range o.polygons {
		if err := p.Draw(target, m, color, state); err != nil {
			errs = append(errs, fmt.Errorf("polygon %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
