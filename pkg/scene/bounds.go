package scene

import (
	"errors"

	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
)

// BoundingBox is an axis-aligned box. The zero value is empty; the first
// point extended into it initializes both corners.
type BoundingBox struct {
	Min, Max math3d.Vec3
	valid    bool
}

// NewBoundingBox creates a box from two corners.
func NewBoundingBox(lo, hi math3d.Vec3) BoundingBox {
	return BoundingBox{Min: lo.Min(hi), Max: lo.Max(hi), valid: true}
}

// IsEmpty reports whether no point has been added yet.
func (b BoundingBox) IsEmpty() bool {
	return !b.valid
}

// Extend grows the box to contain p.
func (b *BoundingBox) Extend(p math3d.Vec3) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Union grows the box to contain o.
func (b *BoundingBox) Union(o BoundingBox) {
	if !o.valid {
		return
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
}

// Contains reports whether p lies inside the box, boundary included.
func (b BoundingBox) Contains(p math3d.Vec3) bool {
	return b.valid &&
		p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the center of the box.
func (b BoundingBox) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box on each axis.
func (b BoundingBox) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the 8 corners in render.BoxEdges order.
func (b BoundingBox) Corners() [8]math3d.Vec3 {
	return render.BoxCorners(b.Min, b.Max)
}

// Transform returns the axis-aligned box enclosing b after m is applied.
func (b BoundingBox) Transform(m math3d.Mat4) BoundingBox {
	if !b.valid {
		return b
	}
	var out BoundingBox
	for _, c := range b.Corners() {
		out.Extend(m.MulVec3(c))
	}
	return out
}

// ErrAttached is returned when adding a child that already has a parent.
var ErrAttached = errors.New("scene: already attached to a parent")

// boundsSink receives geometry growth from a child entity.
type boundsSink interface {
	grow(b BoundingBox)
}
