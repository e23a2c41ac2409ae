package math3d

import "math"

// DefaultProjectionDistance is the projection-plane distance used when none
// is configured.
const DefaultProjectionDistance = 2.0

// Perspective returns the projection onto the plane at distance d in front
// of an eye at the view-space origin looking down -Z.
//
// A view-space point (x, y, z, 1) maps to (x, y, 1, -z/d); after the
// homogeneous divide x and y land on the projection plane and z carries the
// reciprocal depth d/-z (larger is closer). d must be positive; a zero d is
// a caller contract violation.
func Perspective(d float64) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, -1 / d,
		0, 0, 1, 0,
	}
}

// Orthographic returns the parallel projection. It leaves w at 1, so the
// divide that follows is a no-op.
func Orthographic() Mat4 {
	return Identity()
}

// Frame is a coordinate system given by three axes and an origin.
// The axes must be orthonormal.
type Frame struct {
	Axes   [3]Vec3
	Origin Vec3
}

// StandardFrame returns the world-standard basis at the origin.
func StandardFrame() Frame {
	return Frame{
		Axes: [3]Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
}

// Matrix returns the transform expressing points in f's coordinates.
func (f Frame) Matrix() Mat4 {
	var r Mat4
	for row, axis := range f.Axes {
		r.Set(row, 0, axis.X)
		r.Set(row, 1, axis.Y)
		r.Set(row, 2, axis.Z)
	}
	r.Set(3, 3, 1)
	return r.Mul(Translate(f.Origin.Negate()))
}

// ScreenMatrix maps projected coordinates to device pixels for a viewport
// of width x height. The frame is applied first; the square [-1,1]x[-1,1]
// is then scaled to fit the smaller viewport dimension, centered, with Y
// pointing down. Z passes through unchanged.
//
// The frame axes must be orthonormal. Non-orthonormal input is undefined.
func ScreenMatrix(f Frame, width, height int) Mat4 {
	w, h := float64(width), float64(height)
	s := math.Min(w, h) / 2

	pixels := Mat4{
		s, 0, 0, 0,
		0, -s, 0, 0,
		0, 0, 1, 0,
		w / 2, h / 2, 0, 1,
	}
	return pixels.Mul(f.Matrix())
}

// NormalizeToUnitCube returns the transform that centers the box
// [min, max] at the origin and scales its largest side to 2, so the box
// fits in [-1, 1] on every axis. A degenerate box is only centered.
func NormalizeToUnitCube(min, max Vec3) Mat4 {
	center := min.Add(max).Scale(0.5)
	extent := max.Sub(min).MaxComponent()
	if extent <= 0 {
		return Translate(center.Negate())
	}
	return ScaleUniform(2 / extent).Mul(Translate(center.Negate()))
}
