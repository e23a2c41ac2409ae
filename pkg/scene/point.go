package scene

import "github.com/taigrr/cgwork/pkg/math3d"

// Point is a polygon vertex with an optional normal. Vertex has w == 1 and
// Normal has w == 0.
type Point struct {
	Vertex    math3d.Vec4
	Normal    math3d.Vec4
	HasNormal bool
}

// NewPoint creates a point without a normal.
func NewPoint(x, y, z float64) Point {
	return Point{Vertex: math3d.Point(math3d.V3(x, y, z))}
}

// NewPointWithNormal creates a point carrying the normal (nx, ny, nz).
func NewPointWithNormal(x, y, z, nx, ny, nz float64) Point {
	return Point{
		Vertex:    math3d.Point(math3d.V3(x, y, z)),
		Normal:    math3d.Direction(math3d.V3(nx, ny, nz)),
		HasNormal: true,
	}
}

// Position returns the vertex as a 3D point.
func (p Point) Position() math3d.Vec3 {
	return p.Vertex.Vec3()
}
