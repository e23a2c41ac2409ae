package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
)

// ErrEmptyPolygon is returned when drawing a polygon with no points.
var ErrEmptyPolygon = errors.New("scene: polygon has no points")

// NormalKind records where a polygon's plane normal came from.
type NormalKind int

const (
	NormalNone NormalKind = iota
	NormalFromSource
	NormalComputed
)

func (k NormalKind) String() string {
	switch k {
	case NormalNone:
		return "none"
	case NormalFromSource:
		return "source"
	case NormalComputed:
		return "computed"
	}
	return fmt.Sprintf("NormalKind(%d)", int(k))
}

// Polygon is a closed ring of points; the last point connects back to the
// first.
type Polygon struct {
	points     []Point
	normal     math3d.Vec3
	normalKind NormalKind
	bounds     BoundingBox
	owner      boundsSink
}

// NewPolygon creates an empty polygon.
func NewPolygon() *Polygon {
	return &Polygon{}
}

// AddPoint appends pt and grows the bounding boxes up the owner chain.
func (p *Polygon) AddPoint(pt Point) {
	p.points = append(p.points, pt)
	p.grow(NewBoundingBox(pt.Position(), pt.Position()))
}

// AddCoords appends a point from raw coordinates. A zero normal means the
// point has none.
func (p *Polygon) AddCoords(x, y, z, nx, ny, nz float64) {
	if nx == 0 && ny == 0 && nz == 0 {
		p.AddPoint(NewPoint(x, y, z))
		return
	}
	p.AddPoint(NewPointWithNormal(x, y, z, nx, ny, nz))
}

func (p *Polygon) grow(b BoundingBox) {
	p.bounds.Union(b)
	if p.owner != nil {
		p.owner.grow(b)
	}
}

// Points returns the points in insertion order. The slice must not be
// modified.
func (p *Polygon) Points() []Point {
	return p.points
}

// Len returns the number of points.
func (p *Polygon) Len() int {
	return len(p.points)
}

// Bounds returns the bounding box of the points.
func (p *Polygon) Bounds() BoundingBox {
	return p.bounds
}

// Centroid returns the average of the points.
func (p *Polygon) Centroid() math3d.Vec3 {
	if len(p.points) == 0 {
		return math3d.Zero3()
	}
	var sum math3d.Vec3
	for _, pt := range p.points {
		sum = sum.Add(pt.Position())
	}
	return sum.Scale(1 / float64(len(p.points)))
}

// PlaneNormal returns the plane normal and its origin.
func (p *Polygon) PlaneNormal() (math3d.Vec3, NormalKind) {
	return p.normal, p.normalKind
}

// SetPlaneNormal stores a normal supplied by the model source.
func (p *Polygon) SetPlaneNormal(n math3d.Vec3) {
	p.normal = n.Normalize()
	p.normalKind = NormalFromSource
}

// ComputeNormal derives the plane normal with Newell's method. It returns
// false and leaves the polygon unchanged when the ring is degenerate.
func (p *Polygon) ComputeNormal() bool {
	var n math3d.Vec3
	for i, cur := range p.points {
		a := cur.Position()
		b := p.points[(i+1)%len(p.points)].Position()
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	if n.Len() == 0 {
		return false
	}
	p.normal = n.Normalize()
	p.normalKind = NormalComputed
	return true
}

// Draw draws the ring through m into target, then any normals the state
// asks for.
func (p *Polygon) Draw(target *render.Framebuffer, m math3d.Mat4, color render.Color, state ViewState) error {
	if len(p.points) == 0 {
		return ErrEmptyPolygon
	}

	wf := render.NewWireframe(m, target)
	ring := make([]math3d.Vec3, len(p.points))
	for i, pt := range p.points {
		ring[i] = pt.Position()
	}
	wf.DrawPolyline(ring, true, color)

	if state.ShowPolygonNormals && p.normalKind != NormalNone {
		c := p.Centroid()
		wf.DrawLine3D(c, c.Add(p.normal.Scale(state.NormalLength)), state.NormalColor)
	}
	if state.ShowVertexNormals {
		for _, pt := range p.points {
			if !pt.HasNormal {
				continue
			}
			v := pt.Position()
			n := pt.Normal.Vec3().Normalize()
			wf.DrawLine3D(v, v.Add(n.Scale(state.NormalLength)), state.NormalColor)
		}
	}
	return nil
}
