package scene

import (
	"fmt"

	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
)

// Axis selects which axes interactive deltas act on.
type Axis int

const (
	AxisAll Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisAll:
		return "all"
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ViewState holds the options consumed by every draw.
type ViewState struct {
	Perspective        bool
	ProjectionDistance float64 // d > 0

	ShowVertexNormals  bool
	ShowPolygonNormals bool
	ShowBoundingBox    bool
	AxisLock           Axis

	WireColor   render.Color
	NormalColor render.Color
	BoxColor    render.Color

	// NormalLength is the length of drawn normals in model units.
	NormalLength float64
}

// DefaultViewState returns an orthographic view with normals and boxes
// hidden.
func DefaultViewState() ViewState {
	return ViewState{
		ProjectionDistance: math3d.DefaultProjectionDistance,
		WireColor:          render.ColorWhite,
		NormalColor:        render.ColorCyan,
		BoxColor:           render.ColorYellow,
		NormalLength:       0.1,
	}
}

// Camera places the eye in world space.
type Camera struct {
	Eye    math3d.Vec3
	Target math3d.Vec3
	Up     math3d.Vec3
}

// DefaultCamera looks from the origin down -Z with +Y up, giving an
// identity view matrix.
func DefaultCamera() Camera {
	return Camera{
		Eye:    math3d.Zero3(),
		Target: math3d.V3(0, 0, -1),
		Up:     math3d.Up(),
	}
}

// ViewMatrix returns the world-to-eye matrix.
func (c Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Eye, c.Target, c.Up)
}
