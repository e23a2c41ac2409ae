package render

import (
	"github.com/taigrr/cgwork/pkg/math3d"
)

// NearW is the smallest homogeneous w a projected vertex may carry. Edges
// reaching behind it are cut at w == NearW before the divide.
const NearW = 1e-6

// BoxEdges lists the 12 edges of a box as index pairs into BoxCorners.
var BoxEdges = [12][2]int{
	// Back face
	{0, 1},
	{1, 2},
	{2, 3},
	{3, 0},
	// Front face
	{4, 5},
	{5, 6},
	{6, 7},
	{7, 4},
	// Connecting edges
	{0, 4},
	{1, 5},
	{2, 6},
	{3, 7},
}

// BoxCorners returns the 8 corners of the axis-aligned box [lo, hi].
func BoxCorners(lo, hi math3d.Vec3) [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, // 0: bottom-left-back
		{X: hi.X, Y: lo.Y, Z: lo.Z}, // 1: bottom-right-back
		{X: hi.X, Y: hi.Y, Z: lo.Z}, // 2: top-right-back
		{X: lo.X, Y: hi.Y, Z: lo.Z}, // 3: top-left-back
		{X: lo.X, Y: lo.Y, Z: hi.Z}, // 4: bottom-left-front
		{X: hi.X, Y: lo.Y, Z: hi.Z}, // 5: bottom-right-front
		{X: hi.X, Y: hi.Y, Z: hi.Z}, // 6: top-right-front
		{X: lo.X, Y: hi.Y, Z: hi.Z}, // 7: top-left-front
	}
}

// Wireframe draws 3D segments into a framebuffer through a single
// model-to-pixel matrix.
type Wireframe struct {
	transform math3d.Mat4
	fb        *Framebuffer
}

// NewWireframe creates a wireframe renderer for transform and fb.
func NewWireframe(transform math3d.Mat4, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		transform: transform,
		fb:        fb,
	}
}

// Transform returns the model-to-pixel matrix.
func (w *Wireframe) Transform() math3d.Mat4 {
	return w.transform
}

// Framebuffer returns the target buffer.
func (w *Wireframe) Framebuffer() *Framebuffer {
	return w.fb
}

// With returns a wireframe whose transform applies m before the current one.
func (w *Wireframe) With(m math3d.Mat4) *Wireframe {
	return &Wireframe{
		transform: w.transform.Mul(m),
		fb:        w.fb,
	}
}

// Project maps p to pixel coordinates. ok is false when p lies behind the
// eye.
func (w *Wireframe) Project(p math3d.Vec3) (x, y float64, ok bool) {
	h := w.transform.MulVec4(math3d.Point(p))
	if h.W < NearW {
		return 0, 0, false
	}
	return h.X / h.W, h.Y / h.W, true
}

// DrawLine3D draws a line in 3D space.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	h1 := w.transform.MulVec4(math3d.Point(p1))
	h2 := w.transform.MulVec4(math3d.Point(p2))
	w.drawClipped(h1, h2, color)
}

// drawClipped cuts the homogeneous segment at the near plane, divides and
// rasterizes what is left.
func (w *Wireframe) drawClipped(h1, h2 math3d.Vec4, color Color) {
	in1, in2 := h1.W >= NearW, h2.W >= NearW
	switch {
	case !in1 && !in2:
		return
	case !in1:
		h1 = h1.Lerp(h2, (NearW-h1.W)/(h2.W-h1.W))
	case !in2:
		h2 = h2.Lerp(h1, (NearW-h2.W)/(h1.W-h2.W))
	}
	a, b := h1.PerspectiveDivide(), h2.PerspectiveDivide()
	w.fb.DrawLineF(a.X, a.Y, b.X, b.Y, color)
}

// DrawPolyline draws consecutive segments through points. When closed the
// last point connects back to the first.
func (w *Wireframe) DrawPolyline(points []math3d.Vec3, closed bool, color Color) {
	if len(points) == 0 {
		return
	}
	hs := make([]math3d.Vec4, len(points))
	for i, p := range points {
		hs[i] = w.transform.MulVec4(math3d.Point(p))
	}
	if len(hs) == 1 {
		w.drawClipped(hs[0], hs[0], color)
		return
	}
	for i := 1; i < len(hs); i++ {
		w.drawClipped(hs[i-1], hs[i], color)
	}
	if closed && len(hs) > 2 {
		w.drawClipped(hs[len(hs)-1], hs[0], color)
	}
}

// DrawBox draws the 12 edges of the axis-aligned box [lo, hi].
func (w *Wireframe) DrawBox(lo, hi math3d.Vec3, color Color) {
	corners := BoxCorners(lo, hi)
	var hs [8]math3d.Vec4
	for i, c := range corners {
		hs[i] = w.transform.MulVec4(math3d.Point(c))
	}
	for _, edge := range BoxEdges {
		w.drawClipped(hs[edge[0]], hs[edge[1]], color)
	}
}
