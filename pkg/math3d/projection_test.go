package math3d

import (
	"math"
	"testing"
)

func TestScreenProjectsToViewportCenter(t *testing.T) {
	screen := ScreenMatrix(StandardFrame(), 800, 600)
	m := screen.Mul(Perspective(20))

	got := m.MulVec4(Point(V3(0, 0, -10))).PerspectiveDivide()
	if math.Abs(got.X-400) > 1e-9 || math.Abs(got.Y-300) > 1e-9 {
		t.Errorf("projected (0,0,-10) = (%v, %v), want (400, 300)", got.X, got.Y)
	}
	if math.Abs(got.Z-2) > 1e-9 {
		t.Errorf("reciprocal depth = %v, want 2", got.Z)
	}
}

func TestPerspectiveDivide(t *testing.T) {
	p := Perspective(10)

	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"on plane", V3(2, 3, -10), V3(2, 3, 1)},
		{"twice as far", V3(2, 3, -20), V3(1, 1.5, 0.5)},
		{"closer", V3(1, -1, -5), V3(2, -2, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clip := p.MulVec4(Point(tc.in))
			if clip.W <= 0 {
				t.Fatalf("point in front of the eye got w=%v", clip.W)
			}
			if got := clip.PerspectiveDivide(); !vecClose(got, tc.want, 1e-12) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	if behind := p.MulVec4(Point(V3(0, 0, 5))); behind.W >= 0 {
		t.Errorf("point behind the eye got w=%v, want negative", behind.W)
	}
}

func TestOrthographicSkipsDivide(t *testing.T) {
	clip := Orthographic().MulVec4(Point(V3(3, 4, -50)))
	if clip.W != 1 {
		t.Fatalf("w = %v, want 1", clip.W)
	}
	if got := clip.PerspectiveDivide(); got != V3(3, 4, -50) {
		t.Errorf("got %v", got)
	}
}

func TestScreenMatrixAxes(t *testing.T) {
	screen := ScreenMatrix(StandardFrame(), 200, 100)

	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"origin", V3(0, 0, 0), V3(100, 50, 0)},
		{"right edge of unit square", V3(1, 0, 0), V3(150, 50, 0)},
		{"top", V3(0, 1, 0), V3(100, 0, 0)},
		{"bottom", V3(0, -1, 0), V3(100, 100, 0)},
		{"z passes through", V3(0, 0, 7), V3(100, 50, 7)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := screen.MulVec3(tc.in); !vecClose(got, tc.want, 1e-12) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScreenMatrixCustomFrame(t *testing.T) {
	// Frame rotated 90 degrees about Z with its origin at (1, 0, 0).
	f := Frame{
		Axes:   [3]Vec3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}},
		Origin: V3(1, 0, 0),
	}

	local := f.Matrix().MulVec3(V3(1, 1, 0))
	if !vecClose(local, V3(1, 0, 0), 1e-12) {
		t.Errorf("frame coordinates = %v, want (1,0,0)", local)
	}

	screen := ScreenMatrix(f, 100, 100)
	if got := screen.MulVec3(V3(1, 0, 0)); !vecClose(got, V3(50, 50, 0), 1e-12) {
		t.Errorf("frame origin maps to %v, want viewport center", got)
	}
}

func TestNormalizeToUnitCube(t *testing.T) {
	m := NormalizeToUnitCube(V3(2, 0, 0), V3(6, 2, 1))

	if got := m.MulVec3(V3(4, 1, 0.5)); !vecClose(got, Zero3(), 1e-12) {
		t.Errorf("center maps to %v, want origin", got)
	}
	if got := m.MulVec3(V3(6, 2, 1)); !vecClose(got, V3(1, 0.5, 0.25), 1e-12) {
		t.Errorf("max corner maps to %v", got)
	}

	flat := NormalizeToUnitCube(V3(1, 1, 1), V3(1, 1, 1))
	if got := flat.MulVec3(V3(1, 1, 1)); !vecClose(got, Zero3(), 1e-12) {
		t.Errorf("degenerate box center maps to %v", got)
	}
}

func TestRect2Contains(t *testing.T) {
	r := Rect2{Min: V2(0, 0), Max: V2(10, 5)}

	tests := []struct {
		p    Vec2
		want bool
	}{
		{V2(5, 2), true},
		{V2(0, 0), true},
		{V2(10, 5), true},
		{V2(-0.1, 2), false},
		{V2(5, 5.1), false},
	}
	for _, tc := range tests {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}
