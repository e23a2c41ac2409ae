package math3d

import (
	"testing"
)

// pipeline is the S·P·V product a World composes once per draw.
func pipeline() Mat4 {
	view := LookAt(V3(0, 0, 10), Zero3(), Up())
	return ScreenMatrix(StandardFrame(), 800, 600).Mul(Perspective(DefaultProjectionDistance)).Mul(view)
}

func BenchmarkWorldPipeline(b *testing.B) {
	view := LookAt(V3(0, 0, 10), Zero3(), Up())
	proj := Perspective(DefaultProjectionDistance)
	screen := ScreenMatrix(StandardFrame(), 800, 600)

	for b.Loop() {
		_ = screen.Mul(proj).Mul(view)
	}
}

func BenchmarkProjectPoint(b *testing.B) {
	m := pipeline()
	p := Point(V3(0.5, -0.25, -1))

	for b.Loop() {
		_ = m.MulVec4(p).PerspectiveDivide()
	}
}

func BenchmarkInverseChecked(b *testing.B) {
	m := pipeline().Linear()

	for b.Loop() {
		_, _ = m.InverseChecked()
	}
}

func BenchmarkNormalizeToUnitCube(b *testing.B) {
	lo, hi := V3(-3, 0, 1), V3(5, 2, 4)

	for b.Loop() {
		_ = NormalizeToUnitCube(lo, hi)
	}
}
