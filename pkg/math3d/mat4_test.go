package math3d

import (
	"errors"
	"math"
	"testing"
)

func vecClose(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

// relClose compares with a tolerance relative to the magnitude of want.
func relClose(got, want Vec3, rel float64) bool {
	scale := math.Max(1, want.Len())
	return vecClose(got, want, rel*scale)
}

func sampleMatrices() map[string]Mat4 {
	return map[string]Mat4{
		"identity":    Identity(),
		"translate":   Translate(V3(1, -2, 3)),
		"scale":       Scale(V3(2, 0.5, -3)),
		"rotate x":    RotateX(0.7),
		"rotate axis": Rotate(V3(1, 1, 0), 1.2),
		"composite":   Translate(V3(4, 5, 6)).Mul(RotateY(-0.3)).Mul(Scale(V3(2, 2, 2))),
		"look at":     LookAt(V3(3, 4, 5), Zero3(), Up()),
		"perspective": Perspective(20).Mul(Translate(V3(0, 0, -5))),
		"screen":      ScreenMatrix(StandardFrame(), 800, 600),
	}
}

func TestIdentityLaw(t *testing.T) {
	for name, m := range sampleMatrices() {
		t.Run(name, func(t *testing.T) {
			if got := Identity().Mul(m); got != m {
				t.Errorf("I*M = %v, want %v", got, m)
			}
			if got := m.Mul(Identity()); got != m {
				t.Errorf("M*I = %v, want %v", got, m)
			}
		})
	}
}

func TestInverseRoundTrip(t *testing.T) {
	points := []Vec3{
		V3(0, 0, 0),
		V3(1, 2, 3),
		V3(-7.5, 0.25, 100),
		V3(1e3, -1e3, 5),
	}

	for name, m := range sampleMatrices() {
		t.Run(name, func(t *testing.T) {
			inv := m.Inverse()
			for _, p := range points {
				moved := m.MulVec4(Point(p))
				back := inv.MulVec4(moved).PerspectiveDivide()
				if !relClose(back, p, 1e-9) {
					t.Errorf("M^-1 * (M * %v) = %v", p, back)
				}
			}
		})
	}
}

func TestInverseMatchesChecked(t *testing.T) {
	for name, m := range sampleMatrices() {
		t.Run(name, func(t *testing.T) {
			checked, err := m.InverseChecked()
			if err != nil {
				t.Fatalf("InverseChecked: %v", err)
			}
			if !m.Inverse().ApproxEqual(checked, 1e-9) {
				t.Errorf("Inverse() = %v, InverseChecked() = %v", m.Inverse(), checked)
			}
			if !m.Mul(checked).ApproxEqual(Identity(), 1e-9) {
				t.Errorf("M * M^-1 is not identity: %v", m.Mul(checked))
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	m := Scale(V3(1, 0, 1))

	if got := m.Inverse(); got != Identity() {
		t.Errorf("Inverse of singular matrix = %v, want identity", got)
	}
	if _, err := m.InverseChecked(); !errors.Is(err, ErrSingular) {
		t.Errorf("InverseChecked error = %v, want ErrSingular", err)
	}
}

func TestDeterminant(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		want float64
	}{
		{"identity", Identity(), 1},
		{"scale", Scale(V3(2, 3, 4)), 24},
		{"rotation", Rotate(V3(0.3, -1, 2), 2.1), 1},
		{"translation", Translate(V3(9, 8, 7)), 1},
		{"flat", Scale(V3(1, 1, 0)), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.m.Determinant(); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Determinant() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMulOrder(t *testing.T) {
	// Translate * Rotate applies the rotation first.
	m := Translate(V3(10, 0, 0)).Mul(RotateZ(math.Pi / 2))
	got := m.MulVec3(V3(1, 0, 0))
	if !vecClose(got, V3(10, 1, 0), 1e-12) {
		t.Errorf("T*R*(1,0,0) = %v, want (10,1,0)", got)
	}

	m = RotateZ(math.Pi / 2).Mul(Translate(V3(10, 0, 0)))
	got = m.MulVec3(V3(1, 0, 0))
	if !vecClose(got, V3(0, 11, 0), 1e-12) {
		t.Errorf("R*T*(1,0,0) = %v, want (0,11,0)", got)
	}
}

func TestMulAssociative(t *testing.T) {
	a := RotateX(0.4)
	b := Translate(V3(1, 2, 3))
	c := Perspective(5)

	left := a.Mul(b).Mul(c)
	right := a.Mul(b.Mul(c))
	if !left.ApproxEqual(right, 1e-12) {
		t.Errorf("(AB)C = %v, A(BC) = %v", left, right)
	}
}

func TestMulVec3Dir(t *testing.T) {
	m := Translate(V3(5, 5, 5)).Mul(RotateY(math.Pi))
	got := m.MulVec3Dir(V3(1, 0, 0))
	if !vecClose(got, V3(-1, 0, 0), 1e-12) {
		t.Errorf("direction picked up translation: %v", got)
	}
}

func TestLookAtDefaultIsIdentity(t *testing.T) {
	m := LookAt(Zero3(), Forward(), Up())
	if !m.ApproxEqual(Identity(), 1e-12) {
		t.Errorf("LookAt(origin, -Z, +Y) = %v, want identity", m)
	}
}

func TestTransposeInvolution(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateX(0.3))
	if m.Transpose().Transpose() != m {
		t.Error("transpose is not an involution")
	}
	if m.Transpose().Get(3, 0) != m.Get(0, 3) {
		t.Error("transpose did not swap (0,3) and (3,0)")
	}
}

func TestLinearAndAffine(t *testing.T) {
	m := Translate(V3(3, 2, 1)).Mul(Scale(V3(2, 2, 2)))
	if !m.IsAffine() {
		t.Error("translate*scale should be affine")
	}
	if m.Linear().Translation() != Zero3() {
		t.Errorf("Linear() kept translation %v", m.Linear().Translation())
	}
	if Perspective(4).IsAffine() {
		t.Error("perspective should not be affine")
	}
}
