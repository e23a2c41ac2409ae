package math3d

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Mat4 is a 4x4 matrix stored in column-major order and applied to column
// vectors. a.Mul(b) is the product a·b: when the result is applied to a
// vector, b acts first.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// For an affine transform:
// | Xx Yx Zx Tx |   X,Y,Z = basis vectors (rotation/scale)
// | Xy Yy Zy Ty |   T = translation
// | Xz Yz Zz Tz |
// | 0  0  0  1  |
type Mat4 [16]float64

// ErrSingular is returned by InverseChecked for a non-invertible matrix.
var ErrSingular = errors.New("math3d: singular matrix")

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate creates a rotation matrix around an arbitrary axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// LookAt creates a view matrix for an eye looking towards center.
// View space looks down -Z with up along +Y.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize() // Forward
	s := f.Cross(up).Normalize()     // Right
	u := s.Cross(f)                  // Up (recomputed)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a Vec3 as a point (w=1) and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(Point(v)).PerspectiveDivide()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(Direction(v)).Vec3()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// minors holds the 2x2 sub-determinants of the upper (s) and lower (c)
// row pairs, shared by Determinant and Inverse.
type minors struct {
	s0, s1, s2, s3, s4, s5 float64
	c0, c1, c2, c3, c4, c5 float64
}

func (m Mat4) minors() minors {
	a00, a01, a02, a03 := m[0], m[4], m[8], m[12]
	a10, a11, a12, a13 := m[1], m[5], m[9], m[13]
	a20, a21, a22, a23 := m[2], m[6], m[10], m[14]
	a30, a31, a32, a33 := m[3], m[7], m[11], m[15]

	return minors{
		s0: a00*a11 - a10*a01,
		s1: a00*a12 - a10*a02,
		s2: a00*a13 - a10*a03,
		s3: a01*a12 - a11*a02,
		s4: a01*a13 - a11*a03,
		s5: a02*a13 - a12*a03,
		c0: a20*a31 - a30*a21,
		c1: a20*a32 - a30*a22,
		c2: a20*a33 - a30*a23,
		c3: a21*a32 - a31*a22,
		c4: a21*a33 - a31*a23,
		c5: a22*a33 - a32*a23,
	}
}

func (n minors) det() float64 {
	return n.s0*n.c5 - n.s1*n.c4 + n.s2*n.c3 + n.s3*n.c2 - n.s4*n.c1 + n.s5*n.c0
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	return m.minors().det()
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular (det=0); use InverseChecked
// when the caller needs to know.
func (m Mat4) Inverse() Mat4 {
	n := m.minors()
	det := n.det()
	if det == 0 {
		return Identity()
	}
	k := 1 / det

	a00, a01, a02, a03 := m[0], m[4], m[8], m[12]
	a10, a11, a12, a13 := m[1], m[5], m[9], m[13]
	a20, a21, a22, a23 := m[2], m[6], m[10], m[14]
	a30, a31, a32, a33 := m[3], m[7], m[11], m[15]

	var inv Mat4
	inv.Set(0, 0, (a11*n.c5-a12*n.c4+a13*n.c3)*k)
	inv.Set(0, 1, (-a01*n.c5+a02*n.c4-a03*n.c3)*k)
	inv.Set(0, 2, (a31*n.s5-a32*n.s4+a33*n.s3)*k)
	inv.Set(0, 3, (-a21*n.s5+a22*n.s4-a23*n.s3)*k)

	inv.Set(1, 0, (-a10*n.c5+a12*n.c2-a13*n.c1)*k)
	inv.Set(1, 1, (a00*n.c5-a02*n.c2+a03*n.c1)*k)
	inv.Set(1, 2, (-a30*n.s5+a32*n.s2-a33*n.s1)*k)
	inv.Set(1, 3, (a20*n.s5-a22*n.s2+a23*n.s1)*k)

	inv.Set(2, 0, (a10*n.c4-a11*n.c2+a13*n.c0)*k)
	inv.Set(2, 1, (-a00*n.c4+a01*n.c2-a03*n.c0)*k)
	inv.Set(2, 2, (a30*n.s4-a31*n.s2+a33*n.s0)*k)
	inv.Set(2, 3, (-a20*n.s4+a21*n.s2-a23*n.s0)*k)

	inv.Set(3, 0, (-a10*n.c3+a11*n.c1-a12*n.c0)*k)
	inv.Set(3, 1, (a00*n.c3-a01*n.c1+a02*n.c0)*k)
	inv.Set(3, 2, (-a30*n.s3+a31*n.s1-a32*n.s0)*k)
	inv.Set(3, 3, (a20*n.s3-a21*n.s1+a22*n.s0)*k)

	return inv
}

// InverseChecked inverts m through an LU factorization and reports
// singular or badly conditioned input as ErrSingular.
func (m Mat4) InverseChecked() (Mat4, error) {
	a := mat.NewDense(4, 4, nil)
	for row := range 4 {
		for col := range 4 {
			a.Set(row, col, m.Get(row, col))
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return Identity(), fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var out Mat4
	for row := range 4 {
		for col := range 4 {
			out.Set(row, col, inv.At(row, col))
		}
	}
	return out, nil
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Linear returns m with its translation and projective row cleared,
// leaving only the 3x3 linear part.
func (m Mat4) Linear() Mat4 {
	return Mat4{
		m[0], m[1], m[2], 0,
		m[4], m[5], m[6], 0,
		m[8], m[9], m[10], 0,
		0, 0, 0, 1,
	}
}

// IsAffine reports whether the bottom row is (0, 0, 0, 1).
func (m Mat4) IsAffine() bool {
	return m[3] == 0 && m[7] == 0 && m[11] == 0 && m[15] == 1
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
