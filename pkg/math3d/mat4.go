package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Matrices act on column vectors, so a.Mul(b) applied to v transforms v by b
// first and then by a.
type Mat4 [16]float64

// Axis selects a rotation axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a matrix that adds dx, dy and dz to a vector's x, y and z.
// The result is only a translation when the vector's W is 1; callers must
// normalize W before translating.
func Translate(dx, dy, dz float64) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		dx, dy, dz, 1,
	}
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

// Rotation creates a rotation of angle radians about the given axis.
// Unknown axes yield the identity.
func Rotation(axis Axis, angle float64) Mat4 {
	switch axis {
	case AxisX:
		return RotateX(angle)
	case AxisY:
		return RotateY(angle)
	case AxisZ:
		return RotateZ(angle)
	default:
		return Identity()
	}
}

// Projection creates a perspective projection matrix.
//
// The resulting matrix maps a point (x, y, z, 1) to
//
//	(aspect*f*x, f*y, q*z - near*q, z)
//
// with f = 1/tan(fov/2) and q = far/(far-near). The output W is the input Z,
// which is what Vec4.PerspectiveDivide divides by. After the divide, points
// on the near plane have z = 0 and points on the far plane have z = 1.
func Projection(fov, aspect, near, far float64) (Mat4, error) {
	if far == near {
		return Mat4{}, &DomainError{Op: "projection", Msg: "far and near planes coincide"}
	}
	f := 1.0 / math.Tan(fov/2)
	q := far / (far - near)
	if !finite(f) || !finite(q) || !finite(aspect*f) {
		return Mat4{}, &DomainError{Op: "projection", Msg: "non-finite matrix entry"}
	}

	var m Mat4
	m.Set(0, 0, aspect*f)
	m.Set(1, 1, f)
	m.Set(2, 2, q)
	m.Set(2, 3, -near*q)
	m.Set(3, 2, 1)
	return m, nil
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

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
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

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
