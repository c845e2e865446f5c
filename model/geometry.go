package model

import (
	"fmt"
	"math"
)

// Vector3 represents a 3D vector
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Vec3 creates a vector from its components
func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Zero is the zero vector
var Zero = Vector3{}

// Add returns v + other
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Scale returns v multiplied by s
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Length returns the Euclidean length of v
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// ApproxEqual reports whether every component of v is within eps of other
func (v Vector3) ApproxEqual(other Vector3, eps float64) bool {
	return math.Abs(v.X-other.X) <= eps &&
		math.Abs(v.Y-other.Y) <= eps &&
		math.Abs(v.Z-other.Z) <= eps
}

// String returns the vector as "(x, y, z)"
func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Matrix3 is a row-major 3x3 matrix. M[row][col].
type Matrix3 [3][3]float64

// Identity3 returns the identity matrix
func Identity3() Matrix3 {
	return Matrix3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// RotationX returns the rotation matrix for angle radians about the X axis
func RotationX(angle float64) Matrix3 {
	s, c := math.Sincos(angle)
	return Matrix3{
		{1, 0, 0},
		{0, c, -s},
		{0, s, c},
	}
}

// RotationY returns the rotation matrix for angle radians about the Y axis
func RotationY(angle float64) Matrix3 {
	s, c := math.Sincos(angle)
	return Matrix3{
		{c, 0, s},
		{0, 1, 0},
		{-s, 0, c},
	}
}

// RotationZ returns the rotation matrix for angle radians about the Z axis
func RotationZ(angle float64) Matrix3 {
	s, c := math.Sincos(angle)
	return Matrix3{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}
}

// Mul returns m * other
func (m Matrix3) Mul(other Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return out
}

// Apply returns m * v
func (m Matrix3) Apply(v Vector3) Vector3 {
	return Vector3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// ApproxEqual reports whether every element of m is within eps of other
func (m Matrix3) ApproxEqual(other Matrix3, eps float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-other[i][j]) > eps {
				return false
			}
		}
	}
	return true
}

// EulerXYZ returns the matrix for Euler angles in XYZ order, i.e. the X
// rotation is applied first in world space: Rz * Ry * Rx.
func EulerXYZ(e Vector3) Matrix3 {
	return RotationZ(e.Z).Mul(RotationY(e.Y)).Mul(RotationX(e.X))
}

// ToEulerXYZ decomposes a pure rotation matrix into XYZ Euler angles such
// that EulerXYZ(m.ToEulerXYZ()) reproduces m. Of the two valid solutions the
// one with the smaller total magnitude is returned.
func (m Matrix3) ToEulerXYZ() Vector3 {
	cy := math.Hypot(m[0][0], m[1][0])

	if cy <= 16*epsilon32 {
		// Gimbal lock: X and Z rotate about the same axis, fold it all into X.
		return Vector3{
			X: math.Atan2(-m[1][2], m[1][1]),
			Y: math.Atan2(-m[2][0], cy),
			Z: 0,
		}
	}

	a := Vector3{
		X: math.Atan2(m[2][1], m[2][2]),
		Y: math.Atan2(-m[2][0], cy),
		Z: math.Atan2(m[1][0], m[0][0]),
	}
	b := Vector3{
		X: math.Atan2(-m[2][1], -m[2][2]),
		Y: math.Atan2(-m[2][0], -cy),
		Z: math.Atan2(-m[1][0], -m[0][0]),
	}

	if math.Abs(a.X)+math.Abs(a.Y)+math.Abs(a.Z) > math.Abs(b.X)+math.Abs(b.Y)+math.Abs(b.Z) {
		return b
	}
	return a
}

// epsilon32 matches the single precision threshold viewers use when
// deciding a rotation is gimbal locked.
const epsilon32 = 1.1920929e-07
