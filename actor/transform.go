package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and orientation in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// Matrix returns the world matrix T * R.
func (t Transform) Matrix() mgl64.Mat4 {
	m := t.Rotation.Mat4()
	m.SetCol(3, t.Position.Vec4(1))
	return m
}

// InverseMatrix returns the inverse of Matrix without a general inversion:
// the rotation block is orthonormal, so its inverse is its transpose.
func (t Transform) InverseMatrix() mgl64.Mat4 {
	rt := t.Rotation.Mat4().Mat3().Transpose()
	translation := rt.Mul3x1(t.Position).Mul(-1)

	m := rt.Mat4()
	m.SetCol(3, translation.Vec4(1))
	return m
}

// TransformPoint maps a point through m (w = 1).
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection maps a direction through m, ignoring translation (w = 0).
func TransformDirection(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}
