package actor

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNegativeMass is returned by SetMass for a mass below zero.
	ErrNegativeMass = errors.New("actor: negative mass")
	// ErrLengthMismatch is returned when influence and mass lists differ in length.
	ErrLengthMismatch = errors.New("actor: influence and mass lists differ in length")
	// ErrZeroTotalMass is returned when a center of mass is requested for no mass at all.
	ErrZeroTotalMass = errors.New("actor: zero total mass")
	// ErrSingularTensor is returned when an inertia tensor cannot be inverted.
	ErrSingularTensor = errors.New("actor: singular inertia tensor")
	// ErrInvalidAxis is returned for an Axis other than AxisX, AxisY or AxisZ.
	ErrInvalidAxis = errors.New("actor: invalid axis")
)

// MotionBody is a particle or rigid body: linear and angular state plus the
// mass properties that relate forces to motion.
//
// A body with zero mass is immovable: forces and torques still accumulate,
// but converting them yields no acceleration, so the body only moves when its
// state is driven from outside.
type MotionBody struct {
	// Spatial properties. Transform.Rotation is the orientation.
	Transform Transform
	// World matrix and its inverse, refreshed by UpdateTransform.
	Matrix        mgl64.Mat4
	InverseMatrix mgl64.Mat4

	// Linear motion
	Velocity     mgl64.Vec3 // m/s
	Acceleration mgl64.Vec3 // m/s²
	Momentum     mgl64.Vec3 // kg⋅m/s
	Force        mgl64.Vec3 // accumulated this tick, N

	// Angular motion
	AngularVelocity     mgl64.Vec3 // rad/s
	AngularAcceleration mgl64.Vec3 // rad/s²
	AngularMomentum     mgl64.Vec3
	Torque              mgl64.Vec3 // accumulated this tick, N⋅m

	mass        float64
	inverseMass float64

	LocalCenterOfMass mgl64.Vec3
	WorldCenterOfMass mgl64.Vec3

	// Inertia
	LocalInertia        mgl64.Mat3
	LocalInverseInertia mgl64.Mat3
	WorldInertia        mgl64.Mat3
	WorldInverseInertia mgl64.Mat3
}

// NewMotionBody returns a reset body placed at position.
func NewMotionBody(position mgl64.Vec3) *MotionBody {
	mb := &MotionBody{}
	mb.Reset()
	mb.Transform.Position = position
	mb.UpdateTransform()
	return mb
}

// Reset zeroes every kinematic and dynamic field. The orientation is the
// identity and the mass is zero.
func (mb *MotionBody) Reset() {
	*mb = MotionBody{
		Transform:     NewTransform(),
		Matrix:        mgl64.Ident4(),
		InverseMatrix: mgl64.Ident4(),
	}
}

// Mass returns the mass of the body in kg.
func (mb *MotionBody) Mass() float64 {
	return mb.mass
}

// InverseMass returns 1/mass, or 0 for an immovable body.
func (mb *MotionBody) InverseMass() float64 {
	return mb.inverseMass
}

// SetMass sets the mass and its inverse. A zero mass makes the body immovable.
func (mb *MotionBody) SetMass(mass float64) error {
	if mass < 0 {
		return ErrNegativeMass
	}

	mb.mass = mass
	if mass > 0 {
		mb.inverseMass = 1.0 / mass
	} else {
		mb.inverseMass = 0
	}
	return nil
}

// IsMoving reports whether the linear speed exceeds tolerance.
func (mb *MotionBody) IsMoving(tolerance float64) bool {
	return mb.Velocity.LenSqr() > tolerance*tolerance
}

// IsRotating reports whether the angular speed exceeds tolerance.
func (mb *MotionBody) IsRotating(tolerance float64) bool {
	return mb.AngularVelocity.LenSqr() > tolerance*tolerance
}

// ApplyForceAtCenter accumulates a force through the center of mass.
func (mb *MotionBody) ApplyForceAtCenter(force mgl64.Vec3) {
	mb.Force = mb.Force.Add(force)
}

// ApplyForceAtPoint accumulates a force applied at a world location, along
// with its torque about the world center of mass: arm x F.
func (mb *MotionBody) ApplyForceAtPoint(force, worldPoint mgl64.Vec3) {
	mb.Force = mb.Force.Add(force)

	arm := worldPoint.Sub(mb.WorldCenterOfMass)
	mb.Torque = mb.Torque.Add(arm.Cross(force))
}

// ApplyTorque accumulates a pure torque.
func (mb *MotionBody) ApplyTorque(torque mgl64.Vec3) {
	mb.Torque = mb.Torque.Add(torque)
}

// ConvertForce converts the accumulated force to acceleration: a = F / m.
func (mb *MotionBody) ConvertForce() {
	mb.Acceleration = mb.Force.Mul(mb.inverseMass)
}

// ConvertTorque converts the accumulated torque to angular acceleration:
// alpha = I_world^-1 * torque.
func (mb *MotionBody) ConvertTorque() {
	if mb.inverseMass == 0 {
		mb.AngularAcceleration = mgl64.Vec3{}
		return
	}
	mb.AngularAcceleration = mb.WorldInverseInertia.Mul3x1(mb.Torque)
}

// ResetForce clears the force accumulator.
func (mb *MotionBody) ResetForce() {
	mb.Force = mgl64.Vec3{}
}

// ResetTorque clears the torque accumulator.
func (mb *MotionBody) ResetTorque() {
	mb.Torque = mgl64.Vec3{}
}

// UpdateTransform recomputes the world matrix and its inverse from the
// current position and orientation.
func (mb *MotionBody) UpdateTransform() {
	mb.Transform.InverseRotation = mb.Transform.Rotation.Conjugate()
	mb.Matrix = mb.Transform.Matrix()
	mb.InverseMatrix = mb.Transform.InverseMatrix()
}
