package actor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Integrator selects the Euler variant used to advance a body.
type Integrator int

// The zero value is the kinematic integrator.
const (
	// IntegratorKinematic integrates the average of the current and next velocities.
	IntegratorKinematic Integrator = iota
	// IntegratorExplicitEuler integrates the current velocity.
	IntegratorExplicitEuler
	// IntegratorSemiImplicitEuler integrates the next velocity.
	IntegratorSemiImplicitEuler
)

func (i Integrator) String() string {
	switch i {
	case IntegratorExplicitEuler:
		return "explicit"
	case IntegratorSemiImplicitEuler:
		return "semi-implicit"
	case IntegratorKinematic:
		return "kinematic"
	}
	return fmt.Sprintf("Integrator(%d)", int(i))
}

// ParseIntegrator maps a name as returned by String back to its Integrator.
func ParseIntegrator(name string) (Integrator, error) {
	for _, i := range []Integrator{IntegratorKinematic, IntegratorExplicitEuler, IntegratorSemiImplicitEuler} {
		if i.String() == name {
			return i, nil
		}
	}
	return IntegratorKinematic, fmt.Errorf("actor: unknown integrator %q", name)
}

// Integrate advances linear and angular state by dt with the given method.
//
// The orientation follows dq/dt = ½ω·q and is re-normalized afterwards.
// Momentum and angular momentum are refreshed from the new velocities.
func (mb *MotionBody) Integrate(integrator Integrator, dt float64) {
	switch integrator {
	case IntegratorExplicitEuler:
		mb.integrateEulerExplicit(dt)
	case IntegratorSemiImplicitEuler:
		mb.integrateEulerSemiImplicit(dt)
	default:
		mb.integrateEulerKinematic(dt)
	}

	mb.Transform.Rotation = mb.Transform.Rotation.Normalize()
	mb.Transform.InverseRotation = mb.Transform.Rotation.Conjugate()

	mb.Momentum = mb.Velocity.Mul(mb.mass)
	mb.AngularMomentum = mb.WorldInertia.Mul3x1(mb.AngularVelocity)
}

// x(t+dt) = x(t) + v(t)dt
// v(t+dt) = v(t) + a(t)dt
func (mb *MotionBody) integrateEulerExplicit(dt float64) {
	mb.Transform.Position = mb.Transform.Position.Add(mb.Velocity.Mul(dt))
	mb.Velocity = mb.Velocity.Add(mb.Acceleration.Mul(dt))

	mb.rotate(mb.AngularVelocity, dt)
	mb.AngularVelocity = mb.AngularVelocity.Add(mb.AngularAcceleration.Mul(dt))
}

// v(t+dt) = v(t) + a(t)dt
// x(t+dt) = x(t) + v(t+dt)dt
func (mb *MotionBody) integrateEulerSemiImplicit(dt float64) {
	mb.Velocity = mb.Velocity.Add(mb.Acceleration.Mul(dt))
	mb.Transform.Position = mb.Transform.Position.Add(mb.Velocity.Mul(dt))

	mb.AngularVelocity = mb.AngularVelocity.Add(mb.AngularAcceleration.Mul(dt))
	mb.rotate(mb.AngularVelocity, dt)
}

// v(t+dt) = v(t) + a(t)dt
// x(t+dt) = x(t) + ½(v(t) + v(t+dt))dt
func (mb *MotionBody) integrateEulerKinematic(dt float64) {
	velocity := mb.Velocity.Add(mb.Acceleration.Mul(dt))
	mb.Transform.Position = mb.Transform.Position.Add(mb.Velocity.Add(velocity).Mul(0.5 * dt))
	mb.Velocity = velocity

	angularVelocity := mb.AngularVelocity.Add(mb.AngularAcceleration.Mul(dt))
	mb.rotate(mb.AngularVelocity.Add(angularVelocity).Mul(0.5), dt)
	mb.AngularVelocity = angularVelocity
}

// rotate adds the quaternion derivative for omega over dt, without normalizing.
func (mb *MotionBody) rotate(omega mgl64.Vec3, dt float64) {
	if omega.LenSqr() == 0 {
		return
	}

	omegaQuat := mgl64.Quat{V: omega, W: 0}
	qDot := omegaQuat.Mul(mb.Transform.Rotation).Scale(0.5)
	mb.Transform.Rotation = mb.Transform.Rotation.Add(qDot.Scale(dt))
}
