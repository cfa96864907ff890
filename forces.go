package plume

import (
	"math"

	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/force"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultUp is the upward direction used when a ForceConfig leaves Up unset.
var DefaultUp = mgl64.Vec3{0, 0, 1}

// restingSpeed is the speed under which a body on a slope counts as still.
const restingSpeed = 1e-4

// ForceConfig wires force generators to one body. Every generator is
// optional; the zero value applies nothing.
type ForceConfig struct {
	// Up is the unit upward direction, DefaultUp when zero.
	Up mgl64.Vec3
	// Gravity applies the body's weight. A body on a Slope gets the sliding
	// force instead, which already includes gravity.
	Gravity bool
	Slope   *Slope
	Drag    *Drag
	Spring  *Spring
	// Damping is a linear damping coefficient, off when zero.
	Damping float64
	// Force and Torque are injected every tick.
	Force  mgl64.Vec3
	Torque mgl64.Vec3
	// Orbit drives the position directly, for bodies moved from outside.
	Orbit *Orbit
}

// Slope is a surface the body rests on.
type Slope struct {
	Normal          mgl64.Vec3
	StaticFriction  float64
	KineticFriction float64
}

// Drag is a fluid the body moves through.
type Drag struct {
	FluidVelocity mgl64.Vec3
	Density       float64
	Area          float64
	Coefficient   float64
}

// Spring ties the body to a fixed anchor.
type Spring struct {
	Anchor     mgl64.Vec3
	RestLength float64
	Stiffness  float64
	// Damping is a linear damping coefficient on the spring. Critical
	// overrides it with the critical damping of the body's mass.
	Damping  float64
	Critical bool
}

// Orbit is a circular path around Center in the plane perpendicular to Up.
type Orbit struct {
	Center mgl64.Vec3
	Radius float64
	// Period is the duration of one revolution in seconds. A zero period
	// holds the body at the start of the path.
	Period float64
}

func (fc *ForceConfig) up() mgl64.Vec3 {
	if fc.Up.LenSqr() == 0 {
		return DefaultUp
	}
	return fc.Up.Normalize()
}

// apply accumulates the configured forces and torques on body.
func (fc *ForceConfig) apply(body *actor.MotionBody) {
	up := fc.up()
	gravity := force.Gravity(up, body.Mass())

	if s := fc.Slope; s != nil {
		normal := force.Normal(gravity, unitOr(s.Normal, up))
		sliding := force.Sliding(gravity, normal)
		body.ApplyForceAtCenter(sliding)

		if body.IsMoving(restingSpeed) {
			body.ApplyForceAtCenter(force.FrictionKinetic(normal, body.Velocity, s.KineticFriction))
		} else {
			body.ApplyForceAtCenter(force.FrictionStatic(normal, sliding.Add(fc.Force), s.StaticFriction))
		}
	} else if fc.Gravity {
		body.ApplyForceAtCenter(gravity)
	}

	if d := fc.Drag; d != nil {
		body.ApplyForceAtCenter(force.Drag(body.Velocity, d.FluidVelocity, d.Density, d.Area, d.Coefficient))
	}

	if s := fc.Spring; s != nil {
		body.ApplyForceAtCenter(force.Spring(body.Transform.Position, s.Anchor, s.RestLength, s.Stiffness))

		damping := s.Damping
		if s.Critical {
			damping = force.CriticalDamping(body.Mass(), s.Stiffness)
		}
		if damping > 0 {
			body.ApplyForceAtCenter(force.DampingLinear(body.Velocity, damping))
		}
	}

	if fc.Damping > 0 {
		body.ApplyForceAtCenter(force.DampingLinear(body.Velocity, fc.Damping))
	}

	body.ApplyForceAtCenter(fc.Force)
	body.ApplyTorque(fc.Torque)
}

// place moves body along its orbit to where it is at elapsed seconds.
func (o *Orbit) place(body *actor.MotionBody, up mgl64.Vec3, elapsed float64) {
	tangent, bitangent := perpendicular(up)

	angle, speed := 0.0, 0.0
	if o.Period > 0 {
		speed = 2 * math.Pi / o.Period
		angle = speed * elapsed
	}
	sin, cos := math.Sincos(angle)

	body.Transform.Position = o.Center.Add(tangent.Mul(o.Radius * cos)).Add(bitangent.Mul(o.Radius * sin))
	body.Velocity = bitangent.Mul(cos).Sub(tangent.Mul(sin)).Mul(o.Radius * speed)
}

// perpendicular returns two unit vectors completing up to a right-handed basis.
func perpendicular(up mgl64.Vec3) (tangent, bitangent mgl64.Vec3) {
	reference := mgl64.Vec3{1, 0, 0}
	if math.Abs(up.X()) > 0.9 {
		reference = mgl64.Vec3{0, 1, 0}
	}
	tangent = reference.Sub(up.Mul(reference.Dot(up))).Normalize()
	return tangent, up.Cross(tangent)
}

func unitOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	if v.LenSqr() == 0 {
		return fallback
	}
	return v.Normalize()
}
