// Package force implements force generators.
//
// Every function is pure: it maps physical parameters to a force vector (or a
// coefficient) and never touches a body. Degenerate inputs, such as a zero
// velocity where a direction is needed, produce the zero vector.
package force

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// StandardGravity is the standard acceleration due to gravity (m/s²).
const StandardGravity = 9.80665

// Gravity returns the weight of a body in freefall: F = m * g * (-up).
// A zero mass gives a zero force.
func Gravity(unitUpward mgl64.Vec3, mass float64) mgl64.Vec3 {
	if mass == 0 {
		return mgl64.Vec3{}
	}
	return unitUpward.Mul(-mass * StandardGravity)
}

// Normal returns the normal force of a surface against gravity: the negated
// projection of gravity onto the surface normal.
func Normal(gravity, unitNormal mgl64.Vec3) mgl64.Vec3 {
	return unitNormal.Mul(-gravity.Dot(unitNormal))
}

// Sliding returns the net force along a frictionless incline.
func Sliding(gravity, normal mgl64.Vec3) mgl64.Vec3 {
	return gravity.Add(normal)
}

// FrictionStatic returns the static friction against an opposing force.
//
// While the opposing force stays under the limit k*|Fn| the friction cancels
// it exactly. Past the limit the body is about to slip and the friction is
// the limit itself, oriented against the opposing force.
func FrictionStatic(normal, opposing mgl64.Vec3, coeffStatic float64) mgl64.Vec3 {
	opposingSq := opposing.LenSqr()
	if opposingSq == 0 {
		return mgl64.Vec3{}
	}

	limit := coeffStatic * normal.Len()
	if opposingSq < limit*limit {
		return opposing.Mul(-1)
	}
	return opposing.Mul(-limit / math.Sqrt(opposingSq))
}

// FrictionKinetic returns the friction of a moving body: magnitude k*|Fn|
// against the direction of travel.
func FrictionKinetic(normal, velocity mgl64.Vec3, coeffKinetic float64) mgl64.Vec3 {
	speedSq := velocity.LenSqr()
	if speedSq == 0 {
		return mgl64.Vec3{}
	}
	return velocity.Mul(-coeffKinetic * normal.Len() / math.Sqrt(speedSq))
}

// Drag returns the drag through a fluid: F = (p * u² * A * C) / 2, against
// the velocity of the body relative to the fluid.
func Drag(objectVelocity, fluidVelocity mgl64.Vec3, fluidDensity, area, coeffDrag float64) mgl64.Vec3 {
	relative := objectVelocity.Sub(fluidVelocity)
	speedSq := relative.LenSqr()
	if speedSq == 0 {
		return mgl64.Vec3{}
	}

	magnitude := 0.5 * fluidDensity * speedSq * area * coeffDrag
	return relative.Mul(-magnitude / math.Sqrt(speedSq))
}

// Spring returns the tension of a spring using Hooke's law: F = -k(L - L0),
// along the displacement from the anchor. A stretched spring pulls toward the
// anchor, a compressed one pushes away from it.
func Spring(position, anchor mgl64.Vec3, restLength, coeffSpring float64) mgl64.Vec3 {
	displacement := position.Sub(anchor)
	length := displacement.Len()
	if length == 0 {
		return mgl64.Vec3{}
	}

	tension := -coeffSpring * (length - restLength)
	return displacement.Mul(tension / length)
}

// DampingLinear returns a simple linear damper: F = -c * v.
func DampingLinear(velocity mgl64.Vec3, coeffDamping float64) mgl64.Vec3 {
	return velocity.Mul(-coeffDamping)
}

// CriticalDamping returns the damping coefficient of a spring-mass system at
// which oscillation stops without overshoot.
//
// A damped oscillator follows a quadratic whose discriminant decides the
// regime:
//
//	c² - 4mk > 0 overdamped
//	c² - 4mk = 0 critically damped
//	c² - 4mk < 0 underdamped
func CriticalDamping(mass, coeffSpring float64) float64 {
	return (mass + mass) * coeffSpring
}
