// Package ray builds rays and intersects them with planes, discs, spheres,
// cylinders, boxes and convex hulls.
//
// Every test returns a Hit whose parameters are distances along the unit
// ray direction. A test may report hits behind the origin; Hit.Validate
// rejects those.
package ray

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrZeroDirection is returned when a ray would have no direction.
var ErrZeroDirection = errors.New("ray: zero direction")

// parallelEpsilon is the smallest |cos| between a ray and a surface normal,
// or the smallest direction component, that is not treated as parallel.
const parallelEpsilon = 1e-9

// Ray is a half-line in homogeneous coordinates: Origin has w = 1 and
// Direction has w = 0 and unit length.
type Ray struct {
	Origin    mgl64.Vec4
	Direction mgl64.Vec4
}

// Hit holds the entry and exit points of a ray through a shape. For flat
// shapes both points are the same.
type Hit struct {
	Near, Far           mgl64.Vec4
	NearParam, FarParam float64
	Hit                 bool
}

// New returns a ray starting at origin along the normalized direction.
func New(origin, direction mgl64.Vec3) (Ray, error) {
	if direction.LenSqr() == 0 {
		return Ray{}, ErrZeroDirection
	}
	return Ray{
		Origin:    origin.Vec4(1),
		Direction: direction.Normalize().Vec4(0),
	}, nil
}

// FromSegment returns a ray from start through end.
func FromSegment(start, end mgl64.Vec3) (Ray, error) {
	return New(start, end.Sub(start))
}

// Unprojected returns the view-space ray through a normalized device
// coordinate. The origin is the eye; the direction is the NDC point mapped
// through the inverse projection, with the perspective divide undone.
func Unprojected(ndc mgl64.Vec3, inverseProjection mgl64.Mat4) (Ray, error) {
	p := inverseProjection.Mul4x1(ndc.Vec4(1))
	if p.W() == 0 {
		return Ray{}, ErrZeroDirection
	}
	return New(mgl64.Vec3{}, p.Vec3().Mul(1/p.W()))
}

// Transform maps the origin as a point and the direction as a vector.
func (r Ray) Transform(m mgl64.Mat4) Ray {
	return Ray{
		Origin:    m.Mul4x1(r.Origin),
		Direction: m.Mul4x1(r.Direction),
	}
}

// At returns the point at parameter t.
func (r Ray) At(t float64) mgl64.Vec4 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ResetHit returns a miss with both hit points at the ray origin.
func ResetHit(r Ray) Hit {
	return Hit{Near: r.Origin, Far: r.Origin}
}

// Validate lowers the hit flag when the near parameter is behind the origin
// and returns the flag.
func (h *Hit) Validate() bool {
	if h.Hit && h.NearParam < 0 {
		h.Hit = false
	}
	return h.Hit
}

func (r Ray) hit(near, far float64) Hit {
	return Hit{
		Near:      r.At(near),
		Far:       r.At(far),
		NearParam: near,
		FarParam:  far,
		Hit:       true,
	}
}

func (r Ray) origin() mgl64.Vec3    { return r.Origin.Vec3() }
func (r Ray) direction() mgl64.Vec3 { return r.Direction.Vec3() }
