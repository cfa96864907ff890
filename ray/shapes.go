package ray

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TestPlane intersects an infinite plane. A ray parallel to the plane,
// including one lying in it, misses.
func TestPlane(r Ray, center, normal mgl64.Vec3) Hit {
	denominator := r.direction().Dot(normal)
	if math.Abs(denominator) < parallelEpsilon {
		return ResetHit(r)
	}
	t := center.Sub(r.origin()).Dot(normal) / denominator
	return r.hit(t, t)
}

// TestPlaneFinite intersects a rectangle spanned by tangent and bitangent.
func TestPlaneFinite(r Ray, center, tangent, bitangent, normal mgl64.Vec3, halfWidthSq, halfHeightSq float64) Hit {
	hit := TestPlane(r, center, normal)
	if !hit.Hit {
		return hit
	}

	offset := hit.Near.Vec3().Sub(center)
	u, v := offset.Dot(tangent), offset.Dot(bitangent)
	if u*u > halfWidthSq || v*v > halfHeightSq {
		return ResetHit(r)
	}
	return hit
}

// TestDisc intersects a disc lying in the plane through center.
func TestDisc(r Ray, center, normal mgl64.Vec3, radiusSq float64) Hit {
	hit := TestPlane(r, center, normal)
	if !hit.Hit {
		return hit
	}
	if hit.Near.Vec3().Sub(center).LenSqr() > radiusSq {
		return ResetHit(r)
	}
	return hit
}

// TestSphere projects the center offset onto the ray and compares the
// squared distance of the closest approach with the squared radius.
func TestSphere(r Ray, center mgl64.Vec3, radiusSq float64) Hit {
	l := center.Sub(r.origin())
	d := l.Dot(r.direction())
	lSq := l.LenSqr()

	// behind the origin, unless the origin is inside
	if d < 0 && lSq > radiusSq {
		return ResetHit(r)
	}

	hSq := lSq - d*d
	if hSq > radiusSq {
		return ResetHit(r)
	}

	b := math.Sqrt(radiusSq - hSq)
	return r.hit(d-b, d+b)
}

// TestCylinder intersects the side of an infinite cylinder around a unit
// axis through center. Both the ray and the center offset are projected onto
// the plane perpendicular to the axis, giving a quadratic in the parameter.
func TestCylinder(r Ray, center, axis mgl64.Vec3, radiusSq float64) Hit {
	direction := r.direction()
	offset := r.origin().Sub(center)

	a := direction.Sub(axis.Mul(direction.Dot(axis)))
	b := offset.Sub(axis.Mul(offset.Dot(axis)))

	qa := a.LenSqr()
	if qa < parallelEpsilon*parallelEpsilon {
		// along the axis: the side is never crossed
		return ResetHit(r)
	}
	qb := 2 * a.Dot(b)
	qc := b.LenSqr() - radiusSq

	discriminant := qb*qb - 4*qa*qc
	if discriminant < 0 {
		return ResetHit(r)
	}
	s := math.Sqrt(discriminant)
	return r.hit((-qb-s)/(2*qa), (-qb+s)/(2*qa))
}

// TestCylinderFinite keeps the side hits within halfLength of the center
// along the axis and adds the two end caps.
func TestCylinderFinite(r Ray, center, axis mgl64.Vec3, radiusSq, halfLength float64) Hit {
	near, far := math.Inf(1), math.Inf(-1)
	add := func(t float64) {
		near = min(near, t)
		far = max(far, t)
	}

	if side := TestCylinder(r, center, axis, radiusSq); side.Hit {
		for _, t := range [2]float64{side.NearParam, side.FarParam} {
			if height := r.At(t).Vec3().Sub(center).Dot(axis); math.Abs(height) <= halfLength {
				add(t)
			}
		}
	}

	for _, s := range [2]float64{-1, 1} {
		if end := TestDisc(r, center.Add(axis.Mul(s*halfLength)), axis, radiusSq); end.Hit {
			add(end.NearParam)
		}
	}

	if near > far {
		return ResetHit(r)
	}
	return r.hit(near, far)
}

// TestAABB is the slab test. A direction component near zero means the ray
// is parallel to that slab and must already lie between its planes. The hit
// requires a non-empty interval starting at or after the origin.
func TestAABB(r Ray, lower, upper mgl64.Vec3) Hit {
	near, far := math.Inf(-1), math.Inf(1)

	for i := range 3 {
		o, d := r.Origin[i], r.Direction[i]
		if math.Abs(d) < parallelEpsilon {
			if o < lower[i] || o > upper[i] {
				return ResetHit(r)
			}
			continue
		}

		t0, t1 := (lower[i]-o)/d, (upper[i]-o)/d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		near = max(near, t0)
		far = min(far, t1)
		if near > far {
			return ResetHit(r)
		}
	}

	if near < 0 || math.IsInf(near, -1) {
		return ResetHit(r)
	}
	return r.hit(near, far)
}
