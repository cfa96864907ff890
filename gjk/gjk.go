// Package gjk implements the Gilbert-Johnson-Keerthi intersection test.
//
// Two convex sets overlap when their Minkowski difference A - B contains the
// origin. GJK never builds that difference: it only asks each set for its
// support point along a direction, and grows a simplex of at most four
// difference points toward the origin until it either encloses it or proves
// it cannot be reached.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxIterations bounds the simplex refinement loop.
const MaxIterations = 32

// Supporter is a convex set in world space, known through its support mapping.
type Supporter interface {
	// Support returns the farthest point of the set along direction.
	Support(direction mgl64.Vec3) mgl64.Vec3
	// Center returns any interior point, used to seed the search direction.
	Center() mgl64.Vec3
}

// Simplex holds 1 to 4 points of the Minkowski difference, the most recent last.
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport returns the support point of A - B along direction:
// support(A, d) - support(B, -d).
func MinkowskiSupport(a, b Supporter, direction mgl64.Vec3) mgl64.Vec3 {
	return a.Support(direction).Sub(b.Support(direction.Mul(-1)))
}

// Intersect reports whether a and b overlap.
//
// On a positive result the simplex is left enclosing the origin, usually as a
// tetrahedron that EPA can expand. Touching contacts may stop with fewer points.
func Intersect(a, b Supporter, simplex *Simplex) bool {
	direction := b.Center().Sub(a.Center())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.set(MinkowskiSupport(a, b, direction))
	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	for range MaxIterations {
		p := MinkowskiSupport(a, b, direction)

		// the new point does not cross the origin: the sets are separated
		if p.Dot(direction) <= 0 {
			return false
		}

		simplex.Points[simplex.Count] = p
		simplex.Count++

		if refine(simplex, &direction) {
			return true
		}
	}

	return false
}

// refine reduces the simplex to its feature closest to the origin and points
// direction at the origin from it. It returns true once the origin is enclosed.
func refine(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return refineLine(simplex, direction)
	case 3:
		return refineTriangle(simplex, direction)
	case 4:
		return refineTetrahedron(simplex, direction)
	}
	return false
}

// refineLine keeps the segment AB or the point A, A being the newest point.
func refineLine(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		simplex.set(a)
		*direction = ao
		return false
	}

	if ab.Dot(ao) <= 0 {
		simplex.set(a)
		*direction = ao
		return false
	}

	perpendicular := ab.Cross(ao).Cross(ab)
	if perpendicular.LenSqr() < 1e-8 {
		// origin on the segment
		return true
	}

	*direction = perpendicular
	return false
}

// refineTriangle keeps an edge through A or the face ABC, wound so that its
// normal faces the origin.
func refineTriangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	abc := ab.Cross(ac)

	// collinear: fall back to the segment AB
	if abc.LenSqr() < 1e-10 {
		simplex.set(b, a)
		return refineLine(simplex, direction)
	}

	if ab.Cross(abc).Dot(ao) > 0 {
		simplex.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	if abc.Cross(ac).Dot(ao) > 0 {
		simplex.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if abc.Dot(ao) > 0 {
		*direction = abc
	} else {
		simplex.set(b, c, a)
		*direction = abc.Mul(-1)
	}
	return false
}

// refineTetrahedron checks the three faces through A, each with its normal
// turned away from the opposite vertex. The origin is enclosed when it lies
// behind all of them.
func refineTetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[3]
	b := simplex.Points[2]
	c := simplex.Points[1]
	d := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	abc := outward(ab.Cross(ac), ad)
	acd := outward(ac.Cross(ad), ab)
	adb := outward(ad.Cross(ab), ac)

	if abc.LenSqr() < 1e-10 || acd.LenSqr() < 1e-10 || adb.LenSqr() < 1e-10 {
		simplex.set(c, b, a)
		return refineTriangle(simplex, direction)
	}

	switch {
	case abc.Dot(ao) > 0:
		simplex.set(c, b, a)
	case acd.Dot(ao) > 0:
		simplex.set(d, c, a)
	case adb.Dot(ao) > 0:
		simplex.set(b, d, a)
	default:
		return true
	}
	return refineTriangle(simplex, direction)
}

// outward flips normal so that it points away from opposite.
func outward(normal, opposite mgl64.Vec3) mgl64.Vec3 {
	if normal.Dot(opposite) > 0 {
		return normal.Mul(-1)
	}
	return normal
}
