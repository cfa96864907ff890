package hull

import (
	"math"

	"github.com/akmonengine/plume/epa"
	"github.com/akmonengine/plume/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// contactTolerance is the distance under which flat shapes and points touch.
const contactTolerance = 1e-6

// parallelTolerance is the squared length under which a cross product of two
// unit edges is treated as zero.
const parallelTolerance = 1e-12

// Collision is the outcome of testing two hulls.
type Collision struct {
	A, B *ConvexHull
	// Colliding is set when the hulls touch or overlap. The fields below are
	// only meaningful then.
	Colliding bool
	// Normal is the unit direction from A toward B.
	Normal mgl64.Vec3
	// Depth estimates how far B must move along Normal to separate.
	Depth float64
	// Contact is an approximate world contact point.
	Contact mgl64.Vec3
}

// Test checks two hulls for contact.
//
// Pairs are ordered by kind before dispatch and the result is mapped back, so
// Test(a, b) and Test(b, a) agree with A and B swapped and the normal negated.
// Closed-form tests cover the point, plane, disc, box and sphere pairs that
// have one; cylinders, meshes and rotated boxes go through GJK and EPA.
func Test(a, b *ConvexHull) (Collision, error) {
	if a == nil || b == nil {
		return Collision{}, ErrNilHull
	}
	if a.Transform == nil || a.InverseTransform == nil || b.Transform == nil || b.InverseTransform == nil {
		return Collision{}, ErrNilTransform
	}

	swapped := a.Kind() > b.Kind()
	first, second := a, b
	if swapped {
		first, second = b, a
	}

	c, err := testOrdered(first, second)
	if err != nil {
		return Collision{}, err
	}

	c.A, c.B = a, b
	if swapped {
		c.Normal = c.Normal.Mul(-1)
	}
	return c, nil
}

// testOrdered expects a.Kind() <= b.Kind().
func testOrdered(a, b *ConvexHull) (Collision, error) {
	switch sa := a.Shape.(type) {
	case Point:
		p := a.Center()
		switch sb := b.Shape.(type) {
		case Point:
			return pointPoint(p, b.Center()), nil
		case Plane:
			return pointRectangle(p, b, sb.halfWidth, sb.halfHeight), nil
		case Disc:
			return pointDisc(p, b, sb), nil
		case Box:
			return pointBox(p, b, sb), nil
		case Sphere:
			return pointSphere(p, b.Center(), sb.radius), nil
		}

	case Plane:
		switch sb := b.Shape.(type) {
		case Box:
			return rectangleBox(a, sa, b, sb), nil
		case Sphere:
			return rectangleSphere(a, sa.halfWidth, sa.halfHeight, b.Center(), sb.radius), nil
		}

	case Disc:
		if sb, ok := b.Shape.(Sphere); ok {
			return discSphere(a, sa, b.Center(), sb.radius), nil
		}

	case Box:
		switch sb := b.Shape.(type) {
		case Box:
			if a.Flags.Has(IsAxisAligned) && b.Flags.Has(IsAxisAligned) {
				return aabbAABB(a.AABB(), b.AABB()), nil
			}
			if !boundsOverlapInFrames(a, b) {
				return Collision{}, nil
			}
		case Sphere:
			return boxSphere(a, sa, b.Center(), sb.radius), nil
		}

	case Sphere:
		if sb, ok := b.Shape.(Sphere); ok {
			return sphereSphere(a.Center(), sa.radius, b.Center(), sb.radius), nil
		}
	}

	return testSupport(a, b)
}

// testSupport runs GJK and EPA on the world support mappings.
func testSupport(a, b *ConvexHull) (Collision, error) {
	if !a.AABB().Overlaps(b.AABB()) {
		return Collision{}, nil
	}

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	if !gjk.Intersect(a, b, simplex) {
		return Collision{}, nil
	}

	result, err := epa.Penetration(a, b, simplex)
	if err != nil {
		return Collision{}, err
	}

	return Collision{
		Colliding: true,
		Normal:    result.Normal,
		Depth:     result.Depth,
		Contact:   result.Contact(),
	}, nil
}

// boundsOverlapInFrames tests the local bounds of each hull against the
// other hull mapped into its frame. Both must overlap for the hulls to.
func boundsOverlapInFrames(a, b *ConvexHull) bool {
	bInA := b.LocalBounds().Transform(a.InverseTransform.Mul4(*b.Transform))
	if !a.LocalBounds().Overlaps(bInA) {
		return false
	}
	aInB := a.LocalBounds().Transform(b.InverseTransform.Mul4(*a.Transform))
	return b.LocalBounds().Overlaps(aInB)
}

func hit(normal mgl64.Vec3, depth float64, contact mgl64.Vec3) Collision {
	return Collision{Colliding: true, Normal: normal, Depth: depth, Contact: contact}
}

// unitOr normalizes v, or returns fallback for a zero vector.
func unitOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	lenSq := v.LenSqr()
	if lenSq < 1e-24 {
		return fallback
	}
	return v.Mul(1 / math.Sqrt(lenSq))
}

var up = mgl64.Vec3{0, 1, 0}

func pointPoint(a, b mgl64.Vec3) Collision {
	d := b.Sub(a)
	if d.LenSqr() > contactTolerance*contactTolerance {
		return Collision{}
	}
	return hit(unitOr(d, up), 0, a)
}

func pointSphere(p, center mgl64.Vec3, radius float64) Collision {
	d := center.Sub(p)
	distSq := d.LenSqr()
	if distSq > radius*radius {
		return Collision{}
	}
	dist := math.Sqrt(distSq)
	return hit(unitOr(d, up), radius-dist, p)
}

// pointBox is the point-AABB test in the box frame.
func pointBox(p mgl64.Vec3, b *ConvexHull, box Box) Collision {
	local := b.ToLocal(p)
	bounds := AABB{Min: box.half.Mul(-1), Max: box.half}
	if !bounds.ContainsPoint(local) {
		return Collision{}
	}

	// exit through the nearest face
	axis, depth, sign := 0, math.MaxFloat64, 1.0
	for i := range 3 {
		if d := box.half[i] - local[i]; d < depth {
			axis, depth, sign = i, d, 1
		}
		if d := box.half[i] + local[i]; d < depth {
			axis, depth, sign = i, d, -1
		}
	}
	var exit mgl64.Vec3
	exit[axis] = sign

	// the point leaves through +exit, so B lies along -exit from it
	normal := b.Transform.Mul4x1(exit.Mul(-1).Vec4(0)).Vec3()
	return hit(normal, depth, p)
}

// planeLocal returns the offset of p from the hull center split along the
// tangent, bitangent and normal axes.
func planeLocal(h *ConvexHull, p mgl64.Vec3) (u, v, w float64) {
	tangent, bitangent, normal := h.Basis()
	d := p.Sub(h.Center())
	return d.Dot(tangent), d.Dot(bitangent), d.Dot(normal)
}

// pointRectangle: B is a finite plane.
func pointRectangle(p mgl64.Vec3, plane *ConvexHull, halfWidth, halfHeight float64) Collision {
	u, v, w := planeLocal(plane, p)
	if math.Abs(w) > contactTolerance || math.Abs(u) > halfWidth || math.Abs(v) > halfHeight {
		return Collision{}
	}
	_, _, normal := plane.Basis()
	return hit(normal.Mul(-sign(w)), 0, p)
}

// pointDisc: B is a disc.
func pointDisc(p mgl64.Vec3, disc *ConvexHull, shape Disc) Collision {
	u, v, w := planeLocal(disc, p)
	if math.Abs(w) > contactTolerance || u*u+v*v > shape.radiusSq {
		return Collision{}
	}
	_, _, normal := disc.Basis()
	return hit(normal.Mul(-sign(w)), 0, p)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// rectangleSphere finds the closest point of the rectangle to the sphere
// center and compares its squared distance with the squared radius.
func rectangleSphere(plane *ConvexHull, halfWidth, halfHeight float64, center mgl64.Vec3, radius float64) Collision {
	tangent, bitangent, normal := plane.Basis()
	u, v, w := planeLocal(plane, center)

	u = math.Max(-halfWidth, math.Min(halfWidth, u))
	v = math.Max(-halfHeight, math.Min(halfHeight, v))
	closest := plane.Center().Add(tangent.Mul(u)).Add(bitangent.Mul(v))

	return closestPointSphere(closest, center, radius, normal.Mul(sign(w)))
}

// discSphere clamps the in-plane offset to the radius instead of the half extents.
func discSphere(disc *ConvexHull, shape Disc, center mgl64.Vec3, radius float64) Collision {
	tangent, bitangent, normal := disc.Basis()
	u, v, w := planeLocal(disc, center)

	if rSq := u*u + v*v; rSq > shape.radiusSq {
		scale := shape.radius / math.Sqrt(rSq)
		u, v = u*scale, v*scale
	}
	closest := disc.Center().Add(tangent.Mul(u)).Add(bitangent.Mul(v))

	return closestPointSphere(closest, center, radius, normal.Mul(sign(w)))
}

// closestPointSphere: A's closest point to the sphere center against the
// sphere radius. fallback orients a sphere centered on A's surface.
func closestPointSphere(closest, center mgl64.Vec3, radius float64, fallback mgl64.Vec3) Collision {
	d := center.Sub(closest)
	distSq := d.LenSqr()
	if distSq > radius*radius {
		return Collision{}
	}
	dist := math.Sqrt(distSq)
	return hit(unitOr(d, fallback), radius-dist, closest)
}

// rectangleBox is a separating axis test in the box frame: the plane
// normal, the plane axes, the box axes and the cross products of the plane
// edges with the box edges.
func rectangleBox(plane *ConvexHull, rect Plane, box *ConvexHull, shape Box) Collision {
	toBox := box.InverseTransform.Mul4(*plane.Transform)
	axis := int(plane.NormalAxis) % 3
	tangent := toBox.Col((axis + 1) % 3).Vec3()
	bitangent := toBox.Col((axis + 2) % 3).Vec3()
	normal := toBox.Col(axis).Vec3()
	// plane center relative to the box center, in the box frame
	center := toBox.Col(3).Vec3()

	extent := func(dir mgl64.Vec3) float64 {
		return shape.half[0]*math.Abs(dir[0]) + shape.half[1]*math.Abs(dir[1]) + shape.half[2]*math.Abs(dir[2])
	}

	distance := -center.Dot(normal)
	reach := extent(normal)
	if math.Abs(distance) > reach {
		return Collision{}
	}
	if math.Abs(center.Dot(tangent)) > rect.halfWidth+extent(tangent) ||
		math.Abs(center.Dot(bitangent)) > rect.halfHeight+extent(bitangent) {
		return Collision{}
	}
	rectExtent := func(dir mgl64.Vec3) float64 {
		return rect.halfWidth*math.Abs(tangent.Dot(dir)) + rect.halfHeight*math.Abs(bitangent.Dot(dir))
	}
	for i := range 3 {
		var boxAxis mgl64.Vec3
		boxAxis[i] = 1
		if math.Abs(center[i]) > shape.half[i]+rectExtent(boxAxis) {
			return Collision{}
		}
		for _, edge := range [2]mgl64.Vec3{tangent, bitangent} {
			crossed := edge.Cross(boxAxis)
			if crossed.LenSqr() < parallelTolerance {
				continue
			}
			if math.Abs(center.Dot(crossed)) > extent(crossed)+rectExtent(crossed) {
				return Collision{}
			}
		}
	}

	_, _, worldNormal := plane.Basis()
	worldNormal = worldNormal.Mul(sign(distance))
	// deepest box point, pushed back onto the plane
	depth := reach - math.Abs(distance)
	contact := box.Support(worldNormal.Mul(-1)).Add(worldNormal.Mul(depth))
	return hit(worldNormal, depth, contact)
}

func sphereSphere(ca mgl64.Vec3, ra float64, cb mgl64.Vec3, rb float64) Collision {
	d := cb.Sub(ca)
	distSq := d.LenSqr()
	sum := ra + rb
	if distSq > sum*sum {
		return Collision{}
	}

	dist := math.Sqrt(distSq)
	normal := unitOr(d, up)
	return hit(normal, sum-dist, ca.Add(normal.Mul(ra-(sum-dist)*0.5)))
}

// boxSphere is the sphere-AABB test in the box frame.
func boxSphere(box *ConvexHull, shape Box, center mgl64.Vec3, radius float64) Collision {
	local := box.ToLocal(center)

	var closest mgl64.Vec3
	inside := true
	for i := range 3 {
		closest[i] = math.Max(-shape.half[i], math.Min(shape.half[i], local[i]))
		if closest[i] != local[i] {
			inside = false
		}
	}

	if !inside {
		d := local.Sub(closest)
		distSq := d.LenSqr()
		if distSq > radius*radius {
			return Collision{}
		}
		dist := math.Sqrt(distSq)
		normal := box.Transform.Mul4x1(d.Mul(1 / dist).Vec4(0)).Vec3()
		return hit(normal, radius-dist, box.ToWorld(closest))
	}

	// center inside: leave through the nearest face
	axis, faceDistance, s := 0, math.MaxFloat64, 1.0
	for i := range 3 {
		if d := shape.half[i] - local[i]; d < faceDistance {
			axis, faceDistance, s = i, d, 1
		}
		if d := shape.half[i] + local[i]; d < faceDistance {
			axis, faceDistance, s = i, d, -1
		}
	}
	var face mgl64.Vec3
	face[axis] = s
	normal := box.Transform.Mul4x1(face.Vec4(0)).Vec3()
	surface := local
	surface[axis] = s * shape.half[axis]
	return hit(normal, radius+faceDistance, box.ToWorld(surface))
}

func aabbAABB(a, b AABB) Collision {
	normal, depth, ok := a.Penetration(b)
	if !ok {
		return Collision{}
	}
	overlap := AABB{
		Min: mgl64.Vec3{math.Max(a.Min[0], b.Min[0]), math.Max(a.Min[1], b.Min[1]), math.Max(a.Min[2], b.Min[2])},
		Max: mgl64.Vec3{math.Min(a.Max[0], b.Max[0]), math.Min(a.Max[1], b.Max[1]), math.Min(a.Max[2], b.Max[2])},
	}
	return hit(normal, depth, overlap.Center())
}
