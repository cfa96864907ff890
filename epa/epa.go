// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA runs after GJK reports an overlap. It grows a polytope inside the
// Minkowski difference A - B, starting from the GJK simplex, until the face
// closest to the origin is a face of the difference itself. That face gives
// the minimum translation: its normal and its distance to the origin.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"math"

	"github.com/akmonengine/plume/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations bounds the polytope expansion. Past it the closest face
	// found so far is the result, a lower bound of the depth.
	MaxIterations = 64

	// ConvergenceTolerance stops the expansion once a new support point
	// improves the closest face distance by less than this.
	ConvergenceTolerance = 0.001

	// NormalSnapThreshold clamps nearly-zero normal components to exactly zero.
	NormalSnapThreshold = 1e-8

	degenerateTolerance = 1e-10
)

// Result describes the overlap of A and B.
type Result struct {
	// Normal is the unit direction from A toward B along which B must move
	// by Depth to separate the shapes.
	Normal mgl64.Vec3
	Depth  float64
	// PointA and PointB are the deepest points of each shape into the other.
	PointA mgl64.Vec3
	PointB mgl64.Vec3
}

// Contact returns the midpoint between the two deepest points.
func (r Result) Contact() mgl64.Vec3 {
	return r.PointA.Add(r.PointB).Mul(0.5)
}

// Penetration computes the overlap of a and b from the simplex left by a
// positive gjk.Intersect. A simplex with fewer than four points is first
// completed with extra support points. When the difference is flat, as for
// two coplanar discs, the shapes are reported touching with zero depth.
// Curved or nearly flat differences may not converge within MaxIterations;
// the closest face reached is returned then.
func Penetration(a, b gjk.Supporter, simplex *gjk.Simplex) (Result, error) {
	if !completeSimplex(a, b, simplex) {
		return touching(a, b), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()
	builder.BuildInitialFaces(simplex)

	var best *Face
	for range MaxIterations {
		closest := builder.FindClosestFaceIndex()
		if closest < 0 {
			break
		}
		face := builder.faces[closest]
		best = &face

		support := gjk.MinkowskiSupport(a, b, face.Normal)
		if support.Dot(face.Normal)-face.Distance < ConvergenceTolerance {
			return result(a, b, face.Normal, face.Distance), nil
		}

		builder.AddPointAndRebuildFaces(support, closest)
	}

	if best == nil {
		return touching(a, b), nil
	}
	return result(a, b, best.Normal, best.Distance), nil
}

func result(a, b gjk.Supporter, normal mgl64.Vec3, depth float64) Result {
	return Result{
		Normal: normal,
		Depth:  depth,
		PointA: a.Support(normal),
		PointB: b.Support(normal.Mul(-1)),
	}
}

// touching builds a zero-depth result along the line between the centers.
func touching(a, b gjk.Supporter) Result {
	normal := b.Center().Sub(a.Center())
	if normal.LenSqr() < NormalSnapThreshold*NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Normalize()
	}
	return result(a, b, normal, 0)
}

var searchDirections = [...]mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// completeSimplex adds support points until the simplex is a tetrahedron
// with volume. It returns false if the Minkowski difference is flat.
func completeSimplex(a, b gjk.Supporter, simplex *gjk.Simplex) bool {
	for simplex.Count < 4 {
		if !raiseDimension(a, b, simplex) {
			return false
		}
	}

	p := simplex.Points
	volume := p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Dot(p[3].Sub(p[0]))
	return math.Abs(volume) > degenerateTolerance
}

func raiseDimension(a, b gjk.Supporter, simplex *gjk.Simplex) bool {
	p := simplex.Points

	var directions []mgl64.Vec3
	switch simplex.Count {
	case 0, 1:
		directions = searchDirections[:]
	case 2:
		line := p[1].Sub(p[0])
		u := line.Cross(leastAlignedAxis(line))
		v := line.Cross(u)
		directions = []mgl64.Vec3{u, u.Mul(-1), v, v.Mul(-1)}
	case 3:
		n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		directions = []mgl64.Vec3{n, n.Mul(-1)}
	}

	for _, d := range directions {
		candidate := gjk.MinkowskiSupport(a, b, d)
		if extendsSimplex(simplex, candidate) {
			simplex.Points[simplex.Count] = candidate
			simplex.Count++
			return true
		}
	}
	return false
}

func extendsSimplex(simplex *gjk.Simplex, q mgl64.Vec3) bool {
	p := simplex.Points
	switch simplex.Count {
	case 0:
		return true
	case 1:
		return q.Sub(p[0]).LenSqr() > degenerateTolerance
	case 2:
		return p[1].Sub(p[0]).Cross(q.Sub(p[0])).LenSqr() > degenerateTolerance
	default:
		n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		return math.Abs(n.Dot(q.Sub(p[0]))) > degenerateTolerance
	}
}

func leastAlignedAxis(v mgl64.Vec3) mgl64.Vec3 {
	x, y, z := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	switch {
	case x <= y && x <= z:
		return mgl64.Vec3{1, 0, 0}
	case y <= z:
		return mgl64.Vec3{0, 1, 0}
	default:
		return mgl64.Vec3{0, 0, 1}
	}
}

// snapNormalToAxis clamps components under NormalSnapThreshold to zero and
// renormalizes, so that axis-aligned contacts report exact axes.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for i := range 3 {
		if math.Abs(normal[i]) < NormalSnapThreshold {
			normal[i] = 0
		}
	}

	length := normal.Len()
	if length < 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}
	return normal.Mul(1.0 / length)
}
