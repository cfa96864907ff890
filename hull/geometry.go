package hull

import (
	"math"

	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Center returns the world position of the hull origin.
func (h *ConvexHull) Center() mgl64.Vec3 {
	return h.Transform.Col(3).Vec3()
}

// Basis returns the world tangent, bitangent and normal axes: the transform
// columns at NormalAxis+1, NormalAxis+2 and NormalAxis.
func (h *ConvexHull) Basis() (tangent, bitangent, normal mgl64.Vec3) {
	axis := int(h.NormalAxis) % 3
	tangent = h.Transform.Col((axis + 1) % 3).Vec3()
	bitangent = h.Transform.Col((axis + 2) % 3).Vec3()
	normal = h.Transform.Col(axis).Vec3()
	return tangent, bitangent, normal
}

// ToLocal maps a world point into the hull frame.
func (h *ConvexHull) ToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return actor.TransformPoint(*h.InverseTransform, p)
}

// ToWorld maps a point of the hull frame into world space.
func (h *ConvexHull) ToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return actor.TransformPoint(*h.Transform, p)
}

// Support returns the farthest world point of the hull along direction.
func (h *ConvexHull) Support(direction mgl64.Vec3) mgl64.Vec3 {
	local := actor.TransformDirection(*h.InverseTransform, direction)
	return h.ToWorld(h.localSupport(local))
}

func (h *ConvexHull) localSupport(d mgl64.Vec3) mgl64.Vec3 {
	axis := int(h.NormalAxis) % 3
	tangent := (axis + 1) % 3
	bitangent := (axis + 2) % 3

	switch s := h.Shape.(type) {
	case Plane:
		var p mgl64.Vec3
		p[tangent] = signedExtent(d[tangent], s.halfWidth)
		p[bitangent] = signedExtent(d[bitangent], s.halfHeight)
		return p

	case Disc:
		radial := d
		radial[axis] = 0
		return scaleToLength(radial, s.radius)

	case Box:
		return mgl64.Vec3{
			signedExtent(d[0], s.half[0]),
			signedExtent(d[1], s.half[1]),
			signedExtent(d[2], s.half[2]),
		}

	case Sphere:
		return scaleToLength(d, s.radius)

	case Cylinder:
		radial := d
		radial[axis] = 0
		p := scaleToLength(radial, s.radius)
		p[axis] = signedExtent(d[axis], s.halfLength)
		return p

	case Mesh:
		best := s.points[0]
		bestDot := best.Dot(d)
		for _, p := range s.points[1:] {
			if dot := p.Dot(d); dot > bestDot {
				best, bestDot = p, dot
			}
		}
		return best
	}

	// points and empty hulls
	return mgl64.Vec3{}
}

func signedExtent(direction, extent float64) float64 {
	if direction < 0 {
		return -extent
	}
	return extent
}

func scaleToLength(v mgl64.Vec3, length float64) mgl64.Vec3 {
	lenSq := v.LenSqr()
	if lenSq < 1e-24 {
		return mgl64.Vec3{}
	}
	return v.Mul(length / math.Sqrt(lenSq))
}

// LocalBounds returns the bounds of the hull in its own frame.
func (h *ConvexHull) LocalBounds() AABB {
	axis := int(h.NormalAxis) % 3
	tangent := (axis + 1) % 3
	bitangent := (axis + 2) % 3

	var half mgl64.Vec3
	switch s := h.Shape.(type) {
	case Plane:
		half[tangent] = s.halfWidth
		half[bitangent] = s.halfHeight
	case Disc:
		half[tangent] = s.radius
		half[bitangent] = s.radius
	case Box:
		half = s.half
	case Sphere:
		half = mgl64.Vec3{s.radius, s.radius, s.radius}
	case Cylinder:
		half = mgl64.Vec3{s.radius, s.radius, s.radius}
		half[axis] = s.halfLength
	case Mesh:
		bounds := AABB{Min: s.points[0], Max: s.points[0]}
		for _, p := range s.points[1:] {
			bounds = bounds.Expand(p)
		}
		return bounds
	}
	return AABB{Min: half.Mul(-1), Max: half}
}

// AABB returns the world bounds of the hull. Axis-aligned hulls offset their
// local bounds by the center, others bound the eight transformed corners.
func (h *ConvexHull) AABB() AABB {
	local := h.LocalBounds()
	if h.Flags.Has(IsAxisAligned) {
		center := h.Center()
		return AABB{Min: local.Min.Add(center), Max: local.Max.Add(center)}
	}
	return local.Transform(*h.Transform)
}
