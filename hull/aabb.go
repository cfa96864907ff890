package hull

import (
	"math"

	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap on all three axes
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) HalfExtents() mgl64.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// Expand returns the smallest box holding a and point.
func (a AABB) Expand(point mgl64.Vec3) AABB {
	for i := range 3 {
		a.Min[i] = math.Min(a.Min[i], point[i])
		a.Max[i] = math.Max(a.Max[i], point[i])
	}
	return a
}

// Transform returns the bounds of the eight corners of a mapped through m.
func (a AABB) Transform(m mgl64.Mat4) AABB {
	corner := func(i int) mgl64.Vec3 {
		c := a.Min
		if i&1 != 0 {
			c[0] = a.Max[0]
		}
		if i&2 != 0 {
			c[1] = a.Max[1]
		}
		if i&4 != 0 {
			c[2] = a.Max[2]
		}
		return actor.TransformPoint(m, c)
	}

	first := corner(0)
	bounds := AABB{Min: first, Max: first}
	for i := 1; i < 8; i++ {
		bounds = bounds.Expand(corner(i))
	}
	return bounds
}

// Penetration returns the axis and depth of the smallest overlap between two
// boxes, with the sign of the axis pointing from a toward other. ok is false
// when they do not overlap.
func (a AABB) Penetration(other AABB) (normal mgl64.Vec3, depth float64, ok bool) {
	depth = math.MaxFloat64
	for i := range 3 {
		overlap := math.Min(a.Max[i], other.Max[i]) - math.Max(a.Min[i], other.Min[i])
		if overlap < 0 {
			return mgl64.Vec3{}, 0, false
		}
		if overlap < depth {
			depth = overlap
			normal = mgl64.Vec3{}
			if other.Min[i]+other.Max[i] < a.Min[i]+a.Max[i] {
				normal[i] = -1
			} else {
				normal[i] = 1
			}
		}
	}
	return normal, depth, true
}
