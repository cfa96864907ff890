package ray

import (
	"github.com/akmonengine/plume/hull"
	"github.com/go-gl/mathgl/mgl64"
)

// frame is where a hull is tested: either world space for axis-aligned
// hulls, or the hull's own frame.
type frame struct {
	ray                        Ray
	center                     mgl64.Vec3
	tangent, bitangent, normal mgl64.Vec3
	local                      bool
}

func worldFrame(r Ray, h *hull.ConvexHull) frame {
	tangent, bitangent, normal := h.Basis()
	return frame{ray: r, center: h.Center(), tangent: tangent, bitangent: bitangent, normal: normal}
}

func localFrame(r Ray, h *hull.ConvexHull) frame {
	axis := int(h.NormalAxis) % 3
	f := frame{ray: r.Transform(*h.InverseTransform), local: true}
	f.tangent[(axis+1)%3] = 1
	f.bitangent[(axis+2)%3] = 1
	f.normal[axis] = 1
	return f
}

func frameFor(r Ray, h *hull.ConvexHull) frame {
	if h.Flags.Has(hull.IsAxisAligned) {
		return worldFrame(r, h)
	}
	return localFrame(r, h)
}

// toWorld recomputes the hit points on the original ray. The hull transform
// is rigid, so parameters are the same in both frames.
func (f frame) toWorld(r Ray, hit Hit) Hit {
	if !hit.Hit {
		return ResetHit(r)
	}
	if f.local {
		hit.Near = r.At(hit.NearParam)
		hit.Far = r.At(hit.FarParam)
	}
	return hit
}

// TestHull dispatches on the hull variant. Planes, discs and boxes that are
// not axis-aligned are tested in the hull frame; spheres and cylinders are
// tested in world space. Mesh hulls are tested against the bounds of their
// points and point hulls never hit.
func TestHull(r Ray, h *hull.ConvexHull) Hit {
	if h == nil || h.Transform == nil || h.InverseTransform == nil {
		return ResetHit(r)
	}

	switch s := h.Shape.(type) {
	case hull.Plane:
		f := frameFor(r, h)
		if s.Width() > 0 && s.Height() > 0 {
			return f.toWorld(r, TestPlaneFinite(f.ray, f.center, f.tangent, f.bitangent, f.normal, s.HalfWidthSq(), s.HalfHeightSq()))
		}
		return f.toWorld(r, TestPlane(f.ray, f.center, f.normal))

	case hull.Disc:
		f := frameFor(r, h)
		return f.toWorld(r, TestDisc(f.ray, f.center, f.normal, s.RadiusSq()))

	case hull.Box:
		f := frameFor(r, h)
		half := s.HalfExtents()
		return f.toWorld(r, TestAABB(f.ray, f.center.Sub(half), f.center.Add(half)))

	case hull.Sphere:
		return TestSphere(r, h.Center(), s.RadiusSq())

	case hull.Cylinder:
		_, _, axis := h.Basis()
		if s.Length() > 0 {
			return TestCylinderFinite(r, h.Center(), axis, s.RadiusSq(), s.HalfLength())
		}
		return TestCylinder(r, h.Center(), axis, s.RadiusSq())

	case hull.Mesh:
		f := localFrame(r, h)
		bounds := h.LocalBounds()
		return f.toWorld(r, TestAABB(f.ray, bounds.Min, bounds.Max))
	}

	return ResetHit(r)
}
