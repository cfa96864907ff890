// Package hull describes convex shapes attached to a body transform and tests
// them against each other.
//
// A ConvexHull never owns its transform: it borrows pointers to a world
// matrix and its inverse that must outlive it, typically the cached matrices
// of an actor.MotionBody. Moving the body moves the hull.
package hull

import (
	"errors"
	"fmt"
	"slices"

	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNilTransform is returned when a constructor gets a nil transform or inverse transform.
	ErrNilTransform = errors.New("hull: nil transform")
	// ErrEmptyMesh is returned by NewMesh without any point.
	ErrEmptyMesh = errors.New("hull: mesh without points")
	// ErrNilHull is returned by Test when either hull is nil.
	ErrNilHull = errors.New("hull: nil hull")
)

// Flags describe the category of a hull.
type Flags uint8

const (
	// Is3D marks hulls with volume.
	Is3D Flags = 1 << iota
	// IsAxisAligned marks hulls whose local axes are the world axes, so their
	// world bounds are their local bounds offset by the center.
	IsAxisAligned
)

// Has reports whether every bit of flag is set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// Kind identifies the variant held by ConvexHull.Shape.
type Kind int

const (
	KindNone Kind = iota
	KindPoint
	KindPlane
	KindDisc
	KindBox
	KindSphere
	KindCylinder
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPoint:
		return "point"
	case KindPlane:
		return "plane"
	case KindDisc:
		return "disc"
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindCylinder:
		return "cylinder"
	case KindMesh:
		return "mesh"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Shape is one of Point, Plane, Disc, Box, Sphere, Cylinder or Mesh.
type Shape interface {
	Kind() Kind
}

// Point has no extent.
type Point struct{}

func (Point) Kind() Kind { return KindPoint }

// Plane is a finite rectangle. Its width runs along the tangent axis and its
// height along the bitangent axis of the hull's normal axis.
type Plane struct {
	width, height         float64
	halfWidth, halfHeight float64
	halfWidthSq           float64
	halfHeightSq          float64
}

func newPlane(width, height float64) Plane {
	return Plane{
		width:        width,
		height:       height,
		halfWidth:    width * 0.5,
		halfHeight:   height * 0.5,
		halfWidthSq:  width * width * 0.25,
		halfHeightSq: height * height * 0.25,
	}
}

func (Plane) Kind() Kind              { return KindPlane }
func (p Plane) Width() float64        { return p.width }
func (p Plane) Height() float64       { return p.height }
func (p Plane) HalfWidth() float64    { return p.halfWidth }
func (p Plane) HalfHeight() float64   { return p.halfHeight }
func (p Plane) HalfWidthSq() float64  { return p.halfWidthSq }
func (p Plane) HalfHeightSq() float64 { return p.halfHeightSq }

// Disc is a flat circle around the hull's normal axis.
type Disc struct {
	radius, radiusSq float64
}

func (Disc) Kind() Kind          { return KindDisc }
func (d Disc) Radius() float64   { return d.radius }
func (d Disc) RadiusSq() float64 { return d.radiusSq }

// Box is sized along the local x, y and z axes.
type Box struct {
	size   mgl64.Vec3
	half   mgl64.Vec3
	halfSq mgl64.Vec3
}

func newBox(width, height, depth float64) Box {
	size := mgl64.Vec3{width, height, depth}
	half := size.Mul(0.5)
	return Box{
		size:   size,
		half:   half,
		halfSq: mgl64.Vec3{half[0] * half[0], half[1] * half[1], half[2] * half[2]},
	}
}

func (Box) Kind() Kind                  { return KindBox }
func (b Box) Size() mgl64.Vec3          { return b.size }
func (b Box) HalfExtents() mgl64.Vec3   { return b.half }
func (b Box) HalfExtentsSq() mgl64.Vec3 { return b.halfSq }

// Sphere is centered on the hull origin.
type Sphere struct {
	radius, radiusSq float64
}

func (Sphere) Kind() Kind          { return KindSphere }
func (s Sphere) Radius() float64   { return s.radius }
func (s Sphere) RadiusSq() float64 { return s.radiusSq }

// Cylinder is centered on the hull origin, its length along the hull's normal axis.
type Cylinder struct {
	radius, radiusSq   float64
	length, halfLength float64
}

func (Cylinder) Kind() Kind            { return KindCylinder }
func (c Cylinder) Radius() float64     { return c.radius }
func (c Cylinder) RadiusSq() float64   { return c.radiusSq }
func (c Cylinder) Length() float64     { return c.length }
func (c Cylinder) HalfLength() float64 { return c.halfLength }

// Mesh is the convex hull of a point cloud in local space.
type Mesh struct {
	points []mgl64.Vec3
}

func (Mesh) Kind() Kind { return KindMesh }

// Points returns the local points. The slice must not be modified.
func (m Mesh) Points() []mgl64.Vec3 { return m.points }

// ConvexHull is a shape bound to a borrowed world transform.
type ConvexHull struct {
	Transform        *mgl64.Mat4
	InverseTransform *mgl64.Mat4
	Flags            Flags
	// NormalAxis is the plane and disc normal, or the cylinder axis.
	NormalAxis actor.Axis
	Shape      Shape
}

// Kind returns the variant tag, KindNone for a zero hull.
func (h *ConvexHull) Kind() Kind {
	if h == nil || h.Shape == nil {
		return KindNone
	}
	return h.Shape.Kind()
}

func newHull(transform, inverse *mgl64.Mat4) (ConvexHull, error) {
	if transform == nil || inverse == nil {
		return ConvexHull{}, ErrNilTransform
	}
	return ConvexHull{Transform: transform, InverseTransform: inverse}, nil
}

// newAxialHull also rejects an axis that does not name a matrix column.
func newAxialHull(transform, inverse *mgl64.Mat4, axis actor.Axis) (ConvexHull, error) {
	if !axis.Valid() {
		return ConvexHull{}, fmt.Errorf("hull: %w: %v", actor.ErrInvalidAxis, axis)
	}
	return newHull(transform, inverse)
}

func alignedFlag(axisAligned bool) Flags {
	if axisAligned {
		return IsAxisAligned
	}
	return 0
}

func NewPoint(transform, inverse *mgl64.Mat4) (ConvexHull, error) {
	h, err := newHull(transform, inverse)
	if err != nil {
		return h, err
	}
	h.Shape = Point{}
	return h, nil
}

func NewPlane(transform, inverse *mgl64.Mat4, width, height float64, axisAligned bool, normalAxis actor.Axis) (ConvexHull, error) {
	h, err := newAxialHull(transform, inverse, normalAxis)
	if err != nil {
		return h, err
	}
	h.Flags = alignedFlag(axisAligned)
	h.NormalAxis = normalAxis
	h.Shape = newPlane(width, height)
	return h, nil
}

func NewDisc(transform, inverse *mgl64.Mat4, radius float64, axisAligned bool, normalAxis actor.Axis) (ConvexHull, error) {
	h, err := newAxialHull(transform, inverse, normalAxis)
	if err != nil {
		return h, err
	}
	h.Flags = alignedFlag(axisAligned)
	h.NormalAxis = normalAxis
	h.Shape = Disc{radius: radius, radiusSq: radius * radius}
	return h, nil
}

func NewBox(transform, inverse *mgl64.Mat4, width, height, depth float64, axisAligned bool) (ConvexHull, error) {
	h, err := newHull(transform, inverse)
	if err != nil {
		return h, err
	}
	h.Flags = Is3D | alignedFlag(axisAligned)
	h.Shape = newBox(width, height, depth)
	return h, nil
}

func NewSphere(transform, inverse *mgl64.Mat4, radius float64) (ConvexHull, error) {
	h, err := newHull(transform, inverse)
	if err != nil {
		return h, err
	}
	h.Flags = Is3D
	h.Shape = Sphere{radius: radius, radiusSq: radius * radius}
	return h, nil
}

func NewCylinder(transform, inverse *mgl64.Mat4, radius, length float64, axis actor.Axis) (ConvexHull, error) {
	h, err := newAxialHull(transform, inverse, axis)
	if err != nil {
		return h, err
	}
	h.Flags = Is3D
	h.NormalAxis = axis
	h.Shape = Cylinder{
		radius:     radius,
		radiusSq:   radius * radius,
		length:     length,
		halfLength: length * 0.5,
	}
	return h, nil
}

// NewMesh copies points, given in local space.
func NewMesh(transform, inverse *mgl64.Mat4, points []mgl64.Vec3, is3D bool) (ConvexHull, error) {
	h, err := newHull(transform, inverse)
	if err != nil {
		return h, err
	}
	if len(points) == 0 {
		return ConvexHull{}, ErrEmptyMesh
	}
	if is3D {
		h.Flags = Is3D
	}
	h.Shape = Mesh{points: slices.Clone(points)}
	return h, nil
}
