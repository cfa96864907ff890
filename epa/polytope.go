package epa

import (
	"math"
	"slices"
	"sync"

	"github.com/akmonengine/plume/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const polytopeInitialCapacity = 16

// Face is a triangle of the polytope with its outward normal and its
// distance to the origin.
type Face struct {
	Points   [3]mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

type edge struct {
	a, b mgl64.Vec3
}

// PolytopeBuilder holds the faces of the expanding polytope. Builders are
// pooled and keep their buffers between runs.
type PolytopeBuilder struct {
	faces   []Face
	edges   []edge
	visible []int
	// interior is a point strictly inside the initial tetrahedron, so inside
	// every later polytope as well.
	interior mgl64.Vec3
}

var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:   make([]Face, 0, polytopeInitialCapacity),
			edges:   make([]edge, 0, polytopeInitialCapacity),
			visible: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.edges = b.edges[:0]
	b.visible = b.visible[:0]
	b.interior = mgl64.Vec3{}
}

// BuildInitialFaces creates the four faces of a tetrahedral simplex.
func (b *PolytopeBuilder) BuildInitialFaces(simplex *gjk.Simplex) {
	p0, p1, p2, p3 := simplex.Points[0], simplex.Points[1], simplex.Points[2], simplex.Points[3]
	b.interior = p0.Add(p1).Add(p2).Add(p3).Mul(0.25)

	b.faces = append(b.faces,
		b.newFace(p0, p1, p2),
		b.newFace(p0, p2, p3),
		b.newFace(p0, p3, p1),
		b.newFace(p1, p3, p2),
	)
}

// newFace orients the triangle away from the interior point.
func (b *PolytopeBuilder) newFace(p0, p1, p2 mgl64.Vec3) Face {
	face := Face{Points: [3]mgl64.Vec3{p0, p1, p2}}

	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	length := normal.Len()
	if length < 1e-12 {
		// sliver: never chosen as the closest face
		face.Normal = p0.Sub(b.interior)
		if face.Normal.LenSqr() > 0 {
			face.Normal = face.Normal.Normalize()
		}
		face.Distance = math.Inf(1)
		return face
	}
	normal = normal.Mul(1.0 / length)

	if normal.Dot(p0.Sub(b.interior)) < 0 {
		normal = normal.Mul(-1)
	}

	face.Normal = snapNormalToAxis(normal)
	face.Distance = math.Max(0, p0.Dot(face.Normal))
	return face
}

// FindClosestFaceIndex returns the index of the face closest to the origin,
// or -1 without any face.
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	closest := -1
	best := math.Inf(1)
	for i := range b.faces {
		if b.faces[i].Distance < best {
			closest, best = i, b.faces[i].Distance
		}
	}
	return closest
}

// AddPointAndRebuildFaces removes every face the support point can see and
// closes the hole with faces joining its horizon edges to the point.
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support mgl64.Vec3, closest int) {
	b.visible = b.visible[:0]
	for i := range b.faces {
		if b.faces[i].Normal.Dot(support.Sub(b.faces[i].Points[0])) > 0 {
			b.visible = append(b.visible, i)
		}
	}
	if len(b.visible) == 0 {
		b.visible = append(b.visible, closest)
	}

	b.edges = b.edges[:0]
	for _, i := range b.visible {
		p := b.faces[i].Points
		b.toggleEdge(p[0], p[1])
		b.toggleEdge(p[1], p[2])
		b.toggleEdge(p[2], p[0])
	}

	// remove from the back so that swapped-in faces are not visible ones
	slices.Sort(b.visible)
	for _, i := range slices.Backward(b.visible) {
		last := len(b.faces) - 1
		b.faces[i] = b.faces[last]
		b.faces = b.faces[:last]
	}

	for _, e := range b.edges {
		b.faces = append(b.faces, b.newFace(e.a, e.b, support))
	}
}

// toggleEdge records an edge of a visible face. An edge shared by two visible
// faces is inside the hole and cancels out; the edges left form the horizon.
func (b *PolytopeBuilder) toggleEdge(p, q mgl64.Vec3) {
	for i, e := range b.edges {
		if (e.a == q && e.b == p) || (e.a == p && e.b == q) {
			b.edges = slices.Delete(b.edges, i, i+1)
			return
		}
	}
	b.edges = append(b.edges, edge{a: p, b: q})
}
