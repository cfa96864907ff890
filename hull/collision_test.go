package hull

import (
	"fmt"
	"math"
	"testing"

	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHull(t *testing.T) func(ConvexHull, error) *ConvexHull {
	return func(h ConvexHull, err error) *ConvexHull {
		t.Helper()
		require.NoError(t, err)
		return &h
	}
}

func assertVec(t *testing.T, expected, actual mgl64.Vec3, delta float64) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], delta, "expected %v, got %v", expected, actual)
}

func TestTest_NilArguments(t *testing.T) {
	f := at(0, 0, 0)
	sphere := mustHull(t)(NewSphere(&f.matrix, &f.inverse, 1))

	_, err := Test(nil, sphere)
	assert.ErrorIs(t, err, ErrNilHull)

	_, err = Test(sphere, nil)
	assert.ErrorIs(t, err, ErrNilHull)

	detached := &ConvexHull{Shape: Sphere{radius: 1, radiusSq: 1}}
	_, err = Test(sphere, detached)
	assert.ErrorIs(t, err, ErrNilTransform)
}

func TestTest_SphereSphere(t *testing.T) {
	fa, fb := at(0, 0, 0), at(1.5, 0, 0)
	a := mustHull(t)(NewSphere(&fa.matrix, &fa.inverse, 1))
	b := mustHull(t)(NewSphere(&fb.matrix, &fb.inverse, 1))

	c, err := Test(a, b)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assert.Same(t, a, c.A)
	assert.Same(t, b, c.B)
	assertVec(t, mgl64.Vec3{1, 0, 0}, c.Normal, 1e-12)
	assert.InDelta(t, 0.5, c.Depth, 1e-12)
	assertVec(t, mgl64.Vec3{0.75, 0, 0}, c.Contact, 1e-12)

	*fb = *at(2.5, 0, 0)
	c, err = Test(a, b)
	require.NoError(t, err)
	assert.False(t, c.Colliding)
}

func TestTest_PointSphere(t *testing.T) {
	fp, fs := at(0, 0, 0), at(0.5, 0, 0)
	point := mustHull(t)(NewPoint(&fp.matrix, &fp.inverse))
	sphere := mustHull(t)(NewSphere(&fs.matrix, &fs.inverse, 1))

	c, err := Test(point, sphere)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assertVec(t, mgl64.Vec3{1, 0, 0}, c.Normal, 1e-12)
	assert.InDelta(t, 0.5, c.Depth, 1e-12)

	c, err = Test(sphere, point)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assert.Same(t, sphere, c.A)
	assertVec(t, mgl64.Vec3{-1, 0, 0}, c.Normal, 1e-12)
}

func TestTest_PointBox(t *testing.T) {
	fp, fb := at(0.8, 0, 0), at(0, 0, 0)
	point := mustHull(t)(NewPoint(&fp.matrix, &fp.inverse))
	box := mustHull(t)(NewBox(&fb.matrix, &fb.inverse, 2, 2, 2, true))

	c, err := Test(point, box)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assertVec(t, mgl64.Vec3{-1, 0, 0}, c.Normal, 1e-12)
	assert.InDelta(t, 0.2, c.Depth, 1e-12)

	*fp = *at(1.2, 0, 0)
	c, err = Test(point, box)
	require.NoError(t, err)
	assert.False(t, c.Colliding)
}

func TestTest_PointPlane(t *testing.T) {
	fp, fq := at(0.5, 0, 0.5), at(0, 0, 0)
	point := mustHull(t)(NewPoint(&fp.matrix, &fp.inverse))
	plane := mustHull(t)(NewPlane(&fq.matrix, &fq.inverse, 2, 2, true, actor.AxisY))

	tests := []struct {
		name     string
		position mgl64.Vec3
		expected bool
	}{
		{"on the surface", mgl64.Vec3{0.5, 0, 0.5}, true},
		{"above the surface", mgl64.Vec3{0.5, 0.1, 0}, false},
		{"past the edge", mgl64.Vec3{3, 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*fp = *newFrame(tt.position, mgl64.QuatIdent())
			c, err := Test(point, plane)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.Colliding)
		})
	}
}

func TestTest_PlaneSphere(t *testing.T) {
	fq, fs := at(0, 0, 0), at(0, 0.5, 0)
	plane := mustHull(t)(NewPlane(&fq.matrix, &fq.inverse, 4, 4, true, actor.AxisY))
	sphere := mustHull(t)(NewSphere(&fs.matrix, &fs.inverse, 1))

	c, err := Test(plane, sphere)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assertVec(t, mgl64.Vec3{0, 1, 0}, c.Normal, 1e-12)
	assert.InDelta(t, 0.5, c.Depth, 1e-12)
	assertVec(t, mgl64.Vec3{0, 0, 0}, c.Contact, 1e-12)

	// beyond the edge the closest point is on the rim
	*fs = *at(3, 0.5, 0)
	c, err = Test(plane, sphere)
	require.NoError(t, err)
	assert.False(t, c.Colliding)
}

func TestTest_DiscSphere(t *testing.T) {
	fd, fs := at(0, 0, 0), at(1.5, 0, 0)
	disc := mustHull(t)(NewDisc(&fd.matrix, &fd.inverse, 1, true, actor.AxisY))
	sphere := mustHull(t)(NewSphere(&fs.matrix, &fs.inverse, 0.6))

	c, err := Test(disc, sphere)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assertVec(t, mgl64.Vec3{1, 0, 0}, c.Normal, 1e-12)
	assert.InDelta(t, 0.1, c.Depth, 1e-12)

	sphere = mustHull(t)(NewSphere(&fs.matrix, &fs.inverse, 0.4))
	c, err = Test(disc, sphere)
	require.NoError(t, err)
	assert.False(t, c.Colliding)
}

func TestTest_PlaneBox(t *testing.T) {
	fq, fb := at(0, 0, 0), at(0, 0.75, 0)
	plane := mustHull(t)(NewPlane(&fq.matrix, &fq.inverse, 4, 4, true, actor.AxisY))
	box := mustHull(t)(NewBox(&fb.matrix, &fb.inverse, 2, 2, 2, true))

	c, err := Test(plane, box)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assertVec(t, mgl64.Vec3{0, 1, 0}, c.Normal, 1e-12)
	assert.InDelta(t, 0.25, c.Depth, 1e-12)
	assert.InDelta(t, 0, c.Contact.Y(), 1e-12)

	tests := []struct {
		name     string
		position mgl64.Vec3
	}{
		{"above", mgl64.Vec3{0, 1.5, 0}},
		{"beside", mgl64.Vec3{5, 0.5, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*fb = *newFrame(tt.position, mgl64.QuatIdent())
			c, err := Test(plane, box)
			require.NoError(t, err)
			assert.False(t, c.Colliding)
		})
	}
}

func TestTest_PlaneRotatedBox(t *testing.T) {
	// 30° about x, then 30° about z: no box face is parallel to the plane
	rotation := mgl64.QuatRotate(math.Pi/6, mgl64.Vec3{0, 0, 1}).Mul(mgl64.QuatRotate(math.Pi/6, mgl64.Vec3{1, 0, 0}))
	fq, fb := at(0, 0, 0), newFrame(mgl64.Vec3{}, rotation)
	plane := mustHull(t)(NewPlane(&fq.matrix, &fq.inverse, 2, 2, true, actor.AxisY))
	box := mustHull(t)(NewBox(&fb.matrix, &fb.inverse, 2, 2, 2, false))

	tests := []struct {
		name      string
		position  mgl64.Vec3
		colliding bool
	}{
		{"through the center", mgl64.Vec3{0, 0.5, 0}, true},
		{"over the edge", mgl64.Vec3{-1.5, 0.5, 0}, true},
		// only an edge-edge axis separates the shapes here
		{"past the corner", mgl64.Vec3{-2.5, 1, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*fb = *newFrame(tt.position, rotation)

			c, err := Test(plane, box)
			require.NoError(t, err)
			assert.Equal(t, tt.colliding, c.Colliding)
		})
	}
}

func TestTest_BoxSphere(t *testing.T) {
	fb, fs := at(0, 0, 0), at(1.5, 0, 0)
	box := mustHull(t)(NewBox(&fb.matrix, &fb.inverse, 2, 2, 2, true))
	sphere := mustHull(t)(NewSphere(&fs.matrix, &fs.inverse, 1))

	c, err := Test(box, sphere)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assertVec(t, mgl64.Vec3{1, 0, 0}, c.Normal, 1e-12)
	assert.InDelta(t, 0.5, c.Depth, 1e-12)
	assertVec(t, mgl64.Vec3{1, 0, 0}, c.Contact, 1e-12)

	t.Run("center inside", func(t *testing.T) {
		*fs = *at(0.8, 0, 0)
		small := mustHull(t)(NewSphere(&fs.matrix, &fs.inverse, 0.5))

		c, err := Test(box, small)
		require.NoError(t, err)
		require.True(t, c.Colliding)
		assertVec(t, mgl64.Vec3{1, 0, 0}, c.Normal, 1e-12)
		assert.InDelta(t, 0.7, c.Depth, 1e-12)
		assertVec(t, mgl64.Vec3{1, 0, 0}, c.Contact, 1e-12)
	})
}

func TestTest_AlignedBoxes(t *testing.T) {
	fa, fb := at(0, 0, 0), at(1.5, 0, 0)
	a := mustHull(t)(NewBox(&fa.matrix, &fa.inverse, 2, 2, 2, true))
	b := mustHull(t)(NewBox(&fb.matrix, &fb.inverse, 2, 2, 2, true))

	c, err := Test(a, b)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assertVec(t, mgl64.Vec3{1, 0, 0}, c.Normal, 1e-12)
	assert.InDelta(t, 0.5, c.Depth, 1e-12)
	assertVec(t, mgl64.Vec3{0.75, 0, 0}, c.Contact, 1e-12)

	c, err = Test(b, a)
	require.NoError(t, err)
	assertVec(t, mgl64.Vec3{-1, 0, 0}, c.Normal, 1e-12)
}

func TestTest_RotatedBoxes(t *testing.T) {
	// a box turned 45° about z reaches √2 along x
	fa := newFrame(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}))
	fb := at(2, 0, 0)
	a := mustHull(t)(NewBox(&fa.matrix, &fa.inverse, 2, 2, 2, false))
	b := mustHull(t)(NewBox(&fb.matrix, &fb.inverse, 2, 2, 2, true))

	c, err := Test(a, b)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assert.Greater(t, c.Normal.X(), 0.9)
	assert.InDelta(t, math.Sqrt2-1, c.Depth, 0.01)

	*fb = *at(3, 0, 0)
	c, err = Test(a, b)
	require.NoError(t, err)
	assert.False(t, c.Colliding)
}

func TestTest_MeshBox(t *testing.T) {
	fm, fb := at(0.9, 0, 0), at(0, 0, 0)
	tetrahedron := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	mesh := mustHull(t)(NewMesh(&fm.matrix, &fm.inverse, tetrahedron, true))
	box := mustHull(t)(NewBox(&fb.matrix, &fb.inverse, 2, 2, 2, true))

	c, err := Test(mesh, box)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assertVec(t, mgl64.Vec3{-1, 0, 0}, c.Normal, 1e-6)
	assert.InDelta(t, 0.1, c.Depth, 0.002)

	*fm = *at(1.1, 0, 0)
	c, err = Test(mesh, box)
	require.NoError(t, err)
	assert.False(t, c.Colliding)
}

func TestTest_CylinderSphere(t *testing.T) {
	fc, fs := at(0, 0, 0), at(1.5, 0, 0)
	cylinder := mustHull(t)(NewCylinder(&fc.matrix, &fc.inverse, 1, 2, actor.AxisY))
	sphere := mustHull(t)(NewSphere(&fs.matrix, &fs.inverse, 1))

	c, err := Test(sphere, cylinder)
	require.NoError(t, err)
	require.True(t, c.Colliding)
	assert.Less(t, c.Normal.X(), -0.9)
	assert.InDelta(t, 0.5, c.Depth, 0.05)

	*fs = *at(2.5, 0, 0)
	c, err = Test(sphere, cylinder)
	require.NoError(t, err)
	assert.False(t, c.Colliding)
}

func TestTest_Symmetry(t *testing.T) {
	frames := []*frame{
		at(0.2, 0, 0),
		at(0, 0, 0),
		at(0, 0, 0),
		at(0, 0.5, 0),
		at(0.5, 0.5, 0),
		at(-0.5, 0, 0),
		at(0, 0, 0.5),
	}
	must := mustHull(t)
	hulls := []*ConvexHull{
		must(NewPoint(&frames[0].matrix, &frames[0].inverse)),
		must(NewPlane(&frames[1].matrix, &frames[1].inverse, 4, 4, true, actor.AxisY)),
		must(NewDisc(&frames[2].matrix, &frames[2].inverse, 2, false, actor.AxisY)),
		must(NewBox(&frames[3].matrix, &frames[3].inverse, 2, 2, 2, true)),
		must(NewSphere(&frames[4].matrix, &frames[4].inverse, 1)),
		must(NewCylinder(&frames[5].matrix, &frames[5].inverse, 0.5, 2, actor.AxisX)),
		must(NewMesh(&frames[6].matrix, &frames[6].inverse, []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, true)),
	}

	for i := range hulls {
		for j := i + 1; j < len(hulls); j++ {
			a, b := hulls[i], hulls[j]
			t.Run(fmt.Sprintf("%s-%s", a.Kind(), b.Kind()), func(t *testing.T) {
				ab, errAB := Test(a, b)
				ba, errBA := Test(b, a)
				require.Equal(t, errAB == nil, errBA == nil)
				if errAB != nil {
					return
				}

				assert.Equal(t, ab.Colliding, ba.Colliding)
				if ab.Colliding {
					assertVec(t, ab.Normal.Mul(-1), ba.Normal, 1e-12)
					assert.InDelta(t, ab.Depth, ba.Depth, 1e-12)
				}
			})
		}
	}
}
