package force

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func assertVec3InDelta(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestGravity(t *testing.T) {
	up := mgl64.Vec3{0, 1, 0}

	assertVec3InDelta(t, mgl64.Vec3{0, -2 * StandardGravity, 0}, Gravity(up, 2), 1e-12)
	assert.Equal(t, mgl64.Vec3{}, Gravity(up, 0))
}

func TestNormalOpposesGravity(t *testing.T) {
	gravity := Gravity(mgl64.Vec3{0, 1, 0}, 1)

	// 45° incline
	n := mgl64.Vec3{1, 1, 0}.Normalize()
	normal := Normal(gravity, n)

	assert.Greater(t, normal.Dot(n), 0.0)
	assert.InDelta(t, -gravity.Dot(n), normal.Dot(n), 1e-12)

	sliding := Sliding(gravity, normal)
	assert.InDelta(t, 0, sliding.Dot(n), 1e-12, "sliding force must lie in the surface")
}

func TestFrictionStatic(t *testing.T) {
	normal := mgl64.Vec3{0, 10, 0}
	const coeff = 0.5 // limit = 5

	tests := []struct {
		name     string
		opposing mgl64.Vec3
		want     mgl64.Vec3
	}{
		{"below limit cancels", mgl64.Vec3{4.999, 0, 0}, mgl64.Vec3{-4.999, 0, 0}},
		{"at limit", mgl64.Vec3{5, 0, 0}, mgl64.Vec3{-5, 0, 0}},
		{"above limit clamps", mgl64.Vec3{8, 0, 0}, mgl64.Vec3{-5, 0, 0}},
		{"zero opposing", mgl64.Vec3{}, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrictionStatic(normal, tt.opposing, coeff)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("above limit magnitude", func(t *testing.T) {
		got := FrictionStatic(normal, mgl64.Vec3{3, 0, 4}.Mul(2), coeff)
		assert.InDelta(t, 5.0, got.Len(), 1e-12)
		assert.Less(t, got.Dot(mgl64.Vec3{3, 0, 4}), 0.0)
	})
}

func TestFrictionKinetic(t *testing.T) {
	normal := mgl64.Vec3{0, 4, 0}

	got := FrictionKinetic(normal, mgl64.Vec3{0, 0, 3}, 0.25)
	assertVec3InDelta(t, mgl64.Vec3{0, 0, -1}, got, 1e-12)

	assert.Equal(t, mgl64.Vec3{}, FrictionKinetic(normal, mgl64.Vec3{}, 0.25))
}

func TestDrag(t *testing.T) {
	// u = 2 relative, F = 0.5 * 1.2 * 4 * 0.5 * 1 = 1.2
	got := Drag(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{1, 0, 0}, 1.2, 0.5, 1)
	assertVec3InDelta(t, mgl64.Vec3{-1.2, 0, 0}, got, 1e-12)

	assert.Equal(t, mgl64.Vec3{}, Drag(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, 1.2, 0.5, 1))
}

func TestSpring(t *testing.T) {
	anchor := mgl64.Vec3{0, 0, 0}

	t.Run("rest length is zero force", func(t *testing.T) {
		got := Spring(mgl64.Vec3{3, 4, 0}, anchor, 5, 10)
		assert.Zero(t, got.Len())
	})

	t.Run("stretched pulls toward anchor", func(t *testing.T) {
		position := mgl64.Vec3{3, 4, 0}
		got := Spring(position, anchor, 2, 10)
		toAnchor := anchor.Sub(position).Normalize()

		assert.InDelta(t, 30.0, got.Len(), 1e-9)
		assert.InDelta(t, 1.0, got.Normalize().Dot(toAnchor), 1e-12)
	})

	t.Run("compressed pushes away", func(t *testing.T) {
		position := mgl64.Vec3{0, 1, 0}
		got := Spring(position, anchor, 3, 2)
		assertVec3InDelta(t, mgl64.Vec3{0, 4, 0}, got, 1e-12)
	})

	t.Run("on anchor", func(t *testing.T) {
		assert.Equal(t, mgl64.Vec3{}, Spring(anchor, anchor, 1, 1))
	})
}

func TestDampingLinear(t *testing.T) {
	got := DampingLinear(mgl64.Vec3{1, -2, 3}, 0.5)
	assert.Equal(t, mgl64.Vec3{-0.5, 1, -1.5}, got)
}

func TestCriticalDamping(t *testing.T) {
	assert.Equal(t, 12.0, CriticalDamping(2, 3))
	assert.False(t, math.IsNaN(CriticalDamping(0, 0)))
}
