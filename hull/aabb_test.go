package hull

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAABBOverlaps(t *testing.T) {
	unit := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name     string
		other    AABB
		expected bool
	}{
		{"separated on X", AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}}, false},
		{"separated on -Y", AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}}, false},
		{"separated on Z", AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{1, 1, 3}}, false},
		{"identical", unit, true},
		{"partial overlap", AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{2, 2, 2}}, true},
		{"contained", AABB{Min: mgl64.Vec3{0.25, 0.25, 0.25}, Max: mgl64.Vec3{0.75, 0.75, 0.75}}, true},
		{"face touching", AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}, true},
		{"corner touching", AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{2, 2, 2}}, true},
		{"corner near but apart", AABB{Min: mgl64.Vec3{1.01, 1.01, 1.01}, Max: mgl64.Vec3{2, 2, 2}}, false},
		{"flat box crossing", AABB{Min: mgl64.Vec3{-1, 0.5, -1}, Max: mgl64.Vec3{2, 0.5, 2}}, true},
		{"separated on two axes only", AABB{Min: mgl64.Vec3{2, 2, 0}, Max: mgl64.Vec3{3, 3, 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Overlaps(tt.other); got != tt.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tt.expected)
			}
			if got := tt.other.Overlaps(unit); got != tt.expected {
				t.Errorf("Overlaps() symmetry = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestAABBContainsPoint(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}}

	tests := []struct {
		name     string
		point    mgl64.Vec3
		expected bool
	}{
		{"Center point", mgl64.Vec3{1, 1, 1}, true},
		{"Min corner", mgl64.Vec3{0, 0, 0}, true},
		{"Max corner", mgl64.Vec3{2, 2, 2}, true},
		{"Face center", mgl64.Vec3{2, 1, 1}, true},
		{"Outside (X too large)", mgl64.Vec3{3, 1, 1}, false},
		{"Outside (Y too small)", mgl64.Vec3{1, -1, 1}, false},
		{"Outside (Z too large)", mgl64.Vec3{1, 1, 3}, false},
		{"Just outside min", mgl64.Vec3{-1e-10, 1, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := aabb.ContainsPoint(tt.point)
			if result != tt.expected {
				t.Errorf("ContainsPoint(%v) = %v, expected %v", tt.point, result, tt.expected)
			}
		})
	}
}

func TestAABBExpand(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	grown := aabb.Expand(mgl64.Vec3{-1, 0.5, 3})
	if grown.Min != (mgl64.Vec3{-1, 0, 0}) || grown.Max != (mgl64.Vec3{1, 1, 3}) {
		t.Errorf("Expand() = %v, expected min (-1,0,0) max (1,1,3)", grown)
	}

	if same := aabb.Expand(mgl64.Vec3{0.5, 0.5, 0.5}); same != aabb {
		t.Errorf("Expand() with an inner point = %v, expected %v", same, aabb)
	}
}

func TestAABBTransform(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{-1, -2, -3}, Max: mgl64.Vec3{1, 2, 3}}

	moved := aabb.Transform(mgl64.Translate3D(5, 0, 0))
	if moved.Min != (mgl64.Vec3{4, -2, -3}) || moved.Max != (mgl64.Vec3{6, 2, 3}) {
		t.Errorf("Transform(translate) = %v", moved)
	}

	// a quarter turn about z swaps the x and y extents
	turned := aabb.Transform(mgl64.HomogRotate3DZ(math.Pi / 2))
	assertVec(t, mgl64.Vec3{2, 1, 3}, turned.Max, 1e-9)
	assertVec(t, mgl64.Vec3{-2, -1, -3}, turned.Min, 1e-9)
}

func TestAABBPenetration(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}}

	tests := []struct {
		name       string
		other      AABB
		wantOK     bool
		wantNormal mgl64.Vec3
		wantDepth  float64
	}{
		{"shallow on +x", AABB{Min: mgl64.Vec3{1.75, 0, 0}, Max: mgl64.Vec3{3.75, 2, 2}}, true, mgl64.Vec3{1, 0, 0}, 0.25},
		{"shallow on -y", AABB{Min: mgl64.Vec3{0, -1.5, 0}, Max: mgl64.Vec3{2, 0.5, 2}}, true, mgl64.Vec3{0, -1, 0}, 0.5},
		{"shallow on +z", AABB{Min: mgl64.Vec3{0.5, 0.5, 1.9}, Max: mgl64.Vec3{1.5, 1.5, 4}}, true, mgl64.Vec3{0, 0, 1}, 0.1},
		{"separated", AABB{Min: mgl64.Vec3{3, 0, 0}, Max: mgl64.Vec3{4, 2, 2}}, false, mgl64.Vec3{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normal, depth, ok := a.Penetration(tt.other)
			if ok != tt.wantOK {
				t.Fatalf("Penetration() ok = %v, expected %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if normal != tt.wantNormal {
				t.Errorf("Penetration() normal = %v, expected %v", normal, tt.wantNormal)
			}
			if math.Abs(depth-tt.wantDepth) > 1e-9 {
				t.Errorf("Penetration() depth = %v, expected %v", depth, tt.wantDepth)
			}
		})
	}
}

func TestAABBCenterAndHalfExtents(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{-1, 0, 2}, Max: mgl64.Vec3{3, 4, 4}}

	if c := aabb.Center(); c != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("Center() = %v, expected (1, 2, 3)", c)
	}
	if h := aabb.HalfExtents(); h != (mgl64.Vec3{2, 2, 1}) {
		t.Errorf("HalfExtents() = %v, expected (2, 2, 1)", h)
	}
}
