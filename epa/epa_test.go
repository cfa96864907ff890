package epa

import (
	"math"
	"testing"

	"github.com/akmonengine/plume/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

type sphere struct {
	center mgl64.Vec3
	radius float64
}

func (s sphere) Center() mgl64.Vec3 { return s.center }

func (s sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() == 0 {
		return s.center
	}
	return s.center.Add(direction.Normalize().Mul(s.radius))
}

type box struct {
	center      mgl64.Vec3
	halfExtents mgl64.Vec3
}

func (b box) Center() mgl64.Vec3 { return b.center }

func (b box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	p := b.halfExtents
	for i := range 3 {
		if direction[i] < 0 {
			p[i] = -p[i]
		}
	}
	return b.center.Add(p)
}

// square is a flat box with no thickness along y.
func square(center mgl64.Vec3, half float64) box {
	return box{center: center, halfExtents: mgl64.Vec3{half, 0, half}}
}

func vec3ApproxEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a[0]-b[0]) <= tolerance &&
		math.Abs(a[1]-b[1]) <= tolerance &&
		math.Abs(a[2]-b[2]) <= tolerance
}

func penetration(t *testing.T, a, b gjk.Supporter) Result {
	t.Helper()

	simplex := &gjk.Simplex{}
	if !gjk.Intersect(a, b, simplex) {
		t.Fatal("expected gjk.Intersect to report an overlap")
	}

	result, err := Penetration(a, b, simplex)
	if err != nil {
		t.Fatalf("Penetration() error = %v", err)
	}
	return result
}

func TestSnapNormalToAxis(t *testing.T) {
	tests := []struct {
		name     string
		input    mgl64.Vec3
		expected mgl64.Vec3
	}{
		{"small x component", mgl64.Vec3{1e-9, 1, 0}, mgl64.Vec3{0, 1, 0}},
		{"small z component", mgl64.Vec3{0, 1, 1e-9}, mgl64.Vec3{0, 1, 0}},
		{"diagonal untouched", mgl64.Vec3{1, 1, 1}.Normalize(), mgl64.Vec3{1, 1, 1}.Normalize()},
		{"near zero falls back to up", mgl64.Vec3{1e-9, 1e-9, 1e-9}, mgl64.Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snapNormalToAxis(tt.input); !vec3ApproxEqual(got, tt.expected, 1e-6) {
				t.Errorf("snapNormalToAxis(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPenetration_Boxes(t *testing.T) {
	tests := []struct {
		name       string
		b          box
		wantNormal mgl64.Vec3
		wantDepth  float64
	}{
		{"overlap along +x", box{mgl64.Vec3{1.5, 0.1, 0.2}, mgl64.Vec3{1, 1, 1}}, mgl64.Vec3{1, 0, 0}, 0.5},
		{"overlap along -y", box{mgl64.Vec3{0.1, -1.8, 0}, mgl64.Vec3{1, 1, 1}}, mgl64.Vec3{0, -1, 0}, 0.2},
		{"overlap along +z", box{mgl64.Vec3{0.3, 0.2, 1.9}, mgl64.Vec3{1, 1, 1}}, mgl64.Vec3{0, 0, 1}, 0.1},
	}

	a := box{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := penetration(t, a, tt.b)

			if !vec3ApproxEqual(result.Normal, tt.wantNormal, 1e-6) {
				t.Errorf("Normal = %v, want %v", result.Normal, tt.wantNormal)
			}
			if math.Abs(result.Depth-tt.wantDepth) > ConvergenceTolerance {
				t.Errorf("Depth = %v, want %v", result.Depth, tt.wantDepth)
			}
		})
	}
}

func TestPenetration_Spheres(t *testing.T) {
	a := sphere{mgl64.Vec3{0, 0, 0}, 1}
	b := sphere{mgl64.Vec3{0, 1.5, 0}, 1}

	result := penetration(t, a, b)

	// polyhedral approximation of a round difference
	if math.Abs(result.Depth-0.5) > 0.05 {
		t.Errorf("Depth = %v, want ~0.5", result.Depth)
	}
	if result.Normal.Dot(mgl64.Vec3{0, 1, 0}) < 0.95 {
		t.Errorf("Normal = %v, want close to +y", result.Normal)
	}

	contact := result.Contact()
	if math.Abs(contact.Y()-0.75) > 0.1 {
		t.Errorf("Contact = %v, want near y = 0.75", contact)
	}
}

func TestPenetration_FlatDifference(t *testing.T) {
	// two coplanar squares: the Minkowski difference has no volume
	a := square(mgl64.Vec3{0, 0, 0}, 1)
	b := square(mgl64.Vec3{1, 0, 0}, 1)

	simplex := &gjk.Simplex{}
	if !gjk.Intersect(a, b, simplex) {
		t.Skip("gjk did not report the coplanar overlap")
	}

	result, err := Penetration(a, b, simplex)
	if err != nil {
		t.Fatalf("Penetration() error = %v", err)
	}
	if result.Depth != 0 {
		t.Errorf("Depth = %v, want 0 for a flat difference", result.Depth)
	}
	if !vec3ApproxEqual(result.Normal, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("Normal = %v, want the center direction (1, 0, 0)", result.Normal)
	}
}

func TestPenetration_IterationLimit(t *testing.T) {
	// the polytope cannot get within ConvergenceTolerance of so large a
	// sphere in MaxIterations steps
	const radius = 1e6
	a := sphere{center: mgl64.Vec3{0, 0, 0}, radius: radius}
	b := sphere{center: mgl64.Vec3{1, 0, 0}, radius: 1}

	result := penetration(t, a, b)
	if result.Depth < radius/4 || result.Depth > radius+1e-6 {
		t.Errorf("Depth = %v, want a lower bound close to %v", result.Depth, float64(radius))
	}
	if !almostUnit(result.Normal) {
		t.Errorf("Normal = %v, want unit length", result.Normal)
	}
}

func almostUnit(v mgl64.Vec3) bool {
	return math.Abs(v.Len()-1) < 1e-6
}

func TestCompleteSimplex(t *testing.T) {
	a := box{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}}
	b := box{mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{1, 1, 1}}

	simplex := &gjk.Simplex{}
	simplex.Points[0] = gjk.MinkowskiSupport(a, b, mgl64.Vec3{1, 0, 0})
	simplex.Count = 1

	if !completeSimplex(a, b, simplex) {
		t.Fatal("completeSimplex should build a tetrahedron for solid boxes")
	}
	if simplex.Count != 4 {
		t.Errorf("simplex.Count = %d, want 4", simplex.Count)
	}
}

func BenchmarkPenetration_Boxes(b *testing.B) {
	a := box{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}}
	c := box{mgl64.Vec3{1.5, 0.1, 0.2}, mgl64.Vec3{1, 1, 1}}

	for b.Loop() {
		simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
		simplex.Reset()
		if gjk.Intersect(a, c, simplex) {
			Penetration(a, c, simplex)
		}
		gjk.SimplexPool.Put(simplex)
	}
}
