package scenario

import "github.com/go-gl/mathgl/mgl64"

// Default returns the reference scenario: four particles each showing one
// force generator, a body carried on a scripted orbit and the ground under
// them. A ray crosses the draggy and springy particles.
func Default() *Config {
	cfg := New()
	cfg.Ray = &Ray{Origin: mgl64.Vec3{-20, 0, 6}, Direction: mgl64.Vec3{1, 0, 0}}

	particle := Shape{Kind: "sphere", Radius: 0.5}
	cfg.Bodies = []Body{
		{
			Name:     "springy",
			Position: mgl64.Vec3{8, 0, 6},
			Mass:     1,
			Shape:    particle,
			Forces: Forces{
				Gravity: true,
				Spring:  &Spring{Anchor: mgl64.Vec3{0, 0, 10}, RestLength: 4, Stiffness: 10, Damping: 0.5},
			},
		},
		{
			Name:     "gravity",
			Position: mgl64.Vec3{0, 8, 6},
			Mass:     1,
			Shape:    particle,
			Forces:   Forces{Gravity: true},
		},
		{
			Name:     "draggy",
			Position: mgl64.Vec3{-8, 0, 6},
			Mass:     1,
			Shape:    particle,
			Forces: Forces{
				Gravity: true,
				Drag:    &Drag{Density: 1.2, Area: 0.8, Coefficient: 0.47},
			},
		},
		{
			Name:     "slippy",
			Position: mgl64.Vec3{0, -8, -1},
			Mass:     1,
			Shape:    particle,
			Forces: Forces{
				Force: mgl64.Vec3{0, 5, 0},
				Slope: &Slope{Normal: mgl64.Vec3{0, 0, 1}, StaticFriction: 0.6, KineticFriction: 0.4},
			},
		},
		{
			Name:    "orbiter",
			Shape:   Shape{Kind: "box", Width: 1, Height: 1, Depth: 1},
			Inertia: "none",
			Forces: Forces{
				Orbit: &Orbit{Center: mgl64.Vec3{0, 0, 2}, Radius: 4, Period: 8},
			},
		},
		{
			Name:     "ground",
			Position: mgl64.Vec3{0, 0, -1.5},
			Shape:    Shape{Kind: "plane", Width: 40, Height: 40, Axis: "z"},
		},
	}
	return cfg
}
