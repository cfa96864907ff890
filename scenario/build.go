package scenario

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/akmonengine/plume"
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/hull"
	"github.com/akmonengine/plume/ray"
	"github.com/go-gl/mathgl/mgl64"
)

type hullBuilder func(transform, inverse *mgl64.Mat4) (hull.ConvexHull, error)

// shapeBuilders maps a shape kind to the constructor of its hull.
var shapeBuilders = map[string]func(s Shape, axis actor.Axis, aligned bool) hullBuilder{
	"point": func(Shape, actor.Axis, bool) hullBuilder {
		return hull.NewPoint
	},
	"plane": func(s Shape, axis actor.Axis, aligned bool) hullBuilder {
		return func(transform, inverse *mgl64.Mat4) (hull.ConvexHull, error) {
			return hull.NewPlane(transform, inverse, s.Width, s.Height, aligned, axis)
		}
	},
	"disc": func(s Shape, axis actor.Axis, aligned bool) hullBuilder {
		return func(transform, inverse *mgl64.Mat4) (hull.ConvexHull, error) {
			return hull.NewDisc(transform, inverse, s.Radius, aligned, axis)
		}
	},
	"box": func(s Shape, _ actor.Axis, aligned bool) hullBuilder {
		return func(transform, inverse *mgl64.Mat4) (hull.ConvexHull, error) {
			return hull.NewBox(transform, inverse, s.Width, s.Height, s.Depth, aligned)
		}
	},
	"sphere": func(s Shape, _ actor.Axis, _ bool) hullBuilder {
		return func(transform, inverse *mgl64.Mat4) (hull.ConvexHull, error) {
			return hull.NewSphere(transform, inverse, s.Radius)
		}
	},
	"cylinder": func(s Shape, axis actor.Axis, _ bool) hullBuilder {
		return func(transform, inverse *mgl64.Mat4) (hull.ConvexHull, error) {
			return hull.NewCylinder(transform, inverse, s.Radius, s.Length, axis)
		}
	},
	"mesh": func(s Shape, _ actor.Axis, _ bool) hullBuilder {
		return func(transform, inverse *mgl64.Mat4) (hull.ConvexHull, error) {
			return hull.NewMesh(transform, inverse, s.Points, true)
		}
	},
}

// inertiaSetters maps an inertia name to the tensor it sets from the shape
// dimensions. "none" leaves the tensor zero.
var inertiaSetters = map[string]func(body *actor.MotionBody, s Shape, axis actor.Axis) error{
	"sphere-solid": func(body *actor.MotionBody, s Shape, _ actor.Axis) error {
		body.SetInertiaSphereSolid(s.Radius)
		return nil
	},
	"sphere-hollow": func(body *actor.MotionBody, s Shape, _ actor.Axis) error {
		body.SetInertiaSphereHollow(s.Radius)
		return nil
	},
	"box-solid": func(body *actor.MotionBody, s Shape, _ actor.Axis) error {
		body.SetInertiaBoxSolid(s.Width, s.Height, s.Depth)
		return nil
	},
	"box-hollow": func(body *actor.MotionBody, s Shape, _ actor.Axis) error {
		body.SetInertiaBoxHollow(s.Width, s.Height, s.Depth)
		return nil
	},
	"cylinder-solid": func(body *actor.MotionBody, s Shape, axis actor.Axis) error {
		return body.SetInertiaCylinderSolid(s.Radius, s.Length, axis)
	},
	"cone-apex": func(body *actor.MotionBody, s Shape, axis actor.Axis) error {
		return body.SetInertiaConeSolidApex(s.Radius, s.Length, axis)
	},
	"rod-end": func(body *actor.MotionBody, s Shape, axis actor.Axis) error {
		return body.SetInertiaRodEnd(s.Length, axis)
	},
	"rod-center": func(body *actor.MotionBody, s Shape, axis actor.Axis) error {
		return body.SetInertiaRodCenter(s.Length, axis)
	},
}

// solidInertia is the inertia picked for each shape kind when none is named.
var solidInertia = map[string]string{
	"sphere":   "sphere-solid",
	"box":      "box-solid",
	"cylinder": "cylinder-solid",
}

func (s Shape) builder() (func(s Shape, axis actor.Axis, aligned bool) hullBuilder, error) {
	if s.Kind == "" {
		return nil, nil
	}
	build, ok := shapeBuilders[s.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
	}
	return build, nil
}

func (b *Body) inertia() (func(body *actor.MotionBody, s Shape, axis actor.Axis) error, error) {
	name := b.Inertia
	if name == "" {
		name = solidInertia[b.Shape.Kind]
	}
	if name == "" || name == "none" {
		return nil, nil
	}
	set, ok := inertiaSetters[name]
	if !ok {
		return nil, fmt.Errorf("unknown inertia %q", name)
	}
	return set, nil
}

func (s Shape) axis() (actor.Axis, error) {
	if s.Axis == "" {
		return actor.AxisZ, nil
	}
	return actor.ParseAxis(s.Axis)
}

// World builds the settings of a world running this scenario. The scenario
// is cloned, so later edits of c do not reach the world.
func (c *Config) World(logger *slog.Logger) (plume.Config, error) {
	if err := c.Validate(); err != nil {
		return plume.Config{}, err
	}
	scenario, err := c.Clone()
	if err != nil {
		return plume.Config{}, err
	}

	integrator, _ := actor.ParseIntegrator(scenario.Integrator)
	cfg := plume.Config{
		Rate:       scenario.Rate,
		Workers:    scenario.Workers,
		Integrator: integrator,
		Seed:       scenario.Seed,
		Logger:     logger,
		Setup:      scenario.Populate,
	}

	if scenario.Ray != nil {
		r, err := ray.New(scenario.Ray.Origin, scenario.Ray.Direction)
		if err != nil {
			return plume.Config{}, fmt.Errorf("scenario: ray: %w", err)
		}
		cfg.Ray = &r
	}
	return cfg, nil
}

// Populate adds every body to w. A body that fails to set up is logged and
// stays in the pool as an inert body, the others are still added.
func (c *Config) Populate(w *plume.World) error {
	var errs []error

	for i := range c.Bodies {
		body, err := c.Bodies[i].config(c.Jitter, w)
		if err == nil {
			_, err = w.AddBody(body)
		}
		if err != nil {
			errs = append(errs, errors.Log(fmt.Errorf("scenario: body %q: %w", c.Bodies[i].Name, err)))
		}
		if errors.Is(err, plume.ErrPoolFull) {
			break
		}
	}
	return errors.Join(errs...)
}

// config converts a body to the settings AddBody takes.
func (b *Body) config(jitter float64, w *plume.World) (plume.BodyConfig, error) {
	axis, err := b.Shape.axis()
	if err != nil {
		return plume.BodyConfig{}, err
	}
	build, err := b.Shape.builder()
	if err != nil {
		return plume.BodyConfig{}, err
	}
	setInertia, err := b.inertia()
	if err != nil {
		return plume.BodyConfig{}, err
	}

	position := b.Position
	if jitter > 0 {
		for i := range position {
			position[i] += (2*w.Rand().Float64() - 1) * jitter
		}
	}

	cfg := plume.BodyConfig{
		Position:        position,
		Orientation:     b.Orientation.quat(),
		Velocity:        b.Velocity,
		AngularVelocity: b.AngularVelocity,
		Mass:            b.Mass,
		Forces:          b.Forces.config(),
	}
	if build != nil {
		cfg.Hull = build(b.Shape, axis, b.aligned())
	}
	if setInertia != nil {
		shape := b.Shape
		cfg.Inertia = func(body *actor.MotionBody) error {
			return setInertia(body, shape, axis)
		}
	}
	return cfg, nil
}

// aligned reports whether the body keeps its local axes on the world axes.
func (b *Body) aligned() bool {
	still := mgl64.Vec3{}
	return b.Orientation.Degrees == 0 && b.AngularVelocity == still && b.Forces.Torque == still
}

func (r Rotation) quat() mgl64.Quat {
	if r.Degrees == 0 || r.Axis.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(mgl64.DegToRad(r.Degrees), r.Axis.Normalize())
}

func (f Forces) config() plume.ForceConfig {
	cfg := plume.ForceConfig{
		Up:      f.Up,
		Gravity: f.Gravity,
		Damping: f.Damping,
		Force:   f.Force,
		Torque:  f.Torque,
	}
	if d := f.Drag; d != nil {
		cfg.Drag = &plume.Drag{FluidVelocity: d.FluidVelocity, Density: d.Density, Area: d.Area, Coefficient: d.Coefficient}
	}
	if s := f.Spring; s != nil {
		cfg.Spring = &plume.Spring{Anchor: s.Anchor, RestLength: s.RestLength, Stiffness: s.Stiffness, Damping: s.Damping, Critical: s.Critical}
	}
	if s := f.Slope; s != nil {
		cfg.Slope = &plume.Slope{Normal: s.Normal, StaticFriction: s.StaticFriction, KineticFriction: s.KineticFriction}
	}
	if o := f.Orbit; o != nil {
		cfg.Orbit = &plume.Orbit{Center: o.Center, Radius: o.Radius, Period: o.Period}
	}
	return cfg
}
