// Package scenario describes the bodies of a world in TOML and populates a
// plume.World from that description.
//
// A scenario file looks like:
//
//	rate = 100
//	seed = 0
//
//	[[body]]
//	name = "gravity"
//	position = [0.0, 8.0, 6.0]
//	mass = 1.0
//	shape = { kind = "sphere", radius = 0.5 }
//	forces = { gravity = true }
package scenario

import (
	"fmt"
	"os"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"github.com/akmonengine/plume"
	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"
)

// ErrTooManyBodies is returned by Validate when a scenario does not fit in a
// world's pool.
var ErrTooManyBodies = errors.New("scenario: more bodies than a world holds")

// Config is a scenario file.
type Config struct {
	// Rate is the target updates per second, 0 for continuous stepping.
	Rate    float64 `toml:"rate" default:"100"`
	Workers int     `toml:"workers" default:"1"`
	// Integrator is "kinematic", "explicit" or "semi-implicit".
	Integrator string `toml:"integrator" default:"kinematic"`
	Seed       int64  `toml:"seed" default:"0"`
	// Jitter offsets every initial position by up to this distance on each
	// axis, drawn from the world's generator.
	Jitter float64 `toml:"jitter"`
	// Ray is cast against the world after every tick when set.
	Ray    *Ray   `toml:"ray,omitempty"`
	Bodies []Body `toml:"body"`
}

// Ray is a query ray.
type Ray struct {
	Origin    mgl64.Vec3 `toml:"origin"`
	Direction mgl64.Vec3 `toml:"direction"`
}

// Body is one body of the pool. A body without shape kind has no hull.
type Body struct {
	Name            string     `toml:"name"`
	Position        mgl64.Vec3 `toml:"position"`
	Orientation     Rotation   `toml:"orientation"`
	Velocity        mgl64.Vec3 `toml:"velocity"`
	AngularVelocity mgl64.Vec3 `toml:"angular_velocity"`
	// Mass in kg. Zero makes the body immovable.
	Mass  float64 `toml:"mass"`
	Shape Shape   `toml:"shape"`
	// Inertia names the tensor formula, using the shape dimensions. Empty
	// picks the solid tensor of the shape, "none" leaves it zero.
	Inertia string `toml:"inertia"`
	Forces  Forces `toml:"forces"`
}

// Rotation is an axis and an angle in degrees.
type Rotation struct {
	Axis    mgl64.Vec3 `toml:"axis"`
	Degrees float64    `toml:"degrees"`
}

// Shape holds the dimensions used by its kind.
type Shape struct {
	// Kind is "point", "plane", "disc", "box", "sphere", "cylinder" or
	// "mesh". Empty means no hull.
	Kind   string  `toml:"kind"`
	Radius float64 `toml:"radius"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Depth  float64 `toml:"depth"`
	Length float64 `toml:"length"`
	// Axis is the plane or disc normal and the cylinder axis: "x", "y" or
	// "z". Empty means "z".
	Axis   string       `toml:"axis"`
	Points []mgl64.Vec3 `toml:"points"`
}

// Forces mirrors plume.ForceConfig.
type Forces struct {
	Up      mgl64.Vec3 `toml:"up"`
	Gravity bool       `toml:"gravity"`
	Damping float64    `toml:"damping"`
	Force   mgl64.Vec3 `toml:"force"`
	Torque  mgl64.Vec3 `toml:"torque"`
	Drag    *Drag      `toml:"drag,omitempty"`
	Spring  *Spring    `toml:"spring,omitempty"`
	Slope   *Slope     `toml:"slope,omitempty"`
	Orbit   *Orbit     `toml:"orbit,omitempty"`
}

type Drag struct {
	FluidVelocity mgl64.Vec3 `toml:"fluid_velocity"`
	Density       float64    `toml:"density"`
	Area          float64    `toml:"area"`
	Coefficient   float64    `toml:"coefficient"`
}

type Spring struct {
	Anchor     mgl64.Vec3 `toml:"anchor"`
	RestLength float64    `toml:"rest_length"`
	Stiffness  float64    `toml:"stiffness"`
	Damping    float64    `toml:"damping"`
	Critical   bool       `toml:"critical"`
}

type Slope struct {
	Normal          mgl64.Vec3 `toml:"normal"`
	StaticFriction  float64    `toml:"static_friction"`
	KineticFriction float64    `toml:"kinetic_friction"`
}

type Orbit struct {
	Center mgl64.Vec3 `toml:"center"`
	Radius float64    `toml:"radius"`
	Period float64    `toml:"period"`
}

// New returns an empty scenario with its default settings.
func New() *Config {
	cfg := &Config{}
	// defaults are static tags, a failure is logged by SetFromDefaults
	_ = cli.SetFromDefaults(cfg)
	return cfg
}

// Parse decodes a TOML scenario over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := New()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes the scenario as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Clone returns a deep copy, so a world can keep its scenario while the
// original is reloaded or edited.
func (c *Config) Clone() (*Config, error) {
	clone := &Config{}
	if err := copier.CopyWithOption(clone, c, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("scenario: clone: %w", err)
	}
	return clone, nil
}

// Validate checks every name and count of the scenario.
func (c *Config) Validate() error {
	var errs []error

	if _, err := actor.ParseIntegrator(c.Integrator); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("scenario: negative worker count %d", c.Workers))
	}
	if len(c.Bodies) > plume.MaxBodies {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrTooManyBodies, len(c.Bodies), plume.MaxBodies))
	}
	if c.Ray != nil && c.Ray.Direction.LenSqr() == 0 {
		errs = append(errs, fmt.Errorf("scenario: ray without direction"))
	}

	for i := range c.Bodies {
		if err := c.Bodies[i].validate(); err != nil {
			errs = append(errs, fmt.Errorf("body %d %q: %w", i, c.Bodies[i].Name, err))
		}
	}
	return errors.Join(errs...)
}

func (b *Body) validate() error {
	if b.Mass < 0 {
		return actor.ErrNegativeMass
	}
	if _, err := b.Shape.axis(); err != nil {
		return err
	}
	if _, err := b.Shape.builder(); err != nil {
		return err
	}
	_, err := b.inertia()
	return err
}
