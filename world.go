package plume

import (
	"errors"
	"fmt"
	"log/slog"

	"cogentcore.org/core/base/randx"
	"github.com/akmonengine/plume/actor"
	"github.com/akmonengine/plume/hull"
	"github.com/akmonengine/plume/ray"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

var (
	// ErrPoolFull is returned by AddBody once MaxBodies bodies are in use.
	ErrPoolFull = errors.New("plume: body pool is full")
	// ErrWorldRunning is returned when the pool is changed outside of setup.
	ErrWorldRunning = errors.New("plume: world is running")
)

// Config holds the settings of a world. The zero value is a continuous,
// single-worker world using the kinematic integrator and seed 0.
type Config struct {
	// Rate is the target updates per second, 0 for continuous stepping.
	Rate    float64
	Workers int
	// Integrator advances every body.
	Integrator actor.Integrator
	// Seed reseeds Rand each time the world starts.
	Seed int64
	// Rand is the generator handed to Setup, a new SysRand when nil.
	Rand   randx.Rand
	Logger *slog.Logger
	// Ray, when set, is cast against the published hulls after every tick.
	Ray *ray.Ray
	// Setup populates the pool with AddBody when the world starts. An error
	// is logged and the world runs with the bodies that were added.
	Setup func(w *World) error
}

// BodyConfig describes one body added to the pool.
type BodyConfig struct {
	Position mgl64.Vec3
	// Orientation is normalized, the identity when zero.
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Mass            float64
	// Inertia sets the local inertia tensor, after the mass.
	Inertia func(body *actor.MotionBody) error
	// Hull builds the collision hull around the borrowed published
	// transforms of the body.
	Hull   func(transform, inverse *mgl64.Mat4) (hull.ConvexHull, error)
	Forces ForceConfig
}

// World simulates a fixed pool of bodies on its own goroutine and publishes
// a State after every tick.
//
// Bodies, Hulls and Forces belong to the simulation goroutine while the
// world runs. Other goroutines read the published State through Snapshot and
// query it with RayTest. Hulls borrow the published transforms, so they are
// only read under the lock or from the simulation goroutine.
type World struct {
	Bodies [MaxBodies]actor.MotionBody
	Hulls  [MaxBodies]hull.ConvexHull
	Forces [MaxBodies]ForceConfig
	Events Events

	count   int
	indices [MaxBodies]int
	elapsed float64
	ticks   uint64

	rate       float64
	workers    int
	integrator actor.Integrator
	seed       int64
	rand       randx.Rand
	logger     *slog.Logger
	rayQuery   *ray.Ray
	setup      func(w *World) error

	lock    Lock
	state   State
	staging State
	rayHit  ray.Hit
	rayBody int

	lifecycle
}

// NewWorld returns an uninitialized world.
func NewWorld(cfg Config) *World {
	w := &World{
		Events:     NewEvents(),
		rate:       max(cfg.Rate, 0),
		workers:    max(DEFAULT_WORKERS, cfg.Workers),
		integrator: cfg.Integrator,
		seed:       cfg.Seed,
		rand:       cfg.Rand,
		logger:     cfg.Logger,
		rayQuery:   cfg.Ray,
		setup:      cfg.Setup,
		rayBody:    -1,
	}
	if w.rand == nil {
		w.rand = randx.NewSysRand(cfg.Seed)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	w.logger = w.logger.With("component", "physics")

	for i := range w.indices {
		w.indices[i] = i
	}
	w.reset()
	return w
}

// Rand returns the generator of the world, reseeded on every start.
func (w *World) Rand() randx.Rand {
	return w.rand
}

// Count returns the number of bodies in the pool.
func (w *World) Count() int {
	return w.count
}

// AddBody takes the next free body of the pool and configures it.
//
// A body whose mass or hull cannot be set is kept in the pool but left
// inert, with zero mass and no hull; its index is returned with the error.
func (w *World) AddBody(cfg BodyConfig) (int, error) {
	if w.Status() == StatusRunning {
		return -1, ErrWorldRunning
	}
	if w.count >= MaxBodies {
		return -1, ErrPoolFull
	}

	i := w.count
	w.count++

	body := &w.Bodies[i]
	body.Reset()
	body.Transform.Position = cfg.Position
	if cfg.Orientation != (mgl64.Quat{}) {
		body.Transform.Rotation = cfg.Orientation.Normalize()
	}
	body.Velocity = cfg.Velocity
	body.AngularVelocity = cfg.AngularVelocity
	w.Forces[i] = cfg.Forces
	if orbit := cfg.Forces.Orbit; orbit != nil {
		orbit.place(body, cfg.Forces.up(), w.elapsed)
	}
	body.UpdateTransform()

	var shape hull.ConvexHull
	err := body.SetMass(cfg.Mass)
	if err == nil {
		if cfg.Inertia != nil {
			err = cfg.Inertia(body)
		}
		body.UpdateWorldCenterOfMass(body.Matrix)
		body.UpdateWorldInertiaTensor(body.Matrix)

		if err == nil && cfg.Hull != nil {
			shape, err = cfg.Hull(&w.state.Transform[i], &w.state.InverseTransform[i])
		}
	}
	if err != nil {
		w.makeInert(i)
		shape = hull.ConvexHull{}
		err = fmt.Errorf("plume: body %d: %w", i, err)
	}

	w.staging.capture(i, body)
	w.staging.Count = w.count

	owner := w.lock.Acquire()
	w.Hulls[i] = shape
	w.state = w.staging
	w.release(owner)

	return i, err
}

func (w *World) makeInert(i int) {
	body := &w.Bodies[i]
	position, rotation := body.Transform.Position, body.Transform.Rotation
	body.Reset()
	body.Transform.Position = position
	body.Transform.Rotation = rotation
	body.UpdateTransform()
	w.Forces[i] = ForceConfig{}
}

// Update advances every body by dt seconds, publishes the result, then
// reports collisions and runs the configured ray query.
//
// The simulation goroutine calls Update on every tick. Call it directly only
// on a world that is not running.
func (w *World) Update(dt float64) {
	w.elapsed += dt
	w.ticks++

	task(w.workers, w.indices[:w.count], func(i int) {
		w.step(i, dt)
	})
	w.staging.Count = w.count
	w.staging.Tick = w.ticks
	w.staging.Time = w.elapsed

	w.publish()

	w.detectCollisions()
	if w.rayQuery != nil {
		owner := w.lock.Acquire()
		w.rayHit, w.rayBody = w.rayTest(*w.rayQuery)
		w.release(owner)
	}
}

// step updates one body into the staging state. Bodies are independent, so
// steps run concurrently.
func (w *World) step(i int, dt float64) {
	body := &w.Bodies[i]
	forces := &w.Forces[i]

	body.ResetForce()
	body.ResetTorque()
	forces.apply(body)

	body.Integrate(w.integrator, dt)
	body.ConvertForce()
	body.ConvertTorque()

	if orbit := forces.Orbit; orbit != nil {
		orbit.place(body, forces.up(), w.elapsed)
	}

	body.UpdateTransform()
	body.UpdateWorldCenterOfMass(body.Matrix)
	body.UpdateWorldInertiaTensor(body.Matrix)

	w.staging.capture(i, body)
}

func (w *World) detectCollisions() {
	hulls := w.Hulls[:w.count]
	contacts := NarrowPhase(hulls, AllPairs(hulls), w.workers, w.logger)

	w.Events.recordCollisions(contacts)
	w.Events.flush()
}

// publish copies the staging state into the published one.
func (w *World) publish() {
	owner := w.lock.Acquire()
	w.state = w.staging
	w.release(owner)
}

func (w *World) release(owner Owner) {
	if err := w.lock.Release(owner); err != nil {
		w.logger.Error("release world lock", "error", err)
	}
}

// Snapshot returns a copy of the last published state.
func (w *World) Snapshot() State {
	owner := w.lock.Acquire()
	defer w.release(owner)
	return w.state
}

// RayTest casts r against every published hull and returns the closest hit
// in front of the origin, with the index of the body it belongs to. The
// index is -1 on a miss.
func (w *World) RayTest(r ray.Ray) (ray.Hit, int) {
	owner := w.lock.Acquire()
	defer w.release(owner)
	return w.rayTest(r)
}

func (w *World) rayTest(r ray.Ray) (ray.Hit, int) {
	closest, index := ray.ResetHit(r), -1

	for i := range w.state.Count {
		hit := ray.TestHull(r, &w.Hulls[i])
		if !hit.Validate() {
			continue
		}
		if index < 0 || hit.NearParam < closest.NearParam {
			closest, index = hit, i
		}
	}
	return closest, index
}

// LastRayHit returns the result of the ray query of the last tick.
func (w *World) LastRayHit() (ray.Hit, int) {
	owner := w.lock.Acquire()
	defer w.release(owner)
	return w.rayHit, w.rayBody
}

// reset empties the pool and publishes an empty state.
func (w *World) reset() {
	for i := range MaxBodies {
		w.Bodies[i].Reset()
		w.Forces[i] = ForceConfig{}
	}
	w.count = 0
	w.elapsed = 0
	w.ticks = 0
	w.staging.Reset()
	w.Events.reset()

	owner := w.lock.Acquire()
	clear(w.Hulls[:])
	w.state = w.staging
	w.rayHit, w.rayBody = ray.Hit{}, -1
	w.release(owner)
}
