package plume

import (
	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxBodies is the capacity of a world's body pool.
const MaxBodies = 16

// State is the published result of one tick. It is a plain value: copying it
// copies every body.
type State struct {
	Position         [MaxBodies]mgl64.Vec3
	Orientation      [MaxBodies]mgl64.Quat
	Transform        [MaxBodies]mgl64.Mat4
	InverseTransform [MaxBodies]mgl64.Mat4
	// Count is the number of active bodies.
	Count int
	// Tick is the number of updates that produced this state.
	Tick uint64
	// Time is the simulated time in seconds.
	Time float64
}

// Reset clears the state to zero bodies at the origin with identity
// orientations and transforms.
func (s *State) Reset() {
	*s = State{}
	for i := range MaxBodies {
		s.Orientation[i] = mgl64.QuatIdent()
		s.Transform[i] = mgl64.Ident4()
		s.InverseTransform[i] = mgl64.Ident4()
	}
}

func (s *State) capture(i int, body *actor.MotionBody) {
	s.Position[i] = body.Transform.Position
	s.Orientation[i] = body.Transform.Rotation
	s.Transform[i] = body.Matrix
	s.InverseTransform[i] = body.InverseMatrix
}
