package actor

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis selects a body axis: 0, 1 and 2 for x, y and z, matching the column
// index in a matrix.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Valid reports whether a is one of AxisX, AxisY and AxisZ.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// ParseAxis maps "x", "y" or "z" to its Axis.
func ParseAxis(name string) (Axis, error) {
	switch name {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("%w %q", ErrInvalidAxis, name)
}

// Closed-form inertia tensors for canonical shapes. Set the mass first: every
// tensor scales with it.

// SetInertiaSphereSolid: I = (2/5) m r² on every axis.
func (mb *MotionBody) SetInertiaSphereSolid(radius float64) {
	i := (2.0 / 5.0) * mb.mass * radius * radius
	mb.setInertiaDiagonal(i, i, i)
}

// SetInertiaSphereHollow: I = (2/3) m r² on every axis.
func (mb *MotionBody) SetInertiaSphereHollow(radius float64) {
	i := (2.0 / 3.0) * mb.mass * radius * radius
	mb.setInertiaDiagonal(i, i, i)
}

// SetInertiaBoxSolid uses full dimensions along x, y and z:
// Ix = m/12 (h² + d²), and so on.
func (mb *MotionBody) SetInertiaBoxSolid(width, height, depth float64) {
	factor := mb.mass / 12.0
	w2, h2, d2 := width*width, height*height, depth*depth

	mb.setInertiaDiagonal(
		factor*(h2+d2),
		factor*(w2+d2),
		factor*(w2+h2),
	)
}

// SetInertiaBoxHollow treats the box as six thin walls of uniform surface
// density. A cube of side s gives 5/18 m s².
func (mb *MotionBody) SetInertiaBoxHollow(width, height, depth float64) {
	area := 2 * (width*height + width*depth + height*depth)
	if area == 0 {
		mb.setInertiaDiagonal(0, 0, 0)
		return
	}
	sigma := mb.mass / area

	mb.setInertiaDiagonal(
		sigma*wallInertia(width, height, depth),
		sigma*wallInertia(height, width, depth),
		sigma*wallInertia(depth, width, height),
	)
}

// wallInertia is the inertia, per unit surface density, of a thin-walled box
// about the axis along a, b and c being the other two dimensions.
func wallInertia(a, b, c float64) float64 {
	b2, c2 := b*b, c*c
	// the two walls perpendicular to the axis, then the four parallel ones
	return b*c*(b2+c2)/6 +
		a*c*(b2/2+c2/6) +
		a*b*(c2/2+b2/6)
}

// SetInertiaCylinderSolid: ½ m r² about the body axis, m/12 (3r² + h²)
// about the other two.
func (mb *MotionBody) SetInertiaCylinderSolid(radius, height float64, axis Axis) error {
	r2 := radius * radius
	axial := 0.5 * mb.mass * r2
	transverse := mb.mass / 12.0 * (3*r2 + height*height)
	return mb.setInertiaAxial(axial, transverse, axis)
}

// SetInertiaConeSolidApex: 3/10 m r² about the body axis, 3/5 m (r²/4 + h²)
// about the other two, through the apex.
func (mb *MotionBody) SetInertiaConeSolidApex(radius, height float64, axis Axis) error {
	r2 := radius * radius
	axial := 0.3 * mb.mass * r2
	transverse := 0.6 * mb.mass * (0.25*r2 + height*height)
	return mb.setInertiaAxial(axial, transverse, axis)
}

// SetInertiaRodEnd: m L² / 3 about the axes perpendicular to the rod, which
// lies along the body axis. The axial inertia is zero.
func (mb *MotionBody) SetInertiaRodEnd(length float64, axis Axis) error {
	return mb.setInertiaAxial(0, mb.mass*length*length/3.0, axis)
}

// SetInertiaRodCenter: m L² / 12 about the axes perpendicular to the rod.
func (mb *MotionBody) SetInertiaRodCenter(length float64, axis Axis) error {
	return mb.setInertiaAxial(0, mb.mass*length*length/12.0, axis)
}

// setInertiaAxial leaves the tensor untouched for an invalid axis.
func (mb *MotionBody) setInertiaAxial(axial, transverse float64, axis Axis) error {
	if !axis.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidAxis, axis)
	}
	d := [3]float64{transverse, transverse, transverse}
	d[axis] = axial
	mb.setInertiaDiagonal(d[0], d[1], d[2])
	return nil
}

// setInertiaDiagonal stores a diagonal tensor and its inverse. Zero entries
// (rods about their own axis, massless bodies) invert to zero.
func (mb *MotionBody) setInertiaDiagonal(ix, iy, iz float64) {
	mb.LocalInertia = mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
	mb.LocalInverseInertia = mgl64.Mat3{
		invertOrZero(ix), 0, 0,
		0, invertOrZero(iy), 0,
		0, 0, invertOrZero(iz),
	}
}

func invertOrZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return 1.0 / v
}

// ComputeCenterOfMassAndTotalMass accumulates point-mass influences given in
// local space: the body mass becomes Σm and the local center of mass
// Σ(m p) / Σm.
func (mb *MotionBody) ComputeCenterOfMassAndTotalMass(influences []mgl64.Vec3, masses []float64) error {
	if len(influences) != len(masses) {
		return ErrLengthMismatch
	}

	var total float64
	var weighted mgl64.Vec3
	for i, p := range influences {
		total += masses[i]
		weighted = weighted.Add(p.Mul(masses[i]))
	}

	if total == 0 {
		return ErrZeroTotalMass
	}
	if err := mb.SetMass(total); err != nil {
		return err
	}
	mb.LocalCenterOfMass = weighted.Mul(mb.inverseMass)
	return nil
}

// ComputeInertiaTensor accumulates the symmetric tensor of point-mass
// influences about the local center of mass, which must be computed first,
// then stores it with its inverse.
func (mb *MotionBody) ComputeInertiaTensor(influences []mgl64.Vec3, masses []float64) error {
	if len(influences) != len(masses) {
		return ErrLengthMismatch
	}

	var ixx, iyy, izz, ixy, ixz, iyz float64
	for i, p := range influences {
		r := p.Sub(mb.LocalCenterOfMass)
		m := masses[i]
		x2, y2, z2 := r[0]*r[0], r[1]*r[1], r[2]*r[2]

		ixx += m * (y2 + z2)
		iyy += m * (x2 + z2)
		izz += m * (x2 + y2)
		ixy -= m * r[0] * r[1]
		ixz -= m * r[0] * r[2]
		iyz -= m * r[1] * r[2]
	}

	tensor := mgl64.Mat3{
		ixx, ixy, ixz,
		ixy, iyy, iyz,
		ixz, iyz, izz,
	}

	det := tensor.Det()
	if math.Abs(det) < 1e-12 {
		return fmt.Errorf("%w: determinant %g", ErrSingularTensor, det)
	}

	mb.LocalInertia = tensor
	mb.LocalInverseInertia = tensor.Inv()
	return nil
}

// UpdateWorldCenterOfMass maps the local center of mass through transform.
func (mb *MotionBody) UpdateWorldCenterOfMass(transform mgl64.Mat4) {
	mb.WorldCenterOfMass = TransformPoint(transform, mb.LocalCenterOfMass)
}

// UpdateWorldInertiaTensor changes the basis of the local tensor and its
// inverse with the rotation block R of transform: I_world = R * I_local * R^T.
func (mb *MotionBody) UpdateWorldInertiaTensor(transform mgl64.Mat4) {
	R := transform.Mat3()
	RT := R.Transpose()

	mb.WorldInertia = R.Mul3(mb.LocalInertia).Mul3(RT)
	mb.WorldInverseInertia = R.Mul3(mb.LocalInverseInertia).Mul3(RT)
}
