package math4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotor is an element of the even subalgebra of Cl(4,0): one scalar, six
// bivector coefficients (one per coordinate plane) and the pseudoscalar.
//
// A unit rotor R rotates a vector v by the sandwich product R v R̃.
// Rotors compose by multiplication: b.Mul(a) rotates by a, then by b.
type Rotor struct {
	S     float64
	E12   float64
	E13   float64
	E14   float64
	E23   float64
	E24   float64
	E34   float64
	E1234 float64
}

// Identity is the rotor that leaves every vector unchanged.
var Identity = Rotor{S: 1}

// The plane constructors share one convention: RotationIJ(θ) turns axis I
// toward axis J by θ. Half angles make same-plane rotations add exactly.

// RotationXY returns a rotation by angle in the XY plane.
func RotationXY(angle float64) Rotor {
	s, c := math.Sincos(angle * 0.5)
	return Rotor{S: c, E12: -s}
}

// RotationXZ returns a rotation by angle in the XZ plane.
func RotationXZ(angle float64) Rotor {
	s, c := math.Sincos(angle * 0.5)
	return Rotor{S: c, E13: -s}
}

// RotationXW returns a rotation by angle in the XW plane.
func RotationXW(angle float64) Rotor {
	s, c := math.Sincos(angle * 0.5)
	return Rotor{S: c, E14: -s}
}

// RotationYZ returns a rotation by angle in the YZ plane.
func RotationYZ(angle float64) Rotor {
	s, c := math.Sincos(angle * 0.5)
	return Rotor{S: c, E23: -s}
}

// RotationYW returns a rotation by angle in the YW plane.
func RotationYW(angle float64) Rotor {
	s, c := math.Sincos(angle * 0.5)
	return Rotor{S: c, E24: -s}
}

// RotationZW returns a rotation by angle in the ZW plane.
func RotationZW(angle float64) Rotor {
	s, c := math.Sincos(angle * 0.5)
	return Rotor{S: c, E34: -s}
}

// RotorFrom builds a rotor from its coefficients in declaration order
// (S, E12, E13, E14, E23, E24, E34, E1234).
func RotorFrom(c [8]float64) Rotor {
	return Rotor{c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7]}
}

// Coefficients returns the eight coefficients in declaration order.
func (r Rotor) Coefficients() [8]float64 {
	return [8]float64{r.S, r.E12, r.E13, r.E14, r.E23, r.E24, r.E34, r.E1234}
}

// Reverse negates the bivector part. For a unit rotor this is the inverse.
func (r Rotor) Reverse() Rotor {
	return Rotor{
		S:     r.S,
		E12:   -r.E12,
		E13:   -r.E13,
		E14:   -r.E14,
		E23:   -r.E23,
		E24:   -r.E24,
		E34:   -r.E34,
		E1234: r.E1234,
	}
}

// Mul returns the geometric product r * o.
// The product is associative but not commutative.
func (r Rotor) Mul(o Rotor) Rotor {
	a, b12, b13, b14, b23, b24, b34, p := r.S, r.E12, r.E13, r.E14, r.E23, r.E24, r.E34, r.E1234
	c, c12, c13, c14, c23, c24, c34, q := o.S, o.E12, o.E13, o.E14, o.E23, o.E24, o.E34, o.E1234

	return Rotor{
		S: a*c - b12*c12 - b13*c13 - b14*c14 - b23*c23 - b24*c24 - b34*c34 + p*q,

		E12: a*c12 + b12*c - b13*c23 + b23*c13 - b14*c24 + b24*c14 - b34*q - p*c34,
		E13: a*c13 + b13*c + b12*c23 - b23*c12 - b14*c34 + b34*c14 + b24*q + p*c24,
		E14: a*c14 + b14*c + b12*c24 - b24*c12 + b13*c34 - b34*c13 - b23*q - p*c23,
		E23: a*c23 + b23*c - b12*c13 + b13*c12 - b24*c34 + b34*c24 - b14*q - p*c14,
		E24: a*c24 + b24*c - b12*c14 + b14*c12 + b23*c34 - b34*c23 + b13*q + p*c13,
		E34: a*c34 + b34*c - b13*c14 + b14*c13 - b23*c24 + b24*c23 - b12*q - p*c12,

		E1234: a*q + p*c + b12*c34 + b34*c12 - b13*c24 - b24*c13 + b14*c23 + b23*c14,
	}
}

// MagnitudeSquared returns the scalar part of r̃ r.
func (r Rotor) MagnitudeSquared() float64 {
	return r.Reverse().Mul(r).S
}

// Magnitude returns the rotor norm.
func (r Rotor) Magnitude() float64 {
	return math.Sqrt(r.MagnitudeSquared())
}

// Normalize scales r to unit magnitude. Composed rotors drift away from
// unit length in floating point, so callers renormalize after composing.
// A zero rotor normalizes to Identity.
func (r Rotor) Normalize() Rotor {
	m := r.Magnitude()
	if m == 0 {
		return Identity
	}
	inv := 1 / m
	return Rotor{
		S:     r.S * inv,
		E12:   r.E12 * inv,
		E13:   r.E13 * inv,
		E14:   r.E14 * inv,
		E23:   r.E23 * inv,
		E24:   r.E24 * inv,
		E34:   r.E34 * inv,
		E1234: r.E1234 * inv,
	}
}

// Rotate applies the sandwich product r v r̃.
//
// The product is expanded in two stages: t = r v is an odd multivector
// (vector part t1..t4, trivector part t123..t234), and the result is the
// vector part of t r̃. A non-unit rotor scales the result by its squared
// magnitude.
func (r Rotor) Rotate(v Vec4) Vec4 {
	a, b12, b13, b14, b23, b24, b34, p := r.S, r.E12, r.E13, r.E14, r.E23, r.E24, r.E34, r.E1234
	x, y, z, w := v.X, v.Y, v.Z, v.W

	t1 := a*x + b12*y + b13*z + b14*w
	t2 := a*y - b12*x + b23*z + b24*w
	t3 := a*z - b13*x - b23*y + b34*w
	t4 := a*w - b14*x - b24*y - b34*z

	t123 := b12*z - b13*y + b23*x + p*w
	t124 := b12*w - b14*y + b24*x - p*z
	t134 := b13*w - b14*z + b34*x + p*y
	t234 := b23*w - b24*z + b34*y - p*x

	return Vec4{
		X: a*t1 + b12*t2 + b13*t3 + b14*t4 + b23*t123 + b24*t124 + b34*t134 + p*t234,
		Y: a*t2 - b12*t1 + b23*t3 + b24*t4 - b13*t123 - b14*t124 + b34*t234 - p*t134,
		Z: a*t3 - b13*t1 - b23*t2 + b34*t4 + b12*t123 - b14*t134 - b24*t234 + p*t124,
		W: a*t4 - b14*t1 - b24*t2 - b34*t3 + b12*t124 + b13*t134 + b23*t234 - p*t123,
	}
}

// Matrix returns the 4x4 rotation matrix equivalent to r.
// Column i is the image of basis vector e(i+1).
func (r Rotor) Matrix() mgl64.Mat4 {
	cx := r.Rotate(UnitX())
	cy := r.Rotate(UnitY())
	cz := r.Rotate(UnitZ())
	cw := r.Rotate(UnitW())
	return mgl64.Mat4{
		cx.X, cx.Y, cx.Z, cx.W,
		cy.X, cy.Y, cy.Z, cy.W,
		cz.X, cz.Y, cz.Z, cz.W,
		cw.X, cw.Y, cw.Z, cw.W,
	}
}

// ApproxEqual reports whether every coefficient of r and o differs by at
// most tol.
func (r Rotor) ApproxEqual(o Rotor, tol float64) bool {
	rc, oc := r.Coefficients(), o.Coefficients()
	for i := range rc {
		if math.Abs(rc[i]-oc[i]) > tol {
			return false
		}
	}
	return true
}
