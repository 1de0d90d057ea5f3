// Package math4d provides 4D vectors and rotors for the tesseract engine.
package math4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec4 represents a point or direction in 4D Euclidean space.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Zero4 returns the zero vector.
func Zero4() Vec4 {
	return Vec4{}
}

// UnitX returns the basis vector e1.
func UnitX() Vec4 { return Vec4{1, 0, 0, 0} }

// UnitY returns the basis vector e2.
func UnitY() Vec4 { return Vec4{0, 1, 0, 0} }

// UnitZ returns the basis vector e3.
func UnitZ() Vec4 { return Vec4{0, 0, 1, 0} }

// UnitW returns the basis vector e4.
func UnitW() Vec4 { return Vec4{0, 0, 0, 1} }

// Add returns the vector sum a + b.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the vector difference a - b.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale returns the scalar product v * s.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Div returns the scalar division v / s.
func (v Vec4) Div(s float64) Vec4 {
	return Vec4{v.X / s, v.Y / s, v.Z / s, v.W / s}
}

// Dot returns the dot product a · b.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Len returns the length of the vector.
func (v Vec4) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// LenSq returns the squared length (no sqrt).
func (v Vec4) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W
}

// Normalize returns the unit vector in the same direction.
// The zero vector stays zero.
func (v Vec4) Normalize() Vec4 {
	l := v.Len()
	if l == 0 {
		return Vec4{}
	}
	return Vec4{v.X / l, v.Y / l, v.Z / l, v.W / l}
}

// Negate returns the negated vector.
func (v Vec4) Negate() Vec4 {
	return Vec4{-v.X, -v.Y, -v.Z, -v.W}
}

// Lerp returns the linear interpolation between a and b by t.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
		a.W + (b.W-a.W)*t,
	}
}

// Distance returns the distance between two points.
//
//nolint:st1016 // a,b naming convention is clearer for vector operations
func (a Vec4) Distance(b Vec4) float64 {
	return a.Sub(b).Len()
}

// IsFinite reports whether every component is neither NaN nor ±Inf.
func (v Vec4) IsFinite() bool {
	for _, c := range v.Floats() {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Floats returns the components as a slice, X first.
func (v Vec4) Floats() []float64 {
	return []float64{v.X, v.Y, v.Z, v.W}
}

// Mgl returns v as an mgl64 vector.
func (v Vec4) Mgl() mgl64.Vec4 {
	return mgl64.Vec4{v.X, v.Y, v.Z, v.W}
}

// FromMgl converts an mgl64 vector.
func FromMgl(m mgl64.Vec4) Vec4 {
	return Vec4{m[0], m[1], m[2], m[3]}
}
