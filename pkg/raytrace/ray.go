// Package raytrace provides 4D rays, hit records and the closed-form
// intersection tests used for picking and shading.
package raytrace

import "github.com/taigrr/tesseract/pkg/math4d"

// Ray is a half-line in 4D space. Direction is expected, not required, to
// be unit length.
type Ray struct {
	Origin    math4d.Vec4
	Direction math4d.Vec4
}

// NewRay creates a ray with a normalized direction.
func NewRay(origin, direction math4d.Vec4) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) math4d.Vec4 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit records where a ray struck a surface.
type Hit struct {
	Distance float64     // Ray parameter of the hit, always > 0
	Position math4d.Vec4 // Point of intersection
	Normal   math4d.Vec4 // Unit surface normal
	Material uint32      // Opaque material index copied from the object
}
