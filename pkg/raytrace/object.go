package raytrace

import (
	"fmt"
	"math"

	"github.com/taigrr/tesseract/pkg/math4d"
)

// ParallelEpsilon is the smallest |N·D| for which a plane hit is computed.
// Rays closer to parallel than this miss the plane. Zero disables the guard
// for every ray that is not exactly parallel.
var ParallelEpsilon = 1e-9

// HyperSphere is the set of points at Radius from Position.
type HyperSphere struct {
	Position math4d.Vec4
	Radius   float64
	Material uint32
}

// Intersect returns the nearest hit in front of the ray origin.
// The direction need not be normalized.
func (s HyperSphere) Intersect(ray Ray) (Hit, bool) {
	oc := s.Position.Sub(ray.Origin)
	a := ray.Direction.Dot(ray.Direction)
	h := ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := h*h - a*c
	if discriminant < 0 {
		return Hit{}, false
	}

	distance := (h - math.Sqrt(discriminant)) / a
	if !(distance > 0) {
		return Hit{}, false
	}

	position := ray.At(distance)
	return Hit{
		Distance: distance,
		Position: position,
		Normal:   position.Sub(s.Position).Div(s.Radius),
		Material: s.Material,
	}, true
}

// HyperPlane is the 3D hyperplane through Position with unit Normal.
type HyperPlane struct {
	Position math4d.Vec4
	Normal   math4d.Vec4
	Material uint32
}

// Intersect returns the hit in front of the ray origin. The returned normal
// always faces against the ray.
func (p HyperPlane) Intersect(ray Ray) (Hit, bool) {
	denom := p.Normal.Dot(ray.Direction)
	if math.Abs(denom) <= ParallelEpsilon {
		return Hit{}, false
	}

	distance := p.Position.Sub(ray.Origin).Dot(p.Normal) / denom
	if !(distance > 0) || math.IsInf(distance, 0) {
		return Hit{}, false
	}

	return Hit{
		Distance: distance,
		Position: ray.At(distance),
		Normal:   p.Normal.Scale(-sign(denom)),
		Material: p.Material,
	}, true
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// Kind tags the variant held by an Object.
type Kind uint8

const (
	KindHyperSphere Kind = iota
	KindHyperPlane
)

func (k Kind) String() string {
	switch k {
	case KindHyperSphere:
		return "hypersphere"
	case KindHyperPlane:
		return "hyperplane"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Object is a scene primitive: exactly one of Sphere or Plane is
// meaningful, selected by Kind.
type Object struct {
	Kind   Kind
	Sphere HyperSphere
	Plane  HyperPlane
}

// NewHyperSphere creates a hypersphere object.
func NewHyperSphere(position math4d.Vec4, radius float64, material uint32) Object {
	return Object{
		Kind:   KindHyperSphere,
		Sphere: HyperSphere{Position: position, Radius: radius, Material: material},
	}
}

// NewHyperPlane creates a hyperplane object. The normal is normalized.
func NewHyperPlane(position, normal math4d.Vec4, material uint32) Object {
	return Object{
		Kind:  KindHyperPlane,
		Plane: HyperPlane{Position: position, Normal: normal.Normalize(), Material: material},
	}
}

// Position returns the object's reference point.
func (o Object) Position() math4d.Vec4 {
	switch o.Kind {
	case KindHyperSphere:
		return o.Sphere.Position
	case KindHyperPlane:
		return o.Plane.Position
	default:
		panic(fmt.Sprintf("raytrace: unknown object kind %v", o.Kind))
	}
}

// Translate moves the object by offset in place.
func (o *Object) Translate(offset math4d.Vec4) {
	switch o.Kind {
	case KindHyperSphere:
		o.Sphere.Position = o.Sphere.Position.Add(offset)
	case KindHyperPlane:
		o.Plane.Position = o.Plane.Position.Add(offset)
	default:
		panic(fmt.Sprintf("raytrace: unknown object kind %v", o.Kind))
	}
}

// Material returns the object's material index.
func (o Object) Material() uint32 {
	switch o.Kind {
	case KindHyperSphere:
		return o.Sphere.Material
	case KindHyperPlane:
		return o.Plane.Material
	default:
		panic(fmt.Sprintf("raytrace: unknown object kind %v", o.Kind))
	}
}

// Intersect dispatches to the variant's intersection test.
func (o Object) Intersect(ray Ray) (Hit, bool) {
	switch o.Kind {
	case KindHyperSphere:
		return o.Sphere.Intersect(ray)
	case KindHyperPlane:
		return o.Plane.Intersect(ray)
	default:
		panic(fmt.Sprintf("raytrace: unknown object kind %v", o.Kind))
	}
}
