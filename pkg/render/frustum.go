package render

import (
	"math"

	"github.com/taigrr/tesseract/pkg/math4d"
	"github.com/taigrr/tesseract/pkg/raytrace"
)

// Plane is a hyperplane in 4D space: Normal·p + D = 0.
type Plane struct {
	Normal math4d.Vec4
	D      float64
}

// PlaneThrough returns the plane with the given normal passing through p.
func PlaneThrough(normal, p math4d.Vec4) Plane {
	pl := Plane{Normal: normal, D: -normal.Dot(p)}
	pl.Normalize()
	return pl
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math4d.Vec4) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the part of the scene primary rays can reach: the pyramid
// through the image plane edges, cut down to the 3D slice through the eye
// spanned by forward, up and right. Normals point inward.
type Frustum struct {
	Planes [7]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumAna
	FrustumKata
)

// NewFrustum builds the frustum of a camera uniform.
func NewFrustum(u CameraUniform) Frustum {
	eye := math4d.FromMgl(u.Position)
	fwd := math4d.FromMgl(u.Forward)
	up := math4d.FromMgl(u.Up)
	right := math4d.FromMgl(u.Right)
	ana := math4d.FromMgl(u.Ana)

	halfV := math.Tan(u.FOV / 2)
	halfU := halfV * u.Aspect

	var f Frustum
	f.Planes[FrustumLeft] = PlaneThrough(right.Add(fwd.Scale(halfU)), eye)
	f.Planes[FrustumRight] = PlaneThrough(right.Negate().Add(fwd.Scale(halfU)), eye)
	f.Planes[FrustumBottom] = PlaneThrough(up.Add(fwd.Scale(halfV)), eye)
	f.Planes[FrustumTop] = PlaneThrough(up.Negate().Add(fwd.Scale(halfV)), eye)
	f.Planes[FrustumNear] = PlaneThrough(fwd, eye)
	f.Planes[FrustumAna] = PlaneThrough(ana, eye)
	f.Planes[FrustumKata] = PlaneThrough(ana.Negate(), eye)
	return f
}

// IntersectsSphere tests if a hypersphere intersects the frustum. The test
// is conservative: it may keep spheres near an edge that no ray hits.
func (f Frustum) IntersectsSphere(center math4d.Vec4, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

// Cull returns the indices, in order, of the objects a primary ray might
// hit. Hyperplanes are always kept.
func (f Frustum) Cull(objects []raytrace.Object) []int {
	visible := make([]int, 0, len(objects))
	for i, o := range objects {
		if o.Kind == raytrace.KindHyperSphere && !f.IntersectsSphere(o.Sphere.Position, o.Sphere.Radius) {
			continue
		}
		visible = append(visible, i)
	}
	return visible
}
