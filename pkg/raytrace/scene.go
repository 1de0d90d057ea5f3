package raytrace

// Scene is an ordered collection of objects. Order matters only for ties:
// the first object wins when two hits share a distance.
type Scene struct {
	Objects []Object
}

// NewScene creates a scene holding objs.
func NewScene(objs ...Object) *Scene {
	return &Scene{Objects: objs}
}

// Add appends an object and returns its index.
func (s *Scene) Add(o Object) int {
	s.Objects = append(s.Objects, o)
	return len(s.Objects) - 1
}

// Remove deletes the object at index i, keeping the order of the rest.
// Out of range indices are ignored.
func (s *Scene) Remove(i int) {
	if i < 0 || i >= len(s.Objects) {
		return
	}
	s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.Objects)
}

// Intersect returns the nearest hit among all objects and its index.
func (s *Scene) Intersect(ray Ray) (int, Hit, bool) {
	return IntersectAll(ray, s.Objects)
}

// Occluded reports whether any object is hit closer than maxDist.
func (s *Scene) Occluded(ray Ray, maxDist float64) bool {
	for _, o := range s.Objects {
		if hit, ok := o.Intersect(ray); ok && hit.Distance < maxDist {
			return true
		}
	}
	return false
}

// IntersectAll tests every object and keeps the minimum-distance hit.
// Ties keep the earliest object.
func IntersectAll(ray Ray, objects []Object) (int, Hit, bool) {
	index := -1
	var nearest Hit
	for i, o := range objects {
		hit, ok := o.Intersect(ray)
		if !ok {
			continue
		}
		if index < 0 || hit.Distance < nearest.Distance {
			index = i
			nearest = hit
		}
	}
	return index, nearest, index >= 0
}
