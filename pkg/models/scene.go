// Package models loads and saves 4D scenes: hyperspheres and hyperplanes
// with their materials and the starting eye position.
package models

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/tesseract/pkg/math4d"
	"github.com/taigrr/tesseract/pkg/raytrace"
)

// Scene is a loaded scene description. Object material indices refer to
// Materials.
type Scene struct {
	Name      string
	Objects   []raytrace.Object
	Materials []Material

	// Start is the initial eye position.
	Start math4d.Vec4
}

// Material is a PBR material. Only the base color is used for shading.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Metallic  float64    // 0 = dielectric, 1 = metal
	Roughness float64    // 0 = smooth, 1 = rough
}

// Color returns the material's RGB base color.
func (m Material) Color() mgl64.Vec3 {
	return mgl64.Vec3{m.BaseColor[0], m.BaseColor[1], m.BaseColor[2]}
}

// Colors returns the base colors of every material, indexed like Materials.
func (s *Scene) Colors() []mgl64.Vec3 {
	colors := make([]mgl64.Vec3, len(s.Materials))
	for i, m := range s.Materials {
		colors[i] = m.Color()
	}
	return colors
}

// DefaultStart is the eye position of the built-in scene.
var DefaultStart = math4d.V4(-3, 0, 0, 0)

// DefaultScene returns a ground hyperplane with a handful of hyperspheres
// spread along the w axis.
func DefaultScene() *Scene {
	return &Scene{
		Name: "default",
		Materials: []Material{
			{Name: "ground", BaseColor: [4]float64{0.55, 0.55, 0.5, 1}, Roughness: 1},
			{Name: "red", BaseColor: [4]float64{0.9, 0.25, 0.2, 1}, Roughness: 0.5},
			{Name: "green", BaseColor: [4]float64{0.25, 0.8, 0.3, 1}, Roughness: 0.5},
			{Name: "blue", BaseColor: [4]float64{0.25, 0.4, 0.9, 1}, Roughness: 0.5},
			{Name: "gold", BaseColor: [4]float64{0.95, 0.75, 0.3, 1}, Metallic: 1, Roughness: 0.3},
		},
		Objects: []raytrace.Object{
			raytrace.NewHyperPlane(math4d.V4(0, -1, 0, 0), math4d.UnitY(), 0),
			raytrace.NewHyperSphere(math4d.V4(2, 0, 0, 0), 1, 1),
			raytrace.NewHyperSphere(math4d.V4(4, 0, 2.5, 0.5), 1, 2),
			raytrace.NewHyperSphere(math4d.V4(5, 0.5, -2.5, -0.8), 1.5, 3),
			raytrace.NewHyperSphere(math4d.V4(3, 0, 0, 2), 1, 4),
		},
		Start: DefaultStart,
	}
}
