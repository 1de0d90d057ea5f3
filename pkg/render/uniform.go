package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/tesseract/pkg/camera"
	"github.com/taigrr/tesseract/pkg/math4d"
	"github.com/taigrr/tesseract/pkg/raytrace"
)

// Environment describes the lighting shared by every pixel.
type Environment struct {
	SunDirection  math4d.Vec4 // Direction toward the sun, unit length
	SunColor      mgl64.Vec3  // Color of the sun disc in the sky
	SunLightColor mgl64.Vec3  // Light the sun casts on surfaces
	AmbientColor  mgl64.Vec3
	UpSkyColor    mgl64.Vec3
	DownSkyColor  mgl64.Vec3
}

// DefaultEnvironment returns a warm sun high over a blue sky.
func DefaultEnvironment() Environment {
	return Environment{
		SunDirection:  math4d.V4(-0.2, 1.0, 0.1, 0).Normalize(),
		SunColor:      mgl64.Vec3{0.9, 0.8, 0.7},
		SunLightColor: mgl64.Vec3{1, 1, 1},
		AmbientColor:  mgl64.Vec3{0.1, 0.1, 0.1},
		UpSkyColor:    mgl64.Vec3{0.5, 0.5, 0.9},
		DownSkyColor:  mgl64.Vec3{0.2, 0.2, 0.2},
	}
}

// CameraUniform is the per-frame camera data a shader consumes. The
// orientation matrix has the rotated forward, up, right and ana axes as
// its columns.
type CameraUniform struct {
	Position    mgl64.Vec4
	Forward     mgl64.Vec4
	Up          mgl64.Vec4
	Right       mgl64.Vec4
	Ana         mgl64.Vec4
	Orientation mgl64.Mat4

	Environment

	Aspect float64 // Width / height of the image
	FOV    float64 // Vertical field of view in radians
}

// NewCameraUniform snapshots cam for one frame.
func NewCameraUniform(cam *camera.Camera, env Environment, aspect, fov float64) CameraUniform {
	m := cam.EffectiveOrientation().Matrix()
	return CameraUniform{
		Position:    cam.Position().Mgl(),
		Forward:     m.Col(0),
		Up:          m.Col(1),
		Right:       m.Col(2),
		Ana:         m.Col(3),
		Orientation: m,
		Environment: env,
		Aspect:      aspect,
		FOV:         fov,
	}
}

// ScreenPoint maps pixel (x, y) of a width × height image to image plane
// coordinates one unit ahead of the eye: u to the right, v up.
func (u CameraUniform) ScreenPoint(x, y float64, width, height int) (su, sv float64) {
	half := math.Tan(u.FOV / 2)
	su = (2*(x+0.5)/float64(width) - 1) * half * u.Aspect
	sv = (1 - 2*(y+0.5)/float64(height)) * half
	return su, sv
}

// PixelRay returns the primary ray through the center of pixel (x, y).
func (u CameraUniform) PixelRay(x, y, width, height int) raytrace.Ray {
	su, sv := u.ScreenPoint(float64(x), float64(y), width, height)
	local := mgl64.Vec4{1, sv, su, 0}
	return raytrace.NewRay(math4d.FromMgl(u.Position), math4d.FromMgl(u.Orientation.Mul4x1(local)))
}
