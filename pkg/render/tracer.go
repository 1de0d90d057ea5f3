package render

import (
	"context"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/tesseract/pkg/math4d"
	"github.com/taigrr/tesseract/pkg/raytrace"
	"golang.org/x/sync/errgroup"
)

// DefaultFOV is the vertical field of view of the viewer.
const DefaultFOV = math.Pi / 2

// Options control the CPU tracer.
type Options struct {
	Shadows    bool    // Cast shadow rays toward the sun
	ShadowBias float64 // Offset along the normal for shadow ray origins
	SunSize    float64 // Cosine threshold of the sun disc in the sky
	Workers    int     // Rows traced concurrently, 0 means GOMAXPROCS
}

// DefaultOptions returns shadows on and a small sun disc.
func DefaultOptions() Options {
	return Options{
		Shadows:    true,
		ShadowBias: 1e-4,
		SunSize:    0.9995,
	}
}

// Tracer shades the cross-section of a scene seen through a camera uniform.
// The scene must not be modified while Render runs.
type Tracer struct {
	Scene   *raytrace.Scene
	Palette Palette
	Options Options

	// Highlight is the index of an object drawn with a selection tint,
	// or -1 for none.
	Highlight int
}

// NewTracer creates a tracer with default options and no highlight.
func NewTracer(scene *raytrace.Scene, palette Palette) *Tracer {
	return &Tracer{
		Scene:     scene,
		Palette:   palette,
		Options:   DefaultOptions(),
		Highlight: -1,
	}
}

// Render traces every pixel of fb. Rows are traced concurrently; the first
// error, including cancellation of ctx, is returned. Primary rays only test
// the objects inside the camera frustum.
func (t *Tracer) Render(ctx context.Context, fb *Framebuffer, u CameraUniform) error {
	workers := t.Options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	visible := NewFrustum(u).Cull(t.Scene.Objects)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := range fb.Height {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
			for x := range row {
				row[x] = ToRGBA(t.shade(u.PixelRay(x, y, fb.Width, fb.Height), u.Environment, visible))
			}
			return nil
		})
	}
	return g.Wait()
}

// Trace returns the linear color seen along ray.
func (t *Tracer) Trace(ray raytrace.Ray, env Environment) mgl64.Vec3 {
	return t.shade(ray, env, nil)
}

// shade traces ray against the objects listed in visible, or against every
// object when visible is nil.
func (t *Tracer) shade(ray raytrace.Ray, env Environment, visible []int) mgl64.Vec3 {
	idx, hit, ok := t.nearest(ray, visible)
	if !ok {
		return t.Sky(ray.Direction, env)
	}

	albedo := t.Palette.Color(hit.Material)
	light := env.AmbientColor
	if lambert := hit.Normal.Dot(env.SunDirection); lambert > 0 && !t.shadowed(hit, env) {
		light = light.Add(env.SunLightColor.Mul(lambert))
	}
	c := modulate(albedo, light)

	if idx == t.Highlight {
		c = c.Mul(0.6).Add(mgl64.Vec3{0.4, 0.4, 0.1})
	}
	return c
}

func (t *Tracer) nearest(ray raytrace.Ray, visible []int) (int, raytrace.Hit, bool) {
	if visible == nil {
		return t.Scene.Intersect(ray)
	}
	index := -1
	var nearest raytrace.Hit
	for _, i := range visible {
		hit, ok := t.Scene.Objects[i].Intersect(ray)
		if ok && (index < 0 || hit.Distance < nearest.Distance) {
			index, nearest = i, hit
		}
	}
	return index, nearest, index >= 0
}

func (t *Tracer) shadowed(hit raytrace.Hit, env Environment) bool {
	if !t.Options.Shadows {
		return false
	}
	origin := hit.Position.Add(hit.Normal.Scale(t.Options.ShadowBias))
	return t.Scene.Occluded(raytrace.Ray{Origin: origin, Direction: env.SunDirection}, math.Inf(1))
}

// Sky returns the background color for a direction: a gradient from the
// down color to the up color along world +Y, with the sun disc on top.
func (t *Tracer) Sky(dir math4d.Vec4, env Environment) mgl64.Vec3 {
	dir = dir.Normalize()
	if t.Options.SunSize > 0 && dir.Dot(env.SunDirection) >= t.Options.SunSize {
		return env.SunColor
	}
	f := 0.5 * (dir.Y + 1)
	return env.DownSkyColor.Mul(1 - f).Add(env.UpSkyColor.Mul(f))
}

func modulate(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
