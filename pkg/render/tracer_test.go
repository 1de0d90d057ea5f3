package render

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/tesseract/pkg/camera"
	"github.com/taigrr/tesseract/pkg/math4d"
	"github.com/taigrr/tesseract/pkg/raytrace"
	"gonum.org/v1/gonum/floats"
)

func vecNear(a, b math4d.Vec4) bool {
	return floats.EqualApprox(a.Floats(), b.Floats(), 1e-9)
}

func colorNear(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}

func sphereAhead() (*raytrace.Scene, Palette) {
	scene := raytrace.NewScene(raytrace.NewHyperSphere(math4d.V4(5, 0, 0, 0), 1, 0))
	return scene, Palette{{1, 0, 0}}
}

func TestCameraUniform(t *testing.T) {
	cam := camera.New(camera.DefaultConfig(), math4d.V4(1, 2, 3, 4))
	cam.HandlePointerDelta(200, -50)
	cam.HandlePointerScroll(3, 1)

	u := NewCameraUniform(cam, DefaultEnvironment(), 2, DefaultFOV)
	b := cam.Basis()
	for _, c := range []struct {
		name      string
		got, want math4d.Vec4
	}{
		{"position", math4d.FromMgl(u.Position), cam.Position()},
		{"forward", math4d.FromMgl(u.Forward), b.Forward},
		{"up", math4d.FromMgl(u.Up), b.Up},
		{"right", math4d.FromMgl(u.Right), b.Right},
		{"ana", math4d.FromMgl(u.Ana), b.Ana},
	} {
		if !vecNear(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	// The center of an odd-sized image looks straight ahead.
	center := u.PixelRay(10, 10, 21, 21)
	if !vecNear(center.Direction, cam.Ray(0, 0).Direction) {
		t.Errorf("center ray = %v, want %v", center.Direction, cam.Ray(0, 0).Direction)
	}

	su, sv := u.ScreenPoint(-0.5, -0.5, 21, 21)
	if math.Abs(su+2) > 1e-12 || math.Abs(sv-1) > 1e-12 {
		t.Errorf("top-left corner = (%v, %v), want (-2, 1)", su, sv)
	}
	corner := u.PixelRay(0, 0, 21, 21)
	if !vecNear(corner.Direction, cam.Ray(u.ScreenPoint(0, 0, 21, 21)).Direction) {
		t.Errorf("corner ray = %v, want %v", corner.Direction, cam.Ray(u.ScreenPoint(0, 0, 21, 21)).Direction)
	}
}

func TestRenderSphereAhead(t *testing.T) {
	scene, palette := sphereAhead()
	tracer := NewTracer(scene, palette)
	cam := camera.New(camera.DefaultConfig(), math4d.Zero4())
	fb := NewFramebuffer(21, 21)

	u := NewCameraUniform(cam, DefaultEnvironment(), fb.Aspect(), DefaultFOV)
	if err := tracer.Render(context.Background(), fb, u); err != nil {
		t.Fatalf("Render: %v", err)
	}

	center := fb.GetPixel(10, 10)
	if center.R == 0 || center.G != 0 || center.B != 0 {
		t.Errorf("center pixel = %v, want lit red", center)
	}
	sky := fb.GetPixel(0, 0)
	if sky.B <= sky.R || sky.A != 255 {
		t.Errorf("corner pixel = %v, want blue sky", sky)
	}
	floor := fb.GetPixel(0, 20)
	if floor.B >= sky.B {
		t.Errorf("lower sky %v should be darker than upper sky %v", floor, sky)
	}
}

func TestRenderCrossSection(t *testing.T) {
	// A sphere offset along w appears only once the eye moves into its slice.
	scene := raytrace.NewScene(raytrace.NewHyperSphere(math4d.V4(5, 0, 0, 2), 1, 0))
	tracer := NewTracer(scene, Palette{{1, 1, 1}})
	cam := camera.New(camera.DefaultConfig(), math4d.Zero4())

	ray := cam.Ray(0, 0)
	if _, _, ok := scene.Intersect(ray); ok {
		t.Fatal("sphere outside the slice was hit")
	}

	cam.HandleKey(camera.KeyAna, true)
	cam.Update(0.5)
	cam.HandleKey(camera.KeyAna, false)
	if cam.Position().W != 2 {
		t.Fatalf("w = %v, want 2", cam.Position().W)
	}
	env := DefaultEnvironment()
	if got := tracer.Trace(cam.Ray(0, 0), env); colorNear(got, tracer.Sky(math4d.UnitX(), env)) {
		t.Error("sphere not visible inside its slice")
	}
}

func TestTraceShadow(t *testing.T) {
	env := DefaultEnvironment()
	ground := raytrace.NewHyperPlane(math4d.Zero4(), math4d.UnitY(), 0)
	blocker := raytrace.NewHyperSphere(env.SunDirection.Scale(3), 0.5, 0)
	ray := raytrace.NewRay(math4d.V4(0, 1, 0, 0), math4d.V4(0, -1, 0, 0))
	white := Palette{{1, 1, 1}}

	lambert := env.SunDirection.Y
	lit := env.AmbientColor.Add(env.SunLightColor.Mul(lambert))

	tests := []struct {
		name    string
		objects []raytrace.Object
		shadows bool
		want    mgl64.Vec3
	}{
		{"open sky", []raytrace.Object{ground}, true, lit},
		{"blocked sun", []raytrace.Object{ground, blocker}, true, env.AmbientColor},
		{"shadows disabled", []raytrace.Object{ground, blocker}, false, lit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tracer := NewTracer(raytrace.NewScene(tc.objects...), white)
			tracer.Options.Shadows = tc.shadows
			if got := tracer.Trace(ray, env); !colorNear(got, tc.want) {
				t.Errorf("Trace = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTraceSky(t *testing.T) {
	env := DefaultEnvironment()
	tracer := NewTracer(raytrace.NewScene(), nil)

	tests := []struct {
		name string
		dir  math4d.Vec4
		want mgl64.Vec3
	}{
		{"zenith", math4d.UnitY(), env.UpSkyColor},
		{"nadir", math4d.UnitY().Negate(), env.DownSkyColor},
		{"horizon", math4d.UnitX(), env.UpSkyColor.Add(env.DownSkyColor).Mul(0.5)},
		{"sun", env.SunDirection, env.SunColor},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tracer.Trace(raytrace.NewRay(math4d.Zero4(), tc.dir), env); !colorNear(got, tc.want) {
				t.Errorf("sky = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTraceHighlight(t *testing.T) {
	scene, palette := sphereAhead()
	tracer := NewTracer(scene, palette)
	env := DefaultEnvironment()
	ray := raytrace.NewRay(math4d.Zero4(), math4d.UnitX())

	plain := tracer.Trace(ray, env)
	tracer.Highlight = 0
	if got := tracer.Trace(ray, env); colorNear(got, plain) || got[1] <= plain[1] {
		t.Errorf("highlighted = %v, plain = %v", got, plain)
	}
}

func TestPaletteFallback(t *testing.T) {
	p := Palette{{0.1, 0.2, 0.3}}
	if p.Color(0) != (mgl64.Vec3{0.1, 0.2, 0.3}) {
		t.Errorf("Color(0) = %v", p.Color(0))
	}
	if p.Color(1) != FallbackColor || Palette(nil).Color(0) != FallbackColor {
		t.Error("missing entries should use the fallback color")
	}
}

func TestRenderCanceled(t *testing.T) {
	scene, palette := sphereAhead()
	tracer := NewTracer(scene, palette)
	cam := camera.New(camera.DefaultConfig(), math4d.Zero4())
	fb := NewFramebuffer(8, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tracer.Render(ctx, fb, NewCameraUniform(cam, DefaultEnvironment(), 1, DefaultFOV))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render = %v, want context.Canceled", err)
	}
}

func BenchmarkRender(b *testing.B) {
	scene := raytrace.NewScene(
		raytrace.NewHyperPlane(math4d.V4(0, -1, 0, 0), math4d.UnitY(), 0),
		raytrace.NewHyperSphere(math4d.V4(5, 0, 0, 0), 1, 1),
		raytrace.NewHyperSphere(math4d.V4(6, 0, 2, 0.5), 1, 2),
	)
	tracer := NewTracer(scene, Palette{{0.6, 0.6, 0.6}, {0.9, 0.2, 0.2}, {0.2, 0.9, 0.2}})
	cam := camera.New(camera.DefaultConfig(), math4d.Zero4())
	fb := ForTerminal(120, 40)
	u := NewCameraUniform(cam, DefaultEnvironment(), fb.Aspect(), DefaultFOV)
	ctx := context.Background()

	for b.Loop() {
		if err := tracer.Render(ctx, fb, u); err != nil {
			b.Fatal(err)
		}
	}
}
