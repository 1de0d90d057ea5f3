package main

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/tesseract/pkg/camera"
	"github.com/taigrr/tesseract/pkg/math4d"
	"github.com/taigrr/tesseract/pkg/models"
	"github.com/taigrr/tesseract/pkg/render"
)

func newTestViewer(t *testing.T) *viewer {
	t.Helper()
	v := newViewer(models.DefaultScene(), render.DefaultEnvironment(),
		viewOptions{fps: 60, fov: 90}, slog.New(slog.DiscardHandler))
	v.handle(uv.WindowSizeEvent{Width: 40, Height: 20}, time.Now())
	return v
}

func rowText(scr uv.Screen, y int) string {
	var sb strings.Builder
	for x := range scr.Bounds().Dx() {
		if c := scr.CellAt(x, y); c != nil {
			sb.WriteString(c.Content)
		}
	}
	return sb.String()
}

func TestViewerResize(t *testing.T) {
	v := newTestViewer(t)
	if v.fb.Width != 40 || v.fb.Height != 40 {
		t.Errorf("framebuffer = %dx%d, want 40x40", v.fb.Width, v.fb.Height)
	}
	if v.uniform.Aspect != 1 {
		t.Errorf("aspect = %v, want 1", v.uniform.Aspect)
	}
}

func TestViewerKeys(t *testing.T) {
	v := newTestViewer(t)
	now := time.Now()

	if !v.handle(uv.KeyPressEvent(letter('w')), now) || !v.cam.Held(camera.KeyForward) {
		t.Error("w should hold forward")
	}

	v.handle(uv.KeyPressEvent(letter('v')), now)
	if !v.cam.VolumeView() {
		t.Error("v should toggle volume view on")
	}
	v.handle(uv.KeyPressEvent(letter('v')), now)
	if v.cam.VolumeView() {
		t.Error("second v should toggle volume view off")
	}

	v.handle(uv.KeyPressEvent(letter('?')), now)
	if v.showHUD {
		t.Error("? should hide the HUD")
	}

	v.handle(uv.BlurEvent{}, now)
	if v.cam.Held(camera.KeyForward) {
		t.Error("losing focus should release keys")
	}

	if v.handle(uv.KeyPressEvent{Code: uv.KeyEscape}, now) {
		t.Error("esc should quit")
	}
	if v.handle(uv.KeyPressEvent{Code: 'c', Mod: uv.ModCtrl}, now) {
		t.Error("ctrl+c should quit")
	}
}

func TestViewerZoom(t *testing.T) {
	v := newTestViewer(t)
	start := v.zoom.fov

	v.handle(uv.KeyPressEvent(letter('+')), time.Now())
	if want := start - zoomStep; math.Abs(v.zoom.target-want) > 1e-12 {
		t.Fatalf("target = %v, want %v", v.zoom.target, want)
	}
	for range 120 {
		v.zoom.update()
	}
	if math.Abs(v.zoom.fov-v.zoom.target) > 1e-3 {
		t.Errorf("fov = %v, did not settle at %v", v.zoom.fov, v.zoom.target)
	}

	for range 50 {
		v.zoom.step(zoomStep)
	}
	if v.zoom.target != maxFOV {
		t.Errorf("target = %v, want clamp at %v", v.zoom.target, maxFOV)
	}
}

func TestViewerPickAndDrag(t *testing.T) {
	v := newTestViewer(t)

	// The red sphere sits straight ahead of the start position.
	v.handle(uv.MouseClickEvent{X: 20, Y: 10, Button: uv.MouseLeft}, time.Now())
	if v.tracer.Highlight != 1 {
		t.Fatalf("Highlight = %d, want 1", v.tracer.Highlight)
	}
	if got := v.hudState().Picked; got != "hypersphere 1" {
		t.Errorf("Picked = %q", got)
	}

	before := v.world.Objects[1].Position()
	v.handle(uv.MouseMotionEvent{X: 25, Y: 10, Button: uv.MouseLeft}, time.Now())
	moved := v.world.Objects[1].Position().Sub(before)
	if math.Abs(moved.Z-1) > 0.01 || math.Abs(moved.X) > 1e-9 || math.Abs(moved.Y) > 1e-9 || moved.W != 0 {
		t.Errorf("drag moved sphere by %v, want about (0, 0, 1, 0)", moved)
	}

	v.handle(uv.MouseReleaseEvent{X: 25, Y: 10, Button: uv.MouseLeft}, time.Now())
	after := v.world.Objects[1].Position()
	v.handle(uv.MouseMotionEvent{X: 30, Y: 12}, time.Now())
	if v.world.Objects[1].Position() != after {
		t.Error("object moved after the button was released")
	}
}

func TestViewerFreeLook(t *testing.T) {
	v := newTestViewer(t)

	// The top row looks at the sky.
	v.handle(uv.MouseClickEvent{X: 20, Y: 0, Button: uv.MouseLeft}, time.Now())
	if v.tracer.Highlight != -1 || v.drag.object != -1 {
		t.Fatalf("sky click picked object %d", v.tracer.Highlight)
	}
	v.handle(uv.MouseMotionEvent{X: 30, Y: 0, Button: uv.MouseLeft}, time.Now())
	if f := v.cam.Basis().Forward; f.Z <= 0 {
		t.Errorf("forward = %v, want turned toward +z", f)
	}

	v.handle(uv.MouseWheelEvent{Button: uv.MouseWheelUp}, time.Now())
	if f := v.cam.Basis().Forward; f.W == 0 {
		t.Errorf("forward = %v, want a w component after scrolling", f)
	}

	v.handle(uv.KeyPressEvent(letter('x')), time.Now())
	if v.cam.Position() != models.DefaultStart || v.cam.Basis().Forward != math4d.UnitX() {
		t.Errorf("reset left position %v forward %v", v.cam.Position(), v.cam.Basis().Forward)
	}
}

func TestViewerFrame(t *testing.T) {
	v := newTestViewer(t)
	now := time.Now()
	v.handle(uv.KeyPressEvent(letter('w')), now)

	if err := v.frame(context.Background(), now, 0.1); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if p := v.cam.Position(); math.Abs(p.X-(models.DefaultStart.X+0.4)) > 1e-9 {
		t.Errorf("position = %v, want moved 0.4 forward", p)
	}
	if c := v.fb.GetPixel(20, 20); c != crosshairColor {
		t.Errorf("center pixel = %v, want crosshair", c)
	}

	scr := uv.NewScreenBuffer(40, 20)
	v.draw(scr)
	if top := rowText(scr, 0); !strings.Contains(top, "default") || !strings.Contains(top, "5 objects") {
		t.Errorf("top HUD row = %q", top)
	}
	if bottom := rowText(scr, 19); !strings.Contains(bottom, "x -2.60") || !strings.Contains(bottom, "hide HUD") {
		t.Errorf("bottom HUD row = %q", bottom)
	}
	if mid := scr.CellAt(3, 10); mid == nil || mid.Content != "▀" {
		t.Errorf("scene cell = %+v, want half block", mid)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := v.frame(ctx, now, 0.01); err == nil {
		t.Error("frame should fail on a canceled context")
	}
}
