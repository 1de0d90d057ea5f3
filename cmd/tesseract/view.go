package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/tesseract/pkg/camera"
	"github.com/taigrr/tesseract/pkg/models"
	"github.com/taigrr/tesseract/pkg/raytrace"
	"github.com/taigrr/tesseract/pkg/render"
)

const (
	minFOV   = 20 * math.Pi / 180
	maxFOV   = 140 * math.Pi / 180
	zoomStep = 10 * math.Pi / 180

	// pointerUnitsPerCell converts mouse motion in terminal cells to the
	// camera's pointer units.
	pointerUnitsPerCell = 8.0
)

var crosshairColor = render.RGB(255, 255, 255)

type viewOptions struct {
	fps       int
	sky       string
	logPath   string
	fov       float64 // degrees
	noShadows bool
}

func newViewCmd() *cobra.Command {
	var o viewOptions

	cmd := &cobra.Command{
		Use:   "view [scene.gltf]",
		Short: "Explore a scene interactively in the terminal",
		Long: `Explore a 4D scene interactively.

Controls:
  W/S/A/D     - Move forward/back/left/right
  Q/E         - Move down/up
  R/F         - Move ana/kata
  Arrows      - Turn and look
  Shift+Arrow - 4D turns
  V           - Toggle volume view
  Mouse drag  - Free look, or move the picked object
  Click       - Pick an object
  Scroll      - 4D look
  +/-         - Zoom
  X           - Reset view
  ?           - Toggle HUD overlay
  Esc         - Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), sceneArg(args), o)
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.fps, "fps", 60, "Target FPS")
	f.StringVar(&o.sky, "sky", "", "Sky color (R,G,B)")
	f.StringVar(&o.logPath, "log", "", "Write a debug log to this file")
	f.Float64Var(&o.fov, "fov", 90, "Initial vertical field of view in degrees")
	f.BoolVar(&o.noShadows, "no-shadows", false, "Disable shadow rays")
	return cmd
}

// zoom animates the field of view toward its target with a spring.
type zoom struct {
	fov, vel, target float64
	initial          float64
	spring           harmonica.Spring
}

func newZoom(fps int, fov float64) *zoom {
	return &zoom{
		fov:     fov,
		target:  fov,
		initial: fov,
		// Critically damped: settles without overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (z *zoom) step(delta float64) {
	z.target = min(max(z.target+delta, minFOV), maxFOV)
}

func (z *zoom) update() {
	z.fov, z.vel = z.spring.Update(z.fov, z.vel, z.target)
}

func (z *zoom) reset() {
	z.fov, z.vel, z.target = z.initial, 0, z.initial
}

// dragState tracks a mouse drag: free look, or moving a picked object.
type dragState struct {
	active       bool
	object       int     // index of the object being moved, -1 for free look
	depth        float64 // distance of the grab point along the view direction
	lastX, lastY int
}

// viewer holds everything the interactive loop mutates. Only the loop
// goroutine touches it.
type viewer struct {
	scene  *models.Scene
	world  *raytrace.Scene
	tracer *render.Tracer
	cam    *camera.Camera
	keys   *keyLatch
	zoom   *zoom
	hud    *HUD
	env    render.Environment
	log    *slog.Logger

	fb      *render.Framebuffer
	uniform render.CameraUniform
	showHUD bool
	drag    dragState
}

func newViewer(s *models.Scene, env render.Environment, o viewOptions, logger *slog.Logger) *viewer {
	world, tracer := newSceneTracer(s)
	tracer.Options.Shadows = !o.noShadows
	cam := camera.New(camera.DefaultConfig(), s.Start)

	name := s.Name
	if name == "" {
		name = "untitled"
	}
	v := &viewer{
		scene:   s,
		world:   world,
		tracer:  tracer,
		cam:     cam,
		keys:    newKeyLatch(cam, keyLatchDuration),
		zoom:    newZoom(o.fps, o.fov*math.Pi/180),
		hud:     NewHUD(name, len(s.Objects)),
		env:     env,
		log:     logger,
		fb:      render.NewFramebuffer(0, 0),
		showHUD: true,
		drag:    dragState{object: -1},
	}
	v.uniform = render.NewCameraUniform(cam, env, v.fb.Aspect(), v.zoom.fov)
	return v
}

// resize matches the framebuffer to a terminal of cols × rows cells.
func (v *viewer) resize(cols, rows int) {
	v.fb.Resize(cols, rows*2)
	v.uniform = render.NewCameraUniform(v.cam, v.env, v.fb.Aspect(), v.zoom.fov)
	v.log.Debug("resize", "cols", cols, "rows", rows)
}

// handle applies one terminal event. It returns false when the viewer
// should quit.
func (v *viewer) handle(ev uv.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("esc", "ctrl+c"):
			return false
		case ev.MatchString("v"):
			v.cam.HandleKey(camera.KeyToggleVolumeView, true)
			v.cam.HandleKey(camera.KeyToggleVolumeView, false)
			v.log.Debug("volume view", "enabled", v.cam.VolumeView())
		case ev.MatchString("x"):
			v.reset()
		case ev.MatchString("?", "shift+/"):
			v.showHUD = !v.showHUD
		case ev.Text == "+" || ev.MatchString("="):
			v.zoom.step(-zoomStep)
		case ev.MatchString("-", "_"):
			v.zoom.step(zoomStep)
		default:
			v.keys.press(ev.Key(), now)
		}

	case uv.KeyReleaseEvent:
		v.keys.release(uv.Key(ev))

	case uv.BlurEvent:
		v.keys.releaseAll()
		v.drag.active = false

	case uv.MouseClickEvent:
		if ev.Button == uv.MouseLeft {
			v.pick(ev.X, ev.Y)
		}

	case uv.MouseReleaseEvent:
		v.drag.active = false

	case uv.MouseMotionEvent:
		if v.drag.active {
			v.dragTo(ev.X, ev.Y)
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.cam.HandlePointerScroll(0, 1)
		case uv.MouseWheelDown:
			v.cam.HandlePointerScroll(0, -1)
		case uv.MouseWheelLeft:
			v.cam.HandlePointerScroll(-1, 0)
		case uv.MouseWheelRight:
			v.cam.HandlePointerScroll(1, 0)
		}
	}
	return true
}

// pick starts a drag at cell (x, y). Clicking an object selects it and the
// drag moves it; clicking the sky clears the selection and the drag looks
// around.
func (v *viewer) pick(x, y int) {
	v.drag = dragState{active: true, object: -1, lastX: x, lastY: y}

	ray := v.uniform.PixelRay(x, y*2, v.fb.Width, v.fb.Height)
	idx, hit, ok := v.world.Intersect(ray)
	if !ok {
		v.tracer.Highlight = -1
		return
	}
	v.tracer.Highlight = idx
	v.drag.object = idx
	v.drag.depth = hit.Distance * ray.Direction.Dot(v.cam.Basis().Forward)
	v.log.Debug("pick", "object", idx, "kind", v.world.Objects[idx].Kind, "distance", hit.Distance)
}

func (v *viewer) dragTo(x, y int) {
	dx, dy := float64(x-v.drag.lastX), float64(y-v.drag.lastY)
	v.drag.lastX, v.drag.lastY = x, y
	if dx == 0 && dy == 0 {
		return
	}

	if v.drag.object < 0 {
		v.cam.HandlePointerDelta(dx*pointerUnitsPerCell, 2*dy*pointerUnitsPerCell)
		return
	}

	// World units per pixel at the grab depth; a cell is two pixels tall.
	perPixel := 2 * math.Tan(v.uniform.FOV/2) * v.drag.depth / float64(max(v.fb.Height, 1))
	b := v.cam.Basis()
	offset := b.Right.Scale(dx * perPixel).Add(b.Up.Scale(-2 * dy * perPixel))
	v.world.Objects[v.drag.object].Translate(offset)
}

func (v *viewer) reset() {
	v.keys.releaseAll()
	v.cam.Reset(v.scene.Start)
	v.zoom.reset()
	v.tracer.Highlight = -1
	v.drag = dragState{object: -1}
}

// frame advances the simulation by dt seconds and traces the framebuffer.
func (v *viewer) frame(ctx context.Context, now time.Time, dt float64) error {
	v.keys.expire(now)
	v.cam.Update(dt)
	v.zoom.update()

	v.uniform = render.NewCameraUniform(v.cam, v.env, v.fb.Aspect(), v.zoom.fov)
	if err := v.tracer.Render(ctx, v.fb, v.uniform); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	v.fb.DrawCrosshair(1, crosshairColor)
	v.hud.UpdateFPS(now)
	return nil
}

func (v *viewer) draw(scr uv.Screen) {
	area := scr.Bounds()
	v.fb.Draw(scr, area)
	if v.showHUD {
		v.hud.Draw(scr, area, v.hudState())
	}
}

func (v *viewer) hudState() hudState {
	st := hudState{
		Position:    v.cam.Position(),
		VolumeView:  v.cam.VolumeView(),
		VolumeBlend: v.cam.VolumeBlend(),
		FOV:         v.zoom.fov,
	}
	if i := v.tracer.Highlight; i >= 0 && i < v.world.Len() {
		st.Picked = fmt.Sprintf("%s %d", v.world.Objects[i].Kind, i)
	}
	return st
}

func openLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func runView(ctx context.Context, scenePath string, o viewOptions) error {
	if o.fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", o.fps)
	}
	if o.fov <= 0 || o.fov >= 180 {
		return fmt.Errorf("fov must be between 0 and 180 degrees, got %v", o.fov)
	}

	env := render.DefaultEnvironment()
	if o.sky != "" {
		sky, err := parseColor(o.sky)
		if err != nil {
			return err
		}
		env.UpSkyColor = render.FromRGBA(sky)
	}

	s, err := loadScene(scenePath)
	if err != nil {
		return err
	}
	if len(s.Objects) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: %s has no objects\n", s.Name)
	}

	logger, closeLog, err := openLog(o.logPath)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("loaded scene", "name", s.Name, "objects", len(s.Objects), "materials", len(s.Materials))

	v := newViewer(s, env, o, logger)

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	v.resize(width, height)

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := term.Events()
	targetDuration := time.Second / time.Duration(o.fps)
	lastFrame := time.Now()

	for {
		now := time.Now()

	drain:
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if size, ok := ev.(uv.WindowSizeEvent); ok {
					term.Erase()
					term.Resize(size.Width, size.Height)
				}
				if !v.handle(ev, now) {
					return nil
				}
			default:
				break drain
			}
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		if err := v.frame(ctx, now, dt); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("frame", "err", err)
			return err
		}
		v.draw(term)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
