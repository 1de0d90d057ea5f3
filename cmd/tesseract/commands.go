package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/spf13/cobra"
	"github.com/taigrr/tesseract/pkg/camera"
	"github.com/taigrr/tesseract/pkg/models"
	"github.com/taigrr/tesseract/pkg/render"
)

func newRenderCmd() *cobra.Command {
	var (
		out       string
		width     int
		height    int
		fov       float64
		sky       string
		volume    bool
		noShadows bool
	)

	cmd := &cobra.Command{
		Use:   "render [scene.gltf]",
		Short: "Render one frame from the scene start to a PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("image size must be positive, got %dx%d", width, height)
			}
			if fov <= 0 || fov >= 180 {
				return fmt.Errorf("fov must be between 0 and 180 degrees, got %v", fov)
			}
			env := render.DefaultEnvironment()
			if sky != "" {
				c, err := parseColor(sky)
				if err != nil {
					return err
				}
				env.UpSkyColor = render.FromRGBA(c)
			}

			s, err := loadScene(sceneArg(args))
			if err != nil {
				return err
			}
			_, tracer := newSceneTracer(s)
			tracer.Options.Shadows = !noShadows

			cam := camera.New(camera.DefaultConfig(), s.Start)
			if volume {
				cam.SetVolumeView(true)
				cam.Update(cam.Config().VolumeViewDuration)
			}

			fb := render.NewFramebuffer(width, height)
			u := render.NewCameraUniform(cam, env, fb.Aspect(), fov*math.Pi/180)
			if err := tracer.Render(cmd.Context(), fb, u); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if err := fb.SavePNG(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d objects)\n", out, width, height, len(s.Objects))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "output", "o", "tesseract.png", "Output PNG path")
	f.IntVar(&width, "width", 640, "Image width in pixels")
	f.IntVar(&height, "height", 480, "Image height in pixels")
	f.Float64Var(&fov, "fov", 90, "Vertical field of view in degrees")
	f.StringVar(&sky, "sky", "", "Sky color (R,G,B)")
	f.BoolVar(&volume, "volume", false, "Render in volume view")
	f.BoolVar(&noShadows, "no-shadows", false, "Disable shadow rays")
	return cmd
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [scene.gltf]",
		Short: "Write the built-in scene to a glTF file to start editing from",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sceneArg(args)
			if path == "" {
				path = "scene.gltf"
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("stat %s: %w", path, err)
				}
			}
			if err := models.SaveScene(path, models.DefaultScene()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
