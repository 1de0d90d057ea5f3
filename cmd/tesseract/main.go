// tesseract - Terminal 4D Scene Viewer
// Walk through hyperspheres and hyperplanes in your terminal, seeing the 3D
// slice of a 4D scene through the eye.
//
// Controls:
//
//	W/S         - Move forward/backward
//	A/D         - Move left/right
//	Q/E         - Move down/up
//	R/F         - Move ana/kata (along the fourth axis)
//	Arrows      - Turn left/right, look up/down
//	Shift+Arrow - 4D turns (forward-ana, right-ana)
//	V           - Toggle volume view (see the forward-right-ana volume)
//	Mouse drag  - Free look, or move a picked object
//	Click       - Pick the object under the pointer
//	Scroll      - 4D look
//	+/-         - Zoom
//	X           - Reset view
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"image/color"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/tesseract/pkg/models"
	"github.com/taigrr/tesseract/pkg/raytrace"
	"github.com/taigrr/tesseract/pkg/render"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tesseract",
		Short: "Terminal 4D scene viewer",
		Long: `tesseract ray-traces the 3D cross-section of a 4D scene of hyperspheres
and hyperplanes from a movable 4D eye. Scenes are glTF files whose nodes
carry the fourth coordinate in their extras; without a file a built-in
scene is shown.`,
		SilenceUsage: true,
	}
	root.AddCommand(newViewCmd(), newRenderCmd(), newInitCmd())
	return root
}

// loadScene loads the scene file at path, or the built-in scene when path
// is empty.
func loadScene(path string) (*models.Scene, error) {
	if path == "" {
		return models.DefaultScene(), nil
	}
	s, err := models.LoadScene(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	return s, nil
}

// newSceneTracer builds the traceable scene and a tracer for s. Both share
// s.Objects.
func newSceneTracer(s *models.Scene) (*raytrace.Scene, *render.Tracer) {
	world := raytrace.NewScene(s.Objects...)
	return world, render.NewTracer(world, render.Palette(s.Colors()))
}

// parseColor parses an "R,G,B" triple of 0-255 values.
func parseColor(s string) (color.RGBA, error) {
	var r, g, b int
	if n, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil || n != 3 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want R,G,B", s)
	}
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return color.RGBA{}, fmt.Errorf("invalid color %q: components must be 0-255", s)
		}
	}
	return render.RGB(uint8(r), uint8(g), uint8(b)), nil
}

func sceneArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
