package main

import (
	"fmt"
	"math"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/tesseract/pkg/math4d"
)

var (
	hudBase  = lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Foreground(lipgloss.Color("#FFFFFF"))
	hudFPS   = hudBase.Foreground(lipgloss.Color("#5FFF87"))
	hudTitle = hudBase.Bold(true)
	hudInfo  = hudBase.Foreground(lipgloss.Color("#5FD7FF")).Bold(true)
	hudHint  = hudBase.Foreground(lipgloss.Color("#FFFF87")).Faint(true)
	hudPick  = hudBase.Foreground(lipgloss.Color("#FFFF87")).Bold(true)
)

// HUD renders an overlay with scene info and camera state.
type HUD struct {
	filename string
	objects  int

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// hudState is the per-frame viewer state shown by the HUD.
type hudState struct {
	Position    math4d.Vec4
	VolumeView  bool
	VolumeBlend float64
	FOV         float64 // radians
	Picked      string  // empty when nothing is picked
}

// NewHUD creates a new HUD.
func NewHUD(filename string, objects int) *HUD {
	return &HUD{
		filename: filename,
		objects:  objects,
		fpsTime:  time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// Draw draws the HUD on the first and last rows of area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, st hudState) {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return
	}
	top, bottom := area.Min.Y, area.Max.Y-1

	// Top: FPS, filename, object count
	drawText(scr, area, area.Min.X, top, hudFPS.Render(fmt.Sprintf(" %.0f FPS ", h.fps)))
	title := hudTitle.Render(" " + h.filename + " ")
	drawText(scr, area, area.Min.X+(area.Dx()-lipgloss.Width(title))/2, top, title)
	count := hudInfo.Render(fmt.Sprintf(" %d objects ", h.objects))
	drawText(scr, area, area.Max.X-lipgloss.Width(count), top, count)

	if bottom == top {
		return
	}

	// Bottom: position, volume view and pick state
	check := "[ ]"
	if st.VolumeView {
		check = "[✓]"
	}
	p := st.Position
	status := hudBase.Render(fmt.Sprintf(" x %.2f  y %.2f  z %.2f  w %.2f  %s Volume view %3.0f%%  fov %.0f° ",
		p.X, p.Y, p.Z, p.W, check, st.VolumeBlend*100, st.FOV*180/math.Pi))
	drawText(scr, area, area.Min.X, bottom, status)

	right := hudHint.Render(" ?: hide HUD ")
	if st.Picked != "" {
		right = hudPick.Render(" ◉ " + st.Picked + " ")
	}
	drawText(scr, area, area.Max.X-lipgloss.Width(right), bottom, right)
}

// drawText draws a styled single-line string at (x, y), clipped to area.
func drawText(scr uv.Screen, area uv.Rectangle, x, y int, s string) {
	x = max(x, area.Min.X)
	w := min(lipgloss.Width(s), area.Max.X-x)
	if w <= 0 {
		return
	}
	uv.NewStyledString(s).Draw(scr, uv.Rect(x, y, w, 1))
}
