package render

import (
	"image/color"
	"math"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/go-gl/mathgl/mgl64"
)

// Draw writes the framebuffer into area of scr. Each cell shows two pixel
// rows: the top pixel as the ▀ foreground and the bottom one as background.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top := (row - area.Min.Y) * 2
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, top)),
					Bg: cellColor(fb.GetPixel(x, top+1)),
				},
			})
		}
	}
}

// cellColor maps transparent pixels to the terminal default color.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// ToRGBA converts a linear color with components in [0, 1] to an opaque
// 8-bit color. Components are clamped.
func ToRGBA(c mgl64.Vec3) color.RGBA {
	channel := func(v float64) uint8 {
		if !(v > 0) {
			return 0
		}
		return uint8(math.Round(math.Min(v, 1) * 255))
	}
	return color.RGBA{channel(c[0]), channel(c[1]), channel(c[2]), 255}
}

// FromRGBA converts an 8-bit color to a linear color in [0, 1].
func FromRGBA(c color.RGBA) mgl64.Vec3 {
	return mgl64.Vec3{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}
