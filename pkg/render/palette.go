package render

import "github.com/go-gl/mathgl/mgl64"

// FallbackColor is used for material indices outside the palette.
var FallbackColor = mgl64.Vec3{0.8, 0.8, 0.8}

// Palette maps material indices to linear albedo colors.
type Palette []mgl64.Vec3

// Color returns the albedo for material i.
func (p Palette) Color(i uint32) mgl64.Vec3 {
	if uint64(i) >= uint64(len(p)) {
		return FallbackColor
	}
	return p[i]
}
