// Package camera implements a 4D viewpoint: a free base rotor combined with
// a vertical look angle and a blend toward the volume view, plus the mapping
// from held keys and pointer input to motion.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/tesseract/pkg/math4d"
	"github.com/taigrr/tesseract/pkg/raytrace"
)

// Local frame axes before any rotation is applied.
var (
	Forward = math4d.UnitX()
	Up      = math4d.UnitY()
	Right   = math4d.UnitZ()
	Ana     = math4d.UnitW()
)

// MaxVerticalAngle bounds the vertical look angle in either direction.
const MaxVerticalAngle = math.Pi/2 - 0.01

// Config holds the tunable rates of a camera.
type Config struct {
	MoveSpeed          float64 // Units per second
	TurnSpeed          float64 // Radians per second for key turns
	VolumeViewDuration float64 // Seconds for a full volume view transition
	PointerSensitivity float64 // Radians per pointer unit
	ScrollSensitivity  float64 // Radians per scroll notch
}

// DefaultConfig returns the rates used by the viewer.
func DefaultConfig() Config {
	return Config{
		MoveSpeed:          4,
		TurnSpeed:          math.Pi / 2,
		VolumeViewDuration: 0.5,
		PointerSensitivity: 0.003,
		ScrollSensitivity:  0.05,
	}
}

// Validate reports the first rate that is not positive and finite.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"move speed", c.MoveSpeed},
		{"turn speed", c.TurnSpeed},
		{"volume view duration", c.VolumeViewDuration},
		{"pointer sensitivity", c.PointerSensitivity},
		{"scroll sensitivity", c.ScrollSensitivity},
	}
	var errs []error
	for _, f := range fields {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", f.name, f.value))
		}
	}
	return errors.Join(errs...)
}

// Basis is the camera's local frame expressed in world space.
type Basis struct {
	Forward math4d.Vec4
	Up      math4d.Vec4
	Right   math4d.Vec4
	Ana     math4d.Vec4
}

// Camera is a movable 4D viewpoint. The zero value is not usable; create
// cameras with New.
type Camera struct {
	cfg Config

	position math4d.Vec4
	base     math4d.Rotor
	vertical float64

	volumeView  bool
	volumeBlend float64

	keys [keyCount]bool
}

// New creates a camera at position looking along +X.
func New(cfg Config, position math4d.Vec4) *Camera {
	return &Camera{
		cfg:      cfg,
		position: position,
		base:     math4d.Identity,
	}
}

// Config returns the camera's rates.
func (c *Camera) Config() Config {
	return c.cfg
}

// Position returns the eye position.
func (c *Camera) Position() math4d.Vec4 {
	return c.position
}

// SetPosition moves the eye to p.
func (c *Camera) SetPosition(p math4d.Vec4) {
	c.position = p
}

// BaseRotation returns the free orientation rotor.
func (c *Camera) BaseRotation() math4d.Rotor {
	return c.base
}

// SetBaseRotation replaces the free orientation. The rotor is normalized.
func (c *Camera) SetBaseRotation(r math4d.Rotor) {
	c.base = r.Normalize()
}

// VerticalAngle returns the look angle above the horizon in radians.
func (c *Camera) VerticalAngle() float64 {
	return c.vertical
}

// VolumeBlend returns the progress toward the volume view in [0, 1].
func (c *Camera) VolumeBlend() float64 {
	return c.volumeBlend
}

// VolumeView reports whether the volume view is enabled. The blend may
// still be moving toward it.
func (c *Camera) VolumeView() bool {
	return c.volumeView
}

// SetVolumeView enables or disables the volume view. The blend follows
// over the next updates.
func (c *Camera) SetVolumeView(enabled bool) {
	c.volumeView = enabled
}

// ToggleVolumeView flips the volume view.
func (c *Camera) ToggleVolumeView() {
	c.volumeView = !c.volumeView
}

// Reset returns the camera to position with the identity orientation and
// the volume view off. Held keys are released.
func (c *Camera) Reset(position math4d.Vec4) {
	*c = Camera{cfg: c.cfg, position: position, base: math4d.Identity}
}

// EffectiveOrientation combines the base rotor with the volume view quarter
// turn and the vertical look angle. The vertical look acts first, in the
// camera's own frame.
func (c *Camera) EffectiveOrientation() math4d.Rotor {
	volume := math4d.RotationYW(math.Pi / 2 * c.volumeBlend)
	look := math4d.RotationXY(c.vertical * (1 - c.volumeBlend))
	return c.base.Mul(volume).Mul(look)
}

// Basis returns the local axes rotated by the effective orientation.
func (c *Camera) Basis() Basis {
	r := c.EffectiveOrientation()
	return Basis{
		Forward: r.Rotate(Forward),
		Up:      r.Rotate(Up),
		Right:   r.Rotate(Right),
		Ana:     r.Rotate(Ana),
	}
}

// Update advances the camera by dt seconds: movement from held keys along
// the current basis, key turns, the volume view blend, and renormalization
// of the base rotor. Negative dt is treated as zero.
func (c *Camera) Update(dt float64) {
	if !(dt > 0) {
		dt = 0
	}

	b := c.Basis()
	forward, up, right, ana := c.moveAxes()
	step := c.cfg.MoveSpeed * dt
	c.position = c.position.
		Add(b.Forward.Scale(forward * step)).
		Add(b.Up.Scale(up * step)).
		Add(b.Right.Scale(right * step)).
		Add(b.Ana.Scale(ana * step))

	c.applyKeyTurns(c.cfg.TurnSpeed * dt)

	if c.cfg.VolumeViewDuration > 0 {
		rate := dt / c.cfg.VolumeViewDuration
		if c.volumeView {
			c.volumeBlend = math.Min(c.volumeBlend+rate, 1)
		} else {
			c.volumeBlend = math.Max(c.volumeBlend-rate, 0)
		}
	} else if c.volumeView {
		c.volumeBlend = 1
	} else {
		c.volumeBlend = 0
	}
	if c.volumeBlend == 1 {
		c.vertical = 0
	}

	c.base = c.base.Normalize()
}

// turn applies delta, given in the camera's local frame, as base·delta.
func (c *Camera) turn(delta math4d.Rotor) {
	c.base = c.base.Mul(delta)
}

// look changes the vertical angle, or turns forward toward ana while the
// volume view is enabled.
func (c *Camera) look(angle float64) {
	if c.volumeView {
		c.turn(math4d.RotationXW(angle))
		return
	}
	c.vertical = math.Max(-MaxVerticalAngle, math.Min(MaxVerticalAngle, c.vertical+angle))
}

// Ray returns the ray from the eye through the point (u, v) on the image
// plane one unit ahead, with u toward the right and v toward the up axis.
func (c *Camera) Ray(u, v float64) raytrace.Ray {
	b := c.Basis()
	dir := b.Forward.Add(b.Right.Scale(u)).Add(b.Up.Scale(v))
	return raytrace.NewRay(c.position, dir)
}
