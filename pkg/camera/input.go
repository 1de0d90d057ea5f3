package camera

import (
	"fmt"

	"github.com/taigrr/tesseract/pkg/math4d"
)

// Key is a logical camera control, independent of the physical key bound
// to it.
type Key uint8

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyDown
	KeyUp
	KeyAna
	KeyKata
	KeyTurnLeft
	KeyTurnRight
	KeyLookUp
	KeyLookDown
	KeyShift
	KeyToggleVolumeView

	keyCount
)

var keyNames = [keyCount]string{
	KeyForward:          "forward",
	KeyBackward:         "backward",
	KeyLeft:             "left",
	KeyRight:            "right",
	KeyDown:             "down",
	KeyUp:               "up",
	KeyAna:              "ana",
	KeyKata:             "kata",
	KeyTurnLeft:         "turn-left",
	KeyTurnRight:        "turn-right",
	KeyLookUp:           "look-up",
	KeyLookDown:         "look-down",
	KeyShift:            "shift",
	KeyToggleVolumeView: "toggle-volume-view",
}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// HandleKey records a press or release. The volume view toggles on press.
// Unknown keys are ignored.
func (c *Camera) HandleKey(key Key, pressed bool) {
	if key >= keyCount {
		return
	}
	if key == KeyToggleVolumeView && pressed && !c.keys[key] {
		c.ToggleVolumeView()
	}
	c.keys[key] = pressed
}

// Held reports whether key is currently pressed.
func (c *Camera) Held(key Key) bool {
	return key < keyCount && c.keys[key]
}

// ResetKeys releases every held key, for example when input focus is lost.
func (c *Camera) ResetKeys() {
	c.keys = [keyCount]bool{}
}

// HandlePointerDelta turns the camera by a pointer movement. Horizontal
// movement turns forward toward right; vertical movement looks up or down,
// with screen y growing downward.
func (c *Camera) HandlePointerDelta(dx, dy float64) {
	s := c.cfg.PointerSensitivity
	if dx != 0 {
		c.turn(math4d.RotationXZ(dx * s))
	}
	if dy != 0 {
		c.look(-dy * s)
	}
}

// HandlePointerScroll turns through the fourth axis: dy turns forward
// toward ana, dx turns right toward ana.
func (c *Camera) HandlePointerScroll(dx, dy float64) {
	s := c.cfg.ScrollSensitivity
	if dy != 0 {
		c.turn(math4d.RotationXW(dy * s))
	}
	if dx != 0 {
		c.turn(math4d.RotationZW(dx * s))
	}
}

func (c *Camera) axis(positive, negative Key) float64 {
	var v float64
	if c.keys[positive] {
		v++
	}
	if c.keys[negative] {
		v--
	}
	return v
}

func (c *Camera) moveAxes() (forward, up, right, ana float64) {
	return c.axis(KeyForward, KeyBackward),
		c.axis(KeyUp, KeyDown),
		c.axis(KeyRight, KeyLeft),
		c.axis(KeyAna, KeyKata)
}

// applyKeyTurns applies held turn keys for one update.
//
//	mode    shift  look up/down        turn left/right
//	normal  no     vertical angle      forward-right
//	normal  yes    forward-ana         right-ana
//	volume  no     forward-ana         forward-right
//	volume  yes    -                   right-ana, reversed
func (c *Camera) applyKeyTurns(amount float64) {
	vertical := c.axis(KeyLookUp, KeyLookDown) * amount
	horizontal := c.axis(KeyTurnRight, KeyTurnLeft) * amount
	shift := c.keys[KeyShift]

	switch {
	case !c.volumeView && !shift:
		if vertical != 0 {
			c.look(vertical)
		}
		if horizontal != 0 {
			c.turn(math4d.RotationXZ(horizontal))
		}
	case !c.volumeView && shift:
		if vertical != 0 {
			c.turn(math4d.RotationXW(vertical))
		}
		if horizontal != 0 {
			c.turn(math4d.RotationZW(horizontal))
		}
	case c.volumeView && !shift:
		if vertical != 0 {
			c.turn(math4d.RotationXW(vertical))
		}
		if horizontal != 0 {
			c.turn(math4d.RotationXZ(horizontal))
		}
	default:
		if horizontal != 0 {
			c.turn(math4d.RotationZW(-horizontal))
		}
	}
}
