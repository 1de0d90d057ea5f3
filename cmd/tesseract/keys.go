package main

import (
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/tesseract/pkg/camera"
)

// keyLatchDuration is how long a key stays held after its last press when
// the terminal does not report releases.
const keyLatchDuration = 150 * time.Millisecond

// binding maps terminal keystrokes to a held camera key.
type binding struct {
	strokes []string
	key     camera.Key
}

var (
	moveBindings = []binding{
		{[]string{"w"}, camera.KeyForward},
		{[]string{"s"}, camera.KeyBackward},
		{[]string{"a"}, camera.KeyLeft},
		{[]string{"d"}, camera.KeyRight},
		{[]string{"q"}, camera.KeyDown},
		{[]string{"e"}, camera.KeyUp},
		{[]string{"r"}, camera.KeyAna},
		{[]string{"f"}, camera.KeyKata},
	}
	turnBindings = []binding{
		{[]string{"left", "shift+left"}, camera.KeyTurnLeft},
		{[]string{"right", "shift+right"}, camera.KeyTurnRight},
		{[]string{"up", "shift+up"}, camera.KeyLookUp},
		{[]string{"down", "shift+down"}, camera.KeyLookDown},
	}
)

// lookupKey returns the camera key bound to k and whether it is a turn.
func lookupKey(k uv.Key) (camera.Key, bool, bool) {
	for _, b := range moveBindings {
		if k.MatchString(b.strokes...) {
			return b.key, false, true
		}
	}
	for _, b := range turnBindings {
		if k.MatchString(b.strokes...) {
			return b.key, true, true
		}
	}
	return 0, false, false
}

// keyLatch turns terminal key events into held camera keys. Most terminals
// only report presses, repeated while a key is down, so a key counts as
// held until it has not repeated for the latch duration. Once the terminal
// reports a release, releases are trusted and the latch stops expiring keys.
type keyLatch struct {
	cam      *camera.Camera
	latch    time.Duration
	lastSeen map[camera.Key]time.Time
	releases bool
}

func newKeyLatch(cam *camera.Camera, latch time.Duration) *keyLatch {
	return &keyLatch{
		cam:      cam,
		latch:    latch,
		lastSeen: make(map[camera.Key]time.Time),
	}
}

// press handles a key press event. It reports whether the key was bound.
func (l *keyLatch) press(k uv.Key, now time.Time) bool {
	key, turn, ok := lookupKey(k)
	if !ok {
		return false
	}
	// Shift only modifies turns; it is held exactly as long as a shifted
	// arrow is.
	if turn {
		if k.Mod.Contains(uv.ModShift) {
			l.hold(camera.KeyShift, now)
		} else {
			l.drop(camera.KeyShift)
		}
	}
	l.hold(key, now)
	return true
}

// release handles a key release event.
func (l *keyLatch) release(k uv.Key) {
	key, turn, ok := lookupKey(k)
	if !ok {
		return
	}
	l.releases = true
	l.drop(key)
	if turn && k.Mod.Contains(uv.ModShift) {
		l.drop(camera.KeyShift)
	}
}

func (l *keyLatch) hold(key camera.Key, now time.Time) {
	if _, held := l.lastSeen[key]; !held {
		l.cam.HandleKey(key, true)
	}
	l.lastSeen[key] = now
}

func (l *keyLatch) drop(key camera.Key) {
	if _, held := l.lastSeen[key]; held {
		delete(l.lastSeen, key)
		l.cam.HandleKey(key, false)
	}
}

// expire releases keys that have not repeated within the latch duration.
func (l *keyLatch) expire(now time.Time) {
	if l.releases {
		return
	}
	for key, seen := range l.lastSeen {
		if now.Sub(seen) > l.latch {
			l.drop(key)
		}
	}
}

// releaseAll drops every held key, e.g. when the terminal loses focus.
func (l *keyLatch) releaseAll() {
	clear(l.lastSeen)
	l.cam.ResetKeys()
}
