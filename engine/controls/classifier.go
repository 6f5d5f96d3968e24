package controls

import (
	"github.com/Carmen-Shannon/oxy-orbit/common"
)

// MouseBindings assigns a physical button to each mouse-driven mode.
type MouseBindings struct {
	Orbit MouseButton
	Zoom  MouseButton
	Pan   MouseButton
}

// DefaultMouseBindings returns left to orbit, middle to zoom and right to pan.
func DefaultMouseBindings() MouseBindings {
	return MouseBindings{
		Orbit: MouseButtonLeft,
		Zoom:  MouseButtonMiddle,
		Pan:   MouseButtonRight,
	}
}

// KeyBindings assigns a key to each keyboard pan direction.
type KeyBindings struct {
	Left   Key
	Up     Key
	Right  Key
	Bottom Key
}

// DefaultKeyBindings returns the arrow keys.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Left:   Key(common.KeyLeft),
		Up:     Key(common.KeyUp),
		Right:  Key(common.KeyRight),
		Bottom: Key(common.KeyDown),
	}
}

// DefaultPanModifiers turns an orbit-button press into a pan when any of them is held.
const DefaultPanModifiers = ModShift | ModControl | ModSuper

// features is a snapshot of the toggles the classifier consults.
type features struct {
	rotate bool
	pan    bool
	zoom   bool
	keys   bool
}

// classifyPointerDown maps a button press to the mode it starts.
// ModeNone means the press is swallowed.
func classifyPointerDown(e PointerEvent, b MouseBindings, panMods ModifierKey, f features) Mode {
	switch e.Button {
	case b.Orbit:
		if panMods != 0 && e.Mods.Has(panMods) {
			if !f.pan {
				return ModeNone
			}
			return ModePan
		}
		if !f.rotate {
			return ModeNone
		}
		return ModeRotate
	case b.Zoom:
		if !f.zoom {
			return ModeNone
		}
		return ModeDolly
	case b.Pan:
		if !f.pan {
			return ModeNone
		}
		return ModePan
	}
	return ModeNone
}

// classifyTouch maps the number of active contacts to a touch mode.
// Counts other than one or two abandon the gesture.
func classifyTouch(count int, f features) Mode {
	switch count {
	case 1:
		if !f.rotate {
			return ModeNone
		}
		return ModeTouchRotate
	case 2:
		if !f.zoom && !f.pan {
			return ModeNone
		}
		return ModeTouchDollyPan
	}
	return ModeNone
}

// acceptWheel reports whether a wheel step may dolly while mode is active.
func acceptWheel(mode Mode, f features) bool {
	if !f.zoom {
		return false
	}
	return mode == ModeNone || mode == ModeRotate
}

// classifyKey maps a key press to a pan in pixels. Right and down are positive,
// so the up key pans by a positive y and moves the scene down the screen.
func classifyKey(e KeyEvent, b KeyBindings, speed float64, f features) (dx, dy float64, ok bool) {
	if !f.keys || !f.pan {
		return 0, 0, false
	}
	switch e.Key {
	case b.Up:
		return 0, speed, true
	case b.Bottom:
		return 0, -speed, true
	case b.Left:
		return speed, 0, true
	case b.Right:
		return -speed, 0, true
	}
	return 0, 0, false
}
