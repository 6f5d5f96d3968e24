package controls

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/stretchr/testify/assert"
)

var allFeatures = features{rotate: true, pan: true, zoom: true, keys: true}

func TestClassifyPointerDown(t *testing.T) {
	bindings := DefaultMouseBindings()

	tests := []struct {
		name string
		e    PointerEvent
		f    features
		want Mode
	}{
		{"left rotates", PointerEvent{Button: MouseButtonLeft}, allFeatures, ModeRotate},
		{"left with shift pans", PointerEvent{Button: MouseButtonLeft, Mods: ModShift}, allFeatures, ModePan},
		{"left with control pans", PointerEvent{Button: MouseButtonLeft, Mods: ModControl}, allFeatures, ModePan},
		{"left with super pans", PointerEvent{Button: MouseButtonLeft, Mods: ModSuper}, allFeatures, ModePan},
		{"left with alt still rotates", PointerEvent{Button: MouseButtonLeft, Mods: ModAlt}, allFeatures, ModeRotate},
		{"middle dollies", PointerEvent{Button: MouseButtonMiddle}, allFeatures, ModeDolly},
		{"right pans", PointerEvent{Button: MouseButtonRight}, allFeatures, ModePan},
		{"rotate disabled", PointerEvent{Button: MouseButtonLeft}, features{pan: true, zoom: true}, ModeNone},
		{"modified left with pan disabled", PointerEvent{Button: MouseButtonLeft, Mods: ModShift}, features{rotate: true, zoom: true}, ModeNone},
		{"zoom disabled", PointerEvent{Button: MouseButtonMiddle}, features{rotate: true, pan: true}, ModeNone},
		{"pan disabled", PointerEvent{Button: MouseButtonRight}, features{rotate: true, zoom: true}, ModeNone},
		{"unbound button", PointerEvent{Button: MouseButton(7)}, allFeatures, ModeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPointerDown(tt.e, bindings, DefaultPanModifiers, tt.f))
		})
	}
}

func TestClassifyPointerDown_CustomBindings(t *testing.T) {
	bindings := MouseBindings{Orbit: MouseButtonRight, Zoom: MouseButtonMiddle, Pan: MouseButtonLeft}

	assert.Equal(t, ModeRotate, classifyPointerDown(PointerEvent{Button: MouseButtonRight}, bindings, DefaultPanModifiers, allFeatures))
	assert.Equal(t, ModePan, classifyPointerDown(PointerEvent{Button: MouseButtonLeft}, bindings, DefaultPanModifiers, allFeatures))
	// no pan modifiers configured: shift is ignored
	assert.Equal(t, ModeRotate, classifyPointerDown(PointerEvent{Button: MouseButtonRight, Mods: ModShift}, bindings, 0, allFeatures))
}

func TestClassifyTouch(t *testing.T) {
	tests := []struct {
		name  string
		count int
		f     features
		want  Mode
	}{
		{"no contacts", 0, allFeatures, ModeNone},
		{"one contact", 1, allFeatures, ModeTouchRotate},
		{"two contacts", 2, allFeatures, ModeTouchDollyPan},
		{"three contacts", 3, allFeatures, ModeNone},
		{"one contact rotate disabled", 1, features{pan: true, zoom: true}, ModeNone},
		{"two contacts zoom only", 2, features{zoom: true}, ModeTouchDollyPan},
		{"two contacts pan only", 2, features{pan: true}, ModeTouchDollyPan},
		{"two contacts zoom and pan disabled", 2, features{rotate: true}, ModeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyTouch(tt.count, tt.f))
		})
	}
}

func TestAcceptWheel(t *testing.T) {
	assert.True(t, acceptWheel(ModeNone, allFeatures))
	assert.True(t, acceptWheel(ModeRotate, allFeatures))
	assert.False(t, acceptWheel(ModePan, allFeatures))
	assert.False(t, acceptWheel(ModeDolly, allFeatures))
	assert.False(t, acceptWheel(ModeTouchDollyPan, allFeatures))
	assert.False(t, acceptWheel(ModeNone, features{rotate: true, pan: true}))
}

func TestClassifyKey(t *testing.T) {
	bindings := DefaultKeyBindings()

	tests := []struct {
		name   string
		key    Key
		dx, dy float64
		ok     bool
	}{
		{"up", Key(common.KeyUp), 0, 7, true},
		{"down", Key(common.KeyDown), 0, -7, true},
		{"left", Key(common.KeyLeft), 7, 0, true},
		{"right", Key(common.KeyRight), -7, 0, true},
		{"unbound", Key(common.KeyA), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy, ok := classifyKey(KeyEvent{Key: tt.key}, bindings, 7, allFeatures)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.dx, dx)
			assert.Equal(t, tt.dy, dy)
		})
	}

	_, _, ok := classifyKey(KeyEvent{Key: Key(common.KeyUp)}, bindings, 7, features{rotate: true, pan: true, zoom: true})
	assert.False(t, ok, "keys disabled")
	_, _, ok = classifyKey(KeyEvent{Key: Key(common.KeyUp)}, bindings, 7, features{rotate: true, zoom: true, keys: true})
	assert.False(t, ok, "pan disabled")
}
