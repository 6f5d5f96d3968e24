package controls

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestSessionRotate(t *testing.T) {
	var s session
	s.beginPointer(ModeRotate, mgl64.Vec2{100, 100})

	dp, da, ok := s.rotate(mgl64.Vec2{160, 100}, 1, 600)
	assert.True(t, ok)
	assert.InDelta(t, 0, dp, 1e-12)
	assert.InDelta(t, -2*math.Pi*60/600, da, 1e-12, "dragging right decreases azimuth")

	// deltas are frame to frame
	dp, da, ok = s.rotate(mgl64.Vec2{160, 130}, 2, 600)
	assert.True(t, ok)
	assert.InDelta(t, -2*math.Pi*60/600, dp, 1e-12)
	assert.InDelta(t, 0, da, 1e-12)

	_, _, ok = s.rotate(mgl64.Vec2{0, 0}, 1, 0)
	assert.False(t, ok, "zero height viewport")
}

func TestSessionDolly(t *testing.T) {
	var s session
	s.beginPointer(ModeDolly, mgl64.Vec2{0, 0})

	dir, factor, ok := s.dolly(mgl64.Vec2{0, 10}, 1)
	assert.True(t, ok)
	assert.Equal(t, DollyIn, dir)
	assert.InDelta(t, 0.95, factor, 1e-12)

	dir, factor, ok = s.dolly(mgl64.Vec2{0, 5}, 2)
	assert.True(t, ok)
	assert.Equal(t, DollyOut, dir)
	assert.InDelta(t, 0.95*0.95, factor, 1e-12)

	_, _, ok = s.dolly(mgl64.Vec2{40, 5}, 1)
	assert.False(t, ok, "horizontal motion does not dolly")
}

func TestSessionPinch(t *testing.T) {
	var s session
	s.beginTouch(ModeTouchDollyPan, []TouchPoint{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 100, Y: 0}})

	factor, ok := s.pinch(TouchPoint{X: 25}, TouchPoint{X: 75}, 1)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, factor, 1e-12)

	// baseline advances to the previous sample
	factor, ok = s.pinch(TouchPoint{X: 0}, TouchPoint{X: 100}, 1)
	assert.True(t, ok)
	assert.InDelta(t, 2, factor, 1e-12)

	factor, ok = s.pinch(TouchPoint{X: 0}, TouchPoint{X: 50}, 3)
	assert.True(t, ok)
	assert.InDelta(t, math.Pow(0.5, 3), factor, 1e-12)
}

func TestSessionPinch_CoincidentContacts(t *testing.T) {
	var s session
	s.beginTouch(ModeTouchDollyPan, []TouchPoint{{X: 10, Y: 10}, {X: 10, Y: 10}})

	_, ok := s.pinch(TouchPoint{X: 0}, TouchPoint{X: 50}, 1)
	assert.False(t, ok)

	factor, ok := s.pinch(TouchPoint{X: 0}, TouchPoint{X: 100}, 1)
	assert.True(t, ok)
	assert.InDelta(t, 2, factor, 1e-12)
}

func TestSessionPanTouchUsesMidpoint(t *testing.T) {
	var s session
	s.beginTouch(ModeTouchDollyPan, []TouchPoint{{X: 0, Y: 0}, {X: 100, Y: 0}})

	dx, dy := s.panTouch(TouchPoint{X: 10, Y: 20}, TouchPoint{X: 110, Y: 20}, 1)
	assert.InDelta(t, 10, dx, 1e-12)
	assert.InDelta(t, 20, dy, 1e-12)
}

func TestWheelDolly(t *testing.T) {
	dir, factor, ok := wheelDolly(WheelEvent{DeltaY: -1}, 1)
	assert.True(t, ok)
	assert.Equal(t, DollyOut, dir)
	assert.InDelta(t, 0.95, factor, 1e-12)

	dir, _, ok = wheelDolly(WheelEvent{DeltaY: 3}, 1)
	assert.True(t, ok)
	assert.Equal(t, DollyIn, dir)

	_, _, ok = wheelDolly(WheelEvent{}, 1)
	assert.False(t, ok)
}
