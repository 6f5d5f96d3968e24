package controls

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// baseZoomScale is the dolly factor of one wheel notch at zoom speed 1.
const baseZoomScale = 0.95

// session is the transient state of one gesture. Deltas are always taken
// against the previous sample, never the gesture's first one.
type session struct {
	mode Mode

	rotateStart mgl64.Vec2
	panStart    mgl64.Vec2
	dollyStart  mgl64.Vec2

	// pinchDistance is the previous two-finger separation; zero until sampled.
	pinchDistance float64
}

func (s *session) active() bool {
	return s.mode != ModeNone
}

// isPointer reports whether the session was started by a mouse button.
func (s *session) isPointer() bool {
	return s.mode == ModeRotate || s.mode == ModeDolly || s.mode == ModePan
}

func (s *session) isTouch() bool {
	return s.mode == ModeTouchRotate || s.mode == ModeTouchDollyPan
}

// beginPointer records the reference coordinates for a mouse gesture.
func (s *session) beginPointer(mode Mode, p mgl64.Vec2) {
	*s = session{mode: mode, rotateStart: p, panStart: p, dollyStart: p}
}

// beginTouch records the reference coordinates for a touch gesture.
// Both the pinch baseline and the pan midpoint are captured so either half of a
// two-finger gesture can be toggled on while it is in progress.
func (s *session) beginTouch(mode Mode, touches []TouchPoint) {
	*s = session{mode: mode}
	switch mode {
	case ModeTouchRotate:
		s.rotateStart = touchPoint(touches[0])
	case ModeTouchDollyPan:
		s.pinchDistance = touchDistance(touches[0], touches[1])
		s.panStart = touchMidpoint(touches[0], touches[1])
	}
}

// rotate converts a sample into polar and azimuth deltas. Both axes are
// normalized by the viewport height so the aspect ratio does not skew speed.
// Moving right or down produces negative deltas.
func (s *session) rotate(p mgl64.Vec2, speed float64, height int) (deltaPolar, deltaAzimuth float64, ok bool) {
	delta := p.Sub(s.rotateStart).Mul(speed)
	s.rotateStart = p
	if height <= 0 {
		return 0, 0, false
	}
	h := float64(height)
	return -2 * math.Pi * delta[1] / h, -2 * math.Pi * delta[0] / h, true
}

// pan converts a sample into a pixel offset scaled by speed.
func (s *session) pan(p mgl64.Vec2, speed float64) (dx, dy float64) {
	delta := p.Sub(s.panStart).Mul(speed)
	s.panStart = p
	return delta[0], delta[1]
}

// dolly converts a vertical drag into a binary dolly step. Dragging down dollies in.
func (s *session) dolly(p mgl64.Vec2, zoomSpeed float64) (DollyDirection, float64, bool) {
	dy := p[1] - s.dollyStart[1]
	s.dollyStart = p
	switch {
	case dy > 0:
		return DollyIn, zoomScale(zoomSpeed), true
	case dy < 0:
		return DollyOut, zoomScale(zoomSpeed), true
	}
	return DollyIn, 1, false
}

// pinch converts a two-finger separation into a continuous dolly-in factor
// relative to the previous sample.
func (s *session) pinch(a, b TouchPoint, zoomSpeed float64) (float64, bool) {
	d := touchDistance(a, b)
	prev := s.pinchDistance
	s.pinchDistance = d
	if prev <= 0 || d <= 0 {
		return 1, false
	}
	return math.Pow(d/prev, zoomSpeed), true
}

// panTouch converts a two-finger midpoint into a pixel offset scaled by speed.
func (s *session) panTouch(a, b TouchPoint, speed float64) (dx, dy float64) {
	return s.pan(touchMidpoint(a, b), speed)
}

// wheelDolly converts a wheel step into a binary dolly step. Scrolling up dollies out.
func wheelDolly(e WheelEvent, zoomSpeed float64) (DollyDirection, float64, bool) {
	switch {
	case e.DeltaY < 0:
		return DollyOut, zoomScale(zoomSpeed), true
	case e.DeltaY > 0:
		return DollyIn, zoomScale(zoomSpeed), true
	}
	return DollyIn, 1, false
}

func zoomScale(zoomSpeed float64) float64 {
	return math.Pow(baseZoomScale, zoomSpeed)
}

func touchPoint(t TouchPoint) mgl64.Vec2 {
	return mgl64.Vec2{t.X, t.Y}
}

func touchDistance(a, b TouchPoint) float64 {
	return touchPoint(a).Sub(touchPoint(b)).Len()
}

func touchMidpoint(a, b TouchPoint) mgl64.Vec2 {
	return touchPoint(a).Add(touchPoint(b)).Mul(0.5)
}
