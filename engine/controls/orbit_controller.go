package controls

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// OrbitController moves a camera around a target point in response to pointer,
// touch, wheel and keyboard input.
//
// Input handlers only queue motion. The owning frame loop calls Update once per
// frame to apply it. An OrbitController is not safe for concurrent use; input
// delivery and Update must happen on the same goroutine.
type OrbitController interface {
	// Update applies queued motion, damping and constraints and writes the new
	// camera pose. Auto-rotation assumes a 60 Hz frame.
	//
	// Returns:
	//   - bool: true if the pose or zoom changed enough to warrant a redraw
	Update() bool

	// UpdateElapsed is Update with auto-rotation scaled by the real frame time.
	//
	// Parameters:
	//   - dt: time elapsed since the previous update
	//
	// Returns:
	//   - bool: true if the pose or zoom changed enough to warrant a redraw
	UpdateElapsed(dt time.Duration) bool

	// ApplyRotation queues polar and azimuth angle deltas in radians.
	//
	// Parameters:
	//   - deltaPolar: change of the angle from the up axis
	//   - deltaAzimuth: change of the angle around the up axis
	ApplyRotation(deltaPolar, deltaAzimuth float64)

	// ApplyPan queues a target translation from a screen-space delta in pixels.
	// Right and down are positive. The world distance depends on the projection.
	//
	// Parameters:
	//   - deltaX: horizontal pixels
	//   - deltaY: vertical pixels
	ApplyPan(deltaX, deltaY float64)

	// ApplyDolly queues a dolly step. Perspective cameras scale the orbit radius
	// on the next Update; orthographic cameras change zoom immediately.
	//
	// Parameters:
	//   - direction: DollyIn or DollyOut
	//   - factor: the step factor, must be positive
	ApplyDolly(direction DollyDirection, factor float64)

	// SaveState snapshots the target, camera position and zoom for Reset.
	SaveState()

	// Reset restores the last saved state, ends any active gesture and drops
	// queued motion.
	Reset()

	// Dispose detaches the controller from its input source. Safe to call more than once.
	Dispose()

	// CancelGesture discards the active gesture without touching queued motion.
	CancelGesture()

	// PolarAngle returns the polar angle computed by the last Update.
	//
	// Returns:
	//   - float64: radians from the up axis
	PolarAngle() float64

	// AzimuthalAngle returns the azimuth computed by the last Update.
	//
	// Returns:
	//   - float64: radians around the up axis
	AzimuthalAngle() float64

	// Target returns the orbit focus point.
	//
	// Returns:
	//   - mgl64.Vec3: the world-space target
	Target() mgl64.Vec3

	// SetTarget moves the orbit focus point. Takes effect on the next Update.
	//
	// Parameters:
	//   - target: the new world-space target
	SetTarget(target mgl64.Vec3)

	// Mode returns the current gesture mode.
	//
	// Returns:
	//   - Mode: the active mode, ModeNone when idle
	Mode() Mode

	// AddEventListener registers fn for events of type t.
	//
	// Parameters:
	//   - t: the event type to listen for
	//   - fn: the callback
	//
	// Returns:
	//   - func(): removes the listener; safe to call more than once
	AddEventListener(t EventType, fn func(Event)) (remove func())

	SetEnabled(enabled bool)
	SetEnableRotate(enabled bool)
	SetEnablePan(enabled bool)
	SetEnableZoom(enabled bool)
	SetEnableKeys(enabled bool)
	SetEnableDamping(enabled bool)
	SetAutoRotate(enabled bool)
	SetScreenSpacePanning(enabled bool)

	// ZoomSupported reports whether dolly is still available for the camera type.
	ZoomSupported() bool

	// PanSupported reports whether pan is still available for the camera type.
	PanSupported() bool
}
