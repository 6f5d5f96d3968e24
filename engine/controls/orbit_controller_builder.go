package controls

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

type OrbitControllerOption func(*orbitControllerImpl)

// WithTarget sets the initial orbit focus point. Defaults to the origin.
//
// Parameters:
//   - target: the world-space focus point
//
// Returns:
//   - OrbitControllerOption: a function that sets the target
func WithTarget(target mgl64.Vec3) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.target = target
	}
}

// WithEnableRotate toggles rotation gestures.
func WithEnableRotate(enabled bool) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.enableRotate = enabled
	}
}

// WithEnablePan toggles pan gestures and keyboard panning.
func WithEnablePan(enabled bool) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.enablePan = enabled
	}
}

// WithEnableZoom toggles dolly gestures and the wheel.
func WithEnableZoom(enabled bool) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.enableZoom = enabled
	}
}

// WithEnableKeys toggles keyboard panning.
func WithEnableKeys(enabled bool) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.enableKeys = enabled
	}
}

// WithRotateSpeed scales rotation gestures. Non-positive values are ignored.
func WithRotateSpeed(speed float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if speed > 0 {
			c.rotateSpeed = speed
		}
	}
}

// WithPanSpeed scales pan gestures. Non-positive values are ignored.
func WithPanSpeed(speed float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if speed > 0 {
			c.panSpeed = speed
		}
	}
}

// WithZoomSpeed sets the exponent applied to dolly steps. Non-positive values are ignored.
func WithZoomSpeed(speed float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if speed > 0 {
			c.zoomSpeed = speed
		}
	}
}

// WithKeyPanSpeed sets how many pixels one arrow key press pans. Non-positive values are ignored.
func WithKeyPanSpeed(pixels float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if pixels > 0 {
			c.keyPanSpeed = pixels
		}
	}
}

// WithDamping enables inertial motion.
//
// Parameters:
//   - enabled: whether queued motion decays instead of being consumed at once
//   - factor: the per-update decay fraction, kept only if inside (0, 1)
//
// Returns:
//   - OrbitControllerOption: a function that configures damping
func WithDamping(enabled bool, factor float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.enableDamping = enabled
		if factor > 0 && factor < 1 {
			c.dampingFactor = factor
		}
	}
}

// WithScreenSpacePanning pans along the camera's own up axis instead of the
// horizontal plane.
func WithScreenSpacePanning(enabled bool) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.screenSpacePanning = enabled
	}
}

// WithAutoRotate spins the camera around the target while no gesture is active.
//
// Parameters:
//   - enabled: whether auto-rotation runs
//   - speed: full orbits per minute, so 2 completes an orbit in 30 seconds
//
// Returns:
//   - OrbitControllerOption: a function that configures auto-rotation
func WithAutoRotate(enabled bool, speed float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.autoRotate = enabled
		c.autoRotateSpeed = speed
	}
}

// WithDistanceBounds limits the orbit radius of perspective cameras.
// Ignored if lower is negative or greater than upper.
func WithDistanceBounds(lower, upper float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if lower >= 0 && lower <= upper {
			c.minDistance, c.maxDistance = lower, upper
		}
	}
}

// WithZoomBounds limits the zoom of orthographic cameras.
// Ignored if lower is negative or greater than upper.
func WithZoomBounds(lower, upper float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if lower >= 0 && lower <= upper {
			c.minZoom, c.maxZoom = lower, upper
		}
	}
}

// WithPolarBounds limits the angle from the up axis. Both values are clamped to [0, π].
func WithPolarBounds(lower, upper float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		lower = mgl64.Clamp(lower, 0, math.Pi)
		upper = mgl64.Clamp(upper, 0, math.Pi)
		if lower <= upper {
			c.minPolarAngle, c.maxPolarAngle = lower, upper
		}
	}
}

// WithAzimuthBounds limits the angle around the up axis. Use ±math.Inf(1) for no limit.
func WithAzimuthBounds(lower, upper float64) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if lower <= upper {
			c.minAzimuthAngle, c.maxAzimuthAngle = lower, upper
		}
	}
}

// WithMouseBindings reassigns the mouse buttons.
func WithMouseBindings(b MouseBindings) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.mouseBindings = b
	}
}

// WithPanModifiers sets which modifiers turn an orbit press into a pan. Zero disables the shortcut.
func WithPanModifiers(mods ModifierKey) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.panModifiers = mods
	}
}

// WithKeyBindings reassigns the keyboard pan keys.
func WithKeyBindings(b KeyBindings) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.keyBindings = b
	}
}

// WithViewportSize sets the viewport used when the controller has no input
// source, or the source reports an empty surface.
func WithViewportSize(width, height int) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.viewportWidth, c.viewportHeight = width, height
	}
}

// WithLogger sets the logger used for capability warnings. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.logger = logger
	}
}
