package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = mgl64.Vec3{x, y, z}
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(x, y, z float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = mgl64.Vec3{x, y, z}
	}
}

// WithPerspective gives the camera a perspective projection.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width / height)
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithPerspective(fovY, aspect, near, far float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = Perspective{FovY: fovY, Aspect: aspect, Near: near, Far: far}
	}
}

// WithOrthographic gives the camera an orthographic projection.
//
// Parameters:
//   - left, right, top, bottom: view-space extents at zoom 1
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithOrthographic(left, right, top, bottom, near, far float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = Orthographic{Left: left, Right: right, Top: top, Bottom: bottom, Near: near, Far: far}
	}
}

// WithProjection sets an already-built projection. Passing nil produces a camera
// whose type is unsupported by projection-aware controllers.
//
// Parameters:
//   - p: the projection
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithProjection(p Projection) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = p
	}
}

// WithZoom sets the initial zoom factor.
//
// Parameters:
//   - zoom: the zoom factor (1 = unzoomed)
//
// Returns:
//   - CameraBuilderOption: a function that sets the zoom
func WithZoom(zoom float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.zoom = zoom
	}
}

// WithLookAt orients the camera toward target once all other options are applied.
//
// Parameters:
//   - x, y, z: the point to look at
//
// Returns:
//   - CameraBuilderOption: a function that orients the camera
func WithLookAt(x, y, z float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lookAt = &mgl64.Vec3{x, y, z}
	}
}
