package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl64"
)

type cameraImpl struct {
	mu *sync.Mutex

	position    mgl64.Vec3
	orientation mgl64.Quat
	up          mgl64.Vec3
	zoom        float64

	projection Projection

	// lookAt is a pending construction-time target applied after all options.
	lookAt *mgl64.Vec3

	viewMatrix           mgl64.Mat4
	projectionMatrix     mgl64.Mat4
	viewProjectionMatrix mgl64.Mat4
}

// Camera defines the interface for the camera system.
// The camera holds its world-space pose, its projection, and the matrices derived
// from them. Controllers move the camera through SetPosition and LookAt; every
// setter recomputes the affected matrices.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl64.Vec3: the world-space position
	Position() mgl64.Vec3

	// SetPosition moves the camera without changing its orientation.
	//
	// Parameters:
	//   - p: the new world-space position
	SetPosition(p mgl64.Vec3)

	// Orientation returns the camera's world-space rotation.
	//
	// Returns:
	//   - mgl64.Quat: the normalized orientation
	Orientation() mgl64.Quat

	// SetOrientation sets the camera's world-space rotation.
	//
	// Parameters:
	//   - q: the new orientation (normalized on store)
	SetOrientation(q mgl64.Quat)

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl64.Vec3: the up vector
	Up() mgl64.Vec3

	// SetUp sets the camera's up vector used by LookAt.
	//
	// Parameters:
	//   - up: the new up vector
	SetUp(up mgl64.Vec3)

	// LookAt rotates the camera so its forward axis points at target.
	//
	// Parameters:
	//   - target: the world-space point to face
	LookAt(target mgl64.Vec3)

	// Right returns the camera's local +X axis in world space.
	//
	// Returns:
	//   - mgl64.Vec3: the right axis
	Right() mgl64.Vec3

	// LocalUp returns the camera's local +Y axis in world space.
	//
	// Returns:
	//   - mgl64.Vec3: the screen-up axis
	LocalUp() mgl64.Vec3

	// Zoom returns the zoom factor (1 = unzoomed).
	//
	// Returns:
	//   - float64: the zoom factor
	Zoom() float64

	// SetZoom sets the zoom factor and recomputes the projection matrix.
	//
	// Parameters:
	//   - zoom: the new zoom factor
	SetZoom(zoom float64)

	// Projection returns the camera's projection variant, or nil if none is set.
	//
	// Returns:
	//   - Projection: the projection
	Projection() Projection

	// SetProjection replaces the projection and recomputes the projection matrix.
	//
	// Parameters:
	//   - p: the new projection
	SetProjection(p Projection)

	// SetAspect fits the projection to a new viewport aspect ratio.
	//
	// Parameters:
	//   - aspect: the aspect ratio (width / height)
	SetAspect(aspect float64)

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl64.Mat4: the view matrix
	ViewMatrix() mgl64.Mat4

	// ProjectionMatrix returns the current projection matrix.
	//
	// Returns:
	//   - mgl64.Mat4: the projection matrix
	ProjectionMatrix() mgl64.Mat4

	// ViewProjectionMatrix returns the combined view-projection matrix.
	//
	// Returns:
	//   - mgl64.Mat4: projection * view
	ViewProjectionMatrix() mgl64.Mat4

	// Uniform packs the current matrices into the GPU uniform layout.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform snapshot
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with a 45 degree perspective projection,
// positioned on +Z looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		position:    mgl64.Vec3{0, 0, 10},
		orientation: mgl64.QuatIdent(),
		up:          mgl64.Vec3{0, 1, 0},
		zoom:        1,
		projection: Perspective{
			FovY:   45.0 * (math.Pi / 180.0), // radians
			Aspect: 1.0,
			Near:   0.1,
			Far:    100.0,
		},
	}
	for _, option := range options {
		option(c)
	}
	if c.lookAt != nil {
		c.orientation = common.LookAtRotation(c.position, *c.lookAt, c.up)
		c.lookAt = nil
	}
	c.updateView()
	c.updateProjection()
	return c
}

func (c *cameraImpl) Position() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.updateView()
}

func (c *cameraImpl) Orientation() mgl64.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

func (c *cameraImpl) SetOrientation(q mgl64.Quat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orientation = q.Normalize()
	c.updateView()
}

func (c *cameraImpl) Up() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) SetUp(up mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
}

func (c *cameraImpl) LookAt(target mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orientation = common.LookAtRotation(c.position, target, c.up)
	c.updateView()
}

func (c *cameraImpl) Right() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation.Rotate(mgl64.Vec3{1, 0, 0})
}

func (c *cameraImpl) LocalUp() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation.Rotate(mgl64.Vec3{0, 1, 0})
}

func (c *cameraImpl) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) SetZoom(zoom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = zoom
	c.updateProjection()
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) SetProjection(p Projection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = p
	c.updateProjection()
}

func (c *cameraImpl) SetAspect(aspect float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = FitAspect(c.projection, aspect)
	c.updateProjection()
}

func (c *cameraImpl) ViewMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       common.Mat4ToFloat32(c.viewProjectionMatrix),
		CameraPosition: common.Vec3ToFloat32(c.position),
		Zoom:           float32(c.zoom),
	}
}

// updateView recalculates the view and view-projection matrices from the pose.
// The view matrix is the inverse of the camera's world transform.
// Caller must hold the mutex.
func (c *cameraImpl) updateView() {
	world := mgl64.Translate3D(c.position[0], c.position[1], c.position[2]).Mul4(c.orientation.Mat4())
	c.viewMatrix = world.Inv()
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

// updateProjection recalculates the projection and view-projection matrices.
// A nil projection leaves the identity in place.
// Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	if c.projection == nil {
		c.projectionMatrix = mgl64.Ident4()
	} else {
		c.projectionMatrix = c.projection.Matrix(c.zoom)
	}
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
