package controls

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// defaultFrame is the frame time Update assumes for auto-rotation.
const defaultFrame = time.Second / 60

type orbitControllerImpl struct {
	camera      camera.Camera
	source      EventSource
	unsubscribe func()
	logger      zerolog.Logger

	enabled            bool
	enableRotate       bool
	enablePan          bool
	enableZoom         bool
	enableKeys         bool
	enableDamping      bool
	screenSpacePanning bool
	autoRotate         bool

	rotateSpeed     float64
	panSpeed        float64
	zoomSpeed       float64
	keyPanSpeed     float64
	dampingFactor   float64
	autoRotateSpeed float64

	minDistance, maxDistance         float64
	minZoom, maxZoom                 float64
	minPolarAngle, maxPolarAngle     float64
	minAzimuthAngle, maxAzimuthAngle float64

	mouseBindings MouseBindings
	panModifiers  ModifierKey
	keyBindings   KeyBindings

	viewportWidth  int
	viewportHeight int

	target         mgl64.Vec3
	spherical      Spherical
	sphericalDelta Spherical
	panOffset      mgl64.Vec3
	scale          float64
	zoomChanged    bool

	// upAlignment rotates the camera's up vector onto +Y; its inverse rotates back.
	upAlignment        mgl64.Quat
	upAlignmentInverse mgl64.Quat

	lastPosition    mgl64.Vec3
	lastOrientation mgl64.Quat

	// one-way flags set when the camera type cannot support the capability
	zoomUnsupported bool
	panUnsupported  bool

	session   session
	listeners *dispatcher

	target0   mgl64.Vec3
	position0 mgl64.Vec3
	zoom0     float64

	disposed bool
}

var _ OrbitController = &orbitControllerImpl{}

// NewOrbitController creates a controller for cam and subscribes it to source.
// The camera's current pose becomes the saved state for Reset, then an initial
// Update moves it onto the constrained orbit.
//
// Parameters:
//   - cam: the camera to drive
//   - source: the input surface to listen on; nil for programmatic use only
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(cam camera.Camera, source EventSource, options ...OrbitControllerOption) OrbitController {
	c := &orbitControllerImpl{
		camera: cam,
		source: source,
		logger: zerolog.Nop(),

		enabled:      true,
		enableRotate: true,
		enablePan:    true,
		enableZoom:   true,
		enableKeys:   true,

		rotateSpeed:     1,
		panSpeed:        1,
		zoomSpeed:       1,
		keyPanSpeed:     7,
		dampingFactor:   0.25,
		autoRotateSpeed: 2,

		minDistance:     0,
		maxDistance:     math.Inf(1),
		minZoom:         0,
		maxZoom:         math.Inf(1),
		minPolarAngle:   0,
		maxPolarAngle:   math.Pi,
		minAzimuthAngle: math.Inf(-1),
		maxAzimuthAngle: math.Inf(1),

		mouseBindings: DefaultMouseBindings(),
		panModifiers:  DefaultPanModifiers,
		keyBindings:   DefaultKeyBindings(),

		scale:           1,
		lastOrientation: mgl64.QuatIdent(),
		listeners:       newDispatcher(),
	}
	for _, option := range options {
		option(c)
	}

	c.upAlignment = alignToYUp(cam.Up())
	c.upAlignmentInverse = c.upAlignment.Inverse()

	c.SaveState()

	if source != nil {
		c.unsubscribe = source.Subscribe(InputHandler{
			OnPointerDown: c.onPointerDown,
			OnPointerMove: c.onPointerMove,
			OnPointerUp:   c.onPointerUp,
			OnWheel:       c.onWheel,
			OnTouchStart:  c.onTouchStart,
			OnTouchMove:   c.onTouchMove,
			OnTouchEnd:    c.onTouchEnd,
			OnKeyDown:     c.onKeyDown,
		})
	}

	c.Update()
	return c
}

func (c *orbitControllerImpl) Update() bool {
	return c.UpdateElapsed(defaultFrame)
}

func (c *orbitControllerImpl) UpdateElapsed(dt time.Duration) bool {
	offset := c.upAlignment.Rotate(c.camera.Position().Sub(c.target))
	c.spherical = SphericalFromVec3(offset)

	if c.autoRotate && !c.session.active() {
		c.sphericalDelta.Theta -= c.autoRotationAngle(dt)
	}

	c.spherical.Theta += c.sphericalDelta.Theta
	c.spherical.Phi += c.sphericalDelta.Phi

	c.spherical.Theta = math.Max(c.minAzimuthAngle, math.Min(c.maxAzimuthAngle, c.spherical.Theta))
	c.spherical.Phi = math.Max(c.minPolarAngle, math.Min(c.maxPolarAngle, c.spherical.Phi))
	c.spherical = c.spherical.MakeSafe()

	c.spherical.Radius *= c.scale
	c.spherical.Radius = math.Max(c.minDistance, math.Min(c.maxDistance, c.spherical.Radius))

	c.target = c.target.Add(c.panOffset)

	offset = c.upAlignmentInverse.Rotate(c.spherical.Vec3())
	position := c.target.Add(offset)
	c.camera.SetPosition(position)
	c.camera.LookAt(c.target)

	if c.enableDamping {
		c.sphericalDelta.Theta *= 1 - c.dampingFactor
		c.sphericalDelta.Phi *= 1 - c.dampingFactor
		c.panOffset = c.panOffset.Mul(1 - c.dampingFactor)
	} else {
		c.sphericalDelta = Spherical{}
		c.panOffset = mgl64.Vec3{}
	}
	c.scale = 1

	// min(displacement, rotation in radians)^2 > Epsilon, with cos(x/2) ≈ 1 - x²/8
	orientation := c.camera.Orientation()
	if c.zoomChanged ||
		c.lastPosition.Sub(position).LenSqr() > common.Epsilon ||
		8*(1-math.Abs(c.lastOrientation.Dot(orientation))) > common.Epsilon {
		c.lastPosition = position
		c.lastOrientation = orientation
		c.zoomChanged = false
		c.listeners.dispatch(Event{Type: EventChange})
		return true
	}
	return false
}

func (c *orbitControllerImpl) ApplyRotation(deltaPolar, deltaAzimuth float64) {
	c.sphericalDelta.Phi += deltaPolar
	c.sphericalDelta.Theta += deltaAzimuth
}

func (c *orbitControllerImpl) ApplyPan(deltaX, deltaY float64) {
	if c.panUnsupported {
		return
	}
	width, height := c.viewport()

	switch p := c.camera.Projection().(type) {
	case camera.Perspective:
		if height <= 0 {
			return
		}
		// half the fov spans center to top of screen
		targetDistance := c.camera.Position().Sub(c.target).Len() * math.Tan(p.FovY/2)
		// height only, so aspect ratio does not distort speed
		c.panLeft(2 * deltaX * targetDistance / float64(height))
		c.panUp(2 * deltaY * targetDistance / float64(height))
	case camera.Orthographic:
		if width <= 0 || height <= 0 {
			return
		}
		zoom := c.camera.Zoom()
		c.panLeft(deltaX * p.Width() / zoom / float64(width))
		c.panUp(deltaY * p.Height() / zoom / float64(height))
	default:
		c.panUnsupported = true
		c.warn("pan", "unknown camera type, pan disabled")
	}
}

func (c *orbitControllerImpl) ApplyDolly(direction DollyDirection, factor float64) {
	if c.zoomUnsupported || !(factor > 0) || math.IsInf(factor, 0) {
		return
	}

	switch c.camera.Projection().(type) {
	case camera.Perspective:
		if direction == DollyIn {
			c.scale /= factor
		} else {
			c.scale *= factor
		}
	case camera.Orthographic:
		zoom := c.camera.Zoom()
		if direction == DollyIn {
			zoom *= factor
		} else {
			zoom /= factor
		}
		c.camera.SetZoom(math.Max(c.minZoom, math.Min(c.maxZoom, zoom)))
		c.zoomChanged = true
	default:
		c.zoomUnsupported = true
		c.warn("zoom", "unknown camera type, dolly/zoom disabled")
	}
}

func (c *orbitControllerImpl) SaveState() {
	c.target0 = c.target
	c.position0 = c.camera.Position()
	c.zoom0 = c.camera.Zoom()
}

func (c *orbitControllerImpl) Reset() {
	c.endGesture()
	c.sphericalDelta = Spherical{}
	c.panOffset = mgl64.Vec3{}
	c.scale = 1

	c.target = c.target0
	c.camera.SetPosition(c.position0)
	if c.camera.Zoom() != c.zoom0 {
		c.camera.SetZoom(c.zoom0)
		c.zoomChanged = true
	}

	c.listeners.dispatch(Event{Type: EventChange})
	c.Update()
}

func (c *orbitControllerImpl) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.endGesture()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *orbitControllerImpl) CancelGesture() {
	c.endGesture()
}

func (c *orbitControllerImpl) PolarAngle() float64 {
	return c.spherical.Phi
}

func (c *orbitControllerImpl) AzimuthalAngle() float64 {
	return c.spherical.Theta
}

func (c *orbitControllerImpl) Target() mgl64.Vec3 {
	return c.target
}

func (c *orbitControllerImpl) SetTarget(target mgl64.Vec3) {
	c.target = target
}

func (c *orbitControllerImpl) Mode() Mode {
	return c.session.mode
}

func (c *orbitControllerImpl) AddEventListener(t EventType, fn func(Event)) func() {
	return c.listeners.add(t, fn)
}

// SetEnabled gates every input handler. Disabling ends the active gesture.
func (c *orbitControllerImpl) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled {
		c.endGesture()
	}
}

func (c *orbitControllerImpl) SetEnableRotate(enabled bool) {
	c.enableRotate = enabled
}

func (c *orbitControllerImpl) SetEnablePan(enabled bool) {
	c.enablePan = enabled
}

func (c *orbitControllerImpl) SetEnableZoom(enabled bool) {
	c.enableZoom = enabled
}

func (c *orbitControllerImpl) SetEnableKeys(enabled bool) {
	c.enableKeys = enabled
}

func (c *orbitControllerImpl) SetEnableDamping(enabled bool) {
	c.enableDamping = enabled
}

func (c *orbitControllerImpl) SetAutoRotate(enabled bool) {
	c.autoRotate = enabled
}

func (c *orbitControllerImpl) SetScreenSpacePanning(enabled bool) {
	c.screenSpacePanning = enabled
}

func (c *orbitControllerImpl) ZoomSupported() bool {
	return !c.zoomUnsupported
}

func (c *orbitControllerImpl) PanSupported() bool {
	return !c.panUnsupported
}

// features snapshots the effective toggles, with unsupported capabilities forced off.
func (c *orbitControllerImpl) features() features {
	return features{
		rotate: c.enableRotate,
		pan:    c.enablePan && !c.panUnsupported,
		zoom:   c.enableZoom && !c.zoomUnsupported,
		keys:   c.enableKeys,
	}
}

// viewport returns the surface size, falling back to WithViewportSize.
func (c *orbitControllerImpl) viewport() (int, int) {
	if c.source != nil {
		if w, h := c.source.Size(); w > 0 && h > 0 {
			return w, h
		}
	}
	return c.viewportWidth, c.viewportHeight
}

func (c *orbitControllerImpl) autoRotationAngle(dt time.Duration) float64 {
	return 2 * math.Pi / 60 * c.autoRotateSpeed * dt.Seconds()
}

// panLeft moves the target along the camera's right axis. Positive distance moves it left.
func (c *orbitControllerImpl) panLeft(distance float64) {
	c.panOffset = c.panOffset.Add(c.camera.Right().Mul(-distance))
}

// panUp moves the target along the screen-up axis, or along the horizon
// direction when screen-space panning is off.
func (c *orbitControllerImpl) panUp(distance float64) {
	var v mgl64.Vec3
	if c.screenSpacePanning {
		v = c.camera.LocalUp()
	} else {
		v = c.camera.Up().Cross(c.camera.Right())
	}
	c.panOffset = c.panOffset.Add(v.Mul(distance))
}

func (c *orbitControllerImpl) warn(capability, message string) {
	c.logger.Warn().
		Str("capability", capability).
		Str("projection", projectionKind(c.camera.Projection()).String()).
		Msg(message)
	c.listeners.dispatch(Event{Type: EventWarning, Mode: c.session.mode, Message: message})
}

// alignToYUp returns the rotation taking up onto +Y. Zero or +Y input yields identity.
func alignToYUp(up mgl64.Vec3) mgl64.Quat {
	yUp := mgl64.Vec3{0, 1, 0}
	if up.Len() < common.Epsilon {
		return mgl64.QuatIdent()
	}
	up = up.Normalize()
	if up.ApproxEqual(yUp) {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(up, yUp)
}

func projectionKind(p camera.Projection) camera.ProjectionKind {
	if p == nil {
		return camera.ProjectionUnknown
	}
	return p.Kind()
}

// beginGesture starts a session and announces it. Mouse sessions request
// pointer capture so drags keep tracking outside the surface.
func (c *orbitControllerImpl) beginGesture() {
	if c.session.isPointer() && c.source != nil {
		c.source.CapturePointer()
	}
	c.listeners.dispatch(Event{Type: EventStart, Mode: c.session.mode})
}

// endGesture discards the active session, if any, and emits its end event.
func (c *orbitControllerImpl) endGesture() {
	if !c.session.active() {
		return
	}
	mode := c.session.mode
	pointer := c.session.isPointer()
	c.session = session{}
	if pointer && c.source != nil {
		c.source.ReleasePointer()
	}
	c.listeners.dispatch(Event{Type: EventEnd, Mode: mode})
}

func (c *orbitControllerImpl) onPointerDown(e PointerEvent) {
	if !c.enabled || c.session.active() {
		return
	}
	mode := classifyPointerDown(e, c.mouseBindings, c.panModifiers, c.features())
	if mode == ModeNone {
		return
	}
	c.session.beginPointer(mode, mgl64.Vec2{e.X, e.Y})
	c.beginGesture()
}

func (c *orbitControllerImpl) onPointerMove(e PointerEvent) {
	if !c.enabled || !c.session.isPointer() {
		return
	}
	f := c.features()
	p := mgl64.Vec2{e.X, e.Y}

	switch c.session.mode {
	case ModeRotate:
		if !f.rotate {
			return
		}
		_, height := c.viewport()
		if dp, da, ok := c.session.rotate(p, c.rotateSpeed, height); ok {
			c.ApplyRotation(dp, da)
		}
	case ModeDolly:
		if !f.zoom {
			return
		}
		if dir, factor, ok := c.session.dolly(p, c.zoomSpeed); ok {
			c.ApplyDolly(dir, factor)
		}
	case ModePan:
		if !f.pan {
			return
		}
		c.ApplyPan(c.session.pan(p, c.panSpeed))
	}
}

func (c *orbitControllerImpl) onPointerUp(_ PointerEvent) {
	if !c.enabled || !c.session.isPointer() {
		return
	}
	c.endGesture()
}

func (c *orbitControllerImpl) onWheel(e WheelEvent) {
	if !c.enabled || !acceptWheel(c.session.mode, c.features()) {
		return
	}
	dir, factor, ok := wheelDolly(e, c.zoomSpeed)
	c.listeners.dispatch(Event{Type: EventStart, Mode: ModeDolly})
	if ok {
		c.ApplyDolly(dir, factor)
	}
	c.listeners.dispatch(Event{Type: EventEnd, Mode: ModeDolly})
}

func (c *orbitControllerImpl) onKeyDown(e KeyEvent) {
	if !c.enabled {
		return
	}
	if dx, dy, ok := classifyKey(e, c.keyBindings, c.keyPanSpeed, c.features()); ok {
		c.ApplyPan(dx, dy)
	}
}

func (c *orbitControllerImpl) onTouchStart(e TouchEvent) {
	if !c.enabled {
		return
	}
	// a change in contact count replaces the running gesture
	c.endGesture()
	mode := classifyTouch(len(e.Touches), c.features())
	if mode == ModeNone {
		return
	}
	c.session.beginTouch(mode, e.Touches)
	c.beginGesture()
}

func (c *orbitControllerImpl) onTouchMove(e TouchEvent) {
	if !c.enabled {
		return
	}
	f := c.features()

	switch len(e.Touches) {
	case 1:
		if !f.rotate || c.session.mode != ModeTouchRotate {
			return
		}
		_, height := c.viewport()
		if dp, da, ok := c.session.rotate(touchPoint(e.Touches[0]), c.rotateSpeed, height); ok {
			c.ApplyRotation(dp, da)
		}
	case 2:
		if (!f.zoom && !f.pan) || c.session.mode != ModeTouchDollyPan {
			return
		}
		a, b := e.Touches[0], e.Touches[1]
		if f.zoom {
			if factor, ok := c.session.pinch(a, b, c.zoomSpeed); ok {
				c.ApplyDolly(DollyIn, factor)
			}
		}
		if f.pan {
			c.ApplyPan(c.session.panTouch(a, b, c.panSpeed))
		}
	default:
		c.endGesture()
	}
}

func (c *orbitControllerImpl) onTouchEnd(_ TouchEvent) {
	if !c.enabled || !c.session.isTouch() {
		return
	}
	c.endGesture()
}
