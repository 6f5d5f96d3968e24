package scene

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultFocusMargin scales the bounding radius when framing so models do not touch the viewport edge.
const DefaultFocusMargin = 1.2

// Scene pairs a camera with the orbit controller driving it and the bounds of the
// models being viewed. Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active.
	Active() bool

	// SetActive sets whether this scene is active.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Controller returns the orbit controller attached to the camera, or nil.
	Controller() controls.OrbitController

	// SetController replaces the orbit controller. The previous controller is not disposed.
	//
	// Parameters:
	//   - ctrl: the new controller
	SetController(ctrl controls.OrbitController)

	// AddModel registers the world-space bounds of a model under name, replacing any previous entry.
	//
	// Parameters:
	//   - name: the model key
	//   - bounds: the model bounds
	AddModel(name string, bounds common.Bounds)

	// RemoveModel removes a model. Unknown names are ignored.
	//
	// Parameters:
	//   - name: the model key
	RemoveModel(name string)

	// Models returns the registered model names in sorted order.
	Models() []string

	// Count returns the number of registered models.
	Count() int

	// Bounds returns the union of every registered model's bounds.
	// The result is empty when no models are registered.
	Bounds() common.Bounds

	// Focus frames the combined bounds: the controller target moves to the bounds
	// centre and the camera backs off along its current view direction until the
	// bounding sphere fits the vertical field of view. Orthographic cameras are
	// zoomed instead. The framed pose becomes the controller's reset state.
	//
	// Returns:
	//   - bool: false if there is nothing to frame or no controller
	Focus() bool

	// VisibleModels returns the sorted names of models whose bounds intersect the camera frustum.
	VisibleModels() []string

	// Update advances the controller by dt.
	//
	// Parameters:
	//   - dt: elapsed time since the previous update
	//
	// Returns:
	//   - bool: true if the camera moved
	Update(dt time.Duration) bool

	// Dispose disposes the controller and deactivates the scene.
	Dispose()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam  camera.Camera
	ctrl controls.OrbitController

	models map[string]common.Bounds

	focusMargin float64
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene viewing through cam. The camera is required and
// NewScene panics if it is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		active:      false,
		cam:         cam,
		models:      make(map[string]common.Bounds),
		focusMargin: DefaultFocusMargin,
	}

	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Controller() controls.OrbitController {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl
}

func (s *scene) SetController(ctrl controls.OrbitController) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl = ctrl
}

func (s *scene) AddModel(name string, bounds common.Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[name] = bounds
}

func (s *scene) RemoveModel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.models, name)
}

func (s *scene) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}

func (s *scene) Bounds() common.Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds()
}

func (s *scene) Focus() bool {
	// controller change listeners may call back into the scene, so the lock is
	// released before the controller is touched
	s.mu.RLock()
	bounds := s.bounds()
	cam, ctrl, margin := s.cam, s.ctrl, s.focusMargin
	s.mu.RUnlock()

	if ctrl == nil || bounds.IsEmpty() {
		return false
	}

	center := bounds.Center()
	radius := math.Max(bounds.Radius(), common.Epsilon) * margin

	direction := cam.Position().Sub(ctrl.Target())
	if direction.Len() < common.Epsilon {
		direction = mgl64.Vec3{0, 0, 1}
	}
	direction = direction.Normalize()

	switch p := cam.Projection().(type) {
	case camera.Perspective:
		distance := radius / math.Sin(p.ZoomedFovY(cam.Zoom())/2)
		cam.SetPosition(center.Add(direction.Mul(distance)))
	case camera.Orthographic:
		distance := cam.Position().Sub(ctrl.Target()).Len()
		cam.SetPosition(center.Add(direction.Mul(math.Max(distance, radius*2))))
		cam.SetZoom(math.Min(p.Width(), p.Height()) / (2 * radius))
	default:
		cam.SetPosition(center.Add(direction.Mul(radius * 2)))
	}

	ctrl.SetTarget(center)
	ctrl.Update()
	ctrl.SaveState()
	return true
}

func (s *scene) VisibleModels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frustum := common.ExtractFrustum(s.cam.ViewProjectionMatrix())
	visible := make([]string, 0, len(s.models))
	for name, b := range s.models {
		if frustum.IntersectsBounds(b) {
			visible = append(visible, name)
		}
	}
	sort.Strings(visible)
	return visible
}

func (s *scene) Update(dt time.Duration) bool {
	s.mu.RLock()
	ctrl := s.ctrl
	s.mu.RUnlock()
	if ctrl == nil {
		return false
	}
	return ctrl.UpdateElapsed(dt)
}

func (s *scene) Dispose() {
	s.mu.Lock()
	ctrl := s.ctrl
	s.active = false
	s.mu.Unlock()

	if ctrl != nil {
		ctrl.Dispose()
	}
}

// bounds unions every model's bounds. Caller must hold the mutex.
func (s *scene) bounds() common.Bounds {
	out := common.EmptyBounds()
	for _, b := range s.models {
		out = out.Union(b)
	}
	return out
}
