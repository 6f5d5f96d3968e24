package controls

import (
	"sync"
)

// MouseButton identifies a physical pointer button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
)

// ModifierKey is a bit set of keyboard modifiers held during an input event.
type ModifierKey uint8

const (
	ModShift ModifierKey = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Has reports whether any of the modifiers in other are set in m.
func (m ModifierKey) Has(other ModifierKey) bool {
	return m&other != 0
}

// Key is a virtual key code. Values follow the GLFW key table (see common/key_codes.go).
type Key uint32

// PointerEvent is a mouse button press, release, or cursor move in viewport pixels.
// Button is meaningless for moves.
type PointerEvent struct {
	Button MouseButton
	X, Y   float64
	Mods   ModifierKey
}

// WheelEvent is a scroll-wheel step. Negative DeltaY scrolls up (away from the user).
type WheelEvent struct {
	DeltaY float64
}

// TouchPoint is one active contact in viewport pixels.
type TouchPoint struct {
	ID   int
	X, Y float64
}

// TouchEvent carries every contact that is still on the surface after the event,
// so a touch-end with one remaining finger has one Touch.
type TouchEvent struct {
	Touches []TouchPoint
}

// KeyEvent is a key press or auto-repeat.
type KeyEvent struct {
	Key  Key
	Mods ModifierKey
}

// InputHandler is a set of optional callbacks for raw input. Nil callbacks are skipped.
type InputHandler struct {
	OnPointerDown func(e PointerEvent)
	OnPointerMove func(e PointerEvent)
	OnPointerUp   func(e PointerEvent)
	OnWheel       func(e WheelEvent)
	OnTouchStart  func(e TouchEvent)
	OnTouchMove   func(e TouchEvent)
	OnTouchEnd    func(e TouchEvent)
	OnKeyDown     func(e KeyEvent)
}

// EventSource is the host input surface a controller listens to.
// Hosts map these calls onto whatever their platform offers (GLFW callbacks,
// a scripted replay, a test fake).
type EventSource interface {
	// Subscribe registers a handler for raw input events.
	//
	// Parameters:
	//   - h: the handler to register
	//
	// Returns:
	//   - func(): removes the handler; safe to call more than once
	Subscribe(h InputHandler) (unsubscribe func())

	// CapturePointer asks the host to keep delivering pointer moves and releases
	// to subscribers even when the pointer leaves the surface. Hosts that always
	// deliver them may treat this as a no-op.
	CapturePointer()

	// ReleasePointer ends a capture started with CapturePointer.
	ReleasePointer()

	// Size returns the surface client area in pixels.
	//
	// Returns:
	//   - width, height: client area dimensions
	Size() (width, height int)
}

type routerEntry struct {
	id      int
	handler InputHandler
}

// InputRouter is a reusable EventSource implementation that fans raw events out
// to every subscriber in subscription order. Hosts embed it and call the
// dispatch methods from their native callbacks.
type InputRouter struct {
	mu       sync.Mutex
	entries  []routerEntry
	nextID   int
	captured bool
	width    int
	height   int
}

var _ EventSource = &InputRouter{}

// NewInputRouter creates a router for a surface of the given size.
//
// Parameters:
//   - width, height: initial client area in pixels
//
// Returns:
//   - *InputRouter: the router
func NewInputRouter(width, height int) *InputRouter {
	return &InputRouter{width: width, height: height}
}

func (r *InputRouter) Subscribe(h InputHandler) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.entries = append(r.entries, routerEntry{id: id, handler: h})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, e := range r.entries {
				if e.id == id {
					r.entries = append(r.entries[:i], r.entries[i+1:]...)
					return
				}
			}
		})
	}
}

func (r *InputRouter) CapturePointer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captured = true
}

func (r *InputRouter) ReleasePointer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captured = false
}

// Captured reports whether a subscriber currently holds pointer capture.
func (r *InputRouter) Captured() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.captured
}

func (r *InputRouter) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// SetSize records a new client area size.
func (r *InputRouter) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

// Subscribers returns the number of registered handlers.
func (r *InputRouter) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// snapshot copies the handler list so callbacks may unsubscribe while being dispatched.
func (r *InputRouter) snapshot() []InputHandler {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]InputHandler, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.handler
	}
	return out
}

func (r *InputRouter) PointerDown(e PointerEvent) {
	for _, h := range r.snapshot() {
		if h.OnPointerDown != nil {
			h.OnPointerDown(e)
		}
	}
}

func (r *InputRouter) PointerMove(e PointerEvent) {
	for _, h := range r.snapshot() {
		if h.OnPointerMove != nil {
			h.OnPointerMove(e)
		}
	}
}

func (r *InputRouter) PointerUp(e PointerEvent) {
	for _, h := range r.snapshot() {
		if h.OnPointerUp != nil {
			h.OnPointerUp(e)
		}
	}
}

func (r *InputRouter) Wheel(e WheelEvent) {
	for _, h := range r.snapshot() {
		if h.OnWheel != nil {
			h.OnWheel(e)
		}
	}
}

func (r *InputRouter) TouchStart(e TouchEvent) {
	for _, h := range r.snapshot() {
		if h.OnTouchStart != nil {
			h.OnTouchStart(e)
		}
	}
}

func (r *InputRouter) TouchMove(e TouchEvent) {
	for _, h := range r.snapshot() {
		if h.OnTouchMove != nil {
			h.OnTouchMove(e)
		}
	}
}

func (r *InputRouter) TouchEnd(e TouchEvent) {
	for _, h := range r.snapshot() {
		if h.OnTouchEnd != nil {
			h.OnTouchEnd(e)
		}
	}
}

func (r *InputRouter) KeyDown(e KeyEvent) {
	for _, h := range r.snapshot() {
		if h.OnKeyDown != nil {
			h.OnKeyDown(e)
		}
	}
}
