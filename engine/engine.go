package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/engine/profiler"
	"github.com/Carmen-Shannon/oxy-orbit/engine/scene"
	"github.com/rs/zerolog"
)

// ErrNoHost is returned by Run when the engine was built without a Host.
var ErrNoHost = errors.New("engine: no host configured")

// Host is the platform surface the engine drives: a window, or a scripted
// replay. PollEvents dispatches pending input to subscribers.
type Host interface {
	// PollEvents processes pending events without blocking.
	//
	// Returns:
	//   - bool: false once the host has closed
	PollEvents() bool

	// SetResizeCallback registers the function called when the surface is resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// Size returns the surface client area in pixels.
	Size() (width, height int)
}

// engine implements the Engine interface.
// Input handlers, controller updates and frame callbacks all run on the
// goroutine that calls Run, which keeps each controller single-threaded.
type engine struct {
	mu sync.Mutex

	logger zerolog.Logger

	host Host

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback func(deltaTime time.Duration, moved bool)

	scenes map[int]scene.Scene

	frameLimit    time.Duration // minimum frame duration; 0 = uncapped
	fixedTimestep time.Duration // when set, every frame reports this delta instead of wall time
	now           func() time.Time
	frames        uint64
}

// Engine is the main entry point for the viewer.
// It orchestrates the frame loop, scene updates and host events.
type Engine interface {
	// Host returns the underlying host.
	//
	// Returns:
	//   - Host: the host instance, or nil
	Host() Host

	// EnableProfiler enables frame statistics logging.
	EnableProfiler()

	// DisableProfiler disables frame statistics logging.
	DisableProfiler()

	// SetFrameCallback registers the function called after every frame's scene updates.
	//
	// Parameters:
	//   - callback: receives the frame delta and whether any active scene's camera moved
	SetFrameCallback(callback func(deltaTime time.Duration, moved bool))

	// SetFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are updated in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining update order (lower updates first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Frames returns the number of frames run so far.
	Frames() uint64

	// Run runs the frame loop on the calling goroutine until the host closes,
	// Quit is called, or ctx is done.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ErrNoHost, ctx.Err() on cancellation, or nil
	Run(ctx context.Context) error

	// Quit stops the frame loop after the current frame.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (host, profiling, frame cap, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger:      zerolog.Nop(),
		quitChannel: make(chan struct{}),
		scenes:      make(map[int]scene.Scene),
		now:         time.Now,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(e.logger)
	}

	if e.host != nil {
		e.host.SetResizeCallback(e.resize)
		if w, h := e.host.Size(); w > 0 && h > 0 {
			e.resize(w, h)
		}
	}

	return e
}

func (e *engine) Host() Host {
	return e.host
}

func (e *engine) Run(ctx context.Context) error {
	if e.host == nil {
		return ErrNoHost
	}

	e.logger.Info().Int("scenes", len(e.Scenes())).Msg("frame loop started")
	defer func() {
		e.logger.Info().Uint64("frames", e.Frames()).Msg("frame loop stopped")
	}()

	lastFrame := e.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		default:
		}

		if !e.host.PollEvents() {
			return nil
		}

		now := e.now()
		dt := now.Sub(lastFrame)
		lastFrame = now
		if e.fixedTimestep > 0 {
			dt = e.fixedTimestep
		}

		moved := false
		for _, s := range e.activeScenes() {
			if s.Update(dt) {
				moved = true
			}
		}

		e.mu.Lock()
		e.frames++
		callback := e.frameCallback
		profiling := e.profilingEnabled
		e.mu.Unlock()

		if callback != nil {
			callback(dt, moved)
		}
		if profiling {
			e.profiler.Tick(moved)
		}

		if e.frameLimit > 0 {
			if remaining := e.frameLimit - e.now().Sub(now); remaining > 0 {
				select {
				case <-time.After(remaining):
				case <-ctx.Done():
					return ctx.Err()
				case <-e.quitChannel:
					return nil
				}
			}
		}
	}
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(deltaTime time.Duration, moved bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameCallback = callback
}

func (e *engine) SetFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameLimit = frameDuration(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// activeScenes returns the active scenes in ascending z-index order.
func (e *engine) activeScenes() []scene.Scene {
	scenes := e.Scenes()
	keys := make([]int, 0, len(scenes))
	for k := range scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	active := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// resize fits every scene camera to the new surface aspect ratio.
// A zero height (minimized window) is ignored.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float64(width) / float64(height)
	for _, s := range e.Scenes() {
		if c := s.Camera(); c != nil {
			c.SetAspect(aspect)
		}
	}
	e.logger.Debug().Int("width", width).Int("height", height).Msg("surface resized")
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
