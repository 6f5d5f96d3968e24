package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
	"github.com/Carmen-Shannon/oxy-orbit/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost runs one queued step per poll and closes when the queue is empty.
type fakeHost struct {
	*controls.InputRouter
	steps    []func()
	polls    int
	onResize func(width, height int)
}

func newFakeHost(width, height int, steps ...func()) *fakeHost {
	return &fakeHost{InputRouter: controls.NewInputRouter(width, height), steps: steps}
}

func (h *fakeHost) PollEvents() bool {
	if h.polls >= len(h.steps) {
		return false
	}
	if step := h.steps[h.polls]; step != nil {
		step()
	}
	h.polls++
	return true
}

func (h *fakeHost) SetResizeCallback(callback func(width, height int)) {
	h.onResize = callback
}

func (h *fakeHost) resize(width, height int) {
	h.SetSize(width, height)
	if h.onResize != nil {
		h.onResize(width, height)
	}
}

func newOrbitScene(host *fakeHost) (scene.Scene, camera.Camera) {
	cam := camera.NewCamera(camera.WithPosition(0, 0, 10), camera.WithPerspective(math.Pi/4, 1, 0.1, 100))
	ctrl := controls.NewOrbitController(cam, host)
	return scene.NewScene("orbit", cam, scene.WithController(ctrl), scene.WithActive(true)), cam
}

func TestEngine_RunWithoutHost(t *testing.T) {
	e := NewEngine()
	assert.ErrorIs(t, e.Run(context.Background()), ErrNoHost)
}

func TestEngine_RunDrivesControllerFromHostEvents(t *testing.T) {
	host := newFakeHost(800, 600)
	s, cam := newOrbitScene(host)
	start := cam.Position()

	host.steps = []func(){
		func() { host.PointerDown(controls.PointerEvent{Button: controls.MouseButtonLeft, X: 100, Y: 100}) },
		func() { host.PointerMove(controls.PointerEvent{X: 160, Y: 100}) },
		func() { host.PointerUp(controls.PointerEvent{Button: controls.MouseButtonLeft, X: 160, Y: 100}) },
		nil,
	}

	e := NewEngine(WithHost(host), WithScene(0, s), WithFixedTimestep(time.Second/60))

	var moves []bool
	var deltas []time.Duration
	e.SetFrameCallback(func(dt time.Duration, moved bool) {
		moves = append(moves, moved)
		deltas = append(deltas, dt)
	})

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint64(4), e.Frames())
	assert.Equal(t, []bool{false, true, false, false}, moves)
	for _, dt := range deltas {
		assert.Equal(t, time.Second/60, dt)
	}
	assert.False(t, cam.Position().ApproxEqualThreshold(start, 1e-9))
	assert.InDelta(t, 10, cam.Position().Len(), 1e-9)
}

func TestEngine_InactiveScenesAreSkipped(t *testing.T) {
	host := newFakeHost(800, 600)
	s, cam := newOrbitScene(host)
	s.SetActive(false)
	start := cam.Position()

	host.steps = []func(){
		func() { s.Controller().ApplyRotation(0, 1) },
		nil,
	}
	e := NewEngine(WithHost(host), WithScene(0, s))
	require.NoError(t, e.Run(context.Background()))

	assert.Equal(t, start, cam.Position())
}

func TestEngine_Quit(t *testing.T) {
	host := newFakeHost(800, 600)
	var e Engine
	host.steps = []func(){
		nil,
		func() { e.Quit() },
		nil,
		nil,
	}
	e = NewEngine(WithHost(host))

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint64(2), e.Frames())
	e.Quit()
}

func TestEngine_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	host := newFakeHost(800, 600, nil, cancel, nil, nil)

	e := NewEngine(WithHost(host))
	assert.ErrorIs(t, e.Run(ctx), context.Canceled)
	assert.Equal(t, uint64(2), e.Frames())
}

func TestEngine_ResizeFitsAspect(t *testing.T) {
	host := newFakeHost(800, 400)
	s, cam := newOrbitScene(host)

	NewEngine(WithHost(host), WithScene(0, s))
	p, ok := cam.Projection().(camera.Perspective)
	require.True(t, ok)
	assert.InDelta(t, 2.0, p.Aspect, 1e-9)

	host.resize(300, 600)
	p = cam.Projection().(camera.Perspective)
	assert.InDelta(t, 0.5, p.Aspect, 1e-9)

	// minimized windows report a zero height
	host.resize(300, 0)
	p = cam.Projection().(camera.Perspective)
	assert.InDelta(t, 0.5, p.Aspect, 1e-9)
}

func TestEngine_FrameLimit(t *testing.T) {
	host := newFakeHost(800, 600, nil, nil, nil)
	clock := time.Unix(0, 0)
	e := NewEngine(WithHost(host), WithFrameLimit(1000), withClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))

	// each frame already took longer than the cap, so the loop never sleeps
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("frame loop did not finish")
	}
	assert.Equal(t, uint64(3), e.Frames())
}

func TestEngine_Scenes(t *testing.T) {
	host := newFakeHost(800, 600)
	a, _ := newOrbitScene(host)
	b, _ := newOrbitScene(host)

	e := NewEngine(WithScene(1, a))
	e.AddScene(2, b)
	assert.Len(t, e.Scenes(), 2)
	assert.Equal(t, b, e.Scene(2))

	e.RemoveScene(1)
	assert.Nil(t, e.Scene(1))
	assert.Len(t, e.Scenes(), 1)
}

func TestFrameDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), frameDuration(0))
	assert.Equal(t, time.Duration(0), frameDuration(-5))
	assert.Equal(t, 16666666*time.Nanosecond, frameDuration(60))
}
