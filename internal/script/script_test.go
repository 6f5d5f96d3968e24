package script

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orbitScript = `
name: orbit-right
viewport: {width: 800, height: 600}
settle: 2
steps:
  - pointer_down: {button: left, x: 100, y: 100}
  - pointer_move: {x: 160, y: 100}
  - pointer_up: {x: 160, y: 100}
`

func newCamera() camera.Camera {
	return camera.NewCamera(camera.WithPosition(0, 0, 10), camera.WithPerspective(math.Pi/4, 4.0/3.0, 0.1, 1000))
}

func TestParse_Defaults(t *testing.T) {
	s, err := Parse(strings.NewReader("steps:\n  - wait: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultFPS), s.FPS)
	assert.Equal(t, Viewport{Width: 800, Height: 600}, s.Viewport)
	assert.Equal(t, 3, s.Frames())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		errMsg string
	}{
		{"empty", "", "script is empty"},
		{"unknown field", "steps:\n  - jump: {}\n", "failed to decode script"},
		{"two actions", "steps:\n  - wait: 1\n    wheel: {delta_y: 1}\n", "exactly one action"},
		{"no action", "steps:\n  - {}\n", "exactly one action"},
		{"bad button", "steps:\n  - pointer_down: {button: thumb, x: 0, y: 0}\n", "unknown mouse button"},
		{"bad modifier", "steps:\n  - pointer_down: {x: 0, y: 0, mods: [hyper]}\n", "unknown modifier"},
		{"bad key", "steps:\n  - key_down: {key: pageup}\n", "unknown key"},
		{"negative wait", "steps:\n  - wait: -2\n", "wait cannot be negative"},
		{"negative fps", "fps: -1\n", "fps must be positive"},
		{"negative settle", "settle: -1\n", "settle cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orbitScript), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "orbit-right", s.Name)
	assert.Len(t, s.Steps, 3)
	assert.Equal(t, 5, s.Frames())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseKeyAndMods(t *testing.T) {
	key, err := parseKey("UP")
	require.NoError(t, err)
	assert.Equal(t, controls.Key(common.KeyUp), key)

	key, err = parseKey("82")
	require.NoError(t, err)
	assert.Equal(t, controls.Key(82), key)

	mods, err := parseMods([]string{"shift", "ctrl", "cmd"})
	require.NoError(t, err)
	assert.True(t, mods.Has(controls.ModShift))
	assert.True(t, mods.Has(controls.ModControl))
	assert.True(t, mods.Has(controls.ModSuper))
	assert.False(t, mods.Has(controls.ModAlt))
}

func TestSource_DeliversOneStepPerPoll(t *testing.T) {
	s, err := Parse(strings.NewReader(orbitScript))
	require.NoError(t, err)

	src := NewSource(s)
	var downs, moves, ups int
	src.Subscribe(controls.InputHandler{
		OnPointerDown: func(controls.PointerEvent) { downs++ },
		OnPointerMove: func(controls.PointerEvent) { moves++ },
		OnPointerUp:   func(controls.PointerEvent) { ups++ },
	})

	w, h := src.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	require.True(t, src.PollEvents())
	assert.Equal(t, 1, downs)
	assert.Zero(t, moves)

	for src.PollEvents() {
	}
	assert.Equal(t, 1, moves)
	assert.Equal(t, 1, ups)
	assert.Zero(t, src.Remaining())
}

func TestPlayer_Orbit(t *testing.T) {
	s, err := Parse(strings.NewReader(orbitScript))
	require.NoError(t, err)

	cam := newCamera()
	result, err := NewPlayer().Play(context.Background(), s, cam)
	require.NoError(t, err)

	require.Len(t, result.Frames, 5)
	assert.Equal(t, "rotate", result.Frames[0].Mode)
	assert.False(t, result.Frames[0].Moved)
	assert.True(t, result.Frames[1].Moved)
	assert.Equal(t, "none", result.Frames[2].Mode)
	assert.False(t, result.Frames[4].Moved)

	want := -2 * math.Pi * 60 / 600
	last := result.Frames[4]
	assert.InDelta(t, want, last.Azimuth, 1e-9)
	assert.InDelta(t, math.Pi/2, last.Polar, 1e-9)
	assert.InDelta(t, 10*math.Sin(want), last.Position[0], 1e-9)
	assert.InDelta(t, 10*math.Cos(want), last.Position[2], 1e-9)

	var starts, ends int
	for _, e := range result.Events {
		switch e.Type {
		case controls.EventStart:
			starts++
		case controls.EventEnd:
			ends++
		}
	}
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
}

func TestPlayer_WheelDolly(t *testing.T) {
	s, err := Parse(strings.NewReader("name: zoom\nsteps:\n  - wheel: {delta_y: -1}\n"))
	require.NoError(t, err)

	cam := newCamera()
	result, err := NewPlayer().Play(context.Background(), s, cam)
	require.NoError(t, err)

	require.Len(t, result.Frames, 1)
	assert.InDelta(t, 9.5, cam.Position().Len(), 1e-9)
}

func TestPlayer_DampingSettles(t *testing.T) {
	doc := orbitScript + "\n"
	s, err := Parse(strings.NewReader(strings.Replace(doc, "settle: 2", "settle: 30", 1)))
	require.NoError(t, err)

	player := NewPlayer(WithControllerOptions(controls.WithDamping(true, 0.25)))
	result, err := player.Play(context.Background(), s, newCamera())
	require.NoError(t, err)

	// the queued rotation keeps moving the camera after release
	require.Len(t, result.Frames, 33)
	assert.True(t, result.Frames[3].Moved)
	assert.Less(t, result.Frames[32].Azimuth, -2*math.Pi*60/600)
}

func TestPlayer_Cancelled(t *testing.T) {
	s, err := Parse(strings.NewReader(orbitScript))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewPlayer().Play(ctx, s, newCamera())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
