package config

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "perspective", cfg.Camera.Projection)
	assert.True(t, math.IsInf(cfg.Controls.MaxDistance, 1))
}

func TestLoadFromPath_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, Default().Window, cfg.Window)
	assert.Equal(t, Default().Camera, cfg.Camera)
	assert.Equal(t, 7.0, cfg.Controls.KeyPanSpeed)
	assert.True(t, math.IsInf(cfg.Controls.MaxDistance, 1))
	assert.True(t, math.IsInf(cfg.Controls.MinAzimuthAngle, -1))
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPath_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
camera:
  projection: orthographic
  ortho_height: 8
controls:
  enable_damping: true
  damping_factor: 0.1
  min_distance: 2
  max_distance: 50
logging:
  level: debug
`), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "orthographic", cfg.Camera.Projection)
	assert.Equal(t, 8.0, cfg.Camera.OrthoHeight)
	assert.Equal(t, 0.1, cfg.Camera.Near)
	assert.True(t, cfg.Controls.EnableDamping)
	assert.Equal(t, 0.1, cfg.Controls.DampingFactor)
	assert.Equal(t, 50.0, cfg.Controls.MaxDistance)
	assert.True(t, cfg.Controls.EnableRotate)
	assert.Equal(t, 1.0, cfg.Controls.ZoomSpeed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPath_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("OXY_ORBIT_CONTROLS_ZOOM_SPEED", "2.5")
	t.Setenv("OXY_ORBIT_LOGGING_LEVEL", "warn")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Controls.ZoomSpeed)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [unclosed"), 0644))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := Default()
	cfg.Window.Title = "saved"
	cfg.Controls.AutoRotate = true
	cfg.Controls.MaxPolarAngle = 90

	require.NoError(t, cfg.SaveToPath(path))
	loaded, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "saved", loaded.Window.Title)
	assert.True(t, loaded.Controls.AutoRotate)
	assert.Equal(t, 90.0, loaded.Controls.MaxPolarAngle)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"negative frame limit", func(c *Config) { c.Window.FrameLimit = -1 }, "frame_limit"},
		{"unknown projection", func(c *Config) { c.Camera.Projection = "fisheye" }, "camera.projection"},
		{"flat fov", func(c *Config) { c.Camera.FovDegrees = 180 }, "fov_degrees"},
		{"ortho height", func(c *Config) {
			c.Camera.Projection = "orthographic"
			c.Camera.OrthoHeight = 0
		}, "ortho_height"},
		{"clip planes", func(c *Config) { c.Camera.Far = c.Camera.Near }, "clip planes"},
		{"zoom", func(c *Config) { c.Camera.Zoom = 0 }, "camera.zoom"},
		{"zero up", func(c *Config) { c.Camera.Up = Vec3Config{} }, "camera.up"},
		{"damping factor", func(c *Config) { c.Controls.DampingFactor = 1 }, "damping_factor"},
		{"distance bounds", func(c *Config) { c.Controls.MinDistance = 10; c.Controls.MaxDistance = 5 }, "distance bounds"},
		{"zoom bounds", func(c *Config) { c.Controls.MinZoom = -1 }, "zoom bounds"},
		{"polar bounds", func(c *Config) { c.Controls.MaxPolarAngle = 200 }, "polar bounds"},
		{"azimuth bounds", func(c *Config) { c.Controls.MinAzimuthAngle = 10; c.Controls.MaxAzimuthAngle = 0 }, "azimuth bounds"},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCameraConfig_NewCamera(t *testing.T) {
	cfg := Default().Camera
	cam := cfg.NewCamera(2)

	p, ok := cam.Projection().(camera.Perspective)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/4, p.FovY, 1e-12)
	assert.Equal(t, 2.0, p.Aspect)

	cfg.Projection = "orthographic"
	cfg.OrthoHeight = 10
	o, ok := cfg.NewCamera(1.5).Projection().(camera.Orthographic)
	require.True(t, ok)
	assert.Equal(t, 10.0, o.Height())
	assert.Equal(t, 15.0, o.Width())
}

func TestControlsConfig_Options(t *testing.T) {
	cfg := Default().Controls
	assert.Len(t, cfg.Options(), 15)
}

func TestConfig_ControllerOptionsKeepTarget(t *testing.T) {
	cfg := Default()
	cfg.Camera.Target = Vec3Config{X: 5}
	cam := cfg.Camera.NewCamera(1)

	ctrl := controls.NewOrbitController(cam, nil, cfg.ControllerOptions()...)
	defer ctrl.Dispose()

	assert.True(t, ctrl.Target().ApproxEqualThreshold(mgl64.Vec3{5, 0, 0}, 1e-9))
	forward := cam.Orientation().Rotate(mgl64.Vec3{0, 0, -1})
	toTarget := ctrl.Target().Sub(cam.Position()).Normalize()
	assert.InDelta(t, 1.0, forward.Dot(toTarget), 1e-9)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().SaveToPath(path))

	var mu sync.Mutex
	var got []*Config
	w, err := NewWatcher(path, 20*time.Millisecond, func(c *Config) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c)
	}, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	updated := Default()
	updated.Controls.AutoRotate = true
	require.NoError(t, updated.SaveToPath(path))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1].Controls.AutoRotate
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWatcher_SkipsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().SaveToPath(path))

	var mu sync.Mutex
	calls := 0
	w, err := NewWatcher(path, 20*time.Millisecond, func(*Config) {
		mu.Lock()
		defer mu.Unlock()
		calls++
	}, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	bad := Default()
	bad.Logging.Level = "loud"
	require.NoError(t, bad.SaveToPath(path))

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}
