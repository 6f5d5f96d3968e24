// Package config provides the configuration system for the orbit viewer.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. OXY_ORBIT_CONTROLS_ZOOM_SPEED.
const EnvPrefix = "OXY_ORBIT"

// Config holds the complete application configuration.
type Config struct {
	Window   WindowConfig   `mapstructure:"window" yaml:"window"`
	Camera   CameraConfig   `mapstructure:"camera" yaml:"camera"`
	Controls ControlsConfig `mapstructure:"controls" yaml:"controls"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// WindowConfig holds the viewer window and frame loop settings.
type WindowConfig struct {
	Title      string  `mapstructure:"title" yaml:"title"`
	Width      int     `mapstructure:"width" yaml:"width"`
	Height     int     `mapstructure:"height" yaml:"height"`
	FrameLimit float64 `mapstructure:"frame_limit" yaml:"frame_limit"` // 0 = uncapped
	Profiling  bool    `mapstructure:"profiling" yaml:"profiling"`
}

// Vec3Config is a YAML-friendly vector.
type Vec3Config struct {
	X float64 `mapstructure:"x" yaml:"x"`
	Y float64 `mapstructure:"y" yaml:"y"`
	Z float64 `mapstructure:"z" yaml:"z"`
}

// Vec3 converts to mgl64.
func (v Vec3Config) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// CameraConfig holds the initial camera pose and projection.
type CameraConfig struct {
	Projection  string     `mapstructure:"projection" yaml:"projection"` // perspective or orthographic
	FovDegrees  float64    `mapstructure:"fov_degrees" yaml:"fov_degrees"`
	OrthoHeight float64    `mapstructure:"ortho_height" yaml:"ortho_height"`
	Near        float64    `mapstructure:"near" yaml:"near"`
	Far         float64    `mapstructure:"far" yaml:"far"`
	Zoom        float64    `mapstructure:"zoom" yaml:"zoom"`
	Position    Vec3Config `mapstructure:"position" yaml:"position"`
	Target      Vec3Config `mapstructure:"target" yaml:"target"`
	Up          Vec3Config `mapstructure:"up" yaml:"up"`
}

// ControlsConfig holds orbit controller tuning. Angles are in degrees.
type ControlsConfig struct {
	EnableRotate       bool    `mapstructure:"enable_rotate" yaml:"enable_rotate"`
	EnablePan          bool    `mapstructure:"enable_pan" yaml:"enable_pan"`
	EnableZoom         bool    `mapstructure:"enable_zoom" yaml:"enable_zoom"`
	EnableKeys         bool    `mapstructure:"enable_keys" yaml:"enable_keys"`
	RotateSpeed        float64 `mapstructure:"rotate_speed" yaml:"rotate_speed"`
	PanSpeed           float64 `mapstructure:"pan_speed" yaml:"pan_speed"`
	ZoomSpeed          float64 `mapstructure:"zoom_speed" yaml:"zoom_speed"`
	KeyPanSpeed        float64 `mapstructure:"key_pan_speed" yaml:"key_pan_speed"`
	EnableDamping      bool    `mapstructure:"enable_damping" yaml:"enable_damping"`
	DampingFactor      float64 `mapstructure:"damping_factor" yaml:"damping_factor"`
	ScreenSpacePanning bool    `mapstructure:"screen_space_panning" yaml:"screen_space_panning"`
	AutoRotate         bool    `mapstructure:"auto_rotate" yaml:"auto_rotate"`
	AutoRotateSpeed    float64 `mapstructure:"auto_rotate_speed" yaml:"auto_rotate_speed"`
	MinDistance        float64 `mapstructure:"min_distance" yaml:"min_distance"`
	MaxDistance        float64 `mapstructure:"max_distance" yaml:"max_distance"`
	MinZoom            float64 `mapstructure:"min_zoom" yaml:"min_zoom"`
	MaxZoom            float64 `mapstructure:"max_zoom" yaml:"max_zoom"`
	MinPolarAngle      float64 `mapstructure:"min_polar_angle" yaml:"min_polar_angle"`
	MaxPolarAngle      float64 `mapstructure:"max_polar_angle" yaml:"max_polar_angle"`
	MinAzimuthAngle    float64 `mapstructure:"min_azimuth_angle" yaml:"min_azimuth_angle"`
	MaxAzimuthAngle    float64 `mapstructure:"max_azimuth_angle" yaml:"max_azimuth_angle"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Console bool   `mapstructure:"console" yaml:"console"` // human-readable output instead of JSON
}

// Default returns a Config with sensible default values. Controller values
// match the controller's own defaults.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "oxy-orbit",
			Width:      1280,
			Height:     720,
			FrameLimit: 60,
		},
		Camera: CameraConfig{
			Projection:  camera.ProjectionPerspective.String(),
			FovDegrees:  45,
			OrthoHeight: 20,
			Near:        0.1,
			Far:         1000,
			Zoom:        1,
			Position:    Vec3Config{Z: 10},
			Up:          Vec3Config{Y: 1},
		},
		Controls: ControlsConfig{
			EnableRotate:    true,
			EnablePan:       true,
			EnableZoom:      true,
			EnableKeys:      true,
			RotateSpeed:     1,
			PanSpeed:        1,
			ZoomSpeed:       1,
			KeyPanSpeed:     7,
			DampingFactor:   0.25,
			AutoRotateSpeed: 2,
			MinDistance:     0,
			MaxDistance:     math.Inf(1),
			MinZoom:         0,
			MaxZoom:         math.Inf(1),
			MinPolarAngle:   0,
			MaxPolarAngle:   180,
			MinAzimuthAngle: math.Inf(-1),
			MaxAzimuthAngle: math.Inf(1),
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// DefaultPath returns the default config file location (~/.oxy-orbit/config.yaml).
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".oxy-orbit", "config.yaml"), nil
}

// LoadFromPath reads configuration from a specific file path and merges with
// environment variables. If the file doesn't exist, it creates one with default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	// Example: OXY_ORBIT_CONTROLS_ENABLE_DAMPING=true
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SaveToPath writes the configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

// Validate checks the configuration for common errors and inconsistencies.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.FrameLimit < 0 {
		return fmt.Errorf("window.frame_limit cannot be negative")
	}

	switch c.Camera.Projection {
	case camera.ProjectionPerspective.String():
		if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
			return fmt.Errorf("camera.fov_degrees must be in (0, 180), got %g", c.Camera.FovDegrees)
		}
	case camera.ProjectionOrthographic.String():
		if c.Camera.OrthoHeight <= 0 {
			return fmt.Errorf("camera.ortho_height must be positive")
		}
	default:
		return fmt.Errorf("invalid camera.projection '%s', must be 'perspective' or 'orthographic'", c.Camera.Projection)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip planes must satisfy 0 < near < far")
	}
	if c.Camera.Zoom <= 0 {
		return fmt.Errorf("camera.zoom must be positive")
	}
	if c.Camera.Up.Vec3().Len() == 0 {
		return fmt.Errorf("camera.up cannot be the zero vector")
	}

	ctl := c.Controls
	if ctl.DampingFactor <= 0 || ctl.DampingFactor >= 1 {
		return fmt.Errorf("controls.damping_factor must be in (0, 1), got %g", ctl.DampingFactor)
	}
	if ctl.MinDistance < 0 || ctl.MinDistance > ctl.MaxDistance {
		return fmt.Errorf("controls distance bounds must satisfy 0 <= min <= max")
	}
	if ctl.MinZoom < 0 || ctl.MinZoom > ctl.MaxZoom {
		return fmt.Errorf("controls zoom bounds must satisfy 0 <= min <= max")
	}
	if ctl.MinPolarAngle < 0 || ctl.MaxPolarAngle > 180 || ctl.MinPolarAngle > ctl.MaxPolarAngle {
		return fmt.Errorf("controls polar bounds must satisfy 0 <= min <= max <= 180")
	}
	if ctl.MinAzimuthAngle > ctl.MaxAzimuthAngle {
		return fmt.Errorf("controls azimuth bounds must satisfy min <= max")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// Options converts the tuning to controller options.
func (c ControlsConfig) Options() []controls.OrbitControllerOption {
	return []controls.OrbitControllerOption{
		controls.WithEnableRotate(c.EnableRotate),
		controls.WithEnablePan(c.EnablePan),
		controls.WithEnableZoom(c.EnableZoom),
		controls.WithEnableKeys(c.EnableKeys),
		controls.WithRotateSpeed(c.RotateSpeed),
		controls.WithPanSpeed(c.PanSpeed),
		controls.WithZoomSpeed(c.ZoomSpeed),
		controls.WithKeyPanSpeed(c.KeyPanSpeed),
		controls.WithDamping(c.EnableDamping, c.DampingFactor),
		controls.WithScreenSpacePanning(c.ScreenSpacePanning),
		controls.WithAutoRotate(c.AutoRotate, c.AutoRotateSpeed),
		controls.WithDistanceBounds(c.MinDistance, c.MaxDistance),
		controls.WithZoomBounds(c.MinZoom, c.MaxZoom),
		controls.WithPolarBounds(mgl64.DegToRad(c.MinPolarAngle), mgl64.DegToRad(c.MaxPolarAngle)),
		controls.WithAzimuthBounds(mgl64.DegToRad(c.MinAzimuthAngle), mgl64.DegToRad(c.MaxAzimuthAngle)),
	}
}

// ControllerOptions returns the controls tuning plus the configured orbit target.
func (c *Config) ControllerOptions() []controls.OrbitControllerOption {
	return append(c.Controls.Options(), controls.WithTarget(c.Camera.Target.Vec3()))
}

// ApplyLive pushes the switches a running controller can change in place.
// Speeds and bounds only take effect when a controller is built.
func (c ControlsConfig) ApplyLive(ctrl controls.OrbitController) {
	ctrl.SetEnableRotate(c.EnableRotate)
	ctrl.SetEnablePan(c.EnablePan)
	ctrl.SetEnableZoom(c.EnableZoom)
	ctrl.SetEnableKeys(c.EnableKeys)
	ctrl.SetEnableDamping(c.EnableDamping)
	ctrl.SetAutoRotate(c.AutoRotate)
	ctrl.SetScreenSpacePanning(c.ScreenSpacePanning)
}

// NewCamera builds the configured camera for a viewport of the given aspect ratio.
func (c CameraConfig) NewCamera(aspect float64) camera.Camera {
	if aspect <= 0 {
		aspect = 1
	}
	options := []camera.CameraBuilderOption{
		camera.WithPosition(c.Position.X, c.Position.Y, c.Position.Z),
		camera.WithUp(c.Up.X, c.Up.Y, c.Up.Z),
		camera.WithZoom(c.Zoom),
		camera.WithLookAt(c.Target.X, c.Target.Y, c.Target.Z),
	}
	if c.Projection == camera.ProjectionOrthographic.String() {
		halfH := c.OrthoHeight / 2
		halfW := halfH * aspect
		options = append(options, camera.WithOrthographic(-halfW, halfW, halfH, -halfH, c.Near, c.Far))
	} else {
		options = append(options, camera.WithPerspective(mgl64.DegToRad(c.FovDegrees), aspect, c.Near, c.Far))
	}
	return camera.NewCamera(options...)
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.frame_limit", d.Window.FrameLimit)
	v.SetDefault("window.profiling", d.Window.Profiling)
	v.SetDefault("camera.projection", d.Camera.Projection)
	v.SetDefault("camera.fov_degrees", d.Camera.FovDegrees)
	v.SetDefault("camera.ortho_height", d.Camera.OrthoHeight)
	v.SetDefault("camera.near", d.Camera.Near)
	v.SetDefault("camera.far", d.Camera.Far)
	v.SetDefault("camera.zoom", d.Camera.Zoom)
	v.SetDefault("camera.up.y", d.Camera.Up.Y)
	v.SetDefault("camera.position.z", d.Camera.Position.Z)
	v.SetDefault("controls.enable_rotate", d.Controls.EnableRotate)
	v.SetDefault("controls.enable_pan", d.Controls.EnablePan)
	v.SetDefault("controls.enable_zoom", d.Controls.EnableZoom)
	v.SetDefault("controls.enable_keys", d.Controls.EnableKeys)
	v.SetDefault("controls.rotate_speed", d.Controls.RotateSpeed)
	v.SetDefault("controls.pan_speed", d.Controls.PanSpeed)
	v.SetDefault("controls.zoom_speed", d.Controls.ZoomSpeed)
	v.SetDefault("controls.key_pan_speed", d.Controls.KeyPanSpeed)
	v.SetDefault("controls.damping_factor", d.Controls.DampingFactor)
	v.SetDefault("controls.auto_rotate_speed", d.Controls.AutoRotateSpeed)
	v.SetDefault("controls.max_distance", d.Controls.MaxDistance)
	v.SetDefault("controls.max_zoom", d.Controls.MaxZoom)
	v.SetDefault("controls.max_polar_angle", d.Controls.MaxPolarAngle)
	v.SetDefault("controls.min_azimuth_angle", d.Controls.MinAzimuthAngle)
	v.SetDefault("controls.max_azimuth_angle", d.Controls.MaxAzimuthAngle)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.console", d.Logging.Console)
}

// writeConfigFile writes a Config struct to a YAML file.
// Uses gopkg.in/yaml.v3 directly to ensure proper tag-based serialization.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
