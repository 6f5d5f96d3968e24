package script

import (
	"context"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/engine"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
	"github.com/Carmen-Shannon/oxy-orbit/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// Frame is the camera state after one replayed frame.
type Frame struct {
	Index    int        `yaml:"index" json:"index"`
	Moved    bool       `yaml:"moved" json:"moved"`
	Mode     string     `yaml:"mode" json:"mode"`
	Position [3]float64 `yaml:"position" json:"position"`
	Target   [3]float64 `yaml:"target" json:"target"`
	Zoom     float64    `yaml:"zoom" json:"zoom"`
	Polar    float64    `yaml:"polar" json:"polar"`
	Azimuth  float64    `yaml:"azimuth" json:"azimuth"`
}

// Result is a finished replay.
type Result struct {
	Name   string           `yaml:"name" json:"name"`
	Frames []Frame          `yaml:"frames" json:"frames"`
	Events []controls.Event `yaml:"-" json:"-"`
}

// Player replays scripts against a camera.
type Player struct {
	logger  zerolog.Logger
	options []controls.OrbitControllerOption
}

// PlayerOption is a functional option for configuring a Player.
type PlayerOption func(p *Player)

// WithControllerOptions passes options to the controller built for each replay.
func WithControllerOptions(options ...controls.OrbitControllerOption) PlayerOption {
	return func(p *Player) {
		p.options = append(p.options, options...)
	}
}

// WithLogger sets the logger for the replay engine and controller.
func WithLogger(logger zerolog.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = logger
	}
}

// NewPlayer creates a Player.
func NewPlayer(options ...PlayerOption) *Player {
	p := &Player{logger: zerolog.Nop()}
	for _, option := range options {
		option(p)
	}
	return p
}

// Play runs s to completion through a fresh controller attached to cam. Every
// frame uses a fixed 1/FPS timestep so results do not depend on wall time.
//
// Parameters:
//   - ctx: cancels the replay
//   - s: a validated script
//   - cam: the camera to drive
//
// Returns:
//   - *Result: one Frame per replayed frame and every controller event
//   - error: error if the replay was cancelled
func (p *Player) Play(ctx context.Context, s *Script, cam camera.Camera) (*Result, error) {
	source := NewSource(s)
	options := append([]controls.OrbitControllerOption{controls.WithLogger(p.logger)}, p.options...)
	ctrl := controls.NewOrbitController(cam, source, options...)
	defer ctrl.Dispose()

	result := &Result{Name: s.Name, Frames: make([]Frame, 0, s.Frames())}
	for _, t := range []controls.EventType{controls.EventStart, controls.EventEnd, controls.EventChange, controls.EventWarning} {
		ctrl.AddEventListener(t, func(e controls.Event) {
			result.Events = append(result.Events, e)
		})
	}

	sc := scene.NewScene(s.Name, cam, scene.WithController(ctrl), scene.WithActive(true))
	eng := engine.NewEngine(
		engine.WithHost(source),
		engine.WithScene(0, sc),
		engine.WithFixedTimestep(time.Duration(float64(time.Second)/s.FPS)),
		engine.WithLogger(p.logger),
	)
	eng.SetFrameCallback(func(_ time.Duration, moved bool) {
		result.Frames = append(result.Frames, Frame{
			Index:    len(result.Frames),
			Moved:    moved,
			Mode:     ctrl.Mode().String(),
			Position: vec3(cam.Position()),
			Target:   vec3(ctrl.Target()),
			Zoom:     cam.Zoom(),
			Polar:    ctrl.PolarAngle(),
			Azimuth:  ctrl.AzimuthalAngle(),
		})
	})

	if err := eng.Run(ctx); err != nil {
		return result, fmt.Errorf("replay %q: %w", s.Name, err)
	}
	return result, nil
}

func vec3(v mgl64.Vec3) [3]float64 {
	return [3]float64{v[0], v[1], v[2]}
}
