// Package script replays recorded or hand-written input gestures through an
// orbit controller without a window.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
	"gopkg.in/yaml.v3"
)

// DefaultFPS is the replay frame rate when a script does not set one.
const DefaultFPS = 60

// Script is a sequence of input steps. Each step is delivered in its own frame.
type Script struct {
	Name     string   `yaml:"name"`
	Viewport Viewport `yaml:"viewport"`
	FPS      float64  `yaml:"fps"`
	// Settle adds idle frames after the last step so damped motion can decay.
	Settle int    `yaml:"settle"`
	Steps  []Step `yaml:"steps"`
}

// Viewport is the simulated surface size in pixels.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Step holds exactly one action.
type Step struct {
	PointerDown *Pointer `yaml:"pointer_down,omitempty"`
	PointerMove *Pointer `yaml:"pointer_move,omitempty"`
	PointerUp   *Pointer `yaml:"pointer_up,omitempty"`
	Wheel       *Wheel   `yaml:"wheel,omitempty"`
	TouchStart  *Touch   `yaml:"touch_start,omitempty"`
	TouchMove   *Touch   `yaml:"touch_move,omitempty"`
	TouchEnd    *Touch   `yaml:"touch_end,omitempty"`
	KeyDown     *Key     `yaml:"key_down,omitempty"`
	// Wait idles for the given number of frames.
	Wait int `yaml:"wait,omitempty"`
}

// Pointer is a mouse event. Button is left, middle or right; Mods lists shift,
// control, alt or super.
type Pointer struct {
	Button string   `yaml:"button,omitempty"`
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Mods   []string `yaml:"mods,omitempty"`
}

// Wheel is a scroll step; negative DeltaY scrolls up.
type Wheel struct {
	DeltaY float64 `yaml:"delta_y"`
}

// Touch lists the contacts still down after the event.
type Touch struct {
	Touches []TouchPoint `yaml:"touches"`
}

// TouchPoint is one contact.
type TouchPoint struct {
	ID int     `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

// Key is a key press by name (up, down, left, right) or numeric key code.
type Key struct {
	Key  string   `yaml:"key"`
	Mods []string `yaml:"mods,omitempty"`
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script. Unknown fields are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("script is empty")
		}
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	s.FPS = common.Coalesce(s.FPS, DefaultFPS)
	s.Viewport = common.Coalesce(s.Viewport, Viewport{Width: 800, Height: 600})
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step holds exactly one action with valid names.
func (s *Script) Validate() error {
	if s.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %g", s.FPS)
	}
	if s.Viewport.Width < 0 || s.Viewport.Height < 0 {
		return fmt.Errorf("viewport size cannot be negative")
	}
	if s.Settle < 0 {
		return fmt.Errorf("settle cannot be negative")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// Frames returns the number of frames the script runs for.
func (s *Script) Frames() int {
	n := s.Settle
	for _, step := range s.Steps {
		if step.Wait > 0 {
			n += step.Wait
		} else {
			n++
		}
	}
	return n
}

func (st Step) validate() error {
	actions := 0
	for _, set := range []bool{
		st.PointerDown != nil, st.PointerMove != nil, st.PointerUp != nil,
		st.Wheel != nil, st.TouchStart != nil, st.TouchMove != nil,
		st.TouchEnd != nil, st.KeyDown != nil, st.Wait != 0,
	} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return fmt.Errorf("expected exactly one action, got %d", actions)
	}
	if st.Wait < 0 {
		return fmt.Errorf("wait cannot be negative")
	}
	for _, p := range []*Pointer{st.PointerDown, st.PointerMove, st.PointerUp} {
		if p == nil {
			continue
		}
		if _, err := parseButton(p.Button); err != nil {
			return err
		}
		if _, err := parseMods(p.Mods); err != nil {
			return err
		}
	}
	if st.KeyDown != nil {
		if _, err := parseKey(st.KeyDown.Key); err != nil {
			return err
		}
		if _, err := parseMods(st.KeyDown.Mods); err != nil {
			return err
		}
	}
	return nil
}

// event is a single host callback.
type event func(r *controls.InputRouter)

// events converts the step to router calls. Validate must have passed.
func (st Step) events() []event {
	switch {
	case st.PointerDown != nil:
		e := st.PointerDown.event()
		return []event{func(r *controls.InputRouter) { r.PointerDown(e) }}
	case st.PointerMove != nil:
		e := st.PointerMove.event()
		return []event{func(r *controls.InputRouter) { r.PointerMove(e) }}
	case st.PointerUp != nil:
		e := st.PointerUp.event()
		return []event{func(r *controls.InputRouter) { r.PointerUp(e) }}
	case st.Wheel != nil:
		e := controls.WheelEvent{DeltaY: st.Wheel.DeltaY}
		return []event{func(r *controls.InputRouter) { r.Wheel(e) }}
	case st.TouchStart != nil:
		e := st.TouchStart.event()
		return []event{func(r *controls.InputRouter) { r.TouchStart(e) }}
	case st.TouchMove != nil:
		e := st.TouchMove.event()
		return []event{func(r *controls.InputRouter) { r.TouchMove(e) }}
	case st.TouchEnd != nil:
		e := st.TouchEnd.event()
		return []event{func(r *controls.InputRouter) { r.TouchEnd(e) }}
	case st.KeyDown != nil:
		key, _ := parseKey(st.KeyDown.Key)
		mods, _ := parseMods(st.KeyDown.Mods)
		e := controls.KeyEvent{Key: key, Mods: mods}
		return []event{func(r *controls.InputRouter) { r.KeyDown(e) }}
	default:
		idle := make([]event, st.Wait)
		return idle
	}
}

func (p *Pointer) event() controls.PointerEvent {
	button, _ := parseButton(p.Button)
	mods, _ := parseMods(p.Mods)
	return controls.PointerEvent{Button: button, X: p.X, Y: p.Y, Mods: mods}
}

func (t *Touch) event() controls.TouchEvent {
	touches := make([]controls.TouchPoint, len(t.Touches))
	for i, tp := range t.Touches {
		touches[i] = controls.TouchPoint{ID: tp.ID, X: tp.X, Y: tp.Y}
	}
	return controls.TouchEvent{Touches: touches}
}

func parseButton(name string) (controls.MouseButton, error) {
	switch strings.ToLower(name) {
	case "", "left":
		return controls.MouseButtonLeft, nil
	case "middle":
		return controls.MouseButtonMiddle, nil
	case "right":
		return controls.MouseButtonRight, nil
	default:
		return 0, fmt.Errorf("unknown mouse button %q", name)
	}
}

func parseMods(names []string) (controls.ModifierKey, error) {
	var mods controls.ModifierKey
	for _, name := range names {
		switch strings.ToLower(name) {
		case "shift":
			mods |= controls.ModShift
		case "control", "ctrl":
			mods |= controls.ModControl
		case "alt":
			mods |= controls.ModAlt
		case "super", "meta", "cmd":
			mods |= controls.ModSuper
		default:
			return 0, fmt.Errorf("unknown modifier %q", name)
		}
	}
	return mods, nil
}

func parseKey(name string) (controls.Key, error) {
	switch strings.ToLower(name) {
	case "up":
		return common.KeyUp, nil
	case "down":
		return common.KeyDown, nil
	case "left":
		return common.KeyLeft, nil
	case "right":
		return common.KeyRight, nil
	}
	code, err := strconv.ParseUint(name, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return controls.Key(code), nil
}
