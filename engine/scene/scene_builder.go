package scene

import (
	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithController attaches an orbit controller driving the scene camera.
//
// Parameters:
//   - ctrl: the controller
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithController(ctrl controls.OrbitController) SceneBuilderOption {
	return func(s *scene) {
		s.ctrl = ctrl
	}
}

// WithModels adds initial model bounds to the scene, keyed by name.
//
// Parameters:
//   - models: the model bounds to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithModels(models map[string]common.Bounds) SceneBuilderOption {
	return func(s *scene) {
		for name, b := range models {
			s.models[name] = b
		}
	}
}

// WithFocusMargin sets the multiplier applied to the bounding radius when framing.
// Values below 1 are ignored. Default is DefaultFocusMargin (1.2).
//
// Parameters:
//   - margin: the radius multiplier
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFocusMargin(margin float64) SceneBuilderOption {
	return func(s *scene) {
		if margin >= 1 {
			s.focusMargin = margin
		}
	}
}
