package script

import (
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
)

// Source replays a script as an input host. Each PollEvents call delivers one
// frame's worth of events; it reports closed once the script and its settle
// frames are exhausted.
type Source struct {
	*controls.InputRouter

	frames   []event
	next     int
	onResize func(width, height int)
}

// NewSource builds a host for s.
//
// Parameters:
//   - s: a validated script
//
// Returns:
//   - *Source: the scripted host
func NewSource(s *Script) *Source {
	frames := make([]event, 0, s.Frames())
	for _, step := range s.Steps {
		frames = append(frames, step.events()...)
	}
	frames = append(frames, make([]event, s.Settle)...)

	return &Source{
		InputRouter: controls.NewInputRouter(s.Viewport.Width, s.Viewport.Height),
		frames:      frames,
	}
}

// PollEvents delivers the next frame's events.
func (s *Source) PollEvents() bool {
	if s.next >= len(s.frames) {
		return false
	}
	if e := s.frames[s.next]; e != nil {
		e(s.InputRouter)
	}
	s.next++
	return true
}

// SetResizeCallback records the callback; scripted surfaces do not resize.
func (s *Source) SetResizeCallback(callback func(width, height int)) {
	s.onResize = callback
}

// Remaining returns the number of frames not yet delivered.
func (s *Source) Remaining() int {
	return len(s.frames) - s.next
}
