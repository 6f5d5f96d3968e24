package controls

// Mode is the controller's current gesture state. Exactly one mode is active at a time.
type Mode int

const (
	ModeNone Mode = iota
	ModeRotate
	ModeDolly
	ModePan
	ModeTouchRotate
	ModeTouchDollyPan
)

func (m Mode) String() string {
	switch m {
	case ModeRotate:
		return "rotate"
	case ModeDolly:
		return "dolly"
	case ModePan:
		return "pan"
	case ModeTouchRotate:
		return "touch-rotate"
	case ModeTouchDollyPan:
		return "touch-dolly-pan"
	default:
		return "none"
	}
}

// DollyDirection selects how ApplyDolly uses its factor.
// DollyIn divides the perspective radius scale by the factor and multiplies an
// orthographic zoom by it. DollyOut is the exact inverse.
type DollyDirection int

const (
	DollyIn DollyDirection = iota
	DollyOut
)

func (d DollyDirection) String() string {
	if d == DollyOut {
		return "out"
	}
	return "in"
}
