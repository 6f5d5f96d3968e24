package controls

// EventType names an observable controller event.
type EventType int

const (
	// EventStart fires when a gesture session begins.
	EventStart EventType = iota
	// EventEnd fires once for every started session when it is discarded.
	EventEnd
	// EventChange fires for every update that moved the camera enough to redraw,
	// and once on Reset.
	EventChange
	// EventWarning fires when a capability is disabled because the camera type
	// cannot support it.
	EventWarning
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventChange:
		return "change"
	case EventWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners registered with AddEventListener.
type Event struct {
	Type EventType
	// Mode is the gesture mode the event relates to; ModeNone for change events.
	Mode Mode
	// Message describes a warning. Empty for other event types.
	Message string
}

type listenerEntry struct {
	id int
	fn func(Event)
}

// dispatcher keeps listeners per event type in registration order.
type dispatcher struct {
	nextID    int
	listeners map[EventType][]listenerEntry
}

func newDispatcher() *dispatcher {
	return &dispatcher{listeners: make(map[EventType][]listenerEntry)}
}

func (d *dispatcher) add(t EventType, fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	id := d.nextID
	d.nextID++
	d.listeners[t] = append(d.listeners[t], listenerEntry{id: id, fn: fn})
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		entries := d.listeners[t]
		for i, e := range entries {
			if e.id == id {
				d.listeners[t] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (d *dispatcher) dispatch(e Event) {
	entries := d.listeners[e.Type]
	if len(entries) == 0 {
		return
	}
	// copy so a listener can remove itself mid-dispatch
	snapshot := make([]listenerEntry, len(entries))
	copy(snapshot, entries)
	for _, l := range snapshot {
		l.fn(e)
	}
}
