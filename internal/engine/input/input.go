// Package input collects window events in a backend-neutral form.
package input

// Key identifies the keys the demo reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyV
	KeyF12
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyV:
		return "V"
	case KeyF12:
		return "F12"
	default:
		return "Unknown"
	}
}

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type EventType
	Key  Key
	// Repeat marks key-down events generated by key auto-repeat.
	Repeat bool
	Width  int
	Height int
}

// Input holds the events of one frame. Window backends push events during
// polling; the frame loop queries them afterwards.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Begin discards the events of the previous frame.
func (i *Input) Begin() {
	i.events = i.events[:0]
}

// Push appends an event to the current frame.
func (i *Input) Push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events of the current frame.
func (i *Input) Events() []Event {
	return i.events
}

// Pressed reports whether key went down this frame. Auto-repeat does not
// count, so holding a key toggles once.
func (i *Input) Pressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key && !e.Repeat {
			return true
		}
	}
	return false
}

// QuitRequested reports a window close or an Escape press this frame.
func (i *Input) QuitRequested() bool {
	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return i.Pressed(KeyEscape)
}

// Resized returns the last window size reported this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			width, height, ok = e.Width, e.Height, true
		}
	}
	return width, height, ok
}
