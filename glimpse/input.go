package glimpse

type MouseButton uint32

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

type EventKind uint32

const (
	EventKeyDown EventKind = iota + 1
	EventKeyUp
	EventMouseDown
	EventMouseUp
	EventMouseMove
	EventResize
)

// Event is a single input event. Only the fields relevant for the
// events Kind are populated.
type Event struct {
	Kind   EventKind
	Key    Key
	Button MouseButton

	// cursor position in window coordinates for EventMouseMove
	X, Y float32

	// new window size for EventResize
	Width, Height uint32
}

func keyEvent(kind EventKind, key Key) Event {
	return Event{Kind: kind, Key: key}
}

func mouseButtonEvent(kind EventKind, button MouseButton) Event {
	return Event{Kind: kind, Button: button}
}

func mouseMoveEvent(x, y float32) Event {
	return Event{Kind: EventMouseMove, X: x, Y: y}
}
