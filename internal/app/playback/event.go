package playback

// EventType represents a navigation event type.
type EventType int

const (
	EventSessionReplaced EventType = iota // A new session was installed, cursor at 0
	EventIndexChanged                     // The cursor moved within the current session
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventSessionReplaced:
		return "session_replaced"
	case EventIndexChanged:
		return "index_changed"
	default:
		return "unknown"
	}
}

// Event represents a navigation event.
type Event struct {
	Type     EventType
	Snapshot Snapshot // State after the transition
}
