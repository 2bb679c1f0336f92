// Package playback provides the navigation state machine over a session queue.
package playback

import "github.com/osa030/rcplayer/internal/domain/session"

// State represents the navigation state.
type State int

const (
	StateEmpty  State = iota // No session built yet
	StateActive              // Session present, index valid when the queue is non-empty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the navigation state.
type Snapshot struct {
	State   State
	Session *session.Session // nil in StateEmpty; never mutated once published
	Index   int
}

// Active returns true when a session exists.
func (s Snapshot) Active() bool {
	return s.State == StateActive && s.Session != nil
}

// Current returns the item at the cursor.
func (s Snapshot) Current() (*session.Item, bool) {
	if !s.Active() {
		return nil, false
	}
	return s.Session.ItemAt(s.Index)
}

// Len returns the queue length (0 in StateEmpty).
func (s Snapshot) Len() int {
	return s.Session.Len()
}
