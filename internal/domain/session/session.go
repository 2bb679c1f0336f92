package session

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Session represents a queue of recommended items built from a seed URL.
// A Session is replaced wholesale when a new one is built; it is never merged.
type Session struct {
	SessionID string `json:"session_id" validate:"required"` // Assigned by the backend
	SeedURL   string `json:"seed_url"`                       // Seed supplied by the user
	Items     []Item `json:"items" validate:"dive"`          // Queue order is meaningful
}

var validate = validator.New()

// Validate checks the required fields of the session and every item.
func (s *Session) Validate() error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(err, "invalid session")
	}
	return nil
}

// Len returns the number of items in the queue.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// ItemAt returns the item at index i.
func (s *Session) ItemAt(i int) (*Item, bool) {
	if s == nil || i < 0 || i >= len(s.Items) {
		return nil, false
	}
	return &s.Items[i], true
}
