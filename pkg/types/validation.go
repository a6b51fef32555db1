package types

import (
	"regexp"
)

var userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateIncoming checks the fields a client supplies on ingestion. Only
// the user is ever rejected: unknown event types and a missing channel are a
// graceful no-op for session tracking but are still recorded in history.
func (e *Event) ValidateIncoming() error {
	if e.User == "" {
		return ErrMissingUser
	}
	if !IsValidUserID(e.User) {
		return ErrInvalidUserID
	}
	return nil
}

// IsValidUserID checks if a user ID meets format requirements.
func IsValidUserID(userID string) bool {
	if len(userID) < 1 || len(userID) > 50 {
		return false
	}
	return userIDRegex.MatchString(userID)
}

// IsJoin reports whether the event opens a session.
func (e *Event) IsJoin() bool { return e.Type == EventTypeJoin }

// IsLeave reports whether the event closes a session.
func (e *Event) IsLeave() bool { return e.Type == EventTypeLeave }
