package types

import (
	"time"
)

// Event type constants used across ingestion, history and aggregation.
const (
	EventTypeJoin  = "join"
	EventTypeLeave = "leave"
)

// MaxHistory caps the bounded event log. Older entries are evicted once the
// cap is exceeded, so leaderboard derivation only ever sees the most recent
// MaxHistory events.
const MaxHistory = 100

// Event is a timestamped join/leave record for a user in the monitored
// channel. Timestamps are assigned by the processor at ingestion time, never
// taken from the client.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	User    string    `json:"user"`
	Channel string    `json:"channel"`
	Time    time.Time `json:"time"`
}

// Session is an open interval of presence. It exists only between a processed
// join and the matching leave; a user re-joining overwrites the prior session
// without crediting it.
type Session struct {
	Channel  string    `json:"channel"`
	JoinedAt time.Time `json:"joined_at"`
}

// AttendanceState is the aggregate root the processor mutates and the
// gateway broadcasts:
//   - History: bounded most-recent-first event log (len <= MaxHistory)
//   - Active: users currently present, keyed by user ID
//   - Stats: cumulative seconds of presence per user, monotonically
//     non-decreasing, credited only when a leave closes an active session
type AttendanceState struct {
	History []Event            `json:"history"`
	Active  map[string]Session `json:"active"`
	Stats   map[string]int64   `json:"stats"`
}

// NewAttendanceState returns an empty state with all collections initialized.
func NewAttendanceState() *AttendanceState {
	return &AttendanceState{
		History: make([]Event, 0, MaxHistory),
		Active:  make(map[string]Session),
		Stats:   make(map[string]int64),
	}
}

// Normalize initializes any nil collections. Snapshots loaded from disk may
// omit empty maps depending on how they were serialized.
func (s *AttendanceState) Normalize() {
	if s.History == nil {
		s.History = make([]Event, 0, MaxHistory)
	}
	if s.Active == nil {
		s.Active = make(map[string]Session)
	}
	if s.Stats == nil {
		s.Stats = make(map[string]int64)
	}
}

// Record prepends an event to the history and evicts the oldest entries past
// MaxHistory. History order is most-recent-first.
func (s *AttendanceState) Record(event Event) {
	s.History = append([]Event{event}, s.History...)
	if len(s.History) > MaxHistory {
		s.History = s.History[:MaxHistory]
	}
}

// Clone returns a deep copy so readers never observe a half-written mutation.
func (s *AttendanceState) Clone() *AttendanceState {
	clone := &AttendanceState{
		History: make([]Event, len(s.History)),
		Active:  make(map[string]Session, len(s.Active)),
		Stats:   make(map[string]int64, len(s.Stats)),
	}
	copy(clone.History, s.History)
	for user, session := range s.Active {
		clone.Active[user] = session
	}
	for user, seconds := range s.Stats {
		clone.Stats[user] = seconds
	}
	return clone
}
