package interfaces

import (
	"attendboard/pkg/types"
)

// EventProcessor is the single entry point for all state mutations. Events
// are queued and applied by one goroutine, so no two mutations are ever in
// flight at once.
type EventProcessor interface {
	// Submit validates and queues an incoming event. The timestamp is
	// assigned internally at ingestion, not taken from the caller.
	Submit(eventType, user, channel string) error

	// Snapshot returns a deep copy of the current state for readers.
	Snapshot() *types.AttendanceState

	// History returns a copy of the bounded event history only, for readers
	// that do not need the whole state.
	History() []types.Event

	// QueueDepth reports how many events are waiting to be applied.
	QueueDepth() int
}
