package interfaces

import (
	"context"

	"attendboard/pkg/types"
)

// SnapshotStore persists the full attendance state as a single snapshot,
// overwritten wholesale on every mutation.
type SnapshotStore interface {
	// Load returns the last persisted state. A missing or unparsable
	// snapshot yields an empty state, never an error that blocks startup.
	Load(ctx context.Context) (*types.AttendanceState, error)

	// Save overwrites the stored snapshot with the given state.
	Save(ctx context.Context, state *types.AttendanceState) error

	// HealthCheck verifies store connectivity and basic operations.
	HealthCheck(ctx context.Context) error

	// Close flushes pending writes and releases store resources.
	Close() error
}
