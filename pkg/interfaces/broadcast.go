package interfaces

import (
	"attendboard/pkg/types"
)

// Broadcaster pushes the whole attendance state to every connected observer.
// There are no partial or delta updates: every push carries the full state.
type Broadcaster interface {
	Broadcast(state *types.AttendanceState)
	ObserverCount() int
}
