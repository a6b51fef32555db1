package websocket

import (
	"log"
	"sync"

	"attendboard/internal/metrics"
	"attendboard/pkg/types"
)

// Registry tracks connected observers and fans the attendance state out to
// all of them. Observers are read-only viewers; there is no per-observer
// routing, every push carries the whole state.
type Registry struct {
	mu        sync.RWMutex
	observers map[string]*Connection
	metrics   *metrics.Metrics
}

// NewRegistry creates an empty observer registry.
func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{
		observers: make(map[string]*Connection),
		metrics:   m,
	}
}

// Register adds an observer connection.
func (r *Registry) Register(conn *Connection) error {
	if conn == nil {
		return ErrNilConnection
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Replace a stale connection that reused the same ID; close it off the
	// lock to avoid blocking registration
	if existing, exists := r.observers[conn.ID()]; exists {
		go func() {
			if err := existing.Close(); err != nil {
				log.Printf("Failed to close replaced observer connection: %v", err)
			}
		}()
	}

	r.observers[conn.ID()] = conn
	r.metrics.ConnectedObservers.Set(float64(len(r.observers)))

	return nil
}

// Unregister removes an observer connection if it is still the registered
// one for its ID.
func (r *Registry) Unregister(conn *Connection) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, exists := r.observers[conn.ID()]; exists && current == conn {
		delete(r.observers, conn.ID())
		r.metrics.ConnectedObservers.Set(float64(len(r.observers)))
	}
}

// Broadcast pushes the full state to every connected observer. Individual
// write failures are logged and do not stop the fan-out; a failing observer
// is cleaned up by its own read loop.
func (r *Registry) Broadcast(state *types.AttendanceState) {
	r.mu.RLock()
	connections := make([]*Connection, 0, len(r.observers))
	for _, conn := range r.observers {
		connections = append(connections, conn)
	}
	r.mu.RUnlock()

	for _, conn := range connections {
		if err := conn.WriteJSON(state); err != nil {
			log.Printf("Failed to push state to observer %s: %v", conn.ID(), err)
		}
	}
}

// ObserverCount returns the number of connected observers.
func (r *Registry) ObserverCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.observers)
}
