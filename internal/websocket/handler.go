package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"attendboard/pkg/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Dashboard is served from arbitrary origins in development
		return true
	},
	HandshakeTimeout: 10 * time.Second,
}

// StateSource supplies a consistent copy of the current attendance state for
// the initial push to a newly connected observer.
type StateSource interface {
	Snapshot() *types.AttendanceState
}

// Handler upgrades observer requests and manages their lifecycle.
type Handler struct {
	registry *Registry
	source   StateSource
	cfg      Config
}

// NewHandler creates a websocket handler with the given connection tuning.
func NewHandler(registry *Registry, source StateSource, cfg Config) *Handler {
	return &Handler{
		registry: registry,
		source:   source,
		cfg:      cfg,
	}
}

// HandleObserver upgrades the request, registers the observer, sends the
// initial whole-state snapshot and then monitors the connection until it
// drops. Observers never send data; their read loop exists to notice closes
// and answer pings.
func (h *Handler) HandleObserver(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	observer := NewConnection(conn, uuid.New().String(), h.cfg)

	if err := h.registry.Register(observer); err != nil {
		log.Printf("Failed to register observer: %v", err)
		_ = observer.Close()
		return
	}

	// New observers get the current state immediately, before any mutation
	// triggers the next broadcast
	if err := observer.WriteJSON(h.source.Snapshot()); err != nil {
		log.Printf("Failed to send initial snapshot to observer %s: %v", observer.ID(), err)
	}

	go h.monitor(observer)
}

// monitor runs the per-observer read loop with ping/pong heartbeat.
func (h *Handler) monitor(observer *Connection) {
	defer func() {
		h.registry.Unregister(observer)
		_ = observer.Close()
		log.Printf("Observer disconnected: %s", observer.ID())
	}()

	if err := observer.conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout)); err != nil {
		log.Printf("Failed to set read deadline: %v", err)
		return
	}
	observer.conn.SetPongHandler(func(string) error {
		return observer.conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	})

	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := observer.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(h.cfg.WriteTimeout)); err != nil {
					return
				}
			case <-observer.ctx.Done():
				return
			}
		}
	}()

	for {
		// Observers are not expected to send anything; discard whatever
		// arrives and exit on close
		if _, _, err := observer.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Observer read error: %v", err)
			}
			return
		}
	}
}
