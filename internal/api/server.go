package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attendboard/internal/export"
	"attendboard/internal/leaderboard"
	"attendboard/internal/processor"
	"attendboard/pkg/interfaces"
)

// Observers narrows the gateway registry to what the API needs.
type Observers interface {
	ObserverCount() int
}

// Server is the HTTP layer: JSON shaping and status codes only, no
// aggregation or state logic of its own.
type Server struct {
	processor interfaces.EventProcessor
	store     interfaces.SnapshotStore
	observers Observers
	router    *http.ServeMux
	nowFunc   func() time.Time
}

// NewServer creates an API server with all routes registered.
func NewServer(proc interfaces.EventProcessor, store interfaces.SnapshotStore, observers Observers) *Server {
	s := &Server{
		processor: proc,
		store:     store,
		observers: observers,
		router:    http.NewServeMux(),
		nowFunc:   time.Now,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Handle("/api/events", s.corsMiddleware(s.jsonMiddleware(http.HandlerFunc(s.handleEvents))))
	s.router.Handle("/api/leaderboard/", s.corsMiddleware(s.jsonMiddleware(http.HandlerFunc(s.handleLeaderboard))))
	s.router.Handle("/api/export/", s.corsMiddleware(http.HandlerFunc(s.handleExport)))
	s.router.Handle("/api/state", s.corsMiddleware(s.jsonMiddleware(http.HandlerFunc(s.handleState))))
	s.router.Handle("/health", s.corsMiddleware(s.jsonMiddleware(http.HandlerFunc(s.healthCheck))))
	s.router.Handle("/metrics", promhttp.Handler())
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Request/Response types for JSON serialization
type IngestEventRequest struct {
	Type    string `json:"type"`
	User    string `json:"user"`
	Channel string `json:"channel"`
}

type IngestEventResponse struct {
	Status string `json:"status"`
}

type HealthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Database   string    `json:"database"`
	Observers  int       `json:"observers"`
	QueueDepth int       `json:"queue_depth"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// POST /api/events - ingress contract {type, user, channel}; the timestamp
// is assigned by the processor, never taken from the payload.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.ingestEvent(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) ingestEvent(w http.ResponseWriter, r *http.Request) {
	var req IngestEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	err := s.processor.Submit(req.Type, req.User, req.Channel)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
		s.encode(w, IngestEventResponse{Status: "accepted"})
	case errors.Is(err, processor.ErrInvalidEvent):
		s.sendError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, processor.ErrQueueFull):
		s.sendError(w, "Event queue is full", http.StatusServiceUnavailable)
	default:
		s.sendError(w, "Failed to ingest event", http.StatusInternalServerError)
	}
}

// GET /api/leaderboard/{daily|weekly|all} - ordered {user, time} rows.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, _, ok := s.computeWindowed(w, r, "/api/leaderboard/")
	if !ok {
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}

	s.encode(w, entries)
}

// GET /api/export/{daily|weekly|all} - CSV download in leaderboard order.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, window, ok := s.computeWindowed(w, r, "/api/export/")
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(window.Name())))

	if err := export.WriteCSV(w, entries); err != nil {
		log.Printf("Failed to stream leaderboard export: %v", err)
	}
}

// computeWindowed parses the window from the URL path and aggregates the
// leaderboard over the current history. On failure it writes the error
// response itself and reports ok=false.
func (s *Server) computeWindowed(w http.ResponseWriter, r *http.Request, prefix string) ([]leaderboard.Entry, leaderboard.Window, bool) {
	name := strings.TrimPrefix(r.URL.Path, prefix)
	name = strings.Split(name, "/")[0]
	if name == "" {
		s.sendError(w, "Window is required: daily, weekly or all", http.StatusBadRequest)
		return nil, leaderboard.Window{}, false
	}

	window, err := leaderboard.Parse(name, s.nowFunc())
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return nil, leaderboard.Window{}, false
	}

	entries := leaderboard.Compute(s.processor.History(), window)
	return entries, window, true
}

// GET /api/state - the same whole-state object the gateway pushes.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.encode(w, s.processor.Snapshot())
}

// GET /health - store connectivity plus engine stats.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	dbStatus := "healthy"

	if err := s.store.HealthCheck(ctx); err != nil {
		status = "unhealthy"
		dbStatus = fmt.Sprintf("error: %v", err)
	}

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Database:   dbStatus,
		Observers:  s.observers.ObserverCount(),
		QueueDepth: s.processor.QueueDepth(),
	}

	if status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	s.encode(w, response)
}

func (s *Server) encode(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// sendError writes a consistent error response format.
func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	s.encode(w, ErrorResponse{
		Error:   http.StatusText(code),
		Code:    code,
		Message: message,
	})
}

// corsMiddleware enables web dashboard access from any origin.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// jsonMiddleware sets the JSON content type for API responses.
func (s *Server) jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
