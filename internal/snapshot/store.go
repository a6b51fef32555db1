// Package snapshot persists the attendance state as a single serialized
// object in SQLite, replaced wholesale on every mutation.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"attendboard/pkg/database"
	"attendboard/pkg/types"
)

// Store implements the interfaces.SnapshotStore contract on SQLite.
// All writes funnel through a single goroutine; reads run concurrently.
type Store struct {
	db           *sql.DB
	config       *database.Config
	writeChannel chan writeOperation
	shutdown     chan struct{}
	wg           sync.WaitGroup
	closed       bool
	mu           sync.RWMutex
}

// writeOperation represents a queued snapshot write.
type writeOperation struct {
	operation func(*sql.DB) error
	result    chan error
}

// NewStore opens the snapshot database and starts the write loop.
func NewStore(config *database.Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot store config: %w", err)
	}

	db, err := sql.Open("sqlite3", config.DatabasePath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxConnections)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	if err := database.ApplySQLiteOptimizations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply SQLite optimizations: %w", err)
	}

	if err := database.EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{
		db:           db,
		config:       config,
		writeChannel: make(chan writeOperation, 100),
		shutdown:     make(chan struct{}),
	}

	store.wg.Add(1)
	go store.writeLoop()

	return store, nil
}

// writeLoop processes all snapshot writes in a single goroutine. SQLite
// performs best with one writer, and the single-writer pattern also keeps
// snapshot replacement atomic from the readers' perspective.
func (s *Store) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case op := <-s.writeChannel:
			op.result <- op.operation(s.db)

		case <-s.shutdown:
			// Drain queued writes so the final state is not lost on shutdown
			for {
				select {
				case op := <-s.writeChannel:
					op.result <- op.operation(s.db)
				default:
					log.Println("Snapshot write loop shutting down")
					return
				}
			}
		}
	}
}

// executeWrite queues a write operation and waits for completion.
func (s *Store) executeWrite(operation func(*sql.DB) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrStoreClosed
	}
	s.mu.RUnlock()

	result := make(chan error, 1)

	select {
	case s.writeChannel <- writeOperation{operation: operation, result: result}:
		return <-result
	case <-time.After(30 * time.Second):
		return ErrWriteTimeout
	case <-s.shutdown:
		return ErrStoreClosed
	}
}

// Save overwrites the stored snapshot with the given state.
func (s *Store) Save(ctx context.Context, state *types.AttendanceState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return s.executeWrite(func(db *sql.DB) error {
		query := `
			INSERT INTO snapshot (id, state, updated_at)
			VALUES (1, ?, ?)
			ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
		`
		if _, err := db.ExecContext(ctx, query, string(data), time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		return nil
	})
}

// Load returns the last persisted state. A missing row or an unparsable
// payload degrades to an empty state so startup never fails on bad data.
func (s *Store) Load(ctx context.Context) (*types.AttendanceState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT state FROM snapshot WHERE id = 1").Scan(&data)
	if err == sql.ErrNoRows {
		return types.NewAttendanceState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	var state types.AttendanceState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		log.Printf("Snapshot is unparsable, starting from empty state: %v", err)
		return types.NewAttendanceState(), nil
	}
	state.Normalize()

	return &state, nil
}

// HealthCheck validates database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("snapshot database ping failed: %w", err)
	}
	if _, err := s.db.QueryContext(ctx, "SELECT COUNT(*) FROM snapshot LIMIT 1"); err != nil {
		return fmt.Errorf("snapshot database read test failed: %w", err)
	}
	return nil
}

// GetDB returns the underlying database handle for schema validation.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// Close drains pending writes and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.shutdown)
	s.wg.Wait()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot database: %w", err)
	}
	return nil
}
