package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"attendboard/internal/api"
	"attendboard/internal/config"
	"attendboard/internal/metrics"
	"attendboard/internal/processor"
	"attendboard/internal/snapshot"
	"attendboard/internal/websocket"
	"attendboard/pkg/database"
)

// Application coordinates all system components.
// Initialization follows strict dependency order:
// Store → Metrics → Registry → Processor → API → HTTP
type Application struct {
	config     *config.Config
	store      *snapshot.Store
	metrics    *metrics.Metrics
	registry   *websocket.Registry
	processor  *processor.Processor
	apiServer  *api.Server
	httpServer *http.Server
}

// NewApplication creates an application instance with all components wired.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dbConfig := &database.Config{
		DatabasePath:    cfg.Database.Path,
		MaxConnections:  10,
		ConnMaxLifetime: cfg.Database.Timeout,
		ConnMaxIdleTime: cfg.Database.Timeout / 3,
	}

	store, err := snapshot.NewStore(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	m := metrics.New()
	registry := websocket.NewRegistry(m)
	proc := processor.New(store, registry, m)

	// Restore persisted state before the engine starts accepting events.
	if err := proc.LoadState(context.Background()); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load persisted state: %w", err)
	}

	apiServer := api.NewServer(proc, store, registry)
	wsHandler := websocket.NewHandler(registry, proc, websocket.Config{
		PingInterval: cfg.WebSocket.PingInterval,
		ReadTimeout:  cfg.WebSocket.ReadTimeout,
		WriteTimeout: cfg.WebSocket.WriteTimeout,
		BufferSize:   cfg.WebSocket.BufferSize,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiServer)
	mux.Handle("/health", apiServer)
	mux.Handle("/metrics", apiServer)
	mux.HandleFunc("/ws", wsHandler.HandleObserver)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &Application{
		config:     cfg,
		store:      store,
		metrics:    m,
		registry:   registry,
		processor:  proc,
		apiServer:  apiServer,
		httpServer: httpServer,
	}, nil
}

// Start begins application execution. The processor starts first so the
// HTTP layer never accepts an event with no engine behind it.
func (app *Application) Start(ctx context.Context) error {
	log.Printf("Starting attendboard application on %s", app.httpServer.Addr)

	if err := app.processor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event processor: %w", err)
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		app.processor.Stop()
		return err
	case <-time.After(100 * time.Millisecond):
		log.Printf("Attendboard application started successfully")
		return nil
	case <-ctx.Done():
		app.processor.Stop()
		return ctx.Err()
	}
}

// Stop gracefully shuts down the application.
// Reverse dependency order: HTTP → Processor → Store.
func (app *Application) Stop(ctx context.Context) error {
	log.Printf("Shutting down attendboard application")

	if err := app.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if err := app.processor.Stop(); err != nil {
		log.Printf("Event processor shutdown error: %v", err)
	}

	if err := app.store.Close(); err != nil {
		log.Printf("Snapshot store shutdown error: %v", err)
	}

	log.Printf("Attendboard application shutdown complete")
	return nil
}

// GetAddr returns the server address for external connections.
func (app *Application) GetAddr() string {
	return app.httpServer.Addr
}
