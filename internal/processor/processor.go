// Package processor turns the stream of join/leave events into attendance
// state: the live presence map, the bounded history log and cumulative
// per-user totals.
package processor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"attendboard/internal/metrics"
	"attendboard/pkg/duration"
	"attendboard/pkg/interfaces"
	"attendboard/pkg/types"
)

// Processor owns all mutations of the attendance state. Events are queued on
// a buffered channel and applied by a single goroutine, so mutations are
// serialized even under concurrent delivery. Each applied event triggers a
// synchronous snapshot persist and a whole-state broadcast before the next
// event is taken.
type Processor struct {
	store       interfaces.SnapshotStore
	broadcaster interfaces.Broadcaster
	metrics     *metrics.Metrics

	eventChannel    chan types.Event
	shutdownChannel chan struct{}
	doneChannel     chan struct{}

	state   *types.AttendanceState
	stateMu sync.RWMutex

	nowFunc func() time.Time

	running bool
	mu      sync.RWMutex
}

// New creates a processor. The state is empty until LoadState runs.
func New(store interfaces.SnapshotStore, broadcaster interfaces.Broadcaster, m *metrics.Metrics) *Processor {
	return &Processor{
		store:           store,
		broadcaster:     broadcaster,
		metrics:         m,
		eventChannel:    make(chan types.Event, 1000),
		shutdownChannel: make(chan struct{}),
		doneChannel:     make(chan struct{}),
		nowFunc:         time.Now,
	}
}

// LoadState restores the attendance state from the snapshot store. Missing
// or corrupt snapshots come back as an empty state, so this only fails when
// the store itself is unreachable.
func (p *Processor) LoadState(ctx context.Context) error {
	state, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load attendance snapshot: %w", err)
	}

	p.stateMu.Lock()
	p.state = state
	p.stateMu.Unlock()

	log.Printf("Loaded attendance state: %d history entries, %d active sessions, %d tracked users",
		len(state.History), len(state.Active), len(state.Stats))
	return nil
}

// Start begins event processing.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	p.stateMu.RLock()
	loaded := p.state != nil
	p.stateMu.RUnlock()
	if !loaded {
		p.mu.Unlock()
		return ErrStateNotLoaded
	}
	p.running = true
	p.mu.Unlock()

	log.Println("Starting event processor...")
	go p.run(ctx)

	return nil
}

// Stop shuts down the processor. Events already queued are applied before
// the run loop exits, so an accepted event is never silently dropped.
func (p *Processor) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrNotRunning
	}
	p.running = false
	p.mu.Unlock()

	log.Println("Stopping event processor...")

	select {
	case <-p.shutdownChannel:
		// Already closed
	default:
		close(p.shutdownChannel)
	}

	<-p.doneChannel
	return nil
}

// Submit validates and queues an incoming event. The timestamp is assigned
// here, at ingestion, never taken from the client.
func (p *Processor) Submit(eventType, user, channel string) error {
	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		return ErrNotRunning
	}
	p.mu.RUnlock()

	event := types.Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		User:    user,
		Channel: channel,
		Time:    p.nowFunc(),
	}

	if err := event.ValidateIncoming(); err != nil {
		p.metrics.InvalidEvents.Inc()
		return fmt.Errorf("%w: %s", ErrInvalidEvent, err)
	}

	select {
	case p.eventChannel <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Snapshot returns a deep copy of the current state for readers. Readers
// never see a half-written mutation because copies are taken under the same
// lock the run loop writes under.
func (p *Processor) Snapshot() *types.AttendanceState {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()

	if p.state == nil {
		return types.NewAttendanceState()
	}
	return p.state.Clone()
}

// History returns a consistent copy of the bounded event log, most recent
// first, for leaderboard derivation.
func (p *Processor) History() []types.Event {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()

	if p.state == nil {
		return nil
	}
	history := make([]types.Event, len(p.state.History))
	copy(history, p.state.History)
	return history
}

// QueueDepth reports how many accepted events are waiting to be applied.
func (p *Processor) QueueDepth() int {
	return len(p.eventChannel)
}

// run is the single-consumer processing loop.
func (p *Processor) run(ctx context.Context) {
	defer close(p.doneChannel)
	defer log.Println("Event processor stopped")

	for {
		select {
		case event := <-p.eventChannel:
			p.apply(ctx, event)

		case <-p.shutdownChannel:
			p.drain(ctx)
			return

		case <-ctx.Done():
			log.Println("Event processor context cancelled")
			p.drain(ctx)
			return
		}
	}
}

// drain applies any events that were accepted before shutdown.
func (p *Processor) drain(ctx context.Context) {
	for {
		select {
		case event := <-p.eventChannel:
			p.apply(ctx, event)
		default:
			return
		}
	}
}

// apply mutates the state for one event, then persists and broadcasts the
// result. The mutation is not considered complete until both side effects
// have been issued.
func (p *Processor) apply(ctx context.Context, event types.Event) {
	p.stateMu.Lock()

	switch {
	case event.IsJoin():
		// A join while already present overwrites the open session; the
		// prior unclosed session is never credited
		p.state.Active[event.User] = types.Session{
			Channel:  event.Channel,
			JoinedAt: event.Time,
		}

	case event.IsLeave():
		if session, active := p.state.Active[event.User]; active {
			p.state.Stats[event.User] += duration.ElapsedSeconds(session.JoinedAt, event.Time)
			delete(p.state.Active, event.User)
		}
		// A leave without an active session still lands in history below
	}

	p.state.Record(event)
	broadcast := p.state.Clone()
	p.stateMu.Unlock()

	p.metrics.EventsProcessed.WithLabelValues(event.Type).Inc()

	if err := p.store.Save(ctx, broadcast); err != nil {
		// State is at risk of loss on restart, but processing continues
		// from memory
		log.Printf("Snapshot persistence failed: %v", err)
		p.metrics.PersistenceFailures.Inc()
	}

	p.broadcaster.Broadcast(broadcast)
	p.metrics.BroadcastsSent.Inc()
}
