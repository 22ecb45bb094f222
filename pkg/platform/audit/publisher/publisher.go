// Package publisher emits audit events to a store and optional sinks.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "shipcertify/pkg/platform/audit"
)

// Sink forwards events to an external system (e.g. Kafka). Sink failures are
// logged, never propagated: the store is the source of truth.
type Sink interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Publisher persists audit events synchronously by default, or through a
// buffered channel when WithAsyncBuffer is set.
type Publisher struct {
	store  audit.Store
	sinks  []Sink
	logger *slog.Logger

	inbox  chan audit.Event
	wg     sync.WaitGroup
	closed sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking, queuing up to size events for a
// background writer. Events are dropped (and logged) when the buffer is full.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

// WithSink adds a forwarding sink alongside the store.
func WithSink(sink Sink) Option {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, sink)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an audit event. Missing ID, Timestamp, and Category fields are
// filled in here so call sites stay terse.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox != nil {
		select {
		case p.inbox <- event:
		default:
			p.logger.Warn("audit buffer full, dropping event", "action", event.Action, "subject", event.Subject)
		}
		return nil
	}
	return p.write(ctx, event)
}

// List returns the stored events for an actor.
func (p *Publisher) List(ctx context.Context, actor string) ([]audit.Event, error) {
	return p.store.ListByActor(ctx, actor)
}

// ListAll returns every stored event across all actors.
func (p *Publisher) ListAll(ctx context.Context) ([]audit.Event, error) {
	return p.store.ListAll(ctx)
}

// Close stops the background writer, flushing queued events first.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.inbox {
		if err := p.write(context.Background(), event); err != nil {
			p.logger.Error("audit write failed", "action", event.Action, "error", err)
		}
	}
}

func (p *Publisher) write(ctx context.Context, event audit.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	for _, sink := range p.sinks {
		if err := sink.Emit(ctx, event); err != nil {
			p.logger.Warn("audit sink emit failed", "action", event.Action, "error", err)
		}
	}
	return nil
}
