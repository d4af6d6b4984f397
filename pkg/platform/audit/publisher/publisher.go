package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dErrors "painel/pkg/domain-errors"
	audit "painel/pkg/platform/audit"
)

// Publisher appends audit events to a Store, synchronously or through a
// bounded buffer drained by a background goroutine.
type Publisher struct {
	store   audit.Store
	events  chan audit.Event
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *Metrics
	async   bool
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer queues events in a buffer of the given size. Emit never
// blocks; a full buffer drops the event and returns an error.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
			p.async = true
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(store audit.Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		p.metrics.setQueueDepth(len(p.events))
		if err := p.store.Append(context.Background(), event); err != nil {
			p.metrics.incPersistFailure()
			if p.logger != nil {
				p.logger.Error("failed to persist audit event",
					"error", err,
					"action", string(event.Action),
					"account_id", event.AccountID.String(),
				)
			}
		}
	}
}

// Close stops accepting events and waits for the buffer to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if !p.async {
		if err := p.store.Append(ctx, event); err != nil {
			p.metrics.incPersistFailure()
			return dErrors.Wrap(err, dErrors.CodeInternal, "append audit event")
		}
		return nil
	}

	select {
	case p.events <- event:
		p.metrics.setQueueDepth(len(p.events))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.incDropped()
		if p.logger != nil {
			p.logger.Warn("audit buffer full, event dropped",
				"action", string(event.Action),
				"account_id", event.AccountID.String(),
			)
		}
		return dErrors.New(dErrors.CodeUnavailable, "audit buffer full")
	}
}
