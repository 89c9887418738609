package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rezkam/cardfile/internal/domain"
)

type eventKind string

const (
	kindCreated  eventKind = "created"
	kindApproved eventKind = "approved"
	kindRejected eventKind = "rejected"
	kindDeleted  eventKind = "deleted"
)

type event struct {
	id        uuid.UUID
	kind      eventKind
	recipient domain.User
	material  domain.TextMaterial
	reason    string
}

const (
	defaultQueueSize   = 64
	defaultSendTimeout = 30 * time.Second
)

// Dispatcher queues lifecycle events and delivers them through a Sender on
// a single background goroutine, so events for the same material arrive in
// the order they were committed. Enqueueing never blocks: when the queue is
// full the event is dropped and logged.
type Dispatcher struct {
	sender      Sender
	sendTimeout time.Duration

	events chan event
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithQueueSize sets the capacity of the event queue.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.events = make(chan event, n)
		}
	}
}

// WithSendTimeout bounds a single delivery attempt.
func WithSendTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.sendTimeout = timeout
		}
	}
}

// NewDispatcher creates a Dispatcher. Call Start before handing it to the
// material service and Shutdown on the way out.
func NewDispatcher(sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:      sender,
		sendTimeout: defaultSendTimeout,
		events:      make(chan event, defaultQueueSize),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the delivery goroutine. Delivery keeps working after ctx
// is cancelled so that already-queued events drain during shutdown.
func (d *Dispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	go func() {
		defer close(d.done)
		for ev := range d.events {
			d.deliver(base, ev)
		}
	}()
}

// Shutdown stops accepting new events and waits for the queue to drain,
// or for ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MaterialCreated implements material.Notifier.
func (d *Dispatcher) MaterialCreated(u domain.User, m domain.TextMaterial) {
	d.enqueue(event{kind: kindCreated, recipient: u, material: m})
}

// MaterialApproved implements material.Notifier.
func (d *Dispatcher) MaterialApproved(u domain.User, m domain.TextMaterial) {
	d.enqueue(event{kind: kindApproved, recipient: u, material: m})
}

// MaterialRejected implements material.Notifier.
func (d *Dispatcher) MaterialRejected(u domain.User, m domain.TextMaterial, reason string) {
	d.enqueue(event{kind: kindRejected, recipient: u, material: m, reason: reason})
}

// MaterialDeleted implements material.Notifier.
func (d *Dispatcher) MaterialDeleted(u domain.User, m domain.TextMaterial) {
	d.enqueue(event{kind: kindDeleted, recipient: u, material: m})
}

func (d *Dispatcher) enqueue(ev event) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	ev.id = id

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		slog.Warn("Dropped notification, dispatcher is shut down",
			slog.String("event_id", ev.id.String()),
			slog.String("kind", string(ev.kind)),
			slog.Int64("material_id", ev.material.ID))
		return
	}

	select {
	case d.events <- ev:
	default:
		slog.Warn("Dropped notification due to full queue",
			slog.String("event_id", ev.id.String()),
			slog.String("kind", string(ev.kind)),
			slog.Int64("material_id", ev.material.ID))
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev event) {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	var err error
	switch ev.kind {
	case kindCreated:
		err = d.sender.SendCreated(ctx, ev.recipient, ev.material)
	case kindApproved:
		err = d.sender.SendApproved(ctx, ev.recipient, ev.material)
	case kindRejected:
		err = d.sender.SendRejected(ctx, ev.recipient, ev.material, ev.reason)
	case kindDeleted:
		err = d.sender.SendDeleted(ctx, ev.recipient, ev.material)
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to deliver notification",
			slog.String("event_id", ev.id.String()),
			slog.String("kind", string(ev.kind)),
			slog.Int64("material_id", ev.material.ID),
			slog.String("recipient", ev.recipient.Email),
			slog.String("error", err.Error()))
	}
}
