package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event is a committed mutation.
type Event struct {
	Name       string    `json:"event"`
	Data       any       `json:"data"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Handler consumes events on the bus worker goroutine.
type Handler func(ctx context.Context, evt Event) error

// Publisher is what domain services depend on.
type Publisher interface {
	Publish(name string, data any)
}

type Observer interface {
	Published(name string)
	Dropped(name string)
}

// Bus fans committed mutations out to subscribers. Publish never blocks:
// when the queue is full the event is dropped and logged.
type Bus struct {
	mu          sync.RWMutex
	subscribers []subscriber
	queue       chan Event
	observer    Observer
	now         func() time.Time
}

type subscriber struct {
	name    string
	handler Handler
}

func NewBus(buffer int, observer Observer) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{
		queue:    make(chan Event, buffer),
		observer: observer,
		now:      time.Now,
	}
}

func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, subscriber{name: name, handler: handler})
}

func (b *Bus) Publish(name string, data any) {
	if b == nil {
		return
	}
	evt := Event{Name: name, Data: data, OccurredAt: b.now().UTC()}
	select {
	case b.queue <- evt:
		if b.observer != nil {
			b.observer.Published(name)
		}
	default:
		slog.Warn("event queue full, dropping event", "event", name)
		if b.observer != nil {
			b.observer.Dropped(name)
		}
	}
}

// Start runs the worker until ctx is done.
func (b *Bus) Start(ctx context.Context) {
	go b.worker(ctx)
}

func (b *Bus) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-b.queue:
			b.dispatch(ctx, evt)
		}
	}
}

// Drain delivers everything currently queued. Used at shutdown and in tests.
func (b *Bus) Drain(ctx context.Context) {
	for {
		select {
		case evt := <-b.queue:
			b.dispatch(ctx, evt)
		default:
			return
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, evt Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subs {
		b.deliver(ctx, sub, evt)
	}
}

func (b *Bus) deliver(ctx context.Context, sub subscriber, evt Event) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("event subscriber panicked", "subscriber", sub.name, "event", evt.Name, "panic", rec)
		}
	}()
	if err := sub.handler(ctx, evt); err != nil {
		slog.Warn("event subscriber failed", "subscriber", sub.name, "event", evt.Name, "err", err)
	}
}
