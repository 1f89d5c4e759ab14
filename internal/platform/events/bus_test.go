package events

import (
	"context"
	"errors"
	"testing"
)

type countingObserver struct {
	published map[string]int
	dropped   map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{published: map[string]int{}, dropped: map[string]int{}}
}

func (c *countingObserver) Published(name string) { c.published[name]++ }
func (c *countingObserver) Dropped(name string)   { c.dropped[name]++ }

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus(8, nil)
	var got []string
	bus.Subscribe("recorder", func(ctx context.Context, evt Event) error {
		got = append(got, evt.Name)
		return nil
	})

	bus.Publish(DepartmentCreated, map[string]string{"id": "d1"})
	bus.Publish(DepartmentDeleted, Deleted{ID: "d1"})
	bus.Drain(context.Background())

	if len(got) != 2 || got[0] != DepartmentCreated || got[1] != DepartmentDeleted {
		t.Fatalf("unexpected delivery order: %v", got)
	}
}

func TestBusPublishNeverBlocks(t *testing.T) {
	obs := newCountingObserver()
	bus := NewBus(1, obs)

	bus.Publish(PolicyCreated, nil)
	bus.Publish(PolicyUpdated, nil)

	if obs.published[PolicyCreated] != 1 {
		t.Fatalf("expected first event queued, got %v", obs.published)
	}
	if obs.dropped[PolicyUpdated] != 1 {
		t.Fatalf("expected second event dropped, got %v", obs.dropped)
	}
}

func TestBusIsolatesSubscriberFailures(t *testing.T) {
	bus := NewBus(4, nil)
	delivered := 0
	bus.Subscribe("panics", func(ctx context.Context, evt Event) error {
		panic("boom")
	})
	bus.Subscribe("fails", func(ctx context.Context, evt Event) error {
		return errors.New("unavailable")
	})
	bus.Subscribe("ok", func(ctx context.Context, evt Event) error {
		delivered++
		return nil
	})

	bus.Publish(SalaryCreated, nil)
	bus.Drain(context.Background())

	if delivered != 1 {
		t.Fatalf("expected healthy subscriber to receive the event, got %d", delivered)
	}
}

func TestBusWithoutSubscribers(t *testing.T) {
	bus := NewBus(2, nil)
	bus.Publish(UserCreated, nil)
	bus.Drain(context.Background())

	var nilBus *Bus
	nilBus.Publish(UserCreated, nil)
}
