package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrms/internal/platform/events"
)

type failingBackend struct {
	*Memory
	failGet  bool
	failIncr bool
}

func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errors.New("connection refused")
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingBackend) Incr(ctx context.Context, key string) error {
	if f.failIncr {
		return errors.New("connection refused")
	}
	return f.Memory.Incr(ctx, key)
}

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestLoadCachesUntilInvalidated(t *testing.T) {
	c := NewWithBackend(NewMemory(), time.Minute)
	calls := 0
	load := func(ctx context.Context) ([]row, error) {
		calls++
		return []row{{ID: "d1", Name: "Engineering"}}, nil
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		rows, err := Load(ctx, c, Departments, load)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(rows) != 1 || rows[0].Name != "Engineering" {
			t.Fatalf("unexpected rows: %+v", rows)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one load, got %d", calls)
	}

	c.Changed(ctx, events.UserCreated)
	if _, err := Load(ctx, c, Departments, load); err != nil {
		t.Fatalf("load: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after userCreated, got %d loads", calls)
	}
}

func TestFillStartedBeforeInvalidationIsNotServed(t *testing.T) {
	c := NewWithBackend(NewMemory(), time.Minute)
	ctx := context.Background()

	stale := func(ctx context.Context) ([]row, error) {
		// The write commits and invalidates while this read is in flight.
		c.Changed(ctx, events.PolicyCreated)
		return []row{{ID: "p1"}}, nil
	}
	if _, err := Load(ctx, c, Policies, stale); err != nil {
		t.Fatalf("load: %v", err)
	}

	fresh := func(ctx context.Context) ([]row, error) {
		return []row{{ID: "p1"}, {ID: "p2"}}, nil
	}
	rows, err := Load(ctx, c, Policies, fresh)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected the post-write list, got %+v", rows)
	}
}

func TestLoadDegradesOnBackendFailure(t *testing.T) {
	c := NewWithBackend(&failingBackend{Memory: NewMemory(), failGet: true}, time.Minute)

	rows, err := Load(context.Background(), c, Policies, func(ctx context.Context) ([]row, error) {
		return []row{{ID: "p1"}}, nil
	})
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected loader result, got %v %v", rows, err)
	}
}

func TestInvalidateReportsBackendFailure(t *testing.T) {
	c := NewWithBackend(&failingBackend{Memory: NewMemory(), failIncr: true}, time.Minute)
	if err := c.Invalidate(context.Background(), Salaries, PayrollItems); err == nil {
		t.Fatal("expected invalidation error")
	}
	c.Changed(context.Background(), events.SalaryCreated)
}

func TestLoadDoesNotCacheErrors(t *testing.T) {
	mem := NewMemory()
	c := NewWithBackend(mem, time.Minute)
	_, err := Load(context.Background(), c, Salaries, func(ctx context.Context) ([]row, error) {
		return nil, errors.New("db down")
	})
	if err == nil {
		t.Fatal("expected loader error")
	}
	if entries := mem.Entries(); len(entries) != 0 {
		t.Fatalf("expected nothing cached, got %v", entries)
	}
}

func TestNilCachePassesThrough(t *testing.T) {
	var c *Cache
	rows, err := Load(context.Background(), c, Salaries, func(ctx context.Context) ([]row, error) {
		return []row{{ID: "s1"}}, nil
	})
	if err != nil || len(rows) != 1 {
		t.Fatalf("unexpected result %v %v", rows, err)
	}
	if err := c.Invalidate(context.Background(), Salaries); err != nil {
		t.Fatalf("nil invalidate: %v", err)
	}
	c.Changed(context.Background(), events.SalaryCreated)
}

func TestAffectedCoversEveryEvent(t *testing.T) {
	names := []string{
		events.DepartmentCreated, events.DepartmentUpdated, events.DepartmentDeleted,
		events.DesignationCreated, events.DesignationUpdated, events.DesignationDeleted,
		events.PolicyCreated, events.PolicyUpdated, events.PolicyDeleted,
		events.UserCreated, events.UserUpdated,
		events.SalaryCreated, events.SalaryUpdated,
		events.PayrollItemCreated, events.PayrollItemUpdated, events.PayrollItemDeleted,
	}
	for _, name := range names {
		if len(Affected(name)) == 0 {
			t.Fatalf("event %s invalidates nothing", name)
		}
	}
}
