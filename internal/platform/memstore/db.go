// Package memstore is an in-memory implementation of every domain store.
// It backs STORE_DRIVER=memory and the service tests. Constraint failures
// are reported as *pgconn.PgError carrying the constraint names of the
// Postgres schema, so error translation behaves identically.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/domain/employee"
	"hrms/internal/domain/org"
	"hrms/internal/domain/payroll"
	"hrms/internal/domain/policy"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type tables struct {
	users        map[string]employee.User
	certificates []employee.Certificate
	departments  map[string]org.Department
	designations map[string]org.Designation
	policies     map[string]policy.Policy
	salaries     map[string]payroll.Salary
	items        map[string]payroll.Item
	counters     map[string]int
	// inserted records the insertion sequence of every row id. It orders
	// rows created within the same clock tick.
	inserted map[string]int64
}

func (t tables) clone() tables {
	return tables{
		users:        maps.Clone(t.users),
		certificates: slices.Clone(t.certificates),
		departments:  maps.Clone(t.departments),
		designations: maps.Clone(t.designations),
		policies:     maps.Clone(t.policies),
		salaries:     maps.Clone(t.salaries),
		items:        maps.Clone(t.items),
		counters:     maps.Clone(t.counters),
		inserted:     maps.Clone(t.inserted),
	}
}

// DB holds every table behind one mutex. A transaction holds the mutex
// for its whole duration and restores a snapshot when it fails.
type DB struct {
	mu  sync.Mutex
	seq int64
	now func() time.Time
	t   tables
}

func New() *DB {
	return &DB{
		now: time.Now,
		t: tables{
			users:        map[string]employee.User{},
			departments:  map[string]org.Department{},
			designations: map[string]org.Designation{},
			policies:     map[string]policy.Policy{},
			salaries:     map[string]payroll.Salary{},
			items:        map[string]payroll.Item{},
			counters:     map[string]int{},
			inserted:     map[string]int64{},
		},
	}
}

// Ping always succeeds; it lets the memory driver satisfy readiness checks.
func (db *DB) Ping(context.Context) error { return nil }

func (db *DB) Org() *Org           { return &Org{session{db: db}} }
func (db *DB) Policies() *Policies { return &Policies{session{db: db}} }
func (db *DB) Employees() *Employees {
	return &Employees{session{db: db}}
}
func (db *DB) Payroll() *Payroll { return &Payroll{session{db: db}} }

// session is the shared core of the per-domain adapters. locked marks a
// session that runs inside a transaction and already holds the mutex.
type session struct {
	db     *DB
	locked bool
}

func (s session) do(fn func(t *tables) error) error {
	if !s.locked {
		s.db.mu.Lock()
		defer s.db.mu.Unlock()
	}
	return fn(&s.db.t)
}

func (s session) inTx(fn func(session) error) error {
	if s.locked {
		return fn(s)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	snapshot := s.db.t.clone()
	if err := fn(session{db: s.db, locked: true}); err != nil {
		s.db.t = snapshot
		return err
	}
	return nil
}

// insert assigns a new id and returns it with the creation timestamp.
func (s session) insert() (string, time.Time) {
	id := uuid.NewString()
	s.db.seq++
	s.db.t.inserted[id] = s.db.seq
	return id, s.db.now()
}

func unique(constraint string) error {
	return &pgconn.PgError{
		Code:           uniqueViolation,
		Message:        "duplicate key value violates unique constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}

func foreignKey(constraint string) error {
	return &pgconn.PgError{
		Code:           foreignKeyViolation,
		Message:        "violates foreign key constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}

// ordered returns the keys of rows sorted by insertion, oldest first
// unless newestFirst is set.
func ordered[V any](t *tables, rows map[string]V, newestFirst bool) []string {
	ids := slices.Collect(maps.Keys(rows))
	sort.Slice(ids, func(i, j int) bool {
		if newestFirst {
			return t.inserted[ids[i]] > t.inserted[ids[j]]
		}
		return t.inserted[ids[i]] < t.inserted[ids[j]]
	})
	return ids
}

// newest returns the most recently inserted row accepted by keep.
func newest[V any](t *tables, rows map[string]V, keep func(V) bool) (V, bool) {
	for _, id := range ordered(t, rows, true) {
		if keep(rows[id]) {
			return rows[id], true
		}
	}
	var zero V
	return zero, false
}

func incrementCounter(t *tables, entity string, seed int) int {
	value, ok := t.counters[entity]
	if !ok {
		value = seed
	}
	value++
	t.counters[entity] = value
	return value
}

func sameRef(ref *string, id string) bool {
	return ref != nil && *ref == id
}
