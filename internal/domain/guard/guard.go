// Package guard enforces mutation preconditions and turns persistence
// failures into apperr outcomes.
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/domain/apperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// DefaultAttempts bounds the create retry on code conflicts.
const DefaultAttempts = 3

// ErrNotFound may be returned by stores that do not speak pgx.
var ErrNotFound = errors.New("row not found")

// Constraint describes a named database constraint.
type Constraint struct {
	Field string
	// Target names the referenced entity for foreign keys.
	Target string
}

type Constraints map[string]Constraint

// EnsureUnreferenced blocks a delete while dependent rows exist.
func EnsureUnreferenced(entity string, count int, message string) error {
	if count <= 0 {
		return nil
	}
	if message == "" {
		message = fmt.Sprintf("Cannot delete %s because employees are still assigned to it.", entity)
	}
	return apperr.ReferentialIntegrity(entity, message)
}

// KnownID rejects ids that cannot name a row before they reach the
// database, where a malformed uuid would surface as a cast error.
func KnownID(entity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(entity)
	}
	return nil
}

// Reference validates an optional foreign key supplied by a client.
func Reference(field, target, id string) error {
	if id == "" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation(field, fmt.Sprintf("%s does not reference an existing %s", field, target))
	}
	return nil
}

// TranslateWrite maps a create or update failure onto the taxonomy.
func TranslateWrite(err error, entity string, constraints Constraints) error {
	return translate(err, entity, constraints, false)
}

// TranslateDelete maps a delete failure. Foreign key violations mean other
// rows still depend on the target.
func TranslateDelete(err error, entity string, constraints Constraints) error {
	return translate(err, entity, constraints, true)
}

func translate(err error, entity string, constraints Constraints, deleting bool) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return apperr.NotFound(entity)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperr.Internal(err)
	}
	c := constraints[pgErr.ConstraintName]
	switch pgErr.Code {
	case pgUniqueViolation:
		return &apperr.Error{
			Kind:    apperr.KindDuplicateKey,
			Entity:  entity,
			Field:   fieldOr(c.Field, "field"),
			Message: duplicateMessage(entity, fieldOr(c.Field, "field")),
			Err:     err,
		}
	case pgForeignKeyViolation:
		if deleting {
			target := fieldOr(c.Target, "other records")
			return &apperr.Error{
				Kind:    apperr.KindReferentialIntegrity,
				Entity:  entity,
				Message: fmt.Sprintf("Cannot delete %s because %s still reference it.", entity, target),
				Err:     err,
			}
		}
		field := fieldOr(c.Field, "reference")
		return &apperr.Error{
			Kind:    apperr.KindValidation,
			Entity:  entity,
			Field:   field,
			Message: fmt.Sprintf("%s does not reference an existing %s", field, fieldOr(c.Target, "record")),
			Err:     err,
		}
	}
	return apperr.Internal(err)
}

func duplicateMessage(entity, field string) string {
	return apperr.DuplicateKey(entity, field).Message
}

func fieldOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// IsMissing reports whether a store lookup found no row.
func IsMissing(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}

// IsConflictOn reports whether err is a unique violation of constraint.
func IsConflictOn(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// RetryOnConflict re-runs fn while it fails with a unique violation on one
// of the given constraints. Each run must be a complete transaction; any
// other error is returned immediately.
func RetryOnConflict(ctx context.Context, attempts int, fn func() error, constraints ...string) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn()
		if err == nil || !conflictsOnAny(err, constraints) {
			return err
		}
	}
	return err
}

func conflictsOnAny(err error, constraints []string) bool {
	for _, c := range constraints {
		if IsConflictOn(err, c) {
			return true
		}
	}
	return false
}
