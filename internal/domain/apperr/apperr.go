// Package apperr defines the error taxonomy shared by every domain service.
// Handlers map a Kind to an HTTP status; nothing below the handler layer
// knows about status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation           Kind = "validation_error"
	KindDuplicateKey         Kind = "duplicate_key"
	KindNotFound             Kind = "not_found"
	KindReferentialIntegrity Kind = "referential_integrity"
	KindAuthentication       Kind = "authentication_failed"
	KindInternal             Kind = "internal_error"
)

type Error struct {
	Kind    Kind
	Entity  string
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func DuplicateKey(entity, field string) *Error {
	if field == "" {
		field = "field"
	}
	return &Error{
		Kind:    KindDuplicateKey,
		Entity:  entity,
		Field:   field,
		Message: fmt.Sprintf("%s with this %s already exists", entity, field),
	}
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: entity + " not found"}
}

func ReferentialIntegrity(entity, message string) *Error {
	return &Error{Kind: KindReferentialIntegrity, Entity: entity, Message: message}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// As returns the taxonomy error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
