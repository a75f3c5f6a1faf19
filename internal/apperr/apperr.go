package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error by how the caller should react to it.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is the structured error returned across service boundaries.
type Error struct {
	Kind    Kind
	Field   string // offending input field, validation only
	Entity  string // collection the error refers to, e.g. "post"
	ID      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return e.Message + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input for field.
func Validation(field, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that entity id did not exist at the time of the operation.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: entity + " not found"}
}

// Conflict reports that the caller's premise was valid when the action began
// but no longer holds.
func Conflict(entity, id, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(entity, id, format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)}
}

// Store wraps a store or connectivity fault. A nil err yields nil.
func Store(err error, message string) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Kind: KindStore, Message: message, Err: errors.WithStack(err)}
}

// KindOf returns the kind of err, or KindStore for any unclassified error.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

func IsNotFound(err error) bool   { return err != nil && KindOf(err) == KindNotFound }
func IsConflict(err error) bool   { return err != nil && KindOf(err) == KindConflict }
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }
func IsForbidden(err error) bool  { return err != nil && KindOf(err) == KindForbidden }
