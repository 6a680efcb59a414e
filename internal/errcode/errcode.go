package errcode

import (
	"errors"
	"fmt"
)

// Kind classifies a failure at the request boundary.
// Every kind maps to exactly one HTTP status in the api package.
type Kind string

const (
	KindUnauthenticated      Kind = "unauthenticated"
	KindUnauthorized         Kind = "unauthorized"
	KindNotFound             Kind = "not_found"
	KindValidation           Kind = "validation"
	KindDuplicateApplication Kind = "duplicate_application"
	KindSelfDeleteForbidden  Kind = "self_delete_forbidden"
	KindTooManyRequests      Kind = "too_many_requests"
	KindInternal             Kind = "internal"
)

// FieldError is a single field-level constraint violation.
type FieldError struct {
	Field   string
	Message string
}

// Error is the error type returned by services.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Unauthenticated() *Error {
	return New(KindUnauthenticated, "Unauthenticated.")
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "The given data was invalid.", Fields: fields}
}

func DuplicateApplication() *Error {
	return New(KindDuplicateApplication, "You have already applied for this job")
}

func SelfDeleteForbidden() *Error {
	return New(KindSelfDeleteForbidden, "You cannot delete your own account")
}

// Internal wraps an unexpected failure; the message is never shown to clients.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
