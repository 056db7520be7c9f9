// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Kind is the stable classification surfaced to API callers. Services return
// *Error values; handlers map kinds to HTTP statuses.
type Kind string

const (
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindNotFound       Kind = "NOT_FOUND"
	KindInvalidRequest Kind = "INVALID_REQUEST"
	KindConflict       Kind = "CONFLICT"
	KindInvalidState   Kind = "INVALID_STATE"
	KindInternal       Kind = "INTERNAL_ERROR"
)

type Error struct {
	Kind    Kind
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

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func InvalidRequest(message string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// Internal wraps a store or transport failure. The wrapped error is logged
// server-side and never serialized to the caller.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal for errors
// outside the taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-visible message for err. Internal failures
// stay opaque.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "internal error"
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
