// Package apperr defines the application error taxonomy. Services return
// *Error values; the handler layer maps kinds to HTTP status codes in a
// single place and never leaks wrapped internals to response bodies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// Internal covers storage, hashing, and signing failures.
	Internal Kind = iota
	// InvalidArgument marks missing or malformed input.
	InvalidArgument
	// Unauthorized marks bad credentials or a bad/expired/reused token.
	Unauthorized
	// NotFound marks a missing user or post.
	NotFound
	// Conflict marks duplicate registration or a duplicate follow.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to the status code exposed to clients.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidArgument:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a kind-tagged application error with a client-safe message and
// an optional structured detail payload.
type Error struct {
	Kind    Kind
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an error of the given kind with a client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause that stays out of the client-facing message.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: err}
}

// WithDetails returns a copy of the error carrying a detail payload.
func (e *Error) WithDetails(details any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// KindOf extracts the kind from err, defaulting to Internal for errors
// that did not originate in this package.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// MessageOf returns the client-safe message for err. Untyped errors get a
// generic message so internals never reach a response body.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
