package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the categories the API maps to
// HTTP status codes.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindConflict
	KindInternal
)

// Error is the application error carried across service boundaries.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status corresponding to the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(resource string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func BadRequest(message string, err error) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Err: err}
}

func Unauthorized(message string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Err: err}
}

func Forbidden(message string, err error) *Error {
	return &Error{Kind: KindForbidden, Message: message, Err: err}
}

func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for
// errors that did not originate from this package.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
