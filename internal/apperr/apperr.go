// Package apperr holds the error taxonomy shared by services, repositories
// and HTTP handlers. Every error that reaches a handler is matched against the
// sentinel kinds below with errors.Is to pick the response status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
	ErrStorage           = errors.New("storage failure")
)

// Error carries a client-facing message alongside its kind and, for storage
// failures, the underlying cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a formatted message.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error   { return New(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) error   { return New(ErrConflict, format, args...) }
func Validation(format string, args ...any) error { return New(ErrValidation, format, args...) }
func Unauthorized(format string, args ...any) error {
	return New(ErrUnauthorized, format, args...)
}

// IsNotFound reports whether err is of kind ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Storage wraps a lower-level persistence error. Errors that already belong
// to the taxonomy pass through untouched.
func Storage(err error, msg string) error {
	if err == nil {
		return nil
	}
	var known *Error
	if errors.As(err, &known) {
		return err
	}
	return &Error{Kind: ErrStorage, Msg: msg, Err: err}
}

// HTTPStatus maps an error onto the response status used at the request boundary.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAlreadyRegistered),
		errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
