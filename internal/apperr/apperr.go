// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument marks missing or malformed client input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUserNotFound marks a reference to a user that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrStore marks a persistence failure.
	ErrStore = errors.New("store failure")
)

// Invalid returns an ErrInvalidArgument carrying a client-facing message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Store wraps a persistence error for the named operation.
func Store(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// HTTPStatus maps an error to the response status class.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show a client. Server-side
// failures never expose their cause.
func PublicMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadRequest, http.StatusNotFound:
		return err.Error()
	default:
		return "internal server error"
	}
}
