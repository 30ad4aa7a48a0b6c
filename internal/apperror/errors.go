package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Duplicate and empty-input failures are both bad requests.
	ErrDuplicate  = fmt.Errorf("duplicate: %w", ErrBadRequest)
	ErrEmptyInput = fmt.Errorf("empty input: %w", ErrBadRequest)
)

// AppError carries a user-facing message alongside the kind of failure
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// New creates an AppError of the given kind
func New(kind error, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// NotFound reports a missing entity, e.g. "No user: 7"
func NotFound(entity string, id any) *AppError {
	return New(ErrNotFound, fmt.Sprintf("No %s: %v", entity, id), nil)
}

func BadRequest(format string, args ...any) *AppError {
	return New(ErrBadRequest, fmt.Sprintf(format, args...), nil)
}

func Duplicate(format string, args ...any) *AppError {
	return New(ErrDuplicate, fmt.Sprintf(format, args...), nil)
}

func EmptyInput(message string) *AppError {
	return New(ErrEmptyInput, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(ErrUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(ErrForbidden, message, nil)
}

// MapErrorToStatus maps an error to the HTTP status it should produce
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message returns the user-facing message for err, or fallback when err is not an AppError
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
