package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: NotFound("user", 7), want: http.StatusNotFound},
		{name: "duplicate is a bad request", err: Duplicate("User %d is already a member of family: %d", 1, 2), want: http.StatusBadRequest},
		{name: "empty input is a bad request", err: EmptyInput("No data"), want: http.StatusBadRequest},
		{name: "forbidden", err: Forbidden("nope"), want: http.StatusForbidden},
		{name: "unauthorized", err: Unauthorized("login"), want: http.StatusUnauthorized},
		{name: "wrapped not found", err: fmt.Errorf("failed to get user: %w", NotFound("user", 3)), want: http.StatusNotFound},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapErrorToStatus(tt.err); got != tt.want {
				t.Errorf("MapErrorToStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNotFoundMessageNamesEntityAndID(t *testing.T) {
	err := NotFound("workout", 42)
	if err.Error() != "No workout: 42" {
		t.Errorf("Error() = %q, want %q", err.Error(), "No workout: 42")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is(err, ErrNotFound)")
	}
}

func TestAppErrorKeepsCause(t *testing.T) {
	cause := errors.New("constraint failed")
	err := New(ErrDuplicate, "already exists", cause)

	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable")
	}
	if !errors.Is(err, ErrBadRequest) {
		t.Error("expected a duplicate to be a bad request")
	}
	if got := Message(fmt.Errorf("wrap: %w", err), "fallback"); got != "already exists" {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(cause, "fallback"); got != "fallback" {
		t.Errorf("Message() = %q", got)
	}
}
