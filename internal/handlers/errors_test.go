package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fitfam/internal/apperror"
)

func decodeErrorBody(t *testing.T, recorder *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, recorder.Body.String())
	}
	return body.Error
}

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	detail := decodeErrorBody(t, recorder)
	if detail.Message != "Teapot" || detail.Status != 418 {
		t.Fatalf("unexpected error body %+v", detail)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondWithAppError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperror.NotFound("user", 7), http.StatusNotFound, "No user: 7"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperror.NotFound("family", 3)), http.StatusNotFound, "No family: 3"},
		{"duplicate", apperror.Duplicate("Duplicate email: %s", "a@b.c"), http.StatusBadRequest, "Duplicate email: a@b.c"},
		{"empty input", apperror.EmptyInput("No data"), http.StatusBadRequest, "No data"},
		{"forbidden", apperror.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"unauthorized", apperror.Unauthorized("Invalid email/password"), http.StatusUnauthorized, "Invalid email/password"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, ErrInternalServerError},
	}

	originalOutput := log.Writer()
	log.SetOutput(&bytes.Buffer{})
	defer log.SetOutput(originalOutput)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/users/7", nil)

			respondWithAppError(recorder, req, tt.err)

			if recorder.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, recorder.Code)
			}
			detail := decodeErrorBody(t, recorder)
			if detail.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, detail.Message)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"valid", `{"name":"Fran"}`, nil},
		{"unknown field", `{"name":"Fran","password":"x"}`, apperror.ErrBadRequest},
		{"empty body", ``, apperror.ErrEmptyInput},
		{"malformed", `{"name":`, apperror.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/workouts", strings.NewReader(tt.body))
			var dst struct {
				Name string `json:"name"`
			}
			err := decodeJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if dst.Name != "Fran" {
					t.Fatalf("expected name to decode, got %q", dst.Name)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
