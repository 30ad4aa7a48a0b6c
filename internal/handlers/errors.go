package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"fitfam/internal/apperror"
	"fitfam/internal/validation"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorBody{Error: errorDetail{Message: userMsg, Status: status}})
}

// respondWithAppError maps err to its HTTP status. Only server errors are logged
// and their details never reach the client.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.MapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		respondWithError(w, status, ErrInternalServerError, r.Method+" "+r.URL.Path, err)
		return
	}
	respondWithError(w, status, apperror.Message(err, http.StatusText(status)), "", nil)
}

// decodeJSON reads a JSON body into dst. Fields dst does not declare are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.EmptyInput("No data")
		}
		return apperror.New(apperror.ErrBadRequest, ErrInvalidJSON+": "+err.Error(), err)
	}
	return nil
}

// readBody decodes and validates a request body
func readBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return validation.Struct(dst)
}
