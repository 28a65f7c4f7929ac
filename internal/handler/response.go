package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON or writeError, so all responses
// share one shape. Errors always look like:
//
//	{"error": "not_found", "message": "prompt not found with id abc123"}
//	{"error": "validation_error", "message": "title is required", "field": "title"}

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/promptlab/internal/apperror"
)

// maxBodyBytes caps request bodies; prompts are text, not uploads.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Offending input field, when there is one
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body is written.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// decodeJSON reads a single JSON object from the request body into dst.
// Any decode failure is reported to the client as invalid_json.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeInvalidJSON(w, logger, err)
		return false
	}
	// Trailing garbage after the object is also malformed input.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeInvalidJSON(w, logger, errors.New("request body must contain a single JSON object"))
		return false
	}
	return true
}

func writeInvalidJSON(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Warn("invalid request body", slog.String("error", err.Error()))
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_json",
		Message: "invalid JSON body: " + err.Error(),
	})
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// errors.Is walks the Unwrap chain, so a service error like
// fmt.Errorf("creating prompt: %w", apperror.ValidationFailed(...)) still
// matches ErrValidation.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrInvalidReference):
			status = http.StatusBadRequest
			errorType = "invalid_reference"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Unknown error. Never expose internal details (SQL, paths) to the client.
	logger.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
