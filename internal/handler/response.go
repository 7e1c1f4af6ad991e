package handler

// RESPONSE HELPERS:
// Every error response has the same shape, so clients can always read
// the "error" key regardless of the status code:
//
//	{"error": "User not found."}
//	{"error": "email must be a valid email address", "field": "email"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/profile-service/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`           // Human-readable message
	Field string `json:"field,omitempty"` // Set for request validation failures
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps a domain error to its HTTP status.
//
// Duplicate usernames and rejected uploads are plain 400s; only request
// shape problems (missing or malformed fields) get 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, apperror.ErrConflict),
		errors.Is(err, apperror.ErrUnsupportedType),
		errors.Is(err, apperror.ErrTooLarge),
		errors.Is(err, apperror.ErrInvalidContent):
		return http.StatusBadRequest // 400
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
// Errors that are not *apperror.AppError are logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, statusFor(err), ErrorResponse{
			Error: appErr.Message,
			Field: appErr.Field,
		})
		return
	}

	// NEVER expose internal error details to the client: they can contain file paths.
	logger.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "An internal error occurred",
	})
}
