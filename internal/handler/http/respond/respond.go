// Package respond provides utilities for sending HTTP responses in JSON format.
// It includes error handling that keeps internal error details out of responses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"estate-watch/internal/domain/entity"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// DomainError maps domain errors to HTTP responses. Validation failures,
// duplicates and missing entities carry their message; anything else is a
// masked 500 with the detail logged.
func DomainError(w http.ResponseWriter, err error) {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		Error(w, http.StatusBadRequest, err)
	case errors.Is(err, entity.ErrDuplicateEntry):
		Error(w, http.StatusConflict, err)
	case errors.Is(err, entity.ErrNotFound):
		Error(w, http.StatusNotFound, err)
	default:
		slog.Default().Error("internal server error",
			slog.Any("error", err))
		JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
