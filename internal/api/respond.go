package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/users"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps the error taxonomy onto HTTP status codes. Forbidden is
// checked first because it also wraps ErrValidation.
func statusFor(err error) int {
	switch {
	case apperrors.IsForbidden(err):
		return http.StatusForbidden
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, users.ErrInvalidCredentials), errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, status, "internal server error")
		return
	}
	writeMessage(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Debug("Failed to decode request", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}
