package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

// SessionGoneMessage is shown for unknown or expired sessions.
const SessionGoneMessage = "session expired or not found; please re-upload the document"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps the audit error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var rerr *a11y.RenderError
	switch {
	case errors.Is(err, a11y.ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, a11y.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, a11y.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &rerr):
		if rerr.OutOfRange() {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with the status its type calls for.
func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusNotFound && errors.Is(err, a11y.ErrNotFound) {
		msg = SessionGoneMessage
	}
	writeError(w, status, msg)
}
