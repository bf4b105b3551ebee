package web

// Every failure leaves the gateway in the same shape: the errstate State
// ({hasError, statusCode, message}) as the JSON body and State.StatusCode as
// the HTTP status. Backend failures keep their status and nested message;
// anything else becomes a 500.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/leaddesk/internal/errstate"
	"github.com/JonMunkholm/leaddesk/internal/logging"
)

// ValidationResponse is the 422 body for rejected payloads.
type ValidationResponse struct {
	errstate.State
	Details map[string]string `json:"details,omitempty"`
}

// respondError reports err through a fresh Tracker, logs the technical
// detail with the request id, and writes the resulting state.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	state := errstate.New().HandleError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", state.StatusCode,
		"error", err,
	}
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("request canceled", attrs...)
	case state.StatusCode >= http.StatusInternalServerError:
		logger.Error("request error", attrs...)
	default:
		logger.Warn("request error", attrs...)
	}

	writeJSON(w, state.StatusCode, state)
}

// writeError writes a locally produced error, such as a malformed id or body.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Warn("request rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"reason", message,
	)
	writeJSON(w, status, errstate.State{HasError: true, StatusCode: status, Message: message})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, message string, details map[string]string) {
	logging.FromContext(r.Context()).Info("validation failed",
		"path", r.URL.Path,
		"fields", len(details),
	)
	writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
		State:   errstate.State{HasError: true, StatusCode: http.StatusUnprocessableEntity, Message: message},
		Details: details,
	})
}
