// Package errstate normalizes failures into the {hasError, statusCode, message}
// shape a UI surface renders.
//
// A Tracker holds exactly one state, either clear or errored, and is owned by
// a single surface. The web layer creates a fresh Tracker per request; nothing
// here is process-wide.
package errstate

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JonMunkholm/leaddesk/internal/apiclient"
)

// DefaultMessage is used when neither the backend nor the error has anything
// to say.
const DefaultMessage = "An unexpected error occurred"

// State is the observable error state.
type State struct {
	HasError   bool   `json:"hasError"`
	StatusCode int    `json:"statusCode,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Cause is the closed set of failure shapes HandleError understands.
// Implementations: ResponseCause, GenericCause.
type Cause interface {
	cause()
}

// ResponseCause is a failure that came back with a backend response.
type ResponseCause struct {
	StatusCode int
	// Message is the backend's nested message field; may be empty.
	Message string
	Err     error
}

// GenericCause is any other failure: network errors, local errors, nil.
type GenericCause struct {
	Err error
}

func (ResponseCause) cause() {}
func (GenericCause) cause()  {}

// Classify sorts err into one of the Cause variants.
func Classify(err error) Cause {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		return ResponseCause{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return GenericCause{Err: err}
}

// FromError computes the errored state for err without a Tracker.
func FromError(err error) State {
	var status int
	var message string

	switch c := Classify(err).(type) {
	case ResponseCause:
		status = c.StatusCode
		message = firstNonEmpty(c.Message, responseText(c.StatusCode))
	case GenericCause:
		message = errorText(c.Err)
	}

	if status == 0 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = DefaultMessage
	}
	return State{HasError: true, StatusCode: status, Message: message}
}

// Tracker is the per-surface error state machine.
type Tracker struct {
	mu    sync.Mutex
	state State
}

// New returns a Tracker in the clear state.
func New() *Tracker {
	return &Tracker{}
}

// HandleError moves to the errored state for err and returns it.
func (t *Tracker) HandleError(err error) State {
	s := FromError(err)

	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
	return s
}

// ClearError moves to the clear state.
func (t *Tracker) ClearError() {
	t.mu.Lock()
	t.state = State{}
	t.mu.Unlock()
}

// Retry is ClearError. It does not re-run the failed operation; the caller
// triggers that itself.
func (t *Tracker) Retry() {
	t.ClearError()
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// responseText is the user-facing fallback for a backend response without a
// message. The method and path in APIError.Error stay in the server log.
func responseText(status int) string {
	if status <= 0 {
		return ""
	}
	return fmt.Sprintf("Request failed with status code %d", status)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
