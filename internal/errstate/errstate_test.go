package errstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JonMunkholm/leaddesk/internal/apiclient"
	"github.com/stretchr/testify/assert"
)

func TestTracker_StartsClear(t *testing.T) {
	tr := New()
	assert.Equal(t, State{}, tr.State())
	assert.False(t, tr.State().HasError)
}

func TestTracker_GenericErrorThenClear(t *testing.T) {
	tr := New()

	got := tr.HandleError(errors.New("boom"))
	assert.Equal(t, State{HasError: true, StatusCode: http.StatusInternalServerError, Message: "boom"}, got)
	assert.Equal(t, got, tr.State())

	tr.ClearError()
	assert.Equal(t, State{HasError: false}, tr.State())
}

func TestTracker_ResponseError(t *testing.T) {
	tr := New()

	tr.HandleError(&apiclient.APIError{
		Method:     http.MethodGet,
		Path:       "/api/documents/1",
		StatusCode: http.StatusNotFound,
		Message:    "nf",
	})
	assert.Equal(t, State{HasError: true, StatusCode: 404, Message: "nf"}, tr.State())
}

func TestTracker_WrappedResponseError(t *testing.T) {
	apiErr := &apiclient.APIError{StatusCode: http.StatusForbidden, Message: "not yours"}
	s := FromError(fmt.Errorf("load lead: %w", apiErr))
	assert.Equal(t, 403, s.StatusCode)
	assert.Equal(t, "not yours", s.Message)
}

func TestFromError_ResponseWithoutMessageUsesStatusText(t *testing.T) {
	apiErr := &apiclient.APIError{Method: "GET", Path: "/api/folders/3", StatusCode: http.StatusBadGateway}
	s := FromError(fmt.Errorf("load folder: %w", apiErr))
	assert.Equal(t, 502, s.StatusCode)
	assert.Equal(t, "Request failed with status code 502", s.Message)
	assert.NotContains(t, s.Message, "/api/folders")
	assert.NotContains(t, s.Message, "apiclient")
}

func TestFromError_ResponseWithoutMessageOrStatus(t *testing.T) {
	s := FromError(&apiclient.APIError{Method: "GET", Path: "/api/folders"})
	assert.Equal(t, State{HasError: true, StatusCode: 500, Message: DefaultMessage}, s)
}

func TestFromError_ZeroStatusDefaultsTo500(t *testing.T) {
	s := FromError(&apiclient.APIError{Message: "odd"})
	assert.Equal(t, 500, s.StatusCode)
	assert.Equal(t, "odd", s.Message)
}

func TestFromError_NilUsesFixedMessage(t *testing.T) {
	s := FromError(nil)
	assert.Equal(t, State{HasError: true, StatusCode: 500, Message: DefaultMessage}, s)
}

func TestFromError_BlankErrorUsesFixedMessage(t *testing.T) {
	s := FromError(errors.New("   "))
	assert.Equal(t, DefaultMessage, s.Message)
}

func TestTracker_RetryOnlyClears(t *testing.T) {
	tr := New()
	tr.HandleError(errors.New("first"))
	tr.Retry()
	assert.Equal(t, State{}, tr.State())
}

func TestTracker_KeepsOnlyLatest(t *testing.T) {
	tr := New()
	tr.HandleError(errors.New("first"))
	tr.HandleError(&apiclient.APIError{StatusCode: 409, Message: "second"})
	assert.Equal(t, State{HasError: true, StatusCode: 409, Message: "second"}, tr.State())
}

func TestTrackers_AreIndependent(t *testing.T) {
	a, b := New(), New()
	a.HandleError(errors.New("only a"))
	assert.True(t, a.State().HasError)
	assert.False(t, b.State().HasError)
}

func TestClassify(t *testing.T) {
	switch c := Classify(&apiclient.APIError{StatusCode: 400}).(type) {
	case ResponseCause:
		assert.Equal(t, 400, c.StatusCode)
	default:
		t.Fatalf("got %T, want ResponseCause", c)
	}

	if _, ok := Classify(errors.New("dial tcp: refused")).(GenericCause); !ok {
		t.Fatal("network error should classify as GenericCause")
	}
}

func TestState_JSON(t *testing.T) {
	cleared, _ := json.Marshal(State{})
	assert.JSONEq(t, `{"hasError":false}`, string(cleared))

	errored, _ := json.Marshal(State{HasError: true, StatusCode: 404, Message: "nf"})
	assert.JSONEq(t, `{"hasError":true,"statusCode":404,"message":"nf"}`, string(errored))
}
