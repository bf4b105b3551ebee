package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, UserAgent: "leaddesk-test"})
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "crm.example.com"},
		{"ftp scheme", "ftp://crm.example.com"},
		{"no host", "http://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{BaseURL: tt.url})
			assert.Error(t, err)
		})
	}
}

func TestDo_JSONRoundTrip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/folders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "leaddesk-test", r.Header.Get("User-Agent"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Contracts"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"name":"Contracts"}`))
	})

	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	err := c.Post(context.Background(), "/api/folders", map[string]string{"name": "Contracts"}, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, "Contracts", out.Name)
}

func TestDo_BasePathPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/backend/"})
	require.NoError(t, err)

	require.NoError(t, c.Get(context.Background(), "/api/keywords", "page=2&limit=10", nil))
	assert.Equal(t, "/backend/api/keywords?page=2&limit=10", gotPath)
}

func TestDo_NonSuccessBecomesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Document not found"}`))
	})

	err := c.Get(context.Background(), "/api/documents/9", "", &struct{}{})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Document not found", apiErr.Message)
	assert.Equal(t, "/api/documents/9", apiErr.Path)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDo_ServerErrorIsNotNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.Get(context.Background(), "/api/folders", "", nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Empty(t, apiErr.Message)
	assert.Contains(t, apiErr.Error(), "status code 502")
}

func TestDo_NoRetryOnFailure(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := c.Get(context.Background(), "/api/keywords", "", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_TransportErrorReturnedUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	srv.Close()

	err = c.Get(context.Background(), "/api/folders", "", nil)
	require.Error(t, err)

	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI, "network failures carry no response")
}

func TestPostMultipart_SendsExplicitContentType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "multipart/form-data; boundary=xyz", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "raw-bytes", string(body))
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	var out map[string]bool
	err := c.PostMultipart(context.Background(), "/api/documents/upload", "multipart/form-data; boundary=xyz", strings.NewReader("raw-bytes"), &out)
	require.NoError(t, err)
	assert.True(t, out["ok"])
}

func TestDo_ContentTypeOverrideNeedsReader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})

	err := c.Do(context.Background(), Request{
		Method:      http.MethodPost,
		Path:        "/api/documents/upload",
		Body:        map[string]string{"not": "a reader"},
		ContentType: "multipart/form-data; boundary=x",
	}, nil)
	assert.Error(t, err)
}

func TestGetBinary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "application/octet-stream")
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="brochure.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.7"))
	})

	bin, err := c.GetBinary(context.Background(), "/api/documents/3/download")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), bin.Data)
	assert.Equal(t, "application/pdf", bin.ContentType)
	assert.Equal(t, "brochure.pdf", bin.FileName)
}

func TestDo_BinaryNeedsBinaryOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x", ResponseType: ResponseBinary}, &struct{}{})
	assert.Error(t, err)
}

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"message":"nf"}`, "nf"},
		{`{"error":"bad input"}`, "bad input"},
		{`{"error":{"message":"nested"}}`, "nested"},
		{`{"message":"","error":"fallback"}`, "fallback"},
		{`not json`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractMessage([]byte(tt.body)), "body %q", tt.body)
	}
}
