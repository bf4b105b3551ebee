// Package apiclient is the shared HTTP transport for the lead-management
// backend. Service clients build requests against paths relative to the
// configured base URL; this package encodes bodies, decodes responses and turns
// non-2xx responses into *APIError.
//
// The client never retries, backs off or caches. Every call is one round trip
// and failures are handed back to the caller as-is.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/leaddesk/internal/logging"
)

const (
	contentTypeJSON = "application/json"

	// maxErrorBody bounds how much of a failed response is kept on APIError.
	maxErrorBody = 64 * 1024
)

// ResponseType selects how a response body is handled.
type ResponseType int

const (
	// ResponseJSON decodes the body into the out argument.
	ResponseJSON ResponseType = iota
	// ResponseBinary returns the raw bytes in a *Binary.
	ResponseBinary
)

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, e.g. "https://crm.example.com". Request
	// paths are appended to its path.
	BaseURL string

	// Timeout applies to the whole exchange when HTTPClient is nil.
	Timeout time.Duration

	UserAgent string

	// Headers are sent on every request (e.g. an Authorization header).
	Headers http.Header

	// HTTPClient overrides the default client. Tests use this to talk to
	// httptest servers.
	HTTPClient *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	base      *url.URL
	hc        *http.Client
	userAgent string
	headers   http.Header
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("apiclient: base URL is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base URL %q must be http or https", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("apiclient: base URL %q has no host", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		base:      base,
		hc:        hc,
		userAgent: cfg.UserAgent,
		headers:   cfg.Headers.Clone(),
	}, nil
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	// RawQuery is appended verbatim after "?". Service clients build it in
	// their declared parameter order.
	RawQuery string

	// Body is JSON-encoded unless ContentType is set, in which case it must
	// be an io.Reader and is sent untouched with that content type.
	Body        any
	ContentType string

	ResponseType ResponseType
}

// Binary is the result of a ResponseBinary request.
type Binary struct {
	Data        []byte
	ContentType string
	// FileName comes from the Content-Disposition header, if present.
	FileName string
}

// Do performs req. For ResponseJSON, out may be nil to discard the body.
// For ResponseBinary, out must be a *Binary.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if req.ResponseType == ResponseBinary {
		if _, ok := out.(*Binary); !ok {
			return fmt.Errorf("apiclient: binary response needs *Binary, got %T", out)
		}
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.resolve(req.Path, req.RawQuery), body)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.ResponseType == ResponseBinary {
		httpReq.Header.Set("Accept", "application/octet-stream, */*")
	} else {
		httpReq.Header.Set("Accept", contentTypeJSON)
	}

	logger := logging.FromContext(ctx)
	start := time.Now()

	res, err := c.hc.Do(httpReq)
	if err != nil {
		logger.Debug("backend request failed",
			"method", req.Method,
			"path", req.Path,
			"error", err,
		)
		return err
	}
	defer res.Body.Close()

	logger.Debug("backend request",
		"method", req.Method,
		"path", req.Path,
		"status", res.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &APIError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: res.StatusCode,
			Message:    extractMessage(raw),
			Body:       raw,
		}
	}

	if req.ResponseType == ResponseBinary {
		data, err := io.ReadAll(res.Body)
		if err != nil {
			return fmt.Errorf("apiclient: read %s %s: %w", req.Method, req.Path, err)
		}
		bin := out.(*Binary)
		bin.Data = data
		bin.ContentType = res.Header.Get("Content-Type")
		bin.FileName = dispositionFileName(res.Header.Get("Content-Disposition"))
		return nil
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("apiclient: read %s %s: %w", req.Method, req.Path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

// Get issues a JSON GET.
func (c *Client) Get(ctx context.Context, path, rawQuery string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, RawQuery: rawQuery}, out)
}

// Post issues a JSON POST.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put issues a JSON PUT.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete issues a DELETE and discards any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// PostMultipart posts a pre-encoded multipart body. contentType must carry the
// boundary (multipart.Writer.FormDataContentType).
func (c *Client) PostMultipart(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	return c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		ContentType: contentType,
	}, out)
}

// GetBinary fetches path as raw bytes.
func (c *Client) GetBinary(ctx context.Context, path string) (*Binary, error) {
	bin := &Binary{}
	err := c.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         path,
		ResponseType: ResponseBinary,
	}, bin)
	if err != nil {
		return nil, err
	}
	return bin, nil
}

// resolve joins path onto the base URL's path.
func (c *Client) resolve(path, rawQuery string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(c.base.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	u.RawPath = ""
	u.RawQuery = rawQuery
	u.Fragment = ""
	return u.String()
}

// encodeBody returns the request body reader and its content type.
func encodeBody(req Request) (io.Reader, string, error) {
	if req.Body == nil {
		return nil, "", nil
	}

	if req.ContentType != "" {
		r, ok := req.Body.(io.Reader)
		if !ok {
			return nil, "", fmt.Errorf("apiclient: body for content type %q must be an io.Reader, got %T", req.ContentType, req.Body)
		}
		return r, req.ContentType, nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("apiclient: encode %s %s: %w", req.Method, req.Path, err)
	}
	return bytes.NewReader(data), contentTypeJSON, nil
}

// dispositionFileName returns the filename parameter of a Content-Disposition
// header, or "" if there is none.
func dispositionFileName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
