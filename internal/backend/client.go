// Package backend is the typed client of the SnapStream JSON API.
//
// All calls carry the browser's session through the request context (see
// Session). Failures come back as *APIError when the backend answered, or
// wrap ErrNetwork / ErrMalformedResponse when it did not.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"snapstream/internal/logging"
)

// Observer receives one call per finished backend request.
// status is 0 when no response was received.
type Observer interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiPrefix  string
	httpClient *http.Client
	uploadHTTP *http.Client
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the client used for JSON calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers a request observer, e.g. for metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a client for the backend at baseURL.
// Uploads use a client without timeout; they are bounded by their context.
func NewClient(baseURL, apiPrefix string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiPrefix:  apiPrefix,
		httpClient: &http.Client{Timeout: timeout},
		uploadHTTP: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// envelope holds the fields every backend response may carry.
type envelope struct {
	Success  *bool  `json:"success"`
	Message  string `json:"message"`
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// Request sends a JSON request to endpoint (relative to the API prefix) and
// decodes a successful body into out. in and out may be nil.
func (c *Client) Request(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+c.apiPrefix+endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	return c.do(c.httpClient, req, endpoint, out, "An error occurred")
}

// do executes req with the session from its context and decodes the response.
func (c *Client) do(hc *http.Client, req *http.Request, endpoint string, out interface{}, fallback string) error {
	session := SessionFromContext(req.Context())
	session.apply(req)

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.observe(req.Method, endpoint, 0, start)
		logging.Log.Warnf("backend: %s %s failed: %v", req.Method, endpoint, err)
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrNetwork, ctxErr)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	c.observe(req.Method, endpoint, resp.StatusCode, start)

	session.absorb(resp)
	return decodeResponse(resp, out, fallback)
}

func (c *Client) observe(method, endpoint string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(method, routeLabel(endpoint), status, time.Since(start))
}

// decodeResponse maps a backend response onto out or an error.
func decodeResponse(resp *http.Response, out interface{}, fallback string) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w (status %d): %v", ErrMalformedResponse, resp.StatusCode, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || (env.Success != nil && !*env.Success) {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = fallback
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}
	return nil
}

var idSegment = regexp.MustCompile(`^([0-9]+|[0-9a-fA-F-]{16,})$`)

// routeLabel replaces id-like path segments so metric labels stay bounded.
func routeLabel(endpoint string) string {
	path := endpoint
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if idSegment.MatchString(p) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
