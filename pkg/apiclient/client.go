package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/franfreezy/abdata/pkg/auth"
	"github.com/franfreezy/abdata/pkg/credstore"
	"github.com/franfreezy/abdata/pkg/observability"
)

// DefaultBaseURL matches the backend's development default
const DefaultBaseURL = "http://localhost:8000"

// errorBodyLimit caps how much of an error response body is read
const errorBodyLimit = 64 * 1024

// Client is the shared core of the typed API clients. Every call reads the
// credential from the store at call time; credentials are never cached
// across an awaited boundary, so a store write in the same tick is always
// observed.
type Client struct {
	baseURL string
	http    *http.Client
	store   credstore.Store
	logger  *observability.Logger
	metrics *observability.Metrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records backend call outcomes on the given metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger overrides the default logger
func WithLogger(l *observability.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client against the backend at baseURL. Outgoing calls are
// traced via the instrumented transport.
func New(baseURL string, store credstore.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: observability.Transport(nil),
		},
		store:  store,
		logger: observability.NewLogger(observability.InfoLevel, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newRequest builds an authorized request, or fails fast with
// Unauthenticated, before any network call, when the store is empty.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, *auth.APIError) {
	cred, err := c.store.Get(ctx)
	if err != nil {
		return nil, &auth.APIError{Kind: auth.KindUnauthenticated, Message: fmt.Sprintf("failed to read credential: %v", err)}
	}
	if !cred.Valid() {
		return nil, auth.ErrUnauthenticated()
	}

	header, err := auth.AuthorizationHeader(cred.Token)
	if err != nil {
		return nil, auth.ErrUnauthenticated()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &auth.APIError{Kind: auth.KindNetwork, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", header)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do executes a request and normalizes transport and HTTP failures. The
// caller owns the response body on success.
func (c *Client) do(req *http.Request, clientName, operation string) (*http.Response, *auth.APIError) {
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		c.metrics.ObserveBackendCall(clientName, operation, string(auth.KindNetwork), elapsed)
		return nil, &auth.APIError{Kind: auth.KindNetwork, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &auth.APIError{
			Kind:    auth.KindHTTP,
			Status:  resp.StatusCode,
			Message: errorMessage(resp),
		}
		resp.Body.Close()
		c.metrics.ObserveBackendCall(clientName, operation, string(auth.KindHTTP), elapsed)
		return nil, apiErr
	}

	c.metrics.ObserveBackendCall(clientName, operation, "success", elapsed)
	return resp, nil
}

// getJSON issues an authorized GET and decodes the JSON response
func getJSON[T any](c *Client, ctx context.Context, path, clientName, operation string) auth.Outcome[T] {
	req, apiErr := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if apiErr != nil {
		return auth.Failure[T](apiErr)
	}

	resp, apiErr := c.do(req, clientName, operation)
	if apiErr != nil {
		return auth.Failure[T](apiErr)
	}
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return auth.Failure[T](&auth.APIError{
			Kind:    auth.KindHTTP,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("failed to decode response: %v", err),
		})
	}
	return auth.Success(out)
}

// errorMessage extracts the server-supplied error text from a non-2xx
// response, preferring the backend's error field over the HTTP status text.
func errorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	if err == nil && len(body) > 0 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		if json.Unmarshal(body, &payload) == nil {
			switch {
			case payload.Error != "":
				return payload.Error
			case payload.Message != "":
				return payload.Message
			case payload.Detail != "":
				return payload.Detail
			}
		}
	}
	return http.StatusText(resp.StatusCode)
}
