package authgw

import (
	"bytes"
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

// genericAuthErr is shown when the backend gives no error text
const genericAuthErr = "An error occurred. Please try again."

// Gateway performs login and registration against the AB DATA backend and
// normalizes responses into the shared outcome shape.
type Gateway struct {
	baseURL string
	http    *http.Client
	store   credstore.Store
	logger  *observability.Logger
	metrics *observability.Metrics
}

// Option configures a Gateway
type Option func(*Gateway)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Gateway) { g.http = hc }
}

// WithMetrics records login outcomes on the given metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithLogger overrides the default logger
func WithLogger(l *observability.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// NewGateway creates a gateway against the backend at baseURL, writing
// successful credentials to store.
func NewGateway(baseURL string, store credstore.Store, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: observability.Transport(nil),
		},
		store:  store,
		logger: observability.NewLogger(observability.InfoLevel, nil),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// authResponse is the backend's login/register response shape
type authResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Error    string `json:"error"`
}

// Login posts credentials to the backend. On success the returned token is
// stored as the current local credential; the very next session resolve
// reports logged in.
func (g *Gateway) Login(ctx context.Context, username, password string) auth.Outcome[auth.Credential] {
	resp, apiErr := g.postAuth(ctx, "/api/login/", map[string]string{
		"username": username,
		"password": password,
	})
	if apiErr != nil {
		g.countLogin("failure")
		return auth.Failure[auth.Credential](apiErr)
	}
	if resp.Token == "" {
		g.countLogin("failure")
		return auth.Failure[auth.Credential](&auth.APIError{Kind: auth.KindInvalidCredentials, Message: genericAuthErr})
	}

	cred := auth.Credential{
		Token:    resp.Token,
		Source:   auth.SourceLocal,
		Username: resp.Username,
	}
	if err := g.store.Set(ctx, cred); err != nil {
		g.countLogin("failure")
		return auth.Failure[auth.Credential](&auth.APIError{
			Kind:    auth.KindNetwork,
			Message: fmt.Sprintf("failed to persist credential: %v", err),
		})
	}

	g.countLogin("success")
	return auth.Success(cred)
}

// Register creates an account. Success deliberately does not log the user
// in; the caller switches the auth view to login mode.
func (g *Gateway) Register(ctx context.Context, username, email, password string) auth.Outcome[struct{}] {
	_, apiErr := g.postAuth(ctx, "/api/register/", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if apiErr != nil {
		return auth.Failure[struct{}](apiErr)
	}
	return auth.Success(struct{}{})
}

// postAuth posts a JSON body and normalizes the response. Unlike the API
// clients, auth endpoints need no Authorization header, and 4xx rejections
// map to InvalidCredentials carrying the backend's error text verbatim.
func (g *Gateway) postAuth(ctx context.Context, path string, body map[string]string) (*authResponse, *auth.APIError) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &auth.APIError{Kind: auth.KindNetwork, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &auth.APIError{Kind: auth.KindNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := g.http.Do(req)
	if err != nil {
		g.logger.WithError(err).Warn("auth request failed")
		return nil, &auth.APIError{Kind: auth.KindNetwork, Message: genericAuthErr}
	}
	defer httpResp.Body.Close()

	var resp authResponse
	raw, _ := io.ReadAll(io.LimitReader(httpResp.Body, 64*1024))
	_ = json.Unmarshal(raw, &resp)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		message := resp.Error
		if message == "" {
			message = genericAuthErr
		}
		kind := auth.KindHTTP
		if httpResp.StatusCode == http.StatusBadRequest || httpResp.StatusCode == http.StatusUnauthorized {
			kind = auth.KindInvalidCredentials
		}
		return nil, &auth.APIError{Kind: kind, Status: httpResp.StatusCode, Message: message}
	}

	return &resp, nil
}

func (g *Gateway) countLogin(result string) {
	if g.metrics != nil {
		g.metrics.LoginsTotal.WithLabelValues(string(auth.SourceLocal), result).Inc()
	}
}
