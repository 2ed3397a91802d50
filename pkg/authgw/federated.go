package authgw

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/franfreezy/abdata/pkg/auth"
	"github.com/franfreezy/abdata/pkg/observability"
	"github.com/franfreezy/abdata/pkg/session"
)

// FederatedConfig holds the OIDC provider settings
type FederatedConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// fedSession is one browser session's federated state: the validated
// provider session plus its private auth-change bus.
type fedSession struct {
	sess *session.ProviderSession
	bus  *session.Broadcaster
}

// Federated drives the redirect-based OAuth handshake with the identity
// provider and tracks, per browser session, whether a provider-validated
// session is active. A federated session only ever exists after the provider
// validated it in the current handshake; it is never fabricated.
type Federated struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
	logger   *observability.Logger

	mu       sync.Mutex
	sessions map[string]*fedSession
}

// NewFederated discovers the OIDC provider and prepares the OAuth2 config
func NewFederated(ctx context.Context, cfg FederatedConfig, logger *observability.Logger) (*Federated, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	return &Federated{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		logger:   logger,
		sessions: make(map[string]*fedSession),
	}, nil
}

// AuthCodeURL builds the provider redirect for the handshake, requesting
// offline access and forcing the consent prompt, with the fixed callback
// target from the config.
func (f *Federated) AuthCodeURL(state string) string {
	return f.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// CompleteSignIn exchanges the authorization code, verifies the ID token,
// records the session for the browser session sid and announces SIGNED_IN.
func (f *Federated) CompleteSignIn(ctx context.Context, sid, code string) (*session.ProviderSession, error) {
	tok, err := f.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, &auth.APIError{Kind: auth.KindProvider, Message: fmt.Sprintf("failed to exchange code: %v", err)}
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok {
		return nil, &auth.APIError{Kind: auth.KindProvider, Message: "missing id_token in provider response"}
	}

	idToken, err := f.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, &auth.APIError{Kind: auth.KindProvider, Message: fmt.Sprintf("failed to verify ID token: %v", err)}
	}

	var claims struct {
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
		Name              string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		f.logger.WithError(err).Warn("failed to parse ID token claims")
	}
	username := claims.Email
	if username == "" {
		username = claims.PreferredUsername
	}
	if username == "" {
		username = claims.Name
	}

	// The backend authorizes JWT-shaped tokens with the Bearer scheme, so
	// prefer the JWT form when the provider's access token is opaque.
	accessToken := tok.AccessToken
	if auth.InferSource(accessToken) != auth.SourceFederated {
		accessToken = rawIDToken
	}

	sess := &session.ProviderSession{AccessToken: accessToken, Username: username}
	bus := f.busFor(sid, true)

	f.mu.Lock()
	f.sessions[sid].sess = sess
	f.mu.Unlock()

	bus.Publish(session.Event{
		Type:        session.EventSignedIn,
		AccessToken: sess.AccessToken,
		Username:    sess.Username,
	})
	return sess, nil
}

// SignOutSession ends the federated session for sid and announces
// SIGNED_OUT. Signing out a session that was never federated is a no-op.
func (f *Federated) SignOutSession(_ context.Context, sid string) error {
	f.mu.Lock()
	entry := f.sessions[sid]
	if entry != nil {
		entry.sess = nil
	}
	f.mu.Unlock()

	if entry != nil {
		entry.bus.Publish(session.Event{Type: session.EventSignedOut})
	}
	return nil
}

// DropSession forgets everything held for the browser session sid: the
// provider session and its event bus. Nothing is announced; callers sign
// out first when a SIGNED_OUT must be delivered. Used when the browser
// session itself is torn down.
func (f *Federated) DropSession(sid string) {
	f.mu.Lock()
	delete(f.sessions, sid)
	f.mu.Unlock()
}

// Bound scopes the provider surface to one browser session so the resolver
// sees exactly the getSession/signOut/subscribe contract.
func (f *Federated) Bound(sid string) session.Provider {
	return &boundProvider{f: f, sid: sid}
}

// busFor returns the session's event bus, creating the entry when create is
// set.
func (f *Federated) busFor(sid string, create bool) *session.Broadcaster {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry := f.sessions[sid]
	if entry == nil {
		if !create {
			return nil
		}
		entry = &fedSession{bus: session.NewBroadcaster()}
		f.sessions[sid] = entry
	}
	return entry.bus
}

// boundProvider adapts Federated to the per-session Provider interface
type boundProvider struct {
	f   *Federated
	sid string
}

func (b *boundProvider) Session(_ context.Context) (*session.ProviderSession, error) {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	entry := b.f.sessions[b.sid]
	if entry == nil || entry.sess == nil {
		return nil, nil
	}
	s := *entry.sess
	return &s, nil
}

func (b *boundProvider) SignOut(ctx context.Context) error {
	return b.f.SignOutSession(ctx, b.sid)
}

func (b *boundProvider) Subscribe(fn func(session.Event)) func() {
	return b.f.busFor(b.sid, true).Subscribe(fn)
}
