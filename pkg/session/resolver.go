// Package session reconciles the two possible credential sources, a stored
// backend-issued token and a federated provider session, into a single
// authentication state.
package session

import (
	"context"

	"github.com/franfreezy/abdata/pkg/auth"
	"github.com/franfreezy/abdata/pkg/credstore"
	"github.com/franfreezy/abdata/pkg/observability"
)

// State is the derived authentication state. It is recomputed from the token
// store and the provider, never persisted.
type State struct {
	LoggedIn   bool
	Credential *auth.Credential
}

// LoggedOut is the zero state
var LoggedOut = State{}

// Reduce is the pure reducer over credential presence. Kept separate from
// the effectful Resolve so the priority order is testable on its own.
func Reduce(localPresent, federatedPresent bool) State {
	if localPresent || federatedPresent {
		return State{LoggedIn: true}
	}
	return LoggedOut
}

// Resolver derives the current State and keeps the token store in step with
// provider auth-change events.
type Resolver struct {
	store    credstore.Store
	provider Provider
	logger   *observability.Logger
}

// NewResolver creates a resolver over a store and a federated provider.
// provider may be nil when federated sign-in is not configured.
func NewResolver(store credstore.Store, provider Provider, logger *observability.Logger) *Resolver {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Resolver{store: store, provider: provider, logger: logger}
}

// Resolve computes the current state. Priority order, first match wins:
// a stored local credential; an active federated session (persisted as a
// credential as a side effect); otherwise logged out. A failing provider
// query is background reconciliation, so it is logged and treated as logged
// out, never surfaced.
func (r *Resolver) Resolve(ctx context.Context) State {
	cred, err := r.store.Get(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("token store read failed")
	}
	if cred.Valid() && cred.Source == auth.SourceLocal {
		return State{LoggedIn: true, Credential: cred}
	}

	if r.provider == nil {
		return LoggedOut
	}

	sess, err := r.provider.Session(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("federated session query failed")
		return LoggedOut
	}
	if sess == nil || sess.AccessToken == "" {
		return LoggedOut
	}

	fedCred := auth.Credential{
		Token:    sess.AccessToken,
		Source:   auth.SourceFederated,
		Username: sess.Username,
	}
	if err := r.store.Set(ctx, fedCred); err != nil {
		r.logger.WithError(err).Warn("failed to persist federated credential")
	}
	return State{LoggedIn: true, Credential: &fedCred}
}

// Bind subscribes the resolver to the provider's auth-change stream and
// returns the unsubscribe handle. SIGNED_IN with a usable token persists a
// federated credential; SIGNED_OUT clears the store only when the stored
// credential is itself federated, since a backend-issued login is independent
// of the provider and must survive a federated sign-out. Callers must release
// the handle when the owning scope is torn down.
func (r *Resolver) Bind(ctx context.Context) (unsubscribe func()) {
	if r.provider == nil {
		return func() {}
	}
	return r.provider.Subscribe(func(ev Event) {
		switch ev.Type {
		case EventSignedIn:
			if ev.AccessToken == "" {
				return
			}
			cred := auth.Credential{
				Token:    ev.AccessToken,
				Source:   auth.SourceFederated,
				Username: ev.Username,
			}
			if err := r.store.Set(ctx, cred); err != nil {
				r.logger.WithError(err).Warn("failed to persist signed-in credential")
			}
		case EventSignedOut:
			cred, err := r.store.Get(ctx)
			if err != nil {
				r.logger.WithError(err).Warn("token store read failed on sign-out")
				return
			}
			if cred.Valid() && cred.Source != auth.SourceFederated {
				return
			}
			if err := r.store.Clear(ctx); err != nil {
				r.logger.WithError(err).Warn("failed to clear credential on sign-out")
			}
		}
	})
}
