package session

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franfreezy/abdata/pkg/auth"
	"github.com/franfreezy/abdata/pkg/credstore"
	"github.com/franfreezy/abdata/pkg/observability"
)

// fakeProvider is a scriptable federated provider for resolver tests
type fakeProvider struct {
	*Broadcaster
	session     *ProviderSession
	sessionErr  error
	signOutErr  error
	sessionHits int
	signOuts    int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{Broadcaster: NewBroadcaster()}
}

func (p *fakeProvider) Session(_ context.Context) (*ProviderSession, error) {
	p.sessionHits++
	return p.session, p.sessionErr
}

func (p *fakeProvider) SignOut(_ context.Context) error {
	p.signOuts++
	return p.signOutErr
}

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name                     string
		local, federated, wantIn bool
	}{
		{"neither", false, false, false},
		{"local only", true, false, true},
		{"federated only", false, true, true},
		{"both", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIn, Reduce(tt.local, tt.federated).LoggedIn)
		})
	}
}

func TestResolve_LocalCredentialWins(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, auth.Credential{Token: "opaque", Source: auth.SourceLocal, Username: "frandel"}))

	provider := newFakeProvider()
	r := NewResolver(store, provider, testLogger())

	state := r.Resolve(ctx)
	require.True(t, state.LoggedIn)
	assert.Equal(t, auth.SourceLocal, state.Credential.Source)
	// Priority order: a local credential short-circuits the provider query
	assert.Equal(t, 0, provider.sessionHits)
}

func TestResolve_FederatedSessionSynthesizesCredential(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	provider := newFakeProvider()
	provider.session = &ProviderSession{AccessToken: "a.b.c", Username: "fran@example.com"}

	r := NewResolver(store, provider, testLogger())
	state := r.Resolve(ctx)

	require.True(t, state.LoggedIn)
	assert.Equal(t, auth.SourceFederated, state.Credential.Source)

	// Side effect: the synthesized credential is persisted
	cred, err := store.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "a.b.c", cred.Token)
	assert.Equal(t, auth.SourceFederated, cred.Source)
}

func TestResolve_ProviderFailureIsLoggedOut(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	provider := newFakeProvider()
	provider.sessionErr = errors.New("provider unreachable")

	r := NewResolver(store, provider, testLogger())
	state := r.Resolve(ctx)

	assert.False(t, state.LoggedIn)
}

func TestResolve_NoProvider(t *testing.T) {
	r := NewResolver(credstore.NewMemoryStore(), nil, testLogger())
	assert.False(t, r.Resolve(context.Background()).LoggedIn)
}

func TestBind_SignedInPersistsAndFlipsState(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	provider := newFakeProvider()
	r := NewResolver(store, provider, testLogger())

	unsubscribe := r.Bind(ctx)
	defer unsubscribe()

	provider.Publish(Event{Type: EventSignedIn, AccessToken: "x.y.z", Username: "fran"})

	// The write is applied before Publish returns; the very next read sees it
	state := r.Resolve(ctx)
	require.True(t, state.LoggedIn)
	assert.Equal(t, "x.y.z", state.Credential.Token)
}

func TestBind_SignedInWithoutTokenIgnored(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	provider := newFakeProvider()
	r := NewResolver(store, provider, testLogger())

	unsubscribe := r.Bind(ctx)
	defer unsubscribe()

	provider.Publish(Event{Type: EventSignedIn})

	cred, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestBind_SignedOutKeepsLocalCredential(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, auth.Credential{Token: "opaque", Source: auth.SourceLocal}))

	provider := newFakeProvider()
	r := NewResolver(store, provider, testLogger())
	unsubscribe := r.Bind(ctx)
	defer unsubscribe()

	// Local and federated credentials are independent: a federated sign-out
	// must not log out a locally authenticated user.
	provider.Publish(Event{Type: EventSignedOut})

	cred, err := store.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "opaque", cred.Token)
}

func TestBind_SignedOutClearsFederatedCredential(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, auth.Credential{Token: "a.b.c", Source: auth.SourceFederated}))

	provider := newFakeProvider()
	r := NewResolver(store, provider, testLogger())
	unsubscribe := r.Bind(ctx)
	defer unsubscribe()

	provider.Publish(Event{Type: EventSignedOut})

	cred, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred)
	assert.False(t, r.Resolve(ctx).LoggedIn)
}

func TestBind_UnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	provider := newFakeProvider()
	r := NewResolver(store, provider, testLogger())

	unsubscribe := r.Bind(ctx)
	unsubscribe()
	// Releasing twice is a no-op
	unsubscribe()

	provider.Publish(Event{Type: EventSignedIn, AccessToken: "x.y.z"})

	cred, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred)
}
