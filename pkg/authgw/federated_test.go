package authgw

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/franfreezy/abdata/pkg/credstore"
	"github.com/franfreezy/abdata/pkg/observability"
	"github.com/franfreezy/abdata/pkg/session"
)

func testFederated() *Federated {
	return &Federated{
		oauth: &oauth2.Config{
			ClientID:    "abdata-web",
			RedirectURL: "http://localhost:8080/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://idp.example.com/authorize",
				TokenURL: "https://idp.example.com/token",
			},
			Scopes: []string{"openid", "profile", "email"},
		},
		logger:   observability.NewLogger(observability.InfoLevel, nil),
		sessions: make(map[string]*fedSession),
	}
}

func TestAuthCodeURLParameters(t *testing.T) {
	f := testFederated()

	raw := f.AuthCodeURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "abdata-web", q.Get("client_id"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
}

func TestBoundSessionIsolation(t *testing.T) {
	f := testFederated()
	ctx := context.Background()

	f.sessions["sid-a"] = &fedSession{
		sess: &session.ProviderSession{AccessToken: "a.b.c", Username: "alice"},
		bus:  session.NewBroadcaster(),
	}

	a, err := f.Bound("sid-a").Session(ctx)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "alice", a.Username)

	b, err := f.Bound("sid-b").Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, b, "other sessions must not see sid-a's session")
}

func TestSignOutPublishesOnOwnBusOnly(t *testing.T) {
	f := testFederated()
	ctx := context.Background()

	for _, sid := range []string{"sid-a", "sid-b"} {
		f.sessions[sid] = &fedSession{
			sess: &session.ProviderSession{AccessToken: "a.b.c"},
			bus:  session.NewBroadcaster(),
		}
	}

	var gotA, gotB []session.EventType
	f.Bound("sid-a").Subscribe(func(ev session.Event) { gotA = append(gotA, ev.Type) })
	f.Bound("sid-b").Subscribe(func(ev session.Event) { gotB = append(gotB, ev.Type) })

	require.NoError(t, f.Bound("sid-a").SignOut(ctx))

	assert.Equal(t, []session.EventType{session.EventSignedOut}, gotA)
	assert.Empty(t, gotB, "sign-out must not leak into other sessions")

	a, err := f.Bound("sid-a").Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, a)
	b, err := f.Bound("sid-b").Session(ctx)
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestDropSessionForgetsState(t *testing.T) {
	f := testFederated()
	ctx := context.Background()

	f.sessions["sid-a"] = &fedSession{
		sess: &session.ProviderSession{AccessToken: "a.b.c", Username: "alice"},
		bus:  session.NewBroadcaster(),
	}

	f.DropSession("sid-a")

	_, held := f.sessions["sid-a"]
	assert.False(t, held, "dropped sessions must not linger")

	got, err := f.Bound("sid-a").Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// dropping a session never seen is fine
	f.DropSession("sid-z")
}

func TestSignOutUnknownSessionIsNoop(t *testing.T) {
	f := testFederated()
	require.NoError(t, f.SignOutSession(context.Background(), "never-seen"))
}

func TestResolverOverBoundProvider(t *testing.T) {
	f := testFederated()
	ctx := context.Background()
	store := credstore.NewMemoryStore()

	resolver := session.NewResolver(store, f.Bound("sid-a"), nil)
	unsubscribe := resolver.Bind(ctx)
	defer unsubscribe()

	assert.False(t, resolver.Resolve(ctx).LoggedIn)

	// simulate a completed handshake for sid-a
	f.sessions["sid-a"].sess = &session.ProviderSession{AccessToken: "h.p.s", Username: "alice"}
	f.busFor("sid-a", false).Publish(session.Event{
		Type:        session.EventSignedIn,
		AccessToken: "h.p.s",
		Username:    "alice",
	})

	state := resolver.Resolve(ctx)
	require.True(t, state.LoggedIn)
	require.NotNil(t, state.Credential)
	assert.Equal(t, "h.p.s", state.Credential.Token)

	require.NoError(t, f.Bound("sid-a").SignOut(ctx))
	assert.False(t, resolver.Resolve(ctx).LoggedIn, "sign-out must clear the federated credential")
}
