package session

import "context"

// EventType identifies a federated auth state change
type EventType string

const (
	EventSignedIn  EventType = "SIGNED_IN"
	EventSignedOut EventType = "SIGNED_OUT"
)

// Event is a federated auth state change delivered to subscribers
type Event struct {
	Type        EventType
	AccessToken string
	Username    string
}

// ProviderSession describes an active federated session
type ProviderSession struct {
	AccessToken string
	Username    string
}

// Provider is the federated auth provider surface consumed by the resolver:
// query the active session, end it, and subscribe to state changes. The
// unsubscribe handle returned by Subscribe must be safe to call more than
// once.
type Provider interface {
	Session(ctx context.Context) (*ProviderSession, error)
	SignOut(ctx context.Context) error
	Subscribe(fn func(Event)) (unsubscribe func())
}
