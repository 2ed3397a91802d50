// Package credstore persists the single credential trusted by the client.
//
// The store holds at most one credential; writing a new one discards the
// previous one without reconciliation. No expiry is tracked locally: a
// stored token is trusted until a backend call rejects it. All credential
// reads and writes in the repository go through this interface so tests can
// substitute the in-memory implementation.
package credstore

import (
	"context"

	"github.com/franfreezy/abdata/pkg/auth"
)

// Store is the durable home of the current credential. Get returns (nil, nil)
// when no credential is stored.
type Store interface {
	Set(ctx context.Context, cred auth.Credential) error
	Get(ctx context.Context) (*auth.Credential, error)
	Clear(ctx context.Context) error
}
