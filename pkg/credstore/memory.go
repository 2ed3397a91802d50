package credstore

import (
	"context"
	"sync"

	"github.com/franfreezy/abdata/pkg/auth"
)

// MemoryStore keeps the credential in process memory. It backs each browser
// session when no Redis is configured and doubles as the test fake.
type MemoryStore struct {
	mu   sync.RWMutex
	cred *auth.Credential
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Set stores the credential, discarding any previous one
func (s *MemoryStore) Set(_ context.Context, cred auth.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cred
	s.cred = &c
	return nil
}

// Get returns the stored credential, or (nil, nil) when empty
func (s *MemoryStore) Get(_ context.Context) (*auth.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, nil
	}
	c := *s.cred
	return &c, nil
}

// Clear removes the stored credential
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}
