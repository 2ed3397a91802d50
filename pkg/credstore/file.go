package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/franfreezy/abdata/pkg/auth"
)

// FileStore persists the credential as a JSON file under the user's config
// directory. Used by the CLI, where the token must survive between
// invocations the way browser storage survives reloads.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultCredentialsPath returns the conventional CLI credentials location,
// e.g. ~/.config/abdata/credentials.json.
func DefaultCredentialsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "abdata", "credentials.json"), nil
}

// Set writes the credential to disk, replacing any previous one
func (s *FileStore) Set(_ context.Context, cred auth.Credential) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials dir: %w", err)
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	// 0600: the token is a secret
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// Get reads the credential from disk, or (nil, nil) when the file is absent
func (s *FileStore) Get(_ context.Context) (*auth.Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var cred auth.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if cred.Token == "" {
		return nil, nil
	}
	if cred.Source == "" {
		// Files written by older CLI versions carry only the token
		cred.Source = auth.InferSource(cred.Token)
	}
	return &cred, nil
}

// Clear deletes the credentials file; a missing file is not an error
func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}
