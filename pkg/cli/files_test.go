package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franfreezy/abdata/pkg/auth"
	"github.com/franfreezy/abdata/pkg/credstore"
)

func testCredential() auth.Credential {
	return auth.Credential{Token: "cli-token", Source: auth.SourceLocal, Username: "alice"}
}

// seedCredentials writes a logged-in credentials file and returns its path
func seedCredentials(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, credstore.NewFileStore(path).Set(context.Background(), testCredential()))
	return path
}

func TestRunFilesList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/files/", r.URL.Path)
		require.Equal(t, "Token cli-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "filename": "maize.csv", "status": "cleaned", "size": 1024},
		})
	}))
	defer srv.Close()

	err := runFiles([]string{"-backend", srv.URL, "-credentials", seedCredentials(t)})
	require.NoError(t, err)
}

func TestRunFilesDelete(t *testing.T) {
	deleted := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/files/7/", r.URL.Path)
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := runFiles([]string{"-backend", srv.URL, "-credentials", seedCredentials(t), "-delete", "7"})
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestRunFilesWithoutLogin(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	credPath := filepath.Join(t.TempDir(), "credentials.json")
	err := runFiles([]string{"-backend", srv.URL, "-credentials", credPath})
	require.Error(t, err)
	assert.Zero(t, hits, "without a saved token no request may reach the backend")
}

func TestRunUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload/", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()
		require.Equal(t, "harvest.csv", header.Filename)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 5, "name": "harvest.csv"})
	}))
	defer srv.Close()

	dataPath := filepath.Join(t.TempDir(), "harvest.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte("field,yield\nA,12\n"), 0o644))

	err := runUpload([]string{"-backend", srv.URL, "-credentials", seedCredentials(t), "-file", dataPath})
	require.NoError(t, err)
}

func TestRunUploadMissingFlag(t *testing.T) {
	err := runUpload([]string{"-credentials", filepath.Join(t.TempDir(), "credentials.json")})
	require.Error(t, err)
}
