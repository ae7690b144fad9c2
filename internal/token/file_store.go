package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"
)

var _ core.TokenStore = (*FileStore)(nil)

// FileStore persists the token triple as a JSON document readable only by
// the current user, so a CLI session survives between invocations.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileDocument struct {
	AccessToken  string `json:"accessToken,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath returns the per-user location of the token file.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "qr-class-manager", "tokens.json")
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the token file. A missing file yields an empty set.
func (s *FileStore) Load(ctx context.Context) (core.TokenSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.TokenSet{}, nil
	}
	if err != nil {
		return core.TokenSet{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return core.TokenSet{}, fmt.Errorf("%w: corrupt token file: %v", ErrStoreUnavailable, err)
	}

	return core.TokenSet{
		AccessToken:  doc.AccessToken,
		IDToken:      doc.IDToken,
		RefreshToken: doc.RefreshToken,
	}, nil
}

// Save replaces the file atomically (write to temp file, then rename).
func (s *FileStore) Save(ctx context.Context, set core.TokenSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(fileDocument{
		AccessToken:  set.AccessToken,
		IDToken:      set.IDToken,
		RefreshToken: set.RefreshToken,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Clear deletes the token file.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
