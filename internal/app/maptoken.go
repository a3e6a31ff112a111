package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const mapTokenFileName = "mapbox_token"

// MapTokenStore persists the map-provider token across runs in a single
// file under the application's data directory.
type MapTokenStore struct {
	path string
}

func NewMapTokenStore(dir string) *MapTokenStore {
	return &MapTokenStore{path: filepath.Join(dir, mapTokenFileName)}
}

// Load reads the persisted token. A missing file means no token and is not
// an error.
func (s *MapTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read map token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token, replacing any previous value.
func (s *MapTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write map token: %w", err)
	}
	return nil
}
