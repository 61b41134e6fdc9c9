// Package credentials stores the Gemini API key in a user-private file.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/driveline/placetrack/internal/config"
)

// EnvVar overrides the stored key when set, which keeps CI and .env
// workflows out of the config dir.
const EnvVar = "GEMINI_API_KEY"

// ErrNotFound is returned when no API key has been configured.
var ErrNotFound = errors.New("credentials: api key not set")

// Store reads and writes the API key file.
type Store struct {
	Path string
}

// DefaultStore points at the key file in the user config dir.
func DefaultStore() Store {
	return Store{Path: filepath.Join(config.DataDir(), "gemini_api_key")}
}

// Get returns the API key, preferring the environment variable over the
// key file.
func (s Store) Get() (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvVar)); key != "" {
		return key, nil
	}
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credentials: read key file: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrNotFound
	}
	return key, nil
}

// Save writes the API key with owner-only permissions.
func (s Store) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("credentials: key is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("credentials: create config dir: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("credentials: write key file: %w", err)
	}
	return nil
}

// Clear removes the stored key. Clearing an absent key is not an error.
func (s Store) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credentials: remove key file: %w", err)
	}
	return nil
}
