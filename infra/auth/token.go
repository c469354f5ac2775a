package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoToken indicates no session token is available. Callers fall back to
// anonymous (read-only) access; interactions then fail with an
// unauthenticated error from the backend.
var ErrNoToken = errors.New("no session token")

// TokenProvider supplies the session access token for API authentication.
type TokenProvider interface {
	AccessToken() (string, error)
}

// FileTokenProvider reads a session token from a file on disk. The file is
// re-read on every call so a token refreshed out-of-band is picked up
// without restarting the client.
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider creates a TokenProvider reading from the given path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// AccessToken returns the token, trimmed. A missing or empty file yields
// ErrNoToken rather than a hard failure.
func (f *FileTokenProvider) AccessToken() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
