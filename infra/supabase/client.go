package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pulsefeed/domain"
	"pulsefeed/infra/auth"
)

// Client is a thin HTTP wrapper for a PostgREST-style backend.
// It handles base URL construction, API key and bearer token injection,
// and maps response statuses onto the domain error taxonomy.
type Client struct {
	baseURL       string
	anonKey       string
	tokenProvider auth.TokenProvider
	http          *http.Client
}

// NewClient creates a backend API client.
func NewClient(baseURL, anonKey string, tp auth.TokenProvider) *Client {
	return &Client{
		baseURL:       baseURL,
		anonKey:       anonKey,
		tokenProvider: tp,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

// Get performs an authenticated GET request.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs an authenticated POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Delete performs an authenticated DELETE request.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	token, err := c.tokenProvider.AccessToken()
	if err != nil {
		if !errors.Is(err, auth.ErrNoToken) {
			return nil, fmt.Errorf("auth: %w", err)
		}
		// No session: fall back to the anon key for read-only access.
		token = c.anonKey
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", path, domain.ErrNetwork)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", domain.ErrNetwork)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(method, path, resp.StatusCode, data)
	}

	return data, nil
}

// statusError maps HTTP failures onto the domain error taxonomy so callers
// can branch with errors.Is instead of inspecting status codes.
func statusError(method, path string, status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("API %s %s returned %d: %w", method, path, status, domain.ErrUnauthenticated)
	case status >= 400 && status < 500:
		return fmt.Errorf("API %s %s returned %d (%s): %w",
			method, path, status, truncate(string(body), 120), domain.ErrRemoteRejected)
	default:
		return fmt.Errorf("API %s %s returned %d: %w", method, path, status, domain.ErrNetwork)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
