package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"pulsefeed/domain"
)

// identityService implements app.IdentityService against the auth endpoint.
type identityService struct {
	client *Client

	mu     sync.Mutex
	cached domain.Actor // Identity is stable for the session lifetime.
}

// NewIdentityService creates an IdentityService backed by the auth API.
func NewIdentityService(client *Client) *identityService {
	return &identityService{client: client}
}

func (s *identityService) CurrentActor(ctx context.Context) (domain.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached.ID != "" {
		return s.cached, nil
	}

	data, err := s.client.Get(ctx, "/auth/v1/user")
	if err != nil {
		return domain.Actor{}, fmt.Errorf("fetching identity: %w", err)
	}

	var user struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Metadata struct {
			Username string `json:"username"`
		} `json:"user_metadata"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.Actor{}, fmt.Errorf("parsing identity: %w", err)
	}
	if user.ID == "" {
		return domain.Actor{}, domain.ErrUnauthenticated
	}

	username := user.Metadata.Username
	if username == "" {
		username, _, _ = strings.Cut(user.Email, "@")
	}

	s.cached = domain.Actor{ID: user.ID, Username: sanitizeForTerminal(username)}
	return s.cached, nil
}
