package supabase

import (
	"context"
	"fmt"

	"pulsefeed/domain"
)

// counterService implements app.CounterStore via RPC functions that adjust
// the denormalized counters server-side. Counters are separate from the
// association rows, so a counter failure after a successful row write is
// possible and left for the next full refetch to correct.
type counterService struct {
	client    *Client
	sessionID string // Dedupes view increments per client session server-side.
}

// NewCounterService creates a CounterStore backed by the RPC API.
// sessionID identifies this client run for view dedup.
func NewCounterService(client *Client, sessionID string) *counterService {
	return &counterService{client: client, sessionID: sessionID}
}

func (s *counterService) IncrementLikeCount(ctx context.Context, subject domain.Subject) error {
	return s.call(ctx, "increment", "likes", subject, nil)
}

func (s *counterService) DecrementLikeCount(ctx context.Context, subject domain.Subject) error {
	return s.call(ctx, "decrement", "likes", subject, nil)
}

func (s *counterService) IncrementViewCount(ctx context.Context, subject domain.Subject) error {
	return s.call(ctx, "increment", "views", subject, map[string]string{
		"session_id": s.sessionID,
	})
}

func (s *counterService) call(ctx context.Context, verb, counter string, subject domain.Subject, extra map[string]string) error {
	body := map[string]string{
		subjectColumn(subject.Kind): subject.ID,
	}
	for k, v := range extra {
		body[k] = v
	}

	// e.g. /rest/v1/rpc/increment_post_likes
	path := fmt.Sprintf("/rest/v1/rpc/%s_%s_%s", verb, subject.Kind, counter)
	if _, err := s.client.Post(ctx, path, body); err != nil {
		return fmt.Errorf("%sing %s %s count: %w", verb, subject.Kind, counter, err)
	}
	return nil
}
