package supabase

import (
	"context"
	"fmt"
	"net/url"

	"pulsefeed/domain"
)

// likeService implements app.LikeStore on the post_likes and comment_likes
// tables. Both carry a unique (subject, user) constraint, so a duplicate
// insert surfaces as a conflict rather than a second row.
type likeService struct {
	client *Client
}

// NewLikeService creates a LikeStore backed by the REST API.
func NewLikeService(client *Client) *likeService {
	return &likeService{client: client}
}

func (s *likeService) InsertLike(ctx context.Context, subject domain.Subject, actorID string) error {
	body := map[string]string{
		subjectColumn(subject.Kind): subject.ID,
		"user_id":                   actorID,
	}
	if _, err := s.client.Post(ctx, "/rest/v1/"+likeTable(subject.Kind), body); err != nil {
		return fmt.Errorf("inserting %s like: %w", subject.Kind, err)
	}
	return nil
}

func (s *likeService) DeleteLike(ctx context.Context, subject domain.Subject, actorID string) error {
	path := fmt.Sprintf("/rest/v1/%s?%s=eq.%s&user_id=eq.%s",
		likeTable(subject.Kind),
		subjectColumn(subject.Kind), url.QueryEscape(subject.ID),
		url.QueryEscape(actorID))
	if _, err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting %s like: %w", subject.Kind, err)
	}
	return nil
}

// likeTable returns the association table for a subject kind.
func likeTable(kind domain.SubjectKind) string {
	return kind.String() + "_likes"
}

// subjectColumn returns the foreign key column naming the subject.
func subjectColumn(kind domain.SubjectKind) string {
	return kind.String() + "_id"
}
