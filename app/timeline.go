package app

import (
	"context"

	"pulsefeed/domain"
)

// TimelineService fetches posts and comments from the social backend.
type TimelineService interface {
	// FetchFeed returns the newest posts, newest first.
	FetchFeed(ctx context.Context, limit int) ([]domain.Post, error)

	// FetchFeedPage returns posts older than beforeID, newest first.
	FetchFeedPage(ctx context.Context, limit int, beforeID string) ([]domain.Post, error)

	// FetchComments returns the comments of a post, oldest first.
	FetchComments(ctx context.Context, postID string) ([]domain.Post, error)
}
