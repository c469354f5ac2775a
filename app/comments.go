package app

import (
	"context"

	"pulsefeed/domain"
)

// CommentService publishes comments on posts.
type CommentService interface {
	// PostComment publishes a new comment and returns the stored row.
	PostComment(ctx context.Context, postID string, content string) (domain.Post, error)
}
