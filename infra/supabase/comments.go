package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"pulsefeed/domain"
)

// commentService implements app.CommentService on the comments table.
type commentService struct {
	client *Client
}

// NewCommentService creates a CommentService backed by the REST API.
func NewCommentService(client *Client) *commentService {
	return &commentService{client: client}
}

func (s *commentService) PostComment(ctx context.Context, postID string, content string) (domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Post{}, domain.ErrEmptyComment
	}

	body := map[string]string{
		"post_id": postID,
		"content": content,
	}
	data, err := s.client.Post(ctx, "/rest/v1/comments?select="+url.QueryEscape(commentSelect), body)
	if err != nil {
		return domain.Post{}, fmt.Errorf("posting comment: %w", err)
	}

	// PostgREST returns the inserted rows as an array.
	var rows []row
	if err := json.Unmarshal(data, &rows); err != nil {
		return domain.Post{}, fmt.Errorf("parsing comment response: %w", err)
	}
	if len(rows) == 0 {
		return domain.Post{}, fmt.Errorf("comment insert returned no row")
	}

	r := rows[0]
	author := sanitizeForTerminal(r.Author.DisplayName)
	if author == "" {
		author = sanitizeForTerminal(r.Author.Username)
	}
	return domain.Post{
		ID:         r.ID,
		ParentID:   r.PostID,
		AccountID:  r.Author.ID,
		Author:     author,
		Username:   sanitizeForTerminal(r.Author.Username),
		Content:    sanitizeForTerminal(r.Content),
		CreatedAt:  r.CreatedAt,
		LikesCount: r.LikesCount,
		ViewsCount: r.ViewsCount,
		IsOwn:      true,
	}, nil
}
