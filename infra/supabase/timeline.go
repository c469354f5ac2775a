package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"pulsefeed/app"
	"pulsefeed/domain"
)

const postSelect = "id,content,created_at,likes_count,views_count,comments_count," +
	"author:profiles(id,username,display_name)"

const commentSelect = "id,post_id,content,created_at,likes_count,views_count," +
	"author:profiles(id,username,display_name)"

// timelineService implements app.TimelineService on the posts and comments
// tables. Rows come back with their authors embedded; the "liked by me" flag
// needs a second query against the like tables, skipped for anonymous
// sessions.
type timelineService struct {
	client   *Client
	identity app.IdentityService
}

// NewTimelineService creates a TimelineService backed by the REST API.
func NewTimelineService(client *Client, identity app.IdentityService) *timelineService {
	return &timelineService{client: client, identity: identity}
}

// row is the shape shared by post and comment responses.
type row struct {
	ID            string    `json:"id"`
	PostID        string    `json:"post_id"` // Comments only
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	LikesCount    int       `json:"likes_count"`
	ViewsCount    int       `json:"views_count"`
	CommentsCount int       `json:"comments_count"`
	Author        struct {
		ID          string `json:"id"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

func (s *timelineService) FetchFeed(ctx context.Context, limit int) ([]domain.Post, error) {
	return s.FetchFeedPage(ctx, limit, "")
}

func (s *timelineService) FetchFeedPage(ctx context.Context, limit int, beforeID string) ([]domain.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	path := fmt.Sprintf("/rest/v1/posts?select=%s&order=id.desc&limit=%d",
		url.QueryEscape(postSelect), limit)
	if strings.TrimSpace(beforeID) != "" {
		path += "&id=lt." + url.QueryEscape(beforeID)
	}

	data, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	var rows []row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	return s.mapRows(ctx, rows, domain.KindPost)
}

func (s *timelineService) FetchComments(ctx context.Context, postID string) ([]domain.Post, error) {
	path := fmt.Sprintf("/rest/v1/comments?select=%s&post_id=eq.%s&order=created_at.asc",
		url.QueryEscape(commentSelect), url.QueryEscape(postID))

	data, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}

	var rows []row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing comments: %w", err)
	}

	return s.mapRows(ctx, rows, domain.KindComment)
}

func (s *timelineService) mapRows(ctx context.Context, rows []row, kind domain.SubjectKind) ([]domain.Post, error) {
	actorID := s.currentActorID(ctx)
	liked, err := s.likedByActor(ctx, rows, kind, actorID)
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(rows))
	for _, r := range rows {
		author := sanitizeForTerminal(r.Author.DisplayName)
		if author == "" {
			author = sanitizeForTerminal(r.Author.Username)
		}
		posts = append(posts, domain.Post{
			ID:         r.ID,
			ParentID:   r.PostID,
			AccountID:  r.Author.ID,
			Author:     author,
			Username:   sanitizeForTerminal(r.Author.Username),
			Content:    sanitizeForTerminal(r.Content),
			CreatedAt:  r.CreatedAt,
			LikesCount: r.LikesCount,
			ViewsCount: r.ViewsCount,
			Liked:      liked[r.ID],
			Comments:   r.CommentsCount,
			IsOwn:      actorID != "" && r.Author.ID == actorID,
		})
	}
	return posts, nil
}

// currentActorID resolves the signed-in actor, or "" for anonymous sessions.
func (s *timelineService) currentActorID(ctx context.Context) string {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return ""
	}
	return actor.ID
}

// likedByActor returns the set of row IDs the actor has liked.
func (s *timelineService) likedByActor(ctx context.Context, rows []row, kind domain.SubjectKind, actorID string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if actorID == "" || len(rows) == 0 {
		return liked, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	col := subjectColumn(kind)
	path := fmt.Sprintf("/rest/v1/%s?select=%s&user_id=eq.%s&%s=in.(%s)",
		likeTable(kind), col, url.QueryEscape(actorID), col,
		url.QueryEscape(strings.Join(ids, ",")))

	data, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching likes: %w", err)
	}

	var refs []map[string]string
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("parsing likes: %w", err)
	}
	for _, ref := range refs {
		liked[ref[col]] = true
	}
	return liked, nil
}

// sanitizeForTerminal strips ANSI escape sequences and control characters
// from server-supplied text. Good enough for terminal display; not a
// security boundary.
func sanitizeForTerminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
