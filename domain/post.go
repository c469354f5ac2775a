package domain

import "time"

// Post represents a single feed entry. Comments reuse the same shape with
// ParentID set to the post they belong to, mirroring how both render in the
// client and how both participate in like/view interactions.
type Post struct {
	ID         string
	ParentID   string // Empty for top-level posts, post ID for comments
	AccountID  string
	Author     string // Display name
	Username   string
	Content    string // Plain text, sanitized for terminal display
	CreatedAt  time.Time
	LikesCount int
	ViewsCount int
	Liked      bool // True if the current actor has liked this entry
	Comments   int  // Number of comments (posts only)
	IsOwn      bool // True if this entry belongs to the authenticated user
}

// Subject returns the interaction subject for this entry.
func (p Post) Subject() Subject {
	if p.ParentID != "" {
		return Subject{ID: p.ID, Kind: KindComment}
	}
	return Subject{ID: p.ID, Kind: KindPost}
}
