package feed

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pulsefeed/domain"
)

func (m Model) handleDetailMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CommentsLoadedMsg:
		if !m.showDetail || msg.PostID != m.detailPostID {
			return m, nil
		}
		// Keep pending local comments that the fetch cannot know about yet.
		var pending []CommentItem
		for _, c := range m.comments {
			if c.Status == StatusPendingCreate {
				pending = append(pending, c)
			}
		}
		m.comments = make([]CommentItem, 0, len(msg.Comments)+len(pending))
		for _, c := range msg.Comments {
			m.comments = append(m.comments, CommentItem{Post: c})
		}
		m.comments = append(m.comments, pending...)
		m.loadingComments = false
		m.commentsErr = nil
		m.bindComments()
		m.syncDwellVisibility()
		return m, nil

	case CommentsErrorMsg:
		if !m.showDetail || msg.PostID != m.detailPostID {
			return m, nil
		}
		m.loadingComments = false
		m.commentsErr = msg.Err
		return m, nil

	case AddOptimisticCommentMsg:
		if !m.showDetail || msg.PostID != m.detailPostID {
			return m, nil
		}
		m.comments = append(m.comments, CommentItem{
			Post: domain.Post{
				ID:        msg.LocalID,
				ParentID:  msg.PostID,
				Author:    "You",
				Username:  "you",
				Content:   msg.Content,
				CreatedAt: time.Now(),
				IsOwn:     true,
			},
			Status: StatusPendingCreate,
		})
		m.bumpCommentCount(msg.PostID, 1)
		m.detailCursor = len(m.comments)
		m.ensureDetailCursorVisible()
		return m, nil

	case CommentResultMsg:
		for i, c := range m.comments {
			if c.Post.ID != msg.LocalID {
				continue
			}
			if msg.Err != nil {
				c.Status = StatusFailed
				c.Err = msg.Err
				m.comments[i] = c
				m.bumpCommentCount(c.Post.ParentID, -1)
			} else {
				m.comments[i] = CommentItem{Post: msg.Comment}
				m.interactions.Bind(msg.Comment.Subject(), interactionState(msg.Comment))
			}
			break
		}
		return m, nil
	}

	return m, nil
}

// bumpCommentCount adjusts the parent post's comment counter, floored at 0.
func (m *Model) bumpCommentCount(postID string, delta int) {
	for i := range m.posts {
		if m.posts[i].ID == postID {
			m.posts[i].Comments += delta
			if m.posts[i].Comments < 0 {
				m.posts[i].Comments = 0
			}
			return
		}
	}
}

// detailPost resolves the post the detail view is focused on.
func (m Model) detailPost() (domain.Post, bool) {
	for _, p := range m.posts {
		if p.ID == m.detailPostID {
			return p, true
		}
	}
	return domain.Post{}, false
}

// openDetail switches to the detail view for the selected post.
func (m *Model) openDetail(p domain.Post) tea.Cmd {
	m.showDetail = true
	m.detailPostID = p.ID
	m.comments = nil
	m.loadingComments = true
	m.commentsErr = nil
	m.detailCursor = 0
	m.detailStart = 0
	m.syncDwellVisibility()
	return m.fetchComments(p.ID)
}

// closeDetail returns to the feed list, releasing comment coordinators.
func (m *Model) closeDetail() {
	m.releaseComments()
	m.showDetail = false
	m.detailPostID = ""
	m.comments = nil
	m.loadingComments = false
	m.commentsErr = nil
	m.detailCursor = 0
	m.detailStart = 0
	m.syncDwellVisibility()
}
