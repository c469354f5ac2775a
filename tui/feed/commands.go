package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) fetchPosts(reqSeq int) tea.Cmd {
	timeline := m.timeline
	limit := m.limit
	return func() tea.Msg {
		posts, err := timeline.FetchFeed(context.Background(), limit)
		if err != nil {
			return PostsErrorMsg{Err: err, ReqSeq: reqSeq}
		}
		return PostsLoadedMsg{Posts: posts, ReqSeq: reqSeq}
	}
}

func (m Model) fetchOlderPosts(reqSeq int) tea.Cmd {
	if m.loading || !m.hasMoreFeed || m.oldestFeedID == "" {
		return nil
	}
	timeline := m.timeline
	limit := m.limit
	beforeID := m.oldestFeedID
	return func() tea.Msg {
		posts, err := timeline.FetchFeedPage(context.Background(), limit, beforeID)
		if err != nil {
			return PostsPageErrorMsg{Err: err, ReqSeq: reqSeq}
		}
		return PostsPageLoadedMsg{Posts: posts, ReqSeq: reqSeq}
	}
}

func (m Model) fetchComments(postID string) tea.Cmd {
	timeline := m.timeline
	return func() tea.Msg {
		comments, err := timeline.FetchComments(context.Background(), postID)
		if err != nil {
			return CommentsErrorMsg{PostID: postID, Err: err}
		}
		return CommentsLoadedMsg{PostID: postID, Comments: comments}
	}
}

// waitForInteraction blocks on the registry event channel and delivers the
// next coordinator event as a message. The handler re-arms it, so exactly
// one pump is outstanding at a time.
func (m Model) waitForInteraction() tea.Cmd {
	events := m.interactions.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return InteractionMsg{Event: ev}
	}
}
