package feed

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleKeyMsg(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.showDetail {
		return m.handleDetailKey(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Refresh):
		m.loading = true
		m.loadingMore = false
		m.hasMoreFeed = true
		m.oldestFeedID = ""
		m.notice = ""
		m.feedReqSeq++
		return m, m.fetchPosts(m.feedReqSeq)

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureFeedCursorVisible()
		m.syncDwellVisibility()
		return m, nil

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
		m.ensureFeedCursorVisible()
		m.syncDwellVisibility()
		return m, m.maybeStartFeedPrefetch()

	case key.Matches(keyMsg, m.keys.Home):
		m.cursor = 0
		m.startIndex = 0
		m.scrollLine = 0
		m.syncDwellVisibility()
		return m, nil

	case key.Matches(keyMsg, m.keys.Like):
		if p, ok := m.SelectedPost(); ok {
			m.toggleLike(p)
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Comment):
		if p, ok := m.SelectedPost(); ok {
			return m, func() tea.Msg { return ComposeCommentMsg{Post: p} }
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.LoadMore):
		if len(m.posts) == 0 {
			return m, nil
		}
		if m.loading || m.loadingMore {
			m.notice = "Loading older posts..."
			return m, nil
		}
		if !m.hasMoreFeed || m.oldestFeedID == "" {
			m.notice = "No older posts left."
			return m, nil
		}
		m.loadingMore = true
		m.feedReqSeq++
		return m, m.fetchOlderPosts(m.feedReqSeq)

	case keyMsg.String() == "enter":
		if p, ok := m.SelectedPost(); ok {
			return m, m.openDetail(p)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.String() == "esc" || key.Matches(msg, m.keys.Quit):
		m.closeDetail()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.detailCursor > 0 {
			m.detailCursor--
		}
		m.ensureDetailCursorVisible()
		m.syncDwellVisibility()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.detailCursor < len(m.comments) {
			m.detailCursor++
		}
		m.ensureDetailCursorVisible()
		m.syncDwellVisibility()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.detailCursor = 0
		m.detailStart = 0
		m.syncDwellVisibility()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.comments = nil
		m.loadingComments = true
		m.commentsErr = nil
		m.detailCursor = 0
		m.detailStart = 0
		return m, m.fetchComments(m.detailPostID)

	case key.Matches(msg, m.keys.Like):
		if p, ok := m.SelectedPost(); ok {
			m.toggleLike(p)
		}
		return m, nil

	case key.Matches(msg, m.keys.Comment):
		// Comments always target the focused post, not a selected comment.
		if p, ok := m.detailPost(); ok {
			return m, func() tea.Msg { return ComposeCommentMsg{Post: p} }
		}
		return m, nil
	}

	return m, nil
}

// maybeStartFeedPrefetch kicks off an older-page fetch when the cursor moves
// within a few entries of the feed's end.
func (m *Model) maybeStartFeedPrefetch() tea.Cmd {
	if m.loading || m.loadingMore || len(m.posts) == 0 {
		return nil
	}
	if !m.hasMoreFeed || m.oldestFeedID == "" {
		return nil
	}
	if m.cursor < len(m.posts)-prefetchTrigger {
		return nil
	}
	m.loadingMore = true
	m.feedReqSeq++
	return m.fetchOlderPosts(m.feedReqSeq)
}
