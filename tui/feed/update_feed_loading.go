package feed

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleFeedLoadingMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PostsLoadedMsg:
		if msg.ReqSeq != m.feedReqSeq {
			return m, nil
		}
		prev := m.posts
		m.posts = msg.Posts
		m.loading = false
		m.loadingMore = false
		m.err = nil
		m.notice = ""
		m.oldestFeedID = m.lastFeedID()
		m.hasMoreFeed = len(msg.Posts) == m.limit
		if m.cursor >= len(m.posts) {
			m.cursor = 0
		}
		m.rebindFeed(prev)
		m.ensureFeedCursorVisible()
		m.syncDwellVisibility()
		return m, nil

	case PostsErrorMsg:
		if msg.ReqSeq != m.feedReqSeq {
			return m, nil
		}
		m.loading = false
		m.loadingMore = false
		m.err = msg.Err
		return m, nil

	case PostsPageLoadedMsg:
		if msg.ReqSeq != m.feedReqSeq {
			return m, nil
		}
		m.loadingMore = false
		m.err = nil
		if len(msg.Posts) == 0 {
			m.hasMoreFeed = false
			if len(m.posts) > 0 {
				m.notice = "No older posts left."
			}
			return m, nil
		}
		existing := make(map[string]struct{}, len(m.posts))
		for _, p := range m.posts {
			existing[p.ID] = struct{}{}
		}
		added := 0
		for _, p := range msg.Posts {
			if _, ok := existing[p.ID]; ok {
				continue
			}
			m.posts = append(m.posts, p)
			m.interactions.Bind(p.Subject(), interactionState(p))
			added++
		}
		m.oldestFeedID = m.lastFeedID()
		m.hasMoreFeed = len(msg.Posts) == m.limit && added > 0
		if added == 0 && len(m.posts) > 0 {
			m.hasMoreFeed = false
			m.notice = "No older posts left."
		} else if m.hasMoreFeed {
			m.notice = ""
		}
		m.syncDwellVisibility()
		return m, nil

	case PostsPageErrorMsg:
		if msg.ReqSeq != m.feedReqSeq {
			return m, nil
		}
		m.loadingMore = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}
