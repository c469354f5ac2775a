package feed

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"pulsefeed/domain"
	"pulsefeed/interact"
)

// interactionState derives a coordinator's initial state from a feed entry.
func interactionState(p domain.Post) interact.State {
	return interact.State{
		Liked:     p.Liked,
		LikeCount: p.LikesCount,
		ViewCount: p.ViewsCount,
	}
}

// rebindFeed (re)binds every feed entry to its coordinator. Entries from the
// previous feed slice that dropped out are released so their timers die with
// them; surviving entries adopt the fresh server state unless a mutation is
// pending.
func (m *Model) rebindFeed(prev []domain.Post) {
	keep := make(map[string]bool, len(m.posts)+len(m.comments))
	for _, p := range m.posts {
		keep[p.ID] = true
	}
	for _, c := range m.comments {
		keep[c.Post.ID] = true
	}
	for _, p := range prev {
		if !keep[p.ID] {
			m.interactions.Release(p.ID)
		}
	}
	for _, p := range m.posts {
		m.interactions.Bind(p.Subject(), interactionState(p))
	}
}

// bindComments binds the loaded comments of the open detail view.
func (m *Model) bindComments() {
	for _, c := range m.comments {
		m.interactions.Bind(c.Post.Subject(), interactionState(c.Post))
	}
}

// releaseComments unbinds comment coordinators when the detail view closes.
// The parent post stays bound; it is still mounted in the feed.
func (m *Model) releaseComments() {
	for _, c := range m.comments {
		m.interactions.Release(c.Post.ID)
	}
}

// toggleLike routes a like keypress to the subject's coordinator. The
// optimistic flip comes back asynchronously as an InteractionMsg.
func (m *Model) toggleLike(p domain.Post) {
	c, ok := m.interactions.Lookup(p.ID)
	if !ok {
		c = m.interactions.Bind(p.Subject(), interactionState(p))
	}
	c.ToggleLike()
}

func (m Model) handleInteractionMsg(msg tea.Msg) (Model, tea.Cmd) {
	ev, ok := msg.(InteractionMsg)
	if !ok {
		return m, nil
	}
	m.applyInteraction(ev.Event)
	// Re-arm the pump for the next event.
	return m, m.waitForInteraction()
}

// applyInteraction folds a coordinator snapshot back into the rendered
// entries. Failed toggles surface as a transient notice; view recording
// failures stay silent.
func (m *Model) applyInteraction(ev interact.Event) {
	id := ev.Subject.ID
	for i := range m.posts {
		if m.posts[i].ID == id {
			m.posts[i].Liked = ev.State.Liked
			m.posts[i].LikesCount = ev.State.LikeCount
			m.posts[i].ViewsCount = ev.State.ViewCount
		}
	}
	for i := range m.comments {
		if m.comments[i].Post.ID == id {
			m.comments[i].Post.Liked = ev.State.Liked
			m.comments[i].Post.LikesCount = ev.State.LikeCount
			m.comments[i].Post.ViewsCount = ev.State.ViewCount
		}
	}

	if ev.Kind == interact.EventToggleFailed {
		if errors.Is(ev.Err, domain.ErrUnauthenticated) {
			m.notice = "Sign in to like posts."
		} else {
			m.notice = "Like failed. Change reverted."
		}
	}
}

// syncDwellVisibility recomputes which subjects count as visible and pushes
// the verdicts into the dwell trackers. An entry counts as visible when at
// least half of its rendered card sits inside the viewport.
func (m *Model) syncDwellVisibility() {
	visible := make(map[string]bool)

	if m.showDetail {
		// The focused post heads the detail view and is always on screen.
		visible[m.detailPostID] = true
		for _, idx := range m.visibleCommentIndices() {
			visible[m.comments[idx].Post.ID] = true
		}
		m.interactions.SyncVisibility(visible)
		return
	}

	spans := m.feedSpans()
	if len(spans) == 0 {
		m.interactions.SyncVisibility(visible)
		return
	}
	viewTop := m.scrollLine
	viewBottom := viewTop + m.feedViewportHeight() - 1
	for _, sp := range spans {
		if spanVisibleFraction(sp.top, sp.bottom, viewTop, viewBottom) >= 0.5 {
			visible[m.posts[sp.idx].ID] = true
		}
	}
	m.interactions.SyncVisibility(visible)
}

// spanVisibleFraction returns how much of the line span [top, bottom] falls
// inside the viewport [viewTop, viewBottom].
func spanVisibleFraction(top, bottom, viewTop, viewBottom int) float64 {
	if bottom < top || viewBottom < viewTop {
		return 0
	}
	lo := max(top, viewTop)
	hi := min(bottom, viewBottom)
	if hi < lo {
		return 0
	}
	return float64(hi-lo+1) / float64(bottom-top+1)
}
