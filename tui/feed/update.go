package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureFeedCursorVisible()
		m.syncDwellVisibility()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch msg.(type) {
	case PostsLoadedMsg, PostsErrorMsg, PostsPageLoadedMsg, PostsPageErrorMsg:
		return m.handleFeedLoadingMsg(msg)
	case CommentsLoadedMsg, CommentsErrorMsg, AddOptimisticCommentMsg, CommentResultMsg:
		return m.handleDetailMsg(msg)
	case InteractionMsg:
		return m.handleInteractionMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}
