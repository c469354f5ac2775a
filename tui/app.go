package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"pulsefeed/app"
	"pulsefeed/interact"
	"pulsefeed/tui/common"
	"pulsefeed/tui/compose"
	"pulsefeed/tui/feed"
)

// statusDismissDelay is how long a transient status line stays on screen.
const statusDismissDelay = 4 * time.Second

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Timeline     app.TimelineService
	Comments     app.CommentService
	Interactions *interact.Registry
	FeedLimit    int
}

type activeView int

const (
	feedView activeView = iota
	composeView
)

// clearStatusMsg dismisses the status line set under the same sequence.
type clearStatusMsg struct {
	seq int
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps      Deps
	active    activeView
	feed      feed.Model
	compose   compose.Model
	keys      common.KeyMap
	status    string // Transient status message (e.g. "Comment posted!")
	statusSeq int
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	return App{
		deps:   deps,
		active: feedView,
		feed:   feed.New(deps.Timeline, deps.Interactions, deps.FeedLimit),
		keys:   common.DefaultKeyMap(),
	}
}

// Init delegates to the feed sub-model.
func (a App) Init() tea.Cmd {
	return a.feed.Init()
}

func (a *App) setStatus(s string) tea.Cmd {
	a.status = s
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(statusDismissDelay, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			a.deps.Interactions.ReleaseAll()
			return a, tea.Quit
		}
		if a.active == feedView && key.Matches(msg, a.keys.Quit) && !a.feed.IsInDetailView() {
			a.deps.Interactions.ReleaseAll()
			return a, tea.Quit
		}

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return a, nil

	case feed.ComposeCommentMsg:
		a.active = composeView
		a.status = ""
		a.compose = compose.New(msg.Post.ID, msg.Post.Username)
		return a, a.compose.Init()

	case compose.DoneMsg:
		a.active = feedView
		if msg.Content == "" {
			return a, a.setStatus("Cancelled.")
		}

		localID := "local-" + uuid.NewString()
		a.feed, _ = a.feed.Update(feed.AddOptimisticCommentMsg{
			LocalID: localID,
			PostID:  msg.PostID,
			Content: msg.Content,
		})
		statusCmd := a.setStatus("Posting comment...")
		postCmd := func() tea.Msg {
			comment, err := a.deps.Comments.PostComment(context.Background(), msg.PostID, msg.Content)
			return feed.CommentResultMsg{LocalID: localID, Comment: comment, Err: err}
		}
		return a, tea.Batch(postCmd, statusCmd)

	case feed.CommentResultMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		var statusCmd tea.Cmd
		if msg.Err != nil {
			statusCmd = a.setStatus("Error: " + msg.Err.Error())
		} else {
			statusCmd = a.setStatus("Comment posted!")
		}
		return a, tea.Batch(cmd, statusCmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd
	}

	switch a.active {
	case feedView:
		updated, cmd := a.feed.Update(msg)
		a.feed = updated
		return a, cmd
	case composeView:
		updated, cmd := a.compose.Update(msg)
		a.compose = updated
		return a, cmd
	}

	return a, nil
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case feedView:
		s = a.feed.View()
	case composeView:
		s = a.compose.View()
	}

	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}

	return s
}
