package compose

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// DoneMsg is sent when composing is complete (submit or cancel).
type DoneMsg struct {
	Content string // Empty if cancelled
	PostID  string // The post being commented on
}

// Model holds the state for the inline comment composer.
type Model struct {
	postID   string
	author   string // Username of the post being answered, for the header
	textarea textarea.Model
}

// New creates a composer for a comment on the given post.
func New(postID, author string) Model {
	ta := textarea.New()
	ta.Placeholder = "Write a comment..."
	ta.CharLimit = 500
	ta.SetWidth(72)
	ta.SetHeight(4)
	ta.Focus()

	return Model{
		postID:   postID,
		author:   author,
		textarea: ta,
	}
}

// Init starts the textarea cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{PostID: m.postID}) // Cancel.

		case "ctrl+d":
			return m, done(DoneMsg{Content: m.textarea.Value(), PostID: m.postID})
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
