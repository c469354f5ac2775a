package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pulsefeed/app"
	"pulsefeed/domain"
	"pulsefeed/interact"
	"pulsefeed/tui/common"
)

const prefetchTrigger = 3

// PostsLoadedMsg is sent when the feed fetch completes successfully.
type PostsLoadedMsg struct {
	Posts  []domain.Post
	ReqSeq int
}

// PostsErrorMsg is sent when the feed fetch fails.
type PostsErrorMsg struct {
	Err    error
	ReqSeq int
}

// PostsPageLoadedMsg is sent when an older feed page is loaded.
type PostsPageLoadedMsg struct {
	Posts  []domain.Post
	ReqSeq int
}

// PostsPageErrorMsg is sent when loading an older feed page fails.
type PostsPageErrorMsg struct {
	Err    error
	ReqSeq int
}

// CommentsLoadedMsg is sent when a post's comments are loaded.
type CommentsLoadedMsg struct {
	PostID   string
	Comments []domain.Post
}

// CommentsErrorMsg is sent when a comment fetch fails.
type CommentsErrorMsg struct {
	PostID string
	Err    error
}

// ComposeCommentMsg asks the root model to open the comment composer.
type ComposeCommentMsg struct {
	Post domain.Post
}

// AddOptimisticCommentMsg inserts a pending local comment into the open
// detail view while the network call is still out.
type AddOptimisticCommentMsg struct {
	LocalID string
	PostID  string
	Content string
}

// CommentResultMsg reconciles a pending local comment with the server row.
type CommentResultMsg struct {
	LocalID string
	Comment domain.Post
	Err     error
}

// InteractionMsg wraps a coordinator event pumped off the registry channel.
type InteractionMsg struct {
	Event interact.Event
}

// CommentStatus tracks the lifecycle of an optimistically added comment.
type CommentStatus int

const (
	StatusNormal CommentStatus = iota
	StatusPendingCreate
	StatusFailed
)

// CommentItem wraps a comment with its optimistic-creation status.
type CommentItem struct {
	Post   domain.Post
	Status CommentStatus
	Err    error
}

type modelServices struct {
	timeline     app.TimelineService
	interactions *interact.Registry
}

type feedState struct {
	posts        []domain.Post
	cursor       int
	limit        int
	loading      bool
	loadingMore  bool
	hasMoreFeed  bool
	oldestFeedID string
	err          error
	notice       string // Transient feed-level notice (paging, like failures)
	feedReqSeq   int
}

type uiState struct {
	keys       common.KeyMap
	spinner    spinner.Model
	width      int // Terminal width
	height     int // Terminal height
	startIndex int // First rendered card (index into visible spans)
	scrollLine int // Line-based scroll offset for the feed viewport
}

type detailState struct {
	showDetail      bool
	detailPostID    string
	comments        []CommentItem
	loadingComments bool
	commentsErr     error
	detailCursor    int // 0 for the post card, 1...n for comments
	detailStart     int // First visible comment
}

// Model holds the state for the feed (timeline) view.
type Model struct {
	modelServices
	feedState
	uiState
	detailState
}

// New creates a feed model with injected dependencies.
func New(timeline app.TimelineService, interactions *interact.Registry, limit int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#8AADF4"))
	if limit <= 0 {
		limit = 20
	}

	return Model{
		modelServices: modelServices{
			timeline:     timeline,
			interactions: interactions,
		},
		feedState: feedState{
			limit:       limit,
			loading:     true,
			hasMoreFeed: true,
		},
		uiState: uiState{
			keys:    common.DefaultKeyMap(),
			spinner: s,
		},
	}
}

// Init starts the initial feed fetch and the interaction event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchPosts(m.feedReqSeq),
		m.spinner.Tick,
		m.waitForInteraction(),
	)
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// IsInDetailView reports whether the detail view is active.
func (m Model) IsInDetailView() bool {
	return m.showDetail
}

// Posts returns the current feed entries for external access.
func (m Model) Posts() []domain.Post {
	return m.posts
}

// SelectedPost returns the currently highlighted entry, if any.
func (m Model) SelectedPost() (domain.Post, bool) {
	if m.showDetail {
		if m.detailCursor > 0 && m.detailCursor <= len(m.comments) {
			return m.comments[m.detailCursor-1].Post, true
		}
		if p, ok := m.detailPost(); ok {
			return p, true
		}
		return domain.Post{}, false
	}
	if len(m.posts) == 0 || m.cursor < 0 || m.cursor >= len(m.posts) {
		return domain.Post{}, false
	}
	return m.posts[m.cursor], true
}
