package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"pulsefeed/domain"
	"pulsefeed/interact"
)

// stubTimeline returns canned pages and comments.
type stubTimeline struct {
	feed     []domain.Post
	pages    map[string][]domain.Post
	comments map[string][]domain.Post
	err      error
}

func (s *stubTimeline) FetchFeed(context.Context, int) ([]domain.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.feed, nil
}

func (s *stubTimeline) FetchFeedPage(_ context.Context, _ int, beforeID string) ([]domain.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pages[beforeID], nil
}

func (s *stubTimeline) FetchComments(_ context.Context, postID string) ([]domain.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.comments[postID], nil
}

// quietBackend satisfies the coordinator deps with always-succeeding calls.
type quietBackend struct {
	identityErr error
}

func (q *quietBackend) CurrentActor(context.Context) (domain.Actor, error) {
	if q.identityErr != nil {
		return domain.Actor{}, q.identityErr
	}
	return domain.Actor{ID: "actor-1", Username: "me"}, nil
}

func (q *quietBackend) InsertLike(context.Context, domain.Subject, string) error  { return nil }
func (q *quietBackend) DeleteLike(context.Context, domain.Subject, string) error  { return nil }
func (q *quietBackend) IncrementLikeCount(context.Context, domain.Subject) error  { return nil }
func (q *quietBackend) DecrementLikeCount(context.Context, domain.Subject) error  { return nil }
func (q *quietBackend) IncrementViewCount(context.Context, domain.Subject) error  { return nil }

func newTestRegistry() *interact.Registry {
	q := &quietBackend{}
	deps := interact.Deps{Identity: q, Likes: q, Counters: q}
	return interact.NewRegistry(deps, clockwork.NewFakeClock())
}

func newTestModel(timeline *stubTimeline, reg *interact.Registry) Model {
	m := New(timeline, reg, 3)
	m.width = 80
	m.height = 40
	return m
}

func makePost(id string, likes, views int) domain.Post {
	return domain.Post{
		ID:         id,
		Author:     "Someone",
		Username:   "someone",
		Content:    "post " + id,
		CreatedAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		LikesCount: likes,
		ViewsCount: views,
	}
}

func makeComment(id, postID string) domain.Post {
	p := makePost(id, 0, 0)
	p.ParentID = postID
	p.Content = "comment " + id
	return p
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// readEvent pops the next coordinator event or fails the test.
func readEvent(t *testing.T, reg *interact.Registry) interact.Event {
	t.Helper()
	select {
	case ev := <-reg.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for interaction event")
		return interact.Event{}
	}
}

var errBoom = errors.New("boom")

func assertBound(t *testing.T, reg *interact.Registry, id string, want bool) {
	t.Helper()
	_, ok := reg.Lookup(id)
	if ok != want {
		t.Fatalf("Lookup(%q) bound = %v, want %v", id, ok, want)
	}
}
