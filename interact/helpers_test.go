package interact_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"pulsefeed/domain"
	"pulsefeed/interact"
)

// fakeBackend records remote mutations in call order and lets tests inject
// failures or block a call to simulate an in-flight reconciliation.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	actor       domain.Actor
	identityErr error
	insertErr   error
	deleteErr   error
	incLikeErr  error
	decLikeErr  error
	incViewErr  error

	insertEntered chan struct{} // Closed when InsertLike is first reached
	insertRelease chan struct{} // InsertLike blocks until closed, if non-nil
	enterOnce     sync.Once
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{actor: domain.Actor{ID: "actor-1", Username: "me"}}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) count(call string) int {
	n := 0
	for _, c := range f.callLog() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) CurrentActor(context.Context) (domain.Actor, error) {
	if f.identityErr != nil {
		return domain.Actor{}, f.identityErr
	}
	return f.actor, nil
}

func (f *fakeBackend) InsertLike(_ context.Context, s domain.Subject, _ string) error {
	if f.insertEntered != nil {
		f.enterOnce.Do(func() { close(f.insertEntered) })
	}
	if f.insertRelease != nil {
		<-f.insertRelease
	}
	if f.insertErr != nil {
		return f.insertErr
	}
	f.record("insert:" + s.ID)
	return nil
}

func (f *fakeBackend) DeleteLike(_ context.Context, s domain.Subject, _ string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.record("delete:" + s.ID)
	return nil
}

func (f *fakeBackend) IncrementLikeCount(_ context.Context, s domain.Subject) error {
	if f.incLikeErr != nil {
		return f.incLikeErr
	}
	f.record("inc-like:" + s.ID)
	return nil
}

func (f *fakeBackend) DecrementLikeCount(_ context.Context, s domain.Subject) error {
	if f.decLikeErr != nil {
		return f.decLikeErr
	}
	f.record("dec-like:" + s.ID)
	return nil
}

func (f *fakeBackend) IncrementViewCount(_ context.Context, s domain.Subject) error {
	if f.incViewErr != nil {
		return f.incViewErr
	}
	f.record("inc-view:" + s.ID)
	return nil
}

func newTestRegistry(f *fakeBackend) (*interact.Registry, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	deps := interact.Deps{Identity: f, Likes: f, Counters: f}
	return interact.NewRegistry(deps, clock), clock
}

func waitEvent(t *testing.T, ch <-chan interact.Event) interact.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for interaction event")
		return interact.Event{}
	}
}

func requireNoEvent(t *testing.T, ch <-chan interact.Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected interaction event: %#v", ev)
	default:
	}
}

func postSubject(id string) domain.Subject {
	return domain.Subject{ID: id, Kind: domain.KindPost}
}

func requireState(t *testing.T, want interact.State, got interact.State, msgAndArgs ...interface{}) {
	t.Helper()
	require.Equal(t, want, got, msgAndArgs...)
}
