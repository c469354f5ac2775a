package interact

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"pulsefeed/app"
	"pulsefeed/domain"
)

const (
	// DebounceWindow is how long a like toggle is held back so that a rapid
	// second tap cancels it instead of firing a contradictory mutation.
	DebounceWindow = 400 * time.Millisecond

	// DwellDuration is how long a subject must stay visible before a view
	// is recorded.
	DwellDuration = 10 * time.Second
)

// Deps are the remote collaborators a coordinator reconciles against.
type Deps struct {
	Identity app.IdentityService
	Likes    app.LikeStore
	Counters app.CounterStore
}

// Coordinator owns the interaction state of a single rendered subject. It
// debounces like toggles, applies optimistic mutations, reconciles them
// against the backend, and tracks view dwell. All remote work happens off
// the caller's goroutine; results arrive as Events on the registry channel.
type Coordinator struct {
	subject domain.Subject
	deps    Deps
	clock   clockwork.Clock
	events  chan<- Event

	mu        sync.Mutex
	state     State
	pending   clockwork.Timer // Outstanding debounce timer, nil if none
	inFlight  bool            // A reconciliation is on the wire
	prevLiked bool            // Pre-toggle snapshot for cancel/rollback
	prevCount int

	dwell *dwellTracker
}

func newCoordinator(subject domain.Subject, initial State, deps Deps, clock clockwork.Clock, events chan<- Event) *Coordinator {
	c := &Coordinator{
		subject: subject,
		deps:    deps,
		clock:   clock,
		events:  events,
		state:   initial,
	}
	c.dwell = newDwellTracker(clock, DwellDuration, c.recordView)
	return c
}

// Subject returns the subject this coordinator owns.
func (c *Coordinator) Subject() domain.Subject {
	return c.subject
}

// State returns a snapshot of the current local state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ToggleLike flips the like state optimistically and schedules the remote
// reconciliation after the debounce window. A second call while the window
// is open cancels the first: the timer stops, the optimistic flip is
// reverted, and nothing reaches the network.
func (c *Coordinator) ToggleLike() {
	c.mu.Lock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
		c.state.Liked = c.prevLiked
		c.state.LikeCount = c.prevCount
		snap := c.state
		c.mu.Unlock()
		c.publish(Event{Subject: c.subject, Kind: EventStateChanged, State: snap})
		return
	}

	c.prevLiked = c.state.Liked
	c.prevCount = c.state.LikeCount
	target := !c.state.Liked
	c.state.Liked = target
	if target {
		c.state.LikeCount++
	} else if c.state.LikeCount > 0 {
		c.state.LikeCount--
	}
	snap := c.state
	c.pending = c.clock.AfterFunc(DebounceWindow, func() {
		c.reconcile(target)
	})
	c.mu.Unlock()
	c.publish(Event{Subject: c.subject, Kind: EventStateChanged, State: snap})
}

// SetVisible feeds a visibility transition to the dwell tracker.
func (c *Coordinator) SetVisible(visible bool) {
	c.dwell.setVisible(visible)
}

// stop cancels outstanding timers. An already-dispatched reconciliation is
// never aborted; it runs to completion against a discarded coordinator.
func (c *Coordinator) stop() {
	c.mu.Lock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.mu.Unlock()
	c.dwell.stop()
}

// adoptServerState overwrites local state with fresh server-derived values,
// unless an optimistic mutation is pending or in flight. viewCounted is
// sticky for the lifetime of the mount.
func (c *Coordinator) adoptServerState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil || c.inFlight {
		return
	}
	viewCounted := c.state.ViewCounted
	c.state = s
	if viewCounted {
		c.state.ViewCounted = true
	}
}

// reconcile runs when the debounce window elapses without a cancelling
// toggle. At most one reconciliation per subject may be on the wire; a
// second attempt that finds one in flight is dropped, and its optimistic
// flip reverted so the display does not drift from what was actually sent.
func (c *Coordinator) reconcile(target bool) {
	c.mu.Lock()
	c.pending = nil
	if c.inFlight {
		c.state.Liked = c.prevLiked
		c.state.LikeCount = c.prevCount
		snap := c.state
		c.mu.Unlock()
		c.publish(Event{Subject: c.subject, Kind: EventStateChanged, State: snap})
		return
	}
	c.inFlight = true
	prevLiked := c.prevLiked
	prevCount := c.prevCount
	c.mu.Unlock()

	err := c.push(target)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.state.Liked = prevLiked
		c.state.LikeCount = prevCount
	}
	snap := c.state
	c.mu.Unlock()

	if err != nil {
		c.publish(Event{Subject: c.subject, Kind: EventToggleFailed, State: snap, Err: err})
		return
	}
	c.publish(Event{Subject: c.subject, Kind: EventStateChanged, State: snap})
}

// push performs the durable mutation: association row first, counter second.
// When the row mutation succeeds but the counter adjustment fails, the gap
// is accepted as drift; the next full refetch shows the authoritative count.
func (c *Coordinator) push(target bool) error {
	ctx := context.Background()
	actor, err := c.deps.Identity.CurrentActor(ctx)
	if err != nil {
		return err
	}
	if target {
		if err := c.deps.Likes.InsertLike(ctx, c.subject, actor.ID); err != nil {
			return err
		}
		_ = c.deps.Counters.IncrementLikeCount(ctx, c.subject)
		return nil
	}
	if err := c.deps.Likes.DeleteLike(ctx, c.subject, actor.ID); err != nil {
		return err
	}
	_ = c.deps.Counters.DecrementLikeCount(ctx, c.subject)
	return nil
}

// recordView issues the one-time view increment. The flag is set before the
// call goes out so a racing dwell elapse cannot double-fire; on failure it
// is cleared again and the tracker re-opened so the next visibility
// transition re-arms the dwell. View failures are silent: no Err reaches
// the UI.
func (c *Coordinator) recordView() {
	c.mu.Lock()
	if c.state.ViewCounted {
		c.mu.Unlock()
		return
	}
	c.state.ViewCounted = true
	c.state.ViewCount++
	snap := c.state
	c.mu.Unlock()
	c.publish(Event{Subject: c.subject, Kind: EventStateChanged, State: snap})

	if err := c.deps.Counters.IncrementViewCount(context.Background(), c.subject); err != nil {
		c.mu.Lock()
		c.state.ViewCounted = false
		c.state.ViewCount--
		snap := c.state
		c.mu.Unlock()
		c.dwell.reset()
		c.publish(Event{Subject: c.subject, Kind: EventStateChanged, State: snap})
	}
}

// publish never blocks: if the UI stops draining events, old snapshots are
// dropped in favor of keeping interaction latency flat.
func (c *Coordinator) publish(ev Event) {
	select {
	case c.events <- ev:
	default:
	}
}
