package interact

import (
	"sync"

	"github.com/jonboulle/clockwork"

	"pulsefeed/domain"
)

// eventBuffer sizes the shared event channel. Events carry full snapshots,
// so dropping one under pressure only delays a repaint, never corrupts state.
const eventBuffer = 128

// Registry hands out one Coordinator per subject id, created on demand and
// discarded on release. It replaces any notion of process-wide lock sets:
// all coordination state lives in the per-subject coordinator and dies with
// the view that owns the registry.
type Registry struct {
	deps   Deps
	clock  clockwork.Clock
	events chan Event

	mu     sync.Mutex
	coords map[string]*Coordinator
}

// NewRegistry creates an empty registry publishing to a shared event channel.
func NewRegistry(deps Deps, clock clockwork.Clock) *Registry {
	return &Registry{
		deps:   deps,
		clock:  clock,
		events: make(chan Event, eventBuffer),
		coords: make(map[string]*Coordinator),
	}
}

// Events is the channel all bound coordinators publish to.
func (r *Registry) Events() <-chan Event {
	return r.events
}

// Bind returns the coordinator for subject, creating it with the given
// initial state on first sight. On rebind (a refetch of the same mounted
// subject) fresh server state is adopted unless an optimistic mutation is
// still pending.
func (r *Registry) Bind(subject domain.Subject, initial State) *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.coords[subject.ID]; ok {
		c.adoptServerState(initial)
		return c
	}
	c := newCoordinator(subject, initial, r.deps, r.clock, r.events)
	r.coords[subject.ID] = c
	return c
}

// Lookup returns the coordinator for a subject id, if bound.
func (r *Registry) Lookup(id string) (*Coordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coords[id]
	return c, ok
}

// Release unmounts one subject: timers stop, state is discarded. A remote
// call already on the wire still runs to completion.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	c, ok := r.coords[id]
	delete(r.coords, id)
	r.mu.Unlock()
	if ok {
		c.stop()
	}
}

// ReleaseAll unmounts every bound subject.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	coords := r.coords
	r.coords = make(map[string]*Coordinator)
	r.mu.Unlock()
	for _, c := range coords {
		c.stop()
	}
}

// SyncVisibility pushes the current viewport's visibility verdicts into the
// dwell trackers. Subjects absent from the map are treated as not visible.
func (r *Registry) SyncVisibility(visible map[string]bool) {
	r.mu.Lock()
	coords := make([]*Coordinator, 0, len(r.coords))
	for _, c := range r.coords {
		coords = append(coords, c)
	}
	r.mu.Unlock()
	for _, c := range coords {
		c.SetVisible(visible[c.subject.ID])
	}
}
