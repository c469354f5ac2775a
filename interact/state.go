package interact

import "pulsefeed/domain"

// State is the local belief about a subject's interaction counters. It is
// owned by exactly one Coordinator and mutated only under its lock; callers
// receive value snapshots.
type State struct {
	Liked       bool
	LikeCount   int
	ViewCounted bool // True once a view was recorded for this mount
	ViewCount   int
}

// EventKind classifies coordinator events.
type EventKind int

const (
	// EventStateChanged reports a new state snapshot: an optimistic flip,
	// a cancellation revert, a settled reconciliation, or a view count.
	EventStateChanged EventKind = iota

	// EventToggleFailed reports a failed like reconciliation. State has
	// already been rolled back to the pre-toggle snapshot; Err carries the
	// cause for a transient user-visible notice.
	EventToggleFailed
)

// Event is published by coordinators whenever a subject's state changes.
type Event struct {
	Subject domain.Subject
	Kind    EventKind
	State   State
	Err     error
}
