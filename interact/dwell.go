package interact

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// dwellState is the tracker's position in Idle -> Armed -> Counted.
type dwellState int

const (
	dwellIdle dwellState = iota
	dwellArmed
	dwellCounted
)

// dwellTracker counts a view once the subject has stayed visible for a full
// dwell interval. Losing visibility before the interval elapses cancels the
// timer; a later re-entry restarts the dwell from zero. Counted is terminal
// for the mount unless the record callback reports failure, in which case
// the cycle may re-arm on the next visibility transition.
type dwellTracker struct {
	mu     sync.Mutex
	state  dwellState
	timer  clockwork.Timer
	clock  clockwork.Clock
	dwell  time.Duration
	record func()
}

func newDwellTracker(clock clockwork.Clock, dwell time.Duration, record func()) *dwellTracker {
	return &dwellTracker{
		clock:  clock,
		dwell:  dwell,
		record: record,
	}
}

func (t *dwellTracker) setVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.state == dwellCounted:
		return
	case visible && t.state == dwellIdle:
		t.state = dwellArmed
		t.timer = t.clock.AfterFunc(t.dwell, t.fire)
	case !visible && t.state == dwellArmed:
		t.timer.Stop()
		t.timer = nil
		t.state = dwellIdle
	}
}

func (t *dwellTracker) fire() {
	t.mu.Lock()
	if t.state != dwellArmed {
		t.mu.Unlock()
		return
	}
	t.state = dwellCounted
	t.timer = nil
	t.mu.Unlock()

	t.record()
}

// reset reopens a counted tracker so the next visibility entry re-arms the
// dwell. Called when the view increment fails.
func (t *dwellTracker) reset() {
	t.mu.Lock()
	if t.state == dwellCounted {
		t.state = dwellIdle
	}
	t.mu.Unlock()
}

func (t *dwellTracker) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.state == dwellArmed {
		t.state = dwellIdle
	}
}
