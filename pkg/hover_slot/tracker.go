package hover_slot

import (
	"sync"
	"time"

	"github.com/teamcal/teamcal/internal/utils"
)

const DefaultDelay = 200 * time.Millisecond

// Tracker debounces hover slots: a slot is committed only after the pointer
// stayed in it for the delay. Moving to another slot or leaving the cell
// cancels the pending commit.
type Tracker struct {
	mu        sync.Mutex
	scheduler utils.Scheduler
	delay     time.Duration
	onCommit  func(Slot)

	current    *Slot
	committed  bool
	pending    utils.Timer
	generation int
}

func NewTracker(scheduler utils.Scheduler, delay time.Duration, onCommit func(Slot)) *Tracker {
	return &Tracker{scheduler: scheduler, delay: delay, onCommit: onCommit}
}

// Move reports the slot under the pointer, ok is false when there is none.
func (t *Tracker) Move(slot Slot, ok bool) {
	if !ok {
		t.Leave()
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil && t.current.Same(slot) {
		return
	}
	t.cancelLocked()
	t.current = &slot
	t.committed = false
	t.generation++
	generation := t.generation
	t.pending = t.scheduler.AfterFunc(t.delay, func() { t.commit(generation) })
}

func (t *Tracker) Leave() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.current = nil
	t.committed = false
	t.generation++
}

// Current returns the hovered slot and whether its commit delay has passed.
func (t *Tracker) Current() (slot Slot, hovered bool, committed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Slot{}, false, false
	}
	return *t.current, true, t.committed
}

func (t *Tracker) commit(generation int) {
	t.mu.Lock()
	if generation != t.generation || t.current == nil {
		t.mu.Unlock()
		return
	}
	t.committed = true
	t.pending = nil
	slot := *t.current
	onCommit := t.onCommit
	t.mu.Unlock()

	if onCommit != nil {
		onCommit(slot)
	}
}

func (t *Tracker) cancelLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}
