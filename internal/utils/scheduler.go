package utils

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending scheduled call. Stop reports whether the call was
// prevented from running.
type Timer interface {
	Stop() bool
}

// Scheduler runs a function once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler fires scheduled functions only when Advance moves its
// virtual time past their deadline. Functions run on the goroutine calling
// Advance.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	nextSeq int
	pending []*manualTimer
}

type manualTimer struct {
	scheduler *ManualScheduler
	deadline  time.Duration
	seq       int
	f         func()
	stopped   bool
	fired     bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	t := &manualTimer{scheduler: s, deadline: s.now + d, seq: s.nextSeq, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves virtual time forward and runs every timer that became due,
// in deadline order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	remaining := s.pending[:0]
	for _, t := range s.pending {
		if t.stopped {
			continue
		}
		if t.deadline <= s.now {
			t.fired = true
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	s.pending = remaining
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].deadline == due[j].deadline {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline < due[j].deadline
	})
	for _, t := range due {
		t.f()
	}
}

// Pending returns the number of timers that are neither stopped nor fired.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.pending {
		if !t.stopped {
			count++
		}
	}
	return count
}

func (t *manualTimer) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
