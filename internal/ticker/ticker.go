// Package ticker implements a cooperative delay queue advanced by an
// external periodic tick. Tasks never run concurrently: callbacks due at a
// given tick fire synchronously inside Update, in the calling goroutine.
package ticker

import "time"

type task struct {
	remaining time.Duration
	interval  time.Duration // > 0 for repeating tasks
	fn        func()
	done      bool
}

// Scheduler is a minimal single-owner delay queue. It is not safe for
// concurrent use; the owner must serialize Schedule/CancelAll/Update.
type Scheduler struct {
	tasks []*task
}

func New() *Scheduler { return &Scheduler{} }

// Schedule enqueues a one-shot callback firing once delay has elapsed.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) {
	if fn == nil {
		return
	}
	s.tasks = append(s.tasks, &task{remaining: delay, fn: fn})
}

// Every enqueues a repeating callback firing each time interval elapses.
// The first fire happens after one full interval.
func (s *Scheduler) Every(interval time.Duration, fn func()) {
	if fn == nil || interval <= 0 {
		return
	}
	s.tasks = append(s.tasks, &task{remaining: interval, interval: interval, fn: fn})
}

// CancelAll discards every pending task unconditionally.
func (s *Scheduler) CancelAll() { s.tasks = nil }

// Pending reports the number of queued tasks.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// Update advances all pending tasks by elapsed and fires every task whose
// remaining delay reaches zero or below. Callbacks run to completion before
// Update returns. One-shot tasks are removed after firing; repeating tasks
// are pushed one interval ahead.
func (s *Scheduler) Update(elapsed time.Duration) {
	if len(s.tasks) == 0 {
		return
	}

	// Snapshot: callbacks may schedule new tasks, which must not be
	// advanced or fired within the same tick.
	due := s.tasks
	for _, t := range due {
		t.remaining -= elapsed
	}

	for _, t := range due {
		if t.remaining > 0 || t.done {
			continue
		}
		if t.interval > 0 {
			t.remaining += t.interval
			if t.remaining <= 0 {
				// Tick much longer than the interval; do not burst-fire.
				t.remaining = t.interval
			}
		} else {
			t.done = true
		}
		t.fn()
	}

	// Compact in place, keeping newly scheduled tasks.
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.done {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
}
