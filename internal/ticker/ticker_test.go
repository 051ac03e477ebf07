package ticker

import (
	"testing"
	"time"
)

func TestScheduleFiresOnceAfterDelay(t *testing.T) {
	t.Parallel()
	s := New()

	fired := 0
	s.Schedule(3*time.Second, func() { fired++ })

	s.Update(time.Second)
	s.Update(time.Second)
	if fired != 0 {
		t.Fatalf("fired too early: %d", fired)
	}

	s.Update(time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if s.Pending() != 0 {
		t.Fatalf("task not removed after firing, pending = %d", s.Pending())
	}

	// Nothing left to fire.
	s.Update(time.Hour)
	if fired != 1 {
		t.Fatalf("one-shot fired again: %d", fired)
	}
}

func TestMultipleDueInSameTick(t *testing.T) {
	t.Parallel()
	s := New()

	fired := map[string]bool{}
	s.Schedule(time.Second, func() { fired["a"] = true })
	s.Schedule(2*time.Second, func() { fired["b"] = true })
	s.Schedule(time.Hour, func() { fired["c"] = true })

	s.Update(5 * time.Second)
	if !fired["a"] || !fired["b"] {
		t.Fatalf("due tasks did not all fire: %v", fired)
	}
	if fired["c"] {
		t.Fatal("future task fired early")
	}
	if s.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", s.Pending())
	}
}

func TestCancelAll(t *testing.T) {
	t.Parallel()
	s := New()

	fired := 0
	s.Schedule(time.Second, func() { fired++ })
	s.Schedule(2*time.Second, func() { fired++ })
	s.CancelAll()

	s.Update(time.Hour)
	if fired != 0 {
		t.Fatalf("cancelled tasks fired: %d", fired)
	}
	if s.Pending() != 0 {
		t.Fatalf("pending = %d after CancelAll", s.Pending())
	}
}

func TestEveryReschedules(t *testing.T) {
	t.Parallel()
	s := New()

	fired := 0
	s.Every(2*time.Second, func() { fired++ })

	for i := 0; i < 6; i++ {
		s.Update(time.Second)
	}
	if fired != 3 {
		t.Fatalf("fired = %d, want 3", fired)
	}
	if s.Pending() != 1 {
		t.Fatalf("repeating task was removed, pending = %d", s.Pending())
	}
}

func TestEveryDoesNotBurstOnLongTick(t *testing.T) {
	t.Parallel()
	s := New()

	fired := 0
	s.Every(time.Second, func() { fired++ })

	s.Update(10 * time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1 (no catch-up bursts)", fired)
	}
}

func TestCallbackMaySchedule(t *testing.T) {
	t.Parallel()
	s := New()

	var order []string
	s.Schedule(time.Second, func() {
		order = append(order, "first")
		s.Schedule(time.Second, func() { order = append(order, "second") })
	})

	// The task scheduled from inside a callback must not fire in the same tick.
	s.Update(time.Minute)
	if len(order) != 1 || order[0] != "first" {
		t.Fatalf("order = %v, want [first]", order)
	}

	s.Update(time.Second)
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("order = %v, want [first second]", order)
	}
}
