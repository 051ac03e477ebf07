package shutdown

import (
	"testing"
	"time"
)

// 2026-03-02 is a Monday.
func monday(hour, minute, second int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, second, 0, time.UTC)
}

func TestNextPeriodicSingleDay(t *testing.T) {
	t.Parallel()

	now := monday(3, 0, 0)
	got := NextPeriodic(now, 1, 4, 0, 0)
	want := monday(4, 0, 0)
	if !got.Equal(want) {
		t.Fatalf("target still ahead today: got %v, want %v", got, want)
	}

	now = monday(5, 0, 0)
	got = NextPeriodic(now, 1, 4, 0, 0)
	want = monday(4, 0, 0).AddDate(0, 0, 1)
	if !got.Equal(want) {
		t.Fatalf("target already passed: got %v, want %v", got, want)
	}

	// Exactly at the target rolls to tomorrow (not strictly after now).
	now = monday(4, 0, 0)
	got = NextPeriodic(now, 1, 4, 0, 0)
	if !got.Equal(want) {
		t.Fatalf("exact boundary: got %v, want %v", got, want)
	}
}

func TestNextPeriodicMultiDayAlwaysAdvances(t *testing.T) {
	t.Parallel()

	for _, nowHour := range []int{3, 5} {
		now := monday(nowHour, 0, 0)
		got := NextPeriodic(now, 7, 4, 0, 0)
		want := monday(4, 0, 0).AddDate(0, 0, 7)
		if !got.Equal(want) {
			t.Fatalf("periodDays=7 now=%v: got %v, want %v", now, got, want)
		}
	}
}

func TestNextPeriodicKeepsClockTime(t *testing.T) {
	t.Parallel()

	now := monday(23, 59, 59)
	got := NextPeriodic(now, 3, 12, 34, 56)
	h, m, s := got.Clock()
	if h != 12 || m != 34 || s != 56 {
		t.Fatalf("clock = %02d:%02d:%02d, want 12:34:56", h, m, s)
	}
}

func TestNextWeekdayTodayStillAhead(t *testing.T) {
	t.Parallel()

	now := monday(3, 0, 0)
	got := NextWeekday(now, time.Monday, 4, 0, 0)
	want := monday(4, 0, 0)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v (same Monday)", got, want)
	}
}

func TestNextWeekdayTodayAlreadyPassed(t *testing.T) {
	t.Parallel()

	now := monday(5, 0, 0)
	got := NextWeekday(now, time.Monday, 4, 0, 0)
	want := monday(4, 0, 0).AddDate(0, 0, 7)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v (next Monday)", got, want)
	}
}

func TestNextWeekdaySecondBoundary(t *testing.T) {
	t.Parallel()

	// Seconds compare at-or-after: hitting the target to the second already
	// counts as passed and selects next week.
	now := monday(4, 0, 0)
	got := NextWeekday(now, time.Monday, 4, 0, 0)
	want := monday(4, 0, 0).AddDate(0, 0, 7)
	if !got.Equal(want) {
		t.Fatalf("exact second: got %v, want %v", got, want)
	}

	// One second shy of the target still selects today.
	now = monday(3, 59, 59)
	got = NextWeekday(now, time.Monday, 4, 0, 0)
	if !got.Equal(monday(4, 0, 0)) {
		t.Fatalf("one second early: got %v, want %v", got, monday(4, 0, 0))
	}

	// Same hour and minute, earlier second: today, even though the minute
	// comparison alone would not decide it.
	now = monday(4, 0, 10)
	got = NextWeekday(now, time.Monday, 4, 0, 30)
	if !got.Equal(monday(4, 0, 30)) {
		t.Fatalf("within-minute: got %v, want %v", got, monday(4, 0, 30))
	}
}

func TestNextWeekdayBounds(t *testing.T) {
	t.Parallel()

	now := monday(12, 0, 0)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		got := NextWeekday(now, wd, 4, 0, 0)
		if got.Before(now) {
			t.Fatalf("weekday %v: %v is in the past relative to %v", wd, got, now)
		}
		if got.Sub(now) > 7*24*time.Hour {
			t.Fatalf("weekday %v: %v is more than 7 days ahead of %v", wd, got, now)
		}
		if got.Weekday() != wd {
			t.Fatalf("weekday %v: landed on %v", wd, got.Weekday())
		}
	}
}
