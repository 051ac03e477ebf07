package shutdown

import "time"

// NextPeriodic returns the next occurrence of the target time-of-day for an
// "every N days" recurrence, evaluated against now's calendar (local
// semantics of now.Location).
//
// With periodDays == 1 the result is today at the target time if that is
// still strictly ahead, otherwise tomorrow. Any multi-day period always
// targets a future date at that offset, never today.
func NextPeriodic(now time.Time, periodDays, hour, minute, second int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, 0, now.Location())
	if periodDays > 1 || !target.After(now) {
		target = target.AddDate(0, 0, periodDays)
	}
	return target
}

// NextWeekday returns the next occurrence of the target time-of-day on the
// given weekday (Sunday=0), evaluated against now's calendar.
//
// When today is the target weekday, the hour and minute compare strictly
// while the second compares at-or-after. Changing that boundary moves day
// selection by a full week when now matches the target to the second, so it
// stays as-is.
func NextWeekday(now time.Time, weekday time.Weekday, hour, minute, second int) time.Time {
	daysUntil := (int(weekday) - int(now.Weekday()) + 7) % 7
	if daysUntil == 0 {
		h, m, s := now.Clock()
		if h > hour ||
			(h == hour && m > minute) ||
			(h == hour && m == minute && s >= second) {
			daysUntil = 7
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day()+daysUntil, hour, minute, second, 0, now.Location())
}
