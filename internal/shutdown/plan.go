package shutdown

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Action selects what the host does once the countdown expires.
type Action string

const (
	ActionShutdown Action = "shutdown"
	ActionRestart  Action = "restart"
)

// Defaults for optional config values.
const (
	DefaultTime            = "04:00:00"
	DefaultEveryDays       = 1
	DefaultPreAnnounce     = time.Hour
	DefaultMessageTemplate = "[SERVER]: Automated server restart(shutdown) in %s"
)

// rearmGuard is the minimum runway for a freshly computed occurrence.
// Re-arming within the final seconds before the previous boundary must not
// fire a near-immediate shutdown on every restart.
const rearmGuard = 10 * time.Second

// Config carries the validated-shape inputs of one recurring shutdown timer.
// Weekday in [0,6] selects weekly mode and takes precedence over EveryDays.
type Config struct {
	Enabled     bool
	Time        string // "HH:MM:SS"
	Weekday     int    // 0..6 (Sunday=0) for weekly mode; anything else → periodic
	EveryDays   int    // 1..365
	PreAnnounce time.Duration
	Message     string // template with one %s (countdown text)
	Action      Action
	StartEvents string // space-separated auxiliary event ids
}

// Plan is one concrete two-event schedule: pre-announce at NextPreAnnounceAt,
// shutdown handed to the host at NextShutdownAt. It is recomputed from
// scratch on every (re)arm and never persisted.
type Plan struct {
	NextShutdownAt    time.Time
	NextPreAnnounceAt time.Time

	UntilShutdown    time.Duration
	UntilPreAnnounce time.Duration

	// PreAnnounceLead is the countdown length announced to players and
	// handed to the host. Always <= UntilShutdown.
	PreAnnounceLead time.Duration

	Weekly             bool
	PreAnnounceClamped bool
}

// ParseError reports a malformed configuration value.
type ParseError struct {
	Option string
	Value  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("shutdown: cannot parse option %s value %q", e.Option, e.Value)
}

// RangeError reports a configuration value outside its allowed bounds.
type RangeError struct {
	Option string
	Value  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("shutdown: option %s value %q out of range", e.Option, e.Value)
}

// ParseTimeOfDay splits an "HH:MM:SS" string into its three components.
// Exactly three colon-separated non-negative 8-bit integers are accepted;
// range checking beyond 8 bits is the caller's job.
func ParseTimeOfDay(s string) (hour, minute, second int, err error) {
	tokens := strings.Split(s, ":")
	if len(tokens) != 3 {
		return 0, 0, 0, &ParseError{Option: "time", Value: s}
	}
	vals := make([]int, 3)
	for i, tok := range tokens {
		v, perr := strconv.ParseUint(strings.TrimSpace(tok), 10, 8)
		if perr != nil {
			return 0, 0, 0, &ParseError{Option: "time", Value: s}
		}
		vals[i] = int(v)
	}
	return vals[0], vals[1], vals[2], nil
}

// BuildPlan validates cfg and computes the next two-event schedule relative
// to now. It is deterministic and side-effect free: identical (cfg, now)
// pairs yield identical plans. The caller decides how to log the
// PreAnnounceClamped warning.
func BuildPlan(cfg Config, now time.Time) (Plan, error) {
	hour, minute, second, err := ParseTimeOfDay(cfg.Time)
	if err != nil {
		return Plan{}, err
	}

	if cfg.EveryDays < 1 || cfg.EveryDays > 365 {
		return Plan{}, &RangeError{Option: "every_days", Value: strconv.Itoa(cfg.EveryDays)}
	}
	if hour > 23 || minute > 59 || second > 59 {
		return Plan{}, &RangeError{Option: "time", Value: cfg.Time}
	}
	if cfg.PreAnnounce < 0 {
		return Plan{}, &RangeError{
			Option: "pre_announce.seconds",
			Value:  strconv.FormatInt(int64(cfg.PreAnnounce/time.Second), 10),
		}
	}

	weekly := cfg.Weekday >= 0 && cfg.Weekday <= 6

	var next time.Time
	if weekly {
		next = NextWeekday(now, time.Weekday(cfg.Weekday), hour, minute, second)
	} else {
		next = NextPeriodic(now, cfg.EveryDays, hour, minute, second)
	}

	until := next.Sub(now)
	if until < rearmGuard {
		// Occurrence already consumed; advance one full period.
		if weekly {
			next = next.Add(7 * 24 * time.Hour)
		} else {
			next = next.Add(time.Duration(cfg.EveryDays) * 24 * time.Hour)
		}
		until = next.Sub(now)
	}

	lead := cfg.PreAnnounce
	clamped := false
	if lead > 24*time.Hour {
		lead = time.Hour
		clamped = true
	}

	preAt := next.Add(-lead)
	untilPre := preAt.Sub(now)

	// Not enough runway for the full lead time: announce almost immediately
	// and shrink the countdown to the true remaining time.
	if until < lead {
		preAt = now.Add(time.Second)
		untilPre = time.Second
		lead = until
	}

	return Plan{
		NextShutdownAt:     next,
		NextPreAnnounceAt:  preAt,
		UntilShutdown:      until,
		UntilPreAnnounce:   untilPre,
		PreAnnounceLead:    lead,
		Weekly:             weekly,
		PreAnnounceClamped: clamped,
	}, nil
}
