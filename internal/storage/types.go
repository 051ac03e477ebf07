package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // 0 means driver default
}

// Record is one persisted shutdown-lifecycle entry.
// Keep it compact and schema-stable.
type Record struct {
	ID      int64
	At      time.Time
	Kind    string // armed, disabled, pre_announced, event_started
	Action  string // restart | shutdown (empty for event_started)
	Message string

	ShutdownAt    time.Time
	PreAnnounceAt time.Time
	LeadSeconds   int64
	EventID       uint32
}
