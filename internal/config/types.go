package config

import (
	"time"

	"shutdownd/internal/shutdown"
)

// Config is the daemon's whole configuration file (YAML or JSON).
// Unknown fields are rejected to catch typos early.
type Config struct {
	Logging LoggingConfig `json:"logging"`

	// TickInterval is the cadence of the module Update loop.
	// Go duration string; default "500ms".
	TickInterval string `json:"tick_interval,omitempty"`

	Shutdown  ShutdownConfig  `json:"shutdown"`
	Host      HostConfig      `json:"host"`
	Broadcast BroadcastConfig `json:"broadcast,omitempty"`
	Events    []EventConfig   `json:"events,omitempty"`
	Storage   *StorageConfig  `json:"storage,omitempty"`
	History   HistoryConfig   `json:"history,omitempty"`
}

type LoggingConfig struct {
	Level   string     `json:"level,omitempty"`
	Console bool       `json:"console,omitempty"`
	File    FileConfig `json:"file,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// ShutdownConfig mirrors the recurring shutdown timer options.
//
// Weekday and PreAnnounce.Seconds are pointers so "omitted" is
// distinguishable from an explicit 0 (Sunday / no lead time).
type ShutdownConfig struct {
	Enabled     bool              `json:"enabled"`
	Time        string            `json:"time,omitempty"`       // "HH:MM:SS", default "04:00:00"
	Weekday     *int              `json:"weekday,omitempty"`    // 0..6 selects weekly mode; default -1
	EveryDays   int               `json:"every_days,omitempty"` // 1..365, default 1
	PreAnnounce PreAnnounceConfig `json:"pre_announce,omitempty"`
	Action      string            `json:"action,omitempty"` // "restart" (default) | "shutdown"
	StartEvents string            `json:"start_events,omitempty"`
}

type PreAnnounceConfig struct {
	Seconds *int   `json:"seconds,omitempty"` // default 3600
	Message string `json:"message,omitempty"`
}

// ModuleConfig resolves defaults and converts to the shutdown package's
// config shape. Range validation stays with the plan builder.
func (c ShutdownConfig) ModuleConfig() shutdown.Config {
	out := shutdown.Config{
		Enabled:     c.Enabled,
		Time:        c.Time,
		Weekday:     -1,
		EveryDays:   c.EveryDays,
		PreAnnounce: shutdown.DefaultPreAnnounce,
		Message:     c.PreAnnounce.Message,
		Action:      shutdown.Action(c.Action),
		StartEvents: c.StartEvents,
	}
	if out.Time == "" {
		out.Time = shutdown.DefaultTime
	}
	if c.Weekday != nil {
		out.Weekday = *c.Weekday
	}
	if out.EveryDays == 0 {
		out.EveryDays = shutdown.DefaultEveryDays
	}
	if c.PreAnnounce.Seconds != nil {
		out.PreAnnounce = time.Duration(*c.PreAnnounce.Seconds) * time.Second
	}
	return out
}

// HostConfig names the systemd unit the daemon controls.
type HostConfig struct {
	Unit string `json:"unit"`
}

type BroadcastConfig struct {
	RatePerSec int              `json:"rate_per_sec,omitempty"` // default 1
	QueueSize  int              `json:"queue_size,omitempty"`   // default 64
	Telegram   TelegramSinkConfig `json:"telegram,omitempty"`
}

type TelegramSinkConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Token   string `json:"token,omitempty"`
	ChatID  int64  `json:"chat_id,omitempty"`
}

// EventConfig declares one auxiliary game event the registry knows about.
type EventConfig struct {
	ID          uint32 `json:"id"`
	Description string `json:"description,omitempty"`
}

// StorageConfig controls the optional persistence layer.
// Driver "" or "none" disables it; "sqlite" stores to a database file.
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string
}

type HistoryConfig struct {
	RetentionDays int `json:"retention_days,omitempty"` // default 90
}
