package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shutdownd/internal/shutdown"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.yaml", `
logging:
  level: debug
  console: true
shutdown:
  enabled: true
  time: "05:30:00"
  weekday: 1
  pre_announce:
    seconds: 1800
    message: "restart in %s"
  action: shutdown
  start_events: "12 31"
host:
  unit: gameserver.service
events:
  - id: 12
    description: "Darkmoon Faire"
storage:
  driver: sqlite
  path: ./test.db
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.Host.Unit != "gameserver.service" {
		t.Fatalf("host.unit = %q", cfg.Host.Unit)
	}
	if len(cfg.Events) != 1 || cfg.Events[0].ID != 12 {
		t.Fatalf("events = %+v", cfg.Events)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "sqlite" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}

	mc := cfg.Shutdown.ModuleConfig()
	want := shutdown.Config{
		Enabled:     true,
		Time:        "05:30:00",
		Weekday:     1,
		EveryDays:   1,
		PreAnnounce: 30 * time.Minute,
		Message:     "restart in %s",
		Action:      shutdown.ActionShutdown,
		StartEvents: "12 31",
	}
	if mc != want {
		t.Fatalf("ModuleConfig = %+v, want %+v", mc, want)
	}
}

func TestModuleConfigDefaults(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.yaml", `
shutdown:
  enabled: true
host:
  unit: gameserver.service
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mc := cfg.Shutdown.ModuleConfig()
	if mc.Time != "04:00:00" {
		t.Fatalf("default time = %q", mc.Time)
	}
	if mc.Weekday != -1 {
		t.Fatalf("default weekday = %d, want -1 (periodic mode)", mc.Weekday)
	}
	if mc.EveryDays != 1 {
		t.Fatalf("default every_days = %d", mc.EveryDays)
	}
	if mc.PreAnnounce != time.Hour {
		t.Fatalf("default pre_announce = %v", mc.PreAnnounce)
	}
}

func TestWeekdayZeroIsSunday(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.yaml", `
shutdown:
  enabled: true
  weekday: 0
host:
  unit: gameserver.service
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Shutdown.ModuleConfig().Weekday; got != 0 {
		t.Fatalf("weekday = %d, want 0 (explicit Sunday, not the omitted default)", got)
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.yaml", `
shutdown:
  enabled: true
  tiem: "04:00:00"
host:
  unit: gameserver.service
`)

	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadStrictJSON(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.json",
		`{"shutdown":{"enabled":false},"host":{"unit":"gs.service"}}`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Shutdown.Enabled {
		t.Fatal("enabled should be false")
	}

	// Trailing data is rejected.
	bad := writeFile(t, "bad.json",
		`{"shutdown":{"enabled":false},"host":{"unit":"gs.service"}} {}`)
	if _, err := NewManager(bad).Load(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}
