package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"shutdownd/pkg/logx"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(Config{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "events.db"),
		BusyTimeout: time.Second,
	}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenDisabled(t *testing.T) {
	t.Parallel()
	for _, driver := range []string{"", "none"} {
		st, err := Open(Config{Driver: driver}, logx.Nop())
		if err != nil {
			t.Fatalf("Open(%q): %v", driver, err)
		}
		if st != nil {
			t.Fatalf("Open(%q): expected nil store", driver)
		}
	}

	if _, err := Open(Config{Driver: "bogus"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestAppendAndRecent(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	recs := []Record{
		{At: now.Add(-2 * time.Hour), Kind: "armed", Action: "restart", ShutdownAt: now.Add(2 * time.Hour), LeadSeconds: 3600},
		{At: now.Add(-time.Hour), Kind: "event_started", EventID: 12, Message: "Darkmoon Faire"},
		{At: now, Kind: "pre_announced", Action: "restart", Message: "restart in 1 hour"},
	}
	for _, r := range recs {
		if err := st.Append(ctx, r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := st.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(got))
	}
	// Newest first.
	if got[0].Kind != "pre_announced" || got[2].Kind != "armed" {
		t.Fatalf("unexpected order: %s .. %s", got[0].Kind, got[2].Kind)
	}
	if got[2].LeadSeconds != 3600 {
		t.Fatalf("lead_seconds = %d", got[2].LeadSeconds)
	}
	if got[1].EventID != 12 {
		t.Fatalf("event_id = %d", got[1].EventID)
	}
}

func TestPruneBefore(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	old := Record{At: now.Add(-100 * 24 * time.Hour), Kind: "armed"}
	fresh := Record{At: now, Kind: "armed"}
	if err := st.Append(ctx, old); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := st.Append(ctx, fresh); err != nil {
		t.Fatalf("Append: %v", err)
	}

	n, err := st.PruneBefore(ctx, now.Add(-90*24*time.Hour).Unix())
	if err != nil {
		t.Fatalf("PruneBefore: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned %d rows, want 1", n)
	}

	got, err := st.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].Kind != "armed" {
		t.Fatalf("remaining = %+v", got)
	}
}
