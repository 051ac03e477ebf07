package events

import (
	"testing"

	"shutdownd/pkg/logx"
)

func TestStartEvent(t *testing.T) {
	t.Parallel()
	r := NewRegistry(logx.Nop(), []Descriptor{
		{ID: 12, Description: "Darkmoon Faire"},
		{ID: 31, Description: "Elemental Invasion"},
	})

	if err := r.StartEvent(12); err != nil {
		t.Fatalf("StartEvent(12): %v", err)
	}
	if !r.Started(12) {
		t.Fatal("event 12 not marked started")
	}
	if r.Started(31) {
		t.Fatal("event 31 should not be started")
	}

	if err := r.StartEvent(99); err == nil {
		t.Fatal("expected error for undeclared event")
	}
}

func TestEventMap(t *testing.T) {
	t.Parallel()
	r := NewRegistry(logx.Nop(), []Descriptor{{ID: 12, Description: "Darkmoon Faire"}})

	m := r.EventMap()
	if len(m) != 1 || m[12] != "Darkmoon Faire" {
		t.Fatalf("EventMap = %v", m)
	}
}
