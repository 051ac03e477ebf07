// Package events is the auxiliary game-event registry. Events are declared
// in configuration; starting one is a bookkeeping operation surfaced to the
// log, the bus and the history store, with the host expected to pick the
// state up on its side.
package events

import (
	"fmt"
	"sync"
	"time"

	"shutdownd/pkg/logx"
)

// Descriptor declares one known auxiliary event.
type Descriptor struct {
	ID          uint32
	Description string
}

type Registry struct {
	log logx.Logger

	mu      sync.Mutex
	known   map[uint32]Descriptor
	started map[uint32]time.Time
}

func NewRegistry(log logx.Logger, descriptors []Descriptor) *Registry {
	known := make(map[uint32]Descriptor, len(descriptors))
	for _, d := range descriptors {
		known[d.ID] = d
	}
	return &Registry{
		log:     log,
		known:   known,
		started: map[uint32]time.Time{},
	}
}

// Apply replaces the declared event set on config reload. Started state is
// kept for ids that remain declared.
func (r *Registry) Apply(descriptors []Descriptor) {
	known := make(map[uint32]Descriptor, len(descriptors))
	for _, d := range descriptors {
		known[d.ID] = d
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.started {
		if _, ok := known[id]; !ok {
			delete(r.started, id)
		}
	}
	r.known = known
}

// StartEvent marks the event as running. Starting an already running event
// refreshes its start time; an undeclared id is an error.
func (r *Registry) StartEvent(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.known[id]; !ok {
		return fmt.Errorf("events: unknown event id %d", id)
	}
	r.started[id] = time.Now()
	return nil
}

// EventMap returns id → description for every declared event.
func (r *Registry) EventMap() map[uint32]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uint32]string, len(r.known))
	for id, d := range r.known {
		out[id] = d.Description
	}
	return out
}

// Started reports whether the event is currently marked running.
func (r *Registry) Started(id uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.started[id]
	return ok
}
