// Package bus fans the shutdown module's lifecycle notifications out to
// in-process observers (history, operator notification).
package bus

import (
	"sync"

	"shutdownd/internal/shutdown"
)

// Bus is a typed in-memory fan-out. Publish never blocks: a subscriber
// whose buffer is full loses the notification. Sends happen under the
// bus lock, which is fine because they never wait.
type Bus struct {
	mu   sync.Mutex
	subs map[uint64]chan shutdown.Event
	next uint64
}

func New() *Bus {
	return &Bus{subs: map[uint64]chan shutdown.Event{}}
}

func (b *Bus) Publish(e shutdown.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a buffered receiver. The returned unsubscribe is
// idempotent and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan shutdown.Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan shutdown.Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}
