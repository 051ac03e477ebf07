package bus

import (
	"testing"
	"time"

	"shutdownd/internal/shutdown"
)

func TestFanOutToAllSubscribers(t *testing.T) {
	t.Parallel()
	b := New()
	ch1, unsub1 := b.Subscribe(4)
	ch2, unsub2 := b.Subscribe(4)
	defer unsub1()
	defer unsub2()

	b.Publish(shutdown.Event{Kind: shutdown.EventArmed, At: time.Now()})

	for i, ch := range []<-chan shutdown.Event{ch1, ch2} {
		select {
		case e := <-ch:
			if e.Kind != shutdown.EventArmed {
				t.Fatalf("subscriber %d: Kind = %q", i, e.Kind)
			}
		default:
			t.Fatalf("subscriber %d: no event delivered", i)
		}
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	t.Parallel()
	b := New()
	_, unsub := b.Subscribe(1)
	defer unsub()

	// Second publish overflows the buffer and must be dropped silently.
	b.Publish(shutdown.Event{Kind: shutdown.EventArmed})
	b.Publish(shutdown.Event{Kind: shutdown.EventPreAnnounced})
}

func TestUnsubscribeStopsDeliveryAndClosesChannel(t *testing.T) {
	t.Parallel()
	b := New()
	ch, unsub := b.Subscribe(4)

	unsub()
	unsub() // idempotent

	b.Publish(shutdown.Event{Kind: shutdown.EventDisabled})
	if _, ok := <-ch; ok {
		t.Fatal("received on unsubscribed channel")
	}
}
