package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSupervisorWaitsForGoroutines(t *testing.T) {
	t.Parallel()
	sup := NewSupervisor(context.Background())

	done := make(chan struct{})
	sup.Go0("worker", func(ctx context.Context) {
		<-done
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := sup.Wait(ctx); err == nil {
		t.Fatal("Wait returned before the goroutine finished")
	}

	close(done)
	if err := sup.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestSupervisorCancelOnError(t *testing.T) {
	t.Parallel()
	sup := NewSupervisor(context.Background(), WithCancelOnError(true))

	boom := errors.New("boom")
	sup.Go("failing", func(ctx context.Context) error { return boom })
	sup.Go("waiting", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	if err := sup.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !errors.Is(sup.Err(), boom) {
		t.Fatalf("Err() = %v, want %v", sup.Err(), boom)
	}
}

// Failures racing in with different concrete error types must settle on one
// winner instead of tripping atomic.Value's same-type requirement.
func TestSupervisorMixedErrorTypes(t *testing.T) {
	t.Parallel()
	// No cancel-on-error: both failures must reach the error slot.
	sup := NewSupervisor(context.Background())

	wrapped := fmt.Errorf("outer: %w", errors.New("inner"))
	plain := errors.New("plain")
	sup.Go("wrapped", func(ctx context.Context) error { return wrapped })
	sup.Go("plain", func(ctx context.Context) error { return plain })

	if err := sup.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	got := sup.Err()
	if !errors.Is(got, wrapped) && !errors.Is(got, plain) {
		t.Fatalf("Err() = %v, want one of the reported errors", got)
	}
}

func TestSupervisorRecoversPanic(t *testing.T) {
	t.Parallel()
	sup := NewSupervisor(context.Background(), WithCancelOnError(true))

	sup.Go0("panicking", func(ctx context.Context) { panic("kaboom") })

	if err := sup.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if sup.Err() == nil {
		t.Fatal("Err() = nil, want panic error")
	}
}
