// Package history records shutdown-module lifecycle events into the
// persistent store and enforces a retention window.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"shutdownd/internal/bus"
	"shutdownd/internal/shutdown"
	"shutdownd/internal/storage"
	"shutdownd/pkg/logx"
)

type Config struct {
	RetentionDays int // default 90
}

const defaultRetentionDays = 90

// Service consumes module events from the bus and appends them to the
// store. Retention is enforced once at start and then daily via cron.
// With a nil store (persistence disabled) the service is a no-op.
type Service struct {
	log   logx.Logger
	store storage.Store
	bus   *bus.Bus

	retention time.Duration

	mu     sync.Mutex
	c      *cron.Cron
	unsub  func()
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg Config, store storage.Store, b *bus.Bus, log logx.Logger) *Service {
	days := cfg.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}
	return &Service{
		log:       log,
		store:     store,
		bus:       b,
		retention: time.Duration(days) * 24 * time.Hour,
	}
}

func (s *Service) Start(ctx context.Context) {
	if s.store == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	ch, unsub := s.bus.Subscribe(32)
	s.unsub = unsub

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				s.record(runCtx, e)
			}
		}
	}()

	s.c = cron.New()
	_, _ = s.c.AddFunc("@daily", func() { s.prune(runCtx) })
	s.c.Start()

	// Catch up on anything that outlived the window while we were down.
	s.prune(runCtx)

	s.log.Info("history recorder started",
		logx.Duration("retention", s.retention))
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	unsub := s.unsub
	s.unsub = nil
	c := s.c
	s.c = nil
	s.mu.Unlock()

	if c != nil {
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
		}
	}
	if unsub != nil {
		unsub()
	}
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Recent returns the newest records, most recent first.
func (s *Service) Recent(ctx context.Context, limit int) ([]storage.Record, error) {
	if s.store == nil {
		return nil, storage.ErrDisabled
	}
	return s.store.Recent(ctx, limit)
}

func (s *Service) record(ctx context.Context, e shutdown.Event) {
	rec := storage.Record{
		At:      e.At,
		Kind:    string(e.Kind),
		Action:  string(e.Action),
		Message: e.Message,
		EventID: e.EventID,
	}
	if !e.Plan.NextShutdownAt.IsZero() {
		rec.ShutdownAt = e.Plan.NextShutdownAt
		rec.PreAnnounceAt = e.Plan.NextPreAnnounceAt
		rec.LeadSeconds = int64(e.Plan.PreAnnounceLead / time.Second)
	}

	wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.store.Append(wctx, rec); err != nil {
		s.log.Warn("failed to record shutdown event",
			logx.String("kind", rec.Kind), logx.Err(err))
	}
}

func (s *Service) prune(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention).Unix()
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := s.store.PruneBefore(pctx, cutoff)
	if err != nil {
		s.log.Warn("history prune failed", logx.Err(err))
		return
	}
	if n > 0 {
		s.log.Info("history pruned", logx.Int64("removed", n))
	}
}
