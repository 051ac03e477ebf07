// Package broadcast delivers server-wide messages through a rate-limited
// async pipeline fanned out to one or more sinks.
package broadcast

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"shutdownd/pkg/logx"
)

// Sink is one delivery target for a broadcast message.
type Sink interface {
	Name() string
	Send(ctx context.Context, text string) error
}

type Config struct {
	RatePerSec int // default 1
	QueueSize  int // default 64
}

// Service queues messages and delivers them from a single worker so the
// caller (the module's tick path) never blocks on slow sinks.
type Service struct {
	log   logx.Logger
	sinks []Sink

	limiter *rate.Limiter
	queue   chan string

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg Config, log logx.Logger, sinks ...Sink) *Service {
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	return &Service{
		log:     log,
		sinks:   sinks,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		queue:   make(chan string, size),
	}
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(runCtx)
	}()
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("broadcast worker did not stop in time")
	}
}

// SendServerMessage enqueues a message for delivery. Never blocks; if the
// queue is full the message is dropped with a warning.
func (s *Service) SendServerMessage(text string) {
	select {
	case s.queue <- text:
	default:
		s.log.Warn("broadcast queue full, dropping message",
			logx.String("message", text))
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-s.queue:
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
			s.deliver(ctx, text)
		}
	}
}

func (s *Service) deliver(ctx context.Context, text string) {
	for _, sink := range s.sinks {
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := sink.Send(sctx, text)
		cancel()
		if err != nil {
			s.log.Warn("broadcast sink failed",
				logx.String("sink", sink.Name()), logx.Err(err))
		}
	}
}
