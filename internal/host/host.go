// Package host controls the game-server systemd unit. It implements the
// shutdown module's host interface: it owns the final countdown once the
// module hands over, and stops or restarts the unit when it expires.
package host

import (
	"context"
	"sync"
	"time"

	"shutdownd/internal/shutdown"
	"shutdownd/pkg/logx"
)

type Config struct {
	Unit string
}

// unitOps abstracts the platform-specific stop/restart primitives.
type unitOps interface {
	Stop(ctx context.Context, unit string) error
	Restart(ctx context.Context, unit string) error
	Close()
}

// Controller is the systemd-backed host control. At most one countdown is
// pending at a time; a new request replaces the previous one.
type Controller struct {
	log  logx.Logger
	unit string
	ops  unitOps

	mu    sync.Mutex
	timer *time.Timer
}

func NewController(ctx context.Context, cfg Config, log logx.Logger) (*Controller, error) {
	ops, err := newUnitOps(ctx)
	if err != nil {
		return nil, err
	}
	return &Controller{log: log, unit: cfg.Unit, ops: ops}, nil
}

// ShutdownCancel aborts any pending countdown. Safe to call when none is
// pending (every re-arm calls it unconditionally).
func (c *Controller) ShutdownCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
		c.log.Info("host countdown cancelled", logx.String("unit", c.unit))
	}
}

// ShutdownServ starts the host-side countdown. When it expires the unit is
// stopped (idle mask) or restarted (restart mask).
func (c *Controller) ShutdownServ(delay time.Duration, mask shutdown.Mask, exitCode int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(delay, func() { c.execute(mask) })

	c.log.Info("host countdown started",
		logx.String("unit", c.unit),
		logx.Duration("delay", delay),
		logx.String("mask", mask.String()),
		logx.Int("exit_code", exitCode))
	return nil
}

func (c *Controller) execute(mask shutdown.Mask) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	if mask == shutdown.MaskRestart {
		err = c.ops.Restart(ctx, c.unit)
	} else {
		err = c.ops.Stop(ctx, c.unit)
	}
	if err != nil {
		c.log.Error("host unit operation failed",
			logx.String("unit", c.unit), logx.String("mask", mask.String()), logx.Err(err))
		return
	}
	c.log.Info("host unit operation issued",
		logx.String("unit", c.unit), logx.String("mask", mask.String()))
}

func (c *Controller) Close() {
	c.ShutdownCancel()
	c.ops.Close()
}
