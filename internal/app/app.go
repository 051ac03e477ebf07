// Package app wires the daemon together: config, logging, storage, the
// broadcast pipeline and the shutdown module, plus the tick loop that
// drives the module's timers.
package app

import (
	"context"
	"fmt"
	"time"

	"shutdownd/internal/adapters/telegram"
	"shutdownd/internal/broadcast"
	"shutdownd/internal/bus"
	"shutdownd/internal/config"
	"shutdownd/internal/events"
	"shutdownd/internal/history"
	"shutdownd/internal/host"
	"shutdownd/internal/shutdown"
	"shutdownd/internal/storage"
	"shutdownd/pkg/logx"
)

const defaultTickInterval = 500 * time.Millisecond

type App struct {
	cfgm *config.Manager
	logs *logx.Service
	log  logx.Logger

	bus      *bus.Bus
	store    storage.Store
	hist     *history.Service
	bcast    *broadcast.Service
	registry *events.Registry
	hostctl  *host.Controller
	module   *shutdown.Module

	tick time.Duration
	sup  *Supervisor
}

// New loads the config file and constructs every service. Nothing runs
// until Start.
func New(ctx context.Context, cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	logs, root := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log := root.With(logx.String("comp", "app"))
	cfgm.SetLogger(root.With(logx.String("comp", "config")))

	tick, err := config.ParseDurationOrDefault("tick_interval", cfg.TickInterval, defaultTickInterval)
	if err != nil {
		_ = logs.Close()
		return nil, err
	}

	store, err := storage.Open(storageConfig(cfg), root.With(logx.String("comp", "storage")))
	if err != nil {
		_ = logs.Close()
		return nil, err
	}

	b := bus.New()
	hist := history.New(history.Config{RetentionDays: cfg.History.RetentionDays},
		store, b, root.With(logx.String("comp", "history")))

	bcast, err := newBroadcast(cfg, root)
	if err != nil {
		_ = logs.Close()
		return nil, err
	}

	registry := events.NewRegistry(root.With(logx.String("comp", "events")), descriptors(cfg))

	if cfg.Host.Unit == "" {
		_ = logs.Close()
		return nil, fmt.Errorf("host.unit must be set")
	}
	hostctl, err := host.NewController(ctx, host.Config{Unit: cfg.Host.Unit},
		root.With(logx.String("comp", "host")))
	if err != nil {
		_ = logs.Close()
		return nil, err
	}

	module := shutdown.NewModule(root.With(logx.String("comp", "shutdown")),
		hostctl, bcast, registry,
		shutdown.WithPublisher(b.Publish))

	return &App{
		cfgm:     cfgm,
		logs:     logs,
		log:      log,
		bus:      b,
		store:    store,
		hist:     hist,
		bcast:    bcast,
		registry: registry,
		hostctl:  hostctl,
		module:   module,
		tick:     tick,
	}, nil
}

// Start launches the services, arms the module from the committed config,
// and begins watching the config file.
func (a *App) Start(ctx context.Context) error {
	a.sup = NewSupervisor(ctx, WithLogger(a.log), WithCancelOnError(true))
	runCtx := a.sup.Context()

	a.cfgm.SetValidator(a.validateConfig)

	a.bcast.Start(runCtx)
	a.hist.Start(runCtx)

	if err := a.module.Reload(a.cfgm.Get().Shutdown.ModuleConfig(), time.Now()); err != nil {
		// The module has disabled itself; the daemon keeps running so a
		// config fix can re-arm it without a restart.
		a.log.Warn("shutdown module start degraded", logx.Err(err))
	}

	a.sup.Go0("tick", a.tickLoop)

	updates := a.cfgm.Subscribe(2)
	a.sup.Go0("config.apply", func(ctx context.Context) {
		a.applyLoop(ctx, updates)
	})
	a.sup.Go("config.watch", a.cfgm.Watch)

	a.log.Info("daemon started", logx.Duration("tick_interval", a.tick))
	return nil
}

// Stop shuts everything down in dependency order.
func (a *App) Stop(ctx context.Context) error {
	if a.sup != nil {
		a.sup.Cancel()
		if err := a.sup.Wait(ctx); err != nil {
			a.log.Warn("supervised goroutines did not stop in time", logx.Err(err))
		}
	}

	a.hist.Stop(ctx)
	a.bcast.Stop(ctx)
	a.hostctl.Close()
	if a.store != nil {
		_ = a.store.Close()
	}

	a.log.Info("daemon stopped")
	return a.logs.Close()
}

// tickLoop drives the module's cooperative timers. Elapsed wall time is
// measured between ticks so a stalled scheduler still credits the full
// gap to the pending timers.
func (a *App) tickLoop(ctx context.Context) {
	t := time.NewTicker(a.tick)
	defer t.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			elapsed := now.Sub(last)
			last = now
			if elapsed <= 0 {
				continue
			}
			a.module.Update(elapsed)
		}
	}
}

func (a *App) applyLoop(ctx context.Context, updates chan *config.Config) {
	defer a.cfgm.Unsubscribe(updates)
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			a.applyConfig(cfg)
		}
	}
}

// applyConfig pushes a committed reload into the running services.
func (a *App) applyConfig(cfg *config.Config) {
	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	a.registry.Apply(descriptors(cfg))

	if err := a.module.Reload(cfg.Shutdown.ModuleConfig(), time.Now()); err != nil {
		a.log.Warn("shutdown config rejected; module disarmed", logx.Err(err))
	}
}

// validateConfig gates file reloads. Only fields the daemon cannot apply
// incrementally are hard errors here; a bad shutdown section is left for
// the module, which disarms and reports instead of blocking the reload.
func (a *App) validateConfig(_ context.Context, cfg *config.Config) error {
	if _, err := config.ParseDurationOrDefault("tick_interval", cfg.TickInterval, defaultTickInterval); err != nil {
		return err
	}
	if cfg.Storage != nil {
		if _, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	if cfg.Host.Unit == "" {
		return fmt.Errorf("host.unit must be set")
	}
	return nil
}

func storageConfig(cfg *config.Config) storage.Config {
	if cfg.Storage == nil {
		return storage.Config{}
	}
	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		busy = 0
	}
	return storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}
}

func descriptors(cfg *config.Config) []events.Descriptor {
	out := make([]events.Descriptor, 0, len(cfg.Events))
	for _, e := range cfg.Events {
		out = append(out, events.Descriptor{ID: e.ID, Description: e.Description})
	}
	return out
}

func newBroadcast(cfg *config.Config, root logx.Logger) (*broadcast.Service, error) {
	sinks := []broadcast.Sink{
		broadcast.NewConsoleSink(root.With(logx.String("comp", "broadcast"))),
	}
	if tg := cfg.Broadcast.Telegram; tg.Enabled {
		sink, err := telegram.New(telegram.Config{Token: tg.Token, ChatID: tg.ChatID})
		if err != nil {
			return nil, fmt.Errorf("telegram sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	return broadcast.New(broadcast.Config{
		RatePerSec: cfg.Broadcast.RatePerSec,
		QueueSize:  cfg.Broadcast.QueueSize,
	}, root.With(logx.String("comp", "broadcast")), sinks...), nil
}
