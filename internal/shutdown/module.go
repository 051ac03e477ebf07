package shutdown

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"shutdownd/internal/ticker"
	"shutdownd/pkg/logx"
)

// Mask distinguishes a permanent shutdown from a restart at the host level.
type Mask uint8

const (
	MaskIdle Mask = 1 << iota
	MaskRestart
)

func (m Mask) String() string {
	if m == MaskRestart {
		return "restart"
	}
	return "idle"
}

// ExitCode is the fixed exit code handed to the host with every automated
// shutdown request.
const ExitCode = 0

// Host is the host-side shutdown control consumed by the module. The host
// owns the final-second countdown and process termination; the module only
// hands it the lead time, mask and exit code.
type Host interface {
	ShutdownCancel()
	ShutdownServ(delay time.Duration, mask Mask, exitCode int) error
}

// Broadcaster delivers a server-wide text message. Must not block.
type Broadcaster interface {
	SendServerMessage(text string)
}

// EventRegistry starts auxiliary game events and exposes their descriptions
// for logging.
type EventRegistry interface {
	StartEvent(id uint32) error
	EventMap() map[uint32]string
}

// State of the module: Disabled (no timer pending) or Armed.
type State int

const (
	StateDisabled State = iota
	StateArmed
)

// EventKind tags module lifecycle notifications.
type EventKind string

const (
	EventArmed        EventKind = "armed"
	EventDisabled     EventKind = "disabled"
	EventPreAnnounced EventKind = "pre_announced"
	EventStarted      EventKind = "event_started"
)

// Event is a lifecycle notification emitted by the module. Observers
// (history, operator notification) subscribe through the publish hook.
type Event struct {
	Kind    EventKind
	At      time.Time
	Action  Action
	Message string
	Plan    Plan
	EventID uint32
}

// internal scheduler callback tags; the scheduled closure carries only the
// tag, all state lives on the module.
type firedEvent int

const preAnnounceFired firedEvent = iota

// Module drives one recurring shutdown timer: Reload (re)arms it, Update
// advances it on the host tick. At most one pre-announce task is pending at
// any time.
//
// Reload and Update are typically called from different goroutines (config
// watcher vs tick loop), so the module serializes them internally.
type Module struct {
	mu sync.Mutex

	log    logx.Logger
	sched  *ticker.Scheduler
	host   Host
	bcast  Broadcaster
	events EventRegistry

	publish func(Event) // optional

	state    State
	mask     Mask
	plan     Plan
	action   Action
	template string
}

type Option func(*Module)

// WithPublisher installs a hook receiving module lifecycle events.
func WithPublisher(fn func(Event)) Option {
	return func(m *Module) { m.publish = fn }
}

func NewModule(log logx.Logger, host Host, bcast Broadcaster, events EventRegistry, opts ...Option) *Module {
	m := &Module{
		log:    log,
		sched:  ticker.New(),
		host:   host,
		bcast:  bcast,
		events: events,
		state:  StateDisabled,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Module) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Plan returns the currently armed plan. Zero value while Disabled.
func (m *Module) Plan() Plan {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateArmed {
		return Plan{}
	}
	return m.plan
}

// Reload validates cfg and re-arms the timer against now. It is re-entrant:
// call it at startup and again on every config reload. Invalid config or a
// cleared enabled flag transitions to Disabled and leaves the rest of the
// process untouched. Side effects (cancel, schedule) happen only after
// validation has passed.
func (m *Module) Reload(cfg Config, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !cfg.Enabled {
		m.disarmLocked(now)
		m.log.Info("auto-shutdown disabled")
		return nil
	}

	plan, err := BuildPlan(cfg, now)
	if err != nil {
		m.disarmLocked(now)
		m.log.Error("auto-shutdown config rejected; module disabled", logx.Err(err))
		return err
	}

	// Validation passed: replace whatever was armed before.
	m.sched.CancelAll()
	m.host.ShutdownCancel()

	if plan.PreAnnounceClamped {
		m.log.Warn("pre-announce lead above one day; using one hour",
			logx.Duration("configured", cfg.PreAnnounce))
	}

	m.log.Info("auto-shutdown armed",
		logx.Time("shutdown_at", plan.NextShutdownAt),
		logx.String("shutdown_in", FormatDurationWords(plan.UntilShutdown)),
		logx.Time("pre_announce_at", plan.NextPreAnnounceAt),
		logx.String("pre_announce_in", FormatDurationWords(plan.UntilPreAnnounce)),
		logx.Bool("weekly", plan.Weekly),
		logx.String("action", string(actionOrDefault(cfg.Action))))

	m.startEventsLocked(cfg.StartEvents, now)

	m.action = actionOrDefault(cfg.Action)
	if m.action == ActionShutdown {
		m.mask = MaskIdle
	} else {
		m.mask = MaskRestart
	}
	m.plan = plan
	m.template = strings.TrimSpace(cfg.Message)
	if m.template == "" {
		m.template = DefaultMessageTemplate
	}

	m.sched.Schedule(plan.UntilPreAnnounce, func() { m.dispatchLocked(preAnnounceFired) })
	m.state = StateArmed

	m.publishLocked(Event{Kind: EventArmed, At: now, Action: m.action, Plan: plan})
	return nil
}

// Update advances the pending task by elapsed. No-op while Disabled.
// Callbacks fire synchronously before Update returns.
func (m *Module) Update(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateArmed {
		return
	}
	m.sched.Update(elapsed)
}

func (m *Module) disarmLocked(now time.Time) {
	m.sched.CancelAll()
	m.host.ShutdownCancel()
	if m.state == StateArmed {
		m.publishLocked(Event{Kind: EventDisabled, At: now})
	}
	m.state = StateDisabled
	m.plan = Plan{}
}

// dispatchLocked runs inside Update with the module lock already held.
func (m *Module) dispatchLocked(ev firedEvent) {
	switch ev {
	case preAnnounceFired:
		m.handlePreAnnounceLocked()
	}
}

func (m *Module) handlePreAnnounceLocked() {
	lead := m.plan.PreAnnounceLead
	msg := strings.ReplaceAll(m.template, "%s", FormatDurationWords(lead))

	m.log.Info("pre-announce", logx.String("message", msg))
	m.bcast.SendServerMessage(msg)

	if err := m.host.ShutdownServ(lead, m.mask, ExitCode); err != nil {
		m.log.Error("host shutdown request failed", logx.Err(err),
			logx.Duration("delay", lead), logx.String("mask", m.mask.String()))
	}

	m.publishLocked(Event{
		Kind:    EventPreAnnounced,
		At:      time.Now(),
		Action:  m.action,
		Message: msg,
		Plan:    m.plan,
	})
}

// startEventsLocked starts every auxiliary event named in the space-separated
// id list. Blank tokens are skipped; unknown or non-numeric tokens are logged
// and skipped rather than aborting the arm.
func (m *Module) startEventsLocked(list string, now time.Time) {
	if m.events == nil {
		return
	}
	descriptions := m.events.EventMap()

	for _, token := range strings.Split(list, " ") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id64, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			m.log.Warn("skipping malformed event id", logx.String("token", token))
			continue
		}
		id := uint32(id64)
		if err := m.events.StartEvent(id); err != nil {
			m.log.Warn("failed to start event", logx.Uint32("event", id), logx.Err(err))
			continue
		}
		m.log.Info("starting event",
			logx.Uint32("event", id), logx.String("description", descriptions[id]))
		m.publishLocked(Event{Kind: EventStarted, At: now, EventID: id, Message: descriptions[id]})
	}
}

func (m *Module) publishLocked(e Event) {
	if m.publish != nil {
		m.publish(e)
	}
}

func actionOrDefault(a Action) Action {
	if a == ActionShutdown {
		return ActionShutdown
	}
	return ActionRestart
}
