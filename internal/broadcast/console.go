package broadcast

import (
	"context"

	"shutdownd/pkg/logx"
)

// ConsoleSink writes broadcasts to the daemon log. It stands in for the
// host's world-session message channel on deployments without one.
type ConsoleSink struct {
	log logx.Logger
}

func NewConsoleSink(log logx.Logger) *ConsoleSink { return &ConsoleSink{log: log} }

func (c *ConsoleSink) Name() string { return "console" }

func (c *ConsoleSink) Send(_ context.Context, text string) error {
	c.log.Info("server broadcast", logx.String("message", text))
	return nil
}
