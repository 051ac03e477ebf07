//go:build linux

package host

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

type systemdOps struct {
	conn *dbus.Conn
}

func newUnitOps(ctx context.Context) (unitOps, error) {
	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("host: systemd dbus connect: %w", err)
	}
	return &systemdOps{conn: conn}, nil
}

func (o *systemdOps) Stop(ctx context.Context, unit string) error {
	done := make(chan string, 1)
	if _, err := o.conn.StopUnitContext(ctx, unit, "replace", done); err != nil {
		return err
	}
	return waitJob(ctx, done)
}

func (o *systemdOps) Restart(ctx context.Context, unit string) error {
	done := make(chan string, 1)
	if _, err := o.conn.RestartUnitContext(ctx, unit, "replace", done); err != nil {
		return err
	}
	return waitJob(ctx, done)
}

func (o *systemdOps) Close() {
	o.conn.Close()
}

func waitJob(ctx context.Context, done <-chan string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-done:
		if result != "done" {
			return fmt.Errorf("host: systemd job result %q", result)
		}
		return nil
	}
}
