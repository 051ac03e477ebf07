//go:build !linux

package host

import (
	"context"
	"errors"
)

var ErrUnsupported = errors.New("host: systemd control requires linux")

type stubOps struct{}

func newUnitOps(context.Context) (unitOps, error) {
	// Connect lazily never helps here; fail fast so a misdeployed binary
	// is caught at startup rather than at shutdown time.
	return nil, ErrUnsupported
}

func (stubOps) Stop(context.Context, string) error    { return ErrUnsupported }
func (stubOps) Restart(context.Context, string) error { return ErrUnsupported }
func (stubOps) Close()                                {}
