package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/wpstack/internal/platform/shell"
)

// Systemd drives systemctl on the target.
type Systemd struct {
	runner shell.Runner
}

// NewSystemd returns a Systemd bound to runner.
func NewSystemd(runner shell.Runner) *Systemd {
	return &Systemd{runner: runner}
}

// State returns the unit state reported by "systemctl is-active", such as
// "active", "inactive" or "failed". A non-zero exit is not an error; it
// only means the unit is not active.
func (s *Systemd) State(ctx context.Context, unit string) (string, error) {
	out, err := s.runner.Run(ctx, shell.Cmd("systemctl", "is-active", unit))
	state := strings.TrimSpace(out)
	if err != nil {
		if shell.ExitCode(err) > 0 {
			if state == "" {
				state = "unknown"
			}
			return state, nil
		}
		return "", fmt.Errorf("systemctl is-active %s: %w", unit, err)
	}
	return state, nil
}

// EnableNow enables units at boot and starts them.
func (s *Systemd) EnableNow(ctx context.Context, units ...string) error {
	return s.do(ctx, append([]string{"enable", "--now"}, units...)...)
}

// Restart restarts a unit.
func (s *Systemd) Restart(ctx context.Context, unit string) error {
	return s.do(ctx, "restart", unit)
}

// Reload reloads a unit's configuration, starting it if it is stopped.
func (s *Systemd) Reload(ctx context.Context, unit string) error {
	return s.do(ctx, "reload-or-restart", unit)
}

func (s *Systemd) do(ctx context.Context, args ...string) error {
	if _, err := s.runner.Run(ctx, shell.Cmd("systemctl", args...)); err != nil {
		return fmt.Errorf("systemctl %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
