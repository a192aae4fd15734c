package system

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/wpstack/internal/platform/shell"
)

// ErrNotRoot is returned when the target session lacks root privileges.
var ErrNotRoot = errors.New("root privileges required")

// CheckPrivileges verifies the effective user on the target is root.
func CheckPrivileges(ctx context.Context, runner shell.Runner) error {
	out, err := runner.Run(ctx, shell.Cmd("id", "-u"))
	if err != nil {
		return fmt.Errorf("failed to determine effective user: %w", err)
	}
	if uid := strings.TrimSpace(out); uid != "0" {
		return fmt.Errorf("%w: effective uid on %s is %s", ErrNotRoot, runner.Target(), uid)
	}
	return nil
}

// ServerIP returns the first address reported by "hostname -I".
func ServerIP(ctx context.Context, runner shell.Runner) (string, error) {
	out, err := runner.Run(ctx, shell.Cmd("hostname", "-I"))
	if err != nil {
		return "", fmt.Errorf("failed to detect server address: %w", err)
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", errors.New("failed to detect server address: hostname -I returned nothing")
	}
	return fields[0], nil
}

// PathExists reports whether path exists on the target.
func PathExists(ctx context.Context, runner shell.Runner, path string) (bool, error) {
	return shell.Succeeds(ctx, runner, shell.Cmd("test", "-e", path))
}
