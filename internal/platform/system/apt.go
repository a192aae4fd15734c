package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/wpstack/internal/platform/shell"
)

var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive", "NEEDRESTART_MODE=a"}

// Apt drives apt-get and dpkg-query on the target.
type Apt struct {
	runner shell.Runner
}

// NewApt returns an Apt bound to runner.
func NewApt(runner shell.Runner) *Apt {
	return &Apt{runner: runner}
}

// Update refreshes the package index.
func (a *Apt) Update(ctx context.Context) error {
	_, err := a.runner.Run(ctx, shell.Cmd("apt-get", "update", "-q").WithEnv(aptEnv...))
	if err != nil {
		return fmt.Errorf("apt-get update: %w", err)
	}
	return nil
}

// Upgrade upgrades installed packages, keeping existing config files.
func (a *Apt) Upgrade(ctx context.Context) error {
	_, err := a.runner.Run(ctx, shell.Cmd("apt-get", "-y", "-q",
		"-o", "Dpkg::Options::=--force-confold", "upgrade").WithEnv(aptEnv...))
	if err != nil {
		return fmt.Errorf("apt-get upgrade: %w", err)
	}
	return nil
}

// Install installs packages. An empty list is a no-op.
func (a *Apt) Install(ctx context.Context, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	args := append([]string{"install", "-y", "-q", "--no-install-recommends"}, packages...)
	if _, err := a.runner.Run(ctx, shell.Cmd("apt-get", args...).WithEnv(aptEnv...)); err != nil {
		return fmt.Errorf("apt-get install: %w", err)
	}
	return nil
}

// Missing returns the subset of packages dpkg does not report as
// installed, preserving order.
func (a *Apt) Missing(ctx context.Context, packages ...string) ([]string, error) {
	if len(packages) == 0 {
		return nil, nil
	}
	args := append([]string{"-W", "-f=${Package} ${db:Status-Status}\\n"}, packages...)
	out, err := a.runner.Run(ctx, shell.Cmd("dpkg-query", args...))
	// dpkg-query exits 1 when some packages are unknown; the output is
	// still usable.
	if err != nil && shell.ExitCode(err) != 1 {
		return nil, fmt.Errorf("dpkg-query: %w", err)
	}

	installed := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == "installed" {
			installed[strings.SplitN(fields[0], ":", 2)[0]] = true
		}
	}

	var missing []string
	for _, p := range packages {
		if !installed[p] {
			missing = append(missing, p)
		}
	}
	return missing, nil
}
