package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/wpstack/internal/platform/shell"
)

// Firewall drives ufw on the target.
type Firewall struct {
	runner shell.Runner
}

// NewFirewall returns a Firewall bound to runner.
func NewFirewall(runner shell.Runner) *Firewall {
	return &Firewall{runner: runner}
}

// Allow adds allow rules. ufw skips rules that already exist.
func (f *Firewall) Allow(ctx context.Context, rules ...string) error {
	for _, rule := range rules {
		args := append([]string{"allow"}, strings.Fields(rule)...)
		if _, err := f.runner.Run(ctx, shell.Cmd("ufw", args...)); err != nil {
			return fmt.Errorf("ufw allow %s: %w", rule, err)
		}
	}
	return nil
}

// Enable turns the firewall on without prompting.
func (f *Firewall) Enable(ctx context.Context) error {
	if _, err := f.runner.Run(ctx, shell.Cmd("ufw", "--force", "enable")); err != nil {
		return fmt.Errorf("ufw enable: %w", err)
	}
	return nil
}

// Active reports whether ufw is enabled.
func (f *Firewall) Active(ctx context.Context) (bool, error) {
	out, err := f.runner.Run(ctx, shell.Cmd("ufw", "status"))
	if err != nil {
		return false, fmt.Errorf("ufw status: %w", err)
	}
	return strings.Contains(out, "Status: active"), nil
}

// MissingRules returns the rules not yet in ufw's added user rules,
// preserving order.
func (f *Firewall) MissingRules(ctx context.Context, rules ...string) ([]string, error) {
	out, err := f.runner.Run(ctx, shell.Cmd("ufw", "show", "added"))
	if err != nil {
		return nil, fmt.Errorf("ufw show added: %w", err)
	}

	added := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 2 && fields[0] == "ufw" && fields[1] == "allow" {
			added[strings.Join(fields[2:], " ")] = true
		}
	}

	var missing []string
	for _, rule := range rules {
		if !added[strings.Join(strings.Fields(rule), " ")] {
			missing = append(missing, rule)
		}
	}
	return missing, nil
}
