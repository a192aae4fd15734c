// Package prerequisites checks that the target host carries the base tools
// provisioning shells out to before anything is changed.
package prerequisites

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/wpstack/internal/platform/shell"
)

// Tool represents a program that may be required on the target.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// Package names the Debian package that ships the tool.
	Package string
}

// DefaultTools returns the tools every run depends on.
func DefaultTools() []Tool {
	return []Tool{
		{Name: "apt-get", Required: true, Description: "Installs the stack packages", Package: "apt"},
		{Name: "dpkg-query", Required: true, Description: "Detects already installed packages", Package: "dpkg"},
		{Name: "systemctl", Required: true, Description: "Enables and inspects services", Package: "systemd"},
		{Name: "hostname", Required: true, Description: "Detects the server address", Package: "hostname"},
		{Name: "tar", Required: true, Description: "Unpacks the application archive", Package: "tar"},
	}
}

// OptionalTools returns tools that are installed later if missing.
func OptionalTools() []Tool {
	return []Tool{
		{Name: "curl", Required: false, Description: "Downloads the application archive", Package: "curl"},
		{Name: "ufw", Required: false, Description: "Manages the firewall", Package: "ufw"},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (package %s)", tool.Name, tool.Package))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available on the target.
// Only transport failures are returned as errors; a missing tool is
// reported in the results.
func Check(ctx context.Context, runner shell.Runner, tools []Tool) (*CheckResults, error) {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		out, err := runner.Run(ctx, shell.Cmd("sh", "-c", "command -v "+tool.Name))
		switch {
		case err == nil:
			result.Found = true
			result.Path = strings.TrimSpace(out)
		case shell.ExitCode(err) > 0:
			results.Missing = append(results.Missing, tool)
		default:
			return nil, fmt.Errorf("failed to check for %s: %w", tool.Name, err)
		}

		results.Results = append(results.Results, result)
	}

	return results, nil
}

// CheckDefault checks the required tools.
func CheckDefault(ctx context.Context, runner shell.Runner) (*CheckResults, error) {
	return Check(ctx, runner, DefaultTools())
}

// CheckAll checks all tools (default + optional).
func CheckAll(ctx context.Context, runner shell.Runner) (*CheckResults, error) {
	defaults := DefaultTools()
	optional := OptionalTools()
	all := make([]Tool, 0, len(defaults)+len(optional))
	all = append(all, defaults...)
	all = append(all, optional...)
	return Check(ctx, runner, all)
}
