// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"sigs.k8s.io/yaml"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/provisioning"
)

// Result formats.
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// SSHOptions selects a remote target.
type SSHOptions struct {
	Host    string
	User    string
	KeyPath string
	Port    int
}

// TargetOptions are shared by every command that talks to a host.
type TargetOptions struct {
	ConfigPath string
	SSH        SSHOptions
	Plain      bool
	Output     string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads and validates the configuration file.
	loadConfig = config.Load

	// newLocalRunner creates a runner for this machine.
	newLocalRunner = func(logger *slog.Logger) shell.Runner {
		return shell.NewLocal(logger)
	}

	// newSSHRunner creates a runner for a remote host.
	newSSHRunner = func(cfg shell.SSHConfig, logger *slog.Logger) (shell.Runner, error) {
		return shell.NewSSH(cfg, logger)
	}

	// newDryRunRunner creates a runner that only records.
	newDryRunRunner = func(logger *slog.Logger) shell.Runner {
		return shell.NewDryRun(logger)
	}

	// readFile reads the SSH private key.
	readFile = os.ReadFile

	// isInteractive reports whether stdin and stdout are terminals.
	isInteractive = func() bool {
		return isTerminal(os.Stdin) && isTerminal(os.Stdout)
	}

	// stdout receives summaries and plain progress output.
	stdout io.Writer = os.Stdout
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadValidConfig loads the configuration and tags failures as
// configuration errors.
func loadValidConfig(path string) (*config.Config, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, provisioning.NewError(provisioning.KindConfig, "", err)
	}
	return cfg, nil
}

func checkOutput(format string) error {
	switch format {
	case "", OutputText, OutputYAML:
		return nil
	}
	return provisioning.NewError(provisioning.KindConfig, "", fmt.Errorf("unknown output format %q", format))
}

// buildRunner returns the runner for the selected target.
func buildRunner(opts TargetOptions, dryRun bool, timeouts *config.Timeouts, logger *slog.Logger) (shell.Runner, error) {
	if dryRun {
		return newDryRunRunner(logger), nil
	}
	if opts.SSH.Host == "" {
		return newLocalRunner(logger), nil
	}

	keyPath := opts.SSH.KeyPath
	if keyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, provisioning.NewError(provisioning.KindConfig, "", fmt.Errorf("cannot locate default ssh key: %w", err))
		}
		keyPath = filepath.Join(home, ".ssh", "id_ed25519")
	}
	key, err := readFile(keyPath)
	if err != nil {
		return nil, provisioning.NewError(provisioning.KindConfig, "", fmt.Errorf("failed to read ssh key: %w", err))
	}

	user := opts.SSH.User
	if user == "" {
		user = "root"
	}
	runner, err := newSSHRunner(shell.SSHConfig{
		Host:        opts.SSH.Host,
		Port:        opts.SSH.Port,
		User:        user,
		PrivateKey:  key,
		Sudo:        user != "root",
		DialTimeout: timeouts.SSHDial,
	}, logger)
	if err != nil {
		return nil, provisioning.NewError(provisioning.KindConfig, "", err)
	}
	return runner, nil
}

// writeYAML renders v as YAML to w.
func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// closeRunner closes r, logging rather than returning the error.
func closeRunner(r shell.Runner, logger *slog.Logger) {
	if err := r.Close(); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("failed to close connection", "target", r.Target(), "err", err)
	}
}

