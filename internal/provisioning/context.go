package provisioning

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/credentials"
	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/util/retry"
)

// SaltSource supplies authentication salts for the application config.
type SaltSource interface {
	Fetch(ctx context.Context) (credentials.Salts, error)
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config      *config.Config
	State       *State
	Runner      shell.Runner
	Observer    Observer
	Logger      *slog.Logger
	Timeouts    *config.Timeouts
	Credentials *credentials.Credentials
	Salts       SaltSource
	RunID       string
	DryRun      bool
}

// NewContext creates a new provisioning context with a fresh run ID. Every
// command and file write on runner is bounded by the command timeout.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	runner shell.Runner,
	creds *credentials.Credentials,
	logger *slog.Logger,
) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	timeouts := config.LoadTimeouts()
	return &Context{
		Context:     ctx,
		Config:      cfg,
		State:       NewState(),
		Runner:      shell.WithTimeout(runner, timeouts.Command),
		Observer:    NewLogObserver(logger),
		Logger:      logger,
		Timeouts:    timeouts,
		Credentials: creds,
		Salts: credentials.NewSaltFetcher(cfg.Application.SaltURL, timeouts.Download, logger,
			retry.WithAttempts(timeouts.RetryAttempts),
			retry.WithInitialDelay(timeouts.RetryDelay),
		),
		RunID: uuid.NewString(),
	}
}

// Run executes cmd on the target.
func (c *Context) Run(cmd shell.Command) (string, error) {
	return c.Runner.Run(c.Context, cmd)
}

// WriteFile writes a file on the target and records it in the state.
func (c *Context) WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := c.Runner.WriteFile(c.Context, path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	c.State.RecordFile(path)
	c.Log().Info("wrote file", "path", path, "mode", perm.String())
	return nil
}

// Chown sets owner and group of path on the target.
func (c *Context) Chown(owner, path string, recursive bool) error {
	args := []string{owner + ":" + owner, path}
	if recursive {
		args = append([]string{"-R"}, args...)
	}
	if _, err := c.Run(shell.Cmd("chown", args...)); err != nil {
		return fmt.Errorf("failed to chown %s: %w", path, err)
	}
	return nil
}

// Log returns the run logger, falling back to the default logger.
func (c *Context) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
