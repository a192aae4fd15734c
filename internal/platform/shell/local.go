package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Local runs commands on the current machine.
type Local struct {
	logger *slog.Logger
}

// NewLocal creates a runner for the current machine.
func NewLocal(logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{logger: logger}
}

// Target implements Runner.
func (l *Local) Target() string { return "localhost" }

// Close implements Runner.
func (l *Local) Close() error { return nil }

// Run implements Runner.
func (l *Local) Run(ctx context.Context, cmd Command) (string, error) {
	line := cmd.String()
	start := time.Now()

	// #nosec G204 -- commands are assembled from configuration validated upfront
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Env = append(os.Environ(), cmd.Env...)
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}
	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out

	err := c.Run()
	output := out.String()
	l.logger.Debug("command finished", "cmd", line, "duration", time.Since(start).Round(time.Millisecond), "output", lastLines(output, 20))

	if err == nil {
		return output, nil
	}
	if ctx.Err() != nil {
		return output, fmt.Errorf("command %q interrupted: %w", line, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, &ExitError{Command: line, ExitCode: exitErr.ExitCode(), Output: output, Err: err}
	}
	return output, fmt.Errorf("failed to start %q: %w", line, err)
}

// WriteFile implements Runner.
func (l *Local) WriteFile(_ context.Context, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	l.logger.Debug("file written", "path", path, "bytes", len(data), "mode", fmt.Sprintf("%04o", perm))
	return nil
}
