package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// Command is a single external program invocation.
type Command struct {
	Name  string
	Args  []string
	Env   []string // KEY=VALUE pairs added to the environment
	Stdin []byte
}

// Cmd builds a Command from a program name and arguments.
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// WithEnv returns a copy of c with additional environment variables.
func (c Command) WithEnv(env ...string) Command {
	c.Env = append(append([]string{}, c.Env...), env...)
	return c
}

// WithStdin returns a copy of c reading data on stdin.
func (c Command) WithStdin(data []byte) Command {
	c.Stdin = data
	return c
}

// String renders the command as a POSIX shell line. Stdin is not part of
// the rendering.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Env)+len(c.Args)+1)
	for _, kv := range c.Env {
		parts = append(parts, shellescape.Quote(kv))
	}
	parts = append(parts, shellescape.Quote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, shellescape.Quote(a))
	}
	return strings.Join(parts, " ")
}

// Runner executes commands and writes files on the target host.
type Runner interface {
	// Run executes cmd and returns its combined output. A non-zero exit
	// yields an *ExitError.
	Run(ctx context.Context, cmd Command) (string, error)

	// WriteFile atomically replaces path with data, creating parent
	// directories.
	WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error

	// Target describes the host for log and summary output.
	Target() string

	Close() error
}

// ExitError reports a command that ran but did not succeed.
type ExitError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
	if out := lastLines(e.Output, 5); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit status carried by err, or -1 when err is not
// an *ExitError.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return -1
}

// Succeeds runs cmd and reports whether it exited zero. Errors other than
// a non-zero exit are returned.
func Succeeds(ctx context.Context, r Runner, cmd Command) (bool, error) {
	_, err := r.Run(ctx, cmd)
	if err == nil {
		return true, nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode > 0 {
		return false, nil
	}
	return false, err
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
