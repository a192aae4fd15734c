package shell

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// File is a file captured by a Recorder.
type File struct {
	Path string
	Data []byte
	Perm os.FileMode
}

type response struct {
	prefix string
	output string
	code   int
}

// Recorder captures commands and file writes instead of executing them.
// Responses can be scripted per command prefix; unmatched commands
// succeed with empty output.
type Recorder struct {
	mu        sync.Mutex
	target    string
	logger    *slog.Logger
	responses []response
	commands  []Command
	files     map[string]File
	order     []string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{target: "recorder", files: make(map[string]File)}
}

// NewDryRun returns a Recorder that logs every action at INFO and answers
// the host probes the orchestrator needs (privilege, IP, service state).
func NewDryRun(logger *slog.Logger) *Recorder {
	r := NewRecorder()
	r.target = "dry-run"
	r.logger = logger
	r.Respond("id -u", "0\n", 0)
	r.Respond("hostname -I", "127.0.0.1\n", 0)
	r.Respond("systemctl is-active", "active\n", 0)
	r.Respond("test -e", "", 1)
	return r
}

// Respond scripts the result for commands whose rendering starts with
// prefix. Later registrations take precedence.
func (r *Recorder) Respond(prefix, output string, exitCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, response{prefix: prefix, output: output, code: exitCode})
}

// Target implements Runner.
func (r *Recorder) Target() string { return r.target }

// Close implements Runner.
func (r *Recorder) Close() error { return nil }

// Run implements Runner.
func (r *Recorder) Run(_ context.Context, cmd Command) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, cmd)
	line := cmd.String()
	if r.logger != nil {
		r.logger.Info("would run", "cmd", line)
	}

	plain := strings.Join(append([]string{cmd.Name}, cmd.Args...), " ")
	for i := len(r.responses) - 1; i >= 0; i-- {
		resp := r.responses[i]
		if !strings.HasPrefix(plain, resp.prefix) {
			continue
		}
		if resp.code != 0 {
			return resp.output, &ExitError{Command: line, ExitCode: resp.code, Output: resp.output}
		}
		return resp.output, nil
	}
	return "", nil
}

// WriteFile implements Runner.
func (r *Recorder) WriteFile(_ context.Context, path string, data []byte, perm os.FileMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.files[path]; !seen {
		r.order = append(r.order, path)
	}
	r.files[path] = File{Path: path, Data: append([]byte{}, data...), Perm: perm}
	if r.logger != nil {
		r.logger.Info("would write file", "path", path, "bytes", len(data), "mode", perm.String())
	}
	return nil
}

// Commands returns the recorded commands rendered as plain strings
// (name and args joined by spaces).
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commands))
	for i, c := range r.commands {
		out[i] = strings.Join(append([]string{c.Name}, c.Args...), " ")
	}
	return out
}

// Raw returns the recorded commands.
func (r *Recorder) Raw() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command{}, r.commands...)
}

// File returns a written file by path.
func (r *Recorder) File(path string) (File, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[path]
	return f, ok
}

// Files returns written paths in first-write order.
func (r *Recorder) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.order...)
}
