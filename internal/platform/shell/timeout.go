package shell

import (
	"context"
	"os"
	"time"
)

// timeoutRunner bounds every call on the wrapped Runner.
type timeoutRunner struct {
	Runner
	timeout time.Duration
}

// WithTimeout returns a Runner whose Run and WriteFile calls each get their
// own deadline of d. A non-positive d returns r unchanged, and wrapping an
// already bounded runner keeps the shorter bound.
func WithTimeout(r Runner, d time.Duration) Runner {
	if d <= 0 {
		return r
	}
	if t, ok := r.(*timeoutRunner); ok && t.timeout <= d {
		return r
	}
	return &timeoutRunner{Runner: r, timeout: d}
}

// Run implements Runner.
func (t *timeoutRunner) Run(ctx context.Context, cmd Command) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Runner.Run(ctx, cmd)
}

// WriteFile implements Runner.
func (t *timeoutRunner) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Runner.WriteFile(ctx, path, data, perm)
}
