package shell

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadlineRunner records the remaining time of every call's context.
type deadlineRunner struct {
	*Recorder
	remaining []time.Duration
}

func (d *deadlineRunner) note(ctx context.Context) {
	deadline, ok := ctx.Deadline()
	if !ok {
		d.remaining = append(d.remaining, -1)
		return
	}
	d.remaining = append(d.remaining, time.Until(deadline))
}

func (d *deadlineRunner) Run(ctx context.Context, cmd Command) (string, error) {
	d.note(ctx)
	return d.Recorder.Run(ctx, cmd)
}

func (d *deadlineRunner) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	d.note(ctx)
	return d.Recorder.WriteFile(ctx, path, data, perm)
}

func TestWithTimeout_BoundsEveryCall(t *testing.T) {
	t.Parallel()
	inner := &deadlineRunner{Recorder: NewRecorder()}
	r := WithTimeout(inner, time.Minute)

	_, err := r.Run(context.Background(), Cmd("apt-get", "update"))
	require.NoError(t, err)
	require.NoError(t, r.WriteFile(context.Background(), "/etc/x", []byte("x"), 0o644))

	require.Len(t, inner.remaining, 2)
	for _, rem := range inner.remaining {
		assert.Greater(t, rem, time.Duration(0))
		assert.LessOrEqual(t, rem, time.Minute)
	}
	assert.Equal(t, "recorder", r.Target())
	assert.Equal(t, []string{"apt-get update"}, inner.Commands())
}

func TestWithTimeout_KeepsShorterBound(t *testing.T) {
	t.Parallel()
	rec := NewRecorder()

	assert.Same(t, rec, WithTimeout(rec, 0))

	short := WithTimeout(rec, time.Second)
	assert.Same(t, short, WithTimeout(short, time.Minute))
	assert.NotSame(t, short, WithTimeout(short, time.Millisecond))
}

func TestWithTimeout_StopsLocalCommand(t *testing.T) {
	t.Parallel()
	r := WithTimeout(NewLocal(nil), 50*time.Millisecond)

	_, err := r.Run(context.Background(), Cmd("sleep", "5"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
