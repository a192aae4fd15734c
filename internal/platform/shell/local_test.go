package shell

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_RunSuccess(t *testing.T) {
	t.Parallel()
	l := NewLocal(nil)

	out, err := l.Run(context.Background(), Cmd("sh", "-c", "echo hello"))

	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
	assert.Equal(t, "localhost", l.Target())
}

func TestLocal_RunNonZeroExit(t *testing.T) {
	t.Parallel()
	l := NewLocal(nil)

	out, err := l.Run(context.Background(), Cmd("sh", "-c", "echo broken >&2; exit 3"))

	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
	assert.Contains(t, out, "broken")
	assert.Contains(t, err.Error(), "broken")
}

func TestLocal_RunStdinAndEnv(t *testing.T) {
	t.Parallel()
	l := NewLocal(nil)

	out, err := l.Run(context.Background(),
		Cmd("sh", "-c", `read line; echo "$line-$WPSTACK_TEST"`).
			WithStdin([]byte("from-stdin\n")).
			WithEnv("WPSTACK_TEST=from-env"))

	require.NoError(t, err)
	assert.Equal(t, "from-stdin-from-env\n", out)
}

func TestLocal_RunMissingBinary(t *testing.T) {
	t.Parallel()
	l := NewLocal(nil)

	_, err := l.Run(context.Background(), Cmd("wpstack-no-such-binary"))

	require.Error(t, err)
	assert.Equal(t, -1, ExitCode(err))
	assert.Contains(t, err.Error(), "failed to start")
}

func TestLocal_RunCanceled(t *testing.T) {
	t.Parallel()
	l := NewLocal(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := l.Run(ctx, Cmd("sleep", "5"))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocal_WriteFile(t *testing.T) {
	t.Parallel()
	l := NewLocal(nil)
	path := filepath.Join(t.TempDir(), "etc", "nginx", "site.conf")

	require.NoError(t, l.WriteFile(context.Background(), path, []byte("server {}\n"), 0o640))
	require.NoError(t, l.WriteFile(context.Background(), path, []byte("server { listen 80; }\n"), 0o640))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "server { listen 80; }\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}
