package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordsCommandsAndFiles(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	ctx := context.Background()

	_, err := r.Run(ctx, Cmd("apt-get", "update"))
	require.NoError(t, err)
	require.NoError(t, r.WriteFile(ctx, "/etc/a", []byte("1"), 0o644))
	require.NoError(t, r.WriteFile(ctx, "/etc/b", []byte("2"), 0o600))
	require.NoError(t, r.WriteFile(ctx, "/etc/a", []byte("3"), 0o644))

	assert.Equal(t, []string{"apt-get update"}, r.Commands())
	assert.Equal(t, []string{"/etc/a", "/etc/b"}, r.Files())
	f, ok := r.File("/etc/a")
	require.True(t, ok)
	assert.Equal(t, "3", string(f.Data))
}

func TestRecorder_LaterResponsesWin(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.Respond("systemctl is-active", "active\n", 0)
	r.Respond("systemctl is-active nginx", "failed\n", 3)

	out, err := r.Run(context.Background(), Cmd("systemctl", "is-active", "mariadb"))
	require.NoError(t, err)
	assert.Equal(t, "active\n", out)

	out, err = r.Run(context.Background(), Cmd("systemctl", "is-active", "nginx"))
	require.Error(t, err)
	assert.Equal(t, "failed\n", out)
	assert.Equal(t, 3, ExitCode(err))
}

func TestNewDryRun_AnswersHostProbes(t *testing.T) {
	t.Parallel()
	r := NewDryRun(nil)
	ctx := context.Background()

	out, err := r.Run(ctx, Cmd("id", "-u"))
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	ok, err := Succeeds(ctx, r, Cmd("test", "-e", "/var/www/wordpress/wp-includes/version.php"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "dry-run", r.Target())
}
