package system

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/wpstack/internal/platform/shell"
)

func TestApt_InstallRunsNoninteractive(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	apt := NewApt(r)

	require.NoError(t, apt.Update(context.Background()))
	require.NoError(t, apt.Install(context.Background(), "nginx", "mariadb-server"))
	require.NoError(t, apt.Install(context.Background()))

	raw := r.Raw()
	require.Len(t, raw, 2)
	assert.Equal(t, "apt-get install -y -q --no-install-recommends nginx mariadb-server", r.Commands()[1])
	assert.Contains(t, raw[1].Env, "DEBIAN_FRONTEND=noninteractive")
}

func TestApt_InstallFailureIsWrapped(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	r.Respond("apt-get install", "E: Unable to locate package nope\n", 100)

	err := NewApt(r).Install(context.Background(), "nope")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "apt-get install")
	assert.Equal(t, 100, shell.ExitCode(err))
}

func TestApt_Missing(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	r.Respond("dpkg-query", "nginx installed\ncurl:amd64 installed\nufw not-installed\n", 1)

	missing, err := NewApt(r).Missing(context.Background(), "nginx", "curl", "ufw", "php8.2-fpm")

	require.NoError(t, err)
	assert.Equal(t, []string{"ufw", "php8.2-fpm"}, missing)
}

func TestApt_MissingPropagatesRealFailures(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	r.Respond("dpkg-query", "", 2)

	_, err := NewApt(r).Missing(context.Background(), "nginx")
	assert.Error(t, err)
}

func TestSystemd_State(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	r.Respond("systemctl is-active nginx", "active\n", 0)
	r.Respond("systemctl is-active mariadb", "failed\n", 3)
	r.Respond("systemctl is-active php8.2-fpm", "", 4)
	sd := NewSystemd(r)
	ctx := context.Background()

	state, err := sd.State(ctx, "nginx")
	require.NoError(t, err)
	assert.Equal(t, "active", state)

	state, err = sd.State(ctx, "mariadb")
	require.NoError(t, err)
	assert.Equal(t, "failed", state)

	state, err = sd.State(ctx, "php8.2-fpm")
	require.NoError(t, err)
	assert.Equal(t, "unknown", state)
}

func TestSystemd_Commands(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	sd := NewSystemd(r)
	ctx := context.Background()

	require.NoError(t, sd.EnableNow(ctx, "mariadb", "nginx"))
	require.NoError(t, sd.Restart(ctx, "php8.2-fpm"))
	require.NoError(t, sd.Reload(ctx, "nginx"))

	assert.Equal(t, []string{
		"systemctl enable --now mariadb nginx",
		"systemctl restart php8.2-fpm",
		"systemctl reload-or-restart nginx",
	}, r.Commands())
}

func TestFirewall(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	r.Respond("ufw status", "Status: active\n", 0)
	fw := NewFirewall(r)
	ctx := context.Background()

	require.NoError(t, fw.Allow(ctx, "OpenSSH", "80/tcp", "from 10.0.0.0/8 to any port 22"))
	require.NoError(t, fw.Enable(ctx))
	active, err := fw.Active(ctx)
	require.NoError(t, err)

	assert.True(t, active)
	assert.Equal(t, []string{
		"ufw allow OpenSSH",
		"ufw allow 80/tcp",
		"ufw allow from 10.0.0.0/8 to any port 22",
		"ufw --force enable",
		"ufw status",
	}, r.Commands())
}

func TestCheckPrivileges(t *testing.T) {
	t.Parallel()

	root := shell.NewRecorder()
	root.Respond("id -u", "0\n", 0)
	assert.NoError(t, CheckPrivileges(context.Background(), root))

	user := shell.NewRecorder()
	user.Respond("id -u", "1000\n", 0)
	err := CheckPrivileges(context.Background(), user)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRoot))
	assert.Contains(t, err.Error(), "1000")
}

func TestServerIP(t *testing.T) {
	t.Parallel()

	r := shell.NewRecorder()
	r.Respond("hostname -I", "203.0.113.7 10.0.0.2 fe80::1\n", 0)
	ip, err := ServerIP(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)

	empty := shell.NewRecorder()
	empty.Respond("hostname -I", "\n", 0)
	_, err = ServerIP(context.Background(), empty)
	assert.Error(t, err)
}

func TestPathExists(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	r.Respond("test -e /missing", "", 1)

	ok, err := PathExists(context.Background(), r, "/var/www/wordpress")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = PathExists(context.Background(), r, "/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFirewall_MissingRules(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	r.Respond("ufw show added", "Added user rules (see 'ufw status' for running firewall):\n"+
		"ufw allow OpenSSH\n"+
		"ufw allow from 10.0.0.0/8 to any port 22\n", 0)

	missing, err := NewFirewall(r).MissingRules(context.Background(),
		"OpenSSH", "80/tcp", "from  10.0.0.0/8 to any port 22")

	require.NoError(t, err)
	assert.Equal(t, []string{"80/tcp"}, missing)
}

func TestFirewall_MissingRulesFailure(t *testing.T) {
	t.Parallel()
	r := shell.NewRecorder()
	r.Respond("ufw show added", "ERROR: problem running\n", 1)

	_, err := NewFirewall(r).MissingRules(context.Background(), "OpenSSH")
	assert.Error(t, err)
}
