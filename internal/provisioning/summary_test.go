package provisioning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/credentials"
)

func TestSiteURLs(t *testing.T) {
	t.Parallel()
	cfg := config.Default()

	assert.Equal(t, []string{"http://203.0.113.7/"}, SiteURLs(cfg, "203.0.113.7"))
	assert.Empty(t, SiteURLs(cfg, ""))

	cfg.Site.Domain = "blog.example.com"
	assert.Equal(t, []string{"http://blog.example.com/"}, SiteURLs(cfg, "203.0.113.7"))

	cfg.WebServer = config.WebServerCaddy
	assert.Equal(t, []string{"https://blog.example.com/"}, SiteURLs(cfg, "203.0.113.7"))
}

func TestSummary_SetVerification(t *testing.T) {
	t.Parallel()
	s := &Summary{}

	s.SetVerification([]ServiceStatus{{Name: "nginx", State: "active", Active: true}}, &ProbeResult{OK: true, StatusCode: 200})
	assert.True(t, s.Healthy)

	s.SetVerification([]ServiceStatus{{Name: "mariadb", State: "failed"}}, &ProbeResult{OK: true})
	assert.False(t, s.Healthy)

	s.SetVerification(nil, nil)
	assert.False(t, s.Healthy)
}

func TestSummary_FromContext(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext(t)
	ctx.RunID = "run-1"
	ctx.State.ServerIP = "203.0.113.7"
	ctx.Credentials = &credentials.Credentials{AdminPassword: "adm", AppPassword: "app"}
	ctx.State.recordStep("packages", StepCompleted, 1500*time.Millisecond, nil)
	ctx.State.RecordService("mariadb")
	ctx.State.RecordService("nginx")

	s := NewSummary(ctx, time.Now().Add(-time.Second))

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, "recorder", s.Target)
	assert.Equal(t, []string{"http://203.0.113.7/"}, s.URLs)
	assert.Equal(t, "wordpress", s.Database.Name)
	assert.Equal(t, config.DefaultLogPath, s.LogPath)
	require.Len(t, s.Steps, 1)
	assert.InDelta(t, 1.5, s.Steps[0].Seconds, 0.001)
	assert.Equal(t, []string{"mariadb", "nginx"}, s.Started)
}

func TestSummary_RedactedHidesSecrets(t *testing.T) {
	t.Parallel()
	s := &Summary{RunID: "r", Credentials: &credentials.Credentials{AdminPassword: "adm-secret", AppPassword: "app-secret"}}

	out, err := yaml.Marshal(s.Redacted())
	require.NoError(t, err)

	assert.NotContains(t, string(out), "adm-secret")
	assert.NotContains(t, string(out), "app-secret")
	assert.Contains(t, string(out), "<redacted>")
	assert.Equal(t, "adm-secret", s.Credentials.AdminPassword)

	full, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(full), "admin_password: adm-secret")
}
