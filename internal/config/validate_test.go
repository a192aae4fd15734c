package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Default(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad site name", func(c *Config) { c.Site.Name = "My Site" }, "site.name"},
		{"bad domain", func(c *Config) { c.Site.Domain = "not a domain" }, "site.domain"},
		{"bad email", func(c *Config) { c.Site.AdminEmail = "nobody" }, "site.admin_email"},
		{"relative docroot", func(c *Config) { c.Site.DocumentRoot = "var/www" }, "site.document_root"},
		{"root docroot", func(c *Config) { c.Site.DocumentRoot = "/" }, "site.document_root"},
		{"unknown web server", func(c *Config) { c.WebServer = "apache" }, "web_server"},
		{"bad php version", func(c *Config) { c.PHP.Version = "8" }, "php.version"},
		{"bad memory limit", func(c *Config) { c.PHP.MemoryLimit = "lots" }, "php.memory_limit"},
		{"bad db name", func(c *Config) { c.Database.Name = "wp-db" }, "database.name"},
		{"long db user", func(c *Config) { c.Database.User = "abcdefghijabcdefghijabcdefghijabc" }, "database.user"},
		{"bad charset", func(c *Config) { c.Database.Charset = "utf8; DROP" }, "database.charset"},
		{"bad prefix", func(c *Config) { c.Database.TablePrefix = "wp" }, "database.table_prefix"},
		{"injected rule", func(c *Config) { c.Firewall.Allow = []string{"80/tcp; reboot"} }, "firewall.allow"},
		{"ftp archive", func(c *Config) { c.Application.ArchiveURL = "ftp://example.com/wp.tgz" }, "application.archive_url"},
		{"relative log", func(c *Config) { c.Log.Path = "install.log" }, "log.path"},
		{"s3 without endpoint", func(c *Config) {
			c.Report.S3 = S3Config{Bucket: "b", AccessKey: "a", SecretKey: "s"}
		}, "report.s3.endpoint"},
		{"s3 without keys", func(c *Config) {
			c.Report.S3 = S3Config{Bucket: "b", Endpoint: "https://s3.example.com"}
		}, "report.s3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.WebServer = "apache"
	cfg.PHP.Version = "x"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "web_server")
	assert.Contains(t, err.Error(), "php.version")
}

func TestConfig_DerivedNames(t *testing.T) {
	t.Parallel()
	cfg := Default()

	assert.Equal(t, "php8.2-fpm", cfg.PHPFPMService())
	assert.Equal(t, "/run/php/php8.2-fpm.sock", cfg.PHPFPMSocket())
	assert.Equal(t, "/etc/php/8.2/fpm/conf.d/99-wpstack.ini", cfg.PHPTuningPath())
	assert.Equal(t, []string{"mariadb", "php8.2-fpm", "nginx"}, cfg.ManagedServices())
	assert.Equal(t, "/etc/nginx/sites-available/wordpress.conf", cfg.SiteConfigPath())
	assert.Equal(t, "/etc/nginx/sites-enabled/wordpress.conf", cfg.SiteEnabledPath())
	assert.Equal(t, "/var/www/wordpress/wp-config.php", cfg.AppConfigPath())
	assert.Equal(t, "203.0.113.7", cfg.Hostname("203.0.113.7"))

	cfg.Site.Domain = "example.com"
	assert.Equal(t, "example.com", cfg.Hostname("203.0.113.7"))
}

func TestConfig_PackageList(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Packages.Extra = []string{"fail2ban"}

	pkgs := cfg.PackageList()

	assert.Contains(t, pkgs, "nginx")
	assert.Contains(t, pkgs, "mariadb-server")
	assert.Contains(t, pkgs, "ufw")
	assert.Contains(t, pkgs, "php8.2-fpm")
	assert.Contains(t, pkgs, "php8.2-mysql")
	assert.Equal(t, "fail2ban", pkgs[len(pkgs)-1])

	cfg.Firewall.Enabled = false
	assert.NotContains(t, cfg.PackageList(), "ufw")
}

func TestWizardResult_ToConfig(t *testing.T) {
	t.Parallel()
	r := &WizardResult{
		Domain:     " blog.example.com ",
		WebServer:  WebServerCaddy,
		PHPVersion: "8.3",
		Database:   "blog",
		Firewall:   true,
		Upgrade:    true,
	}

	cfg := r.ToConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "blog.example.com", cfg.Site.Domain)
	assert.Equal(t, WebServerCaddy, cfg.WebServer)
	assert.Equal(t, "blog", cfg.Database.User)
	assert.True(t, cfg.Packages.Upgrade)
}

func TestWizardValidators(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateDomain(""))
	assert.NoError(t, validateDomain("example.com"))
	assert.Error(t, validateDomain("exa mple"))
	assert.NoError(t, validateEmail(""))
	assert.Error(t, validateEmail("x@"))
	assert.NoError(t, validateIdent("wp_1"))
	assert.Error(t, validateIdent("wp-1"))
}
