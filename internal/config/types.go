package config

import (
	"fmt"
	"path"
)

// Web server flavours.
const (
	WebServerNginx = "nginx"
	WebServerCaddy = "caddy"
)

// Config is the complete provisioning configuration.
type Config struct {
	Site        SiteConfig        `yaml:"site"`
	WebServer   string            `yaml:"web_server"`
	PHP         PHPConfig         `yaml:"php"`
	Database    DatabaseConfig    `yaml:"database"`
	Packages    PackagesConfig    `yaml:"packages"`
	Firewall    FirewallConfig    `yaml:"firewall"`
	Application ApplicationConfig `yaml:"application"`
	Log         LogConfig         `yaml:"log"`
	Metrics     MetricsConfig     `yaml:"metrics,omitempty"`
	Report      ReportConfig      `yaml:"report,omitempty"`
}

// SiteConfig describes the hosted site.
type SiteConfig struct {
	// Name is a short slug used for config file names.
	Name string `yaml:"name"`
	// Domain is the public hostname. Empty means the site is served on the
	// server IP only.
	Domain       string `yaml:"domain,omitempty"`
	AdminEmail   string `yaml:"admin_email,omitempty"`
	DocumentRoot string `yaml:"document_root"`
	WebUser      string `yaml:"web_user"`
}

// PHPConfig holds the PHP-FPM runtime settings.
type PHPConfig struct {
	Version           string   `yaml:"version"`
	MemoryLimit       string   `yaml:"memory_limit"`
	UploadMaxFilesize string   `yaml:"upload_max_filesize"`
	PostMaxSize       string   `yaml:"post_max_size"`
	MaxExecutionTime  int      `yaml:"max_execution_time"`
	Modules           []string `yaml:"modules"`
}

// DatabaseConfig names the application database and user.
type DatabaseConfig struct {
	Name        string `yaml:"name"`
	User        string `yaml:"user"`
	Host        string `yaml:"host"`
	Charset     string `yaml:"charset"`
	TablePrefix string `yaml:"table_prefix"`
}

// PackagesConfig controls the package manager step.
type PackagesConfig struct {
	Upgrade bool     `yaml:"upgrade"`
	Extra   []string `yaml:"extra,omitempty"`
}

// FirewallConfig controls the firewall step.
type FirewallConfig struct {
	Enabled bool `yaml:"enabled"`
	// Allow lists ufw rules to open, e.g. "OpenSSH" or "8080/tcp".
	Allow []string `yaml:"allow"`
}

// ApplicationConfig points at the remote endpoints used for the
// application archive and the authentication salts.
type ApplicationConfig struct {
	ArchiveURL string `yaml:"archive_url"`
	SaltURL    string `yaml:"salt_url"`
}

// LogConfig controls the run log and console output.
type LogConfig struct {
	Path   string `yaml:"path"`
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig enables the prometheus textfile export.
type MetricsConfig struct {
	// Textfile is written after the run, e.g.
	// /var/lib/node_exporter/textfile_collector/wpstack.prom.
	Textfile string `yaml:"textfile,omitempty"`
}

// ReportConfig enables uploading the run log and summary.
type ReportConfig struct {
	S3 S3Config `yaml:"s3,omitempty"`
}

// S3Config addresses an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// Enabled reports whether uploads are configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// PHPFPMService returns the systemd unit of the PHP-FPM pool.
func (c *Config) PHPFPMService() string {
	return fmt.Sprintf("php%s-fpm", c.PHP.Version)
}

// PHPFPMSocket returns the FastCGI socket path of the PHP-FPM pool.
func (c *Config) PHPFPMSocket() string {
	return fmt.Sprintf("/run/php/php%s-fpm.sock", c.PHP.Version)
}

// PHPTuningPath returns where the runtime tuning ini is written.
func (c *Config) PHPTuningPath() string {
	return fmt.Sprintf("/etc/php/%s/fpm/conf.d/99-wpstack.ini", c.PHP.Version)
}

// DatabaseService returns the systemd unit of the database server.
func (c *Config) DatabaseService() string {
	return "mariadb"
}

// WebServerService returns the systemd unit of the web server.
func (c *Config) WebServerService() string {
	return c.WebServer
}

// ManagedServices lists the services checked by verification, in the
// order database, PHP runtime, web server.
func (c *Config) ManagedServices() []string {
	return []string{c.DatabaseService(), c.PHPFPMService(), c.WebServerService()}
}

// SiteConfigPath returns where the web server site definition is written.
func (c *Config) SiteConfigPath() string {
	if c.WebServer == WebServerCaddy {
		return "/etc/caddy/Caddyfile"
	}
	return path.Join("/etc/nginx/sites-available", c.Site.Name+".conf")
}

// SiteEnabledPath returns the nginx sites-enabled symlink, or "" for caddy.
func (c *Config) SiteEnabledPath() string {
	if c.WebServer == WebServerCaddy {
		return ""
	}
	return path.Join("/etc/nginx/sites-enabled", c.Site.Name+".conf")
}

// AppConfigPath returns the location of wp-config.php.
func (c *Config) AppConfigPath() string {
	return path.Join(c.Site.DocumentRoot, "wp-config.php")
}

// Hostname returns the domain, or fallback when no domain is configured.
func (c *Config) Hostname(fallback string) string {
	if c.Site.Domain != "" {
		return c.Site.Domain
	}
	return fallback
}

// PackageList returns every package the packages step installs.
func (c *Config) PackageList() []string {
	pkgs := []string{c.WebServer, "mariadb-server", "mariadb-client", "curl", "tar"}
	if c.Firewall.Enabled {
		pkgs = append(pkgs, "ufw")
	}
	pkgs = append(pkgs, c.PHPFPMService())
	for _, m := range c.PHP.Modules {
		pkgs = append(pkgs, fmt.Sprintf("php%s-%s", c.PHP.Version, m))
	}
	return append(pkgs, c.Packages.Extra...)
}
