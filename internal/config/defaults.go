package config

// Default endpoints and paths.
const (
	DefaultArchiveURL     = "https://wordpress.org/latest.tar.gz"
	DefaultSaltURL        = "https://api.wordpress.org/secret-key/1.1/salt/"
	DefaultLogPath        = "/var/log/wpstack/install.log"
	DefaultConfigFilename = "wpstack.yaml"
)

// Default returns a configuration with every field populated.
func Default() *Config {
	cfg := newBase()
	cfg.ApplyDefaults()
	return cfg
}

// newBase returns the value YAML is decoded onto. Booleans that default
// to true are set here because ApplyDefaults cannot tell an explicit
// false from an absent key.
func newBase() *Config {
	return &Config{
		Firewall: FirewallConfig{Enabled: true},
	}
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Site.Name == "" {
		c.Site.Name = "wordpress"
	}
	if c.Site.DocumentRoot == "" {
		c.Site.DocumentRoot = "/var/www/" + c.Site.Name
	}
	if c.Site.WebUser == "" {
		c.Site.WebUser = "www-data"
	}
	if c.WebServer == "" {
		c.WebServer = WebServerNginx
	}

	if c.PHP.Version == "" {
		c.PHP.Version = "8.2"
	}
	if c.PHP.MemoryLimit == "" {
		c.PHP.MemoryLimit = "256M"
	}
	if c.PHP.UploadMaxFilesize == "" {
		c.PHP.UploadMaxFilesize = "64M"
	}
	if c.PHP.PostMaxSize == "" {
		c.PHP.PostMaxSize = "64M"
	}
	if c.PHP.MaxExecutionTime == 0 {
		c.PHP.MaxExecutionTime = 300
	}
	if len(c.PHP.Modules) == 0 {
		c.PHP.Modules = []string{"mysql", "curl", "gd", "mbstring", "xml", "zip", "intl"}
	}

	if c.Database.Name == "" {
		c.Database.Name = "wordpress"
	}
	if c.Database.User == "" {
		c.Database.User = "wordpress"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
	if c.Database.TablePrefix == "" {
		c.Database.TablePrefix = "wp_"
	}

	if len(c.Firewall.Allow) == 0 {
		c.Firewall.Allow = []string{"OpenSSH", "80/tcp", "443/tcp"}
	}

	if c.Application.ArchiveURL == "" {
		c.Application.ArchiveURL = DefaultArchiveURL
	}
	if c.Application.SaltURL == "" {
		c.Application.SaltURL = DefaultSaltURL
	}

	if c.Log.Path == "" {
		c.Log.Path = DefaultLogPath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "tint"
	}

	if c.Report.S3.Enabled() && c.Report.S3.Region == "" {
		c.Report.S3.Region = "us-east-1"
	}
}
