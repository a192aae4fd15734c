package config

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	phpVersionPattern = regexp.MustCompile(`^\d+\.\d+$`)
	identPattern      = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	slugPattern       = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	domainPattern     = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
	sizePattern       = regexp.MustCompile(`^\d+[KMG]?$`)
	prefixPattern     = regexp.MustCompile(`^[A-Za-z0-9_]+_$`)
)

// ValidWebServers lists the supported web server flavours.
var ValidWebServers = map[string]bool{
	WebServerNginx: true,
	WebServerCaddy: true,
}

// Validate checks the configuration and returns every problem found,
// joined into one error.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %s", field, fmt.Sprintf(format, args...)))
	}

	if !slugPattern.MatchString(c.Site.Name) {
		add("site.name", "%q must be lowercase letters, digits and dashes", c.Site.Name)
	}
	if c.Site.Domain != "" && !domainPattern.MatchString(c.Site.Domain) {
		add("site.domain", "%q is not a valid DNS name", c.Site.Domain)
	}
	if c.Site.AdminEmail != "" {
		if _, err := mail.ParseAddress(c.Site.AdminEmail); err != nil {
			add("site.admin_email", "%q is not a valid address", c.Site.AdminEmail)
		}
	}
	if !path.IsAbs(c.Site.DocumentRoot) || path.Clean(c.Site.DocumentRoot) == "/" {
		add("site.document_root", "%q must be an absolute path below /", c.Site.DocumentRoot)
	}

	if !ValidWebServers[c.WebServer] {
		add("web_server", "%q must be one of nginx, caddy", c.WebServer)
	}

	if !phpVersionPattern.MatchString(c.PHP.Version) {
		add("php.version", "%q must look like 8.2", c.PHP.Version)
	}
	for field, v := range map[string]string{
		"php.memory_limit":        c.PHP.MemoryLimit,
		"php.upload_max_filesize": c.PHP.UploadMaxFilesize,
		"php.post_max_size":       c.PHP.PostMaxSize,
	} {
		if !sizePattern.MatchString(v) {
			add(field, "%q must be a size such as 64M", v)
		}
	}
	if c.PHP.MaxExecutionTime < 0 {
		add("php.max_execution_time", "must not be negative")
	}

	if !identPattern.MatchString(c.Database.Name) || len(c.Database.Name) > 64 {
		add("database.name", "%q must be 1-64 letters, digits or underscores", c.Database.Name)
	}
	if !identPattern.MatchString(c.Database.User) || len(c.Database.User) > 32 {
		add("database.user", "%q must be 1-32 letters, digits or underscores", c.Database.User)
	}
	if !identPattern.MatchString(c.Database.Charset) {
		add("database.charset", "%q is not a character set name", c.Database.Charset)
	}
	if !prefixPattern.MatchString(c.Database.TablePrefix) {
		add("database.table_prefix", "%q must end with an underscore", c.Database.TablePrefix)
	}

	for _, rule := range c.Firewall.Allow {
		if strings.ContainsAny(rule, " ;&|") {
			add("firewall.allow", "%q is not a single ufw rule", rule)
		}
	}

	for field, raw := range map[string]string{
		"application.archive_url": c.Application.ArchiveURL,
		"application.salt_url":    c.Application.SaltURL,
	} {
		if err := validateHTTPURL(raw); err != nil {
			add(field, "%v", err)
		}
	}

	if !path.IsAbs(c.Log.Path) {
		add("log.path", "%q must be absolute", c.Log.Path)
	}

	if s3 := c.Report.S3; s3.Enabled() {
		if s3.Endpoint == "" {
			add("report.s3.endpoint", "required when a bucket is set")
		} else if err := validateHTTPURL(s3.Endpoint); err != nil {
			add("report.s3.endpoint", "%v", err)
		}
		if s3.AccessKey == "" || s3.SecretKey == "" {
			add("report.s3", "access_key and secret_key are required (or %s/%s)", EnvS3AccessKey, EnvS3SecretKey)
		}
	}

	return errors.Join(errs...)
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%q is not a URL: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
