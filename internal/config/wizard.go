package config

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the operator's answers from the init wizard.
type WizardResult struct {
	Domain     string
	AdminEmail string
	WebServer  string
	PHPVersion string
	Database   string
	Firewall   bool
	Upgrade    bool
}

// RunWizard asks the handful of questions needed for a usable config.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		WebServer:  WebServerNginx,
		PHPVersion: "8.2",
		Database:   "wordpress",
		Firewall:   true,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Domain (optional)").
				Description("Public hostname of the site. Leave empty to serve on the server IP.").
				Placeholder("blog.example.com").
				Value(&result.Domain).
				Validate(validateDomain),
			huh.NewInput().
				Title("Admin email (optional)").
				Description("Used for TLS certificate registration with caddy").
				Placeholder("admin@example.com").
				Value(&result.AdminEmail).
				Validate(validateEmail),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Web server").
				Description("caddy obtains TLS certificates automatically when a domain is set").
				Options(
					huh.NewOption("nginx", WebServerNginx),
					huh.NewOption("caddy (automatic HTTPS)", WebServerCaddy),
				).
				Value(&result.WebServer),
			huh.NewSelect[string]().
				Title("PHP version").
				Options(
					huh.NewOption("PHP 8.1", "8.1"),
					huh.NewOption("PHP 8.2", "8.2"),
					huh.NewOption("PHP 8.3", "8.3"),
				).
				Value(&result.PHPVersion),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Database name").
				Value(&result.Database).
				Validate(validateIdent),
			huh.NewConfirm().
				Title("Enable the firewall?").
				Description("Allows SSH, HTTP and HTTPS; denies everything else").
				Value(&result.Firewall),
			huh.NewConfirm().
				Title("Upgrade installed packages first?").
				Value(&result.Upgrade),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}
	return result, nil
}

// ToConfig converts the answers into a fully defaulted Config.
func (r *WizardResult) ToConfig() *Config {
	cfg := newBase()
	cfg.Site.Domain = strings.TrimSpace(r.Domain)
	cfg.Site.AdminEmail = strings.TrimSpace(r.AdminEmail)
	cfg.WebServer = r.WebServer
	cfg.PHP.Version = r.PHPVersion
	cfg.Database.Name = r.Database
	cfg.Database.User = r.Database
	cfg.Firewall.Enabled = r.Firewall
	cfg.Packages.Upgrade = r.Upgrade
	cfg.ApplyDefaults()
	return cfg
}

func validateDomain(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !domainPattern.MatchString(s) {
		return errors.New("not a valid DNS name")
	}
	return nil
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return errors.New("not a valid email address")
	}
	return nil
}

func validateIdent(s string) error {
	if !identPattern.MatchString(s) {
		return errors.New("use letters, digits and underscores only")
	}
	return nil
}
