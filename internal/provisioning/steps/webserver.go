package steps

import (
	"fmt"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/templates"
)

const nginxDefaultSite = "/etc/nginx/sites-enabled/default"

// WebServer writes the site definition, checks it and reloads the server.
type WebServer struct{}

// Name implements provisioning.Phase.
func (*WebServer) Name() string { return NameWebServer }

// Provision implements provisioning.Phase.
func (*WebServer) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	site, err := templates.Render(templates.SiteTemplate(cfg), templateData(ctx))
	if err != nil {
		return err
	}
	if err := ctx.WriteFile(cfg.SiteConfigPath(), site, 0o644); err != nil {
		return err
	}

	var check shell.Command
	switch cfg.WebServer {
	case config.WebServerCaddy:
		check = shell.Cmd("caddy", "validate", "--config", cfg.SiteConfigPath(), "--adapter", "caddyfile")
	default:
		if _, err := ctx.Run(shell.Cmd("ln", "-sfn", cfg.SiteConfigPath(), cfg.SiteEnabledPath())); err != nil {
			return fmt.Errorf("failed to enable site: %w", err)
		}
		// The stock site also claims default_server on port 80.
		if _, err := ctx.Run(shell.Cmd("rm", "-f", nginxDefaultSite)); err != nil {
			return fmt.Errorf("failed to disable default site: %w", err)
		}
		check = shell.Cmd("nginx", "-t")
	}

	if _, err := ctx.Run(check); err != nil {
		return fmt.Errorf("web server rejected the configuration: %w", err)
	}

	unit := cfg.WebServerService()
	if err := system.NewSystemd(ctx.Runner).Reload(ctx, unit); err != nil {
		return err
	}
	ctx.State.RecordService(unit)
	return nil
}
