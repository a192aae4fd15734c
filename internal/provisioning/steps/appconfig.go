package steps

import (
	"fmt"

	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/templates"
)

// AppConfig fetches salts and writes wp-config.php.
type AppConfig struct{}

// Name implements provisioning.Phase.
func (*AppConfig) Name() string { return NameAppConfig }

// Provision implements provisioning.Phase.
func (*AppConfig) Provision(ctx *provisioning.Context) error {
	if ctx.Salts == nil {
		return fmt.Errorf("no salt source configured")
	}
	salts, err := ctx.Salts.Fetch(ctx)
	if err != nil {
		return err
	}

	data := templateData(ctx)
	data.Salts = salts
	content, err := templates.Render(templates.AppConfig, data)
	if err != nil {
		return err
	}

	target := ctx.Config.AppConfigPath()
	if err := ctx.WriteFile(target, content, 0o640); err != nil {
		return err
	}
	return ctx.Chown(ctx.Config.Site.WebUser, target, false)
}
