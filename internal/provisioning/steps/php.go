package steps

import (
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/templates"
)

// PHP writes runtime tuning and restarts PHP-FPM.
type PHP struct{}

// Name implements provisioning.Phase.
func (*PHP) Name() string { return NamePHP }

// Provision implements provisioning.Phase.
func (*PHP) Provision(ctx *provisioning.Context) error {
	ini, err := templates.Render(templates.PHPTuning, templateData(ctx))
	if err != nil {
		return err
	}
	if err := ctx.WriteFile(ctx.Config.PHPTuningPath(), ini, 0o644); err != nil {
		return err
	}

	unit := ctx.Config.PHPFPMService()
	if err := system.NewSystemd(ctx.Runner).Restart(ctx, unit); err != nil {
		return err
	}
	ctx.State.RecordService(unit)
	return nil
}
