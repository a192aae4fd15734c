package steps

import (
	"fmt"

	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/templates"
)

// Database creates the application database and user and secures the
// root account. The SQL converges, so re-runs rotate the passwords.
type Database struct{}

// Name implements provisioning.Phase.
func (*Database) Name() string { return NameDatabase }

// Provision implements provisioning.Phase.
func (*Database) Provision(ctx *provisioning.Context) error {
	unit := ctx.Config.DatabaseService()
	if err := system.NewSystemd(ctx.Runner).EnableNow(ctx, unit); err != nil {
		return err
	}
	ctx.State.RecordService(unit)

	sql, err := templates.Render(templates.BootstrapSQL, templateData(ctx))
	if err != nil {
		return err
	}

	// The statements carry passwords, so they go over stdin and never
	// into argv or the log.
	if _, err := ctx.Run(shell.Cmd("mysql", "--protocol=socket", "--user=root").WithStdin(sql)); err != nil {
		return fmt.Errorf("failed to apply database bootstrap: %w", err)
	}
	ctx.Log().Info("database ready", "database", ctx.Config.Database.Name, "user", ctx.Config.Database.User)
	return nil
}
