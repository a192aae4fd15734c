package steps

import (
	"fmt"
	"path"

	"al.essio.dev/pkg/shellescape"

	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
)

// Application downloads and unpacks the application into the document
// root.
type Application struct{}

// Name implements provisioning.Phase.
func (*Application) Name() string { return NameApplication }

func versionFile(ctx *provisioning.Context) string {
	return path.Join(ctx.Config.Site.DocumentRoot, "wp-includes", "version.php")
}

// Satisfied implements provisioning.Checker.
func (*Application) Satisfied(ctx *provisioning.Context) (bool, error) {
	return system.PathExists(ctx, ctx.Runner, versionFile(ctx))
}

// Provision implements provisioning.Phase.
func (*Application) Provision(ctx *provisioning.Context) error {
	root := ctx.Config.Site.DocumentRoot
	if _, err := ctx.Run(shell.Cmd("mkdir", "-p", root)); err != nil {
		return fmt.Errorf("failed to create document root: %w", err)
	}

	maxTime := 1800
	if ctx.Timeouts != nil {
		maxTime = int(ctx.Timeouts.Command.Seconds())
	}
	pipeline := fmt.Sprintf("curl -fsSL --retry 3 --max-time %d %s | tar -xz -C %s --strip-components=1",
		maxTime,
		shellescape.Quote(ctx.Config.Application.ArchiveURL),
		shellescape.Quote(root),
	)
	if _, err := ctx.Run(shell.Cmd("bash", "-o", "pipefail", "-c", pipeline)); err != nil {
		return fmt.Errorf("failed to download application: %w", err)
	}

	if err := ctx.Chown(ctx.Config.Site.WebUser, root, true); err != nil {
		return err
	}
	ctx.Log().Info("application unpacked", "document_root", root)
	return nil
}
