package steps

import (
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
)

// SystemUpdate refreshes the package index and optionally upgrades.
type SystemUpdate struct{}

// Name implements provisioning.Phase.
func (*SystemUpdate) Name() string { return NameSystemUpdate }

// Provision implements provisioning.Phase.
func (*SystemUpdate) Provision(ctx *provisioning.Context) error {
	apt := system.NewApt(ctx.Runner)
	if err := apt.Update(ctx); err != nil {
		return err
	}
	if !ctx.Config.Packages.Upgrade {
		return nil
	}
	return apt.Upgrade(ctx)
}

// Packages installs the web server, PHP, database and tooling packages.
type Packages struct{}

// Name implements provisioning.Phase.
func (*Packages) Name() string { return NamePackages }

// Satisfied implements provisioning.Checker.
func (*Packages) Satisfied(ctx *provisioning.Context) (bool, error) {
	missing, err := system.NewApt(ctx.Runner).Missing(ctx, ctx.Config.PackageList()...)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

// Provision implements provisioning.Phase.
func (*Packages) Provision(ctx *provisioning.Context) error {
	pkgs := ctx.Config.PackageList()
	ctx.Log().Info("installing packages", "count", len(pkgs))
	return system.NewApt(ctx.Runner).Install(ctx, pkgs...)
}
