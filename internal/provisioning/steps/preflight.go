package steps

import (
	"errors"

	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/util/prerequisites"
)

// Preflight checks required tools and detects the server address.
type Preflight struct{}

// Name implements provisioning.Phase.
func (*Preflight) Name() string { return NamePreflight }

// Provision implements provisioning.Phase.
func (*Preflight) Provision(ctx *provisioning.Context) error {
	results, err := prerequisites.CheckAll(ctx, ctx.Runner)
	if err != nil {
		return err
	}
	if err := results.Error(); err != nil {
		return err
	}
	for _, tool := range results.Missing {
		ctx.Log().Info("optional tool missing, it will be installed", "tool", tool.Name, "package", tool.Package)
	}

	ip, err := system.ServerIP(ctx, ctx.Runner)
	if err != nil {
		return err
	}
	ctx.State.ServerIP = ip
	ctx.Log().Info("detected server address", "ip", ip)

	if ctx.Credentials == nil {
		return errors.New("credentials were not generated")
	}
	return nil
}
