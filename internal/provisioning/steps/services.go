package steps

import (
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
)

// Services enables the managed services at boot and starts them.
type Services struct{}

// Name implements provisioning.Phase.
func (*Services) Name() string { return NameServices }

// Provision implements provisioning.Phase.
func (*Services) Provision(ctx *provisioning.Context) error {
	units := ctx.Config.ManagedServices()
	if err := system.NewSystemd(ctx.Runner).EnableNow(ctx, units...); err != nil {
		return err
	}
	for _, u := range units {
		ctx.State.RecordService(u)
	}
	return nil
}
