package steps

import (
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
)

// Firewall opens the configured ports and enables ufw.
type Firewall struct{}

// Name implements provisioning.Phase.
func (*Firewall) Name() string { return NameFirewall }

// Satisfied implements provisioning.Checker. It holds when the firewall
// is disabled in the configuration, or when ufw is active and already
// carries every configured rule.
func (*Firewall) Satisfied(ctx *provisioning.Context) (bool, error) {
	if !ctx.Config.Firewall.Enabled {
		return true, nil
	}
	fw := system.NewFirewall(ctx.Runner)
	active, err := fw.Active(ctx)
	if err != nil || !active {
		return false, err
	}
	missing, err := fw.MissingRules(ctx, ctx.Config.Firewall.Allow...)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

// Provision implements provisioning.Phase.
func (*Firewall) Provision(ctx *provisioning.Context) error {
	if !ctx.Config.Firewall.Enabled {
		ctx.Log().Info("firewall disabled in configuration")
		return nil
	}
	fw := system.NewFirewall(ctx.Runner)
	if err := fw.Allow(ctx, ctx.Config.Firewall.Allow...); err != nil {
		return err
	}
	return fw.Enable(ctx)
}
