package steps

import (
	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/templates"
)

// Step names.
const (
	NamePreflight    = "preflight"
	NameSystemUpdate = "system-update"
	NamePackages     = "packages"
	NameFirewall     = "firewall"
	NameDatabase     = "database"
	NamePHP          = "php"
	NameApplication  = "application"
	NameAppConfig    = "app-config"
	NameWebServer    = "webserver"
	NameServices     = "services"
)

// All returns every step in execution order.
func All() []provisioning.Phase {
	return []provisioning.Phase{
		&Preflight{},
		&SystemUpdate{},
		&Packages{},
		&Firewall{},
		&Database{},
		&PHP{},
		&Application{},
		&AppConfig{},
		&WebServer{},
		&Services{},
	}
}

func templateData(ctx *provisioning.Context) templates.Data {
	return templates.Data{
		Config:      ctx.Config,
		Hostname:    ctx.Config.Hostname(ctx.State.ServerIP),
		ServerIP:    ctx.State.ServerIP,
		Credentials: ctx.Credentials,
	}
}
