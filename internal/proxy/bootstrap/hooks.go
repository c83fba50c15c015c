// internal/proxy/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires the proxy into the WAFFLE lifecycle. There is no database;
// ConnectDB builds the upstream client instead.
var Hooks = app.Hooks[AppConfig, Deps]{
	Name:           "stratawell-proxy",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
