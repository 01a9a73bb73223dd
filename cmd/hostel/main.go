package main

import (
	"HostelManagement/internal/bootstrap"
	"HostelManagement/internal/config"
	"HostelManagement/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()
	app := fx.New(
		routes.HostelModules,
		fx.WithLogger(config.FxLogger),
	)

	app.Run()
}
