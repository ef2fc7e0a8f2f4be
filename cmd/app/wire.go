//go:build wireinject
// +build wireinject

package main

import (
	"cnapi/config"
	"cnapi/internal/command"
	"cnapi/internal/cron"
	"cnapi/internal/database"
	"cnapi/internal/handler"
	"cnapi/internal/middleware"
	"cnapi/internal/router"
	"cnapi/internal/service"
	"cnapi/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			telemetry.ProviderSet,
			newApp,
		),
	)
}

// wireCommand init command.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			telemetry.ProviderSet,
			service.CommandProviderSet,
			command.ProviderSet,
		),
	)
}
