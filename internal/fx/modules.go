package fx

import (
	"alliance-tracker/internal/config"
	"alliance-tracker/internal/database"
	"alliance-tracker/internal/importer"
	"alliance-tracker/internal/logger"
	"alliance-tracker/internal/repository"
	"alliance-tracker/internal/server"
	"alliance-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(database.NewRedis),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewWarRepository),
	// import client
	fx.Provide(importer.NewClient),
	// svc
	fx.Provide(service.NewSnapshotCache),
	fx.Provide(service.NewRosterService),
	fx.Provide(service.NewWarService),
	fx.Provide(service.NewSeasonService),
	fx.Provide(service.NewImportService),
	// server
	fx.Provide(server.NewTrackerServer),
)
