package main

import (
	"fieldbook/config"
	"fieldbook/di"
	"fieldbook/helper"
	"fieldbook/shared/logger"
	"fieldbook/shared/timezone"

	"github.com/rs/zerolog/log"
)

// @title Fieldbook API
// @version 1.0
// @description Recurring bookings and resource conflict checks for fields and rooms.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.InitLogger()

	cfg := config.Get()
	logger.Configure(cfg)

	if err := timezone.Load(cfg.App.Timezone); err != nil {
		log.Error().Err(err).Msg("Falling back to UTC")
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http, cleanup := di.InitializeService()
	http.OnShutdown(cleanup)
	http.Serve()
}
