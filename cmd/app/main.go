package main

import (
	"unibook/config"
	"unibook/di"
	"unibook/helper"
	"unibook/shared/logger"
	"unibook/shared/timezone"

	"github.com/rs/zerolog/log"
)

// @title Unibook API
// @version 1.0
// @description University room booking: conflict-free reservations, approval lifecycle and audit history.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if err := timezone.Init(cfg.App.Timezone); err != nil {
		log.Error().Err(err).Msg("Falling back to UTC")
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
