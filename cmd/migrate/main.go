package main

import (
	"os"

	"unibook/config"
	"unibook/helper"
	"unibook/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction is required: up, down, step-up or drop")
	}

	direction, err := helper.ParseDirection(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid migration direction")
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	if err := helper.Migrate(cfg, direction); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
