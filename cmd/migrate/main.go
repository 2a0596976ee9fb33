package main

import (
	"fieldbook/config"
	"fieldbook/helper"
	"fieldbook/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

// Usage: migrate up|down|step-up|drop
func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, step-up or drop")
	}

	cfg := config.Get()
	logger.Configure(cfg)

	action := helper.Action(os.Args[1])

	if err := helper.Runner(cfg, action); err != nil {
		log.Fatal().Err(err).Str("action", string(action)).Msg("Migration failed")
	}
}
