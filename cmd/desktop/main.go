package main

import (
	"emittr/connectfour/internal/config"
	"emittr/connectfour/internal/desktop"
	"emittr/connectfour/internal/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := desktop.Run(cfg.Theme); err != nil {
		log.Fatal().Err(err).Msg("desktop exited")
	}
}
