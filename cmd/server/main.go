package main

import (
	"context"
	"os/signal"
	"syscall"

	"emittr/connectfour/internal/analytics"
	"emittr/connectfour/internal/config"
	"emittr/connectfour/internal/logging"
	"emittr/connectfour/internal/server"
	"emittr/connectfour/internal/storage"
	"emittr/connectfour/internal/table"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.Store
	if cfg.PostgresURL != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			log.Warn().Err(err).Msg("postgres disabled, keeping results in memory")
		} else {
			defer pg.Close()
			if err := pg.EnsureTables(ctx); err != nil {
				log.Warn().Err(err).Msg("postgres ensure tables failed")
			}
			store = pg
		}
	}

	producer := analytics.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	srv := server.New(server.Config{
		Table:        table.Config{CellSize: cfg.Theme.CellSize, DropStep: cfg.Theme.DropStep},
		DropInterval: cfg.Theme.DropInterval,
		IdleTimeout:  cfg.IdleTimeout,
		SweepEvery:   cfg.SweepEvery,
		Store:        store,
		Analytics:    producer,
	})

	log.Info().Str("addr", cfg.Addr).Bool("postgres", store != nil).Bool("kafka", producer != nil).Msg("server listening")
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
