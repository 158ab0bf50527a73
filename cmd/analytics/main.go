package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"emittr/connectfour/internal/analytics"
	"emittr/connectfour/internal/config"
	"emittr/connectfour/internal/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	brokers := cfg.KafkaBrokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := analytics.NewConsumer(brokers, cfg.KafkaTopic, cfg.KafkaGroup, 30*time.Second)
	log.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("analytics consumer listening")
	if err := consumer.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("read error")
	}
}
