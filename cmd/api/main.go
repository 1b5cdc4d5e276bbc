package main

import (
	"log"

	"esyncify/internal/api"
	"esyncify/internal/config"
	"esyncify/internal/database"
	"esyncify/internal/events"
	"esyncify/internal/logger"
	"esyncify/internal/services/shopify"
	"esyncify/internal/store"
	"esyncify/internal/upsert"
	"esyncify/internal/worker"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logg := logger.New(cfg.LogLevel, cfg.Env)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	st := store.New(db.DB)
	engines := engineFactory(cfg, logg)

	publisher := events.New(cfg.KafkaBrokers, logg)
	defer publisher.Close()

	// Initialize API server
	server := api.New(cfg, logg, st, engines, publisher)

	logg.Info().Str("port", cfg.APIPort).Msg("starting API server")
	if err := server.Start(); err != nil {
		logg.Fatal().Err(err).Msg("failed to start server")
	}
}

func engineFactory(cfg *config.Config, logg zerolog.Logger) worker.EngineFactory {
	var locker upsert.Locker
	if cfg.RedisURL != "" {
		redisLocker, err := upsert.NewRedisLocker(cfg.RedisURL, logg)
		if err != nil {
			logg.Fatal().Err(err).Msg("invalid redis URL")
		}
		locker = redisLocker
	}

	return func(shopDomain, accessToken string) worker.Engine {
		client := shopify.NewClient(shopDomain, accessToken, logg)
		engine := upsert.New(client, logg)
		if locker != nil {
			engine = engine.WithLocker(locker)
		}
		return engine
	}
}
