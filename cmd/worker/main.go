package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"esyncify/internal/config"
	"esyncify/internal/database"
	"esyncify/internal/events"
	"esyncify/internal/logger"
	"esyncify/internal/services/shopify"
	"esyncify/internal/store"
	"esyncify/internal/upsert"
	"esyncify/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logg := logger.New(cfg.LogLevel, cfg.Env)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	st := store.New(db.DB)

	publisher := events.New(cfg.KafkaBrokers, logg)
	defer publisher.Close()

	var locker upsert.Locker
	if cfg.RedisURL != "" {
		redisLocker, err := upsert.NewRedisLocker(cfg.RedisURL, logg)
		if err != nil {
			logg.Fatal().Err(err).Msg("invalid redis URL")
		}
		locker = redisLocker
		defer redisLocker.Close()
	}

	engines := func(shopDomain, accessToken string) worker.Engine {
		client := shopify.NewClient(shopDomain, accessToken, logg)
		engine := upsert.New(client, logg)
		if locker != nil {
			engine = engine.WithLocker(locker)
		}
		return engine
	}

	w := worker.New(st, engines, publisher, logg, worker.Config{
		BatchSize:    cfg.WorkerBatchSize,
		PollInterval: time.Duration(cfg.WorkerPollSeconds) * time.Second,
		RecordDelay:  time.Duration(cfg.WorkerDelayMillis) * time.Millisecond,
	})

	logg.Info().Msg("starting worker")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info().Msg("shutting down worker")
	w.Stop()
}
