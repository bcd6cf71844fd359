package main

import (
	"errors"
	"fmt"
	"os"

	"travel-time-service/internal/adapters/repositories"
	"travel-time-service/internal/config"
	"travel-time-service/internal/platform/db"
	"travel-time-service/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, "dbtool")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg.Database, log); err != nil {
		log.Fatal("schema initialization failed", zap.Error(err))
	}
}

func run(cfg config.DatabaseConfig, log *zap.Logger) error {
	if cfg.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info("initializing schema", zap.String("driver", cfg.Driver))
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	log.Info("schema ready")

	return nil
}
