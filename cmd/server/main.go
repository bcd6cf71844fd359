package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-time-service/internal/adapters/events"
	"travel-time-service/internal/adapters/repositories"
	"travel-time-service/internal/adapters/routing"
	"travel-time-service/internal/api"
	"travel-time-service/internal/config"
	"travel-time-service/internal/platform/db"
	"travel-time-service/internal/platform/logger"
	"travel-time-service/internal/ports"
	"travel-time-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (routing client, SQL store, Kafka) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, "travel-time-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	config.SetDefaultAPIKey(cfg.Routing.APIKey)

	factory, err := routing.NewFactory(cfg.Routing.Provider, cfg.Routing.BaseURL, cfg.Routing.Timeout, log)
	if err != nil {
		log.Fatal("invalid routing provider", zap.Error(err))
	}

	opts := []services.ProcessorOption{}
	if cfg.Routing.Provider == routing.ProviderHaversine {
		opts = append(opts, services.WithoutCredential())
	}

	var store ports.BatchStore
	if cfg.Database.URL != "" {
		conn, err := openStore(cfg.Database)
		if err != nil {
			log.Fatal("failed to open batch store", zap.Error(err))
		}
		defer conn.Close()

		store = repositories.NewSQLBatchStore(conn, cfg.Database.Driver, log)
		opts = append(opts, services.WithStore(store))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer func() { _ = publisher.Close() }()
		opts = append(opts, services.WithPublisher(publisher))
	}

	processor := services.NewBatchProcessor(factory, log, opts...)

	defaults := services.DefaultBatchOptions()
	defaults.Delay = cfg.Routing.Delay

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(processor, store, defaults, log)

	// Batches are processed inside the request; the write timeout has to cover a whole table.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      15 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", srv.Addr),
			zap.String("provider", cfg.Routing.Provider),
			zap.Bool("store", store != nil),
			zap.Bool("kafka", len(cfg.Kafka.Brokers) > 0),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func openStore(cfg config.DatabaseConfig) (*sql.DB, error) {
	conn, err := db.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, err
	}

	// SQLite is a local convenience; Postgres schemas are managed with dbtool.
	if cfg.Driver == db.DriverSQLite {
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return conn, nil
}
