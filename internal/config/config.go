// Package config loads service configuration from an optional config.yml,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration of the binaries.
type Config struct {
	AppEnv   string         `yaml:"app_env" validate:"omitempty,oneof=development production test"`
	Port     string         `yaml:"port" validate:"required,numeric"`
	Routing  RoutingConfig  `yaml:"routing"`
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

// RoutingConfig selects and tunes the routing service client.
type RoutingConfig struct {
	Provider string        `yaml:"provider" validate:"oneof=google haversine"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`
	Delay    time.Duration `yaml:"delay" validate:"gte=0"`
}

// DatabaseConfig locates the batch store. An empty URL disables persistence.
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=pgx sqlite"`
	URL    string `yaml:"url"`
}

// KafkaConfig locates the broker for batch events. No brokers disables publishing.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		AppEnv: "development",
		Port:   "8080",
		Routing: RoutingConfig{
			Provider: "google",
			Timeout:  10 * time.Second,
			Delay:    100 * time.Millisecond,
		},
		Database: DatabaseConfig{Driver: "sqlite"},
		Kafka:    KafkaConfig{Topic: "route.batch.events"},
	}
}

// Load reads the YAML file at path (skipped when it does not exist), then
// .env, then the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		}
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.AppEnv = Get("APP_ENV", cfg.AppEnv)
	cfg.Port = Get("PORT", cfg.Port)
	cfg.Routing.Provider = Get("ROUTING_PROVIDER", cfg.Routing.Provider)
	cfg.Routing.APIKey = Get("GOOGLE_MAPS_API_KEY", cfg.Routing.APIKey)
	cfg.Routing.BaseURL = Get("ROUTING_BASE_URL", cfg.Routing.BaseURL)
	cfg.Database.Driver = Get("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.URL = Get("DATABASE_URL", cfg.Database.URL)
	cfg.Kafka.Topic = Get("KAFKA_TOPIC", cfg.Kafka.Topic)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}

	if v := os.Getenv("ROUTING_DELAY_SECONDS"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ROUTING_DELAY_SECONDS: %w", err)
		}
		cfg.Routing.Delay = time.Duration(secs * float64(time.Second))
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
