package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	SecretsFile string `env:"SECRETS_FILE" default:"runtime/secrets.toml"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// AppURL is the externally visible base URL, used for WebSocket
	// origin checks. Empty means same-origin checks are skipped.
	AppURL string `env:"APP_URL"`

	LayoutCacheTTL  time.Duration `env:"LAYOUT_CACHE_TTL" default:"30s"`
	DeclareRate     float64       `env:"DECLARE_RATE_PER_SECOND" default:"5"`
	DeclareBurst    int           `env:"DECLARE_BURST" default:"10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SecretsFile == "" {
		return fmt.Errorf("SECRETS_FILE must not be empty")
	}
	if cfg.LayoutCacheTTL <= 0 {
		return fmt.Errorf("LAYOUT_CACHE_TTL must be positive")
	}
	if cfg.DeclareRate <= 0 || cfg.DeclareBurst <= 0 {
		return fmt.Errorf("declare rate limit settings must be positive")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}
