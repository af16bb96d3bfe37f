package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/AMAShyp/declare/internal/config"
	"github.com/AMAShyp/declare/internal/database"
	"github.com/AMAShyp/declare/internal/domain"
	"github.com/AMAShyp/declare/internal/eventpublisher"
	"github.com/AMAShyp/declare/internal/logging"
	"github.com/AMAShyp/declare/internal/platform/retry"
	"github.com/AMAShyp/declare/internal/redis"
	"github.com/AMAShyp/declare/internal/secrets"
	"github.com/AMAShyp/declare/internal/server"
	"github.com/AMAShyp/declare/internal/shelfmap"
	"github.com/AMAShyp/declare/internal/websocket"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// writeSecretsFile renders the database credentials into the secrets
// file consumed by sidecar tooling. Rewritten on every start so a
// rotated DATABASE_URL always wins over a stale file.
func writeSecretsFile(cfg *config.Config) {
	if err := secrets.WriteFile(cfg.SecretsFile, cfg.DatabaseURL); err != nil {
		slog.Error("Failed to write secrets file", "path", cfg.SecretsFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Secrets file written", "path", cfg.SecretsFile)
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	policy := retry.Policy{
		MaxAttempts:    5,
		InitialBackoff: time.Second,
		BusyBackoff:    5 * time.Second,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Database connect failed, retrying",
				"attempt", attempt, "backoff", backoff, "error", err)
		},
	}

	pool, err := retry.Do(ctx, policy, retry.AlwaysRetry, func() (*pgxpool.Pool, error) {
		return database.Connect(ctx, cfg.DatabaseURL)
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(cfg *config.Config, srv *server.Server, svc *shelfmap.Service, hub *websocket.Hub, cancelBridge context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		cancelBridge()
		svc.Stop()
		hub.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	writeSecretsFile(cfg)

	pool := setupDB(cfg)
	defer pool.Close()

	// Construct repositories
	itemRepo := database.NewItemRepo(pool)
	locationRepo := database.NewLocationRepo(pool)
	entryRepo := database.NewEntryRepo(pool)
	lookupRepo := database.NewLookupRepo(pool)

	hub := websocket.NewHub()

	healthChecks := []server.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
	}

	// Redis is optional: without it events stay instance-local.
	bridgeCtx, cancelBridge := context.WithCancel(context.Background())
	var publisher domain.EventPublisher
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient = setupRedis(context.Background(), cfg)
		defer func() { _ = redisClient.Close() }()

		pubsub := redis.NewPubSub(redisClient)
		publisher = eventpublisher.NewRedis(pubsub)
		go eventpublisher.Bridge(bridgeCtx, pubsub, hub)

		healthChecks = append(healthChecks, server.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	} else {
		slog.Info("REDIS_URL not set, declaration events stay instance-local")
		publisher = eventpublisher.NewLocal(hub)
	}

	svc := shelfmap.NewService(itemRepo, locationRepo, entryRepo, lookupRepo, publisher, cfg.LayoutCacheTTL, clock)

	if redisClient != nil {
		go redis.NewLayoutInvalidationSubscriber(redisClient, svc).Start(bridgeCtx)
	}

	srv := server.NewServer(cfg, svc, hub, healthChecks)

	done := runGracefulShutdown(cfg, srv, svc, hub, cancelBridge)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
