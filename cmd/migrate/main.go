// Command migrate applies the embedded schema migrations and exits.
// Useful for release pipelines that migrate before rolling the service.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/AMAShyp/declare/internal/database"
)

func main() {
	var (
		databaseURL = flag.String("database", os.Getenv("DATABASE_URL"), "Postgres URL (or set DATABASE_URL env)")
		timeout     = flag.Duration("timeout", 60*time.Second, "Overall timeout")
		verbose     = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	if *databaseURL == "" {
		log.Fatal("Database URL required (--database or DATABASE_URL env)")
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := database.Connect(ctx, *databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	start := time.Now()
	if err := database.RunMigrationsWithLock(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	slog.Info("Migrations applied", "duration_ms", time.Since(start).Milliseconds())
}
