// Command seed loads a shelf map layout from a YAML file and upserts
// every location, so a fresh environment can be stocked with the store
// floor plan in one shot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AMAShyp/declare/internal/database"
	"github.com/AMAShyp/declare/internal/domain"
)

type layoutFile struct {
	Locations []layoutLocation `yaml:"locations"`
}

type layoutLocation struct {
	LocID       string  `yaml:"locid"`
	Label       string  `yaml:"label"`
	XPct        float64 `yaml:"x_pct"`
	YPct        float64 `yaml:"y_pct"`
	WPct        float64 `yaml:"w_pct"`
	HPct        float64 `yaml:"h_pct"`
	RotationDeg float64 `yaml:"rotation_deg"`
}

func main() {
	var (
		databaseURL = flag.String("database", os.Getenv("DATABASE_URL"), "Postgres URL (or set DATABASE_URL env)")
		layoutPath  = flag.String("layout", "layout.yaml", "Path to the layout YAML file")
		dryRun      = flag.Bool("dry-run", false, "Parse and validate without writing")
		timeout     = flag.Duration("timeout", 60*time.Second, "Overall timeout")
	)
	flag.Parse()

	if *databaseURL == "" {
		log.Fatal("Database URL required (--database or DATABASE_URL env)")
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handler))

	locations, err := loadLayout(*layoutPath)
	if err != nil {
		log.Fatalf("Failed to load layout: %v", err)
	}
	slog.Info("Layout parsed", "path", *layoutPath, "locations", len(locations))

	if *dryRun {
		slog.Info("Dry run, nothing written")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := database.Connect(ctx, *databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrationsWithLock(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	repo := database.NewLocationRepo(pool)
	for _, loc := range locations {
		if err := repo.Upsert(ctx, loc); err != nil {
			log.Fatalf("Failed to upsert location %s: %v", loc.LocID, err)
		}
		slog.Info("Location upserted", "locid", loc.LocID, "label", loc.Label)
	}

	slog.Info("Seed complete", "locations", len(locations))
}

func loadLayout(path string) ([]domain.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout file: %w", err)
	}

	var file layoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse layout file: %w", err)
	}
	if len(file.Locations) == 0 {
		return nil, fmt.Errorf("layout file has no locations")
	}

	locations := make([]domain.Location, 0, len(file.Locations))
	for i, l := range file.Locations {
		if l.LocID == "" {
			return nil, fmt.Errorf("location %d: locid is required", i)
		}
		if l.WPct <= 0 || l.HPct <= 0 {
			return nil, fmt.Errorf("location %s: w_pct and h_pct must be positive", l.LocID)
		}
		locations = append(locations, domain.Location{
			LocID:       l.LocID,
			Label:       l.Label,
			XPct:        l.XPct,
			YPct:        l.YPct,
			WPct:        l.WPct,
			HPct:        l.HPct,
			RotationDeg: l.RotationDeg,
		})
	}
	return locations, nil
}
