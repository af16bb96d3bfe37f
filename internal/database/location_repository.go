package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AMAShyp/declare/internal/domain"
)

type LocationRepo struct {
	pool *pgxpool.Pool
}

var _ domain.LocationRepository = (*LocationRepo)(nil)

func NewLocationRepo(pool *pgxpool.Pool) *LocationRepo {
	return &LocationRepo{pool: pool}
}

func (r *LocationRepo) List(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT locid, COALESCE(label, ''), x_pct, y_pct, w_pct, h_pct, rotation_deg
		FROM shelf_map_locations
		ORDER BY locid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := []domain.Location{}
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.LocID, &loc.Label, &loc.XPct, &loc.YPct, &loc.WPct, &loc.HPct, &loc.RotationDeg); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}

	return locations, nil
}

func (r *LocationRepo) Upsert(ctx context.Context, loc domain.Location) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO shelf_map_locations (locid, label, x_pct, y_pct, w_pct, h_pct, rotation_deg)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (locid) DO UPDATE SET
			label = EXCLUDED.label,
			x_pct = EXCLUDED.x_pct,
			y_pct = EXCLUDED.y_pct,
			w_pct = EXCLUDED.w_pct,
			h_pct = EXCLUDED.h_pct,
			rotation_deg = EXCLUDED.rotation_deg
	`, loc.LocID, loc.Label, loc.XPct, loc.YPct, loc.WPct, loc.HPct, loc.RotationDeg)
	if err != nil {
		return fmt.Errorf("failed to upsert location %s: %w", loc.LocID, err)
	}
	return nil
}
