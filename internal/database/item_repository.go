package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AMAShyp/declare/internal/domain"
)

type ItemRepo struct {
	pool *pgxpool.Pool
}

var _ domain.ItemRepository = (*ItemRepo)(nil)

func NewItemRepo(pool *pgxpool.Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

func (r *ItemRepo) GetByBarcode(ctx context.Context, barcode string) (*domain.Item, error) {
	var item domain.Item
	err := r.pool.QueryRow(ctx, `
		SELECT itemid, itemnameenglish,
		       barcode,
		       COALESCE(familycat, ''),
		       COALESCE(sectioncat, ''),
		       COALESCE(departmentcat, ''),
		       COALESCE(classcat, '')
		FROM item
		WHERE barcode = $1
		LIMIT 1
	`, barcode).Scan(
		&item.ItemID, &item.Name, &item.Barcode,
		&item.FamilyCat, &item.SectionCat, &item.DepartmentCat, &item.ClassCat,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item by barcode: %w", err)
	}
	return &item, nil
}

func (r *ItemRepo) Summary(ctx context.Context, itemID int64) (*domain.ItemSummary, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM item WHERE itemid = $1)`, itemID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check item existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrItemNotFound
	}

	summary := domain.ItemSummary{ItemID: itemID, SeenAt: []string{}}

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory
		WHERE itemid = $1 AND quantity > 0
	`, itemID).Scan(&summary.InventoryTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to sum inventory: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT locid
		FROM shelfentries
		WHERE itemid = $1 AND locid IS NOT NULL AND locid <> ''
		ORDER BY locid
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var locID string
		if err := rows.Scan(&locID); err != nil {
			return nil, fmt.Errorf("failed to scan locid: %w", err)
		}
		summary.SeenAt = append(summary.SeenAt, locID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item locations: %w", err)
	}

	return &summary, nil
}
