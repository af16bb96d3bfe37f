package database

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/AMAShyp/declare/internal/domain"
)

// CreateTestItem inserts an item row with the given barcode and returns it.
func CreateTestItem(t *testing.T, pool *pgxpool.Pool, name, barcode string) *domain.Item {
	t.Helper()

	var item domain.Item
	err := pool.QueryRow(context.Background(), `
		INSERT INTO item (itemnameenglish, barcode, familycat, sectioncat)
		VALUES ($1, $2, 'Grocery', 'Dry Goods')
		RETURNING itemid, itemnameenglish, barcode
	`, name, barcode).Scan(&item.ItemID, &item.Name, &item.Barcode)
	require.NoError(t, err)

	return &item
}

// CreateTestLocation upserts a shelf location with simple geometry.
func CreateTestLocation(t *testing.T, pool *pgxpool.Pool, locID, label string) domain.Location {
	t.Helper()

	loc := domain.Location{
		LocID: locID,
		Label: label,
		XPct:  0.1, YPct: 0.2, WPct: 0.3, HPct: 0.1,
		RotationDeg: 0,
	}
	repo := NewLocationRepo(pool)
	require.NoError(t, repo.Upsert(context.Background(), loc))

	return loc
}

// AddTestInventory inserts an inventory row for the item.
func AddTestInventory(t *testing.T, pool *pgxpool.Pool, itemID int64, quantity int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO inventory (itemid, quantity) VALUES ($1, $2)`, itemID, quantity)
	require.NoError(t, err)
}
