package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMAShyp/declare/internal/domain"
)

func TestLocationRepo_ListEmpty(t *testing.T) {
	pool := setupTestDB(t)

	repo := NewLocationRepo(pool)
	locations, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, locations)
	assert.Empty(t, locations)
}

func TestLocationRepo_UpsertAndList(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	repo := NewLocationRepo(pool)
	require.NoError(t, repo.Upsert(ctx, domain.Location{
		LocID: "B2-01", Label: "Beverages",
		XPct: 0.4, YPct: 0.1, WPct: 0.2, HPct: 0.05, RotationDeg: 15,
	}))
	require.NoError(t, repo.Upsert(ctx, domain.Location{
		LocID: "A1-03", Label: "Dry Goods",
		XPct: 0.1, YPct: 0.2, WPct: 0.3, HPct: 0.1,
	}))

	locations, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)

	// Ordered by locid.
	assert.Equal(t, "A1-03", locations[0].LocID)
	assert.Equal(t, "B2-01", locations[1].LocID)
	assert.Equal(t, 15.0, locations[1].RotationDeg)
}

func TestLocationRepo_UpsertUpdatesGeometry(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	repo := NewLocationRepo(pool)
	loc := domain.Location{LocID: "A1-03", Label: "Old", XPct: 0.1, YPct: 0.1, WPct: 0.1, HPct: 0.1}
	require.NoError(t, repo.Upsert(ctx, loc))

	loc.Label = "Renamed"
	loc.XPct = 0.5
	require.NoError(t, repo.Upsert(ctx, loc))

	locations, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Renamed", locations[0].Label)
	assert.Equal(t, 0.5, locations[0].XPct)
}

func TestLookupRepo_SectionsAndValues(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO dropdowns (section, value) VALUES
			('unit', 'box'), ('unit', 'piece'), ('trx_reason', 'damage')
	`)
	require.NoError(t, err)

	repo := NewLookupRepo(pool)

	sections, err := repo.Sections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"trx_reason", "unit"}, sections)

	values, err := repo.Values(ctx, "unit")
	require.NoError(t, err)
	assert.Equal(t, []string{"box", "piece"}, values)

	none, err := repo.Values(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLookupRepo_Suppliers(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO supplier (suppliername) VALUES ('Gulf Traders'), ('Al Noor Foods')
	`)
	require.NoError(t, err)

	repo := NewLookupRepo(pool)
	suppliers, err := repo.Suppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)

	// Ordered by name.
	assert.Equal(t, "Al Noor Foods", suppliers[0].Name)
	assert.Equal(t, "Gulf Traders", suppliers[1].Name)
}
