package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMAShyp/declare/internal/domain"
)

func TestEntryRepo_BulkInsert(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	rice := CreateTestItem(t, pool, "Basmati Rice 5kg", "6291041500213")
	oil := CreateTestItem(t, pool, "Olive Oil 1L", "5201009001239")

	repo := NewEntryRepo(pool)
	entries, err := repo.BulkInsert(ctx, "A1-03", []domain.DeclarationLine{
		{ItemID: rice.ItemID, Quantity: 6},
		{ItemID: oil.ItemID, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, rice.ItemID, entries[0].ItemID)
	assert.Equal(t, "Basmati Rice 5kg", entries[0].Name)
	assert.Equal(t, "6291041500213", entries[0].Barcode)
	assert.Equal(t, 6, entries[0].Quantity)
	assert.Equal(t, "A1-03", entries[0].LocID)
	assert.False(t, entries[0].EntryDate.IsZero())

	assert.Equal(t, oil.ItemID, entries[1].ItemID)
	assert.Equal(t, "Olive Oil 1L", entries[1].Name)
}

func TestEntryRepo_BulkInsert_Empty(t *testing.T) {
	pool := setupTestDB(t)

	repo := NewEntryRepo(pool)
	_, err := repo.BulkInsert(context.Background(), "A1-03", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyDeclaration)
}

func TestEntryRepo_BulkInsert_UnknownItemRollsBack(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	rice := CreateTestItem(t, pool, "Basmati Rice 5kg", "6291041500213")

	repo := NewEntryRepo(pool)
	_, err := repo.BulkInsert(ctx, "A1-03", []domain.DeclarationLine{
		{ItemID: rice.ItemID, Quantity: 6},
		{ItemID: 999999, Quantity: 1},
	})
	require.Error(t, err)

	// First line must have been rolled back with the batch.
	recent, err := repo.RecentAt(ctx, "A1-03", 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestEntryRepo_RecentAt_OrderAndLimit(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	item := CreateTestItem(t, pool, "Olive Oil 1L", "5201009001239")

	repo := NewEntryRepo(pool)
	for i := 1; i <= 5; i++ {
		_, err := repo.BulkInsert(ctx, "C4-02", []domain.DeclarationLine{{ItemID: item.ItemID, Quantity: i}})
		require.NoError(t, err)
	}

	recent, err := repo.RecentAt(ctx, "C4-02", 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Newest first: quantities were inserted 1..5.
	assert.Equal(t, 5, recent[0].Quantity)
	assert.Equal(t, 4, recent[1].Quantity)
	assert.Equal(t, 3, recent[2].Quantity)
}

func TestEntryRepo_RecentAt_UnknownLocation(t *testing.T) {
	pool := setupTestDB(t)

	repo := NewEntryRepo(pool)
	recent, err := repo.RecentAt(context.Background(), "ZZ-99", 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestEntryRepo_RecentAt_OnlyDeclareNotes(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	item := CreateTestItem(t, pool, "Basmati Rice 5kg", "6291041500213")

	// A non-declare stocktake row must not appear in the feed.
	_, err := pool.Exec(ctx, `
		INSERT INTO shelfentries (itemid, quantity, locid, trx_type, note)
		VALUES ($1, 3, 'A1-03', 'STOCKTAKE', 'audit')
	`, item.ItemID)
	require.NoError(t, err)

	repo := NewEntryRepo(pool)
	_, err = repo.BulkInsert(ctx, "A1-03", []domain.DeclarationLine{{ItemID: item.ItemID, Quantity: 7}})
	require.NoError(t, err)

	recent, err := repo.RecentAt(ctx, "A1-03", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 7, recent[0].Quantity)
}
