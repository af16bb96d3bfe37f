package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AMAShyp/declare/internal/domain"
)

type EntryRepo struct {
	pool *pgxpool.Pool
}

var _ domain.EntryRepository = (*EntryRepo)(nil)

func NewEntryRepo(pool *pgxpool.Pool) *EntryRepo {
	return &EntryRepo{pool: pool}
}

// BulkInsert appends one shelfentries row per line inside a single
// transaction and returns the committed entries joined with item
// details, in input order.
func (r *EntryRepo) BulkInsert(ctx context.Context, locID string, lines []domain.DeclarationLine) ([]domain.ShelfEntry, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyDeclaration
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	entries := make([]domain.ShelfEntry, 0, len(lines))
	for _, line := range lines {
		var entry domain.ShelfEntry
		err := tx.QueryRow(ctx, `
			INSERT INTO shelfentries
				(itemid, quantity, locid, trx_type, note, reference_id, reference_type)
			VALUES
				($1, $2, $3, $4, $5, NULL, NULL)
			RETURNING entryid, itemid, quantity, locid, entrydate
		`, line.ItemID, line.Quantity, locID, domain.TrxTypeStocktake, domain.NoteDeclare).Scan(
			&entry.EntryID, &entry.ItemID, &entry.Quantity, &entry.LocID, &entry.EntryDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert declaration for item %d: %w", line.ItemID, err)
		}
		entries = append(entries, entry)
	}

	// Join item names and barcodes for the event feed.
	rows, err := tx.Query(ctx, `
		SELECT itemid, itemnameenglish, barcode
		FROM item
		WHERE itemid = ANY($1)
	`, itemIDs(lines))
	if err != nil {
		return nil, fmt.Errorf("failed to load item details: %w", err)
	}

	details := make(map[int64]struct{ name, barcode string }, len(lines))
	for rows.Next() {
		var id int64
		var name, barcode string
		if err := rows.Scan(&id, &name, &barcode); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item details: %w", err)
		}
		details[id] = struct{ name, barcode string }{name, barcode}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item details: %w", err)
	}

	for i := range entries {
		if d, ok := details[entries[i].ItemID]; ok {
			entries[i].Name = d.name
			entries[i].Barcode = d.barcode
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit declarations: %w", err)
	}

	return entries, nil
}

func (r *EntryRepo) RecentAt(ctx context.Context, locID string, limit int) ([]domain.ShelfEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			se.entryid,
			se.itemid,
			i.itemnameenglish,
			i.barcode,
			se.quantity,
			se.locid,
			se.entrydate
		FROM shelfentries se
		JOIN item i ON i.itemid = se.itemid
		WHERE se.locid = $1 AND se.note = $2
		ORDER BY se.entrydate DESC, se.entryid DESC
		LIMIT $3
	`, locID, domain.NoteDeclare, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent declarations: %w", err)
	}
	defer rows.Close()

	entries := []domain.ShelfEntry{}
	for rows.Next() {
		var e domain.ShelfEntry
		if err := rows.Scan(&e.EntryID, &e.ItemID, &e.Name, &e.Barcode, &e.Quantity, &e.LocID, &e.EntryDate); err != nil {
			return nil, fmt.Errorf("failed to scan shelf entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shelf entries: %w", err)
	}

	return entries, nil
}

func itemIDs(lines []domain.DeclarationLine) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	return ids
}
