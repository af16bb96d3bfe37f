package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AMAShyp/declare/internal/domain"
)

// LookupRepo serves the dropdown configuration and supplier reference
// tables.
type LookupRepo struct {
	pool *pgxpool.Pool
}

var _ domain.LookupRepository = (*LookupRepo)(nil)

func NewLookupRepo(pool *pgxpool.Pool) *LookupRepo {
	return &LookupRepo{pool: pool}
}

func (r *LookupRepo) Sections(ctx context.Context) ([]string, error) {
	return r.stringColumn(ctx, `SELECT DISTINCT section FROM dropdowns ORDER BY section`)
}

func (r *LookupRepo) Values(ctx context.Context, section string) ([]string, error) {
	return r.stringColumn(ctx, `SELECT value FROM dropdowns WHERE section = $1 ORDER BY value`, section)
}

func (r *LookupRepo) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT supplierid, suppliername FROM supplier ORDER BY suppliername`)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		var s domain.Supplier
		if err := rows.Scan(&s.SupplierID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *LookupRepo) stringColumn(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("lookup query failed: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan lookup value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lookup values: %w", err)
	}

	return values, nil
}
