package server

import (
	"context"
	"errors"
	"testing"

	"github.com/AMAShyp/declare/internal/config"
	"github.com/AMAShyp/declare/internal/domain"
	ws "github.com/AMAShyp/declare/internal/websocket"
)

// --- Mock implementations ---

type mockAppService struct {
	getLayoutFn          func(ctx context.Context) ([]domain.MapLocation, error)
	upsertLocationFn     func(ctx context.Context, loc domain.Location) error
	lookupItemFn         func(ctx context.Context, barcode string) (*domain.Item, error)
	itemSummaryFn        func(ctx context.Context, itemID int64) (*domain.ItemSummary, error)
	declareStockFn       func(ctx context.Context, decl domain.Declaration) ([]domain.ShelfEntry, error)
	recentDeclarationsFn func(ctx context.Context, locID string, limit int) ([]domain.ShelfEntry, error)
	sectionsFn           func(ctx context.Context) ([]string, error)
	valuesFn             func(ctx context.Context, section string) ([]string, error)
	suppliersFn          func(ctx context.Context) ([]domain.Supplier, error)
}

func (m *mockAppService) GetLayout(ctx context.Context) ([]domain.MapLocation, error) {
	if m.getLayoutFn != nil {
		return m.getLayoutFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) UpsertLocation(ctx context.Context, loc domain.Location) error {
	if m.upsertLocationFn != nil {
		return m.upsertLocationFn(ctx, loc)
	}
	return errors.New("not implemented")
}

func (m *mockAppService) LookupItem(ctx context.Context, barcode string) (*domain.Item, error) {
	if m.lookupItemFn != nil {
		return m.lookupItemFn(ctx, barcode)
	}
	return nil, domain.ErrItemNotFound
}

func (m *mockAppService) ItemSummary(ctx context.Context, itemID int64) (*domain.ItemSummary, error) {
	if m.itemSummaryFn != nil {
		return m.itemSummaryFn(ctx, itemID)
	}
	return nil, domain.ErrItemNotFound
}

func (m *mockAppService) DeclareStock(ctx context.Context, decl domain.Declaration) ([]domain.ShelfEntry, error) {
	if m.declareStockFn != nil {
		return m.declareStockFn(ctx, decl)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) RecentDeclarations(ctx context.Context, locID string, limit int) ([]domain.ShelfEntry, error) {
	if m.recentDeclarationsFn != nil {
		return m.recentDeclarationsFn(ctx, locID, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) Sections(ctx context.Context) ([]string, error) {
	if m.sectionsFn != nil {
		return m.sectionsFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) Values(ctx context.Context, section string) ([]string, error) {
	if m.valuesFn != nil {
		return m.valuesFn(ctx, section)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	if m.suppliersFn != nil {
		return m.suppliersFn(ctx)
	}
	return nil, errors.New("not implemented")
}

// --- Test server construction ---

type serverOption func(*Server)

func withHealthChecks(checks ...HealthCheck) serverOption {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func newTestServer(t *testing.T, app appService, opts ...serverOption) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:       "development",
		Port:         "8080",
		DeclareRate:  100,
		DeclareBurst: 100,
	}

	hub := ws.NewHub()
	t.Cleanup(func() { hub.Stop() })

	srv := NewServer(cfg, app, hub, nil)
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}
