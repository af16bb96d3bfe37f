package shelfmap

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/AMAShyp/declare/internal/domain"
	"github.com/AMAShyp/declare/internal/metrics"
)

const (
	// doubleSubmitWindow is how long an identical batch for the same
	// location is rejected as an accidental duplicate.
	doubleSubmitWindow = 2 * time.Second

	guardEvictionInterval = 1 * time.Minute

	// maxRecentLimit caps the per-location history page size.
	maxRecentLimit     = 200
	defaultRecentLimit = 200
)

// Service is the application layer. It is the only component that
// references multiple repositories and orchestrates all use cases.
type Service struct {
	items       domain.ItemRepository
	locations   domain.LocationRepository
	entries     domain.EntryRepository
	lookups     domain.LookupRepository
	publisher   domain.EventPublisher
	cache       *LayoutCache
	guard       *submitGuard
	layoutGroup singleflight.Group
	clock       clockwork.Clock
}

// NewService creates the application layer service.
// publisher may be nil if event fan-out is not configured.
func NewService(
	items domain.ItemRepository,
	locations domain.LocationRepository,
	entries domain.EntryRepository,
	lookups domain.LookupRepository,
	publisher domain.EventPublisher,
	layoutTTL time.Duration,
	clock clockwork.Clock,
) *Service {
	s := &Service{
		items:     items,
		locations: locations,
		entries:   entries,
		lookups:   lookups,
		publisher: publisher,
		cache:     NewLayoutCache(layoutTTL, clock),
		guard:     newSubmitGuard(doubleSubmitWindow, clock),
		clock:     clock,
	}

	s.guard.startEvictionTimer(guardEvictionInterval)
	return s
}

// GetLayout returns all shelf locations with their render-ready
// polygons. Results are cached; concurrent misses are collapsed into a
// single database query.
func (s *Service) GetLayout(ctx context.Context) ([]domain.MapLocation, error) {
	if layout, ok := s.cache.Get(); ok {
		metrics.LayoutCacheHits.WithLabelValues("hit").Inc()
		return layout, nil
	}
	metrics.LayoutCacheHits.WithLabelValues("miss").Inc()

	result, err, _ := s.layoutGroup.Do("layout", func() (any, error) {
		locations, err := s.locations.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load shelf layout: %w", err)
		}

		layout := make([]domain.MapLocation, len(locations))
		for i, loc := range locations {
			layout[i] = loc.AsMapLocation()
		}

		s.cache.Set(layout)
		return layout, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.MapLocation), nil
}

// UpsertLocation creates or updates a shelf location and invalidates
// the layout cache, locally and on every peer instance, so map
// viewers pick it up on the next fetch.
func (s *Service) UpsertLocation(ctx context.Context, loc domain.Location) error {
	if err := s.locations.Upsert(ctx, loc); err != nil {
		return err
	}
	s.cache.Invalidate()

	if s.publisher != nil {
		// Best-effort; peers fall back to their cache TTL.
		if err := s.publisher.InvalidateLayout(ctx); err != nil {
			slog.Warn("Failed to broadcast layout invalidation",
				"locid", loc.LocID, "error", err)
		}
	}
	return nil
}

// InvalidateLayout drops the local layout cache. Called when another
// instance changes a shelf location.
func (s *Service) InvalidateLayout() {
	s.cache.Invalidate()
}

// LookupItem finds an item by its exact barcode.
func (s *Service) LookupItem(ctx context.Context, barcode string) (*domain.Item, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrItemNotFound
	}
	return s.items.GetByBarcode(ctx, barcode)
}

// ItemSummary returns an item's inventory total and the locations it
// has been declared at.
func (s *Service) ItemSummary(ctx context.Context, itemID int64) (*domain.ItemSummary, error) {
	return s.items.Summary(ctx, itemID)
}

// DeclareStock validates and commits a declaration batch, then fans the
// committed entries out to map viewers.
//
// Lines with non-positive quantities are dropped; lines sharing an item
// are merged by summing. An identical batch resubmitted within the
// dedupe window returns domain.ErrDuplicateSubmit.
func (s *Service) DeclareStock(ctx context.Context, decl domain.Declaration) ([]domain.ShelfEntry, error) {
	decl.LocID = strings.TrimSpace(decl.LocID)
	if decl.LocID == "" {
		return nil, domain.ErrLocationNotFound
	}

	lines := mergeLines(decl.Lines)
	if len(lines) == 0 {
		return nil, domain.ErrEmptyDeclaration
	}

	sig := signature(decl.LocID, lines)
	if s.guard.check(sig) {
		metrics.DuplicateSubmitsTotal.Inc()
		return nil, domain.ErrDuplicateSubmit
	}

	entries, err := s.entries.BulkInsert(ctx, decl.LocID, lines)
	if err != nil {
		return nil, err
	}
	s.guard.record(sig)

	metrics.DeclarationsTotal.Add(float64(len(entries)))
	metrics.DeclarationBatchSize.Observe(float64(len(entries)))

	if s.publisher != nil {
		for _, entry := range entries {
			event := domain.DeclarationEvent{
				EventID:   uuid.New(),
				LocID:     entry.LocID,
				ItemID:    entry.ItemID,
				Name:      entry.Name,
				Barcode:   entry.Barcode,
				Quantity:  entry.Quantity,
				EntryDate: entry.EntryDate,
			}
			// Best-effort fan-out; the batch is already committed.
			if err := s.publisher.Publish(ctx, event); err != nil {
				slog.Error("Failed to publish declaration event",
					"locid", entry.LocID, "itemid", entry.ItemID, "error", err)
			}
		}
	}

	return entries, nil
}

// RecentDeclarations returns the latest declarations for a location,
// newest first. The limit is clamped to maxRecentLimit; non-positive
// limits use the default.
func (s *Service) RecentDeclarations(ctx context.Context, locID string, limit int) ([]domain.ShelfEntry, error) {
	locID = strings.TrimSpace(locID)
	if locID == "" {
		return nil, domain.ErrLocationNotFound
	}

	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	return s.entries.RecentAt(ctx, locID, limit)
}

// Sections returns the distinct dropdown section names.
func (s *Service) Sections(ctx context.Context) ([]string, error) {
	return s.lookups.Sections(ctx)
}

// Values returns the configured values for a dropdown section.
func (s *Service) Values(ctx context.Context, section string) ([]string, error) {
	return s.lookups.Values(ctx, section)
}

// Suppliers returns the supplier reference list.
func (s *Service) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.lookups.Suppliers(ctx)
}

// Stop stops the background eviction timer.
func (s *Service) Stop() {
	s.guard.stop()
}

// mergeLines drops non-positive quantities and merges lines sharing an
// item by summing, preserving deterministic itemid order.
func mergeLines(lines []domain.DeclarationLine) []domain.DeclarationLine {
	totals := make(map[int64]int)
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		totals[line.ItemID] += line.Quantity
	}

	merged := make([]domain.DeclarationLine, 0, len(totals))
	for itemID, qty := range totals {
		merged = append(merged, domain.DeclarationLine{ItemID: itemID, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ItemID < merged[j].ItemID })
	return merged
}

// signature builds the dedupe key for a normalized batch.
func signature(locID string, lines []domain.DeclarationLine) string {
	var b strings.Builder
	b.WriteString(locID)
	for _, line := range lines {
		fmt.Fprintf(&b, "|%d:%d", line.ItemID, line.Quantity)
	}
	return b.String()
}
