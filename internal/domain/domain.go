package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Transaction constants for shelf entries. Declarations are append-only
// stocktake rows; nothing is ever updated in place.
const (
	TrxTypeStocktake = "STOCKTAKE"
	NoteDeclare      = "declare"
)

// Item is a sellable product identified by its barcode.
type Item struct {
	ItemID        int64  `json:"itemid"`
	Name          string `json:"name"`
	Barcode       string `json:"barcode"`
	FamilyCat     string `json:"familycat,omitempty"`
	SectionCat    string `json:"sectioncat,omitempty"`
	DepartmentCat string `json:"departmentcat,omitempty"`
	ClassCat      string `json:"classcat,omitempty"`
}

// Location is a shelf rectangle on the store map. Coordinates are
// normalized to 0..1 map space; rotation is degrees about the center.
type Location struct {
	LocID       string  `json:"locid"`
	Label       string  `json:"label"`
	XPct        float64 `json:"x_pct"`
	YPct        float64 `json:"y_pct"`
	WPct        float64 `json:"w_pct"`
	HPct        float64 `json:"h_pct"`
	RotationDeg float64 `json:"rotation_deg"`
}

// MapLocation is a Location with its render-ready closed polygon.
type MapLocation struct {
	Location
	Polygon [][2]float64 `json:"polygon"`
}

// DeclarationLine is a single item/quantity pair within a declaration.
type DeclarationLine struct {
	ItemID   int64 `json:"itemid"`
	Quantity int   `json:"qty"`
}

// Declaration is a batch of stock declarations for one shelf location.
type Declaration struct {
	LocID string            `json:"locid"`
	Lines []DeclarationLine `json:"items"`
}

// ShelfEntry is a recorded declaration joined with item details.
type ShelfEntry struct {
	EntryID   int64     `json:"entryid"`
	ItemID    int64     `json:"itemid"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	Quantity  int       `json:"quantity"`
	LocID     string    `json:"locid"`
	EntryDate time.Time `json:"entrydate"`
}

// ItemSummary aggregates an item's inventory total and the locations
// it has been declared at.
type ItemSummary struct {
	ItemID         int64    `json:"itemid"`
	InventoryTotal int64    `json:"inventory_total"`
	SeenAt         []string `json:"seen_at"`
}

// Supplier is a product supplier reference row.
type Supplier struct {
	SupplierID int64  `json:"supplierid"`
	Name       string `json:"suppliername"`
}

// DeclarationEvent is fanned out to map viewers after a declaration
// batch commits. EventID lets viewers dedupe replays after reconnects.
type DeclarationEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	LocID     string    `json:"locid"`
	ItemID    int64     `json:"itemid"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	Quantity  int       `json:"quantity"`
	EntryDate time.Time `json:"entrydate"`
}

// ItemRepository provides read access to the item catalogue.
type ItemRepository interface {
	GetByBarcode(ctx context.Context, barcode string) (*Item, error)
	Summary(ctx context.Context, itemID int64) (*ItemSummary, error)
}

// LocationRepository provides access to shelf map locations.
type LocationRepository interface {
	List(ctx context.Context) ([]Location, error)
	Upsert(ctx context.Context, loc Location) error
}

// EntryRepository provides access to the append-only shelfentries log.
type EntryRepository interface {
	BulkInsert(ctx context.Context, locID string, lines []DeclarationLine) ([]ShelfEntry, error)
	RecentAt(ctx context.Context, locID string, limit int) ([]ShelfEntry, error)
}

// LookupRepository serves the configurable dropdown lists and the
// supplier reference table.
type LookupRepository interface {
	Sections(ctx context.Context) ([]string, error)
	Values(ctx context.Context, section string) ([]string, error)
	Suppliers(ctx context.Context) ([]Supplier, error)
}

// EventPublisher fans a committed declaration out to map viewers,
// locally or across instances, and tells peer instances to drop
// their cached layout after a location change.
type EventPublisher interface {
	Publish(ctx context.Context, event DeclarationEvent) error
	InvalidateLayout(ctx context.Context) error
}
