package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/AMAShyp/declare/internal/domain"
	apperrors "github.com/AMAShyp/declare/internal/errors"
)

func (s *Server) handleMapLocations(c echo.Context) error {
	layout, err := s.app.GetLayout(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load shelf layout", err)
	}

	if err := c.JSON(http.StatusOK, map[string]any{"locations": layout}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpsertLocation(c echo.Context) error {
	var loc domain.Location
	if err := c.Bind(&loc); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if loc.LocID == "" {
		return apperrors.ValidationError("locid is required")
	}
	if loc.WPct <= 0 || loc.HPct <= 0 {
		return apperrors.ValidationError("w_pct and h_pct must be positive").WithField("locid", loc.LocID)
	}

	if err := s.app.UpsertLocation(c.Request().Context(), loc); err != nil {
		return apperrors.InternalError("failed to save shelf location", err).WithField("locid", loc.LocID)
	}

	if err := c.JSON(http.StatusOK, loc); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleItemLookup(c echo.Context) error {
	barcode := c.QueryParam("barcode")
	if barcode == "" {
		return apperrors.ValidationError("barcode query parameter is required")
	}

	item, err := s.app.LookupItem(c.Request().Context(), barcode)
	if errors.Is(err, domain.ErrItemNotFound) {
		return apperrors.NotFoundError("item not found").WithField("barcode", barcode)
	}
	if err != nil {
		return apperrors.InternalError("failed to look up item", err).WithField("barcode", barcode)
	}

	if err := c.JSON(http.StatusOK, item); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleItemSummary(c echo.Context) error {
	itemIDStr := c.Param("itemid")
	itemID, err := strconv.ParseInt(itemIDStr, 10, 64)
	if err != nil {
		return apperrors.ValidationError("invalid item ID").WithField("itemid", itemIDStr)
	}

	summary, err := s.app.ItemSummary(c.Request().Context(), itemID)
	if errors.Is(err, domain.ErrItemNotFound) {
		return apperrors.NotFoundError("item not found").WithField("itemid", itemID)
	}
	if err != nil {
		return apperrors.InternalError("failed to load item summary", err).WithField("itemid", itemID)
	}

	if err := c.JSON(http.StatusOK, summary); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeclare(c echo.Context) error {
	var decl domain.Declaration
	if err := c.Bind(&decl); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	entries, err := s.app.DeclareStock(c.Request().Context(), decl)
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		return apperrors.ValidationError("locid is required").WithField("locid", decl.LocID)
	case errors.Is(err, domain.ErrEmptyDeclaration):
		return apperrors.ValidationError("declaration has no positive-quantity lines")
	case errors.Is(err, domain.ErrDuplicateSubmit):
		return apperrors.ConflictError("identical batch already submitted").WithField("locid", decl.LocID)
	case errors.Is(err, domain.ErrItemNotFound):
		return apperrors.ValidationError("declaration references an unknown item")
	case err != nil:
		return apperrors.InternalError("failed to commit declaration", err).WithField("locid", decl.LocID)
	}

	if err := c.JSON(http.StatusCreated, map[string]any{"entries": entries}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleRecentDeclarations(c echo.Context) error {
	locID := c.Param("locid")

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return apperrors.ValidationError("invalid limit").WithField("limit", limitStr)
		}
		limit = parsed
	}

	entries, err := s.app.RecentDeclarations(c.Request().Context(), locID, limit)
	if errors.Is(err, domain.ErrLocationNotFound) {
		return apperrors.ValidationError("locid is required")
	}
	if err != nil {
		return apperrors.InternalError("failed to load declarations", err).WithField("locid", locID)
	}

	if entries == nil {
		entries = []domain.ShelfEntry{}
	}
	if err := c.JSON(http.StatusOK, map[string]any{"declarations": entries}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDropdownSections(c echo.Context) error {
	sections, err := s.app.Sections(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load dropdown sections", err)
	}

	if sections == nil {
		sections = []string{}
	}
	if err := c.JSON(http.StatusOK, map[string]any{"sections": sections}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDropdownValues(c echo.Context) error {
	section := c.Param("section")

	values, err := s.app.Values(c.Request().Context(), section)
	if err != nil {
		return apperrors.InternalError("failed to load dropdown values", err).WithField("section", section)
	}

	if values == nil {
		values = []string{}
	}
	if err := c.JSON(http.StatusOK, map[string]any{"section": section, "values": values}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleSuppliers(c echo.Context) error {
	suppliers, err := s.app.Suppliers(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load suppliers", err)
	}

	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}
	if err := c.JSON(http.StatusOK, map[string]any{"suppliers": suppliers}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
