// Package server exposes the HTTP and WebSocket API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/AMAShyp/declare/internal/config"
	"github.com/AMAShyp/declare/internal/domain"
	ws "github.com/AMAShyp/declare/internal/websocket"
)

// appService is the application layer surface the handlers need.
type appService interface {
	GetLayout(ctx context.Context) ([]domain.MapLocation, error)
	UpsertLocation(ctx context.Context, loc domain.Location) error
	LookupItem(ctx context.Context, barcode string) (*domain.Item, error)
	ItemSummary(ctx context.Context, itemID int64) (*domain.ItemSummary, error)
	DeclareStock(ctx context.Context, decl domain.Declaration) ([]domain.ShelfEntry, error)
	RecentDeclarations(ctx context.Context, locID string, limit int) ([]domain.ShelfEntry, error)
	Sections(ctx context.Context) ([]string, error)
	Values(ctx context.Context, section string) ([]string, error)
	Suppliers(ctx context.Context) ([]domain.Supplier, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app appService
	hub *ws.Hub

	upgrader     websocket.Upgrader
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, hub *ws.Hub, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:   e,
		config: cfg,
		app:    app,
		hub:    hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: ws.NewCheckOrigin(cfg.AppURL, cfg.IsDevelopment()),
		},
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
