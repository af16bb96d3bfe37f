package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	// Metrics wrap the error middleware so the counted status is the
	// one actually written for classified errors.
	s.echo.Use(metricsMiddleware)
	s.echo.Use(ErrorHandlingMiddleware())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Observability endpoints (no rate limit)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	declareLimiter := newRateLimiter(s.config.DeclareRate, s.config.DeclareBurst)

	// Shelf map API
	s.echo.GET("/api/map/locations", s.handleMapLocations)
	s.echo.PUT("/api/map/locations", s.handleUpsertLocation, declareLimiter)
	s.echo.GET("/api/items", s.handleItemLookup)
	s.echo.GET("/api/items/:itemid/summary", s.handleItemSummary)
	s.echo.POST("/api/declarations", s.handleDeclare, declareLimiter)
	s.echo.GET("/api/locations/:locid/declarations", s.handleRecentDeclarations)
	s.echo.GET("/api/dropdowns", s.handleDropdownSections)
	s.echo.GET("/api/dropdowns/:section", s.handleDropdownValues)
	s.echo.GET("/api/suppliers", s.handleSuppliers)

	// Live map feed
	s.echo.GET("/ws/map", s.handleWebSocket)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}
