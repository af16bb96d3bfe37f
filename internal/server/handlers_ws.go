package server

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
)

// handleWebSocket upgrades a map viewer connection and attaches it to
// the hub. The read loop exists only to detect disconnects; viewers
// never send application messages.
func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	if err := s.hub.Register(conn); err != nil {
		slog.Warn("Failed to register map viewer", "error", err)
		return nil
	}

	go func() {
		defer s.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}
