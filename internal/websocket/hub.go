package websocket

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AMAShyp/declare/internal/domain"
	"github.com/AMAShyp/declare/internal/metrics"
)

const maxClients = 200

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	conn  *websocket.Conn
	errCh chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	data []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdGetClientCount struct {
	replyCh chan int
}

func (cmdGetClientCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			cw.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// --- Hub ---

// Hub fans declaration events out to all connected map viewers. All
// state is owned by the run goroutine; callers communicate through the
// command channel only.
type Hub struct {
	cmdCh   chan hubCmd
	clients map[*websocket.Conn]*clientWriter
}

// NewHub creates the hub and starts its command loop.
func NewHub() *Hub {
	hub := &Hub{
		cmdCh:   make(chan hubCmd, 256),
		clients: make(map[*websocket.Conn]*clientWriter),
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.conn)
		case cmdBroadcast:
			h.handleBroadcast(c)
		case cmdGetClientCount:
			c.replyCh <- len(h.clients)
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	if len(h.clients) >= maxClients {
		slog.Warn("Rejecting map viewer: max clients reached", "max", maxClients)
		c.conn.Close()
		c.errCh <- ErrHubFull
		return
	}

	h.clients[c.conn] = newClientWriter(c.conn)
	metrics.WSConnectedClients.Set(float64(len(h.clients)))
	slog.Debug("Map viewer registered", "total_clients", len(h.clients))
	c.errCh <- nil
}

func (h *Hub) handleUnregister(conn *websocket.Conn) {
	cw, exists := h.clients[conn]
	if !exists {
		return
	}

	cw.stop()
	delete(h.clients, conn)
	metrics.WSConnectedClients.Set(float64(len(h.clients)))
	slog.Debug("Map viewer unregistered", "remaining_clients", len(h.clients))
}

func (h *Hub) handleBroadcast(c cmdBroadcast) {
	var slow []*websocket.Conn
	for conn, cw := range h.clients {
		select {
		case cw.sendCh <- c.data:
		default:
			// client is slow, mark for removal
			slow = append(slow, conn)
		}
	}

	metrics.WSEventsBroadcast.Inc()

	for _, conn := range slow {
		slog.Warn("Disconnecting slow map viewer")
		metrics.WSSlowClientsEvicted.Inc()
		h.handleUnregister(conn)
	}
}

func (h *Hub) handleStop() {
	for conn, cw := range h.clients {
		cw.stop()
		delete(h.clients, conn)
	}
	metrics.WSConnectedClients.Set(0)
}

// --- Public API ---

// Register adds a viewer connection to the hub. The connection is
// closed and an error returned when the hub is at capacity.
func (h *Hub) Register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{conn: conn, errCh: errCh}
	return <-errCh
}

// Unregister removes a viewer connection and stops its writer.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{conn: conn}
}

// Broadcast sends a declaration event to every connected viewer. Slow
// viewers with full send buffers are evicted.
func (h *Hub) Broadcast(event domain.DeclarationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "error", err)
		return
	}
	h.cmdCh <- cmdBroadcast{data: data}
}

// GetClientCount returns the number of connected viewers.
func (h *Hub) GetClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdGetClientCount{replyCh: replyCh}
	return <-replyCh
}

// Stop disconnects all viewers and terminates the command loop.
func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}
