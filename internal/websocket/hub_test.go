package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMAShyp/declare/internal/domain"
)

// testHub sets up a Hub with a test HTTP server that upgrades connections to WebSocket.
// Returns the hub and a dial function to connect viewers.
func testHub(t *testing.T) (*Hub, func() *ws.Conn) {
	t.Helper()

	hub := NewHub()
	t.Cleanup(func() { hub.Stop() })

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		_ = hub.Register(conn)

		// Read loop to detect disconnects
		go func() {
			defer hub.Unregister(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}))

	t.Cleanup(func() { server.Close() })

	dial := func() *ws.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(server.URL, "http")
		conn, _, err := ws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	return hub, dial
}

// waitForClientCount polls until the hub has the expected viewer count.
func waitForClientCount(hub *Hub, expected int) bool {
	for range 100 {
		if hub.GetClientCount() == expected {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func testEvent() domain.DeclarationEvent {
	return domain.DeclarationEvent{
		LocID:     "A1",
		ItemID:    7,
		Name:      "Pen",
		Barcode:   "4006381333931",
		Quantity:  5,
		EntryDate: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub, dial := testHub(t)

	conn := dial()
	require.True(t, waitForClientCount(hub, 1))

	hub.Broadcast(testEvent())

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event domain.DeclarationEvent
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, "A1", event.LocID)
	assert.Equal(t, int64(7), event.ItemID)
	assert.Equal(t, 5, event.Quantity)
}

func TestHub_MultipleClients(t *testing.T) {
	hub, dial := testHub(t)

	conn1 := dial()
	conn2 := dial()
	require.True(t, waitForClientCount(hub, 2))

	hub.Broadcast(testEvent())

	// Both viewers should receive the event
	for _, conn := range []*ws.Conn{conn1, conn2} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var event domain.DeclarationEvent
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, "A1", event.LocID)
	}
}

func TestHub_GetClientCount(t *testing.T) {
	hub, dial := testHub(t)

	assert.Equal(t, 0, hub.GetClientCount())

	conn1 := dial()
	require.True(t, waitForClientCount(hub, 1))

	dial()
	require.True(t, waitForClientCount(hub, 2))

	conn1.Close()
	require.True(t, waitForClientCount(hub, 1))
}

func TestHub_BroadcastNoClients(t *testing.T) {
	hub, _ := testHub(t)
	// Should not panic
	hub.Broadcast(testEvent())
}

func TestHub_MaxClients(t *testing.T) {
	hub := NewHub()
	t.Cleanup(func() { hub.Stop() })

	conns := make([]*ws.Conn, 0, maxClients)
	for i := 0; i < maxClients; i++ {
		server, client := newTestConnPair(t)
		errCh := make(chan error, 1)
		hub.cmdCh <- cmdRegister{conn: server, errCh: errCh}
		err := <-errCh
		require.NoError(t, err, "client %d should register successfully", i)
		conns = append(conns, client)
	}

	assert.Equal(t, maxClients, hub.GetClientCount())

	// The next viewer should be rejected
	server, client := newTestConnPair(t)
	errCh := make(chan error, 1)
	hub.cmdCh <- cmdRegister{conn: server, errCh: errCh}
	err := <-errCh
	assert.ErrorIs(t, err, ErrHubFull)

	_ = client
	for _, c := range conns {
		c.Close()
	}
}

// newTestConnPair creates a connected pair of WebSocket connections for testing.
func newTestConnPair(t *testing.T) (server *ws.Conn, client *ws.Conn) {
	t.Helper()
	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	ready := make(chan *ws.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		ready <- conn
	}))
	t.Cleanup(func() { srv.Close() })

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-ready
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, clientConn
}

func TestHub_SlowClientEvicted(t *testing.T) {
	hub := NewHub()
	t.Cleanup(func() { hub.Stop() })

	server, client := newTestConnPair(t)
	errCh := make(chan error, 1)
	hub.cmdCh <- cmdRegister{conn: server, errCh: errCh}
	require.NoError(t, <-errCh)

	// Kill the peer so the writer goroutine dies on its next write.
	// Once the writer stops draining, the send buffer fills and the
	// hub evicts the connection on a later broadcast.
	client.Close()

	evicted := false
	for range 200 {
		hub.Broadcast(testEvent())
		if hub.GetClientCount() == 0 {
			evicted = true
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, evicted, "slow client should be evicted")
	_ = server
}
