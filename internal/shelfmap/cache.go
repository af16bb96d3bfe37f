package shelfmap

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AMAShyp/declare/internal/domain"
)

// LayoutCache holds the rendered shelf map layout with TTL-based
// expiration. The layout changes rarely (only via upsert or seeding),
// so a short TTL keeps every map view off the database.
type LayoutCache struct {
	mu        sync.RWMutex
	layout    []domain.MapLocation
	expiresAt time.Time
	ttl       time.Duration
	clock     clockwork.Clock
}

// NewLayoutCache creates a layout cache with the specified TTL.
func NewLayoutCache(ttl time.Duration, clock clockwork.Clock) *LayoutCache {
	return &LayoutCache{ttl: ttl, clock: clock}
}

// Get returns the cached layout if present and not expired.
func (c *LayoutCache) Get() ([]domain.MapLocation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.layout == nil || c.clock.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.layout, true
}

// Set stores a layout with current timestamp + TTL.
func (c *LayoutCache) Set(layout []domain.MapLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.layout = layout
	c.expiresAt = c.clock.Now().Add(c.ttl)
}

// Invalidate drops the cached layout so the next read hits the database.
// Used after a location upsert to force immediate refresh.
func (c *LayoutCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layout = nil
}

// submitGuard rejects identical declaration batches submitted within a
// short window, catching accidental double-taps of the submit button.
type submitGuard struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	window  time.Duration
	clock   clockwork.Clock
	stopCh  chan struct{}
	stopped sync.Once
}

func newSubmitGuard(window time.Duration, clock clockwork.Clock) *submitGuard {
	return &submitGuard{
		seen:   make(map[string]time.Time),
		window: window,
		clock:  clock,
		stopCh: make(chan struct{}),
	}
}

// check reports whether the signature is inside the dedupe window.
// It never records: only committed batches enter the guard, so a
// batch that failed to insert can be retried immediately.
func (g *submitGuard) check(signature string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	expiry, ok := g.seen[signature]
	return ok && g.clock.Now().Before(expiry)
}

// record starts the dedupe window for a committed batch.
func (g *submitGuard) record(signature string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen[signature] = g.clock.Now().Add(g.window)
}

// evictExpired removes stale signatures and returns the count evicted.
func (g *submitGuard) evictExpired() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	evicted := 0
	for sig, expiry := range g.seen {
		if now.After(expiry) {
			delete(g.seen, sig)
			evicted++
		}
	}
	return evicted
}

// startEvictionTimer starts a background goroutine that periodically
// evicts stale signatures so the map cannot grow unbounded.
func (g *submitGuard) startEvictionTimer(interval time.Duration) {
	ticker := g.clock.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ticker.Chan():
				if evicted := g.evictExpired(); evicted > 0 {
					slog.Debug("Evicted expired submit signatures", "count", evicted)
				}
			case <-g.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

func (g *submitGuard) stop() {
	g.stopped.Do(func() {
		close(g.stopCh)
	})
}
