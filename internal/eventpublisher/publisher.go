// Package eventpublisher wires committed declarations to map viewers,
// either directly to the local hub or across instances via Redis
// Pub/Sub.
package eventpublisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AMAShyp/declare/internal/domain"
	"github.com/AMAShyp/declare/internal/metrics"
	"github.com/AMAShyp/declare/internal/redis"
	"github.com/AMAShyp/declare/internal/websocket"
)

// Local implements domain.EventPublisher by broadcasting straight to
// the in-process hub. Used when no Redis is configured and the service
// runs as a single instance.
type Local struct {
	hub *websocket.Hub
}

// NewLocal creates a publisher that fans out to the local hub only.
func NewLocal(hub *websocket.Hub) *Local {
	return &Local{hub: hub}
}

// Publish broadcasts the event to locally connected viewers.
func (p *Local) Publish(_ context.Context, event domain.DeclarationEvent) error {
	p.hub.Broadcast(event)
	return nil
}

// InvalidateLayout is a no-op: with a single instance the service has
// already dropped its own cache.
func (p *Local) InvalidateLayout(context.Context) error {
	return nil
}

// Redis implements domain.EventPublisher by publishing to the shared
// Pub/Sub channel so every instance's viewers see the event. The local
// hub receives it through the Bridge like everyone else.
type Redis struct {
	pubsub *redis.PubSub
}

// NewRedis creates a publisher backed by Redis Pub/Sub.
func NewRedis(pubsub *redis.PubSub) *Redis {
	return &Redis{pubsub: pubsub}
}

// Publish publishes the event to all instances.
func (p *Redis) Publish(ctx context.Context, event domain.DeclarationEvent) error {
	if err := p.pubsub.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish declaration event: %w", err)
	}
	return nil
}

// InvalidateLayout signals every instance, this one included, to drop
// its cached layout.
func (p *Redis) InvalidateLayout(ctx context.Context) error {
	if err := p.pubsub.PublishLayoutInvalidation(ctx); err != nil {
		return fmt.Errorf("publish layout invalidation: %w", err)
	}
	return nil
}

// resubscribeDelay paces reconnection attempts when the subscription
// channel closes unexpectedly.
const resubscribeDelay = time.Second

// Bridge forwards declaration events from the Pub/Sub subscription to
// the local hub. Run blocks until the context is cancelled,
// resubscribing if the subscription drops.
func Bridge(ctx context.Context, pubsub *redis.PubSub, hub *websocket.Hub) {
	for {
		sub := pubsub.Subscribe(ctx)
		for event := range sub.Ch {
			hub.Broadcast(event)
		}
		sub.Close()

		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeDelay):
		}

		metrics.PubSubReconnectionsTotal.Inc()
		slog.Warn("Declaration event subscription dropped, resubscribing")
	}
}
