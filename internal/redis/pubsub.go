package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AMAShyp/declare/internal/domain"
)

// declarationChannel is the Pub/Sub channel carrying committed
// declaration events across service instances.
const declarationChannel = "declare:events"

// PubSub provides cross-instance declaration fan-out via Redis Pub/Sub.
type PubSub struct {
	rdb *goredis.Client
}

// NewPubSub creates a new PubSub instance.
func NewPubSub(rdb *goredis.Client) *PubSub {
	return &PubSub{rdb: rdb}
}

// Publish publishes a declaration event to all subscribed instances.
func (ps *PubSub) Publish(ctx context.Context, event domain.DeclarationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal declaration event: %w", err)
	}
	if err := ps.rdb.Publish(ctx, declarationChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish declaration event: %w", err)
	}
	return nil
}

// Subscription represents an active Pub/Sub subscription.
type Subscription struct {
	sub    *goredis.PubSub
	Ch     <-chan domain.DeclarationEvent
	cancel context.CancelFunc
}

// Close unsubscribes and closes the subscription.
func (s *Subscription) Close() {
	s.cancel()
	_ = s.sub.Close()
}

// Subscribe subscribes to declaration events from all instances.
// Returns a Subscription with a channel that receives events.
// Call subscription.Close() when done.
func (ps *PubSub) Subscribe(ctx context.Context) *Subscription {
	sub := ps.rdb.Subscribe(ctx, declarationChannel)

	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan domain.DeclarationEvent, 16)

	go func() {
		defer close(ch)
		msgCh := sub.Channel()
		for {
			select {
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				var event domain.DeclarationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.Error("Failed to unmarshal pubsub message", "error", err)
					continue
				}
				select {
				case ch <- event:
				default:
					// Drop if receiver is slow
				}
			case <-subCtx.Done():
				return
			}
		}
	}()

	return &Subscription{
		sub:    sub,
		Ch:     ch,
		cancel: cancel,
	}
}
