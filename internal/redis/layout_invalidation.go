package redis

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
)

// layoutInvalidationChannel carries "drop your cached layout" signals
// between instances after a shelf location changes.
const layoutInvalidationChannel = "declare:layout:invalidate"

// PublishLayoutInvalidation tells every instance to drop its cached
// layout.
func (ps *PubSub) PublishLayoutInvalidation(ctx context.Context) error {
	if err := ps.rdb.Publish(ctx, layoutInvalidationChannel, "layout").Err(); err != nil {
		return fmt.Errorf("failed to publish layout invalidation: %w", err)
	}
	return nil
}

// LayoutInvalidator is the cache surface the subscriber drops.
type LayoutInvalidator interface {
	InvalidateLayout()
}

// LayoutInvalidationSubscriber invalidates the local layout cache
// whenever any instance upserts a shelf location, so map viewers on
// other instances see the change on their next fetch instead of after
// the cache TTL.
type LayoutInvalidationSubscriber struct {
	rdb   *goredis.Client
	cache LayoutInvalidator
}

// NewLayoutInvalidationSubscriber creates a subscriber dropping cache
// on every invalidation signal.
func NewLayoutInvalidationSubscriber(rdb *goredis.Client, cache LayoutInvalidator) *LayoutInvalidationSubscriber {
	return &LayoutInvalidationSubscriber{rdb: rdb, cache: cache}
}

// Start blocks until the context is cancelled, invalidating the cache
// for every received signal.
func (s *LayoutInvalidationSubscriber) Start(ctx context.Context) {
	pubsub := s.rdb.Subscribe(ctx, layoutInvalidationChannel)
	defer func() { _ = pubsub.Close() }()

	ch := pubsub.Channel()
	for {
		select {
		case msg := <-ch:
			if msg == nil {
				return
			}
			s.cache.InvalidateLayout()
			slog.Debug("Layout cache invalidated via pub/sub")
		case <-ctx.Done():
			return
		}
	}
}
