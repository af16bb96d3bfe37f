package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMAShyp/declare/internal/domain"
)

func testEvent(locID string, itemID int64) domain.DeclarationEvent {
	return domain.DeclarationEvent{
		EventID:   uuid.New(),
		LocID:     locID,
		ItemID:    itemID,
		Name:      "Oat Milk 1L",
		Barcode:   "7312345678901",
		Quantity:  3,
		EntryDate: time.Now().UTC().Truncate(time.Second),
	}
}

func TestPublishAndSubscribe(t *testing.T) {
	client := setupTestClient(t)
	ps := NewPubSub(client)
	ctx := context.Background()

	// Subscribe first
	sub := ps.Subscribe(ctx)
	defer sub.Close()

	// Give subscription time to establish
	time.Sleep(100 * time.Millisecond)

	sent := testEvent("A1", 42)
	require.NoError(t, ps.Publish(ctx, sent))

	select {
	case got := <-sub.Ch:
		assert.Equal(t, sent.EventID, got.EventID)
		assert.Equal(t, "A1", got.LocID)
		assert.Equal(t, int64(42), got.ItemID)
		assert.Equal(t, 3, got.Quantity)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pubsub message")
	}
}

func TestSubscribe_MultipleMessages(t *testing.T) {
	client := setupTestClient(t)
	ps := NewPubSub(client)
	ctx := context.Background()

	sub := ps.Subscribe(ctx)
	defer sub.Close()

	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, ps.Publish(ctx, testEvent("B2", int64(i))))
	}

	received := 0
	timeout := time.After(2 * time.Second)
	for received < 5 {
		select {
		case <-sub.Ch:
			received++
		case <-timeout:
			t.Fatalf("timed out, received %d/5 messages", received)
		}
	}
	assert.Equal(t, 5, received)
}

func TestSubscribe_AllSubscribersReceive(t *testing.T) {
	client := setupTestClient(t)
	ps := NewPubSub(client)
	ctx := context.Background()

	sub1 := ps.Subscribe(ctx)
	defer sub1.Close()
	sub2 := ps.Subscribe(ctx)
	defer sub2.Close()

	time.Sleep(100 * time.Millisecond)

	sent := testEvent("C3", 7)
	require.NoError(t, ps.Publish(ctx, sent))

	for i, sub := range []*Subscription{sub1, sub2} {
		select {
		case got := <-sub.Ch:
			assert.Equal(t, sent.EventID, got.EventID)
		case <-time.After(2 * time.Second):
			t.Fatalf("subscriber %d timed out", i+1)
		}
	}
}

type countingInvalidator struct {
	signals chan struct{}
}

func (c *countingInvalidator) InvalidateLayout() {
	c.signals <- struct{}{}
}

func TestLayoutInvalidation_RoundTrip(t *testing.T) {
	client := setupTestClient(t)
	ps := NewPubSub(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := &countingInvalidator{signals: make(chan struct{}, 1)}
	sub := NewLayoutInvalidationSubscriber(client, cache)
	go sub.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, ps.PublishLayoutInvalidation(ctx))

	select {
	case <-cache.signals:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for layout invalidation")
	}
}

func TestSubscribe_Close(t *testing.T) {
	client := setupTestClient(t)
	ps := NewPubSub(client)
	ctx := context.Background()

	sub := ps.Subscribe(ctx)
	sub.Close()

	// Channel should be closed eventually
	select {
	case _, ok := <-sub.Ch:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed after Close()")
	}
}
