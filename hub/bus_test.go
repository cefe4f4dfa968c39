package hub

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus_DeliversInPublishOrder(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 8)

	sub := bus.Subscribe()
	bus.Publish([]byte("one"))
	bus.Publish([]byte("two"))
	bus.Publish([]byte("three"))

	req.Equal("one", string(<-sub.C))
	req.Equal("two", string(<-sub.C))
	req.Equal("three", string(<-sub.C))
}

func TestBus_NoDeliveryBeforeSubscribe(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 8)

	bus.Publish([]byte("early"))
	sub := bus.Subscribe()
	bus.Publish([]byte("late"))

	req.Equal("late", string(<-sub.C))
	req.Empty(sub.C)
}

func TestBus_SlowSubscriberSkipsForward(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 2)

	sub := bus.Subscribe()
	bus.Publish([]byte("one"))
	bus.Publish([]byte("two"))
	// Queue is full: the oldest unread item is evicted, never the publisher blocked
	bus.Publish([]byte("three"))

	req.Equal("two", string(<-sub.C))
	req.Equal("three", string(<-sub.C))
	req.Empty(sub.C)
}

func TestBus_SubscribersAreIndependent(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 2)

	slow := bus.Subscribe()
	fast := bus.Subscribe()

	bus.Publish([]byte("one"))
	req.Equal("one", string(<-fast.C))
	bus.Publish([]byte("two"))
	req.Equal("two", string(<-fast.C))
	bus.Publish([]byte("three"))
	req.Equal("three", string(<-fast.C))

	// The fast subscriber saw everything; the slow one lost only its oldest item
	req.Equal("two", string(<-slow.C))
	req.Equal("three", string(<-slow.C))
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 2)

	sub := bus.Subscribe()
	req.Equal(1, bus.SubscriberCount())
	bus.Unsubscribe(sub)
	req.Equal(0, bus.SubscriberCount())

	_, open := <-sub.C
	req.False(open)

	// Publishing after unsubscribe must not panic
	bus.Publish([]byte("after"))
	// Double unsubscribe is a no-op
	bus.Unsubscribe(sub)
}

func TestBus_PublishJSON(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 2)

	sub := bus.Subscribe()
	req.NoError(bus.PublishJSON(map[string]string{"type": "room_deleted", "room_id": "r1"}))
	req.JSONEq(`{"type":"room_deleted","room_id":"r1"}`, string(<-sub.C))
}
