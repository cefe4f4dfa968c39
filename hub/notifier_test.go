package hub

import (
	"log/slog"
	"testing"
	"time"

	"chat-hub/repositories"

	"github.com/stretchr/testify/require"
)

func TestNotifier_RoomUpdated(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 4)
	cache, _, _ := newCacheWithMocks(t)
	notifier := NewNotifier(slog.Default(), bus, cache)

	sub := bus.Subscribe()
	notifier.RoomUpdated(repositories.Room{
		ID: "r1", Name: "general", Kind: "text", RequiredRole: "beta",
	})

	// Cache is refreshed without touching the repository
	role, ok := cache.RoomRequiredRole("r1")
	req.True(ok)
	req.Equal("beta", role)

	req.JSONEq(
		`{"type":"room_updated","room_id":"r1","name":"general","kind":"text","required_role":"beta"}`,
		string(<-sub.C))
}

func TestNotifier_RoomDeleted(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 4)
	cache, _, rooms := newCacheWithMocks(t)
	notifier := NewNotifier(slog.Default(), bus, cache)

	cache.SetRoomRequiredRole("r1", "beta")
	sub := bus.Subscribe()

	notifier.RoomDeleted("r1")
	req.JSONEq(`{"type":"room_deleted","room_id":"r1"}`, string(<-sub.C))

	// The cache entry is gone: the next lookup goes back to persistence
	rooms.EXPECT().RequiredRole("r1").Return(nil, nil).Times(1)
	_, ok := cache.RoomRequiredRole("r1")
	req.False(ok)
}

func TestNotifier_RoleMutations(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 4)
	cache, users, _ := newCacheWithMocks(t)
	notifier := NewNotifier(slog.Default(), bus, cache)

	notifier.UserRoleAssigned("u1", "gamma")
	role, ok := cache.UserRole("u1")
	req.True(ok)
	req.Equal("gamma", role)

	notifier.RoleDefinitionDeleted()
	users.EXPECT().Role("u1").Return(nil, nil).Times(1)
	_, ok = cache.UserRole("u1")
	req.False(ok)
}

func TestNotifier_MessageEvents(t *testing.T) {
	req := require.New(t)
	bus := NewBus(slog.Default(), 4)
	cache, _, _ := newCacheWithMocks(t)
	notifier := NewNotifier(slog.Default(), bus, cache)

	sub := bus.Subscribe()

	notifier.MessageDeleted("m1", "r1")
	req.JSONEq(`{"type":"message_deleted","id":"m1","room_id":"r1"}`, string(<-sub.C))

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	notifier.MessagePinned("m2", "r1", "admin-1", at)
	req.JSONEq(
		`{"type":"message_pinned","id":"m2","room_id":"r1","pinned_at":"2026-08-01T12:00:00Z","pinned_by":"admin-1"}`,
		string(<-sub.C))

	notifier.MessageUnpinned("m2", "r1")
	req.JSONEq(`{"type":"message_unpinned","id":"m2","room_id":"r1"}`, string(<-sub.C))
}
