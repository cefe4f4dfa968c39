package hub

import (
	"log/slog"
	"testing"

	"chat-hub/mocks"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newCacheWithMocks(t *testing.T) (*AccessCache, *mocks.MockIUserRepository, *mocks.MockIRoomRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	rooms := mocks.NewMockIRoomRepository(ctrl)
	return NewAccessCache(slog.Default(), users, rooms), users, rooms
}

func TestAccessCache_UserRoleReadThrough(t *testing.T) {
	req := require.New(t)
	cache, users, _ := newCacheWithMocks(t)

	// Exactly one repository query: the second lookup is served from cache
	users.EXPECT().Role("u1").Return(lo.ToPtr("beta"), nil).Times(1)

	role, ok := cache.UserRole("u1")
	req.True(ok)
	req.Equal("beta", role)

	role, ok = cache.UserRole("u1")
	req.True(ok)
	req.Equal("beta", role)
}

func TestAccessCache_UnknownUserIsNotCached(t *testing.T) {
	req := require.New(t)
	cache, users, _ := newCacheWithMocks(t)

	users.EXPECT().Role("ghost").Return(nil, nil).Times(2)

	_, ok := cache.UserRole("ghost")
	req.False(ok)
	_, ok = cache.UserRole("ghost")
	req.False(ok)
}

func TestAccessCache_ClearAllUserRoles(t *testing.T) {
	req := require.New(t)
	cache, users, _ := newCacheWithMocks(t)

	users.EXPECT().Role("u1").Return(lo.ToPtr("beta"), nil).Times(2)

	_, ok := cache.UserRole("u1")
	req.True(ok)

	cache.ClearAllUserRoles()

	// After the wipe every lookup re-queries persistence
	role, ok := cache.UserRole("u1")
	req.True(ok)
	req.Equal("beta", role)
}

func TestAccessCache_SetUserRoleSkipsRepository(t *testing.T) {
	req := require.New(t)
	cache, _, _ := newCacheWithMocks(t)

	cache.SetUserRole("u1", "gamma")

	role, ok := cache.UserRole("u1")
	req.True(ok)
	req.Equal("gamma", role)
}

func TestAccessCache_RoomRoleReadThroughAndEviction(t *testing.T) {
	req := require.New(t)
	cache, _, rooms := newCacheWithMocks(t)

	rooms.EXPECT().RequiredRole("r1").Return(lo.ToPtr("beta"), nil).Times(2)

	role, ok := cache.RoomRequiredRole("r1")
	req.True(ok)
	req.Equal("beta", role)

	// Cached now
	role, ok = cache.RoomRequiredRole("r1")
	req.True(ok)
	req.Equal("beta", role)

	// Eviction forces a re-query
	cache.RemoveRoom("r1")
	_, ok = cache.RoomRequiredRole("r1")
	req.True(ok)
}

func TestAccessCache_SetRoomRequiredRole(t *testing.T) {
	req := require.New(t)
	cache, _, _ := newCacheWithMocks(t)

	cache.SetRoomRequiredRole("r1", "admin")

	role, ok := cache.RoomRequiredRole("r1")
	req.True(ok)
	req.Equal("admin", role)
}
