package hub

import (
	"log/slog"
	"sync"

	"chat-hub/repositories"
)

// AccessCache is a read-through cache over user roles and room required
// roles. Misses are resolved against the repositories and cached until an
// explicit invalidation arrives from the REST layer (role assigned, role
// definition deleted, room updated or deleted).
//
// The mutex guards the two maps only; repository lookups run unlocked, so a
// cold key may be fetched more than once under contention. Both fetches
// return the same persisted value, so the race is harmless.
type AccessCache struct {
	mu        sync.Mutex
	log       *slog.Logger
	users     repositories.IUserRepository
	rooms     repositories.IRoomRepository
	userRoles map[string]string
	roomRoles map[string]string
}

func NewAccessCache(log *slog.Logger, users repositories.IUserRepository,
	rooms repositories.IRoomRepository) *AccessCache {
	return &AccessCache{
		log:       log,
		users:     users,
		rooms:     rooms,
		userRoles: make(map[string]string),
		roomRoles: make(map[string]string),
	}
}

// UserRole returns the cached role for a user, querying the repository on a
// miss. The second value is false when the user does not exist or the lookup
// failed.
func (c *AccessCache) UserRole(userID string) (string, bool) {
	c.mu.Lock()
	role, ok := c.userRoles[userID]
	c.mu.Unlock()
	if ok {
		return role, true
	}

	fetched, err := c.users.Role(userID)
	if err != nil {
		c.log.Warn("user role lookup failed", "user_id", userID, "error", err)
		return "", false
	}
	if fetched == nil {
		return "", false
	}

	c.mu.Lock()
	c.userRoles[userID] = *fetched
	c.mu.Unlock()
	return *fetched, true
}

// RoomRequiredRole returns the cached required role for a room, querying the
// repository on a miss. The second value is false when the room does not
// exist or the lookup failed.
func (c *AccessCache) RoomRequiredRole(roomID string) (string, bool) {
	c.mu.Lock()
	role, ok := c.roomRoles[roomID]
	c.mu.Unlock()
	if ok {
		return role, true
	}

	fetched, err := c.rooms.RequiredRole(roomID)
	if err != nil {
		c.log.Warn("room role lookup failed", "room_id", roomID, "error", err)
		return "", false
	}
	if fetched == nil {
		return "", false
	}

	c.mu.Lock()
	c.roomRoles[roomID] = *fetched
	c.mu.Unlock()
	return *fetched, true
}

// SetUserRole upserts one user entry. Called after a role is assigned.
func (c *AccessCache) SetUserRole(userID, role string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userRoles[userID] = role
}

// ClearAllUserRoles wipes the whole user-role map. Called after a role
// definition is deleted, since an unknown number of users may have been
// reassigned.
func (c *AccessCache) ClearAllUserRoles() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userRoles = make(map[string]string)
}

// SetRoomRequiredRole upserts one room entry. Called after a room update.
func (c *AccessCache) SetRoomRequiredRole(roomID, role string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomRoles[roomID] = role
}

// RemoveRoom evicts one room entry. Called after a room deletion.
func (c *AccessCache) RemoveRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.roomRoles, roomID)
}
