package hub

import (
	"log/slog"
	"time"

	"chat-hub/repositories"
)

// Notifier is the surface the REST layer calls after it mutates rooms, roles
// or messages. Each call keeps the access cache consistent and broadcasts the
// matching event; connected clients receive these through the same outbound
// filter as hub-originated events.
type Notifier struct {
	log   *slog.Logger
	bus   *Bus
	cache *AccessCache
}

func NewNotifier(log *slog.Logger, bus *Bus, cache *AccessCache) *Notifier {
	return &Notifier{log: log, bus: bus, cache: cache}
}

type roomUpdatedEvent struct {
	Type         string `json:"type"`
	RoomID       string `json:"room_id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	RequiredRole string `json:"required_role"`
}

type roomDeletedEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

type messageDeletedEvent struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	RoomID string `json:"room_id"`
}

type messagePinnedEvent struct {
	Type     string  `json:"type"`
	ID       string  `json:"id"`
	RoomID   string  `json:"room_id"`
	PinnedAt *string `json:"pinned_at,omitempty"`
	PinnedBy *string `json:"pinned_by,omitempty"`
}

// RoomUpdated refreshes the cached required role and broadcasts the update.
func (n *Notifier) RoomUpdated(room repositories.Room) {
	n.cache.SetRoomRequiredRole(room.ID, room.RequiredRole)
	n.publish(roomUpdatedEvent{
		Type:         "room_updated",
		RoomID:       room.ID,
		Name:         room.Name,
		Kind:         room.Kind,
		RequiredRole: room.RequiredRole,
	})
}

// RoomDeleted evicts the room from the cache and broadcasts the deletion.
// The event stays room-scoped, so only clients that could see the room learn
// about its removal.
func (n *Notifier) RoomDeleted(roomID string) {
	n.cache.RemoveRoom(roomID)
	n.publish(roomDeletedEvent{Type: "room_deleted", RoomID: roomID})
}

// UserRoleAssigned upserts one user-role cache entry. No broadcast: live
// connections keep their snapshot until they reconnect.
func (n *Notifier) UserRoleAssigned(userID, role string) {
	n.cache.SetUserRole(userID, role)
}

// RoleDefinitionDeleted wipes the user-role cache, since any number of users
// may have been reassigned.
func (n *Notifier) RoleDefinitionDeleted() {
	n.cache.ClearAllUserRoles()
}

// MessageDeleted broadcasts a room-scoped deletion notice.
func (n *Notifier) MessageDeleted(messageID, roomID string) {
	n.publish(messageDeletedEvent{Type: "message_deleted", ID: messageID, RoomID: roomID})
}

// MessagePinned broadcasts a pin notice with the pinning admin and timestamp.
func (n *Notifier) MessagePinned(messageID, roomID, pinnedBy string, pinnedAt time.Time) {
	at := pinnedAt.Format(time.RFC3339Nano)
	n.publish(messagePinnedEvent{
		Type:     "message_pinned",
		ID:       messageID,
		RoomID:   roomID,
		PinnedAt: &at,
		PinnedBy: &pinnedBy,
	})
}

// MessageUnpinned broadcasts the removal of a pin.
func (n *Notifier) MessageUnpinned(messageID, roomID string) {
	n.publish(messagePinnedEvent{Type: "message_unpinned", ID: messageID, RoomID: roomID})
}

func (n *Notifier) publish(event any) {
	if err := n.bus.PublishJSON(event); err != nil {
		n.log.Warn("external event broadcast failed", "error", err)
	}
}
