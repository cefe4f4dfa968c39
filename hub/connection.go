package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"chat-hub/domain"
	"chat-hub/repositories"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single transport write.
	writeWait = 10 * time.Second
	// pingPeriod keeps intermediaries from reaping idle transports. There is
	// no application-level idle timeout; connections live as long as the
	// transport does.
	pingPeriod = 25 * time.Second
)

// connection owns one websocket for its whole life. Two goroutines run per
// connection: readPump (inbound event state machine) and writePump (outbound
// filter over the bus subscription). They share no private mutable state;
// everything shared goes through the process-wide services.
type connection struct {
	log      *slog.Logger
	ws       *websocket.Conn
	session  domain.Session
	allowed  domain.Set
	bus      *Bus
	presence *Presence
	cache    *AccessCache
	messages repositories.IMessageRepository
	index    MessageIndexer
	sub      *Subscription
	cleanup  sync.Once
}

func newConnection(log *slog.Logger, ws *websocket.Conn, session domain.Session,
	allowed domain.Set, bus *Bus, presence *Presence, cache *AccessCache,
	messages repositories.IMessageRepository, index MessageIndexer) *connection {
	return &connection{
		log:      log.With("user_id", session.UserID),
		ws:       ws,
		session:  session,
		allowed:  allowed,
		bus:      bus,
		presence: presence,
		cache:    cache,
		messages: messages,
		index:    index,
		sub:      bus.Subscribe(),
	}
}

// teardown runs the disconnect cleanup exactly once, no matter which pump
// dies first or why: presence removal, a leave broadcast carrying the session
// identity, and release of the bus subscription. Closing the transport
// unblocks whichever pump is still running.
func (c *connection) teardown() {
	c.cleanup.Do(func() {
		c.presence.Remove(c.session.UserID)
		userID := c.session.UserID
		if err := c.bus.PublishJSON(domain.Frame{Type: domain.KindLeave, UserID: &userID}); err != nil {
			c.log.Warn("leave broadcast failed", "error", err)
		}
		c.bus.Unsubscribe(c.sub)
		_ = c.ws.Close()
	})
}

// readPump is the inbound event state machine. It reads frames until the
// transport closes or an explicit leave arrives. Malformed or unknown frames
// are ignored and the connection stays open.
func (c *connection) readPump() {
	defer c.teardown()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var frame domain.Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Debug("ignoring malformed frame")
			continue
		}

		switch frame.Type {
		case domain.KindJoin:
			c.handleJoin(frame)
		case domain.KindLeave:
			c.handleLeave(raw)
			return
		case domain.KindMessage:
			c.handleMessage(frame)
		case domain.KindTyping, domain.KindPresence,
			domain.KindVoiceJoin, domain.KindVoiceLeave,
			domain.KindVoiceState, domain.KindVoiceSignal:
			// Pure signaling pass-through
			c.bus.Publish(raw)
		default:
			c.log.Debug("ignoring unknown frame kind", "type", frame.Type)
		}
	}
}

// handleJoin broadcasts a join event with the sender identity forced to the
// session's. A supplied avatar color updates the presence marker.
func (c *connection) handleJoin(frame domain.Frame) {
	frame.UserID = &c.session.UserID
	frame.Username = &c.session.Username
	frame.Role = &c.session.Role

	if frame.AvatarColor != nil {
		c.presence.Set(c.session.UserID, *frame.AvatarColor)
	}

	if err := c.bus.PublishJSON(frame); err != nil {
		c.log.Warn("join broadcast failed", "error", err)
	}
}

// handleLeave removes the presence entry and relays the client frame
// verbatim. The caller terminates the inbound loop afterwards; teardown still
// emits the identity-derived leave event.
func (c *connection) handleLeave(raw []byte) {
	c.presence.Remove(c.session.UserID)
	c.bus.Publish(raw)
}

// handleMessage accepts or silently drops a chat message. Drops carry no
// feedback to the sender: spoofed sender ids, denied rooms and empty payloads
// all look the same from outside.
func (c *connection) handleMessage(frame domain.Frame) {
	if frame.UserID == nil || *frame.UserID != c.session.UserID {
		c.log.Debug("dropping message with spoofed sender id")
		return
	}
	if frame.RoomID == nil {
		return
	}

	requiredRole, ok := c.cache.RoomRequiredRole(*frame.RoomID)
	if !ok {
		c.log.Debug("dropping message for unknown room", "room_id", *frame.RoomID)
		return
	}
	if !domain.CanAccess(c.session.Role, requiredRole) {
		c.log.Debug("dropping message, access denied", "room_id", *frame.RoomID)
		return
	}
	if !frame.HasContent() {
		return
	}

	message := repositories.DiskMessage{
		ID:        uuid.New(),
		RoomID:    *frame.RoomID,
		UserID:    c.session.UserID,
		Username:  c.session.Username,
		ReplyToID: frame.ReplyToID,
		ImageURL:  frame.ImageURL,
		At:        time.Now().UTC(),
	}
	if frame.Content != nil {
		message.Content = *frame.Content
	}

	// Best-effort durability: a failed write never blocks delivery to peers.
	if err := c.messages.StoreMessage(message); err != nil {
		c.log.Warn("message persistence failed", "room_id", message.RoomID, "error", err)
	}
	if c.index != nil {
		if err := c.index.Index(message); err != nil {
			c.log.Debug("message indexing failed", "error", err)
		}
	}

	frame.Username = &c.session.Username
	frame.ID = message.ID.String()
	frame.CreatedAt = message.At.Format(time.RFC3339Nano)
	if err := c.bus.PublishJSON(frame); err != nil {
		c.log.Warn("message broadcast failed", "error", err)
	}
}

// roomScope extracts the optional room_id from any bus payload, including
// ones published by external collaborators.
type roomScope struct {
	RoomID *string `json:"room_id"`
}

// writePump is the outbound filter. It drains the bus subscription, delivers
// only what the session may see, and terminates the connection on the first
// transport send failure.
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.teardown()
	}()

	for {
		select {
		case raw, ok := <-c.sub.C:
			if !ok {
				return
			}
			if !c.shouldDeliver(raw) {
				continue
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// shouldDeliver applies the room scoping rule: events without a room_id are
// globally visible, room-scoped ones require admin or snapshot membership.
func (c *connection) shouldDeliver(raw []byte) bool {
	var scope roomScope
	if err := json.Unmarshal(raw, &scope); err != nil || scope.RoomID == nil {
		return true
	}
	if c.session.Role == domain.RoleAdmin {
		return true
	}
	return c.allowed.Contains(*scope.RoomID)
}
