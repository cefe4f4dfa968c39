//go:generate go run go.uber.org/mock/mockgen -source=gate.go -destination=../mocks/mock_message_indexer.go -package=mocks
package hub

import (
	"log/slog"
	"net/http"

	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/repositories"

	"github.com/gorilla/websocket"
)

// MessageIndexer receives every accepted chat message for full-text search.
// Indexing is best effort; failures never affect delivery or persistence.
type MessageIndexer interface {
	Index(message repositories.DiskMessage) error
}

// Gate authenticates websocket upgrade requests and hands accepted
// connections to the hub. Authentication failures are rejected before any
// socket handoff, so no partial connection state is ever created.
type Gate struct {
	log      *slog.Logger
	bus      *Bus
	presence *Presence
	cache    *AccessCache
	rooms    repositories.IRoomRepository
	messages repositories.IMessageRepository
	index    MessageIndexer
	upgrader websocket.Upgrader
}

// NewGate wires the gate against the process-wide services. index may be nil
// to run without search.
func NewGate(log *slog.Logger, bus *Bus, presence *Presence, cache *AccessCache,
	rooms repositories.IRoomRepository, messages repositories.IMessageRepository,
	index MessageIndexer) *Gate {
	return &Gate{
		log:      log,
		bus:      bus,
		presence: presence,
		cache:    cache,
		rooms:    rooms,
		messages: messages,
		index:    index,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP resolves the bearer token (access_token query parameter first,
// Authorization header as fallback), validates it, computes the allowed-room
// snapshot for the session role and upgrades the transport. The snapshot is
// fixed for the lifetime of the connection; cache invalidations do not
// refresh it.
func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, err := auth.BearerToken(r)
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	session := domain.Session{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}

	allowed, err := g.rooms.ListRoomIDs(session.Role)
	if err != nil {
		g.log.Error("allowed-room snapshot failed", "user_id", session.UserID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("ws upgrade failed", "error", err)
		return
	}

	// Hydrate presence with the zero marker; a later join may refine it.
	g.presence.Set(session.UserID, 0)

	conn := newConnection(g.log, ws, session, allowed,
		g.bus, g.presence, g.cache, g.messages, g.index)
	go conn.writePump()
	go conn.readPump()
}
