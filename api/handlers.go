// Package api is the REST companion of the websocket hub: message history,
// search and the admin surface for rooms, roles and pins. Mutations go
// through the Notifier so connected clients and the access cache stay in
// sync with the store.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/hub"
	"chat-hub/repositories"
	"chat-hub/search"

	"github.com/gorilla/mux"
)

type Handlers struct {
	log      *slog.Logger
	messages repositories.IMessageRepository
	rooms    repositories.IRoomRepository
	users    repositories.IUserRepository
	presence *hub.Presence
	notifier *hub.Notifier
	index    *search.Index
}

// NewHandlers wires the REST layer. index may be nil to run without search;
// the search endpoint then answers 404.
func NewHandlers(log *slog.Logger, messages repositories.IMessageRepository,
	rooms repositories.IRoomRepository, users repositories.IUserRepository,
	presence *hub.Presence, notifier *hub.Notifier, index *search.Index) *Handlers {
	return &Handlers{
		log:      log,
		messages: messages,
		rooms:    rooms,
		users:    users,
		presence: presence,
		notifier: notifier,
		index:    index,
	}
}

func (h *Handlers) Register(r *mux.Router) {
	r.HandleFunc("/api/rooms", h.listRooms).Methods(http.MethodGet)
	r.HandleFunc("/api/rooms", h.createRoom).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/{room_id}", h.deleteRoom).Methods(http.MethodDelete)
	r.HandleFunc("/api/rooms/{room_id}/messages", h.listMessages).Methods(http.MethodGet)
	r.HandleFunc("/api/rooms/{room_id}/messages/{message_id}", h.deleteMessage).Methods(http.MethodDelete)
	r.HandleFunc("/api/rooms/{room_id}/messages/{message_id}/pin", h.pinMessage).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/{room_id}/messages/{message_id}/pin", h.unpinMessage).Methods(http.MethodDelete)
	r.HandleFunc("/api/roles", h.assignRole).Methods(http.MethodPost)
	r.HandleFunc("/api/search", h.searchMessages).Methods(http.MethodGet)
	r.HandleFunc("/api/presence", h.listPresence).Methods(http.MethodGet)
}

// session authenticates the request the same way the websocket gate does.
// A false return means the response has already been written.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	token, err := auth.BearerToken(r)
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return domain.Session{}, false
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return domain.Session{}, false
	}
	return domain.Session{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}, true
}

func (h *Handlers) admin(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	session, ok := h.session(w, r)
	if !ok {
		return domain.Session{}, false
	}
	if session.Role != domain.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return domain.Session{}, false
	}
	return session, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	rooms, err := h.rooms.ListRooms(session.Role)
	if err != nil {
		h.log.Error("room listing failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	_, ok := h.admin(w, r)
	if !ok {
		return
	}
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := ValidateCreateRoom(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	room := repositories.Room{
		ID:           req.ID,
		Name:         req.Name,
		Kind:         req.Kind,
		RequiredRole: req.RequiredRole,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.rooms.UpsertRoom(room); err != nil {
		h.log.Error("room upsert failed", "room_id", room.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.notifier.RoomUpdated(room)
	writeJSON(w, http.StatusCreated, room)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	_, ok := h.admin(w, r)
	if !ok {
		return
	}
	roomID := mux.Vars(r)["room_id"]
	if err := h.rooms.RemoveRoom(roomID); err != nil {
		h.log.Error("room removal failed", "room_id", roomID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.notifier.RoomDeleted(roomID)
	w.WriteHeader(http.StatusNoContent)
}

// messagePayload is the wire shape of one history entry.
type messagePayload struct {
	ID        string  `json:"id"`
	RoomID    string  `json:"room_id"`
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"`
	Content   string  `json:"content"`
	ReplyToID *string `json:"reply_to_id,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func toMessagePayload(message repositories.DiskMessage) messagePayload {
	return messagePayload{
		ID:        message.ID.String(),
		RoomID:    message.RoomID,
		UserID:    message.UserID,
		Username:  message.Username,
		Content:   message.Content,
		ReplyToID: message.ReplyToID,
		ImageURL:  message.ImageURL,
		CreatedAt: message.At.Format(time.RFC3339Nano),
	}
}

// listMessages pages through a room's history, newest first. The opaque
// cursor from a previous response resumes where that page stopped.
func (h *Handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	roomID := mux.Vars(r)["room_id"]

	requiredRole, err := h.rooms.RequiredRole(roomID)
	if err != nil {
		h.log.Error("room lookup failed", "room_id", roomID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if requiredRole == nil {
		http.Error(w, errors.ErrUnknownRoom.Error(), http.StatusNotFound)
		return
	}
	if !domain.CanAccess(session.Role, *requiredRole) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	messages, nextCursor, err := h.messages.GetMessages(roomID, cursor)
	if err != nil {
		h.log.Error("history fetch failed", "room_id", roomID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	payloads := make([]messagePayload, 0, len(messages))
	for _, message := range messages {
		payloads = append(payloads, toMessagePayload(message))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages":    payloads,
		"next_cursor": nextCursor,
	})
}

func (h *Handlers) deleteMessage(w http.ResponseWriter, r *http.Request) {
	_, ok := h.admin(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	roomID, messageID := vars["room_id"], vars["message_id"]
	if err := h.messages.DeleteMessage(roomID, messageID); err != nil {
		h.log.Error("message removal failed", "room_id", roomID, "id", messageID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.notifier.MessageDeleted(messageID, roomID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) pinMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.admin(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	h.notifier.MessagePinned(vars["message_id"], vars["room_id"],
		session.UserID, time.Now().UTC())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) unpinMessage(w http.ResponseWriter, r *http.Request) {
	_, ok := h.admin(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	h.notifier.MessageUnpinned(vars["message_id"], vars["room_id"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) assignRole(w http.ResponseWriter, r *http.Request) {
	_, ok := h.admin(w, r)
	if !ok {
		return
	}
	var req AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := ValidateAssignRole(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.users.AssignRole(req.UserID, req.Role); err != nil {
		h.log.Warn("role assignment failed", "user_id", req.UserID, "error", err)
		http.Error(w, errors.ErrUnknownUser.Error(), http.StatusNotFound)
		return
	}
	h.notifier.UserRoleAssigned(req.UserID, req.Role)
	w.WriteHeader(http.StatusNoContent)
}

type searchHit struct {
	MessageID string `json:"message_id"`
	RoomID    string `json:"room_id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	At        string `json:"at"`
}

// searchMessages runs a full-text query. Non-admins only see hits from rooms
// their role may access; an explicit --room flag outside that set is refused.
func (h *Handlers) searchMessages(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if h.index == nil {
		http.Error(w, "search disabled", http.StatusNotFound)
		return
	}

	query := search.NewQuery(r.URL.Query().Get("q"))
	if query.Terms == "" {
		http.Error(w, "empty query", http.StatusBadRequest)
		return
	}

	allowed, err := h.rooms.ListRoomIDs(session.Role)
	if err != nil {
		h.log.Error("allowed-room lookup failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if query.RoomID != "" && session.Role != domain.RoleAdmin && !allowed.Contains(query.RoomID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	hits, err := h.index.Search(r.Context(), *query)
	if err != nil {
		h.log.Error("search failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	results := make([]searchHit, 0, len(hits))
	for _, hit := range hits {
		if session.Role != domain.RoleAdmin && !allowed.Contains(hit.RoomID) {
			continue
		}
		results = append(results, searchHit{
			MessageID: hit.MessageID,
			RoomID:    hit.RoomID,
			Author:    hit.Author,
			Content:   hit.Content,
			At:        hit.At.Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"hits": results})
}

func (h *Handlers) listPresence(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"online": h.presence.Snapshot()})
}
