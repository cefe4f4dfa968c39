// Package domain contains core concepts of the chat hub.
// This file defines the wire envelope shared by inbound and outbound traffic.
// No transport or persistence logic should be added here.
package domain

import (
	"encoding/json"
	"strings"
)

// Event kinds carried by the Frame envelope. Inbound frames with any other
// value in "type" are ignored by the hub.
const (
	KindJoin        = "join"
	KindLeave       = "leave"
	KindMessage     = "message"
	KindTyping      = "typing"
	KindPresence    = "presence"
	KindVoiceJoin   = "voice_join"
	KindVoiceLeave  = "voice_leave"
	KindVoiceState  = "voice_state"
	KindVoiceSignal = "voice_signal"
)

// Frame is the JSON envelope for every event crossing a connection.
// Only Type is mandatory; which other fields are present depends on the kind.
// ID and CreatedAt are assigned by the server on accepted messages and are
// never taken from the client.
type Frame struct {
	Type         string          `json:"type"`
	RoomID       *string         `json:"room_id,omitempty"`
	UserID       *string         `json:"user_id,omitempty"`
	Username     *string         `json:"username,omitempty"`
	Content      *string         `json:"content,omitempty"`
	ReplyToID    *string         `json:"reply_to_id,omitempty"`
	AvatarColor  *int            `json:"avatar_color,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	AvatarURL    *string         `json:"avatar_url,omitempty"`
	BannerURL    *string         `json:"banner_url,omitempty"`
	Status       *string         `json:"status,omitempty"`
	Role         *string         `json:"role,omitempty"`
	About        *string         `json:"about,omitempty"`
	TargetUserID *string         `json:"target_user_id,omitempty"`
	Muted        *bool           `json:"muted,omitempty"`
	Deafened     *bool           `json:"deafened,omitempty"`
	SDP          json.RawMessage `json:"sdp,omitempty"`
	Candidate    json.RawMessage `json:"candidate,omitempty"`
	ID           string          `json:"id,omitempty"`
	CreatedAt    string          `json:"created_at,omitempty"`
}

// HasContent reports whether the frame carries something worth persisting:
// non-blank text or an image reference.
func (f Frame) HasContent() bool {
	if f.Content != nil && strings.TrimSpace(*f.Content) != "" {
		return true
	}
	return f.ImageURL != nil && *f.ImageURL != ""
}
