package models

import (
	"time"
)

// ChatRole tags who authored a conversation message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

// ValidChatRole reports whether r is one of the known chat roles.
func ValidChatRole(r ChatRole) bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ChatSession is a persisted conversation, optionally attached to a trip.
type ChatSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TripID    *string   `json:"trip_id,omitempty"`
	Title     *string   `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is one message within a session. Immutable once written;
// ordering is by created_at ascending.
type ChatMessage struct {
	ID        string                 `json:"id"`
	SessionID string                 `json:"session_id"`
	Role      ChatRole               `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}
