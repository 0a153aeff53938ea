package repositories

import (
	"context"

	"travelviet/internal/domain/models"
)

// ChatRepository persists chat sessions and their messages.
type ChatRepository interface {
	CreateSession(ctx context.Context, session *models.ChatSession) error
	GetSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error)
	// ListSessions returns the user's sessions newest-updated first,
	// optionally filtered to one trip.
	ListSessions(ctx context.Context, userID string, tripID *string) ([]models.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID, userID string) error
	// TouchSession bumps the session's updated_at marker.
	TouchSession(ctx context.Context, sessionID string) error

	// AddMessage appends a message to a session. Messages are immutable.
	AddMessage(ctx context.Context, message *models.ChatMessage) error
	// ListMessages returns the session's messages oldest first.
	ListMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}
