package services

import (
	"context"

	"travelviet/internal/domain/models"
	"travelviet/internal/planner"
)

// CreateSessionRequest represents a request to start a chat session.
type CreateSessionRequest struct {
	TripID *string `json:"trip_id,omitempty"`
	Title  *string `json:"title,omitempty"`
}

// AddMessageRequest represents a request to append one message to a session.
type AddMessageRequest struct {
	Role     models.ChatRole        `json:"role"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// StreamRequest represents a streaming chat turn: the conversation so far
// plus an optional trip snapshot to ground the reply.
type StreamRequest struct {
	Messages    []planner.Message    `json:"messages"`
	TripContext *planner.TripContext `json:"trip_context,omitempty"`
}

// ChatService defines business logic operations for chat sessions, their
// messages and the streamed AI turn.
type ChatService interface {
	CreateSession(ctx context.Context, userID string, req *CreateSessionRequest) (*models.ChatSession, error)
	GetSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error)
	ListSessions(ctx context.Context, userID string, tripID *string) ([]models.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID, userID string) error

	AddMessage(ctx context.Context, sessionID, userID string, req *AddMessageRequest) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, sessionID, userID string) ([]models.ChatMessage, error)

	// StreamMessage runs one streamed AI turn on the session. onDelta
	// receives the accumulated text after every decoded delta; the final
	// text is persisted as an assistant message before returning.
	StreamMessage(ctx context.Context, sessionID, userID string, req *StreamRequest, onDelta planner.DeltaFunc) (string, error)
}
