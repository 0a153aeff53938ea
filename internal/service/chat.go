package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"travelviet/internal/config"
	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
	"travelviet/internal/domain/services"
	"travelviet/internal/planner"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// chatService implements the ChatService interface.
type chatService struct {
	chatRepo repositories.ChatRepository
	tripRepo repositories.TripRepository
	client   *planner.Client
	logger   *slog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(
	chatRepo repositories.ChatRepository,
	tripRepo repositories.TripRepository,
	client *planner.Client,
	logger *slog.Logger,
) services.ChatService {
	return &chatService{
		chatRepo: chatRepo,
		tripRepo: tripRepo,
		client:   client,
		logger:   logger,
	}
}

// PlannerStore adapts the chat repository to the planner client's
// persistence collaborator.
type PlannerStore struct {
	Repo repositories.ChatRepository
}

// AddMessage persists one message with the given role.
func (s *PlannerStore) AddMessage(ctx context.Context, sessionID, role, content string) error {
	return s.Repo.AddMessage(ctx, &models.ChatMessage{
		SessionID: sessionID,
		Role:      models.ChatRole(role),
		Content:   content,
	})
}

// TouchSession bumps the session's updated_at marker.
func (s *PlannerStore) TouchSession(ctx context.Context, sessionID string) error {
	return s.Repo.TouchSession(ctx, sessionID)
}

// CreateSession starts a new chat session, optionally bound to a trip the
// user owns.
func (s *chatService) CreateSession(ctx context.Context, userID string, req *services.CreateSessionRequest) (*models.ChatSession, error) {
	err := validation.Errors{
		"title": validateOptionalLength(req.Title, config.MaxSessionTitleLength),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.TripID != nil {
		if _, err := s.tripRepo.GetTrip(ctx, *req.TripID, userID); err != nil {
			return nil, err
		}
	}

	session := &models.ChatSession{
		UserID: userID,
		TripID: req.TripID,
		Title:  req.Title,
	}
	if err := s.chatRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("chat session created",
		"id", session.ID,
		"user_id", userID,
		"trip_id", req.TripID,
	)
	return session, nil
}

// GetSession retrieves one session the user owns.
func (s *chatService) GetSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	return s.chatRepo.GetSession(ctx, sessionID, userID)
}

// ListSessions retrieves the user's sessions, optionally for one trip.
func (s *chatService) ListSessions(ctx context.Context, userID string, tripID *string) ([]models.ChatSession, error) {
	return s.chatRepo.ListSessions(ctx, userID, tripID)
}

// DeleteSession removes a session and its messages.
func (s *chatService) DeleteSession(ctx context.Context, sessionID, userID string) error {
	if err := s.chatRepo.DeleteSession(ctx, sessionID, userID); err != nil {
		return err
	}
	s.logger.Info("chat session deleted", "id", sessionID, "user_id", userID)
	return nil
}

// AddMessage appends one message to a session the user owns. Used by the
// frontend to persist the user's own message before streaming the reply.
func (s *chatService) AddMessage(ctx context.Context, sessionID, userID string, req *services.AddMessageRequest) (*models.ChatMessage, error) {
	if err := s.validateAddMessage(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if _, err := s.chatRepo.GetSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		SessionID: sessionID,
		Role:      req.Role,
		Content:   req.Content,
		Metadata:  req.Metadata,
	}
	if err := s.chatRepo.AddMessage(ctx, message); err != nil {
		return nil, err
	}
	if err := s.chatRepo.TouchSession(ctx, sessionID); err != nil {
		// Message is saved; a stale timestamp is tolerated.
		s.logger.Warn("touch session failed", "session_id", sessionID, "error", err)
	}
	return message, nil
}

// ListMessages returns the session's messages oldest first.
func (s *chatService) ListMessages(ctx context.Context, sessionID, userID string) ([]models.ChatMessage, error) {
	if _, err := s.chatRepo.GetSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessages(ctx, sessionID)
}

// StreamMessage runs one streamed AI turn after checking session access.
// The planner client persists the assistant reply itself on completion.
func (s *chatService) StreamMessage(ctx context.Context, sessionID, userID string, req *services.StreamRequest, onDelta planner.DeltaFunc) (string, error) {
	if err := s.validateStreamRequest(req); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if _, err := s.chatRepo.GetSession(ctx, sessionID, userID); err != nil {
		return "", err
	}

	return s.client.SendMessage(ctx, sessionID, req.Messages, req.TripContext, onDelta)
}

// validateAddMessage validates an append-message request.
func (s *chatService) validateAddMessage(req *services.AddMessageRequest) error {
	return validation.Errors{
		"role": validateRole(req.Role),
		"content": validation.Validate(req.Content,
			validation.Required,
			validation.RuneLength(1, config.MaxMessageLength),
		),
	}.Filter()
}

// validateStreamRequest validates the conversation sent for streaming.
func (s *chatService) validateStreamRequest(req *services.StreamRequest) error {
	if len(req.Messages) == 0 {
		return fmt.Errorf("messages: cannot be empty")
	}
	if len(req.Messages) > config.MaxConversationMessages {
		return fmt.Errorf("messages: at most %d messages per request", config.MaxConversationMessages)
	}
	for i, msg := range req.Messages {
		if err := validateRole(models.ChatRole(msg.Role)); err != nil {
			return fmt.Errorf("messages[%d].role: %v", i, err)
		}
		if strings.TrimSpace(msg.Content) == "" {
			return fmt.Errorf("messages[%d].content: cannot be blank", i)
		}
		if len([]rune(msg.Content)) > config.MaxMessageLength {
			return fmt.Errorf("messages[%d].content: too long", i)
		}
	}
	return nil
}

func validateRole(role models.ChatRole) error {
	if models.ValidChatRole(role) {
		return nil
	}
	return fmt.Errorf("must be one of user, assistant, system")
}
