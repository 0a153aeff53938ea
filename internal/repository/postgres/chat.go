package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
)

// PostgresChatRepository implements the ChatRepository interface.
type PostgresChatRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(config *RepositoryConfig) repositories.ChatRepository {
	return &PostgresChatRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// CreateSession inserts a new chat session.
func (r *PostgresChatRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, trip_id, title)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.tables.ChatSessions)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		session.UserID,
		session.TripID,
		session.Title,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("trip for session: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create chat session: %w", err)
	}
	return nil
}

// GetSession retrieves one session scoped to its user.
func (r *PostgresChatRepository) GetSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, trip_id, title, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.ChatSessions)

	var session models.ChatSession
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, sessionID, userID).Scan(
		&session.ID,
		&session.UserID,
		&session.TripID,
		&session.Title,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("chat session %s: %w", sessionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chat session: %w", err)
	}
	return &session, nil
}

// ListSessions returns the user's sessions newest-updated first, optionally
// filtered to one trip.
func (r *PostgresChatRepository) ListSessions(ctx context.Context, userID string, tripID *string) ([]models.ChatSession, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, trip_id, title, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND ($2::uuid IS NULL OR trip_id = $2)
		ORDER BY updated_at DESC
	`, r.tables.ChatSessions)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.ChatSession{}
	for rows.Next() {
		var session models.ChatSession
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.TripID,
			&session.Title,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session; its messages cascade.
func (r *PostgresChatRepository) DeleteSession(ctx context.Context, sessionID, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.ChatSessions)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, sessionID, userID)
	if err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chat session %s: %w", sessionID, domain.ErrNotFound)
	}
	return nil
}

// TouchSession bumps the session's updated_at marker. Not owner scoped: the
// streaming client calls this after session access was already checked.
func (r *PostgresChatRepository) TouchSession(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET updated_at = now()
		WHERE id = $1
	`, r.tables.ChatSessions)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("touch chat session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chat session %s: %w", sessionID, domain.ErrNotFound)
	}
	return nil
}

// AddMessage appends a message to a session.
func (r *PostgresChatRepository) AddMessage(ctx context.Context, message *models.ChatMessage) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, role, content, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.ChatMessages)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		message.SessionID,
		message.Role,
		message.Content,
		message.Metadata,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("chat session %s: %w", message.SessionID, domain.ErrNotFound)
		}
		return fmt.Errorf("add chat message: %w", err)
	}
	return nil
}

// ListMessages returns the session's messages oldest first.
func (r *PostgresChatRepository) ListMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	query := fmt.Sprintf(`
		SELECT id, session_id, role, content, metadata, created_at
		FROM %s
		WHERE session_id = $1
		ORDER BY created_at ASC
	`, r.tables.ChatMessages)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var message models.ChatMessage
		err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.Role,
			&message.Content,
			&message.Metadata,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}
	return messages, nil
}
