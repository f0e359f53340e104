package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/found3r/found3r-engine/pkg/models"
)

// ChatRepository defines the interface for Copilot chat history access.
type ChatRepository interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	ListByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.ChatMessage, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	WithTx(tx pgx.Tx) ChatRepository
}

type chatRepository struct {
	db Querier
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db Querier) ChatRepository {
	return &chatRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *chatRepository) WithTx(tx pgx.Tx) ChatRepository {
	return &chatRepository{db: tx}
}

// Append inserts one chat message.
func (r *chatRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.CreatedAt = time.Now()

	query := `
		INSERT INTO chat_messages (id, project_id, role, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, msg.ID, msg.ProjectID, msg.Role, msg.Message, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}

	return nil
}

// ListByProject retrieves the most recent messages, returned oldest first.
// limit <= 0 means no limit.
func (r *chatRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	// Take the newest N, then flip, so the limit trims history from the front.
	query := `
		SELECT id, project_id, role, message, created_at
		FROM chat_messages
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC`

	args := []any{projectID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.ProjectID, &msg.Role, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// DeleteByProject removes all chat messages for a project.
func (r *chatRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return nil
}
