package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/found3r/found3r-engine/pkg/models"
)

// ActivityRepository defines the interface for the append-only activity log.
// Entries are never updated.
type ActivityRepository interface {
	Append(ctx context.Context, entry *models.ActivityEntry) error
	ListByProject(ctx context.Context, projectID uuid.UUID, limit int, order models.ActivityOrder) ([]*models.ActivityEntry, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	WithTx(tx pgx.Tx) ActivityRepository
}

type activityRepository struct {
	db Querier
}

// NewActivityRepository creates a new activity log repository.
func NewActivityRepository(db Querier) ActivityRepository {
	return &activityRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *activityRepository) WithTx(tx pgx.Tx) ActivityRepository {
	return &activityRepository{db: tx}
}

// Append inserts one log entry. The seq column is assigned by the database
// and read back so callers see insertion order.
func (r *activityRepository) Append(ctx context.Context, entry *models.ActivityEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO activity_log (id, project_id, agent_name, message, is_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq`

	err := r.db.QueryRow(ctx, query,
		entry.ID, entry.ProjectID, entry.AgentName, entry.Message, entry.IsError, entry.CreatedAt,
	).Scan(&entry.Seq)
	if err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}

	return nil
}

// ListByProject reads log entries in insertion order (asc) or reverse (desc).
// limit <= 0 means no limit.
func (r *activityRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit int, order models.ActivityOrder) ([]*models.ActivityEntry, error) {
	direction := "ASC"
	if order == models.NewestFirst {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, seq, project_id, agent_name, message, is_error, created_at
		FROM activity_log
		WHERE project_id = $1
		ORDER BY seq %s`, direction)

	args := []any{projectID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActivityEntry
	for rows.Next() {
		var entry models.ActivityEntry
		if err := rows.Scan(
			&entry.ID, &entry.Seq, &entry.ProjectID, &entry.AgentName,
			&entry.Message, &entry.IsError, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// DeleteByProject removes all log entries for a project.
func (r *activityRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM activity_log WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete activity log: %w", err)
	}
	return nil
}
