package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/models"
)

// WaitlistRepository defines the interface for waitlist signup data access.
type WaitlistRepository interface {
	Add(ctx context.Context, signup *models.WaitlistSignup) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.WaitlistSignup, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	WithTx(tx pgx.Tx) WaitlistRepository
}

type waitlistRepository struct {
	db Querier
}

// NewWaitlistRepository creates a new waitlist repository.
func NewWaitlistRepository(db Querier) WaitlistRepository {
	return &waitlistRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *waitlistRepository) WithTx(tx pgx.Tx) WaitlistRepository {
	return &waitlistRepository{db: tx}
}

// Add inserts a signup. A duplicate (project, email) pair surfaces as
// ErrConflict via the unique constraint.
func (r *waitlistRepository) Add(ctx context.Context, signup *models.WaitlistSignup) error {
	if signup.ID == uuid.Nil {
		signup.ID = uuid.New()
	}
	signup.CreatedAt = time.Now()

	query := `
		INSERT INTO waitlist_signups (id, project_id, email, source, referrer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		signup.ID, signup.ProjectID, signup.Email, signup.Source, signup.Referrer, signup.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to add waitlist signup: %w", err)
	}

	return nil
}

// ListByProject retrieves all signups for a project, newest first.
func (r *waitlistRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.WaitlistSignup, error) {
	query := `
		SELECT id, project_id, email, source, referrer, created_at
		FROM waitlist_signups
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist signups: %w", err)
	}
	defer rows.Close()

	var signups []*models.WaitlistSignup
	for rows.Next() {
		var signup models.WaitlistSignup
		if err := rows.Scan(
			&signup.ID, &signup.ProjectID, &signup.Email,
			&signup.Source, &signup.Referrer, &signup.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist signup: %w", err)
		}
		signups = append(signups, &signup)
	}

	return signups, rows.Err()
}

// CountByProject returns the number of signups for a project.
func (r *waitlistRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM waitlist_signups WHERE project_id = $1`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist signups: %w", err)
	}
	return count, nil
}

// DeleteByProject removes all signups for a project.
func (r *waitlistRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM waitlist_signups WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete waitlist signups: %w", err)
	}
	return nil
}
