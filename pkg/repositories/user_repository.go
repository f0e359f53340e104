package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Upsert creates the user on first authenticated access or refreshes
	// email on subsequent ones, keyed by the external identity subject.
	Upsert(ctx context.Context, user *models.User) error
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) UserRepository
}

type userRepository struct {
	db Querier
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *userRepository) WithTx(tx pgx.Tx) UserRepository {
	return &userRepository{db: tx}
}

// Upsert inserts or refreshes a user record, returning the stored row in
// user (including the ID of an existing record).
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `
		INSERT INTO users (id, subject, email, display_name, onboarding_complete, profile, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subject) DO UPDATE
		SET email = EXCLUDED.email,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, display_name, onboarding_complete, profile, created_at`

	var storedProfile []byte
	err = r.db.QueryRow(ctx, query,
		user.ID, user.Subject, user.Email, user.DisplayName,
		user.OnboardingComplete, profile, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID, &user.DisplayName, &user.OnboardingComplete, &storedProfile, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	if err := json.Unmarshal(storedProfile, &user.Profile); err != nil {
		return fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return nil
}

// GetBySubject retrieves a user by external identity reference.
func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	return r.getWhere(ctx, `subject = $1`, subject)
}

// Get retrieves a user by ID.
func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *userRepository) getWhere(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, subject, email, display_name, onboarding_complete, profile, created_at, updated_at
		FROM users
		WHERE ` + where

	var user models.User
	var profile []byte

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Subject, &user.Email, &user.DisplayName,
		&user.OnboardingComplete, &profile, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := json.Unmarshal(profile, &user.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &user, nil
}

// Update persists all mutable fields of a user.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `
		UPDATE users
		SET email = $2, display_name = $3, onboarding_complete = $4, profile = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.DisplayName, user.OnboardingComplete, profile, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a user record. Projects must already be cascaded away.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
