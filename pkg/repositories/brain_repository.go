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

// BrainField names a brain sub-document column. Each field has exactly one
// owning agent; SetField overwrites the field wholesale.
type BrainField string

const (
	FieldPainPoints     BrainField = "pain_points"
	FieldValidationData BrainField = "validation_data"
	FieldTechStack      BrainField = "tech_stack"
	FieldGTMStrategy    BrainField = "gtm_strategy"
	FieldInsights       BrainField = "insights"
)

// validBrainFields guards SetField against SQL injection through the column
// name, which is interpolated rather than bound.
var validBrainFields = map[BrainField]bool{
	FieldPainPoints:     true,
	FieldValidationData: true,
	FieldTechStack:      true,
	FieldGTMStrategy:    true,
	FieldInsights:       true,
}

// BrainRepository defines the interface for project aggregate data access.
type BrainRepository interface {
	Create(ctx context.Context, brain *models.Brain) error
	GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Brain, error)
	SetField(ctx context.Context, projectID uuid.UUID, field BrainField, value any) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	WithTx(tx pgx.Tx) BrainRepository
}

type brainRepository struct {
	db Querier
}

// NewBrainRepository creates a new brain repository.
func NewBrainRepository(db Querier) BrainRepository {
	return &brainRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *brainRepository) WithTx(tx pgx.Tx) BrainRepository {
	return &brainRepository{db: tx}
}

// Create inserts an empty brain for a project. The unique constraint on
// project_id enforces the one-brain-per-project invariant.
func (r *brainRepository) Create(ctx context.Context, brain *models.Brain) error {
	if brain.ID == uuid.Nil {
		brain.ID = uuid.New()
	}

	now := time.Now()
	brain.CreatedAt = now
	brain.UpdatedAt = now

	insights, err := json.Marshal(brain.Insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}
	if brain.Insights == nil {
		insights = []byte("{}")
	}

	query := `
		INSERT INTO project_brains (id, project_id, insights, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.Exec(ctx, query, brain.ID, brain.ProjectID, insights, brain.CreatedAt, brain.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create brain: %w", err)
	}

	return nil
}

// GetByProject retrieves the brain for a project.
func (r *brainRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Brain, error) {
	query := `
		SELECT id, project_id, pain_points, validation_data, tech_stack, gtm_strategy, insights,
		       created_at, updated_at
		FROM project_brains
		WHERE project_id = $1`

	var brain models.Brain
	var painPoints, validationData, techStack, gtmStrategy, insights []byte

	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&brain.ID,
		&brain.ProjectID,
		&painPoints,
		&validationData,
		&techStack,
		&gtmStrategy,
		&insights,
		&brain.CreatedAt,
		&brain.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get brain: %w", err)
	}

	if err := unmarshalIfPresent(painPoints, &brain.PainPoints); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pain_points: %w", err)
	}
	if err := unmarshalIfPresent(validationData, &brain.ValidationData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal validation_data: %w", err)
	}
	if err := unmarshalIfPresent(techStack, &brain.TechStack); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tech_stack: %w", err)
	}
	if err := unmarshalIfPresent(gtmStrategy, &brain.GTMStrategy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gtm_strategy: %w", err)
	}
	if err := unmarshalIfPresent(insights, &brain.Insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insights: %w", err)
	}

	return &brain, nil
}

// SetField overwrites a single brain sub-document. Re-running the same agent
// converges: the field is replaced, never appended to.
func (r *brainRepository) SetField(ctx context.Context, projectID uuid.UUID, field BrainField, value any) error {
	if !validBrainFields[field] {
		return fmt.Errorf("unknown brain field %q", field)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", field, err)
	}

	query := fmt.Sprintf(
		`UPDATE project_brains SET %s = $2, updated_at = $3 WHERE project_id = $1`, field)

	result, err := r.db.Exec(ctx, query, projectID, payload, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", field, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeleteByProject removes the brain for a project.
func (r *brainRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM project_brains WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete brain: %w", err)
	}
	return nil
}

// unmarshalIfPresent unmarshals into target only when data is non-NULL.
func unmarshalIfPresent(data []byte, target any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
