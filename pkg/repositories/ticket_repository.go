package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/models"
)

// TicketRepository defines the interface for ticket data access.
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Ticket, error)
	Update(ctx context.Context, ticket *models.Ticket) error
	DeleteByRun(ctx context.Context, projectID, runID uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	WithTx(tx pgx.Tx) TicketRepository
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ticketRepository) WithTx(tx pgx.Tx) TicketRepository {
	return &ticketRepository{db: tx}
}

const ticketColumns = `id, project_id, title, description, status, priority, type, agent_author, run_id, created_at, updated_at`

// Create inserts a new ticket.
func (r *ticketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}

	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	if ticket.Status == "" {
		ticket.Status = models.TicketTodo
	}
	if ticket.AgentAuthor == "" {
		ticket.AgentAuthor = "user"
	}
	if ticket.Type == "" {
		ticket.Type = "build"
	}

	var runID any
	if ticket.RunID != uuid.Nil {
		runID = ticket.RunID
	}

	query := `
		INSERT INTO tickets (id, project_id, title, description, status, priority, type, agent_author, run_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.ProjectID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Type,
		ticket.AgentAuthor,
		runID,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// Get retrieves a ticket by ID.
func (r *ticketRepository) Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// ListByProject retrieves all tickets for a project, highest priority first.
func (r *ticketRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE project_id = $1 ORDER BY priority ASC, created_at ASC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

// Update persists all mutable fields of a ticket.
func (r *ticketRepository) Update(ctx context.Context, ticket *models.Ticket) error {
	ticket.UpdatedAt = time.Now()

	query := `
		UPDATE tickets
		SET title = $2, description = $3, status = $4, priority = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		ticket.ID, ticket.Title, ticket.Description, ticket.Status, ticket.Priority, ticket.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeleteByRun removes all tickets created by one BuildPlanner run. Used to
// clear a superseded run before a retried plan is written.
func (r *ticketRepository) DeleteByRun(ctx context.Context, projectID, runID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM tickets WHERE project_id = $1 AND run_id = $2`, projectID, runID)
	if err != nil {
		return fmt.Errorf("failed to delete tickets by run: %w", err)
	}
	return nil
}

// DeleteByProject removes all tickets for a project.
func (r *ticketRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete tickets: %w", err)
	}
	return nil
}

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var ticket models.Ticket
	var runID *uuid.UUID

	err := row.Scan(
		&ticket.ID,
		&ticket.ProjectID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Type,
		&ticket.AgentAuthor,
		&runID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if runID != nil {
		ticket.RunID = *runID
	}

	return &ticket, nil
}
