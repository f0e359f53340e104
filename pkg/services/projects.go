// Package services contains the business logic layer: ownership-checked
// project accessors, the agent orchestrator, and user lifecycle handling.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/database"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// ProjectService defines project, brain, ticket, and activity operations.
// Every read and write is scoped to the calling user: a project that exists
// but belongs to someone else is indistinguishable from one that does not
// exist.
type ProjectService interface {
	Create(ctx context.Context, userID uuid.UUID, name, niche string) (*models.Project, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Project, error)
	Update(ctx context.Context, userID, projectID uuid.UUID, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error

	GetBrain(ctx context.Context, userID, projectID uuid.UUID) (*models.Brain, error)
	ListTickets(ctx context.Context, userID, projectID uuid.UUID) ([]*models.Ticket, error)
	UpdateTicket(ctx context.Context, userID, ticketID uuid.UUID, patch models.TicketPatch) (*models.Ticket, error)
	GetActivity(ctx context.Context, userID, projectID uuid.UUID, limit int, order models.ActivityOrder) ([]*models.ActivityEntry, error)
}

// projectService implements ProjectService.
type projectService struct {
	projects repositories.ProjectRepository
	brains   repositories.BrainRepository
	tickets  repositories.TicketRepository
	activity repositories.ActivityRepository
	chat     repositories.ChatRepository
	waitlist repositories.WaitlistRepository
	inTx     database.TxRunner
	logger   *zap.Logger
}

// NewProjectService creates a new project service with dependencies.
func NewProjectService(
	projects repositories.ProjectRepository,
	brains repositories.BrainRepository,
	tickets repositories.TicketRepository,
	activity repositories.ActivityRepository,
	chat repositories.ChatRepository,
	waitlist repositories.WaitlistRepository,
	inTx database.TxRunner,
	logger *zap.Logger,
) ProjectService {
	return &projectService{
		projects: projects,
		brains:   brains,
		tickets:  tickets,
		activity: activity,
		chat:     chat,
		waitlist: waitlist,
		inTx:     inTx,
		logger:   logger.Named("projects"),
	}
}

// Create inserts a project and its empty brain in one transaction.
func (s *projectService) Create(ctx context.Context, userID uuid.UUID, name, niche string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	niche = strings.TrimSpace(niche)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", apperrors.ErrValidation)
	}
	if niche == "" {
		return nil, fmt.Errorf("%w: project niche is required", apperrors.ErrValidation)
	}

	project := &models.Project{
		UserID: userID,
		Name:   name,
		Niche:  niche,
		Status: models.StatusScoping,
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := s.projects.WithTx(tx).Create(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		if err := s.brains.WithTx(tx).Create(ctx, &models.Brain{ProjectID: project.ID}); err != nil {
			return fmt.Errorf("create brain: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("user_id", userID.String()))
	return project, nil
}

// Get returns a project owned by the caller.
func (s *projectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	return s.ownedProject(ctx, userID, projectID)
}

// List returns all of the caller's projects.
func (s *projectService) List(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

// Update applies a merge-patch to a project. Nil patch fields are untouched.
func (s *projectService) Update(ctx context.Context, userID, projectID uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	project, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: project name cannot be empty", apperrors.ErrValidation)
		}
		project.Name = name
	}
	if patch.Niche != nil {
		niche := strings.TrimSpace(*patch.Niche)
		if niche == "" {
			return nil, fmt.Errorf("%w: project niche cannot be empty", apperrors.ErrValidation)
		}
		project.Niche = niche
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *patch.Status)
		}
		project.Status = *patch.Status
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project and everything hanging off it, children before
// parent, in one transaction.
func (s *projectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return err
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := s.chat.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return fmt.Errorf("delete chat messages: %w", err)
		}
		if err := s.waitlist.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return fmt.Errorf("delete waitlist signups: %w", err)
		}
		if err := s.activity.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return fmt.Errorf("delete activity log: %w", err)
		}
		if err := s.tickets.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return fmt.Errorf("delete tickets: %w", err)
		}
		if err := s.brains.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return fmt.Errorf("delete brain: %w", err)
		}
		if err := s.projects.WithTx(tx).Delete(ctx, projectID); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Project deleted", zap.String("project_id", projectID.String()))
	return nil
}

// GetBrain returns the project's brain aggregate.
func (s *projectService) GetBrain(ctx context.Context, userID, projectID uuid.UUID) (*models.Brain, error) {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.brains.GetByProject(ctx, projectID)
}

// ListTickets returns the project's tickets ordered by priority.
func (s *projectService) ListTickets(ctx context.Context, userID, projectID uuid.UUID) ([]*models.Ticket, error) {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.tickets.ListByProject(ctx, projectID)
}

// UpdateTicket applies a merge-patch to a ticket. Ownership is checked
// through the ticket's project.
func (s *projectService) UpdateTicket(ctx context.Context, userID, ticketID uuid.UUID, patch models.TicketPatch) (*models.Ticket, error) {
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedProject(ctx, userID, ticket.ProjectID); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: ticket title cannot be empty", apperrors.ErrValidation)
		}
		ticket.Title = title
	}
	if patch.Description != nil {
		ticket.Description = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown ticket status %q", apperrors.ErrValidation, *patch.Status)
		}
		ticket.Status = *patch.Status
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetActivity returns up to limit log entries in the requested order.
func (s *projectService) GetActivity(ctx context.Context, userID, projectID uuid.UUID, limit int, order models.ActivityOrder) ([]*models.ActivityEntry, error) {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.activity.ListByProject(ctx, projectID, limit, order)
}

// ownedProject fetches a project and verifies the caller owns it.
func (s *projectService) ownedProject(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
