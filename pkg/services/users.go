package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// UserService defines user lifecycle operations. Users are provisioned
// lazily from verified identity claims; the identity provider remains the
// source of truth and notifies us of changes through webhooks.
type UserService interface {
	// Resolve returns the local user for an identity subject, creating the
	// record on first sight and refreshing email/name on subsequent ones.
	Resolve(ctx context.Context, subject, email, displayName string) (*models.User, error)

	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// Update applies a merge-patch to the user's own record.
	Update(ctx context.Context, userID uuid.UUID, patch models.UserPatch) (*models.User, error)

	// Erase removes a user and every project they own. Per-project failures
	// are logged and the sweep continues; the user cannot retry a webhook.
	Erase(ctx context.Context, subject string) error
}

// userService implements UserService.
type userService struct {
	users    repositories.UserRepository
	projects ProjectService
	logger   *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(users repositories.UserRepository, projects ProjectService, logger *zap.Logger) UserService {
	return &userService{
		users:    users,
		projects: projects,
		logger:   logger.Named("users"),
	}
}

// Resolve implements UserService.
func (s *userService) Resolve(ctx context.Context, subject, email, displayName string) (*models.User, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: empty identity subject", apperrors.ErrValidation)
	}

	user := &models.User{
		Subject:     subject,
		Email:       email,
		DisplayName: displayName,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("resolve user %q: %w", subject, err)
	}
	return user, nil
}

// Get implements UserService.
func (s *userService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.Get(ctx, userID)
}

// Update implements UserService.
func (s *userService) Update(ctx context.Context, userID uuid.UUID, patch models.UserPatch) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.DisplayName != nil {
		user.DisplayName = *patch.DisplayName
	}
	if patch.OnboardingComplete != nil {
		user.OnboardingComplete = *patch.OnboardingComplete
	}
	if patch.Profile != nil {
		user.Profile = *patch.Profile
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Erase implements UserService.
func (s *userService) Erase(ctx context.Context, subject string) error {
	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		return err
	}

	projects, err := s.projects.List(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list projects for erasure: %w", err)
	}

	for _, project := range projects {
		if err := s.projects.Delete(ctx, user.ID, project.ID); err != nil {
			s.logger.Error("Failed to delete project during user erasure",
				zap.String("user_id", user.ID.String()),
				zap.String("project_id", project.ID.String()),
				zap.Error(err))
		}
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("User erased",
		zap.String("user_id", user.ID.String()),
		zap.Int("projects", len(projects)))
	return nil
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)
