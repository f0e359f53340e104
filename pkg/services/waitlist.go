package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// WaitlistService handles public landing-page signups and owner-side reads.
type WaitlistService interface {
	// Join records a signup from a public landing page. No caller identity:
	// the page is on the open internet. Duplicates yield ErrConflict.
	Join(ctx context.Context, projectID uuid.UUID, email, source, referrer string) (*models.WaitlistSignup, error)

	List(ctx context.Context, userID, projectID uuid.UUID) ([]*models.WaitlistSignup, error)
	Count(ctx context.Context, userID, projectID uuid.UUID) (int, error)
}

// waitlistService implements WaitlistService.
type waitlistService struct {
	signups  repositories.WaitlistRepository
	projects ProjectService
	logger   *zap.Logger
}

// NewWaitlistService creates a new waitlist service with dependencies.
func NewWaitlistService(signups repositories.WaitlistRepository, projects ProjectService, logger *zap.Logger) WaitlistService {
	return &waitlistService{
		signups:  signups,
		projects: projects,
		logger:   logger.Named("waitlist"),
	}
}

// Join implements WaitlistService.
func (s *waitlistService) Join(ctx context.Context, projectID uuid.UUID, email, source, referrer string) (*models.WaitlistSignup, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: invalid email address", apperrors.ErrValidation)
	}

	signup := &models.WaitlistSignup{
		ProjectID: projectID,
		Email:     email,
		Source:    source,
		Referrer:  referrer,
	}
	if err := s.signups.Add(ctx, signup); err != nil {
		return nil, err
	}

	s.logger.Info("Waitlist signup",
		zap.String("project_id", projectID.String()),
		zap.String("source", source))
	return signup, nil
}

// List implements WaitlistService.
func (s *waitlistService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*models.WaitlistSignup, error) {
	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.signups.ListByProject(ctx, projectID)
}

// Count implements WaitlistService.
func (s *waitlistService) Count(ctx context.Context, userID, projectID uuid.UUID) (int, error) {
	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return 0, err
	}
	return s.signups.CountByProject(ctx, projectID)
}

// validEmail is a light gate on a public form: an RFC 5322 parse plus a
// dotted-domain requirement (ParseAddress accepts bare hostnames). Real
// verification happens downstream when the list is exported.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	domain := email[strings.LastIndexByte(email, '@')+1:]
	return strings.Contains(domain, ".")
}

// Ensure waitlistService implements WaitlistService at compile time.
var _ WaitlistService = (*waitlistService)(nil)
