package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/models"
)

// erasureProjects records deletes and can be scripted to fail per project.
type erasureProjects struct {
	ProjectService
	projects  []*models.Project
	failOn    uuid.UUID
	deleted   []uuid.UUID
}

func (s *erasureProjects) List(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	return s.projects, nil
}

func (s *erasureProjects) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if projectID == s.failOn {
		return errors.New("deadlock detected")
	}
	s.deleted = append(s.deleted, projectID)
	return nil
}

func TestUserService_Resolve(t *testing.T) {
	users := &mockUserRepo{}
	service := NewUserService(users, &stubProjectAccess{}, zap.NewNop())

	user, err := service.Resolve(context.Background(), "auth0|abc123", "founder@example.com", "Sam")
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", user.Subject)
	assert.Equal(t, "founder@example.com", user.Email)
	assert.NotNil(t, users.upserted)

	_, err = service.Resolve(context.Background(), "   ", "x@example.com", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUserService_Update_MergePatch(t *testing.T) {
	users := &mockUserRepo{user: &models.User{
		ID:    uuid.New(),
		Email: "founder@example.com",
		Profile: models.Profile{
			Skills: []string{"go"},
		},
	}}
	service := NewUserService(users, &stubProjectAccess{}, zap.NewNop())

	done := true
	updated, err := service.Update(context.Background(), users.user.ID,
		models.UserPatch{OnboardingComplete: &done})
	require.NoError(t, err)

	assert.True(t, updated.OnboardingComplete)
	assert.Equal(t, "founder@example.com", updated.Email, "nil patch fields untouched")
	assert.Equal(t, []string{"go"}, updated.Profile.Skills)
}

func TestUserService_Erase_ContinuesPastProjectFailures(t *testing.T) {
	userID := uuid.New()
	first := &models.Project{ID: uuid.New(), UserID: userID}
	second := &models.Project{ID: uuid.New(), UserID: userID}
	third := &models.Project{ID: uuid.New(), UserID: userID}

	users := &mockUserRepo{user: &models.User{ID: userID, Subject: "auth0|abc123"}}
	projects := &erasureProjects{
		projects: []*models.Project{first, second, third},
		failOn:   second.ID,
	}
	service := NewUserService(users, projects, zap.NewNop())

	err := service.Erase(context.Background(), "auth0|abc123")
	require.NoError(t, err, "one stuck project does not block erasure")

	assert.Equal(t, []uuid.UUID{first.ID, third.ID}, projects.deleted)
	assert.Equal(t, userID, users.deleted)
}

func TestUserService_Erase_UnknownSubject(t *testing.T) {
	users := &mockUserRepo{getErr: apperrors.ErrNotFound}
	service := NewUserService(users, &stubProjectAccess{}, zap.NewNop())

	err := service.Erase(context.Background(), "auth0|ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
