package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/database"
	"github.com/found3r/found3r-engine/pkg/models"
)

type projectServiceFixture struct {
	projects *mockProjectRepo
	brains   *mockBrainRepo
	tickets  *mockTicketRepo
	activity *mockActivityRepo
	chat     *mockChatRepo
	waitlist *mockWaitlistRepo
	service  ProjectService
}

func newProjectServiceFixture() *projectServiceFixture {
	f := &projectServiceFixture{
		projects: &mockProjectRepo{},
		brains:   &mockBrainRepo{},
		tickets:  &mockTicketRepo{},
		activity: &mockActivityRepo{},
		chat:     &mockChatRepo{},
		waitlist: &mockWaitlistRepo{},
	}
	f.service = NewProjectService(
		f.projects, f.brains, f.tickets, f.activity, f.chat, f.waitlist,
		database.PassthroughTx, zap.NewNop())
	return f
}

func TestProjectService_Create(t *testing.T) {
	f := newProjectServiceFixture()
	userID := uuid.New()

	project, err := f.service.Create(context.Background(), userID, "  Ledgerly  ", "bookkeeping")
	require.NoError(t, err)

	assert.Equal(t, "Ledgerly", project.Name, "name is trimmed")
	assert.Equal(t, models.StatusScoping, project.Status)
	assert.Equal(t, userID, project.UserID)

	require.NotNil(t, f.brains.created, "an empty brain is created alongside")
	assert.Equal(t, project.ID, f.brains.created.ProjectID)
}

func TestProjectService_Create_Validation(t *testing.T) {
	f := newProjectServiceFixture()

	_, err := f.service.Create(context.Background(), uuid.New(), "   ", "bookkeeping")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.service.Create(context.Background(), uuid.New(), "Ledgerly", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Nil(t, f.projects.created, "nothing persisted on validation failure")
	assert.Nil(t, f.brains.created)
}

func TestProjectService_Create_Atomicity(t *testing.T) {
	t.Run("project insert fails", func(t *testing.T) {
		f := newProjectServiceFixture()
		f.projects.createErr = errors.New("constraint violation")

		_, err := f.service.Create(context.Background(), uuid.New(), "Ledgerly", "bookkeeping")
		require.Error(t, err)
		assert.Nil(t, f.brains.created, "brain insert never attempted")
	})

	t.Run("brain insert fails", func(t *testing.T) {
		f := newProjectServiceFixture()
		f.brains.createErr = errors.New("constraint violation")

		// The error must escape the transaction runner so the project
		// insert rolls back with it.
		var sawErr error
		service := NewProjectService(
			f.projects, f.brains, f.tickets, f.activity, f.chat, f.waitlist,
			func(ctx context.Context, fn func(tx pgx.Tx) error) error {
				sawErr = fn(nil)
				return sawErr
			}, zap.NewNop())

		_, err := service.Create(context.Background(), uuid.New(), "Ledgerly", "bookkeeping")
		require.Error(t, err)
		assert.Error(t, sawErr)
	})
}

func TestProjectService_OwnershipConflatedWithMissing(t *testing.T) {
	f := newProjectServiceFixture()
	owner := uuid.New()
	stranger := uuid.New()
	f.projects.project = &models.Project{ID: uuid.New(), UserID: owner, Name: "Ledgerly"}

	ctx := context.Background()
	pid := f.projects.project.ID

	_, err := f.service.Get(ctx, stranger, pid)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.service.GetBrain(ctx, stranger, pid)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.service.ListTickets(ctx, stranger, pid)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.service.GetActivity(ctx, stranger, pid, 50, models.OldestFirst)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = f.service.Delete(ctx, stranger, pid)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, f.projects.deletes)

	_, err = f.service.Get(ctx, owner, pid)
	assert.NoError(t, err)
}

func TestProjectService_Update_MergePatch(t *testing.T) {
	f := newProjectServiceFixture()
	userID := uuid.New()
	f.projects.project = &models.Project{
		ID: uuid.New(), UserID: userID,
		Name: "Ledgerly", Niche: "bookkeeping", Status: models.StatusScoping,
	}

	name := "Ledgerly 2"
	updated, err := f.service.Update(context.Background(), userID, f.projects.project.ID,
		models.ProjectPatch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Ledgerly 2", updated.Name)
	assert.Equal(t, "bookkeeping", updated.Niche, "nil patch fields untouched")
	assert.Equal(t, models.StatusScoping, updated.Status)

	bad := models.ProjectStatus("paused")
	_, err = f.service.Update(context.Background(), userID, f.projects.project.ID,
		models.ProjectPatch{Status: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProjectService_Delete_CascadeOrder(t *testing.T) {
	f := newProjectServiceFixture()
	userID := uuid.New()
	f.projects.project = &models.Project{ID: uuid.New(), UserID: userID}

	var order []string
	f.chat.deleteLog = &order
	f.waitlist.deleteLog = &order
	f.activity.deleteLog = &order
	f.tickets.deleteLog = &order
	f.brains.deleteLog = &order

	err := f.service.Delete(context.Background(), userID, f.projects.project.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"chat", "waitlist", "activity", "tickets", "brain"}, order,
		"children deleted before the parent row")
	assert.Equal(t, 1, f.projects.deletes)
	assert.Equal(t, f.projects.project.ID, f.projects.deletedID)
}

func TestProjectService_Delete_ChildFailureAborts(t *testing.T) {
	f := newProjectServiceFixture()
	userID := uuid.New()
	f.projects.project = &models.Project{ID: uuid.New(), UserID: userID}
	f.brains.deleteErr = errors.New("deadlock detected")

	err := f.service.Delete(context.Background(), userID, f.projects.project.ID)
	require.Error(t, err)
	assert.Zero(t, f.projects.deletes, "parent row survives a failed cascade")
}

func TestProjectService_UpdateTicket(t *testing.T) {
	f := newProjectServiceFixture()
	userID := uuid.New()
	f.projects.project = &models.Project{ID: uuid.New(), UserID: userID}
	f.tickets.ticket = &models.Ticket{
		ID:        uuid.New(),
		ProjectID: f.projects.project.ID,
		Title:     "Invoice capture",
		Status:    models.TicketTodo,
		Priority:  2,
	}

	status := models.TicketDone
	updated, err := f.service.UpdateTicket(context.Background(), userID, f.tickets.ticket.ID,
		models.TicketPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.TicketDone, updated.Status)
	assert.Equal(t, "Invoice capture", updated.Title)
	assert.Equal(t, 2, updated.Priority)

	// Ticket reached through a project the caller does not own.
	_, err = f.service.UpdateTicket(context.Background(), uuid.New(), f.tickets.ticket.ID,
		models.TicketPatch{Status: &status})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
