package agents

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// mockProjectRepository is a configurable mock for testing agents.
type mockProjectRepository struct {
	project   *models.Project
	getErr    error
	updateErr error

	updatedStatus models.ProjectStatus
	updateCalls   int
}

func (m *mockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return nil
}

func (m *mockProjectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.project, nil
}

func (m *mockProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	return nil, nil
}

func (m *mockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	m.updateCalls++
	m.updatedStatus = project.Status
	return m.updateErr
}

func (m *mockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockProjectRepository) WithTx(tx pgx.Tx) repositories.ProjectRepository {
	return m
}

// mockBrainRepository is a configurable mock for testing agents.
type mockBrainRepository struct {
	brain       *models.Brain
	getErr      error
	setFieldErr error

	setFields map[repositories.BrainField]any
}

func (m *mockBrainRepository) Create(ctx context.Context, brain *models.Brain) error {
	return nil
}

func (m *mockBrainRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Brain, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.brain == nil {
		return &models.Brain{ProjectID: projectID}, nil
	}
	return m.brain, nil
}

func (m *mockBrainRepository) SetField(ctx context.Context, projectID uuid.UUID, field repositories.BrainField, value any) error {
	if m.setFieldErr != nil {
		return m.setFieldErr
	}
	if m.setFields == nil {
		m.setFields = make(map[repositories.BrainField]any)
	}
	m.setFields[field] = value
	return nil
}

func (m *mockBrainRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return nil
}

func (m *mockBrainRepository) WithTx(tx pgx.Tx) repositories.BrainRepository {
	return m
}

// mockTicketRepository is a configurable mock for testing agents.
type mockTicketRepository struct {
	createErr   error
	createAfter int // fail on the Nth create (1-based); 0 means honor createErr always

	created []*models.Ticket
}

func (m *mockTicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if m.createErr != nil && (m.createAfter == 0 || len(m.created)+1 >= m.createAfter) {
		return m.createErr
	}
	m.created = append(m.created, ticket)
	return nil
}

func (m *mockTicketRepository) Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return nil, nil
}

func (m *mockTicketRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Ticket, error) {
	return m.created, nil
}

func (m *mockTicketRepository) Update(ctx context.Context, ticket *models.Ticket) error {
	return nil
}

func (m *mockTicketRepository) DeleteByRun(ctx context.Context, projectID, runID uuid.UUID) error {
	return nil
}

func (m *mockTicketRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return nil
}

func (m *mockTicketRepository) WithTx(tx pgx.Tx) repositories.TicketRepository {
	return m
}

// mockActivityRepository records appends for verification.
type mockActivityRepository struct {
	entries   []*models.ActivityEntry
	appendErr error
}

func (m *mockActivityRepository) Append(ctx context.Context, entry *models.ActivityEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit int, order models.ActivityOrder) ([]*models.ActivityEntry, error) {
	return m.entries, nil
}

func (m *mockActivityRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return nil
}

func (m *mockActivityRepository) WithTx(tx pgx.Tx) repositories.ActivityRepository {
	return m
}

// mockChatRepository records appends for verification.
type mockChatRepository struct {
	messages  []*models.ChatMessage
	appendErr error
}

func (m *mockChatRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockChatRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	return m.messages, nil
}

func (m *mockChatRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return nil
}

func (m *mockChatRepository) WithTx(tx pgx.Tx) repositories.ChatRepository {
	return m
}
