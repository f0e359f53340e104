package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/found3r/found3r-engine/pkg/agents"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// mockProjectRepo is a configurable mock for service tests.
type mockProjectRepo struct {
	project   *models.Project
	projects  []*models.Project
	createErr error
	getErr    error
	updateErr error
	deleteErr error

	created   *models.Project
	updated   *models.Project
	deletedID uuid.UUID
	deletes   int
}

func (m *mockProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	m.created = project
	return nil
}

func (m *mockProjectRepo) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.project, nil
}

func (m *mockProjectRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	return m.projects, nil
}

func (m *mockProjectRepo) Update(ctx context.Context, project *models.Project) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = project
	return nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	m.deletes++
	return nil
}

func (m *mockProjectRepo) WithTx(tx pgx.Tx) repositories.ProjectRepository { return m }

// mockBrainRepo records writes; deleteLog, when set, receives cascade steps.
type mockBrainRepo struct {
	brain     *models.Brain
	createErr error
	deleteErr error

	created   *models.Brain
	deletes   int
	deleteLog *[]string
}

func (m *mockBrainRepo) Create(ctx context.Context, brain *models.Brain) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = brain
	return nil
}

func (m *mockBrainRepo) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Brain, error) {
	if m.brain == nil {
		return &models.Brain{ProjectID: projectID}, nil
	}
	return m.brain, nil
}

func (m *mockBrainRepo) SetField(ctx context.Context, projectID uuid.UUID, field repositories.BrainField, value any) error {
	return nil
}

func (m *mockBrainRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes++
	if m.deleteLog != nil {
		*m.deleteLog = append(*m.deleteLog, "brain")
	}
	return nil
}

func (m *mockBrainRepo) WithTx(tx pgx.Tx) repositories.BrainRepository { return m }

type mockTicketRepo struct {
	ticket    *models.Ticket
	getErr    error
	updateErr error

	updated   *models.Ticket
	deletes   int
	deleteLog *[]string
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *models.Ticket) error { return nil }

func (m *mockTicketRepo) Get(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.ticket, nil
}

func (m *mockTicketRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Ticket, error) {
	return nil, nil
}

func (m *mockTicketRepo) Update(ctx context.Context, ticket *models.Ticket) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = ticket
	return nil
}

func (m *mockTicketRepo) DeleteByRun(ctx context.Context, projectID, runID uuid.UUID) error {
	return nil
}

func (m *mockTicketRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	m.deletes++
	if m.deleteLog != nil {
		*m.deleteLog = append(*m.deleteLog, "tickets")
	}
	return nil
}

func (m *mockTicketRepo) WithTx(tx pgx.Tx) repositories.TicketRepository { return m }

type mockActivityRepo struct {
	entries   []*models.ActivityEntry
	deletes   int
	deleteLog *[]string
}

func (m *mockActivityRepo) Append(ctx context.Context, entry *models.ActivityEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityRepo) ListByProject(ctx context.Context, projectID uuid.UUID, limit int, order models.ActivityOrder) ([]*models.ActivityEntry, error) {
	return m.entries, nil
}

func (m *mockActivityRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	m.deletes++
	if m.deleteLog != nil {
		*m.deleteLog = append(*m.deleteLog, "activity")
	}
	return nil
}

func (m *mockActivityRepo) WithTx(tx pgx.Tx) repositories.ActivityRepository { return m }

type mockChatRepo struct {
	messages  []*models.ChatMessage
	deletes   int
	deleteLog *[]string
}

func (m *mockChatRepo) Append(ctx context.Context, msg *models.ChatMessage) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockChatRepo) ListByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	return m.messages, nil
}

func (m *mockChatRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	m.deletes++
	if m.deleteLog != nil {
		*m.deleteLog = append(*m.deleteLog, "chat")
	}
	return nil
}

func (m *mockChatRepo) WithTx(tx pgx.Tx) repositories.ChatRepository { return m }

type mockWaitlistRepo struct {
	signups []*models.WaitlistSignup
	addErr  error

	added     *models.WaitlistSignup
	deletes   int
	deleteLog *[]string
}

func (m *mockWaitlistRepo) Add(ctx context.Context, signup *models.WaitlistSignup) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = signup
	return nil
}

func (m *mockWaitlistRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.WaitlistSignup, error) {
	return m.signups, nil
}

func (m *mockWaitlistRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	return len(m.signups), nil
}

func (m *mockWaitlistRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	m.deletes++
	if m.deleteLog != nil {
		*m.deleteLog = append(*m.deleteLog, "waitlist")
	}
	return nil
}

func (m *mockWaitlistRepo) WithTx(tx pgx.Tx) repositories.WaitlistRepository { return m }

type mockUserRepo struct {
	user      *models.User
	upsertErr error
	getErr    error
	deleteErr error

	upserted *models.User
	updated  *models.User
	deleted  uuid.UUID
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *models.User) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.upserted = user
	return nil
}

func (m *mockUserRepo) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepo) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.updated = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = id
	return nil
}

func (m *mockUserRepo) WithTx(tx pgx.Tx) repositories.UserRepository { return m }

// stubAgent is a scriptable agents.Agent for orchestrator tests.
type stubAgent struct {
	name    agents.Name
	summary string
	err     error
	runFunc func(ctx context.Context, userID, projectID uuid.UUID, opts agents.Options) (string, error)

	runs int
}

func (a *stubAgent) Name() agents.Name { return a.name }

func (a *stubAgent) Run(ctx context.Context, userID, projectID uuid.UUID, opts agents.Options) (string, error) {
	a.runs++
	if a.runFunc != nil {
		return a.runFunc(ctx, userID, projectID, opts)
	}
	return a.summary, a.err
}

// stubProjectAccess satisfies the ownership checks Orchestrator and the
// read-side services make through ProjectService.
type stubProjectAccess struct {
	ProjectService
	project *models.Project
	err     error
}

func (s *stubProjectAccess) Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.project, nil
}
