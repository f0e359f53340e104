package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"

	"github.com/found3r/found3r-engine/pkg/agents"
	"github.com/found3r/found3r-engine/pkg/auth"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/services"
)

// authedRequest builds a request carrying an authenticated user ID, the way
// the auth middleware would.
func authedRequest(method, target string, body io.Reader, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	return req.WithContext(ctx)
}

// mockProjectService is a function-field mock of services.ProjectService.
type mockProjectService struct {
	CreateFunc       func(ctx context.Context, userID uuid.UUID, name, niche string) (*models.Project, error)
	GetFunc          func(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error)
	ListFunc         func(ctx context.Context, userID uuid.UUID) ([]*models.Project, error)
	UpdateFunc       func(ctx context.Context, userID, projectID uuid.UUID, patch models.ProjectPatch) (*models.Project, error)
	DeleteFunc       func(ctx context.Context, userID, projectID uuid.UUID) error
	GetBrainFunc     func(ctx context.Context, userID, projectID uuid.UUID) (*models.Brain, error)
	ListTicketsFunc  func(ctx context.Context, userID, projectID uuid.UUID) ([]*models.Ticket, error)
	UpdateTicketFunc func(ctx context.Context, userID, ticketID uuid.UUID, patch models.TicketPatch) (*models.Ticket, error)
	GetActivityFunc  func(ctx context.Context, userID, projectID uuid.UUID, limit int, order models.ActivityOrder) ([]*models.ActivityEntry, error)
}

func (m *mockProjectService) Create(ctx context.Context, userID uuid.UUID, name, niche string) (*models.Project, error) {
	return m.CreateFunc(ctx, userID, name, niche)
}

func (m *mockProjectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	return m.GetFunc(ctx, userID, projectID)
}

func (m *mockProjectService) List(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	return m.ListFunc(ctx, userID)
}

func (m *mockProjectService) Update(ctx context.Context, userID, projectID uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	return m.UpdateFunc(ctx, userID, projectID, patch)
}

func (m *mockProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	return m.DeleteFunc(ctx, userID, projectID)
}

func (m *mockProjectService) GetBrain(ctx context.Context, userID, projectID uuid.UUID) (*models.Brain, error) {
	return m.GetBrainFunc(ctx, userID, projectID)
}

func (m *mockProjectService) ListTickets(ctx context.Context, userID, projectID uuid.UUID) ([]*models.Ticket, error) {
	return m.ListTicketsFunc(ctx, userID, projectID)
}

func (m *mockProjectService) UpdateTicket(ctx context.Context, userID, ticketID uuid.UUID, patch models.TicketPatch) (*models.Ticket, error) {
	return m.UpdateTicketFunc(ctx, userID, ticketID, patch)
}

func (m *mockProjectService) GetActivity(ctx context.Context, userID, projectID uuid.UUID, limit int, order models.ActivityOrder) ([]*models.ActivityEntry, error) {
	return m.GetActivityFunc(ctx, userID, projectID, limit, order)
}

var _ services.ProjectService = (*mockProjectService)(nil)

// mockOrchestrator is a function-field mock of services.Orchestrator.
type mockOrchestrator struct {
	RunAgentFunc     func(ctx context.Context, userID, projectID uuid.UUID, agentName string, opts agents.Options) (string, error)
	RunFullSweepFunc func(ctx context.Context, userID, projectID uuid.UUID) error
	SweepStatusFunc  func(ctx context.Context, userID, projectID uuid.UUID) (services.SweepStatus, error)
}

func (m *mockOrchestrator) RunAgent(ctx context.Context, userID, projectID uuid.UUID, agentName string, opts agents.Options) (string, error) {
	return m.RunAgentFunc(ctx, userID, projectID, agentName, opts)
}

func (m *mockOrchestrator) RunFullSweep(ctx context.Context, userID, projectID uuid.UUID) error {
	if m.RunFullSweepFunc != nil {
		return m.RunFullSweepFunc(ctx, userID, projectID)
	}
	return nil
}

func (m *mockOrchestrator) SweepStatus(ctx context.Context, userID, projectID uuid.UUID) (services.SweepStatus, error) {
	return m.SweepStatusFunc(ctx, userID, projectID)
}

var _ services.Orchestrator = (*mockOrchestrator)(nil)

// mockWaitlistService is a function-field mock of services.WaitlistService.
type mockWaitlistService struct {
	JoinFunc  func(ctx context.Context, projectID uuid.UUID, email, source, referrer string) (*models.WaitlistSignup, error)
	ListFunc  func(ctx context.Context, userID, projectID uuid.UUID) ([]*models.WaitlistSignup, error)
	CountFunc func(ctx context.Context, userID, projectID uuid.UUID) (int, error)
}

func (m *mockWaitlistService) Join(ctx context.Context, projectID uuid.UUID, email, source, referrer string) (*models.WaitlistSignup, error) {
	return m.JoinFunc(ctx, projectID, email, source, referrer)
}

func (m *mockWaitlistService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*models.WaitlistSignup, error) {
	return m.ListFunc(ctx, userID, projectID)
}

func (m *mockWaitlistService) Count(ctx context.Context, userID, projectID uuid.UUID) (int, error) {
	return m.CountFunc(ctx, userID, projectID)
}

var _ services.WaitlistService = (*mockWaitlistService)(nil)

// mockChatService is a function-field mock of services.ChatService.
type mockChatService struct {
	SendFunc    func(ctx context.Context, userID, projectID uuid.UUID, message string) (string, error)
	HistoryFunc func(ctx context.Context, userID, projectID uuid.UUID, limit int) ([]*models.ChatMessage, error)
}

func (m *mockChatService) Send(ctx context.Context, userID, projectID uuid.UUID, message string) (string, error) {
	return m.SendFunc(ctx, userID, projectID, message)
}

func (m *mockChatService) History(ctx context.Context, userID, projectID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	return m.HistoryFunc(ctx, userID, projectID, limit)
}

var _ services.ChatService = (*mockChatService)(nil)

// mockUserService is a function-field mock of services.UserService.
type mockUserService struct {
	ResolveFunc func(ctx context.Context, subject, email, displayName string) (*models.User, error)
	GetFunc     func(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateFunc  func(ctx context.Context, userID uuid.UUID, patch models.UserPatch) (*models.User, error)
	EraseFunc   func(ctx context.Context, subject string) error
}

func (m *mockUserService) Resolve(ctx context.Context, subject, email, displayName string) (*models.User, error) {
	return m.ResolveFunc(ctx, subject, email, displayName)
}

func (m *mockUserService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return m.GetFunc(ctx, userID)
}

func (m *mockUserService) Update(ctx context.Context, userID uuid.UUID, patch models.UserPatch) (*models.User, error) {
	return m.UpdateFunc(ctx, userID, patch)
}

func (m *mockUserService) Erase(ctx context.Context, subject string) error {
	return m.EraseFunc(ctx, subject)
}

var _ services.UserService = (*mockUserService)(nil)
