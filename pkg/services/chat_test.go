package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/agents"
	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/config"
	"github.com/found3r/found3r-engine/pkg/database"
	"github.com/found3r/found3r-engine/pkg/llm"
	"github.com/found3r/found3r-engine/pkg/models"
)

func newChatFixture(userID uuid.UUID, project *models.Project, reply string) (ChatService, *mockChatRepo) {
	messages := &mockChatRepo{}
	copilot := agents.NewCopilot(&agents.Deps{
		Projects: &mockProjectRepo{project: project},
		Brains:   &mockBrainRepo{},
		Tickets:  &mockTicketRepo{},
		Activity: &mockActivityRepo{},
		Chat:     messages,
		LLM: &llm.MockClient{
			CompleteFunc: func(ctx context.Context, system, prompt string, temperature float64) (string, error) {
				return reply, nil
			},
		},
		InTx:   database.PassthroughTx,
		Config: config.AgentConfig{ChatHistoryLimit: 20},
		Logger: zap.NewNop(),
	})
	access := &stubProjectAccess{project: project}
	return NewChatService(copilot, access, messages), messages
}

func TestChatService_Send(t *testing.T) {
	userID := uuid.New()
	project := &models.Project{ID: uuid.New(), UserID: userID, Name: "Ledgerly"}
	service, messages := newChatFixture(userID, project, "start by validating demand")

	reply, err := service.Send(context.Background(), userID, project.ID, "what first?")
	require.NoError(t, err)
	assert.Equal(t, "start by validating demand", reply)

	require.Len(t, messages.messages, 2)
	assert.Equal(t, models.RoleUser, messages.messages[0].Role)
	assert.Equal(t, models.RoleAssistant, messages.messages[1].Role)
}

func TestChatService_Send_EmptyMessage(t *testing.T) {
	userID := uuid.New()
	project := &models.Project{ID: uuid.New(), UserID: userID}
	service, messages := newChatFixture(userID, project, "")

	_, err := service.Send(context.Background(), userID, project.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, messages.messages)
}

func TestChatService_History(t *testing.T) {
	userID := uuid.New()
	project := &models.Project{ID: uuid.New(), UserID: userID}
	service, messages := newChatFixture(userID, project, "")
	messages.messages = []*models.ChatMessage{
		{Role: models.RoleUser, Message: "hi"},
		{Role: models.RoleAssistant, Message: "hello"},
	}

	history, err := service.History(context.Background(), userID, project.ID, 20)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
