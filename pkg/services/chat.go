package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/found3r/found3r-engine/pkg/agents"
	"github.com/found3r/found3r-engine/pkg/apperrors"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// ChatService runs Copilot conversation turns and serves chat history.
type ChatService interface {
	// Send runs one Copilot turn and returns the assistant's reply.
	Send(ctx context.Context, userID, projectID uuid.UUID, message string) (string, error)

	// History returns up to limit messages, oldest first.
	History(ctx context.Context, userID, projectID uuid.UUID, limit int) ([]*models.ChatMessage, error)
}

// chatService implements ChatService.
type chatService struct {
	copilot  *agents.Copilot
	projects ProjectService
	messages repositories.ChatRepository
}

// NewChatService creates a new chat service with dependencies.
func NewChatService(copilot *agents.Copilot, projects ProjectService, messages repositories.ChatRepository) ChatService {
	return &chatService{
		copilot:  copilot,
		projects: projects,
		messages: messages,
	}
}

// Send implements ChatService.
func (s *chatService) Send(ctx context.Context, userID, projectID uuid.UUID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: empty chat message", apperrors.ErrValidation)
	}
	return s.copilot.Chat(ctx, userID, projectID, message)
}

// History implements ChatService.
func (s *chatService) History(ctx context.Context, userID, projectID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.messages.ListByProject(ctx, projectID, limit)
}

// Ensure chatService implements ChatService at compile time.
var _ ChatService = (*chatService)(nil)
