package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/prompts"
)

// Copilot services free-form chat turns scoped to a project. It reads the
// brain and recent activity for context but never mutates the aggregate;
// its only writes are the two chat messages per turn.
type Copilot struct {
	deps *Deps
}

// NewCopilot creates the Copilot agent.
func NewCopilot(deps *Deps) *Copilot {
	return &Copilot{deps: deps}
}

// Name implements Agent.
func (a *Copilot) Name() Name { return CopilotName }

// recentLogLimit bounds how much activity history a chat turn sees.
const recentLogLimit = 10

// Chat runs one conversation turn and returns the assistant's reply.
func (a *Copilot) Chat(ctx context.Context, userID, projectID uuid.UUID, message string) (string, error) {
	d := a.deps

	project, err := d.loadOwnedProject(ctx, userID, projectID)
	if err != nil {
		return "", err
	}

	brain, err := d.Brains.GetByProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	history, err := d.Chat.ListByProject(ctx, projectID, d.Config.ChatHistoryLimit)
	if err != nil {
		return "", err
	}

	recent, err := d.Activity.ListByProject(ctx, projectID, recentLogLimit, models.NewestFirst)
	if err != nil {
		return "", err
	}

	// Record the user's message before calling the gateway so a failed turn
	// still shows what was asked.
	if err := d.Chat.Append(ctx, &models.ChatMessage{
		ProjectID: projectID,
		Role:      models.RoleUser,
		Message:   message,
	}); err != nil {
		return "", err
	}

	promptCtx := prompts.CopilotContext{
		Project:      prompts.ProjectContext{Name: project.Name, Niche: project.Niche},
		Status:       string(project.Status),
		BrainSummary: summarizeBrain(brain),
		RecentLog:    activityLines(recent),
		History:      chatTurns(history),
		UserMessage:  message,
	}

	reply, err := d.LLM.Complete(ctx, prompts.CopilotSystem, prompts.BuildCopilotPrompt(promptCtx), d.Temperature)
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	if err := d.Chat.Append(ctx, &models.ChatMessage{
		ProjectID: projectID,
		Role:      models.RoleAssistant,
		Message:   reply,
	}); err != nil {
		return "", err
	}

	return reply, nil
}

// summarizeBrain renders a compact plain-text view of the aggregate for
// prompt context.
func summarizeBrain(brain *models.Brain) string {
	if brain == nil {
		return ""
	}

	var b strings.Builder

	if brain.PainPoints != nil {
		fmt.Fprintf(&b, "Pain points (%d, overall %.2f):\n", len(brain.PainPoints.PainPoints), brain.PainPoints.OverallScore)
		for _, p := range brain.PainPoints.PainPoints {
			fmt.Fprintf(&b, "- %s (%.0f)\n", p.Text, p.Score)
		}
	}
	if brain.ValidationData != nil {
		fmt.Fprintf(&b, "Landing page: %s\n", brain.ValidationData.LandingPage.Headline)
		if brain.ValidationData.Deployment != nil {
			fmt.Fprintf(&b, "Deployed at: %s\n", brain.ValidationData.Deployment.URL)
		}
	}
	if brain.TechStack != nil {
		fmt.Fprintf(&b, "Planned features: %s\n", strings.Join(brain.TechStack.Features, ", "))
	}
	if brain.GTMStrategy != nil {
		channels := make([]string, 0, len(brain.GTMStrategy.Recommended))
		for _, r := range brain.GTMStrategy.Recommended {
			channels = append(channels, r.Channel)
		}
		fmt.Fprintf(&b, "Recommended channels: %s\n", strings.Join(channels, ", "))
	}

	return strings.TrimSpace(b.String())
}

// activityLines flattens log entries into prompt lines, oldest first.
func activityLines(entries []*models.ActivityEntry) []string {
	lines := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		lines = append(lines, entries[i].Message)
	}
	return lines
}

// chatTurns converts stored messages into prompt turns.
func chatTurns(messages []*models.ChatMessage) []prompts.CopilotTurn {
	turns := make([]prompts.CopilotTurn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, prompts.CopilotTurn{Role: string(m.Role), Message: m.Message})
	}
	return turns
}
