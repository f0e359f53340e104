package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/found3r/found3r-engine/pkg/llm"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

const buildPlanJSON = `{
	"diagram_dot": "digraph { api -> db }",
	"features": ["invoice capture", "expense tagging", "tax report"],
	"stack": {"backend": "Go", "database": "PostgreSQL"},
	"tickets": [
		{"title": "Invoice capture", "description": "Parse uploaded invoices", "priority": 1, "type": "build"},
		{"title": "Expense tagging", "description": "Categorize expenses", "priority": 2, "type": "build"},
		{"title": "Tax report", "description": "Quarterly summary export", "priority": 3, "type": "build"}
	]
}`

func TestBuildPlanner_Run(t *testing.T) {
	userID := uuid.New()
	project := testProject(userID, models.StatusValidating)

	client := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, system, prompt string, temperature float64) (string, error) {
			return buildPlanJSON, nil
		},
	}

	projects := &mockProjectRepository{project: project}
	brains := &mockBrainRepository{
		brain: &models.Brain{
			ProjectID: project.ID,
			ValidationData: &models.ValidationData{
				LandingPage: models.LandingPage{Headline: "Books that keep themselves"},
			},
		},
	}
	tickets := &mockTicketRepository{}
	activity := &mockActivityRepository{}
	deps := newTestDeps(projects, brains, tickets, activity, &mockChatRepository{}, client)

	agent := NewBuildPlanner(deps)
	summary, err := agent.Run(context.Background(), userID, project.ID, Options{})
	require.NoError(t, err)
	assert.Contains(t, summary, "3 tickets")

	stored := brains.setFields[repositories.FieldTechStack].(*models.TechStack)
	assert.Equal(t, "digraph { api -> db }", stored.DiagramDOT)
	assert.Equal(t, []string{"invoice capture", "expense tagging", "tax report"}, stored.Features)

	require.Len(t, tickets.created, 3, "one ticket per feature")
	runID := tickets.created[0].RunID
	assert.NotEqual(t, uuid.Nil, runID)
	for _, ticket := range tickets.created {
		assert.Equal(t, project.ID, ticket.ProjectID)
		assert.Equal(t, string(BuildPlannerName), ticket.AgentAuthor)
		assert.Equal(t, runID, ticket.RunID, "all tickets of one run share a run ID")
	}

	assert.Equal(t, models.StatusBuilding, projects.updatedStatus)
	assert.Contains(t, client.LastPrompt, "Books that keep themselves")
}

func TestBuildPlanner_Run_MidTicketFailureAborts(t *testing.T) {
	userID := uuid.New()
	project := testProject(userID, models.StatusValidating)

	client := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, system, prompt string, temperature float64) (string, error) {
			return buildPlanJSON, nil
		},
	}

	projects := &mockProjectRepository{project: project}
	brains := &mockBrainRepository{}
	tickets := &mockTicketRepository{createErr: errors.New("disk full"), createAfter: 2}
	activity := &mockActivityRepository{}
	deps := newTestDeps(projects, brains, tickets, activity, &mockChatRepository{}, client)

	// The transaction runner surfaces the inner error; against a real
	// database it would also roll back the partial writes.
	var rolledBack bool
	deps.InTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		if err := fn(nil); err != nil {
			rolledBack = true
			return err
		}
		return nil
	}

	agent := NewBuildPlanner(deps)
	_, err := agent.Run(context.Background(), userID, project.ID, Options{})
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.True(t, rolledBack)
	assert.Zero(t, projects.updateCalls, "status must not advance on failure")
	require.Len(t, activity.entries, 1)
	assert.True(t, activity.entries[0].IsError)
}

func TestBuildPlanner_Run_RejectsIncompletePlan(t *testing.T) {
	userID := uuid.New()
	project := testProject(userID, models.StatusValidating)

	tests := []struct {
		name     string
		response string
	}{
		{"missing diagram", `{"features": ["a"], "tickets": [{"title": "t"}]}`},
		{"no tickets", `{"diagram_dot": "digraph {}", "features": ["a"], "tickets": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &llm.MockClient{
				CompleteFunc: func(ctx context.Context, system, prompt string, temperature float64) (string, error) {
					return tt.response, nil
				},
			}

			projects := &mockProjectRepository{project: project}
			brains := &mockBrainRepository{}
			tickets := &mockTicketRepository{}
			deps := newTestDeps(projects, brains, tickets, &mockActivityRepository{}, &mockChatRepository{}, client)

			agent := NewBuildPlanner(deps)
			_, err := agent.Run(context.Background(), userID, project.ID, Options{})

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Empty(t, brains.setFields)
			assert.Empty(t, tickets.created)
		})
	}
}

func TestBuildPlanner_Run_NewRunGetsFreshRunID(t *testing.T) {
	userID := uuid.New()
	project := testProject(userID, models.StatusBuilding)

	client := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, system, prompt string, temperature float64) (string, error) {
			return buildPlanJSON, nil
		},
	}

	projects := &mockProjectRepository{project: project}
	brains := &mockBrainRepository{}
	tickets := &mockTicketRepository{}
	deps := newTestDeps(projects, brains, tickets, &mockActivityRepository{}, &mockChatRepository{}, client)

	agent := NewBuildPlanner(deps)
	_, err := agent.Run(context.Background(), userID, project.ID, Options{})
	require.NoError(t, err)
	_, err = agent.Run(context.Background(), userID, project.ID, Options{})
	require.NoError(t, err)

	require.Len(t, tickets.created, 6)
	assert.NotEqual(t, tickets.created[0].RunID, tickets.created[3].RunID)
	assert.Zero(t, projects.updateCalls, "already building, no status change")
}
