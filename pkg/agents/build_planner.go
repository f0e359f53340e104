package agents

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/found3r/found3r-engine/pkg/llm"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/prompts"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// BuildPlanner turns validated context into a technical blueprint and build
// tickets. It owns the brain's tech_stack field. The tech-stack write and
// ticket creation happen in one transaction, and every ticket carries the
// run's ID so a retried plan never silently duplicates work.
type BuildPlanner struct {
	deps *Deps
}

// NewBuildPlanner creates the BuildPlanner agent.
func NewBuildPlanner(deps *Deps) *BuildPlanner {
	return &BuildPlanner{deps: deps}
}

// Name implements Agent.
func (a *BuildPlanner) Name() Name { return BuildPlannerName }

// buildPlannerResponse is the JSON shape requested from the gateway.
type buildPlannerResponse struct {
	DiagramDOT string            `json:"diagram_dot"`
	Features   []string          `json:"features"`
	Stack      map[string]string `json:"stack"`
	Tickets    []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    int    `json:"priority"`
		Type        string `json:"type"`
	} `json:"tickets"`
}

// Run implements Agent.
func (a *BuildPlanner) Run(ctx context.Context, userID, projectID uuid.UUID, opts Options) (string, error) {
	d := a.deps

	project, err := d.loadOwnedProject(ctx, userID, projectID)
	if err != nil {
		return "", err
	}

	brain, err := d.Brains.GetByProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	promptCtx := prompts.BuildPlannerContext{
		Project:    prompts.ProjectContext{Name: project.Name, Niche: project.Niche},
		PainPoints: topPainPoints(brain, 5),
	}
	if brain.ValidationData != nil {
		promptCtx.Headline = brain.ValidationData.LandingPage.Headline
	}

	response, err := d.LLM.Complete(ctx, prompts.BuildPlannerSystem, prompts.BuildBuildPlannerPrompt(promptCtx), d.Temperature)
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	parsed, err := llm.ParseJSONResponse[buildPlannerResponse](response)
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), &ParseError{Agent: a.Name(), Cause: err})
	}
	if parsed.DiagramDOT == "" || len(parsed.Tickets) == 0 {
		return "", d.failRun(ctx, projectID, a.Name(),
			&ParseError{Agent: a.Name(), Cause: fmt.Errorf("missing diagram or tickets")})
	}

	techStack := &models.TechStack{
		DiagramDOT: parsed.DiagramDOT,
		Features:   parsed.Features,
		Stack:      parsed.Stack,
	}

	runID := uuid.New()
	err = d.InTx(ctx, func(tx pgx.Tx) error {
		brains := d.Brains.WithTx(tx)
		tickets := d.Tickets.WithTx(tx)

		if err := brains.SetField(ctx, projectID, repositories.FieldTechStack, techStack); err != nil {
			return err
		}

		for _, t := range parsed.Tickets {
			ticket := &models.Ticket{
				ProjectID:   projectID,
				Title:       t.Title,
				Description: t.Description,
				Priority:    t.Priority,
				Type:        t.Type,
				AgentAuthor: string(BuildPlannerName),
				RunID:       runID,
			}
			if err := tickets.Create(ctx, ticket); err != nil {
				return fmt.Errorf("create ticket %q: %w", t.Title, err)
			}
		}

		return nil
	})
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	if err := d.advanceStatus(ctx, project, models.StatusBuilding); err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	summary := fmt.Sprintf("BuildPlanner produced a blueprint with %d features and %d tickets",
		len(parsed.Features), len(parsed.Tickets))
	d.logActivity(ctx, projectID, a.Name(), summary, false)

	return summary, nil
}
