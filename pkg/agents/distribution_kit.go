package agents

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/found3r/found3r-engine/pkg/llm"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/prompts"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// DistributionKit generates channel-specific launch assets and channel
// recommendations. It owns the brain's gtm_strategy field.
type DistributionKit struct {
	deps *Deps
}

// NewDistributionKit creates the DistributionKit agent.
func NewDistributionKit(deps *Deps) *DistributionKit {
	return &DistributionKit{deps: deps}
}

// Name implements Agent.
func (a *DistributionKit) Name() Name { return DistributionKitName }

// Run implements Agent.
func (a *DistributionKit) Run(ctx context.Context, userID, projectID uuid.UUID, opts Options) (string, error) {
	d := a.deps

	project, err := d.loadOwnedProject(ctx, userID, projectID)
	if err != nil {
		return "", err
	}

	brain, err := d.Brains.GetByProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	promptCtx := prompts.DistributionKitContext{
		Project: prompts.ProjectContext{Name: project.Name, Niche: project.Niche},
	}
	if brain.ValidationData != nil {
		promptCtx.Headline = brain.ValidationData.LandingPage.Headline
		if brain.ValidationData.Deployment != nil {
			promptCtx.LandingURL = brain.ValidationData.Deployment.URL
		}
	}
	if brain.TechStack != nil {
		promptCtx.Features = brain.TechStack.Features
	}

	response, err := d.LLM.Complete(ctx, prompts.DistributionKitSystem, prompts.BuildDistributionKitPrompt(promptCtx), d.Temperature)
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	strategy, err := llm.ParseJSONResponse[models.GTMStrategy](response)
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), &ParseError{Agent: a.Name(), Cause: err})
	}
	if len(strategy.Assets) == 0 {
		return "", d.failRun(ctx, projectID, a.Name(),
			&ParseError{Agent: a.Name(), Cause: fmt.Errorf("no channel assets in response")})
	}

	if err := d.Brains.SetField(ctx, projectID, repositories.FieldGTMStrategy, &strategy); err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	if err := d.advanceStatus(ctx, project, models.StatusLive); err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	summary := fmt.Sprintf("DistributionKit produced %d channel assets, recommending %d channels",
		len(strategy.Assets), len(strategy.Recommended))
	d.logActivity(ctx, projectID, a.Name(), summary, false)

	return summary, nil
}
