package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/found3r/found3r-engine/pkg/llm"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/prompts"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// PageDeployer publishes a landing page configuration and returns where it
// lives. Rendering and hosting are external collaborators.
type PageDeployer interface {
	Deploy(ctx context.Context, projectID uuid.UUID, slug string, page models.LandingPage) (url string, err error)
}

// LaunchTest generates a waitlist landing page and optionally deploys it.
// It owns the brain's validation_data field; the first successful run moves
// a scoping project to validating.
type LaunchTest struct {
	deps     *Deps
	deployer PageDeployer
}

// NewLaunchTest creates the LaunchTest agent. deployer may be nil, in which
// case deploy requests are skipped.
func NewLaunchTest(deps *Deps, deployer PageDeployer) *LaunchTest {
	return &LaunchTest{deps: deps, deployer: deployer}
}

// Name implements Agent.
func (a *LaunchTest) Name() Name { return LaunchTestName }

// Run implements Agent.
func (a *LaunchTest) Run(ctx context.Context, userID, projectID uuid.UUID, opts Options) (string, error) {
	d := a.deps

	project, err := d.loadOwnedProject(ctx, userID, projectID)
	if err != nil {
		return "", err
	}

	brain, err := d.Brains.GetByProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	prompt := prompts.BuildLaunchTestPrompt(
		prompts.ProjectContext{Name: project.Name, Niche: project.Niche},
		topPainPoints(brain, 5),
	)

	response, err := d.LLM.Complete(ctx, prompts.LaunchTestSystem, prompt, d.Temperature)
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	page, err := llm.ParseJSONResponse[models.LandingPage](response)
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), &ParseError{Agent: a.Name(), Cause: err})
	}
	if page.Headline == "" {
		return "", d.failRun(ctx, projectID, a.Name(),
			&ParseError{Agent: a.Name(), Cause: fmt.Errorf("missing headline")})
	}

	data := &models.ValidationData{LandingPage: page}

	if opts.Deploy && a.deployer != nil {
		slug := pageSlug(project.Name)
		if slug == "" {
			// A punctuation-only name slugs to nothing; the ID is always
			// addressable.
			slug = project.ID.String()
		}
		url, err := a.deployer.Deploy(ctx, projectID, slug, page)
		if err != nil {
			return "", d.failRun(ctx, projectID, a.Name(), fmt.Errorf("deploy landing page: %w", err))
		}
		data.Deployment = &models.Deployment{Slug: slug, URL: url, DeployedAt: time.Now()}
	}

	if err := d.Brains.SetField(ctx, projectID, repositories.FieldValidationData, data); err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	if err := d.advanceStatus(ctx, project, models.StatusValidating); err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	summary := fmt.Sprintf("LaunchTest generated landing page %q", page.Headline)
	if data.Deployment != nil {
		summary += " and deployed it to " + data.Deployment.URL
	}
	d.logActivity(ctx, projectID, a.Name(), summary, false)

	return summary, nil
}

// topPainPoints extracts up to n pain-point texts from the brain, best
// first. Returns nil when SignalScanner has not run yet.
func topPainPoints(brain *models.Brain, n int) []string {
	if brain == nil || brain.PainPoints == nil {
		return nil
	}
	points := brain.PainPoints.PainPoints
	if len(points) > n {
		points = points[:n]
	}
	texts := make([]string, 0, len(points))
	for _, p := range points {
		texts = append(texts, p.Text)
	}
	return texts
}

// pageSlug derives a URL-safe slug from a project name.
func pageSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
