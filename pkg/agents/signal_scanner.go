package agents

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/llm"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/prompts"
	"github.com/found3r/found3r-engine/pkg/repositories"
)

// SignalSource supplies raw candidate pain-point texts for a niche. The
// default implementation asks the gateway itself; a scraping or search
// backed implementation can be swapped in per provider hint.
type SignalSource interface {
	Collect(ctx context.Context, niche, provider string) ([]string, error)
}

// SignalScanner discovers and scores market pain points. It owns the
// brain's pain_points field.
type SignalScanner struct {
	deps   *Deps
	source SignalSource
}

// NewSignalScanner creates the SignalScanner agent. source may be nil, in
// which case discovery runs on project context alone.
func NewSignalScanner(deps *Deps, source SignalSource) *SignalScanner {
	return &SignalScanner{deps: deps, source: source}
}

// Name implements Agent.
func (a *SignalScanner) Name() Name { return SignalScannerName }

// signalScannerResponse is the JSON shape requested from the gateway.
type signalScannerResponse struct {
	PainPoints []struct {
		Text     string `json:"text"`
		Source   string `json:"source"`
		Score    any    `json:"score"`
		Category string `json:"category"`
	} `json:"pain_points"`
	OverallScore   any    `json:"overall_score"`
	Recommendation string `json:"recommendation"`
}

// Run implements Agent.
func (a *SignalScanner) Run(ctx context.Context, userID, projectID uuid.UUID, opts Options) (string, error) {
	d := a.deps

	project, err := d.loadOwnedProject(ctx, userID, projectID)
	if err != nil {
		return "", err
	}

	var rawSignals []string
	if a.source != nil {
		rawSignals, err = a.source.Collect(ctx, project.Niche, opts.Provider)
		if err != nil {
			// Signal collection is best-effort; discovery still works from
			// project context alone.
			d.Logger.Warn("Signal source failed, continuing without raw signals",
				zap.String("project_id", projectID.String()),
				zap.Error(err))
			rawSignals = nil
		}
	}

	prompt := prompts.BuildSignalScannerPrompt(
		prompts.ProjectContext{Name: project.Name, Niche: project.Niche},
		rawSignals,
		d.Config.PainPointCap,
	)

	response, err := d.LLM.Complete(ctx, prompts.SignalScannerSystem, prompt, d.Temperature)
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	parsed, err := llm.ParseJSONResponse[signalScannerResponse](response)
	if err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), &ParseError{Agent: a.Name(), Cause: err})
	}

	report := a.buildReport(parsed)

	if err := d.Brains.SetField(ctx, projectID, repositories.FieldPainPoints, report); err != nil {
		return "", d.failRun(ctx, projectID, a.Name(), err)
	}

	summary := fmt.Sprintf("SignalScanner found %d pain points (overall %.2f)",
		len(report.PainPoints), report.OverallScore)
	d.logActivity(ctx, projectID, a.Name(), summary, false)

	return summary, nil
}

// buildReport normalizes the raw response: scores are clamped to [0,100]
// with a neutral 50 for anything unparseable, the list is ranked by score
// and capped.
func (a *SignalScanner) buildReport(parsed signalScannerResponse) *models.SignalReport {
	points := make([]models.PainPoint, 0, len(parsed.PainPoints))
	for _, p := range parsed.PainPoints {
		if p.Text == "" {
			continue
		}
		points = append(points, models.PainPoint{
			Text:     p.Text,
			Source:   p.Source,
			Score:    normalizeScore(p.Score, 0, 100, 50),
			Category: p.Category,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Score > points[j].Score
	})

	if limit := a.deps.Config.PainPointCap; limit > 0 && len(points) > limit {
		points = points[:limit]
	}

	return &models.SignalReport{
		PainPoints:     points,
		OverallScore:   normalizeScore(parsed.OverallScore, 0, 1, llm.NeutralScore),
		Recommendation: parsed.Recommendation,
	}
}

// normalizeScore coerces a loosely-typed JSON score into [lo, hi], falling
// back to neutral for missing or non-numeric values.
func normalizeScore(v any, lo, hi, neutral float64) float64 {
	switch n := v.(type) {
	case float64:
		return llm.ClampScore(n, lo, hi)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return neutral
		}
		return llm.ClampScore(f, lo, hi)
	default:
		return neutral
	}
}
