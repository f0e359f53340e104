package models

import (
	"time"

	"github.com/google/uuid"
)

// Brain is the single per-project aggregate holding all agent-produced
// structured output. Each field is owned by exactly one agent, which
// overwrites it wholesale on every run; no field has two writers.
type Brain struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`

	// PainPoints is owned by SignalScanner.
	PainPoints *SignalReport `json:"pain_points,omitempty"`

	// ValidationData is owned by LaunchTest.
	ValidationData *ValidationData `json:"validation_data,omitempty"`

	// TechStack is owned by BuildPlanner.
	TechStack *TechStack `json:"tech_stack,omitempty"`

	// GTMStrategy is owned by DistributionKit.
	GTMStrategy *GTMStrategy `json:"gtm_strategy,omitempty"`

	// Insights holds founder-strategy notes; owned by no agent today,
	// written only through manual edits.
	Insights map[string]any `json:"insights,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PainPoint is one discovered, scored market pain.
type PainPoint struct {
	Text     string  `json:"text"`
	Source   string  `json:"source,omitempty"`
	Score    float64 `json:"score"`    // urgency, 0-100
	Category string  `json:"category,omitempty"`
}

// SignalReport is SignalScanner's output: a ranked pain-point list plus an
// overall recommendation.
type SignalReport struct {
	PainPoints     []PainPoint `json:"pain_points"`
	OverallScore   float64     `json:"overall_score"` // 0-1
	Recommendation string      `json:"recommendation"`
}

// LandingPage is the renderable landing-page configuration.
type LandingPage struct {
	Headline    string   `json:"headline"`
	Subheadline string   `json:"subheadline"`
	CTA         string   `json:"cta"`
	Sections    []string `json:"sections"`
	Theme       string   `json:"theme"`
}

// Deployment records where a generated landing page was published.
type Deployment struct {
	Slug       string    `json:"slug"`
	URL        string    `json:"url"`
	DeployedAt time.Time `json:"deployed_at"`
}

// ValidationData is LaunchTest's output.
type ValidationData struct {
	LandingPage LandingPage `json:"landing_page"`
	Deployment  *Deployment `json:"deployment,omitempty"`
}

// TechStack is BuildPlanner's output: an architecture description and the
// feature list the build tickets were derived from.
type TechStack struct {
	DiagramDOT string            `json:"diagram_dot"`
	Features   []string          `json:"features"`
	Stack      map[string]string `json:"stack"` // category -> choice
}

// ChannelAsset is one channel-specific distribution content block.
type ChannelAsset struct {
	Channel string `json:"channel"`
	Content string `json:"content"`
}

// ChannelRecommendation pairs a channel with the reasoning behind it.
type ChannelRecommendation struct {
	Channel   string `json:"channel"`
	Rationale string `json:"rationale"`
}

// GTMStrategy is DistributionKit's output.
type GTMStrategy struct {
	Assets      []ChannelAsset          `json:"assets"`
	Recommended []ChannelRecommendation `json:"recommended"`
}
