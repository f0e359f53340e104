package prompts

import (
	"fmt"
	"strings"
)

// DistributionKitSystem frames the DistributionKit role.
const DistributionKitSystem = `You are DistributionKit, a growth strategist for bootstrapped launches. You
write channel-specific launch content and rank channels by expected return
for this specific audience. You respond with JSON only, no prose.`

// DistributionChannels are the channels DistributionKit generates assets for.
var DistributionChannels = []string{
	"twitter", "linkedin", "reddit", "producthunt", "cold_email",
}

// DistributionKitContext carries the aggregate fields DistributionKit consumes.
type DistributionKitContext struct {
	Project    ProjectContext
	Headline   string   // from LaunchTest, may be empty
	LandingURL string   // deployed page, may be empty
	Features   []string // from BuildPlanner, may be empty
}

// BuildDistributionKitPrompt creates the go-to-market asset prompt.
func BuildDistributionKitPrompt(ctx DistributionKitContext) string {
	var b strings.Builder

	b.WriteString("# Distribution Kit\n\n")
	fmt.Fprintf(&b, "Project: %s\nNiche: %s\n", ctx.Project.Name, ctx.Project.Niche)
	if ctx.Headline != "" {
		fmt.Fprintf(&b, "Positioning: %s\n", ctx.Headline)
	}
	if ctx.LandingURL != "" {
		fmt.Fprintf(&b, "Landing page: %s\n", ctx.LandingURL)
	}
	b.WriteString("\n")

	if len(ctx.Features) > 0 {
		b.WriteString("## What the product does\n\n")
		for _, f := range ctx.Features {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Write one ready-to-post content block for each channel: %s.\n",
		strings.Join(DistributionChannels, ", "))
	b.WriteString(`Then recommend the two or three channels most likely to work for this
audience, with a one-sentence rationale each.

Respond with JSON in exactly this shape:
{
  "assets": [{"channel": "twitter", "content": "..."}],
  "recommended": [{"channel": "reddit", "rationale": "..."}]
}
`)

	return b.String()
}
