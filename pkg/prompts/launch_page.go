package prompts

import (
	"fmt"
	"strings"
)

// LaunchTestSystem frames the LaunchTest role.
const LaunchTestSystem = `You are LaunchTest, a conversion copywriter. You turn a validated pain point
into landing page copy that makes visitors join a waitlist. You respond with
JSON only, no prose.`

// BuildLaunchTestPrompt creates the landing-page generation prompt.
// painPoints are the top discovered pains, best first; may be empty when
// LaunchTest runs before SignalScanner.
func BuildLaunchTestPrompt(project ProjectContext, painPoints []string) string {
	var b strings.Builder

	b.WriteString("# Landing Page Generation\n\n")
	fmt.Fprintf(&b, "Project: %s\nNiche: %s\n\n", project.Name, project.Niche)

	if len(painPoints) > 0 {
		b.WriteString("## Pain points to speak to (strongest first)\n\n")
		for i, p := range painPoints {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
		b.WriteString("\n")
	}

	b.WriteString(`Write a landing page configuration for a waitlist test.

Respond with JSON in exactly this shape:
{
  "headline": "...",
  "subheadline": "...",
  "cta": "...",
  "sections": ["...", "..."],
  "theme": "one of: minimal, bold, playful"
}
`)

	return b.String()
}
