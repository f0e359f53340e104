package prompts

import (
	"fmt"
	"strings"
)

// BuildPlannerSystem frames the BuildPlanner role.
const BuildPlannerSystem = `You are BuildPlanner, a pragmatic staff engineer. You design the smallest
architecture that ships a validated idea, and break it into build tasks an
indie founder can execute. You respond with JSON only, no prose.`

// BuildPlannerContext carries the aggregate fields BuildPlanner consumes.
type BuildPlannerContext struct {
	Project    ProjectContext
	PainPoints []string // from SignalScanner, may be empty
	Headline   string   // from LaunchTest, may be empty
}

// BuildBuildPlannerPrompt creates the architecture and ticket planning prompt.
func BuildBuildPlannerPrompt(ctx BuildPlannerContext) string {
	var b strings.Builder

	b.WriteString("# Technical Blueprint\n\n")
	fmt.Fprintf(&b, "Project: %s\nNiche: %s\n", ctx.Project.Name, ctx.Project.Niche)
	if ctx.Headline != "" {
		fmt.Fprintf(&b, "Validated promise: %s\n", ctx.Headline)
	}
	b.WriteString("\n")

	if len(ctx.PainPoints) > 0 {
		b.WriteString("## Pain points the product must solve\n\n")
		for _, p := range ctx.PainPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	b.WriteString(`Design an MVP architecture and a build plan.

Respond with JSON in exactly this shape:
{
  "diagram_dot": "digraph { ... }",
  "features": ["...", "..."],
  "stack": {"frontend": "...", "backend": "...", "database": "...", "hosting": "..."},
  "tickets": [
    {"title": "...", "description": "...", "priority": 1, "type": "build"}
  ]
}
diagram_dot must be valid Graphviz DOT source. Create exactly one ticket per
feature. priority is 1 (highest) to 5.
`)

	return b.String()
}
