package prompts

import (
	"fmt"
	"strings"
)

// CopilotSystem frames the Copilot role.
const CopilotSystem = `You are Copilot, a founder's strategic advisor inside Found3r. You know the
project's current state and history and give direct, specific advice. Keep
answers short and concrete. Plain text, no JSON.`

// CopilotTurn is one prior conversation message for context.
type CopilotTurn struct {
	Role    string
	Message string
}

// CopilotContext carries everything Copilot sees for one turn.
type CopilotContext struct {
	Project       ProjectContext
	Status        string
	BrainSummary  string        // compact rendering of the aggregate
	RecentLog     []string      // recent activity messages, oldest first
	History       []CopilotTurn // prior chat turns, oldest first
	UserMessage   string
}

// BuildCopilotPrompt creates the chat turn prompt.
func BuildCopilotPrompt(ctx CopilotContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Project: %s (niche: %s, stage: %s)\n\n", ctx.Project.Name, ctx.Project.Niche, ctx.Status)

	if ctx.BrainSummary != "" {
		b.WriteString("## Current project state\n\n")
		b.WriteString(ctx.BrainSummary)
		b.WriteString("\n\n")
	}

	if len(ctx.RecentLog) > 0 {
		b.WriteString("## Recent activity\n\n")
		for _, line := range ctx.RecentLog {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	if len(ctx.History) > 0 {
		b.WriteString("## Conversation so far\n\n")
		for _, turn := range ctx.History {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Message)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "The founder asks: %s\n", ctx.UserMessage)

	return b.String()
}
