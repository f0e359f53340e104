// Package prompts builds the system and user prompts for found3r-engine
// agents. Prompt builders are pure functions over project context so they can
// be tested without a gateway.
package prompts

import (
	"fmt"
	"strings"
)

// ProjectContext is the minimal project framing shared by all agent prompts.
type ProjectContext struct {
	Name  string
	Niche string
}

// SignalSourceSystem frames the raw-signal collection role.
const SignalSourceSystem = `You are a field researcher collecting raw complaints and frustrations people
voice in online communities. You quote or closely paraphrase what real people
in the niche say. You respond with JSON only, no prose.`

// BuildSignalSourcePrompt creates the raw-signal collection prompt. provider
// hints which community to draw from (e.g. "reddit", "hackernews").
func BuildSignalSourcePrompt(niche, provider string, limit int) string {
	var b strings.Builder

	b.WriteString("# Raw Signal Collection\n\n")
	fmt.Fprintf(&b, "Niche: %s\n", niche)
	if provider != "" {
		fmt.Fprintf(&b, "Draw from discussions typical of: %s\n", provider)
	}

	fmt.Fprintf(&b, "\nCollect up to %d short, concrete complaints people in this niche voice.\n", limit)
	b.WriteString(`Each should read like something a real person posted, one or two sentences.

Respond with JSON in exactly this shape:
{
  "signals": ["...", "..."]
}
`)

	return b.String()
}

// SignalScannerSystem frames the SignalScanner role.
const SignalScannerSystem = `You are SignalScanner, a market research analyst for early-stage founders.
You identify concrete, specific pain points people experience in a niche and
score how urgent each one is. You respond with JSON only, no prose.`

// BuildSignalScannerPrompt creates the pain-point discovery prompt.
// rawSignals is optional scraped/search material; cap bounds the list size.
func BuildSignalScannerPrompt(project ProjectContext, rawSignals []string, cap int) string {
	var b strings.Builder

	b.WriteString("# Pain Point Discovery\n\n")
	fmt.Fprintf(&b, "Project: %s\nNiche: %s\n\n", project.Name, project.Niche)

	if len(rawSignals) > 0 {
		b.WriteString("## Raw signals collected from the field\n\n")
		for _, s := range rawSignals {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\nGround your analysis in these signals where possible.\n\n")
	}

	fmt.Fprintf(&b, "Identify up to %d distinct pain points in this niche.\n", cap)
	b.WriteString(`Score each from 0 to 100 by urgency (how badly people need this solved now).

Respond with JSON in exactly this shape:
{
  "pain_points": [
    {"text": "...", "source": "...", "score": 85, "category": "..."}
  ],
  "overall_score": 0.7,
  "recommendation": "one short paragraph on whether this niche is worth pursuing"
}
overall_score is 0-1.
`)

	return b.String()
}
