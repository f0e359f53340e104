// Package llm provides the text-completion gateway for found3r-engine agents.
// Two implementations exist: an OpenAI-compatible client and an Anthropic
// client, selected by configuration.
package llm

import "context"

// Client is the gateway interface agents depend on. A call is single-shot:
// one system prompt, one user prompt, one completion. No streaming, no
// multi-turn loop, no retry at this layer.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// Complete generates a completion for the given prompts.
	Complete(ctx context.Context, systemMessage, prompt string, temperature float64) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Ensure implementations satisfy Client at compile time.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
	_ Client = (*MockClient)(nil)
)
