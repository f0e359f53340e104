package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/llm"
	"github.com/found3r/found3r-engine/pkg/prompts"
)

// llmSignalSource asks the gateway to surface raw complaints for a niche.
// It stands in for a scraping backend; the provider hint shapes which
// community the gateway draws from.
type llmSignalSource struct {
	client      llm.Client
	temperature float64
	limit       int
	logger      *zap.Logger
}

// NewLLMSignalSource creates the default SignalSource. limit bounds how many
// raw signals one collection returns.
func NewLLMSignalSource(client llm.Client, temperature float64, limit int, logger *zap.Logger) SignalSource {
	return &llmSignalSource{
		client:      client,
		temperature: temperature,
		limit:       limit,
		logger:      logger.Named("signal_source"),
	}
}

var _ SignalSource = (*llmSignalSource)(nil)

type signalSourceResponse struct {
	Signals []string `json:"signals"`
}

// Collect implements SignalSource.
func (s *llmSignalSource) Collect(ctx context.Context, niche, provider string) ([]string, error) {
	prompt := prompts.BuildSignalSourcePrompt(niche, provider, s.limit)

	response, err := s.client.Complete(ctx, prompts.SignalSourceSystem, prompt, s.temperature)
	if err != nil {
		return nil, err
	}

	parsed, err := llm.ParseJSONResponse[signalSourceResponse](response)
	if err != nil {
		return nil, err
	}

	signals := parsed.Signals
	if len(signals) > s.limit {
		signals = signals[:s.limit]
	}

	s.logger.Debug("Collected raw signals",
		zap.String("niche", niche),
		zap.String("provider", provider),
		zap.Int("count", len(signals)))

	return signals, nil
}
