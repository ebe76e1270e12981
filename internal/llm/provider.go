package llm

import (
	"context"
	"fmt"

	"weekly-meal-planner/internal/config"
)

// NewFromConfig builds the configured provider wrapped in the rate limiter.
// The returned close function releases the provider's network client.
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, func() error, error) {
	noop := func() error { return nil }

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		gemini, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return NewRateLimited(gemini, cfg.LLMRequestsPerMinute), gemini.Close, nil
	case config.ProviderGroq:
		return NewRateLimited(NewGroqClient(cfg), cfg.LLMRequestsPerMinute), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}
