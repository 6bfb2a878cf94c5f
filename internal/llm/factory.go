package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/store"
)

// NewProvider builds the configured adapter and layers the decorators on
// top of it: retry (only when MaxAttempts > 1) around logging around the
// adapter, so each attempt is logged on its own. A missing key yields an
// error wrapping ErrNotConfigured.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *logging.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := newAdapter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, events, logger)
	if cfg.Retry.MaxAttempts > 1 {
		p = WithRetry(p, cfg.Retry)
	}
	return p, nil
}

func newAdapter(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
}

// resolveModel maps a short alias to a full model ID; anything else is
// taken as a model ID already.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
