package perception

import (
	"context"
	"fmt"

	"advisor/internal/config"
)

// NewClientFromConfig builds the configured LLM client. Provider "none" (or
// a missing API key) returns nil: the engine treats a nil client as
// "generative fallback unavailable" and degrades accordingly.
func NewClientFromConfig(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	if cfg.Provider == "none" || cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout(),
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
