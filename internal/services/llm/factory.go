package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/common"
	"github.com/ideaforge/ideaforge/internal/interfaces"
)

// NewCompletionService creates the completion service for the configured
// provider. Gemini is always initialized when its key is present because it
// owns embeddings; the default_provider setting only selects who handles
// completions.
func NewCompletionService(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (interfaces.CompletionService, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = common.LLMProviderClaude
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing completion service")

	var gemini *geminiProvider
	if cfg.Gemini.APIKey != "" {
		g, err := newGeminiProvider(ctx, &cfg.Gemini, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		gemini = g
	}

	client := &Client{
		retry:  NewRetryConfig(&cfg.LLM),
		online: networkAvailable,
		logger: logger,
	}
	if gemini != nil {
		client.embedder = gemini
	}

	switch provider {
	case common.LLMProviderClaude:
		claude, err := newClaudeProvider(&cfg.Claude, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Claude provider: %w", err)
		}
		client.completion = claude

	case common.LLMProviderGemini:
		if gemini == nil {
			return nil, fmt.Errorf("Gemini provider selected but no API key configured")
		}
		client.completion = gemini

	default:
		return nil, fmt.Errorf("unsupported provider '%s': must be 'gemini' or 'claude'", provider)
	}

	return client, nil
}
