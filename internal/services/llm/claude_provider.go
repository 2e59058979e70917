package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ideaforge/ideaforge/internal/common"
)

// claudeProvider implements completionProvider using the Anthropic Claude
// API. Claude has no embedding endpoint, so embeddings always route to
// Gemini regardless of the completion provider.
type claudeProvider struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    anthropic.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	maxTokens int
}

// newClaudeProvider creates a Claude completion provider
func newClaudeProvider(config *common.ClaudeConfig, logger arbor.ILogger) (*claudeProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "claude-sonnet-4-20250514"
	}

	timeout, err := parseTimeout(config.Timeout)
	if err != nil {
		return nil, err
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}

	interval := parseRateLimit(config.RateLimit, time.Second)

	provider := &claudeProvider{
		config:    config,
		logger:    logger,
		client:    anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Dur("rate_limit", interval).
		Int("max_tokens", maxTokens).
		Msg("Claude provider initialized")

	return provider, nil
}

func (p *claudeProvider) Name() string {
	return "claude"
}

// streamOnce opens one streaming message and emits text deltas as they
// arrive
func (p *claudeProvider) streamOnce(ctx context.Context, systemPrompt, userPrompt string, temperature float32, emit func(string) bool) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(float64(temperature))
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	stream := p.client.Messages.NewStreaming(timeoutCtx, params)
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if deltaVariant.Text == "" {
					continue
				}
				if !emit(deltaVariant.Text) {
					return errStreamStopped
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("Claude streaming failed: %w", err)
	}

	return nil
}

// healthCheck exercises the Claude API with a minimal probe
func (p *claudeProvider) healthCheck(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := p.client.Messages.New(probeCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Claude probe failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return fmt.Errorf("Claude probe returned empty response")
	}

	return nil
}

func (p *claudeProvider) close() error {
	p.logger.Debug().Msg("Closing Claude provider")
	// Claude client doesn't require explicit cleanup
	return nil
}
