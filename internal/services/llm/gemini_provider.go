package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ideaforge/ideaforge/internal/common"
)

// geminiProvider implements completionProvider and embeddingProvider using
// the Google Gemini API. It is always constructed when a Gemini key is
// available because it owns embedding generation even when Claude handles
// completions.
type geminiProvider struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// newGeminiProvider creates a Gemini provider
func newGeminiProvider(ctx context.Context, config *common.GeminiConfig, logger arbor.ILogger) (*geminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	if config.EmbedModel == "" {
		config.EmbedModel = "gemini-embedding-001"
	}
	if config.EmbedDimension <= 0 {
		config.EmbedDimension = 768
	}

	timeout, err := parseTimeout(config.Timeout)
	if err != nil {
		return nil, err
	}

	// 15 RPM on the free tier
	interval := parseRateLimit(config.RateLimit, 4*time.Second)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	provider := &geminiProvider{
		config:  config,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		timeout: timeout,
	}

	logger.Debug().
		Str("model", config.Model).
		Str("embed_model", config.EmbedModel).
		Int("embed_dimension", config.EmbedDimension).
		Dur("timeout", timeout).
		Dur("rate_limit", interval).
		Msg("Gemini provider initialized")

	return provider, nil
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

// streamOnce opens one streaming completion and emits response chunks as
// they arrive
func (p *geminiProvider) streamOnce(ctx context.Context, systemPrompt, userPrompt string, temperature float32, emit func(string) bool) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, genai.RoleUser),
	}

	for resp, err := range p.client.Models.GenerateContentStream(timeoutCtx, p.config.Model, contents, config) {
		if err != nil {
			return fmt.Errorf("Gemini streaming failed: %w", err)
		}
		text := resp.Text()
		if text == "" {
			continue
		}
		if !emit(text) {
			return errStreamStopped
		}
	}

	return nil
}

// embedOnce generates one embedding vector with the configured output
// dimensionality
func (p *geminiProvider) embedOnce(ctx context.Context, text string) ([]float32, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	outputDim := int32(p.config.EmbedDimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := p.client.Models.EmbedContent(timeoutCtx, p.config.EmbedModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}
	if embedding == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}

	if len(embedding) != p.config.EmbedDimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", p.config.EmbedDimension, len(embedding))
	}

	return embedding, nil
}

// healthCheck probes the embedding model, the cheapest Gemini call
func (p *geminiProvider) healthCheck(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := p.embedOnce(probeCtx, "ping"); err != nil {
		return fmt.Errorf("Gemini probe failed: %w", err)
	}
	return nil
}

func (p *geminiProvider) close() error {
	p.logger.Debug().Msg("Closing Gemini provider")
	// genai.Client doesn't require explicit cleanup
	p.client = nil
	return nil
}
