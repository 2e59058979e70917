package interfaces

import (
	"context"
	"iter"
)

// CompletionService defines the interface for language model operations:
// embedding generation and streaming chat completions. Implementations wrap
// cloud providers (Anthropic Claude, Google Gemini) and own all retry and
// backoff behaviour, so callers never retry themselves.
type CompletionService interface {
	// Embed generates an embedding vector for the given text using the
	// configured embedding model. Transient failures are retried internally
	// with exponential backoff; once the attempt budget is exhausted the
	// error wraps ErrServiceUnavailable.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - text: Input text to generate embedding for
	//
	// Returns:
	//   - []float32: embedding vector of the configured dimension
	//   - error: nil on success, error with details on failure
	Embed(ctx context.Context, text string) ([]float32, error)

	// StreamCompletion opens a streaming chat completion and returns a lazy,
	// ordered sequence of text fragments in generation order. The sequence is
	// single-use and not restartable by the caller; stopping iteration early
	// cancels the stream.
	//
	// If the host is offline the first iteration yields an error wrapping
	// ErrNetworkUnavailable without attempting the call. Failures classified
	// as transient restart the whole stream from the beginning: fragments
	// already yielded are not revoked, so an error wrapping
	// ErrStreamRestarted is yielded before the restart and consumers must
	// discard partial accumulation and continue pulling. After the attempt
	// budget the yielded error wraps ErrServiceUnavailable. Non-transient
	// failures yield an error wrapping ErrGenerationFailed immediately.
	StreamCompletion(ctx context.Context, systemPrompt, userPrompt string, temperature float32) iter.Seq2[string, error]

	// HealthCheck verifies the service is operational and can handle
	// requests. For cloud providers this performs lightweight connectivity
	// probes against the configured models.
	HealthCheck(ctx context.Context) error

	// Close releases resources and performs cleanup operations.
	Close() error
}
