package llm

import (
	"context"
	"errors"
)

// errStreamStopped signals that the fragment consumer halted iteration. It
// never escapes the client; providers return it so the retry loop can tell a
// clean stop from a failure.
var errStreamStopped = errors.New("stream consumer stopped")

// completionProvider is a single-shot streaming backend. streamOnce makes
// exactly one API call and pushes fragments through emit in generation
// order; it returns errStreamStopped when emit returns false. Retry policy
// lives in Client, not here.
type completionProvider interface {
	// Name returns the provider identifier for logging
	Name() string

	// streamOnce opens one streaming completion and emits text fragments.
	// Returns nil when the stream completed, errStreamStopped when the
	// consumer halted, or the provider error otherwise.
	streamOnce(ctx context.Context, systemPrompt, userPrompt string, temperature float32, emit func(fragment string) bool) error

	// healthCheck performs a lightweight connectivity probe
	healthCheck(ctx context.Context) error

	// close releases provider resources
	close() error
}

// embeddingProvider is a single-shot embedding backend.
type embeddingProvider interface {
	// embedOnce generates one embedding vector for the text
	embedOnce(ctx context.Context, text string) ([]float32, error)
}
