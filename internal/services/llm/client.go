package llm

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/interfaces"
)

// Client implements interfaces.CompletionService. It owns all retry and
// backoff behaviour on top of single-shot providers: streaming completions
// restart from scratch on transient failure, embeddings retry the call.
type Client struct {
	completion completionProvider
	embedder   embeddingProvider
	retry      *RetryConfig
	online     func() bool
	logger     arbor.ILogger
}

// Embed generates an embedding vector for the given text, retrying transient
// failures with exponential backoff.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty for embedding generation", interfaces.ErrGenerationFailed)
	}
	if c.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", interfaces.ErrGenerationFailed)
	}

	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.waitBackoff(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		embedding, err := c.embedder.embedOnce(ctx, text)
		if err == nil {
			return embedding, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !IsTransientError(err) {
			return nil, fmt.Errorf("%w: %v", interfaces.ErrGenerationFailed, err)
		}

		c.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", c.retry.MaxAttempts).
			Msg("Embedding attempt failed, will retry")
	}

	return nil, fmt.Errorf("%w: %v", interfaces.ErrServiceUnavailable, lastErr)
}

// StreamCompletion opens a streaming completion and returns its fragments as
// a lazy sequence. Transient failures restart the whole stream; fragments
// already yielded are not revoked, so consumers reset partial accumulation
// when an error arrives.
func (c *Client) StreamCompletion(ctx context.Context, systemPrompt, userPrompt string, temperature float32) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !c.online() {
			yield("", fmt.Errorf("%w: check your connection and try again", interfaces.ErrNetworkUnavailable))
			return
		}

		start := time.Now()
		var lastErr error

		for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
			if attempt > 0 {
				if err := c.waitBackoff(ctx, attempt-1); err != nil {
					yield("", err)
					return
				}
			}

			stopped := false
			err := c.completion.streamOnce(ctx, systemPrompt, userPrompt, temperature, func(fragment string) bool {
				if !yield(fragment, nil) {
					stopped = true
					return false
				}
				return true
			})

			if stopped || err == errStreamStopped {
				// Consumer halted; not a failure
				return
			}
			if err == nil {
				c.logger.Debug().
					Str("provider", c.completion.Name()).
					Int("attempts", attempt+1).
					Dur("duration", time.Since(start)).
					Msg("Streaming completion finished")
				return
			}
			lastErr = err

			if ctx.Err() != nil {
				yield("", ctx.Err())
				return
			}
			if !IsTransientError(err) {
				c.logger.Error().Err(err).Str("provider", c.completion.Name()).Msg("Streaming completion failed")
				yield("", fmt.Errorf("%w: %v", interfaces.ErrGenerationFailed, err))
				return
			}

			c.logger.Warn().
				Err(err).
				Str("provider", c.completion.Name()).
				Int("attempt", attempt+1).
				Int("max_attempts", c.retry.MaxAttempts).
				Msg("Streaming attempt failed, restarting stream")

			// Tell the consumer to discard partial accumulation before the
			// restarted stream begins
			if attempt+1 < c.retry.MaxAttempts {
				if !yield("", fmt.Errorf("%w: %v", interfaces.ErrStreamRestarted, err)) {
					return
				}
			}
		}

		yield("", fmt.Errorf("%w: %v", interfaces.ErrServiceUnavailable, lastErr))
	}
}

// HealthCheck probes the active completion provider
func (c *Client) HealthCheck(ctx context.Context) error {
	c.logger.Debug().Str("provider", c.completion.Name()).Msg("Running completion service health check")
	if err := c.completion.healthCheck(ctx); err != nil {
		return err
	}
	c.logger.Debug().Str("provider", c.completion.Name()).Msg("Completion service health check passed")
	return nil
}

// Close releases provider resources
func (c *Client) Close() error {
	return c.completion.close()
}

// waitBackoff sleeps for the computed backoff or returns early on context
// cancellation
func (c *Client) waitBackoff(ctx context.Context, retryIndex int) error {
	backoff := c.retry.Backoff(retryIndex)
	c.logger.Debug().Dur("backoff", backoff).Msg("Waiting before retry")

	timer := time.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
