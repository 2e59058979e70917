package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/ideaforge/ideaforge/internal/common"
)

// RetryConfig defines retry behavior shared by all providers. The attempt
// budget counts every call including the first; backoff doubles per retry up
// to the cap.
type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Default retry constants, tuned for interactive use: short initial backoff
// so transient blips recover quickly, capped so a stuck service fails within
// a minute.
const (
	DefaultMaxAttempts    = 5
	DefaultInitialBackoff = 1 * time.Second
	DefaultMaxBackoff     = 10 * time.Second
)

// NewRetryConfig builds a RetryConfig from the application configuration,
// falling back to defaults for unset or unparseable values.
func NewRetryConfig(cfg *common.LLMConfig) *RetryConfig {
	rc := &RetryConfig{
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
	}
	if rc.MaxAttempts <= 0 {
		rc.MaxAttempts = DefaultMaxAttempts
	}
	if d, err := time.ParseDuration(cfg.InitialBackoff); err == nil && d > 0 {
		rc.InitialBackoff = d
	}
	if d, err := time.ParseDuration(cfg.MaxBackoff); err == nil && d > 0 {
		rc.MaxBackoff = d
	}
	return rc
}

// Backoff computes the delay before retry number retryIndex (0-based: the
// delay before the second attempt is Backoff(0)). Doubles per retry, capped
// at MaxBackoff.
func (c *RetryConfig) Backoff(retryIndex int) time.Duration {
	backoff := c.InitialBackoff
	for i := 0; i < retryIndex; i++ {
		backoff *= 2
		if backoff >= c.MaxBackoff {
			return c.MaxBackoff
		}
	}
	if backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}
	return backoff
}

// transientMarkers are substrings identifying provider failures worth
// retrying. Matches rate limits (429, RESOURCE_EXHAUSTED, quota), network
// interruptions, and provider-side internal errors.
var transientMarkers = []string{
	"network",
	"timeout",
	"timed out",
	"connection",
	"rate limit",
	"rate_limit",
	"internal_error",
	"overloaded",
	"429",
	"500",
	"502",
	"503",
	"resource_exhausted",
	"quota",
	"unavailable",
}

// IsTransientError checks whether an error is worth retrying. Classification
// is by error text: provider SDKs surface HTTP status and grpc codes in the
// message, and wrapping preserves them.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}

// parseRateLimit converts a duration string like "4s" into a request
// interval, defaulting when unset or invalid.
func parseRateLimit(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// parseTimeout parses an operation timeout from configuration.
func parseTimeout(value string) (time.Duration, error) {
	if value == "" {
		return 5 * time.Minute, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout duration '%s': %w", value, err)
	}
	return d, nil
}
