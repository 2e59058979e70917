package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/interfaces"
)

// fakeProvider scripts one outcome per attempt: an error, or a fragment
// slice to emit followed by success.
type fakeProvider struct {
	attempts  int
	outcomes  []fakeOutcome
	embedErrs []error
	embedVec  []float32
}

type fakeOutcome struct {
	fragments []string
	err       error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) streamOnce(ctx context.Context, system, user string, temperature float32, emit func(string) bool) error {
	idx := f.attempts
	f.attempts++
	if idx >= len(f.outcomes) {
		return errors.New("unscripted attempt")
	}
	outcome := f.outcomes[idx]
	for _, fragment := range outcome.fragments {
		if !emit(fragment) {
			return errStreamStopped
		}
	}
	return outcome.err
}

func (f *fakeProvider) embedOnce(ctx context.Context, text string) ([]float32, error) {
	idx := f.attempts
	f.attempts++
	if idx < len(f.embedErrs) && f.embedErrs[idx] != nil {
		return nil, f.embedErrs[idx]
	}
	return f.embedVec, nil
}

func (f *fakeProvider) healthCheck(ctx context.Context) error { return nil }
func (f *fakeProvider) close() error                          { return nil }

func newTestClient(provider *fakeProvider, maxAttempts int) *Client {
	return &Client{
		completion: provider,
		embedder:   provider,
		retry: &RetryConfig{
			MaxAttempts:    maxAttempts,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
		},
		online: func() bool { return true },
		logger: arbor.NewLogger(),
	}
}

func collect(seq func(yield func(string, error) bool)) (string, error) {
	var text string
	var firstErr error
	seq(func(fragment string, err error) bool {
		if errors.Is(err, interfaces.ErrStreamRestarted) {
			text = ""
			return true
		}
		if err != nil {
			firstErr = err
			return false
		}
		text += fragment
		return true
	})
	return text, firstErr
}

func TestStreamCompletionSuccess(t *testing.T) {
	provider := &fakeProvider{outcomes: []fakeOutcome{
		{fragments: []string{"Hello", " ", "world"}},
	}}
	client := newTestClient(provider, 3)

	text, err := collect(client.StreamCompletion(context.Background(), "system", "user", 0.7))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, 1, provider.attempts)
}

func TestStreamCompletionRetriesTransientThenSucceeds(t *testing.T) {
	provider := &fakeProvider{outcomes: []fakeOutcome{
		{fragments: []string{"partial"}, err: errors.New("connection reset")},
		{fragments: []string{"full response"}},
	}}
	client := newTestClient(provider, 3)

	var accumulated string
	var restarts int
	var streamErr error
	client.StreamCompletion(context.Background(), "s", "u", 0.7)(func(fragment string, err error) bool {
		if errors.Is(err, interfaces.ErrStreamRestarted) {
			// Fragments from the failed attempt are not revoked; the restart
			// notice tells us to start accumulating from scratch
			accumulated = ""
			restarts++
			return true
		}
		if err != nil {
			streamErr = err
			return false
		}
		accumulated += fragment
		return true
	})

	require.NoError(t, streamErr)
	assert.Equal(t, 1, restarts)
	assert.Equal(t, "full response", accumulated)
	assert.Equal(t, 2, provider.attempts)
}

func TestStreamCompletionExhaustsAttemptBudget(t *testing.T) {
	provider := &fakeProvider{outcomes: []fakeOutcome{
		{err: errors.New("429 rate limit")},
		{err: errors.New("429 rate limit")},
		{err: errors.New("429 rate limit")},
	}}
	client := newTestClient(provider, 3)

	_, err := collect(client.StreamCompletion(context.Background(), "s", "u", 0.7))
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrServiceUnavailable)
	// Exactly the attempt budget, no more
	assert.Equal(t, 3, provider.attempts)
}

func TestStreamCompletionNonTransientFailsImmediately(t *testing.T) {
	provider := &fakeProvider{outcomes: []fakeOutcome{
		{err: errors.New("invalid_request: model not found")},
	}}
	client := newTestClient(provider, 5)

	_, err := collect(client.StreamCompletion(context.Background(), "s", "u", 0.7))
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrGenerationFailed)
	assert.Equal(t, 1, provider.attempts)
}

func TestStreamCompletionOffline(t *testing.T) {
	provider := &fakeProvider{outcomes: []fakeOutcome{
		{fragments: []string{"should not run"}},
	}}
	client := newTestClient(provider, 3)
	client.online = func() bool { return false }

	_, err := collect(client.StreamCompletion(context.Background(), "s", "u", 0.7))
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrNetworkUnavailable)
	assert.Equal(t, 0, provider.attempts)
}

func TestStreamCompletionConsumerStops(t *testing.T) {
	provider := &fakeProvider{outcomes: []fakeOutcome{
		{fragments: []string{"one", "two", "three"}},
	}}
	client := newTestClient(provider, 3)

	var got []string
	client.StreamCompletion(context.Background(), "s", "u", 0.7)(func(fragment string, err error) bool {
		require.NoError(t, err)
		got = append(got, fragment)
		return len(got) < 2
	})

	// Stopping is a clean cancel, never a retry
	assert.Equal(t, []string{"one", "two"}, got)
	assert.Equal(t, 1, provider.attempts)
}

func TestEmbedRetriesThenSucceeds(t *testing.T) {
	provider := &fakeProvider{
		embedErrs: []error{errors.New("timeout"), nil},
		embedVec:  []float32{0.1, 0.2},
	}
	client := newTestClient(provider, 3)

	vec, err := client.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
	assert.Equal(t, 2, provider.attempts)
}

func TestEmbedExhaustsAttemptBudget(t *testing.T) {
	provider := &fakeProvider{
		embedErrs: []error{
			errors.New("RESOURCE_EXHAUSTED"),
			errors.New("RESOURCE_EXHAUSTED"),
		},
	}
	client := newTestClient(provider, 2)

	_, err := client.Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrServiceUnavailable)
	assert.Equal(t, 2, provider.attempts)
}

func TestEmbedEmptyText(t *testing.T) {
	client := newTestClient(&fakeProvider{}, 3)
	_, err := client.Embed(context.Background(), "")
	assert.ErrorIs(t, err, interfaces.ErrGenerationFailed)
}
