package interfaces

import "errors"

// Error kinds surfaced by the generation pipeline. Callers match with
// errors.Is; the wrapped message carries the user-facing detail.
var (
	// ErrNetworkUnavailable is returned when the host is detected offline
	// before a call is attempted. Never retried.
	ErrNetworkUnavailable = errors.New("no internet connection")

	// ErrServiceUnavailable is returned when a retryable failure exhausted
	// its attempt budget. The message is user-facing and distinct from the
	// underlying provider error.
	ErrServiceUnavailable = errors.New("service unavailable after retries")

	// ErrGenerationFailed is returned for non-retryable provider failures
	// (invalid request, auth failure). Surfaced immediately.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrUnsupportedDocumentType is returned when a requested document type
	// has no template in the prompt catalog.
	ErrUnsupportedDocumentType = errors.New("unsupported document type")

	// ErrPrerequisitesNotMet is returned when the completion gate rejects a
	// generation request for a locked document type. The wrapped message
	// names the missing prerequisites.
	ErrPrerequisitesNotMet = errors.New("prerequisites not met")

	// ErrPersistenceFailure is returned when a storage read or upsert fails
	// during generation. The completed set is never advanced on this error.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrGenerationInFlight is returned when a generation request arrives
	// while another one is active for the same session.
	ErrGenerationInFlight = errors.New("generation already in progress")

	// ErrStreamRestarted is yielded mid-sequence before a transient failure
	// restarts a completion stream from the beginning. Informational, not
	// terminal: consumers discard partial accumulation and keep pulling.
	ErrStreamRestarted = errors.New("stream restarted")
)
