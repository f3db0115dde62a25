package dto

import (
	"context"
	"errors"
)

// Domain error taxonomy. Components wrap these with fmt.Errorf("%w") so the
// delivery layer can map them to HTTP statuses with errors.Is.
var (
	// ErrDataUnavailable means the ticker is unknown or the upstream returned
	// empty/malformed data. Not retried.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrUpstreamRateLimited means the external data source throttled us.
	ErrUpstreamRateLimited = errors.New("upstream rate limited")

	// ErrInsufficientHistory means the price series is too short to train on.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrNoArticlesFound means no recent headlines exist for the ticker.
	ErrNoArticlesFound = errors.New("no articles found")

	// ErrModelUnavailable means the text or sequence model backend is
	// unreachable or returned an unusable response.
	ErrModelUnavailable = errors.New("model unavailable")
)

// IsRetryable reports whether an error is transient and worth another
// attempt. Shared predicate for the retry policies of the price store,
// sentiment engine and orchestrator.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, ErrDataUnavailable),
		errors.Is(err, ErrInsufficientHistory),
		errors.Is(err, ErrNoArticlesFound):
		return false
	case errors.Is(err, ErrUpstreamRateLimited),
		errors.Is(err, ErrModelUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		// Unknown errors are assumed transient (network hiccups and such).
		return true
	}
}
