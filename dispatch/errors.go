// Public error surface of the dispatch core.
//
// Individual provider failures flow through structured results inside
// fan-out and selector fallback; only these sentinels reach callers.

package dispatch

import "errors"

var (
	// ErrInvalidRequest is returned when the request text is empty after
	// trimming.
	ErrInvalidRequest = errors.New("invalid request: empty text")

	// ErrNoProviderAvailable is returned when every provider and every
	// fallback is unavailable.
	ErrNoProviderAvailable = errors.New("no provider available")

	// ErrSynthesisFailed is returned when the final synthesis call could
	// not be completed on any provider.
	ErrSynthesisFailed = errors.New("synthesis failed")
)
