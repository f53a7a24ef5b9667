// Provider error taxonomy.
//
// Adapters translate SDK and transport failures into a small set of
// typed errors so the selector can decide between fallback and abort
// without knowing which backend produced the failure.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// AuthError indicates missing or rejected credentials. Not retryable:
// the selector excludes the provider for the rest of the request.
type AuthError struct {
	Provider string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %v", e.Provider, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError indicates a network failure or I/O timeout. Retryable
// by falling back to another provider.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RateLimitError indicates the provider throttled us. RetryAfter carries
// the provider's suggested back-off when known, zero otherwise.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// ProviderError indicates a non-success provider response that is not an
// auth, transport, or rate-limit failure.
type ProviderError struct {
	Provider string
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: provider error (status %d): %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether the selector may fall back to another
// provider after this error. Auth failures are terminal for a provider;
// everything else in the taxonomy permits fallback.
func Retryable(err error) bool {
	var auth *AuthError
	return err != nil && !errors.As(err, &auth)
}

// classifyError maps an SDK error to the provider error taxonomy.
// Unknown errors become ProviderError.
func classifyError(provider string, err error) error {
	if err == nil {
		return nil
	}

	// Already classified (e.g. probe helpers re-wrapping).
	var auth *AuthError
	var transport *TransportError
	var rate *RateLimitError
	var prov *ProviderError
	if errors.As(err, &auth) || errors.As(err, &transport) ||
		errors.As(err, &rate) || errors.As(err, &prov) {
		return err
	}

	if status, retryAfter, ok := httpStatus(err); ok {
		return classifyStatus(provider, status, retryAfter, err)
	}

	if isTransport(err) {
		return &TransportError{Provider: provider, Err: err}
	}

	return &ProviderError{Provider: provider, Err: err}
}

// httpStatus extracts the HTTP status from the SDK error types used by
// the adapters, plus any Retry-After hint.
func httpStatus(err error) (status int, retryAfter time.Duration, ok bool) {
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode, retryAfterFromResponse(anthropicErr.Response), true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, 0, true
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, 0, true
	}

	return 0, 0, false
}

func classifyStatus(provider string, status int, retryAfter time.Duration, err error) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Provider: provider, Err: err}
	case status == http.StatusTooManyRequests:
		return &RateLimitError{Provider: provider, RetryAfter: retryAfter, Err: err}
	case status >= 500:
		return &ProviderError{Provider: provider, Status: status, Err: err}
	default:
		return &ProviderError{Provider: provider, Status: status, Err: err}
	}
}

func retryAfterFromResponse(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

// isTransport reports whether err is a network or timeout failure.
func isTransport(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
