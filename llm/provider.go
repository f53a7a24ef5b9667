// Package llm provides LLM provider abstractions for the dispatch core.
//
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling
// - Availability probing

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing
// a consistent interface for chat completions.
//
// Implementations must be safe for concurrent use: the fan-out executor
// invokes the same provider from multiple goroutines.
type Provider interface {
	// ID returns the stable provider identifier used for selection.
	ID() ProviderID

	// Name returns the backend name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Chat sends a chat completion request.
	Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error)

	// StreamChat streams a chat completion, sending chunks to the provided
	// channel in arrival order. The sequence is finite and not restartable.
	// Returns token usage (available in final chunk when supported).
	StreamChat(ctx context.Context, messages []ChatMessage, chunks chan<- string) (*TokenUsage, error)

	// Available reports whether the provider can currently serve requests.
	// It never returns an error and never panics; at most one cheap probe
	// is performed per probe TTL.
	Available(ctx context.Context) bool

	// Supports reports whether the provider can handle the given query kind.
	Supports(kind QueryKind) bool
}
