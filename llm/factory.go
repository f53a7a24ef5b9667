// Provider factory - builder-first API for creating providers by slot.
//
// Quick Start:
//
//	// Simplest: use defaults, read API key from environment
//	primary, err := llm.ProviderPrimaryCloud.FromEnv()
//
//	// With custom model
//	fast, err := llm.ProviderSecondaryCloud.Model("gpt-4o-mini").FromEnv()
//
//	// Full configuration
//	custom, err := llm.ProviderPrimaryCloud.
//	    Model("claude-haiku-4-20250514").
//	    MaxTokens(8192).
//	    Temperature(0.3).
//	    FromEnv()

package llm

import (
	"errors"
	"os"
)

// FromEnv creates a provider with defaults, reading credentials from the
// environment.
func (p ProviderID) FromEnv() (Provider, error) {
	return NewBuilder(p).FromEnv()
}

// Model starts configuring this provider slot with a specific model.
func (p ProviderID) Model(model string) *Builder {
	return NewBuilder(p).Model(model)
}

// Builder configures a provider before construction.
type Builder struct {
	id          ProviderID
	model       string
	baseURL     string
	maxTokens   uint32
	temperature *float32
}

// NewBuilder creates a new builder for the given provider slot.
func NewBuilder(id ProviderID) *Builder {
	return &Builder{id: id}
}

// Model sets the model to use.
func (b *Builder) Model(model string) *Builder {
	b.model = model
	return b
}

// BaseURL sets the server base URL (local provider only).
func (b *Builder) BaseURL(url string) *Builder {
	b.baseURL = url
	return b
}

// MaxTokens sets maximum tokens for responses.
func (b *Builder) MaxTokens(tokens uint32) *Builder {
	b.maxTokens = tokens
	return b
}

// Temperature sets temperature (0.0 = deterministic, 1.0 = creative).
func (b *Builder) Temperature(temp float32) *Builder {
	b.temperature = &temp
	return b
}

// FromEnv builds the provider, reading the API key (or local base URL)
// from the environment. A missing key does not fail construction: the
// resulting provider reports itself unavailable, which is what the
// selector's availability check consumes.
func (b *Builder) FromEnv() (Provider, error) {
	apiKey := ""
	if env := b.id.EnvVar(); env != "" {
		apiKey = os.Getenv(env)
	}
	if b.id == ProviderLocal && b.baseURL == "" {
		b.baseURL = os.Getenv("LOCAL_LLM_BASE_URL")
	}
	return b.build(apiKey)
}

// APIKey builds the provider with an explicit API key.
func (b *Builder) APIKey(key string) (Provider, error) {
	return b.build(key)
}

func (b *Builder) build(apiKey string) (Provider, error) {
	model := b.model
	if model == "" {
		model = b.id.DefaultModel()
	}

	maxTokens := b.maxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	temperature := float32(0.7) // default
	if b.temperature != nil {
		temperature = *b.temperature
	}

	switch b.id {
	case ProviderPrimaryCloud:
		return NewAnthropicProvider(apiKey, model, maxTokens, temperature), nil
	case ProviderSecondaryCloud:
		return NewOpenAIProvider(apiKey, model, maxTokens, temperature), nil
	case ProviderResearchCloud:
		return NewGeminiProvider(apiKey, model, maxTokens, temperature), nil
	case ProviderLocal:
		return NewLocalProvider(b.baseURL, model, maxTokens, temperature), nil
	default:
		return nil, &ProviderError{Provider: b.id.String(), Err: errUnknownSlot}
	}
}

var errUnknownSlot = errors.New("unknown provider slot")

// AllFromEnv constructs every provider slot from the environment.
// Unconfigured slots still get an adapter; they simply report
// unavailable until credentials appear.
func AllFromEnv() (map[ProviderID]Provider, error) {
	providers := make(map[ProviderID]Provider, len(AllProviderIDs()))
	for _, id := range AllProviderIDs() {
		p, err := id.FromEnv()
		if err != nil {
			return nil, err
		}
		providers[id] = p
	}
	return providers, nil
}
