// Provider identifiers and the default fallback ordering.
//
// Identifiers name deployment roles rather than vendors so operators can
// rebind the backend behind a role without touching call sites.

package llm

import (
	"fmt"
	"strings"
)

// ProviderID identifies a provider slot in the dispatch core.
type ProviderID int

const (
	// ProviderPrimaryCloud is the main hosted backend (Anthropic).
	ProviderPrimaryCloud ProviderID = iota
	// ProviderSecondaryCloud is the second hosted backend (OpenAI).
	ProviderSecondaryCloud
	// ProviderResearchCloud is the auxiliary hosted backend (Gemini).
	ProviderResearchCloud
	// ProviderLocal is a local OpenAI-compatible inference server.
	ProviderLocal
)

// String returns the string representation of the provider id.
func (p ProviderID) String() string {
	switch p {
	case ProviderPrimaryCloud:
		return "primary_cloud"
	case ProviderSecondaryCloud:
		return "secondary_cloud"
	case ProviderResearchCloud:
		return "research_cloud"
	case ProviderLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Vendor returns the backend vendor behind this provider slot.
func (p ProviderID) Vendor() string {
	switch p {
	case ProviderPrimaryCloud:
		return "anthropic"
	case ProviderSecondaryCloud:
		return "openai"
	case ProviderResearchCloud:
		return "gemini"
	case ProviderLocal:
		return "local"
	default:
		return "unknown"
	}
}

// EnvVar returns the environment variable holding the provider's API key.
// The local provider needs no key and returns "".
func (p ProviderID) EnvVar() string {
	switch p {
	case ProviderPrimaryCloud:
		return "ANTHROPIC_API_KEY"
	case ProviderSecondaryCloud:
		return "OPENAI_API_KEY"
	case ProviderResearchCloud:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// DefaultModel returns the default model for this provider slot.
func (p ProviderID) DefaultModel() string {
	switch p {
	case ProviderPrimaryCloud:
		return "claude-sonnet-4-20250514"
	case ProviderSecondaryCloud:
		return "gpt-4o"
	case ProviderResearchCloud:
		return "gemini-2.5-flash"
	case ProviderLocal:
		return "llama3.1"
	default:
		return ""
	}
}

// ParseProviderID parses a provider id from string (case-insensitive).
// Vendor names are accepted as aliases.
func ParseProviderID(s string) (ProviderID, error) {
	switch strings.ToLower(s) {
	case "primary_cloud", "anthropic", "claude":
		return ProviderPrimaryCloud, nil
	case "secondary_cloud", "openai", "gpt":
		return ProviderSecondaryCloud, nil
	case "research_cloud", "gemini", "google":
		return ProviderResearchCloud, nil
	case "local", "ollama":
		return ProviderLocal, nil
	default:
		return 0, fmt.Errorf("unknown provider: %q", s)
	}
}

// DefaultFallbackOrder returns the order providers are tried when the
// preferred one is unavailable. The relative order of the cloud slots
// before local is fixed; operators may override the whole list in config.
func DefaultFallbackOrder() []ProviderID {
	return []ProviderID{
		ProviderPrimaryCloud,
		ProviderSecondaryCloud,
		ProviderResearchCloud,
		ProviderLocal,
	}
}

// AllProviderIDs returns every provider id in fallback order.
func AllProviderIDs() []ProviderID {
	return DefaultFallbackOrder()
}
