// YAML file configuration for operator-tunable tables.
//
// Information Hiding:
// - YAML schema details hidden behind typed accessors
// - Parsing and validation happen once at load time

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voxlab/jarvis/agents"
	"github.com/voxlab/jarvis/cache"
	"github.com/voxlab/jarvis/llm"
)

// File is the on-disk YAML configuration. Every section is optional;
// missing sections fall back to the built-in defaults.
type File struct {
	// ProviderPreferences maps query kinds to preferred providers,
	// e.g. code_gen: secondary_cloud.
	ProviderPreferences map[string]string `yaml:"provider_preferences"`

	// FallbackOrder overrides the provider fallback sequence.
	FallbackOrder []string `yaml:"fallback_order"`

	// AgentPriority overrides the specialist emission order.
	AgentPriority []string `yaml:"agent_priority"`

	// AgentKeywords adds or replaces routing keywords per specialist.
	AgentKeywords map[string][]string `yaml:"agent_keywords"`

	// Precomputed adds exact canned replies keyed by utterance.
	Precomputed map[string]string `yaml:"precomputed"`

	// PrecomputedPatterns adds ordered substring canned replies.
	PrecomputedPatterns []FilePattern `yaml:"precomputed_patterns"`
}

// FilePattern is one substring canned-reply rule.
type FilePattern struct {
	Substring string `yaml:"substring"`
	Reply     string `yaml:"reply"`
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile parses YAML config bytes.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &f, nil
}

// ProviderPreferenceMap converts the preferences section to typed ids.
func (f *File) ProviderPreferenceMap() (map[llm.QueryKind]llm.ProviderID, error) {
	if len(f.ProviderPreferences) == 0 {
		return nil, nil
	}
	out := make(map[llm.QueryKind]llm.ProviderID, len(f.ProviderPreferences))
	for kindStr, providerStr := range f.ProviderPreferences {
		kind, err := llm.ParseQueryKind(kindStr)
		if err != nil {
			return nil, fmt.Errorf("provider_preferences: %w", err)
		}
		provider, err := llm.ParseProviderID(providerStr)
		if err != nil {
			return nil, fmt.Errorf("provider_preferences: %w", err)
		}
		out[kind] = provider
	}
	return out, nil
}

// FallbackOrderList converts the fallback section to typed ids.
// Returns nil when the section is absent.
func (f *File) FallbackOrderList() ([]llm.ProviderID, error) {
	if len(f.FallbackOrder) == 0 {
		return nil, nil
	}
	out := make([]llm.ProviderID, 0, len(f.FallbackOrder))
	for _, s := range f.FallbackOrder {
		id, err := llm.ParseProviderID(s)
		if err != nil {
			return nil, fmt.Errorf("fallback_order: %w", err)
		}
		out = append(out, id)
	}
	return out, nil
}

// AgentRegistry builds a specialist registry from the built-in specs
// with the file's keyword and priority overrides applied.
func (f *File) AgentRegistry() (*agents.Registry, error) {
	specs := agents.DefaultSpecs()

	for name, keywords := range f.AgentKeywords {
		id, err := agents.ParseAgentID(name)
		if err != nil {
			return nil, fmt.Errorf("agent_keywords: %w", err)
		}
		for i := range specs {
			if specs[i].ID == id {
				specs[i].Keywords = keywords
			}
		}
	}

	priority := agents.DefaultPriority()
	if len(f.AgentPriority) > 0 {
		priority = make([]agents.AgentID, 0, len(f.AgentPriority))
		for _, name := range f.AgentPriority {
			id, err := agents.ParseAgentID(name)
			if err != nil {
				return nil, fmt.Errorf("agent_priority: %w", err)
			}
			priority = append(priority, id)
		}
	}

	return agents.NewRegistry(specs, priority), nil
}

// PrecomputedTable merges the file's canned replies over the built-in
// table. File entries win on key collision; file patterns are checked
// before the built-in ones.
func (f *File) PrecomputedTable() *cache.Precomputed {
	exact := cache.DefaultExactReplies()
	for k, v := range f.Precomputed {
		exact[k] = v
	}

	patterns := make([]cache.Pattern, 0, len(f.PrecomputedPatterns)+3)
	for _, p := range f.PrecomputedPatterns {
		patterns = append(patterns, cache.Pattern{Substring: p.Substring, Reply: p.Reply})
	}
	patterns = append(patterns, cache.DefaultPatterns()...)

	return cache.NewPrecomputed(exact, patterns)
}
