// Package config provides application settings loaded from environment
// variables, plus an optional YAML file for operator-tunable tables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Settings holds all dispatch-core configuration.
type Settings struct {
	Cache    CacheConfig
	FanOut   FanOutConfig
	Selector SelectorConfig
}

// CacheConfig holds response-cache configuration.
type CacheConfig struct {
	ExactCapacity    int
	TTLSeconds       int
	SemanticCapacity int
}

// FanOutConfig holds fan-out executor configuration.
type FanOutConfig struct {
	MaxWorkers         int
	AgentTimeoutMs     int
	SynthesisTimeoutMs int
}

// SelectorConfig holds provider-selection configuration.
type SelectorConfig struct {
	FallbackRetries int
}

// New creates settings, loading values from environment variables.
// Returns an error if an environment variable contains an invalid value.
func New() (Settings, error) {
	exactCapacity, err := getEnvInt("JARVIS_CACHE_CAPACITY", 1000)
	if err != nil {
		return Settings{}, err
	}

	ttlSeconds, err := getEnvInt("JARVIS_CACHE_TTL_SECONDS", 3600)
	if err != nil {
		return Settings{}, err
	}

	semanticCapacity, err := getEnvInt("JARVIS_CACHE_SEMANTIC_CAPACITY", 100)
	if err != nil {
		return Settings{}, err
	}

	maxWorkers, err := getEnvInt("JARVIS_FANOUT_MAX_WORKERS", 3)
	if err != nil {
		return Settings{}, err
	}

	agentTimeoutMs, err := getEnvInt("JARVIS_AGENT_TIMEOUT_MS", 15000)
	if err != nil {
		return Settings{}, err
	}

	synthesisTimeoutMs, err := getEnvInt("JARVIS_SYNTHESIS_TIMEOUT_MS", 30000)
	if err != nil {
		return Settings{}, err
	}

	fallbackRetries, err := getEnvInt("JARVIS_FALLBACK_RETRIES", 2)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Cache: CacheConfig{
			ExactCapacity:    exactCapacity,
			TTLSeconds:       ttlSeconds,
			SemanticCapacity: semanticCapacity,
		},
		FanOut: FanOutConfig{
			MaxWorkers:         maxWorkers,
			AgentTimeoutMs:     agentTimeoutMs,
			SynthesisTimeoutMs: synthesisTimeoutMs,
		},
		Selector: SelectorConfig{
			FallbackRetries: fallbackRetries,
		},
	}, nil
}

// MustNew creates settings, panicking on invalid environment values.
// Use this only when configuration errors should be fatal.
func MustNew() Settings {
	settings, err := New()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}
