// Lazy component wiring for CLI commands.
//
// Information Hiding:
// - Construction order and inter-component dependencies
// - Config file discovery and merging with environment settings
//
// Heavy collaborators (provider adapters, the dispatcher) are built on
// first use through the component registry, so listing agents never
// touches provider construction.

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/voxlab/jarvis/agents"
	"github.com/voxlab/jarvis/cache"
	"github.com/voxlab/jarvis/config"
	"github.com/voxlab/jarvis/dispatch"
	"github.com/voxlab/jarvis/llm"
	"github.com/voxlab/jarvis/registry"
	"github.com/voxlab/jarvis/storage"
)

// Options holds CLI execution options.
type Options struct {
	ConfigPath string
	DBPath     string
	Verbose    bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		DBPath:  ".jarvis/jarvis.db",
		Verbose: false,
	}
}

// Component names resolvable from the registry built by NewComponents.
const (
	ComponentSettings   = "settings"
	ComponentFileConfig = "file_config"
	ComponentAgents     = "agent_registry"
	ComponentProviders  = "providers"
	ComponentSelector   = "selector"
	ComponentDispatcher = "dispatcher"
	ComponentHistory    = "history"
)

// NewComponents builds the lazy component registry for one CLI
// invocation. Nothing is constructed until a command resolves it.
func NewComponents(opts Options) *registry.Registry {
	logger := newLogger(opts.Verbose)
	reg := registry.New()

	mustRegister(reg, ComponentSettings, func() (any, error) {
		return config.New()
	})

	mustRegister(reg, ComponentFileConfig, func() (any, error) {
		if opts.ConfigPath == "" {
			return &config.File{}, nil
		}
		return config.LoadFile(opts.ConfigPath)
	})

	mustRegister(reg, ComponentAgents, func() (any, error) {
		file, err := registry.Resolve[*config.File](reg, ComponentFileConfig)
		if err != nil {
			return nil, err
		}
		return file.AgentRegistry()
	})

	mustRegister(reg, ComponentProviders, func() (any, error) {
		return llm.AllFromEnv()
	})

	mustRegister(reg, ComponentSelector, func() (any, error) {
		settings, err := registry.Resolve[config.Settings](reg, ComponentSettings)
		if err != nil {
			return nil, err
		}
		file, err := registry.Resolve[*config.File](reg, ComponentFileConfig)
		if err != nil {
			return nil, err
		}
		providers, err := registry.Resolve[map[llm.ProviderID]llm.Provider](reg, ComponentProviders)
		if err != nil {
			return nil, err
		}

		prefs, err := file.ProviderPreferenceMap()
		if err != nil {
			return nil, err
		}
		order, err := file.FallbackOrderList()
		if err != nil {
			return nil, err
		}

		sel := dispatch.NewSelector(providers,
			dispatch.WithPreferences(prefs),
			dispatch.WithFallbackOrder(order),
			dispatch.WithRetries(settings.Selector.FallbackRetries),
			dispatch.WithSelectorLogger(logger),
		)
		return sel, nil
	})

	mustRegister(reg, ComponentDispatcher, func() (any, error) {
		settings, err := registry.Resolve[config.Settings](reg, ComponentSettings)
		if err != nil {
			return nil, err
		}
		file, err := registry.Resolve[*config.File](reg, ComponentFileConfig)
		if err != nil {
			return nil, err
		}
		agentReg, err := registry.Resolve[*agents.Registry](reg, ComponentAgents)
		if err != nil {
			return nil, err
		}
		sel, err := registry.Resolve[*dispatch.Selector](reg, ComponentSelector)
		if err != nil {
			return nil, err
		}

		d := dispatch.New(dispatch.Config{
			Precomputed: file.PrecomputedTable(),
			Cache: cache.New(
				settings.Cache.ExactCapacity,
				time.Duration(settings.Cache.TTLSeconds)*time.Second,
				settings.Cache.SemanticCapacity,
			),
			Registry:         agentReg,
			Router:           agents.NewRouter(agentReg, 0),
			Selector:         sel,
			MaxWorkers:       settings.FanOut.MaxWorkers,
			AgentTimeout:     time.Duration(settings.FanOut.AgentTimeoutMs) * time.Millisecond,
			SynthesisTimeout: time.Duration(settings.FanOut.SynthesisTimeoutMs) * time.Millisecond,
			Logger:           logger,
		})
		return d, nil
	})

	mustRegister(reg, ComponentHistory, func() (any, error) {
		store, err := storage.OpenSqlite(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return store, nil
	})

	return reg
}

// mustRegister panics on registration failure; at wiring time every name
// is fresh, so a failure is a programming error.
func mustRegister(reg *registry.Registry, name string, ctor registry.Constructor) {
	if err := reg.Register(name, ctor); err != nil {
		panic(err)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
