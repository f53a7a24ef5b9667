// Dispatcher: the single public entry point of the dispatch core.
//
// One request flows precomputed -> exact cache -> semantic cache ->
// router -> (direct answer | fan-out + synthesis) -> cache write.
// A failed specialist never aborts the request; it is omitted from the
// synthesis input.

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voxlab/jarvis/agents"
	"github.com/voxlab/jarvis/cache"
)

// DefaultSynthesisTimeout bounds the final synthesis call.
const DefaultSynthesisTimeout = 30 * time.Second

// Dispatcher orchestrates one request end to end. It holds no request
// state and performs no I/O beyond delegating to its collaborators;
// safe for concurrent use.
type Dispatcher struct {
	precomputed  *cache.Precomputed
	cache        *cache.Cache
	router       *agents.Router
	registry     *agents.Registry
	selector     *Selector
	fanout       *Executor
	prompt       string
	agentTimeout time.Duration
	synthTimeout time.Duration
	logger       *slog.Logger
}

// Config wires a Dispatcher. Zero-value fields fall back to defaults.
type Config struct {
	Precomputed      *cache.Precomputed
	Cache            *cache.Cache
	Router           *agents.Router
	Registry         *agents.Registry
	Selector         *Selector
	MaxWorkers       int
	AgentTimeout     time.Duration
	SynthesisTimeout time.Duration
	Prompt           string
	Logger           *slog.Logger
}

// New creates a dispatcher. Selector is the only mandatory collaborator.
func New(cfg Config) *Dispatcher {
	if cfg.Precomputed == nil {
		cfg.Precomputed = cache.DefaultPrecomputed()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.New(0, 0, 0)
	}
	if cfg.Registry == nil {
		cfg.Registry = agents.DefaultRegistry()
	}
	if cfg.Router == nil {
		cfg.Router = agents.NewRouter(cfg.Registry, 0)
	}
	if cfg.AgentTimeout <= 0 {
		cfg.AgentTimeout = DefaultTaskTimeout
	}
	if cfg.SynthesisTimeout <= 0 {
		cfg.SynthesisTimeout = DefaultSynthesisTimeout
	}
	if cfg.Prompt == "" {
		cfg.Prompt = OrchestratorPrompt
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	d := &Dispatcher{
		precomputed:  cfg.Precomputed,
		cache:        cfg.Cache,
		router:       cfg.Router,
		registry:     cfg.Registry,
		selector:     cfg.Selector,
		prompt:       cfg.Prompt,
		agentTimeout: cfg.AgentTimeout,
		synthTimeout: cfg.SynthesisTimeout,
		logger:       cfg.Logger,
	}
	d.fanout = NewExecutor(cfg.MaxWorkers, d.invokeSpecialist, cfg.Logger)
	return d
}

// invokeSpecialist runs one specialist call through the selector with
// the agent's immutable system prompt.
func (d *Dispatcher) invokeSpecialist(ctx context.Context, task Task) (string, error) {
	res, err := d.selector.BestResponse(ctx, task.RequestText, d.registry.SystemPrompt(task.Agent), nil)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Process routes one request end to end and returns the final reply.
// It returns ErrInvalidRequest for empty text and ErrNoProviderAvailable
// when every provider and fallback is down; all other provider failures
// are absorbed by the fallback and fan-out machinery.
func (d *Dispatcher) Process(ctx context.Context, text string, reqContext map[string]any) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrInvalidRequest
	}

	if reply, ok := d.precomputed.Lookup(text); ok {
		d.logger.Debug("precomputed hit", "text_len", len(text))
		return reply, nil
	}

	if value, ok := d.cache.Get(text, reqContext); ok {
		d.logger.Debug("exact cache hit", "text_len", len(text))
		return value, nil
	}

	if value, ok := d.cache.GetSemantic(text); ok {
		d.logger.Debug("semantic cache hit", "text_len", len(text))
		return value, nil
	}

	selected := d.router.Select(text)
	if len(selected) == 0 {
		return d.direct(ctx, text, reqContext)
	}
	return d.fanOutAndSynthesize(ctx, text, reqContext, selected)
}

// direct answers without specialists: one resilient provider call.
func (d *Dispatcher) direct(ctx context.Context, text string, reqContext map[string]any) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.synthTimeout)
	defer cancel()

	res, err := d.selector.BestResponse(callCtx, text, d.prompt, nil)
	if err != nil {
		return "", d.surface(err)
	}
	if strings.TrimSpace(res.Text) == "" {
		return "", fmt.Errorf("%w: empty reply from %s", ErrSynthesisFailed, res.Provider)
	}

	d.cache.Set(text, res.Text, reqContext)
	d.cache.SetSemantic(text, res.Text)
	return res.Text, nil
}

// fanOutAndSynthesize consults the selected specialists in parallel and
// merges their insights with one synthesis call.
func (d *Dispatcher) fanOutAndSynthesize(ctx context.Context, text string, reqContext map[string]any, selected []agents.AgentID) (string, error) {
	tasks := make([]Task, len(selected))
	for i, id := range selected {
		tasks[i] = Task{Agent: id, RequestText: text, Timeout: d.agentTimeout}
	}

	results := d.fanout.Run(ctx, tasks)
	for i, r := range results {
		if !r.OK {
			d.logger.Warn("specialist failed",
				"agent", selected[i].String(),
				"error", r.Err,
				"elapsed", r.Elapsed,
			)
		}
	}

	synthesisText := assemble(text, selected, results)

	callCtx, cancel := context.WithTimeout(ctx, d.synthTimeout)
	defer cancel()

	res, err := d.selector.BestResponse(callCtx, synthesisText, d.prompt, nil)
	if err != nil {
		return "", d.surface(err)
	}
	if strings.TrimSpace(res.Text) == "" {
		return "", fmt.Errorf("%w: empty reply from %s", ErrSynthesisFailed, res.Provider)
	}

	d.cache.Set(text, res.Text, reqContext)
	d.cache.SetSemantic(text, res.Text)
	return res.Text, nil
}

// surface maps internal failures to the public error surface.
func (d *Dispatcher) surface(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoProviderAvailable) {
		return ErrNoProviderAvailable
	}
	return fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
}

// assemble builds the deterministic synthesis prompt: the user line, a
// separator, one line per successful specialist in input order, and the
// fixed synthesis instruction.
func assemble(userText string, selected []agents.AgentID, results []Result) string {
	var b strings.Builder
	b.WriteString("User request: ")
	b.WriteString(userText)
	b.WriteString("\n---\n")
	for i, id := range selected {
		if i >= len(results) || !results[i].OK {
			continue
		}
		b.WriteString("[")
		b.WriteString(id.String())
		b.WriteString("] ")
		b.WriteString(results[i].Value)
		b.WriteString("\n")
	}
	b.WriteString("---\n")
	b.WriteString("Synthesize the specialist insights above into a single reply with exactly three parts: a direct answer, one concrete next step, and at most one follow-up question.")
	return b.String()
}
