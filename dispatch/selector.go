// Provider selector: query-kind classification, deterministic provider
// choice, and resilient best-response with fallback.
//
// Information Hiding:
// - The classification cascade and its cue tables
// - Per-provider circuit breakers and success/failure counters
// - Fallback iteration over the configured provider order

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sony/gobreaker/v2"

	"github.com/voxlab/jarvis/internal/textutil"
	"github.com/voxlab/jarvis/llm"
)

// ProviderAuto in a preference table means "pick by fallback order".
const ProviderAuto llm.ProviderID = -1

// DefaultFallbackRetries is how many times BestResponse re-selects after
// a retryable failure.
const DefaultFallbackRetries = 2

// fastSimpleTokenLimit is the token count below which an uncued request
// classifies as fast_simple.
const fastSimpleTokenLimit = 10

// classificationRule is one predicate of the ordered cascade.
type classificationRule struct {
	kind llm.QueryKind
	cues []string
}

// classificationCascade is evaluated top to bottom; the first match wins.
var classificationCascade = []classificationRule{
	{llm.KindImageGen, []string{"generate image", "generate an image", "draw", "picture"}},
	{llm.KindCodeGen, []string{"write code", "function", "script"}},
	{llm.KindVision, []string{"analyze image", "describe image", "analyze this image"}},
	{llm.KindComplexReasoning, []string{"explain", "why", "how does"}},
}

// Classify derives the query kind from request text. Deterministic for
// identical input.
func Classify(text string) llm.QueryKind {
	canonical := textutil.Canonicalize(text)
	for _, rule := range classificationCascade {
		for _, cue := range rule.cues {
			if strings.Contains(canonical, cue) {
				return rule.kind
			}
		}
	}
	if len(textutil.Tokens(canonical)) < fastSimpleTokenLimit {
		return llm.KindFastSimple
	}
	return llm.KindChat
}

// BestResult is the outcome of a resilient provider call.
type BestResult struct {
	Text     string
	Provider llm.ProviderID
}

// ProviderStats counts outcomes per provider.
type ProviderStats struct {
	Successes uint64
	Failures  uint64
}

// Selector chooses providers and performs resilient chat calls.
// Safe for concurrent use; the fan-out executor calls it from multiple
// goroutines.
type Selector struct {
	providers   map[llm.ProviderID]llm.Provider
	preferences map[llm.QueryKind]llm.ProviderID
	order       []llm.ProviderID
	retries     int
	logger      *slog.Logger

	mu       sync.Mutex
	breakers map[llm.ProviderID]*gobreaker.CircuitBreaker[llm.LLMResponse]
	stats    map[llm.ProviderID]*ProviderStats
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithPreferences sets the kind -> provider preference table. Use
// ProviderAuto for kinds that should follow the fallback order.
func WithPreferences(prefs map[llm.QueryKind]llm.ProviderID) SelectorOption {
	return func(s *Selector) {
		for k, v := range prefs {
			s.preferences[k] = v
		}
	}
}

// WithFallbackOrder overrides the provider fallback ordering.
func WithFallbackOrder(order []llm.ProviderID) SelectorOption {
	return func(s *Selector) {
		if len(order) > 0 {
			s.order = append([]llm.ProviderID(nil), order...)
		}
	}
}

// WithRetries sets the maximum number of fallback re-selections.
func WithRetries(retries int) SelectorOption {
	return func(s *Selector) {
		if retries >= 0 {
			s.retries = retries
		}
	}
}

// WithSelectorLogger sets the logger.
func WithSelectorLogger(logger *slog.Logger) SelectorOption {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSelector creates a selector over the given providers.
func NewSelector(providers map[llm.ProviderID]llm.Provider, opts ...SelectorOption) *Selector {
	s := &Selector{
		providers:   providers,
		preferences: make(map[llm.QueryKind]llm.ProviderID),
		order:       llm.DefaultFallbackOrder(),
		retries:     DefaultFallbackRetries,
		logger:      slog.Default(),
		breakers:    make(map[llm.ProviderID]*gobreaker.CircuitBreaker[llm.LLMResponse]),
		stats:       make(map[llm.ProviderID]*ProviderStats),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// breaker returns (or lazily creates) the circuit breaker for a provider.
func (s *Selector) breaker(id llm.ProviderID) *gobreaker.CircuitBreaker[llm.LLMResponse] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[id]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker[llm.LLMResponse](gobreaker.Settings{
		Name: id.String(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	s.breakers[id] = cb
	return cb
}

func (s *Selector) recordOutcome(id llm.ProviderID, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, exists := s.stats[id]
	if !exists {
		st = &ProviderStats{}
		s.stats[id] = st
	}
	if ok {
		st.Successes++
	} else {
		st.Failures++
	}
}

// Stats returns a snapshot of per-provider outcome counters.
func (s *Selector) Stats() map[llm.ProviderID]ProviderStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[llm.ProviderID]ProviderStats, len(s.stats))
	for id, st := range s.stats {
		out[id] = *st
	}
	return out
}

// usable reports whether a provider can serve requests right now: the
// adapter reports available and its circuit breaker is not open.
func (s *Selector) usable(ctx context.Context, id llm.ProviderID) bool {
	p, ok := s.providers[id]
	if !ok {
		return false
	}
	if s.breaker(id).State() == gobreaker.StateOpen {
		return false
	}
	return p.Available(ctx)
}

// Select chooses the best available provider for a query kind.
// Deterministic for identical availability state and preferences:
// the configured preference first, then the fallback order, preferring
// providers that support the kind.
func (s *Selector) Select(ctx context.Context, kind llm.QueryKind) (llm.Provider, error) {
	return s.selectExcluding(ctx, kind, nil)
}

func (s *Selector) selectExcluding(ctx context.Context, kind llm.QueryKind, excluded map[llm.ProviderID]bool) (llm.Provider, error) {
	if pref, ok := s.preferences[kind]; ok && pref != ProviderAuto && !excluded[pref] {
		if s.usable(ctx, pref) {
			return s.providers[pref], nil
		}
	}

	// First pass: providers that support the kind. Second pass: any
	// available provider, so an unusual kind never strands a request.
	var fallback llm.Provider
	for _, id := range s.order {
		if excluded[id] || !s.usable(ctx, id) {
			continue
		}
		p := s.providers[id]
		if p.Supports(kind) {
			return p, nil
		}
		if fallback == nil {
			fallback = p
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, ErrNoProviderAvailable
}

// BestResponse performs a resilient chat call: select a provider, call
// it, and on retryable failure re-select from the remaining providers in
// fallback order, at most retries times. Auth failures and exhaustion
// surface the last error.
func (s *Selector) BestResponse(ctx context.Context, text, system string, history []llm.ChatMessage) (BestResult, error) {
	kind := Classify(text)

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	if system != "" {
		messages = append(messages, llm.SystemMessage(system))
	}
	messages = append(messages, history...)
	messages = append(messages, llm.UserMessage(text))

	excluded := make(map[llm.ProviderID]bool)
	var lastErr error

	for attempt := 0; attempt <= s.retries; attempt++ {
		p, err := s.selectExcluding(ctx, kind, excluded)
		if err != nil {
			if lastErr != nil {
				return BestResult{}, lastErr
			}
			return BestResult{}, err
		}

		resp, err := s.invoke(ctx, p, messages)
		if err == nil {
			s.recordOutcome(p.ID(), true)
			return BestResult{Text: resp.Content, Provider: p.ID()}, nil
		}

		s.recordOutcome(p.ID(), false)
		excluded[p.ID()] = true
		lastErr = err
		s.logger.Warn("provider call failed, falling back",
			"provider", p.ID().String(),
			"kind", kind.String(),
			"attempt", attempt,
			"error", err,
		)

		if !llm.Retryable(err) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	return BestResult{}, lastErr
}

// invoke runs one provider call through its circuit breaker.
func (s *Selector) invoke(ctx context.Context, p llm.Provider, messages []llm.ChatMessage) (llm.LLMResponse, error) {
	resp, err := s.breaker(p.ID()).Execute(func() (llm.LLMResponse, error) {
		return p.Chat(ctx, messages)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return llm.LLMResponse{}, &llm.TransportError{
			Provider: p.Name(),
			Err:      fmt.Errorf("circuit open: %w", err),
		}
	}
	return resp, err
}
