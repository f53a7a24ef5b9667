package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/voxlab/jarvis/llm"
)

// fakeProvider is a scriptable llm.Provider for selector and dispatcher
// tests. Safe for concurrent use.
type fakeProvider struct {
	id          llm.ProviderID
	available   bool
	unsupported map[llm.QueryKind]bool
	reply       string
	err         error

	mu    sync.Mutex
	calls int
	seen  [][]llm.ChatMessage
}

func (f *fakeProvider) ID() llm.ProviderID { return f.id }
func (f *fakeProvider) Name() string       { return f.id.Vendor() }
func (f *fakeProvider) Model() string      { return "fake-model" }

func (f *fakeProvider) Available(ctx context.Context) bool { return f.available }

func (f *fakeProvider) Supports(kind llm.QueryKind) bool { return !f.unsupported[kind] }

func (f *fakeProvider) Chat(ctx context.Context, messages []llm.ChatMessage) (llm.LLMResponse, error) {
	f.mu.Lock()
	f.calls++
	f.seen = append(f.seen, messages)
	f.mu.Unlock()

	if f.err != nil {
		return llm.LLMResponse{}, f.err
	}
	return llm.LLMResponse{Content: f.reply}, nil
}

func (f *fakeProvider) StreamChat(ctx context.Context, messages []llm.ChatMessage, chunks chan<- string) (*llm.TokenUsage, error) {
	resp, err := f.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}
	chunks <- resp.Content
	return nil, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) lastMessages() []llm.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.seen) == 0 {
		return nil
	}
	return f.seen[len(f.seen)-1]
}

var _ llm.Provider = (*fakeProvider)(nil)

func fakeSet(available ...llm.ProviderID) map[llm.ProviderID]llm.Provider {
	avail := make(map[llm.ProviderID]bool)
	for _, id := range available {
		avail[id] = true
	}
	providers := make(map[llm.ProviderID]llm.Provider)
	for _, id := range llm.AllProviderIDs() {
		providers[id] = &fakeProvider{id: id, available: avail[id], reply: "reply from " + id.String()}
	}
	return providers
}

func TestClassifyCascade(t *testing.T) {
	tests := []struct {
		text string
		want llm.QueryKind
	}{
		{"generate an image of a sunset", llm.KindImageGen},
		{"draw me a cat", llm.KindImageGen},
		{"write code to parse YAML", llm.KindCodeGen},
		{"implement a function that sorts", llm.KindCodeGen},
		{"analyze this image of my receipt", llm.KindVision},
		{"explain the theory of relativity", llm.KindComplexReasoning},
		{"why is the sky blue", llm.KindComplexReasoning},
		{"hi there", llm.KindFastSimple},
		{
			"I would like to get your thoughts on the overall direction our team should take next quarter",
			llm.KindChat,
		},
	}
	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// Contains both an image cue and a code cue; image is checked first.
	if got := Classify("draw a function diagram"); got != llm.KindImageGen {
		t.Errorf("got %v, want image_gen (cascade order)", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "explain how caching works"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		if got := Classify(text); got != first {
			t.Fatalf("classification changed between runs")
		}
	}
}

func TestSelectPrefersConfiguredProvider(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud, llm.ProviderSecondaryCloud)
	s := NewSelector(providers, WithPreferences(map[llm.QueryKind]llm.ProviderID{
		llm.KindCodeGen: llm.ProviderSecondaryCloud,
	}))

	p, err := s.Select(context.Background(), llm.KindCodeGen)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if p.ID() != llm.ProviderSecondaryCloud {
		t.Errorf("got %v, want the preferred provider", p.ID())
	}
}

func TestSelectFallsBackWhenPreferredUnavailable(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud, llm.ProviderLocal)
	s := NewSelector(providers, WithPreferences(map[llm.QueryKind]llm.ProviderID{
		llm.KindCodeGen: llm.ProviderSecondaryCloud, // not available
	}))

	p, err := s.Select(context.Background(), llm.KindCodeGen)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if p.ID() != llm.ProviderPrimaryCloud {
		t.Errorf("got %v, want first available in fallback order", p.ID())
	}
}

func TestSelectAutoFollowsFallbackOrder(t *testing.T) {
	providers := fakeSet(llm.ProviderResearchCloud, llm.ProviderLocal)
	s := NewSelector(providers, WithPreferences(map[llm.QueryKind]llm.ProviderID{
		llm.KindChat: ProviderAuto,
	}))

	p, err := s.Select(context.Background(), llm.KindChat)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if p.ID() != llm.ProviderResearchCloud {
		t.Errorf("got %v, want research_cloud (first available)", p.ID())
	}
}

func TestSelectSkipsProvidersLackingKindSupport(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud, llm.ProviderSecondaryCloud)
	// primary_cloud cannot do vision; secondary_cloud can.
	providers[llm.ProviderPrimaryCloud].(*fakeProvider).unsupported = map[llm.QueryKind]bool{
		llm.KindVision: true,
	}
	s := NewSelector(providers)

	p, err := s.Select(context.Background(), llm.KindVision)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if p.ID() != llm.ProviderSecondaryCloud {
		t.Errorf("got %v, want the provider that supports vision", p.ID())
	}
}

func TestSelectLastResortIgnoresKindSupport(t *testing.T) {
	// Only one provider is up and it does not support the kind; it is
	// still chosen over stranding the request.
	providers := fakeSet(llm.ProviderLocal)
	providers[llm.ProviderLocal].(*fakeProvider).unsupported = map[llm.QueryKind]bool{
		llm.KindVision: true,
	}
	s := NewSelector(providers)

	p, err := s.Select(context.Background(), llm.KindVision)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if p.ID() != llm.ProviderLocal {
		t.Errorf("got %v", p.ID())
	}
}

func TestSelectNoProviderAvailable(t *testing.T) {
	s := NewSelector(fakeSet())

	if _, err := s.Select(context.Background(), llm.KindChat); !errors.Is(err, ErrNoProviderAvailable) {
		t.Errorf("got %v, want ErrNoProviderAvailable", err)
	}
}

func TestSelectDeterministic(t *testing.T) {
	providers := fakeSet(llm.ProviderSecondaryCloud, llm.ProviderResearchCloud, llm.ProviderLocal)
	s := NewSelector(providers)

	first, err := s.Select(context.Background(), llm.KindChat)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		p, err := s.Select(context.Background(), llm.KindChat)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if p.ID() != first.ID() {
			t.Fatalf("selection changed with identical availability state")
		}
	}
}

func TestBestResponseFallsBackOnFailure(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud, llm.ProviderSecondaryCloud)
	primary := providers[llm.ProviderPrimaryCloud].(*fakeProvider)
	primary.err = &llm.TransportError{Provider: "anthropic", Err: errors.New("refused")}

	s := NewSelector(providers)

	res, err := s.BestResponse(context.Background(), "hello there", "", nil)
	if err != nil {
		t.Fatalf("BestResponse failed: %v", err)
	}
	if res.Provider != llm.ProviderSecondaryCloud {
		t.Errorf("got %v, want fallback provider", res.Provider)
	}
	if primary.callCount() != 1 {
		t.Errorf("primary called %d times, want 1", primary.callCount())
	}
}

func TestBestResponseAbortsOnAuthError(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud, llm.ProviderSecondaryCloud)
	primary := providers[llm.ProviderPrimaryCloud].(*fakeProvider)
	primary.err = &llm.AuthError{Provider: "anthropic", Err: errors.New("bad key")}
	secondary := providers[llm.ProviderSecondaryCloud].(*fakeProvider)

	s := NewSelector(providers)

	_, err := s.BestResponse(context.Background(), "hello there", "", nil)
	var auth *llm.AuthError
	if !errors.As(err, &auth) {
		t.Fatalf("got %v, want the auth error surfaced", err)
	}
	if secondary.callCount() != 0 {
		t.Errorf("auth failure must not trigger fallback, secondary called %d times", secondary.callCount())
	}
}

func TestBestResponseExhaustsRetries(t *testing.T) {
	providers := fakeSet(llm.AllProviderIDs()...)
	for _, id := range llm.AllProviderIDs() {
		providers[id].(*fakeProvider).err = &llm.ProviderError{Provider: id.Vendor(), Status: 500}
	}

	s := NewSelector(providers, WithRetries(1))

	_, err := s.BestResponse(context.Background(), "hello there", "", nil)
	if err == nil {
		t.Fatal("expected failure when every attempt fails")
	}

	total := 0
	for _, id := range llm.AllProviderIDs() {
		total += providers[id].(*fakeProvider).callCount()
	}
	if total != 2 {
		t.Errorf("made %d calls, want 2 (initial + 1 retry)", total)
	}
}

func TestBestResponseBuildsMessages(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud)
	primary := providers[llm.ProviderPrimaryCloud].(*fakeProvider)

	s := NewSelector(providers)

	history := []llm.ChatMessage{llm.UserMessage("earlier"), llm.AssistantMessage("noted")}
	if _, err := s.BestResponse(context.Background(), "now", "be brief", history); err != nil {
		t.Fatalf("BestResponse failed: %v", err)
	}

	msgs := primary.lastMessages()
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want system + history + user", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "be brief" {
		t.Errorf("first message = %+v, want the system prompt", msgs[0])
	}
	if msgs[3].Role != "user" || msgs[3].Content != "now" {
		t.Errorf("last message = %+v, want the request text", msgs[3])
	}
}

func TestSelectorStatsCountOutcomes(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud, llm.ProviderSecondaryCloud)
	providers[llm.ProviderPrimaryCloud].(*fakeProvider).err =
		&llm.TransportError{Provider: "anthropic", Err: errors.New("down")}

	s := NewSelector(providers)

	if _, err := s.BestResponse(context.Background(), "hello there", "", nil); err != nil {
		t.Fatalf("BestResponse failed: %v", err)
	}

	stats := s.Stats()
	if stats[llm.ProviderPrimaryCloud].Failures != 1 {
		t.Errorf("primary failures = %d, want 1", stats[llm.ProviderPrimaryCloud].Failures)
	}
	if stats[llm.ProviderSecondaryCloud].Successes != 1 {
		t.Errorf("secondary successes = %d, want 1", stats[llm.ProviderSecondaryCloud].Successes)
	}
}

func TestSelectorCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud, llm.ProviderSecondaryCloud)
	primary := providers[llm.ProviderPrimaryCloud].(*fakeProvider)
	primary.err = &llm.ProviderError{Provider: "anthropic", Status: 500}

	s := NewSelector(providers)

	// Each request fails once on primary before falling back.
	for i := 0; i < 3; i++ {
		if _, err := s.BestResponse(context.Background(), "hello there", "", nil); err != nil {
			t.Fatalf("BestResponse failed: %v", err)
		}
	}

	// Breaker is now open; primary must not be called again.
	before := primary.callCount()
	if _, err := s.BestResponse(context.Background(), "hello there", "", nil); err != nil {
		t.Fatalf("BestResponse failed: %v", err)
	}
	if primary.callCount() != before {
		t.Errorf("open breaker must exclude the provider from selection")
	}
}
