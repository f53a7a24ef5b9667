package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/voxlab/jarvis/agents"
	"github.com/voxlab/jarvis/llm"
)

func newTestDispatcher(providers map[llm.ProviderID]llm.Provider) *Dispatcher {
	return New(Config{Selector: NewSelector(providers)})
}

func TestProcessPrecomputedGreeting(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud)
	d := newTestDispatcher(providers)

	reply, err := d.Process(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if reply != "Hello! I'm JARVIS, ready to assist." {
		t.Errorf("got %q", reply)
	}
	if calls := providers[llm.ProviderPrimaryCloud].(*fakeProvider).callCount(); calls != 0 {
		t.Errorf("precomputed reply must not touch a provider, %d calls", calls)
	}
}

func TestProcessInvalidRequest(t *testing.T) {
	d := newTestDispatcher(fakeSet(llm.ProviderPrimaryCloud))

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := d.Process(context.Background(), text, nil); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Process(%q) = %v, want ErrInvalidRequest", text, err)
		}
	}
}

func TestProcessDirectAnswerAndExactCache(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud)
	primary := providers[llm.ProviderPrimaryCloud].(*fakeProvider)
	d := newTestDispatcher(providers)

	text := "what time is it in Tokyo right now"
	reply, err := d.Process(context.Background(), text, nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if reply != primary.reply {
		t.Errorf("got %q", reply)
	}
	if primary.callCount() != 1 {
		t.Fatalf("provider called %d times, want 1", primary.callCount())
	}

	// The direct call carries the orchestrator prompt.
	msgs := primary.lastMessages()
	if msgs[0].Role != "system" || !strings.Contains(msgs[0].Content, "JARVIS") {
		t.Errorf("direct call must carry the orchestrator prompt, got %+v", msgs[0])
	}

	// Identical request is served from the exact cache.
	again, err := d.Process(context.Background(), text, nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if again != reply {
		t.Errorf("cached reply differs: %q vs %q", again, reply)
	}
	if primary.callCount() != 1 {
		t.Errorf("cache hit must not call the provider again, %d calls", primary.callCount())
	}
}

func TestProcessSemanticCacheHit(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud)
	primary := providers[llm.ProviderPrimaryCloud].(*fakeProvider)
	d := newTestDispatcher(providers)

	if _, err := d.Process(context.Background(), "tell me about quantum computing basics", nil); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// Shorter rephrasing contained in the original utterance.
	reply, err := d.Process(context.Background(), "quantum computing basics", nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if reply != primary.reply {
		t.Errorf("got %q", reply)
	}
	if primary.callCount() != 1 {
		t.Errorf("semantic hit must not call the provider again, %d calls", primary.callCount())
	}
}

func TestProcessFanOutAndSynthesis(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud)
	primary := providers[llm.ProviderPrimaryCloud].(*fakeProvider)
	d := newTestDispatcher(providers)

	// "encrypt" routes to security, "plan" to productivity.
	reply, err := d.Process(context.Background(), "plan to encrypt my files", nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if reply != primary.reply {
		t.Errorf("got %q", reply)
	}

	// Two specialist calls plus one synthesis call.
	if primary.callCount() != 3 {
		t.Fatalf("provider called %d times, want 3", primary.callCount())
	}

	// The synthesis call is the last one and assembles specialist output.
	msgs := primary.lastMessages()
	user := msgs[len(msgs)-1].Content
	if !strings.HasPrefix(user, "User request: plan to encrypt my files") {
		t.Errorf("synthesis input must lead with the user request, got %q", user)
	}
	if !strings.Contains(user, "[security]") || !strings.Contains(user, "[productivity]") {
		t.Errorf("synthesis input must label specialist insights, got %q", user)
	}
	if strings.Index(user, "[security]") > strings.Index(user, "[productivity]") {
		t.Errorf("insights must appear in priority order, got %q", user)
	}
}

func TestProcessFanOutResultIsCached(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud)
	primary := providers[llm.ProviderPrimaryCloud].(*fakeProvider)
	d := newTestDispatcher(providers)

	text := "plan to encrypt my files"
	if _, err := d.Process(context.Background(), text, nil); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	before := primary.callCount()

	if _, err := d.Process(context.Background(), text, nil); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if primary.callCount() != before {
		t.Errorf("repeat request must be served from cache")
	}
}

func TestProcessNoProviderAvailable(t *testing.T) {
	d := newTestDispatcher(fakeSet())

	_, err := d.Process(context.Background(), "what time is it in Tokyo right now", nil)
	if !errors.Is(err, ErrNoProviderAvailable) {
		t.Errorf("got %v, want ErrNoProviderAvailable", err)
	}
}

func TestProcessEmptyReplyIsSynthesisFailure(t *testing.T) {
	providers := fakeSet(llm.ProviderPrimaryCloud)
	providers[llm.ProviderPrimaryCloud].(*fakeProvider).reply = "   "
	d := newTestDispatcher(providers)

	_, err := d.Process(context.Background(), "what time is it in Tokyo right now", nil)
	if !errors.Is(err, ErrSynthesisFailed) {
		t.Errorf("got %v, want ErrSynthesisFailed", err)
	}
}

func TestAssembleOmitsFailedSpecialists(t *testing.T) {
	selected := []agents.AgentID{agents.AgentSecurity, agents.AgentProductivity}
	results := []Result{
		{OK: false, Err: "timeout"},
		{OK: true, Value: "break it into three steps"},
	}

	got := assemble("organize my vault", selected, results)

	if strings.Contains(got, "[security]") {
		t.Errorf("failed specialist must be omitted, got %q", got)
	}
	if !strings.Contains(got, "[productivity] break it into three steps") {
		t.Errorf("successful specialist must be labeled, got %q", got)
	}
	if !strings.Contains(got, "Synthesize the specialist insights") {
		t.Errorf("synthesis instruction missing, got %q", got)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	selected := []agents.AgentID{agents.AgentResearch, agents.AgentCreative}
	results := []Result{
		{OK: true, Value: "facts first"},
		{OK: true, Value: "three directions"},
	}

	first := assemble("name my project", selected, results)
	for i := 0; i < 5; i++ {
		if got := assemble("name my project", selected, results); got != first {
			t.Fatal("assembled prompt changed between runs")
		}
	}
}
