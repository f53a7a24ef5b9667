// Command execution for CLI commands.
//
// Information Hiding:
// - Component resolution order hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/voxlab/jarvis/agents"
	"github.com/voxlab/jarvis/dispatch"
	"github.com/voxlab/jarvis/llm"
	"github.com/voxlab/jarvis/registry"
	"github.com/voxlab/jarvis/storage"
)

// Ask processes a single request and prints the reply.
func Ask(ctx context.Context, text string, reqContext map[string]any, opts Options) error {
	reg := NewComponents(opts)

	d, err := registry.Resolve[*dispatch.Dispatcher](reg, ComponentDispatcher)
	if err != nil {
		return err
	}

	start := time.Now()
	reply, err := d.Process(ctx, text, reqContext)
	if err != nil {
		return describeFailure(err)
	}

	fmt.Printf("%s\n", reply)
	if opts.Verbose {
		fmt.Printf("\n(%s)\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// Chat starts an interactive session. When sessionID is non-empty,
// exchanges are recorded so the session can be reviewed later.
func Chat(ctx context.Context, sessionID string, opts Options) error {
	reg := NewComponents(opts)

	d, err := registry.Resolve[*dispatch.Dispatcher](reg, ComponentDispatcher)
	if err != nil {
		return err
	}

	var store storage.HistoryStore
	if sessionID != "" {
		s, err := registry.Resolve[*storage.SqliteStore](reg, ComponentHistory)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s

		recent, err := store.Recent(ctx, sessionID, 5)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if len(recent) > 0 {
			fmt.Printf("Resuming session '%s' (%d recent exchanges)\n\n", sessionID, len(recent))
		}
	}

	fmt.Printf("Chat with JARVIS. Type 'exit' to quit.\n\n")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		start := time.Now()
		reply, err := d.Process(ctx, input, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", describeFailure(err))
			continue
		}

		fmt.Printf("\n%s\n\n", reply)

		if store != nil {
			ex := storage.NewExchange(sessionID, input, reply, "dispatch", time.Since(start))
			if err := store.Append(ctx, ex); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save exchange: %v\n", err)
			}
		}
	}

	return scanner.Err()
}

// ListAgents prints the specialist registry in priority order.
func ListAgents(opts Options) error {
	reg := NewComponents(opts)

	agentReg, err := registry.Resolve[*agents.Registry](reg, ComponentAgents)
	if err != nil {
		return err
	}

	fmt.Println("Specialists (in routing priority order):")
	fmt.Println()
	for _, id := range agentReg.Priority() {
		spec, ok := agentReg.Spec(id)
		if !ok {
			continue
		}
		fmt.Printf("  %s\n", id)
		fmt.Printf("    keywords: %s\n", strings.Join(spec.Keywords, ", "))
		if opts.Verbose {
			fmt.Printf("    prompt: %s\n", spec.SystemPrompt)
		}
		fmt.Println()
	}
	return nil
}

// ListProviders prints every provider slot with its availability and
// outcome counters.
func ListProviders(ctx context.Context, opts Options) error {
	reg := NewComponents(opts)

	providers, err := registry.Resolve[map[llm.ProviderID]llm.Provider](reg, ComponentProviders)
	if err != nil {
		return err
	}
	sel, err := registry.Resolve[*dispatch.Selector](reg, ComponentSelector)
	if err != nil {
		return err
	}

	stats := sel.Stats()

	fmt.Println("Providers (in fallback order):")
	fmt.Println()
	for _, id := range llm.DefaultFallbackOrder() {
		p, ok := providers[id]
		if !ok {
			continue
		}
		state := "unavailable"
		if p.Available(ctx) {
			state = "available"
		}
		fmt.Printf("  %-16s %-12s model=%s", id, state, p.Model())
		if st, ok := stats[id]; ok {
			fmt.Printf("  ok=%d failed=%d", st.Successes, st.Failures)
		}
		fmt.Println()
	}
	return nil
}

// Sessions prints recorded session ids, or one session's exchanges.
func Sessions(ctx context.Context, sessionID string, opts Options) error {
	reg := NewComponents(opts)

	store, err := registry.Resolve[*storage.SqliteStore](reg, ComponentHistory)
	if err != nil {
		return err
	}
	defer store.Close()

	if sessionID == "" {
		ids, err := store.Sessions(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("No recorded sessions.")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	exchanges, err := store.Recent(ctx, sessionID, 50)
	if err != nil {
		return err
	}
	for _, ex := range exchanges {
		fmt.Printf("[%s] > %s\n", ex.CreatedAt.Format(time.RFC3339), ex.Request)
		fmt.Printf("%s\n\n", ex.Reply)
	}
	return nil
}

// describeFailure maps dispatch errors to operator-friendly messages.
func describeFailure(err error) error {
	switch {
	case errors.Is(err, dispatch.ErrInvalidRequest):
		return fmt.Errorf("request text is empty")
	case errors.Is(err, dispatch.ErrNoProviderAvailable):
		return fmt.Errorf("no provider is available; set ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, or start a local server")
	default:
		return err
	}
}
