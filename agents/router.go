// Intent router: maps request text to the specialists that apply.
//
// Pure keyword matching, no I/O, no state beyond the immutable registry.
// Matches are emitted in the registry's declared priority order and
// capped at MaxAgents; an empty result means "answer directly".

package agents

import (
	"github.com/voxlab/jarvis/internal/textutil"
)

// DefaultMaxAgents caps how many specialists one request may fan out to.
const DefaultMaxAgents = 3

// Router selects specialists for a request by whole-word keyword match.
type Router struct {
	registry  *Registry
	maxAgents int
}

// NewRouter creates a router over the given registry. maxAgents <= 0
// falls back to DefaultMaxAgents.
func NewRouter(registry *Registry, maxAgents int) *Router {
	if maxAgents <= 0 {
		maxAgents = DefaultMaxAgents
	}
	return &Router{registry: registry, maxAgents: maxAgents}
}

// Select returns the specialists whose keywords appear in text as whole
// words, in priority order, capped at the router's limit. The result is
// deterministic for identical input.
func (r *Router) Select(text string) []AgentID {
	var out []AgentID
	for _, id := range r.registry.priority {
		spec := r.registry.specs[id]
		if matchesAny(text, spec.Keywords) {
			out = append(out, id)
			if len(out) == r.maxAgents {
				break
			}
		}
	}
	return out
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if textutil.ContainsWord(text, kw) {
			return true
		}
	}
	return false
}
