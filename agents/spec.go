// Package agents defines the specialist registry and the keyword router.
//
// A specialist is a named system prompt consulted to enrich the final
// answer. The registry is immutable for the lifetime of the process;
// nothing in the dispatch core mutates prompts.
package agents

import (
	"fmt"
	"strings"
)

// AgentID identifies a specialist.
type AgentID int

const (
	// AgentVoiceUX handles voice interaction and conversational design.
	AgentVoiceUX AgentID = iota
	// AgentAutomation handles workflows, scripting, and scheduling.
	AgentAutomation
	// AgentProductivity handles planning, organization, and focus.
	AgentProductivity
	// AgentSecurity handles security review and hardening advice.
	AgentSecurity
	// AgentCreative handles writing, naming, and ideation.
	AgentCreative
	// AgentResearch handles fact-finding and synthesis of sources.
	AgentResearch
)

// String returns the string representation of the agent id.
func (a AgentID) String() string {
	switch a {
	case AgentVoiceUX:
		return "voice_ux"
	case AgentAutomation:
		return "automation"
	case AgentProductivity:
		return "productivity"
	case AgentSecurity:
		return "security"
	case AgentCreative:
		return "creative"
	case AgentResearch:
		return "research"
	default:
		return "unknown"
	}
}

// ParseAgentID parses an agent id from string (case-insensitive).
func ParseAgentID(s string) (AgentID, error) {
	switch strings.ToLower(s) {
	case "voice_ux":
		return AgentVoiceUX, nil
	case "automation":
		return AgentAutomation, nil
	case "productivity":
		return AgentProductivity, nil
	case "security":
		return AgentSecurity, nil
	case "creative":
		return AgentCreative, nil
	case "research":
		return AgentResearch, nil
	default:
		return 0, fmt.Errorf("unknown agent: %q", s)
	}
}

// Spec describes one specialist: its immutable system prompt and the
// keywords that route requests to it.
type Spec struct {
	ID           AgentID
	SystemPrompt string
	Keywords     []string
}

// Registry is the immutable specialist registry plus the priority order
// the router emits matches in.
type Registry struct {
	specs    map[AgentID]Spec
	priority []AgentID
}

// NewRegistry builds a registry from specs and a priority order. Agents
// missing from the priority list are appended in declaration order so
// every spec stays reachable.
func NewRegistry(specs []Spec, priority []AgentID) *Registry {
	m := make(map[AgentID]Spec, len(specs))
	for _, s := range specs {
		m[s.ID] = s
	}

	seen := make(map[AgentID]bool, len(priority))
	ordered := make([]AgentID, 0, len(specs))
	for _, id := range priority {
		if _, ok := m[id]; ok && !seen[id] {
			ordered = append(ordered, id)
			seen[id] = true
		}
	}
	for _, s := range specs {
		if !seen[s.ID] {
			ordered = append(ordered, s.ID)
			seen[s.ID] = true
		}
	}

	return &Registry{specs: m, priority: ordered}
}

// DefaultRegistry returns the built-in specialists.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultSpecs(), DefaultPriority())
}

// Spec returns the spec for an agent id.
func (r *Registry) Spec(id AgentID) (Spec, bool) {
	s, ok := r.specs[id]
	return s, ok
}

// SystemPrompt returns the system prompt for an agent id, empty when the
// agent is not registered.
func (r *Registry) SystemPrompt(id AgentID) string {
	return r.specs[id].SystemPrompt
}

// Priority returns the deterministic emission order.
func (r *Registry) Priority() []AgentID {
	out := make([]AgentID, len(r.priority))
	copy(out, r.priority)
	return out
}

// DefaultPriority returns the built-in emission order.
func DefaultPriority() []AgentID {
	return []AgentID{
		AgentSecurity,
		AgentProductivity,
		AgentAutomation,
		AgentResearch,
		AgentCreative,
		AgentVoiceUX,
	}
}

// DefaultSpecs returns the built-in specialist definitions.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			ID: AgentVoiceUX,
			SystemPrompt: "You are a voice interaction specialist. Advise on spoken " +
				"dialogue design: short turns, confirmation strategies, and error " +
				"recovery that works without a screen. Keep answers brief enough to speak aloud.",
			Keywords: []string{"voice", "speak", "speech", "microphone", "wake word", "dialog"},
		},
		{
			ID: AgentAutomation,
			SystemPrompt: "You are an automation specialist. Propose concrete workflows, " +
				"scripts, and scheduled tasks. Prefer small composable steps and name the " +
				"trigger, the action, and the failure handling for each.",
			Keywords: []string{"automate", "automation", "workflow", "schedule", "script", "trigger"},
		},
		{
			ID: AgentProductivity,
			SystemPrompt: "You are a productivity specialist. Turn vague goals into " +
				"ordered, achievable steps with time estimates. Flag the single highest-leverage action first.",
			Keywords: []string{"plan", "organize", "productivity", "todo", "task", "deadline", "focus"},
		},
		{
			ID: AgentSecurity,
			SystemPrompt: "You are a security specialist. Review requests for risk: " +
				"authentication, data exposure, injection, and unsafe defaults. Give defensive " +
				"recommendations only; never produce exploit payloads.",
			Keywords: []string{"secure", "security", "password", "encrypt", "vulnerability", "privacy", "auth"},
		},
		{
			ID: AgentCreative,
			SystemPrompt: "You are a creative specialist. Generate names, copy, and ideas " +
				"with variety. Offer three distinct directions before refining any of them.",
			Keywords: []string{"write", "story", "name", "creative", "brainstorm", "idea", "draft"},
		},
		{
			ID: AgentResearch,
			SystemPrompt: "You are a research specialist. Summarize what is known, separate " +
				"established facts from speculation, and state confidence levels explicitly.",
			Keywords: []string{"research", "compare", "investigate", "sources", "evidence", "study"},
		},
	}
}
