// Precomputed table: canned replies for trivial utterances.
//
// Lookup is an O(1) exact match on the canonicalized utterance, with a
// secondary pass over a small ordered list of substring patterns.
// The table never depends on process state.

package cache

import (
	"strings"

	"github.com/voxlab/jarvis/internal/textutil"
)

// Pattern is a substring rule checked after the exact table misses.
type Pattern struct {
	Substring string
	Reply     string
}

// Precomputed holds immutable canned replies. Safe for concurrent use
// once built.
type Precomputed struct {
	exact    map[string]string
	patterns []Pattern
}

// NewPrecomputed builds a table from exact replies and ordered substring
// patterns. Keys are canonicalized at construction.
func NewPrecomputed(exact map[string]string, patterns []Pattern) *Precomputed {
	canonical := make(map[string]string, len(exact))
	for k, v := range exact {
		canonical[textutil.Canonicalize(k)] = v
	}
	ordered := make([]Pattern, len(patterns))
	for i, p := range patterns {
		ordered[i] = Pattern{Substring: textutil.Canonicalize(p.Substring), Reply: p.Reply}
	}
	return &Precomputed{exact: canonical, patterns: ordered}
}

// DefaultExactReplies returns the built-in exact canned replies.
func DefaultExactReplies() map[string]string {
	return map[string]string{
		"hello":     "Hello! I'm JARVIS, ready to assist.",
		"hi":        "Hi there! What can I do for you?",
		"hey":       "Hey! How can I help?",
		"thanks":    "You're welcome!",
		"thank you": "You're welcome!",
		"help":      "Ask me anything. I can route requests to code, research, security, and productivity specialists.",
		"status":    "All systems operational.",
	}
}

// DefaultPatterns returns the built-in substring canned replies.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Substring: "hello", Reply: "Hello! I'm JARVIS, ready to assist."},
		{Substring: "good morning", Reply: "Good morning! What can I do for you?"},
		{Substring: "good evening", Reply: "Good evening! What can I do for you?"},
	}
}

// DefaultPrecomputed returns the built-in greetings/help/status table.
func DefaultPrecomputed() *Precomputed {
	return NewPrecomputed(DefaultExactReplies(), DefaultPatterns())
}

// Lookup returns the canned reply for text, or "" and false on no match.
func (p *Precomputed) Lookup(text string) (string, bool) {
	key := textutil.Canonicalize(text)
	if key == "" {
		return "", false
	}
	if reply, ok := p.exact[key]; ok {
		return reply, true
	}
	for _, pat := range p.patterns {
		if pat.Substring != "" && strings.Contains(key, pat.Substring) {
			return pat.Reply, true
		}
	}
	return "", false
}
