// Package textutil provides text canonicalization shared by the cache,
// router, and selector.
//
// Canonicalization rules are deliberately simple and deterministic:
// requests differing only in case or surrounding whitespace are treated
// as the same utterance.
package textutil

import (
	"strings"
	"unicode"
)

// Canonicalize returns the canonical form of an utterance: trimmed and
// lowercased. Cache keys and semantic-tier keys are built from this form.
func Canonicalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Tokens splits text into lowercase word tokens. Punctuation and other
// non-alphanumeric runes act as separators.
func Tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// significantMinLen is the minimum token length considered meaningful
// for fuzzy matching. Short function words ("a", "the", "is") never
// count as shared content.
const significantMinLen = 4

// SignificantTokens returns the tokens of text long enough to carry
// meaning for fuzzy matching.
func SignificantTokens(text string) []string {
	var out []string
	for _, tok := range Tokens(text) {
		if len(tok) >= significantMinLen {
			out = append(out, tok)
		}
	}
	return out
}

// SharesSignificantToken reports whether a and b have at least one
// significant token in common.
func SharesSignificantToken(a, b string) bool {
	set := make(map[string]struct{})
	for _, tok := range SignificantTokens(a) {
		set[tok] = struct{}{}
	}
	for _, tok := range SignificantTokens(b) {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}

// ContainsWord reports whether word appears in text as a whole word
// after canonicalization.
func ContainsWord(text, word string) bool {
	word = Canonicalize(word)
	for _, tok := range Tokens(text) {
		if tok == word {
			return true
		}
	}
	// Multi-word keywords ("write code") match as a substring on token
	// boundaries.
	if strings.Contains(word, " ") {
		return strings.Contains(" "+strings.Join(Tokens(text), " ")+" ", " "+word+" ")
	}
	return false
}
