// Semantic tier: loose textual matching over recent responses.
//
// Keys are canonicalized utterances. A lookup matches when the stored
// key contains, or is contained in, the canonical query AND the two
// share at least one significant token. Ties go to the most recently
// written entry. Eviction is FIFO by insertion.
//
// Locking is owned by Cache; the tier itself is not safe for
// concurrent use.

package cache

import (
	"strings"

	"github.com/voxlab/jarvis/internal/textutil"
)

type semanticEntry struct {
	key   string
	value string
}

type semanticTier struct {
	capacity int
	entries  []semanticEntry // insertion order, oldest first
	index    map[string]int  // key -> position in entries
}

func newSemanticTier(capacity int) *semanticTier {
	return &semanticTier{
		capacity: capacity,
		index:    make(map[string]int),
	}
}

func (t *semanticTier) get(text string) (string, bool) {
	query := textutil.Canonicalize(text)
	if query == "" {
		return "", false
	}

	// Newest first so the most recently written candidate wins.
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if !containsEither(e.key, query) {
			continue
		}
		if textutil.SharesSignificantToken(e.key, query) {
			return e.value, true
		}
	}
	return "", false
}

func (t *semanticTier) set(text, value string) {
	key := textutil.Canonicalize(text)
	if key == "" {
		return
	}

	if pos, ok := t.index[key]; ok {
		// Rewrite in place; recency for tie-breaking comes from position,
		// so move the entry to the end.
		t.entries = append(t.entries[:pos], t.entries[pos+1:]...)
		t.entries = append(t.entries, semanticEntry{key: key, value: value})
		t.reindex()
		return
	}

	if len(t.entries) >= t.capacity {
		oldest := t.entries[0]
		t.entries = t.entries[1:]
		delete(t.index, oldest.key)
		t.reindex()
	}

	t.index[key] = len(t.entries)
	t.entries = append(t.entries, semanticEntry{key: key, value: value})
}

func (t *semanticTier) reindex() {
	for i, e := range t.entries {
		t.index[e.key] = i
	}
}

func (t *semanticTier) clear() {
	t.entries = nil
	t.index = make(map[string]int)
}

func (t *semanticTier) len() int {
	return len(t.entries)
}

// containsEither reports whether a contains b or b contains a.
func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
