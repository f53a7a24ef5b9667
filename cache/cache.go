// Package cache provides the two-tier response cache for the dispatcher.
//
// The exact tier is an LRU map keyed by a 16-byte digest of the
// canonicalized (text, context) pair, with a global TTL. The semantic
// tier is a small FIFO of loose textual matches. The tiers are
// intentionally independent: writing to one may skip the other, and
// staleness across tiers is acceptable.
//
// Information Hiding:
// - Digest computation and canonical context encoding
// - Recency bookkeeping via container/list
// - A single mutex covers both tiers

package cache

import (
	"container/list"
	"crypto/md5"
	"encoding/json"
	"sync"
	"time"

	"github.com/voxlab/jarvis/internal/textutil"
)

const (
	// DefaultExactCapacity is the default exact-tier entry cap.
	DefaultExactCapacity = 1000
	// DefaultTTL is the default exact-tier time-to-live.
	DefaultTTL = 3600 * time.Second
	// DefaultSemanticCapacity is the default semantic-tier entry cap.
	DefaultSemanticCapacity = 100
)

// digest is the exact-tier key: 16 bytes over the canonical request.
type digest [md5.Size]byte

// Entry is a cached response with its bookkeeping fields.
type Entry struct {
	Value     string
	CreatedAt time.Time
	ExpiresAt time.Time
	HitCount  int
	LastHitAt time.Time
}

// Stats reports cache activity counters.
type Stats struct {
	ExactHits    uint64
	ExactMisses  uint64
	SemanticHits uint64
	Evictions    uint64
	ExactSize    int
	SemanticSize int
}

// Cache is the two-tier response cache. Safe for concurrent use.
type Cache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	entries  map[digest]*list.Element
	order    *list.List // recency order, most recently used at back

	semantic *semanticTier

	stats Stats

	// now is swappable for tests.
	now func() time.Time
}

// exactRecord is what the recency list holds.
type exactRecord struct {
	key   digest
	entry Entry
}

// New creates a cache with the given exact capacity, TTL, and semantic
// capacity. Non-positive values fall back to the defaults.
func New(capacity int, ttl time.Duration, semanticCapacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultExactCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if semanticCapacity <= 0 {
		semanticCapacity = DefaultSemanticCapacity
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[digest]*list.Element),
		order:    list.New(),
		semantic: newSemanticTier(semanticCapacity),
		now:      time.Now,
	}
}

// key computes the exact-tier digest: canonicalized text bytes followed
// by the canonical JSON encoding of context. encoding/json writes map
// keys in sorted order with no insignificant whitespace, which gives the
// stable encoding the key needs.
func (c *Cache) key(text string, context map[string]any) digest {
	h := md5.New()
	h.Write([]byte(textutil.Canonicalize(text)))
	if len(context) > 0 {
		if encoded, err := json.Marshal(context); err == nil {
			h.Write(encoded)
		}
	}
	var d digest
	copy(d[:], h.Sum(nil))
	return d
}

// Get looks up a response in the exact tier. Expired entries are removed
// on touch; a hit refreshes recency and hit counters without extending
// the TTL.
func (c *Cache) Get(text string, context map[string]any) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[c.key(text, context)]
	if !ok {
		c.stats.ExactMisses++
		return "", false
	}

	rec := elem.Value.(*exactRecord)
	now := c.now()
	if !now.Before(rec.entry.ExpiresAt) {
		c.removeLocked(elem)
		c.stats.ExactMisses++
		return "", false
	}

	rec.entry.HitCount++
	rec.entry.LastHitAt = now
	c.order.MoveToBack(elem)
	c.stats.ExactHits++
	return rec.entry.Value, true
}

// Set stores a response in the exact tier, evicting expired entries
// first and then the least recently used when over capacity.
func (c *Cache) Set(text, value string, context map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	key := c.key(text, context)

	if elem, ok := c.entries[key]; ok {
		rec := elem.Value.(*exactRecord)
		rec.entry.Value = value
		rec.entry.CreatedAt = now
		rec.entry.ExpiresAt = now.Add(c.ttl)
		c.order.MoveToBack(elem)
		return
	}

	for len(c.entries) >= c.capacity {
		c.evictOneLocked(now)
	}

	rec := &exactRecord{
		key: key,
		entry: Entry{
			Value:     value,
			CreatedAt: now,
			ExpiresAt: now.Add(c.ttl),
		},
	}
	c.entries[key] = c.order.PushBack(rec)
}

// evictOneLocked removes one entry: any expired entry first, otherwise
// the least recently used. Must be called with mu held and at least one
// entry present.
func (c *Cache) evictOneLocked(now time.Time) {
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		rec := elem.Value.(*exactRecord)
		if !now.Before(rec.entry.ExpiresAt) {
			c.removeLocked(elem)
			return
		}
	}
	if front := c.order.Front(); front != nil {
		c.removeLocked(front)
	}
}

func (c *Cache) removeLocked(elem *list.Element) {
	rec := elem.Value.(*exactRecord)
	delete(c.entries, rec.key)
	c.order.Remove(elem)
	c.stats.Evictions++
}

// GetSemantic looks up a response in the semantic tier.
func (c *Cache) GetSemantic(text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.semantic.get(text)
	if ok {
		c.stats.SemanticHits++
	}
	return value, ok
}

// SetSemantic stores a response in the semantic tier.
func (c *Cache) SetSemantic(text, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.semantic.set(text, value)
}

// Clear drops every entry from both tiers.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[digest]*list.Element)
	c.order.Init()
	c.semantic.clear()
}

// Len returns the current exact-tier size.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SemanticLen returns the current semantic-tier size.
func (c *Cache) SemanticLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.semantic.len()
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.ExactSize = len(c.entries)
	s.SemanticSize = c.semantic.len()
	return s
}
