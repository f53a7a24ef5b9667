// Availability probing shared by all adapters.
//
// Available() must be cheap and must never fail loudly: a probe error
// simply reports the provider as unavailable. Probe results are memoized
// for a short TTL so hot-path selection never hammers a backend.

package llm

import (
	"context"
	"sync"
	"time"
)

// DefaultProbeTTL is how long a probe result is trusted before the next
// call to Available may probe again.
const DefaultProbeTTL = 5 * time.Second

// probeTimeout bounds a single availability probe.
const probeTimeout = 2 * time.Second

// availability memoizes the result of a probe function for a TTL.
// Safe for concurrent use.
type availability struct {
	mu       sync.Mutex
	probe    func(ctx context.Context) error
	ttl      time.Duration
	lastRun  time.Time
	lastGood bool

	// now is swappable for tests.
	now func() time.Time
}

func newAvailability(probe func(ctx context.Context) error) *availability {
	return &availability{
		probe: probe,
		ttl:   DefaultProbeTTL,
		now:   time.Now,
	}
}

// check returns the memoized probe result, re-probing when the TTL has
// elapsed. A panicking or failing probe yields false.
func (a *availability) check(ctx context.Context) (ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.lastRun.IsZero() && a.now().Sub(a.lastRun) < a.ttl {
		return a.lastGood
	}

	defer func() {
		if r := recover(); r != nil {
			a.lastRun = a.now()
			a.lastGood = false
			ok = false
		}
	}()

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := a.probe(probeCtx)
	a.lastRun = a.now()
	a.lastGood = err == nil
	return a.lastGood
}
