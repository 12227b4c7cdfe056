package currency

import (
	"sync"
	"time"

	"github.com/tripdesk/tripdesk/internal/domain/currency"
)

// RateCache holds at most one snapshot. The snapshot pointer is swapped as a
// whole and never mutated after Store.
type RateCache struct {
	mu       sync.RWMutex
	snapshot *currency.Snapshot
	cachedAt time.Time
}

func NewRateCache() *RateCache {
	return &RateCache{}
}

// Load returns the cached snapshot and when it was stored. ok is false when
// the cache is empty.
func (c *RateCache) Load() (snapshot *currency.Snapshot, cachedAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, time.Time{}, false
	}
	return c.snapshot, c.cachedAt, true
}

func (c *RateCache) Store(snapshot *currency.Snapshot, cachedAt time.Time) {
	c.mu.Lock()
	c.snapshot = snapshot
	c.cachedAt = cachedAt
	c.mu.Unlock()
}

func (c *RateCache) Clear() {
	c.mu.Lock()
	c.snapshot = nil
	c.cachedAt = time.Time{}
	c.mu.Unlock()
}
