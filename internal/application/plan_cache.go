package application

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/overlap-planner/internal/roster"
)

// planCache stores recently computed plan results to avoid repeated full-day
// scans for identical requests while rosters remain unchanged. Results are
// pure functions of their inputs, so cached entries are always exact.
type planCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]planCacheEntry
}

type planCacheEntry struct {
	result    PlanResult
	expiresAt time.Time
}

func newPlanCache(ttl time.Duration, maxEntries int, now func() time.Time) *planCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &planCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]planCacheEntry),
	}
}

func (c *planCache) Get(key string) (PlanResult, bool) {
	if c == nil {
		return PlanResult{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return PlanResult{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return PlanResult{}, false
	}
	return entry.result, true
}

func (c *planCache) Store(key string, result PlanResult) {
	if c == nil {
		return
	}
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = planCacheEntry{result: result, expiresAt: expiry}
}

func (c *planCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]planCacheEntry)
	c.mu.Unlock()
}

func (c *planCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *planCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

// buildPlanCacheKey fingerprints everything the computation depends on.
// Inline people sets are serialized in full; the constraint map is sorted so
// equal maps hash equally.
func buildPlanCacheKey(params ComputePlanParams) string {
	builder := strings.Builder{}
	builder.WriteString(string(params.Mode))
	builder.WriteString("|")
	builder.WriteString(params.Date)
	builder.WriteString("|")
	builder.WriteString(params.RosterID)
	builder.WriteString("|")

	if len(params.People) > 0 {
		if encoded, err := json.Marshal(params.People); err == nil {
			builder.Write(encoded)
		}
	}
	builder.WriteString("|")

	keys := make([]string, 0, len(params.Constraints))
	for username := range params.Constraints {
		keys = append(keys, username)
	}
	sort.Strings(keys)
	for _, username := range keys {
		builder.WriteString(username)
		if params.Constraints[username] == roster.PinOnline {
			builder.WriteString("=online,")
		} else {
			builder.WriteString("=offline,")
		}
	}

	builder.WriteString("|")
	if encoded, err := json.Marshal(params.Viewer); err == nil {
		builder.Write(encoded)
	}
	return builder.String()
}
