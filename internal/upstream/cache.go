package upstream

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/salabelleza/agenda-console/internal/observability/metrics"
)

// queryCache is the per-entity response cache. Entries are keyed by the
// logical query ("all", "id-3", "fecha-2024-01-10") and live for a fixed TTL;
// any mutation on the entity wipes the whole cache rather than individual
// keys. Concurrent reads for the same key collapse into a single upstream
// request via singleflight.
type queryCache struct {
	entity  string
	ttl     time.Duration
	metrics *metrics.UpstreamMetrics
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	gen     uint64
	group   singleflight.Group
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func newQueryCache(entity string, ttl time.Duration, m *metrics.UpstreamMetrics) *queryCache {
	return &queryCache{
		entity:  entity,
		ttl:     ttl,
		metrics: m,
		now:     time.Now,
		entries: map[string]cacheEntry{},
	}
}

// invalidate drops every entry and advances the generation. Called after any
// create/update/delete/action on the entity, so the next read always hits the
// network. The generation bump also discards fetches that were already in
// flight: their result must not be stored, and later reads must not join them.
func (c *queryCache) invalidate() {
	c.mu.Lock()
	c.entries = map[string]cacheEntry{}
	c.gen++
	c.mu.Unlock()
	c.metrics.ObserveCache(c.entity, "invalidate")
}

func (c *queryCache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *queryCache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// store inserts the value only if no invalidation happened since gen was
// captured; a result fetched before a mutation never overwrites fresher state.
func (c *queryCache) store(key string, value any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl)}
}

// cached serves a read through the cache. Failed fetches are never stored, so
// an error can never masquerade as fresh data on the next read. The singleflight
// key carries the generation, so a read that starts after an invalidation never
// piggybacks on a fetch that started before it.
func cached[T any](c *queryCache, key string, fetch func() (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		c.metrics.ObserveCache(c.entity, "hit")
		return v.(T), nil
	}
	c.metrics.ObserveCache(c.entity, "miss")

	gen := c.generation()
	v, err, _ := c.group.Do(fmt.Sprintf("%d:%s", gen, key), func() (any, error) {
		got, err := fetch()
		if err != nil {
			return nil, err
		}
		c.store(key, got, gen)
		return got, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
