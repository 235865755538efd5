// internal/cache/cache.go
//
// Resolution-result cache accessor.
//
// Context
// -------
// A best-effort read-through accelerator in front of the resolution
// engine, never a source of truth.  Entries are keyed by (domain name,
// variant), where the variant distinguishes query shapes cached under the
// same domain:
//
//   lang|<code>  — a specific language query
//   default      — the language-agnostic default query
//
// Invalidating a domain drops every variant, so a write to any record
// owned by (or answering for) a domain clears all of its cached shapes.
//
// The accessor is a capability: constructed disabled, every Get is a
// guaranteed miss and every Set or Invalidate is a no-op success.  Nothing
// on this path can fail in a way that blocks a request.
//
// Notes
// -----
// • Backed by jellydator/ttlcache with lazy per-entry expiry.
// • Oxford commas, two spaces after periods.
package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/yanizio/domainconf/internal/metrics"
	"github.com/yanizio/domainconf/internal/resolver"
)

// VariantDefault keys the default-query shape.
const VariantDefault = "default"

// VariantLanguage keys the language-query shape for one code.
func VariantLanguage(code string) string { return "lang|" + code }

type key struct {
	Domain  string
	Variant string
}

// Cache stores resolution results with a fixed TTL.  The zero value is a
// disabled cache; construct with New.
type Cache struct {
	c   *ttlcache.Cache[key, resolver.Result]
	ttl time.Duration
}

// New returns a ready Cache.  With enabled == false the returned accessor
// is permanently a no-op, which is the configured-off mode rather than an
// error state.
func New(ttl time.Duration, enabled bool) *Cache {
	if !enabled {
		return &Cache{}
	}
	c := ttlcache.New(
		ttlcache.WithTTL[key, resolver.Result](ttl),
		ttlcache.WithDisableTouchOnHit[key, resolver.Result](),
	)
	go c.Start()
	return &Cache{c: c, ttl: ttl}
}

// Enabled reports whether a backing store is attached.
func (c *Cache) Enabled() bool { return c != nil && c.c != nil }

// Close stops the expiry goroutine.  Safe on a disabled cache.
func (c *Cache) Close() {
	if c.Enabled() {
		c.c.Stop()
	}
}

// Get returns the cached result for (domain, variant), if present.
func (c *Cache) Get(domain, variant string) (resolver.Result, bool) {
	if !c.Enabled() {
		return resolver.Result{}, false
	}
	item := c.c.Get(key{Domain: domain, Variant: variant})
	if item == nil {
		return resolver.Result{}, false
	}
	return item.Value(), true
}

// Set stores a result under (domain, variant) with the configured TTL.
func (c *Cache) Set(domain, variant string, res resolver.Result) {
	if !c.Enabled() {
		return
	}
	c.c.Set(key{Domain: domain, Variant: variant}, res, c.ttl)
}

// InvalidateVariant drops one (domain, variant) entry.
func (c *Cache) InvalidateVariant(domain, variant string) {
	if !c.Enabled() {
		return
	}
	c.c.Delete(key{Domain: domain, Variant: variant})
	metrics.CacheInvalidationsTotal.Inc()
}

// Invalidate drops every variant cached under domain.
func (c *Cache) Invalidate(domain string) {
	if !c.Enabled() {
		return
	}
	stale := make([]key, 0, 4)
	c.c.Range(func(item *ttlcache.Item[key, resolver.Result]) bool {
		if item.Key().Domain == domain {
			stale = append(stale, item.Key())
		}
		return true
	})
	for _, k := range stale {
		c.c.Delete(k)
		metrics.CacheInvalidationsTotal.Inc()
	}
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	if !c.Enabled() {
		return
	}
	c.c.DeleteAll()
}

// Len reports the number of live entries.  Used by tests and diagnostics.
func (c *Cache) Len() int {
	if !c.Enabled() {
		return 0
	}
	return c.c.Len()
}
