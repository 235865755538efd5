// internal/service/query.go
//
// Public query service: cached resolution.
//
// Context
// -------
// The read path is validation → cache → engine → store, then a cache
// populate before returning.  Inputs are normalized *before* the cache
// lookup so "en-US", " en-US ", and a blank language requesting the
// default all land on the same variant key.  Concurrent misses for the
// same (domain, variant) are collapsed through singleflight; population
// races that remain are benign, because equal inputs yield equal results
// at any instant.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package service

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/domainconf/internal/cache"
	"github.com/yanizio/domainconf/internal/domain"
	"github.com/yanizio/domainconf/internal/metrics"
	"github.com/yanizio/domainconf/internal/resolver"
)

// Queries serves the two public resolution operations.
type Queries struct {
	engine *resolver.Engine
	cache  *cache.Cache
	sfg    singleflight.Group
}

// NewQueries constructs the service.
func NewQueries(engine *resolver.Engine, c *cache.Cache) *Queries {
	return &Queries{engine: engine, cache: c}
}

// ResolveLanguage answers a language query for name, applying the cache
// and the engine's fallback chain.
func (q *Queries) ResolveLanguage(ctx context.Context, name, language string) (*resolver.Result, error) {
	metrics.ResolutionTotal.WithLabelValues("language").Inc()

	language, err := q.engine.Languages().Normalize(language)
	if err != nil {
		metrics.ResolutionErrorsTotal.WithLabelValues("language").Inc()
		return nil, err
	}
	name, err = domain.NormalizeName(name)
	if err != nil {
		metrics.ResolutionErrorsTotal.WithLabelValues("language").Inc()
		return nil, err
	}

	res, err := q.resolve(ctx, name, cache.VariantLanguage(language), func() (*resolver.Result, error) {
		return q.engine.ResolveLanguage(ctx, name, language)
	})
	if err != nil {
		metrics.ResolutionErrorsTotal.WithLabelValues("language").Inc()
	}
	return res, err
}

// ResolveDefault answers the language-agnostic default query for name.
func (q *Queries) ResolveDefault(ctx context.Context, name string) (*resolver.Result, error) {
	metrics.ResolutionTotal.WithLabelValues("default").Inc()

	name, err := domain.NormalizeName(name)
	if err != nil {
		metrics.ResolutionErrorsTotal.WithLabelValues("default").Inc()
		return nil, err
	}

	res, err := q.resolve(ctx, name, cache.VariantDefault, func() (*resolver.Result, error) {
		return q.engine.ResolveDefault(ctx, name)
	})
	if err != nil {
		metrics.ResolutionErrorsTotal.WithLabelValues("default").Inc()
	}
	return res, err
}

// resolve is the shared read-through: cache hit, else one engine run per
// in-flight (domain, variant) key, then populate.
func (q *Queries) resolve(ctx context.Context, name, variant string, run func() (*resolver.Result, error)) (*resolver.Result, error) {
	if res, ok := q.cache.Get(name, variant); ok {
		metrics.CacheHitsTotal.Inc()
		return &res, nil
	}
	metrics.CacheMissesTotal.Inc()

	v, err, _ := q.sfg.Do(name+"\x00"+variant, func() (any, error) {
		res, err := run()
		if err != nil {
			return nil, err
		}
		q.cache.Set(name, variant, *res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*resolver.Result), nil
}
