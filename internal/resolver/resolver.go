// internal/resolver/resolver.go
//
// Configuration resolution engine.
//
// Context
// -------
// Given a domain name and an optional language, the engine walks a fixed
// two-axis fallback chain and returns the effective configuration with
// provenance flags.  Language resolution probes, in strict order:
//
//   1. (this domain, requested language)
//   2. (this domain, default language)    — only when requested ≠ default
//   3. (fallback domain, requested language)
//   4. (fallback domain, default language)
//
// stopping at the first hit.  Steps 3 and 4 run only when the fallback
// pointer is set and its target is active.  Default resolution considers
// the domain's own default_config, then an active fallback's.  The chain
// is exactly one hop deep, so a resolution costs at most four store
// lookups (two for the default variant).
//
// The engine is stateless per call; inactive domains are indistinguishable
// from absent ones on this path.  Documents are returned verbatim, never
// merged across languages or domains.
//
// The Store interface is the minimal contract the engine needs.  It is
// defined here, consumer-side, so tests can substitute an in-memory fake
// without touching sqlx (same pattern as a tenant interface in a routing
// middleware).
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package resolver

import (
	"context"

	"github.com/yanizio/domainconf/internal/domain"
	"github.com/yanizio/domainconf/internal/errs"
	"github.com/yanizio/domainconf/internal/metrics"
	"github.com/yanizio/domainconf/internal/siteconfig"
)

// Store is the read surface the engine consumes.
type Store interface {
	DomainByName(ctx context.Context, name string) (*domain.Record, error)
	DomainByID(ctx context.Context, id uint64) (*domain.Record, error)
	ConfigByDomainAndLanguage(ctx context.Context, domainID uint64, language string) (*siteconfig.Record, error)
}

// Engine resolves (domain, language) queries against a Store.
type Engine struct {
	store Store
	langs Languages
}

// New constructs an Engine.  Both collaborators are injected; the engine
// keeps no other state.
func New(store Store, langs Languages) *Engine {
	return &Engine{store: store, langs: langs}
}

// Languages exposes the process-wide language configuration, so the
// service layer can reuse the same admission rules.
func (e *Engine) Languages() Languages { return e.langs }

// ResolveLanguage returns the language-specific configuration answering
// (name, requested), walking the four-step fallback chain.
func (e *Engine) ResolveLanguage(ctx context.Context, name, requested string) (*Result, error) {
	requested, err := e.langs.Normalize(requested)
	if err != nil {
		return nil, err
	}
	name, err = domain.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	d, err := e.visibleDomain(ctx, name)
	if err != nil {
		return nil, err
	}

	actual, actualLang := d, requested

	cfg, err := e.probe(ctx, d.ID, requested)
	if err != nil {
		return nil, err
	}

	if cfg == nil && requested != e.langs.Default {
		if cfg, err = e.probe(ctx, d.ID, e.langs.Default); err != nil {
			return nil, err
		}
		if cfg != nil {
			actualLang = e.langs.Default
		}
	}

	if cfg == nil {
		fb, err := e.activeFallback(ctx, d)
		if err != nil {
			return nil, err
		}
		if fb != nil {
			if cfg, err = e.probe(ctx, fb.ID, requested); err != nil {
				return nil, err
			}
			if cfg != nil {
				actual, actualLang = fb, requested
			} else if requested != e.langs.Default {
				if cfg, err = e.probe(ctx, fb.ID, e.langs.Default); err != nil {
					return nil, err
				}
				if cfg != nil {
					actual, actualLang = fb, e.langs.Default
				}
			}
		}
	}

	if cfg == nil {
		return nil, errs.NotFoundf("no language configuration for domain %q", name)
	}

	if actual.ID != d.ID {
		metrics.DomainFallbackTotal.Inc()
	}
	if actualLang != requested {
		metrics.LanguageFallbackTotal.Inc()
	}

	req := requested
	return &Result{
		Domain:            name,
		ActualDomain:      actual.Name,
		Language:          actualLang,
		RequestedLanguage: &req,
		IsFallback:        actualLang != requested,
		IsDomainFallback:  actual.ID != d.ID,
		Data:              cfg.Data,
	}, nil
}

// ResolveDefault returns the language-agnostic default_config answering
// name, consulting the one-hop fallback domain when the primary has none.
func (e *Engine) ResolveDefault(ctx context.Context, name string) (*Result, error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	d, err := e.visibleDomain(ctx, name)
	if err != nil {
		return nil, err
	}

	actual := d
	if !d.HasDefaultConfig() {
		fb, err := e.activeFallback(ctx, d)
		if err != nil {
			return nil, err
		}
		if fb == nil || !fb.HasDefaultConfig() {
			return nil, errs.NotFoundf("no default configuration for domain %q", name)
		}
		actual = fb
		metrics.DomainFallbackTotal.Inc()
	}

	return &Result{
		Domain:            name,
		ActualDomain:      actual.Name,
		Language:          DefaultLanguageValue,
		RequestedLanguage: nil,
		IsFallback:        false,
		IsDomainFallback:  actual.ID != d.ID,
		Data:              actual.DefaultConfig,
	}, nil
}

// visibleDomain looks up name and hides inactive rows: an inactive domain
// yields the same NotFoundError as an absent one.
func (e *Engine) visibleDomain(ctx context.Context, name string) (*domain.Record, error) {
	d, err := e.store.DomainByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, errs.NotFoundf("domain %q not found", name)
	}
	return d, nil
}

// activeFallback returns the domain's fallback target when it is set,
// still present, and active; nil otherwise.  A dangling pointer is treated
// as no fallback, not as an error.
func (e *Engine) activeFallback(ctx context.Context, d *domain.Record) (*domain.Record, error) {
	if d.FallbackDomainID == nil {
		return nil, nil
	}
	fb, err := e.store.DomainByID(ctx, *d.FallbackDomainID)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !fb.IsActive {
		return nil, nil
	}
	return fb, nil
}

// probe fetches one (domain, language) config row, mapping "absent" to a
// nil record so the caller can keep walking the chain.
func (e *Engine) probe(ctx context.Context, domainID uint64, language string) (*siteconfig.Record, error) {
	cfg, err := e.store.ConfigByDomainAndLanguage(ctx, domainID, language)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}
