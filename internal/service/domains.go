// internal/service/domains.go
//
// Domain management service.
//
// Context
// -------
// Admission (name normalization, duplicate checks), the acyclic-fallback
// invariant, and write-path cache invalidation all live here, between the
// transport and the repositories.  Cycle detection runs as a bounded walk
// over the fallback adjacency *before* any row is written; the store is
// never asked to attempt-then-rollback.
//
// Every mutation synchronously invalidates all cached variants for the
// affected domain names before returning: the domain itself, the old name
// on a rename, and any domains that resolve through this one via their
// fallback pointer.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/yanizio/domainconf/internal/cache"
	"github.com/yanizio/domainconf/internal/domain"
	"github.com/yanizio/domainconf/internal/errs"
)

// Domains provides domain CRUD with invariant enforcement.
type Domains struct {
	store Store
	cache *cache.Cache
}

// NewDomains constructs the service.  Both collaborators are injected.
func NewDomains(store Store, c *cache.Cache) *Domains {
	return &Domains{store: store, cache: c}
}

// DomainCreate carries admin input for a new domain.
type DomainCreate struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	IsActive         *bool           `json:"is_active"`
	DefaultConfig    json.RawMessage `json:"default_config"`
	FallbackDomainID *uint64         `json:"fallback_domain_id"`
}

// DomainUpdate carries partial admin input; nil fields are unchanged.  A
// literal JSON null clears default_config, and ClearFallback drops the
// fallback pointer.
type DomainUpdate struct {
	Name             *string         `json:"name"`
	Description      *string         `json:"description"`
	IsActive         *bool           `json:"is_active"`
	DefaultConfig    json.RawMessage `json:"default_config"`
	FallbackDomainID *uint64         `json:"fallback_domain_id"`
	ClearFallback    bool            `json:"clear_fallback"`
}

// Create validates and inserts a new domain.
func (s *Domains) Create(ctx context.Context, in DomainCreate) (*domain.Record, error) {
	name, err := domain.NormalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.DomainByName(ctx, name); err == nil {
		return nil, errs.Duplicatef("domain %q already exists", name)
	} else if !errs.IsNotFound(err) {
		return nil, err
	}

	doc, err := admitDocument(in.DefaultConfig, "default_config")
	if err != nil {
		return nil, err
	}

	if in.FallbackDomainID != nil {
		// Target must exist; a fresh domain cannot yet close a cycle, so
		// existence is the only check needed here.
		if _, err := s.store.DomainByID(ctx, *in.FallbackDomainID); err != nil {
			return nil, err
		}
	}

	rec := &domain.Record{
		Name:             name,
		Description:      in.Description,
		IsActive:         true,
		DefaultConfig:    doc,
		FallbackDomainID: in.FallbackDomainID,
	}
	if in.IsActive != nil {
		rec.IsActive = *in.IsActive
	}
	return s.store.CreateDomain(ctx, rec)
}

// Get returns one domain by id.
func (s *Domains) Get(ctx context.Context, id uint64) (*domain.Record, error) {
	return s.store.DomainByID(ctx, id)
}

// GetByName returns one domain by its normalized name.
func (s *Domains) GetByName(ctx context.Context, name string) (*domain.Record, error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return s.store.DomainByName(ctx, name)
}

// List returns all domains, optionally only active ones.
func (s *Domains) List(ctx context.Context, activeOnly bool) ([]domain.Record, error) {
	return s.store.Domains(ctx, activeOnly)
}

// Update applies a partial update, re-checking uniqueness and the acyclic
// invariant before writing.
func (s *Domains) Update(ctx context.Context, id uint64, in DomainUpdate) (*domain.Record, error) {
	rec, err := s.store.DomainByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldName := rec.Name

	if in.Name != nil {
		name, err := domain.NormalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		if name != oldName {
			if _, err := s.store.DomainByName(ctx, name); err == nil {
				return nil, errs.Duplicatef("domain %q already exists", name)
			} else if !errs.IsNotFound(err) {
				return nil, err
			}
		}
		rec.Name = name
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.IsActive != nil {
		rec.IsActive = *in.IsActive
	}
	if len(in.DefaultConfig) > 0 {
		doc, err := admitDocument(in.DefaultConfig, "default_config")
		if err != nil {
			return nil, err
		}
		rec.DefaultConfig = doc
	}

	switch {
	case in.ClearFallback:
		rec.FallbackDomainID = nil
	case in.FallbackDomainID != nil:
		if _, err := s.store.DomainByID(ctx, *in.FallbackDomainID); err != nil {
			return nil, err
		}
		if err := s.checkAcyclic(ctx, rec.ID, *in.FallbackDomainID); err != nil {
			return nil, err
		}
		rec.FallbackDomainID = in.FallbackDomainID
	}

	out, err := s.store.UpdateDomain(ctx, rec)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, out.ID, oldName)
	if out.Name != oldName {
		s.cache.Invalidate(out.Name)
	}
	return out, nil
}

// Delete removes a domain, its configs, and any fallback pointers aimed at
// it, then clears every affected cache entry.
func (s *Domains) Delete(ctx context.Context, id uint64) error {
	rec, err := s.store.DomainByID(ctx, id)
	if err != nil {
		return err
	}
	// Capture referrers first; after the delete their pointers are NULL
	// and the adjacency is gone.
	refs, err := s.store.DomainsReferencing(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDomain(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(rec.Name)
	for i := range refs {
		s.cache.Invalidate(refs[i].Name)
	}
	return nil
}

// checkAcyclic rejects a candidate fallback edge selfID → targetID that
// would close a cycle.  The walk follows existing fallback pointers from
// the target and is bounded by a visited set, so it terminates even on a
// corrupted graph.
func (s *Domains) checkAcyclic(ctx context.Context, selfID, targetID uint64) error {
	seen := map[uint64]bool{selfID: true}
	cur := targetID
	for {
		if seen[cur] {
			return errs.Duplicatef("fallback assignment would create a cycle")
		}
		seen[cur] = true
		d, err := s.store.DomainByID(ctx, cur)
		if err != nil {
			if errs.IsNotFound(err) {
				return nil // dangling pointer ends the chain
			}
			return err
		}
		if d.FallbackDomainID == nil {
			return nil
		}
		cur = *d.FallbackDomainID
	}
}

// invalidate drops cached variants for the domain and for every domain
// that resolves through it.  Referrer lookup failures degrade to logging;
// the cache is best-effort and never blocks a write.
func (s *Domains) invalidate(ctx context.Context, id uint64, name string) {
	s.cache.Invalidate(name)
	refs, err := s.store.DomainsReferencing(ctx, id)
	if err != nil {
		zap.L().Warn("fallback referrer lookup failed",
			zap.Uint64("domain_id", id), zap.Error(err))
		return
	}
	for i := range refs {
		s.cache.Invalidate(refs[i].Name)
	}
}

// admitDocument checks that an incoming document is well-formed JSON.  A
// literal null clears the field.
func admitDocument(doc json.RawMessage, field string) (json.RawMessage, error) {
	if len(doc) == 0 || string(doc) == "null" {
		return nil, nil
	}
	if !json.Valid(doc) {
		return nil, errs.Validationf("%s must be valid JSON", field)
	}
	return doc, nil
}
